package server

import (
	"github.com/brensch/snekgrid/game"
	"github.com/brensch/snekgrid/render"
	"github.com/brensch/snekgrid/session"
)

// Client message types.
const (
	MsgKey   = "key"
	MsgStart = "start"
)

// StatusIdle replaces the game status on frames sent before the first start.
const StatusIdle = "idle"

// ClientMessage is sent by the page: a raw KeyboardEvent.key or a start click.
type ClientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// ServerMessage is one redraw pushed to the page after every update.
type ServerMessage struct {
	Type         string       `json:"type"`
	Frame        render.Frame `json:"frame"`
	Score        int          `json:"score"`
	ScoreChanged bool         `json:"scoreChanged"`
	Speed        int          `json:"speed"`
	Status       string       `json:"status"`
	Cause        string       `json:"cause,omitempty"`
	Control      string       `json:"control"`
	Turn         int          `json:"turn"`
}

func frameMessage(u session.Update) ServerMessage {
	msg := ServerMessage{
		Type:         "frame",
		Frame:        render.Canvas(u.State),
		Score:        u.State.Score,
		ScoreChanged: u.ScoreChanged,
		Speed:        u.State.Speed,
		Status:       u.State.Status.String(),
		Control:      u.Control,
		Turn:         u.State.Turn,
	}
	if u.Idle {
		msg.Status = StatusIdle
	}
	if u.State.Cause != game.CauseNone {
		msg.Cause = u.State.Cause.String()
	}
	return msg
}
