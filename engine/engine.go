// Package engine holds a single snake game and exposes the operations a host
// loop needs: Reset, SetDirection, AdvanceTick and read-only accessors.
//
// An Engine is not safe for concurrent use. Hosts serialize every call onto
// one goroutine (see the session package).
package engine

import (
	"math/rand"
	"time"

	"github.com/brensch/snekgrid/game"
	"github.com/brensch/snekgrid/rules"
)

type Engine struct {
	settings rules.Settings
	rng      *rand.Rand
	state    *game.GameState
	// pending is applied to state.Direction at the start of the next tick.
	pending game.Direction
}

// New validates settings against the grid and starts the first game.
// A nil rng selects deterministic placement.
func New(settings rules.Settings, width, height, cellSize int, rng *rand.Rand) (*Engine, error) {
	e := &Engine{settings: settings, rng: rng}
	if err := e.Reset(width, height, cellSize); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset starts a new game on a width x height grid. On error the previous
// game is left untouched.
func (e *Engine) Reset(width, height, cellSize int) error {
	state, err := rules.NewGame(e.settings, width, height, cellSize, e.rng)
	if err != nil {
		return err
	}
	e.state = state
	e.pending = state.Direction
	return nil
}

// SetDirection queues a turn for the next tick. Invalid directions and the
// exact reverse of the committed heading are ignored. A turn queued earlier
// in the same tick is replaced.
func (e *Engine) SetDirection(d game.Direction) bool {
	if !d.Valid() || d == e.state.Direction.Opposite() {
		return false
	}
	e.pending = d
	return true
}

// AdvanceTick commits the pending direction and moves the snake one cell.
// Once the game is over it changes nothing until the next Reset.
func (e *Engine) AdvanceTick() rules.Outcome {
	if e.state.Status == game.StatusOver {
		return rules.Outcome{Over: true, Cause: e.state.Cause}
	}
	e.state.Direction = e.pending
	return rules.Advance(e.state, e.rng, e.settings)
}

// State returns a deep copy of the current game.
func (e *Engine) State() game.GameState {
	return *e.state.Clone()
}

func (e *Engine) Snake() []game.Point {
	return append([]game.Point(nil), e.state.Snake...)
}

func (e *Engine) Obstacles() []game.Point {
	return append([]game.Point(nil), e.state.Obstacles...)
}

// Food returns the food cell, or false when the board had no room for one.
func (e *Engine) Food() (game.Point, bool) {
	if len(e.state.Food) == 0 {
		return game.Point{}, false
	}
	return e.state.Food[0], true
}

func (e *Engine) Score() int                { return e.state.Score }
func (e *Engine) Speed() int                { return e.state.Speed }
func (e *Engine) Status() game.Status       { return e.state.Status }
func (e *Engine) Cause() game.Cause         { return e.state.Cause }
func (e *Engine) Direction() game.Direction { return e.state.Direction }
func (e *Engine) Width() int                { return e.state.Width }
func (e *Engine) Height() int               { return e.state.Height }
func (e *Engine) CellSize() int             { return e.state.CellSize }

// Interval converts the current speed into a tick period.
func (e *Engine) Interval(unit time.Duration) time.Duration {
	return time.Duration(e.state.Speed) * unit
}
