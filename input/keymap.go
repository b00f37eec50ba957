// Package input maps raw key names from the terminal and the browser to game
// intents. It has no side effects; hosts forward the results to a session.
package input

import "github.com/brensch/snekgrid/game"

// Terminal names come from bubbletea's KeyMsg.String(); browser names are
// KeyboardEvent.key values.
var directionKeys = map[string]game.Direction{
	"up":         game.Up,
	"down":       game.Down,
	"left":       game.Left,
	"right":      game.Right,
	"ArrowUp":    game.Up,
	"ArrowDown":  game.Down,
	"ArrowLeft":  game.Left,
	"ArrowRight": game.Right,
}

// Direction returns the heading for an arrow key. Unrecognized keys report false.
func Direction(key string) (game.Direction, bool) {
	d, ok := directionKeys[key]
	return d, ok
}

// IsStart reports whether key starts or restarts a game.
func IsStart(key string) bool {
	switch key {
	case "enter", " ", "space", "s", "Enter":
		return true
	}
	return false
}

func IsQuit(key string) bool {
	return key == "q" || key == "ctrl+c" || key == "esc"
}
