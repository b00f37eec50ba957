package rules

import (
	"errors"
	"fmt"

	"github.com/brensch/snekgrid/game"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrGridTooSmall    = errors.New("grid too small")
)

// Settings holds the per-game constants: where the snake starts, how many
// obstacles are laid down and the linear score/speed ramp.
//
// Speed is a tick interval in abstract time units; a lower value ticks faster.
type Settings struct {
	Start          game.Point
	StartDirection game.Direction
	ObstacleCount  int
	ScorePerFood   int
	InitialSpeed   int
	SpeedStep      int
	MinSpeed       int
}

var DefaultSettings = Settings{
	Start:          game.Point{X: 5, Y: 5},
	StartDirection: game.Right,
	ObstacleCount:  10,
	ScorePerFood:   10,
	InitialSpeed:   150,
	SpeedStep:      5,
	MinSpeed:       50,
}

// Validate checks the settings against a width x height grid.
// The grid must hold the starting snake, every obstacle and one food cell.
func (s Settings) Validate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidSettings, width, height)
	}
	if s.Start.X < 0 || s.Start.X >= width || s.Start.Y < 0 || s.Start.Y >= height {
		return fmt.Errorf("%w: start (%d,%d) outside %dx%d grid", ErrInvalidSettings, s.Start.X, s.Start.Y, width, height)
	}
	if !s.StartDirection.Valid() {
		return fmt.Errorf("%w: start direction %d", ErrInvalidSettings, s.StartDirection)
	}
	if s.ObstacleCount < 0 || s.ScorePerFood < 0 || s.SpeedStep < 0 {
		return fmt.Errorf("%w: negative obstacle count, score or speed step", ErrInvalidSettings)
	}
	if s.MinSpeed <= 0 || s.InitialSpeed < s.MinSpeed {
		return fmt.Errorf("%w: speed %d with floor %d", ErrInvalidSettings, s.InitialSpeed, s.MinSpeed)
	}
	if need := s.ObstacleCount + 2; need > width*height {
		return fmt.Errorf("%w: %d cells needed, %dx%d has %d", ErrGridTooSmall, need, width, height, width*height)
	}
	return nil
}
