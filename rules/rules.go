package rules

import (
	"math/rand"
	"slices"

	"github.com/brensch/snekgrid/game"
)

// Outcome summarises what one call to Advance did.
type Outcome struct {
	Moved        bool
	Ate          bool
	ScoreChanged bool
	SpeedChanged bool
	Over         bool
	Cause        game.Cause
}

// Step returns p moved one cell in direction d.
func Step(p game.Point, d game.Direction) game.Point {
	switch d {
	case game.Up:
		p.Y--
	case game.Down:
		p.Y++
	case game.Left:
		p.X--
	case game.Right:
		p.X++
	}
	return p
}

func InBounds(state *game.GameState, p game.Point) bool {
	return p.X >= 0 && p.X < state.Width && p.Y >= 0 && p.Y < state.Height
}

// Collision reports what a head moving onto p would hit, or CauseNone.
// The snake is checked before its tail moves, so the current tail cell is
// also deadly.
func Collision(state *game.GameState, p game.Point) game.Cause {
	// 1. Bounds
	if !InBounds(state, p) {
		return game.CauseWall
	}

	// 2. Own body, tail included
	if slices.Contains(state.Snake, p) {
		return game.CauseSelf
	}

	// 3. Obstacles
	if slices.Contains(state.Obstacles, p) {
		return game.CauseObstacle
	}

	return game.CauseNone
}

// NewGame builds the starting state for one game: a single-cell snake at
// settings.Start, obstacles, then food.
func NewGame(settings Settings, width, height, cellSize int, rng *rand.Rand) (*game.GameState, error) {
	if err := settings.Validate(width, height); err != nil {
		return nil, err
	}

	state := &game.GameState{
		Width:     width,
		Height:    height,
		CellSize:  cellSize,
		Snake:     []game.Point{settings.Start},
		Direction: settings.StartDirection,
		Speed:     settings.InitialSpeed,
		Status:    game.StatusRunning,
	}

	if err := PlaceObstacles(state, rng, settings.ObstacleCount); err != nil {
		return nil, err
	}
	if !SpawnFood(state, rng) {
		return nil, ErrNoFreeCell
	}
	return state, nil
}

// Advance moves the snake one cell in state.Direction, mutating state in place.
// It is a no-op once the game is over; a collision ends the game without
// touching anything else.
func Advance(state *game.GameState, rng *rand.Rand, settings Settings) Outcome {
	if state == nil || state.Status == game.StatusOver || len(state.Snake) == 0 {
		return Outcome{Over: true, Cause: causeOf(state)}
	}

	newHead := Step(state.Head(), state.Direction)

	if cause := Collision(state, newHead); cause != game.CauseNone {
		state.Status = game.StatusOver
		state.Cause = cause
		return Outcome{Over: true, Cause: cause}
	}

	out := Outcome{Moved: true}
	state.Turn++

	body := make([]game.Point, 0, len(state.Snake)+1)
	body = append(body, newHead)
	body = append(body, state.Snake...)

	if len(state.Food) > 0 && state.Food[0] == newHead {
		state.Snake = body
		state.Score += settings.ScorePerFood
		out.Ate = true
		out.ScoreChanged = settings.ScorePerFood != 0

		SpawnFood(state, rng)

		if state.Speed > settings.MinSpeed {
			next := state.Speed - settings.SpeedStep
			if next < settings.MinSpeed {
				next = settings.MinSpeed
			}
			out.SpeedChanged = next != state.Speed
			state.Speed = next
		}
		return out
	}

	// Remove tail
	state.Snake = body[:len(body)-1]
	return out
}

func causeOf(state *game.GameState) game.Cause {
	if state == nil {
		return game.CauseNone
	}
	return state.Cause
}
