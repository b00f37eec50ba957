package rules

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/brensch/snekgrid/game"
)

// ErrNoFreeCell is returned when placement finds no cell that is clear of the
// snake, the obstacles and the food.
var ErrNoFreeCell = errors.New("no free cell on board")

// Salts keep the deterministic fallback for obstacles and food on different streams.
const (
	obstacleSalt uint64 = 0x4F42535441434C45 // "OBSTACLE"
	foodSalt     uint64 = 0x464F4F445F535057 // "FOOD_SPW"
)

// freeCells enumerates every cell not occupied by the snake, an obstacle or food.
// Sampling from this set replaces unbounded retry, so placement always terminates.
func freeCells(state *game.GameState) []game.Point {
	occupied := make(map[game.Point]struct{}, len(state.Snake)+len(state.Obstacles)+len(state.Food))
	for _, p := range state.Snake {
		occupied[p] = struct{}{}
	}
	for _, p := range state.Obstacles {
		occupied[p] = struct{}{}
	}
	for _, p := range state.Food {
		occupied[p] = struct{}{}
	}

	available := make([]game.Point, 0, state.Width*state.Height-len(occupied))
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			p := game.Point{X: x, Y: y}
			if _, ok := occupied[p]; ok {
				continue
			}
			available = append(available, p)
		}
	}
	return available
}

func pick(state *game.GameState, available []game.Point, rng *rand.Rand, salt uint64) int {
	if rng != nil {
		return rng.Intn(len(available))
	}
	return int(deterministicU64Fast(uint64(state.Turn)+uint64(len(state.Snake))<<32, salt) % uint64(len(available)))
}

// PlaceObstacles appends n obstacle cells, each clear of the snake and of
// the obstacles placed before it. Call it before SpawnFood; any food already
// on the board is also avoided.
func PlaceObstacles(state *game.GameState, rng *rand.Rand, n int) error {
	if n <= 0 {
		return nil
	}

	available := freeCells(state)
	for placed := 0; placed < n; placed++ {
		if len(available) == 0 {
			return fmt.Errorf("placing obstacle %d of %d: %w", placed+1, n, ErrNoFreeCell)
		}
		i := pick(state, available, rng, obstacleSalt+uint64(placed))
		state.Obstacles = append(state.Obstacles, available[i])
		// remove chosen slot
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
	}
	return nil
}

// SpawnFood replaces the food with a uniformly chosen free cell.
// It reports false, leaving no food on the board, when every cell is taken.
func SpawnFood(state *game.GameState, rng *rand.Rand) bool {
	state.Food = nil
	available := freeCells(state)
	if len(available) == 0 {
		return false
	}
	state.Food = []game.Point{available[pick(state, available, rng, foodSalt)]}
	return true
}

// deterministicU64Fast is a splitmix64 mix used when no rng is supplied,
// keeping placement reproducible in tests.
func deterministicU64Fast(a, b uint64) uint64 {
	x := a + b
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
