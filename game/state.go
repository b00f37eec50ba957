// Package game defines the core game state types for the snake engine.
//
// These types carry no behaviour beyond small helpers; the rules package
// owns movement, collision and placement. The state is cheap to clone so
// hosts can hand snapshots to renderers without sharing mutable slices.
package game

// Point is a grid cell.
// Coordinates are screen-style: (0,0) is top-left and Y grows downwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Status is the lifecycle state of a single game.
type Status int

const (
	StatusRunning Status = iota
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}

// Cause records why a game ended.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
	CauseObstacle
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	case CauseObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// GameState is the complete state of one game.
// Food holds at most one cell; it is empty only when the board has no free cell left.
type GameState struct {
	Width     int
	Height    int
	CellSize  int
	Snake     []Point
	Obstacles []Point
	Food      []Point
	Direction Direction
	Score     int
	Speed     int
	Status    Status
	Cause     Cause
	Turn      int
}

// Head returns the first snake cell. The snake is never empty in a committed state.
func (s *GameState) Head() Point {
	return s.Snake[0]
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := *s
	out.Snake = clonePoints(s.Snake)
	out.Obstacles = clonePoints(s.Obstacles)
	out.Food = clonePoints(s.Food)
	return &out
}

func clonePoints(ps []Point) []Point {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Point, len(ps))
	copy(out, ps)
	return out
}
