// Package render turns game snapshots into something a host can draw: a
// list of canvas operations for the browser, or a styled text board for
// terminals. Renderers only read state.
package render

import "github.com/brensch/snekgrid/game"

const (
	ObstacleFill = "#808080"
	SnakeFill    = "#4CAF50"
	FoodFill     = "#FF0000"
	OverlayFill  = "#000"
	OverlayFont  = "30px Arial"
	GameOverText = "Game Over!"
)

// Rect is a filled square in surface pixels.
type Rect struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Fill string `json:"fill"`
}

// Text is a centred label drawn on top of the board.
type Text struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Value string `json:"value"`
	Font  string `json:"font"`
	Fill  string `json:"fill"`
}

// Frame is one full redraw of the surface, in paint order.
type Frame struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Rects   []Rect `json:"rects"`
	Overlay *Text  `json:"overlay,omitempty"`
}

// Canvas lays out obstacles, then the snake, then food, then the game over
// overlay. Each cell becomes a (cellSize-1) square at (x*cellSize, y*cellSize)
// so neighbouring cells keep a one pixel gap.
func Canvas(state game.GameState) Frame {
	cs := state.CellSize
	f := Frame{
		Width:  state.Width * cs,
		Height: state.Height * cs,
		Rects:  make([]Rect, 0, len(state.Obstacles)+len(state.Snake)+len(state.Food)),
	}

	cell := func(p game.Point, fill string) Rect {
		return Rect{X: p.X * cs, Y: p.Y * cs, W: cs - 1, H: cs - 1, Fill: fill}
	}

	for _, p := range state.Obstacles {
		f.Rects = append(f.Rects, cell(p, ObstacleFill))
	}
	for _, p := range state.Snake {
		f.Rects = append(f.Rects, cell(p, SnakeFill))
	}
	for _, p := range state.Food {
		f.Rects = append(f.Rects, cell(p, FoodFill))
	}

	if state.Status == game.StatusOver {
		f.Overlay = &Text{
			X:     f.Width / 2,
			Y:     f.Height / 2,
			Value: GameOverText,
			Font:  OverlayFont,
			Fill:  OverlayFill,
		}
	}
	return f
}
