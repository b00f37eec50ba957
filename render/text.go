package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekgrid/game"
)

const (
	glyphEmpty    = '.'
	glyphObstacle = '#'
	glyphHead     = '@'
	glyphBody     = 'o'
	glyphFood     = '*'
)

// Styles colours each kind of cell on a terminal board.
type Styles struct {
	Empty    lipgloss.Style
	Obstacle lipgloss.Style
	Snake    lipgloss.Style
	Food     lipgloss.Style
	Overlay  lipgloss.Style
}

// DefaultStyles uses the same palette as the browser canvas.
func DefaultStyles() *Styles {
	return &Styles{
		Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a")),
		Obstacle: lipgloss.NewStyle().Foreground(lipgloss.Color(ObstacleFill)),
		Snake:    lipgloss.NewStyle().Foreground(lipgloss.Color(SnakeFill)).Bold(true),
		Food:     lipgloss.NewStyle().Foreground(lipgloss.Color(FoodFill)),
		Overlay:  lipgloss.NewStyle().Reverse(true).Bold(true),
	}
}

// Board draws the grid as text, one rune per cell, rows top to bottom.
// Later layers win, matching the canvas order. A nil styles draws plain text.
func Board(state game.GameState, styles *Styles) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	grid := make([][]rune, state.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(glyphEmpty), state.Width))
	}
	put := func(p game.Point, r rune) {
		if p.X >= 0 && p.X < state.Width && p.Y >= 0 && p.Y < state.Height {
			grid[p.Y][p.X] = r
		}
	}

	for _, p := range state.Obstacles {
		put(p, glyphObstacle)
	}
	for i := len(state.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			put(state.Snake[i], glyphHead)
		} else {
			put(state.Snake[i], glyphBody)
		}
	}
	for _, p := range state.Food {
		put(p, glyphFood)
	}

	overlayRow, overlayFrom, overlayTo := -1, 0, 0
	if state.Status == game.StatusOver {
		msg := []rune(" " + GameOverText + " ")
		if len(msg) > state.Width {
			msg = msg[:state.Width]
		}
		overlayRow = state.Height / 2
		overlayFrom = (state.Width - len(msg)) / 2
		overlayTo = overlayFrom + len(msg)
		copy(grid[overlayRow][overlayFrom:], msg)
	}

	var sb strings.Builder
	for y, row := range grid {
		if styles == nil {
			sb.WriteString(string(row))
		} else if y == overlayRow {
			sb.WriteString(styleRow(row[:overlayFrom], styles))
			sb.WriteString(styles.Overlay.Render(string(row[overlayFrom:overlayTo])))
			sb.WriteString(styleRow(row[overlayTo:], styles))
		} else {
			sb.WriteString(styleRow(row, styles))
		}
		if y < len(grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// styleRow renders runs of identical glyphs with one style call each.
func styleRow(row []rune, styles *Styles) string {
	var sb strings.Builder
	for start := 0; start < len(row); {
		end := start + 1
		for end < len(row) && row[end] == row[start] {
			end++
		}
		sb.WriteString(styleFor(row[start], styles).Render(string(row[start:end])))
		start = end
	}
	return sb.String()
}

func styleFor(r rune, styles *Styles) lipgloss.Style {
	switch r {
	case glyphObstacle:
		return styles.Obstacle
	case glyphHead, glyphBody:
		return styles.Snake
	case glyphFood:
		return styles.Food
	default:
		return styles.Empty
	}
}
