package game

import "testing"

func TestDirection_Opposite(t *testing.T) {
	pairs := [][2]Direction{{Up, Down}, {Down, Up}, {Left, Right}, {Right, Left}}
	for _, p := range pairs {
		if got := p[0].Opposite(); got != p[1] {
			t.Fatalf("%s.Opposite()=%s want=%s", p[0], got, p[1])
		}
	}
	if Direction(9).Opposite() != Direction(9) {
		t.Fatalf("invalid direction changed by Opposite")
	}
}

func TestDirection_Valid(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		if !d.Valid() || d.String() == "invalid" {
			t.Fatalf("%d reported invalid", d)
		}
	}
	if Direction(-1).Valid() || Direction(4).Valid() || Direction(4).String() != "invalid" {
		t.Fatalf("out of range direction reported valid")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := &GameState{
		Width:     7,
		Height:    7,
		Snake:     []Point{{X: 3, Y: 3}, {X: 3, Y: 4}},
		Obstacles: []Point{{X: 0, Y: 0}},
		Food:      []Point{{X: 6, Y: 6}},
		Score:     20,
		Status:    StatusOver,
		Cause:     CauseSelf,
	}
	c := s.Clone()
	c.Snake[0] = Point{X: 9, Y: 9}
	c.Obstacles[0] = Point{X: 9, Y: 9}
	c.Food[0] = Point{X: 9, Y: 9}

	if s.Snake[0] != (Point{X: 3, Y: 3}) || s.Obstacles[0] != (Point{}) || s.Food[0] != (Point{X: 6, Y: 6}) {
		t.Fatalf("clone shares slices with source: %+v", s)
	}
	if c.Score != 20 || c.Status != StatusOver || c.Cause != CauseSelf || c.Head() != (Point{X: 9, Y: 9}) {
		t.Fatalf("clone lost scalar fields: %+v", c)
	}
	var nilState *GameState
	if nilState.Clone() != nil {
		t.Fatalf("nil clone not nil")
	}
}

func TestStatusAndCauseStrings(t *testing.T) {
	if StatusRunning.String() != "running" || StatusOver.String() != "over" {
		t.Fatalf("status strings wrong")
	}
	if CauseWall.String() != "wall" || CauseObstacle.String() != "obstacle" || CauseNone.String() != "none" {
		t.Fatalf("cause strings wrong")
	}
}
