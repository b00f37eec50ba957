package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brensch/snekgrid/engine"
	"github.com/brensch/snekgrid/game"
	"github.com/brensch/snekgrid/rules"
)

type harness struct {
	s       *Session
	updates chan Update
	cancel  context.CancelFunc
	errc    chan error
}

func startHarness(t *testing.T, settings rules.Settings, width, height int, unit time.Duration) *harness {
	t.Helper()
	eng, err := engine.New(settings, width, height, 20, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	h := &harness{updates: make(chan Update, 1024), errc: make(chan error, 1)}
	h.s = New(eng, Config{TickUnit: unit}, func(u Update) { h.updates <- u })

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.errc <- h.s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.errc
	})
	return h
}

func (h *harness) next(t *testing.T) Update {
	t.Helper()
	select {
	case u := <-h.updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for update")
		return Update{}
	}
}

// until reads updates until one matches, returning everything seen.
func (h *harness) until(t *testing.T, match func(Update) bool) []Update {
	t.Helper()
	var seen []Update
	for {
		u := h.next(t)
		seen = append(seen, u)
		if match(u) {
			return seen
		}
	}
}

func noObstacles() rules.Settings {
	s := rules.DefaultSettings
	s.ObstacleCount = 0
	return s
}

func TestRun_IdleUntilStart(t *testing.T) {
	h := startHarness(t, noObstacles(), 30, 20, 100*time.Microsecond)

	first := h.next(t)
	if first.Control != ControlStart || !first.Idle {
		t.Fatalf("control=%q idle=%v want %q idle", first.Control, first.Idle, ControlStart)
	}
	if first.State.Width != 30 || first.State.Height != 20 {
		t.Fatalf("idle grid=%dx%d want 30x20", first.State.Width, first.State.Height)
	}
	if len(first.State.Snake) != 0 || len(first.State.Food) != 0 || len(first.State.Obstacles) != 0 {
		t.Fatalf("idle update carries a board: %+v", first.State)
	}

	select {
	case u := <-h.updates:
		t.Fatalf("update before start: %+v", u)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRun_PlaysUntilWallThenStops(t *testing.T) {
	// A one-row board: the snake runs right from (0,0), eats whatever food
	// lies ahead of it and then hits the wall.
	s := noObstacles()
	s.Start = game.Point{X: 0, Y: 0}
	h := startHarness(t, s, 10, 1, 100*time.Microsecond)

	h.next(t)
	h.s.Start()
	playing := h.next(t)
	if playing.Control != ControlPlaying || playing.State.Status != game.StatusRunning {
		t.Fatalf("after start: control=%q status=%s", playing.Control, playing.State.Status)
	}

	seen := h.until(t, func(u Update) bool { return u.Outcome.Over })
	last := seen[len(seen)-1]
	if last.Control != ControlRestart {
		t.Fatalf("control=%q want %q", last.Control, ControlRestart)
	}
	if last.State.Cause != game.CauseWall {
		t.Fatalf("cause=%s want wall", last.State.Cause)
	}

	sawSpeedChange := false
	for _, u := range seen {
		if u.Outcome.SpeedChanged {
			sawSpeedChange = true
			if !u.ScoreChanged {
				t.Fatalf("speed changed without score change: %+v", u.Outcome)
			}
		}
	}
	if !sawSpeedChange || last.State.Score < 10 || last.State.Speed > 145 {
		t.Fatalf("expected at least one food: score=%d speed=%d", last.State.Score, last.State.Speed)
	}

	// Ticking stops once the game is over.
	select {
	case u := <-h.updates:
		t.Fatalf("update after game over: %+v", u)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRun_RestartResetsGame(t *testing.T) {
	s := noObstacles()
	s.Start = game.Point{X: 0, Y: 0}
	h := startHarness(t, s, 6, 1, 100*time.Microsecond)

	h.next(t)
	h.s.Start()
	h.until(t, func(u Update) bool { return u.Outcome.Over })

	h.s.Start()
	u := h.next(t)
	if u.Control != ControlPlaying || u.State.Status != game.StatusRunning {
		t.Fatalf("restart: control=%q status=%s", u.Control, u.State.Status)
	}
	if u.State.Score != 0 || u.State.Speed != 150 || len(u.State.Snake) != 1 || u.State.Snake[0] != s.Start {
		t.Fatalf("restart did not reset: %+v", u.State)
	}
}

func TestRun_SteerAppliesOnNextTick(t *testing.T) {
	h := startHarness(t, noObstacles(), 30, 20, time.Millisecond)

	h.next(t)
	h.s.Start()
	h.next(t)

	h.s.Steer(game.Left) // reverse of committed right: ignored
	h.s.Steer(game.Down)

	u := h.until(t, func(u Update) bool { return u.Outcome.Moved || u.Outcome.Over })
	got := u[len(u)-1].State
	if got.Snake[0] != (game.Point{X: 5, Y: 6}) {
		t.Fatalf("head=%v want (5,6)", got.Snake[0])
	}
	if got.Direction != game.Down {
		t.Fatalf("direction=%s want down", got.Direction)
	}
}

// A steer queued right behind a start belongs to the new game and turns it
// on its first tick.
func TestRun_SteerQueuedBehindStart(t *testing.T) {
	for i := 0; i < 20; i++ {
		eng, err := engine.New(noObstacles(), 30, 20, 20, nil)
		if err != nil {
			t.Fatalf("engine.New: %v", err)
		}
		updates := make(chan Update, 64)
		s := New(eng, Config{TickUnit: 100 * time.Microsecond}, func(u Update) { updates <- u })

		s.Start()
		s.Steer(game.Down)

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- s.Run(ctx) }()

		h := &harness{s: s, updates: updates}
		moved := h.until(t, func(u Update) bool { return u.Outcome.Moved || u.Outcome.Over })
		cancel()
		<-errc

		got := moved[len(moved)-1].State
		if got.Snake[0] != (game.Point{X: 5, Y: 6}) || got.Direction != game.Down {
			t.Fatalf("run %d: head=%v direction=%s want (5,6) down", i, got.Snake[0], got.Direction)
		}
	}
}

// A steer sent before a restart is spent on the old game; the new game
// starts with its own heading.
func TestRun_SteerBeforeRestartStaysWithOldGame(t *testing.T) {
	h := startHarness(t, noObstacles(), 30, 20, time.Millisecond)

	h.next(t)
	h.s.Start()
	h.next(t)

	h.s.Steer(game.Down)
	h.s.Start()

	h.until(t, func(u Update) bool { return u.Control == ControlPlaying && u.State.Turn == 0 })
	moved := h.until(t, func(u Update) bool { return u.Outcome.Moved || u.Outcome.Over })
	got := moved[len(moved)-1].State
	if got.Snake[0] != (game.Point{X: 6, Y: 5}) || got.Direction != game.Right {
		t.Fatalf("head=%v direction=%s want (6,5) right", got.Snake[0], got.Direction)
	}
}

func TestRun_CancelStops(t *testing.T) {
	eng, err := engine.New(noObstacles(), 30, 20, 20, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	s := New(eng, Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
	}

	// Neither call may block once Run is gone.
	done := make(chan struct{})
	go func() {
		s.Start()
		for i := 0; i < 100; i++ {
			s.Steer(game.Up)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Start/Steer blocked after Run returned")
	}
}
