// Package session drives one engine in real time. Run is the only goroutine
// that touches the engine: Start and Steer just queue requests for it, so
// input callbacks and ticks never overlap.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/brensch/snekgrid/engine"
	"github.com/brensch/snekgrid/game"
	"github.com/brensch/snekgrid/logging"
	"github.com/brensch/snekgrid/rules"
)

// Control labels for the host's start button.
const (
	ControlStart   = "Start"
	ControlPlaying = "Playing"
	ControlRestart = "Restart"
)

// Update is published after every change a host may want to draw.
type Update struct {
	State        game.GameState
	Control      string
	Outcome      rules.Outcome
	ScoreChanged bool
	// Idle is set on the update published before the first Start. Its
	// State holds the grid dimensions only.
	Idle bool
}

type Config struct {
	// TickUnit is the wall time of one speed unit; speed 150 ticks every 150 units.
	TickUnit time.Duration
	Logger   *slog.Logger
}

type request struct {
	start bool
	dir   game.Direction
}

type Session struct {
	engine   *engine.Engine
	tickUnit time.Duration
	log      *slog.Logger
	publish  func(Update)

	// requests holds starts and steers in arrival order.
	requests chan request
	done     chan struct{}

	width, height, cellSize int
}

// New wraps eng. The grid used for every restart is taken from eng's current game.
// publish is called from Run's goroutine only.
func New(eng *engine.Engine, cfg Config, publish func(Update)) *Session {
	if cfg.TickUnit <= 0 {
		cfg.TickUnit = time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if publish == nil {
		publish = func(Update) {}
	}
	return &Session{
		engine:   eng,
		tickUnit: cfg.TickUnit,
		log:      cfg.Logger,
		publish:  publish,
		requests: make(chan request, 16),
		done:     make(chan struct{}),
		width:    eng.Width(),
		height:   eng.Height(),
		cellSize: eng.CellSize(),
	}
}

// Start asks Run to begin a new game, restarting any game in progress.
func (s *Session) Start() {
	s.enqueue(request{start: true})
}

// Steer queues a direction change behind any earlier Start or Steer.
func (s *Session) Steer(d game.Direction) {
	s.enqueue(request{dir: d})
}

// enqueue never blocks: requests are dropped once the queue is full or Run
// has returned.
func (s *Session) enqueue(r request) {
	select {
	case s.requests <- r:
	case <-s.done:
	default:
		s.log.Debug("request dropped", "start", r.start, "direction", r.dir)
	}
}

// idle is the board shown before the first Start: the grid only.
func (s *Session) idle() game.GameState {
	return game.GameState{
		Width:     s.width,
		Height:    s.height,
		CellSize:  s.cellSize,
		Direction: s.engine.Direction(),
		Speed:     s.engine.Speed(),
	}
}

// Run processes starts, steering and ticks until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
		}
	}
	defer stopTicker()

	s.publish(Update{State: s.idle(), Control: ControlStart, Idle: true})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case r := <-s.requests:
			if !r.start {
				if tick == nil {
					continue
				}
				if !s.engine.SetDirection(r.dir) {
					s.log.Debug("direction ignored", "requested", r.dir, "committed", s.engine.Direction())
				}
				continue
			}
			if err := s.engine.Reset(s.width, s.height, s.cellSize); err != nil {
				// The grid was accepted by engine.New, so this only fires if
				// placement ran out of room.
				s.log.Error("reset failed", "err", err)
				continue
			}
			stopTicker()
			interval := s.engine.Interval(s.tickUnit)
			ticker = time.NewTicker(interval)
			tick = ticker.C
			s.log.Info("game started", "width", s.width, "height", s.height, "obstacles", s.engine.Obstacles(), "interval", interval)
			s.publish(Update{State: s.engine.State(), Control: ControlPlaying, ScoreChanged: true})

		case <-tick:
			out := s.engine.AdvanceTick()
			control := ControlPlaying

			switch {
			case out.Over:
				stopTicker()
				control = ControlRestart
				s.log.Info("game over", "cause", out.Cause, "score", s.engine.Score(), "length", len(s.engine.Snake()))
			case out.SpeedChanged:
				interval := s.engine.Interval(s.tickUnit)
				ticker.Reset(interval)
				s.log.Debug("speed changed", "speed", s.engine.Speed(), "interval", interval)
			}
			if out.Ate {
				food, _ := s.engine.Food()
				s.log.Debug("food eaten", "score", s.engine.Score(), "food", food)
			}

			s.publish(Update{
				State:        s.engine.State(),
				Control:      control,
				Outcome:      out,
				ScoreChanged: out.ScoreChanged,
			})
		}
	}
}
