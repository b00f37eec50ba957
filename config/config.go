// Package config reads host configuration from flags, falling back to
// SNAKE_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/brensch/snekgrid/logging"
	"github.com/brensch/snekgrid/rules"
)

type Config struct {
	Listen    string
	Width     int
	Height    int
	CellSize  int
	Obstacles int
	// Seed 0 means seed from the clock.
	Seed      int64
	TickUnit  time.Duration
	LogFormat string
	LogLevel  slog.Level
	LogFile   string
}

// Load parses args (without the program name). getenv is os.Getenv in
// production; tests pass a map lookup.
func Load(name string, args []string, getenv func(string) string, output io.Writer) (Config, error) {
	env := envReader{getenv: getenv}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var cfg Config
	fs.StringVar(&cfg.Listen, "listen", env.str("SNAKE_LISTEN", ":8080"), "HTTP listen address (server only)")
	fs.IntVar(&cfg.Width, "width", env.int("SNAKE_WIDTH", 30), "Grid width in cells")
	fs.IntVar(&cfg.Height, "height", env.int("SNAKE_HEIGHT", 20), "Grid height in cells")
	fs.IntVar(&cfg.CellSize, "cell", env.int("SNAKE_CELL", 20), "Cell size in pixels")
	fs.IntVar(&cfg.Obstacles, "obstacles", env.int("SNAKE_OBSTACLES", rules.DefaultSettings.ObstacleCount), "Obstacle tiles per game")
	fs.Int64Var(&cfg.Seed, "seed", int64(env.int("SNAKE_SEED", 0)), "RNG seed (0 = time based)")
	fs.DurationVar(&cfg.TickUnit, "tick-unit", env.duration("SNAKE_TICK_UNIT", time.Millisecond), "Duration of one speed unit")
	fs.StringVar(&cfg.LogFormat, "log-format", env.str("SNAKE_LOG_FORMAT", logging.FormatPretty), "Log format: pretty, json or text")
	levelFlag := fs.String("log-level", env.str("SNAKE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", env.str("SNAKE_LOG_FILE", ""), "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("flag parse: %w", err)
	}

	level, err := logging.ParseLevel(*levelFlag)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Settings returns the rules for this configuration.
func (c Config) Settings() rules.Settings {
	s := rules.DefaultSettings
	s.ObstacleCount = c.Obstacles
	return s
}

func (c Config) Validate() error {
	if c.CellSize < 2 {
		return fmt.Errorf("cell size %d: must be at least 2", c.CellSize)
	}
	if c.TickUnit <= 0 {
		return fmt.Errorf("tick unit %s: must be positive", c.TickUnit)
	}
	if err := c.Settings().Validate(c.Width, c.Height); err != nil {
		return fmt.Errorf("grid %dx%d: %w", c.Width, c.Height, err)
	}
	return nil
}

// NewRand returns a generator for one game. With a fixed seed every call
// yields the same sequence so boards are reproducible.
func (c Config) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

type envReader struct {
	getenv func(string) string
}

func (e envReader) str(key, def string) string {
	if e.getenv == nil {
		return def
	}
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e envReader) int(key string, def int) int {
	if v := e.str(key, ""); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v := e.str(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
