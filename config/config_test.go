package config

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brensch/snekgrid/rules"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("snake", nil, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 20 || cfg.CellSize != 20 || cfg.Obstacles != 10 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Listen != ":8080" || cfg.TickUnit != time.Millisecond || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_EnvThenFlags(t *testing.T) {
	env := envMap(map[string]string{
		"SNAKE_WIDTH":     "40",
		"SNAKE_HEIGHT":    "25",
		"SNAKE_SEED":      "99",
		"SNAKE_TICK_UNIT": "2ms",
		"SNAKE_LOG_LEVEL": "debug",
		"SNAKE_OBSTACLES": "not-a-number",
	})
	cfg, err := Load("snake", []string{"-width", "50"}, env, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 50 {
		t.Fatalf("flag did not override env: width=%d", cfg.Width)
	}
	if cfg.Height != 25 || cfg.Seed != 99 || cfg.TickUnit != 2*time.Millisecond || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Obstacles != rules.DefaultSettings.ObstacleCount {
		t.Fatalf("bad env value should fall back to default, got %d", cfg.Obstacles)
	}
}

func TestLoad_RejectsSmallGrid(t *testing.T) {
	_, err := Load("snake", []string{"-width", "3", "-height", "3"}, envMap(nil), io.Discard)
	if !errors.Is(err, rules.ErrInvalidSettings) {
		t.Fatalf("err=%v want ErrInvalidSettings (start cell off grid)", err)
	}

	_, err = Load("snake", []string{"-width", "6", "-height", "6", "-obstacles", "40"}, envMap(nil), io.Discard)
	if !errors.Is(err, rules.ErrGridTooSmall) {
		t.Fatalf("err=%v want ErrGridTooSmall", err)
	}
}

func TestLoad_BadFlags(t *testing.T) {
	if _, err := Load("snake", []string{"-log-level", "loud"}, envMap(nil), io.Discard); err == nil {
		t.Fatalf("bad log level accepted")
	}
	if _, err := Load("snake", []string{"-nope"}, envMap(nil), io.Discard); err == nil {
		t.Fatalf("unknown flag accepted")
	}
	if _, err := Load("snake", []string{"-cell", "1"}, envMap(nil), io.Discard); err == nil {
		t.Fatalf("cell size 1 accepted")
	}
}

func TestNewRand_FixedSeedRepeats(t *testing.T) {
	cfg := Config{Seed: 5}
	a, b := cfg.NewRand(), cfg.NewRand()
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatalf("seeded generators diverged at %d", i)
		}
	}
}
