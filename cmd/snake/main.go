// Command snake plays the game in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snekgrid/config"
	"github.com/brensch/snekgrid/engine"
	"github.com/brensch/snekgrid/logging"
	"github.com/brensch/snekgrid/render"
	"github.com/brensch/snekgrid/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// Logs would tear the alt screen, so they only go to a file when asked.
	log := logging.Discard()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		if log, err = logging.New(f, cfg.LogFormat, cfg.LogLevel); err != nil {
			return err
		}
	}

	eng, err := engine.New(cfg.Settings(), cfg.Width, cfg.Height, cfg.CellSize, cfg.NewRand())
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan session.Update, 64)
	publish := func(u session.Update) {
		select {
		case updates <- u:
		case <-ctx.Done():
		}
	}
	sess := session.New(eng, session.Config{TickUnit: cfg.TickUnit, Logger: log}, publish)

	runDone := make(chan error, 1)
	go func() { runDone <- sess.Run(ctx) }()

	log.Info("terminal session starting", "width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed)
	p := tea.NewProgram(newModel(sess, updates, render.DefaultStyles()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	cancel()
	<-runDone
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error("terminal ui failed", slog.Any("err", err))
		return err
	}
	return nil
}
