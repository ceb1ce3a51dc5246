package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/OCAP2/mapsnap/internal/config"
	"github.com/OCAP2/mapsnap/internal/logging"
	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/rs/zerolog"
)

// environment is what every command needs once the configuration is read.
type environment struct {
	options snap.Options
	// logger carries application logs.
	logger *slog.Logger
	// events logs host event dispatch.
	events zerolog.Logger
	close  func()
}

func setup(stderr io.Writer) (*environment, error) {
	if err := config.Load(configDir); err != nil {
		return nil, err
	}
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return nil, err
		}
	}
	opts, err := config.Options()
	if err != nil {
		return nil, err
	}

	level := config.LogLevel()
	if logLevel != "" {
		level = logLevel
	}

	env := &environment{options: opts, close: func() {}}
	mgr := logging.NewSlogManager()
	eventOut := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}

	if dir := config.LogsDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		f, err := os.Create(logging.LogFilePath(dir, "mapsnap", time.Now()))
		if err != nil {
			return nil, fmt.Errorf("creating log file: %w", err)
		}
		mgr.Setup(f, level)
		// warnings still reach the terminal
		env.logger = slog.New(logging.NewMultiHandler(
			mgr.Logger().Handler(),
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
		))
		eventOut = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
		env.close = func() { _ = f.Close() }
	} else {
		mgr.Setup(nil, level)
		env.logger = mgr.Logger()
	}

	zl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || zl == zerolog.NoLevel {
		zl = zerolog.InfoLevel
	}
	env.events = zerolog.New(eventOut).Level(zl).With().Timestamp().Str("component", "dispatcher").Logger()

	return env, nil
}
