package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// console is where logs go when no file is configured. Results are printed
// on stdout, so logs stay off it.
var console io.Writer = os.Stderr

// SlogManager owns the process-wide slog logger.
type SlogManager struct {
	logger *slog.Logger
	level  slog.LevelVar
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logger. Records go to file when it is non-nil and
// to the console otherwise.
func (m *SlogManager) Setup(file io.Writer, level string) {
	m.level.Set(parseLevel(level))

	handlerOpts := &slog.HandlerOptions{
		Level: &m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	out := console
	if file != nil {
		out = file
	}

	m.logger = slog.New(slog.NewTextHandler(out, handlerOpts))
	m.logger.Info("Logging initialized", "level", m.level.Level().String())
}

// SetLevel changes the minimum level of the console or file handler
// without rebuilding the logger.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
