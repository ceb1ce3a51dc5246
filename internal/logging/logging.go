// Package logging sets up slog for the CLI and adapts zerolog to the small
// logger interface used by the dispatcher and sessions.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds <dir>/<name>.<start>.log using OS path separators.
func LogFilePath(dir, name string, start time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s.log", name, start.UTC().Format("20060102_150405")))
}
