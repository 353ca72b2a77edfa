// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger returns a timestamped [log.Logger] prefixed with the program name.
//
// A nil w writes to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "steamx",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// NewFileLogger appends to the file at path, creating parent directories as needed.
//
// The TUI logs here so lines don't tear the rendered frame.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), nil
}

// WithLogger returns a child of l that adds kv to every entry.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel changes l's threshold. Caller locations are reported at debug and below.
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
	l.SetReportCaller(ll <= log.DebugLevel)
}

// GenerateID returns a random (v4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}
