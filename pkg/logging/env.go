package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	// EnvLevel names the variable holding the log level.
	EnvLevel = "LOG_LEVEL"
	// EnvFile names the variable holding the log file path.
	EnvFile = "LOG_FILE"

	logFileMode = 0o600
)

// ErrInvalidLogPath is returned when LOG_FILE cannot be opened for append.
var ErrInvalidLogPath = errors.New("invalid log path")

// Options configure Setup. Empty fields fall back to the environment.
type Options struct {
	// Debug forces debug level regardless of LOG_LEVEL.
	Debug bool
	// Stderr receives output when no log file is set.
	Stderr io.Writer
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Setup installs the default slog logger from opts and the environment and
// returns a closer for the log file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	level := ParseLogLevel(getenv(EnvLevel))
	if opts.Debug {
		level = slog.LevelDebug
	}

	var h *CLIHandler
	var closer io.Closer = io.NopCloser(nil)
	if p := getenv(EnvFile); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidLogPath, p, err)
		}
		h = NewCLIHandler(f, level).WithoutColor()
		closer = f
	} else {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		h = NewCLIHandler(w, level)
	}

	slog.SetDefault(slog.New(h))
	return closer, nil
}
