// Package logging configures the application logger: stderr by
// default, an optional rotated file for long-running batch use.
package logging

import (
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log destination and verbosity.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool

	// FilePath routes log output to a rotated file instead of stderr.
	FilePath string

	// Rotation limits; zero values use lumberjack defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup builds the logger and returns it with a cleanup function to
// call on shutdown.
func Setup(opts Options) (*charmlog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	cleanup := func() error { return nil }

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
		w = lj
		cleanup = lj.Close
	}

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: opts.FilePath != "",
	})
	if opts.Verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	return logger, cleanup, nil
}
