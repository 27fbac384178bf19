// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// Out defaults to os.Stderr.
	Out io.Writer
	// Tee, when set, also receives every line as uncolored console text.
	Tee io.Writer
}

func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer
	switch opts.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
		w = out
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want console or json", opts.Format)
	}

	if opts.Tee != nil {
		tee := zerolog.ConsoleWriter{Out: opts.Tee, TimeFormat: time.RFC3339, NoColor: true}
		w = zerolog.MultiLevelWriter(w, tee)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
