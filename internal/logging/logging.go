// Package logging builds the process logger and dumps ECS state through it.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Options struct {
	Level  string
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger tagged with a fresh session id.
func New(opts Options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "parse log level %q", opts.Level)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch opts.Format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerolog.Nop(), eris.Errorf("unknown log format %q", opts.Format)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("session", uuid.New().String()).
		Logger(), nil
}
