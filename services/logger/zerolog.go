package logsvc

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a JSON-lines logger writing to conf.File, and the closer of that file.
// The interactive terminal is never used for logs unless File is "-" (stderr).
func New(conf core.LogConfig, appName string) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if conf.Level != "" {
		lvl, err := zerolog.ParseLevel(conf.Level)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrapf(err, "parsing log level %q", conf.Level)
		}
		level = lvl
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch conf.File {
	case "off":
		return zerolog.Nop(), closer, nil
	case "-":
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	default:
		if err := os.MkdirAll(filepath.Dir(conf.File), 0o755); err != nil {
			return zerolog.Nop(), nil, errors.Wrap(err, "creating log directory")
		}
		f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrapf(err, "opening log file %s", conf.File)
		}
		w, closer = f, f
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", appName).Logger()
	return logger, closer, nil
}
