package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"sitewatch/internal/config"
	"sitewatch/internal/errorwrapper"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger from the given log configuration.
// Output goes to stderr; when a log file is configured a rotating file
// writer is added alongside it.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{newConsoleWriter(cfg.LogFormat, os.Stderr)}

	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	var out io.Writer
	if len(writers) == 1 {
		out = writers[0]
	} else {
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// parseLevel converts a configured level string into a zerolog level
func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		level = "info"
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return parsed, nil
}

// newConsoleWriter builds the stderr writer for the configured format
func newConsoleWriter(format string, out io.Writer) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return out
	default: // console, text
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    strings.ToLower(format) == "text",
		}
	}
}
