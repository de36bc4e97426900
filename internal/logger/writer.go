package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"sitewatch/internal/config"
	"sitewatch/internal/errorwrapper"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newFileWriter creates a rotating file writer for the configured log file
func newFileWriter(cfg config.LogConfig) (io.Writer, error) {
	dir := filepath.Dir(cfg.LogFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create log directory")
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
		LocalTime:  true,
	}

	// File output stays machine-readable unless console format is forced
	if strings.ToLower(cfg.LogFormat) == "console" || strings.ToLower(cfg.LogFormat) == "text" {
		return zerolog.ConsoleWriter{Out: rotating, NoColor: true}, nil
	}
	return rotating, nil
}
