// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"moodmix/config"
)

// Setup applies the level and formatter and, when a file is configured, tees
// output into a rotating log file. The returned closer releases the file.
func Setup(cfg config.LoggingConfig) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(newFormatter(cfg.File != ""))

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator, nil
}

func newFormatter(toFile bool) *nested.Formatter {
	return &nested.Formatter{
		FieldsOrder:     []string{"module", "method", "session"},
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        true,
		NoColors:        toFile, // keep escape codes out of the rotated file
		NoFieldsColors:  toFile,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
