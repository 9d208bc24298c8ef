package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig enables a rotating log file next to the console output, leaving Dir empty logs to
// stderr only.
type LogConfig struct {
	Dir        string `json:"dir"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

const logFileName = "bgg-pipeline.log"

func (c LogConfig) withDefaults() LogConfig {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 50
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 7
	}
	return c
}

// NewLogger builds a tint handler writing to stderr, and in plain text to a rotating file
// when config.Dir is set.
func NewLogger(verbose bool, config LogConfig) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	if config.Dir == "" {
		return slog.New(console), io.NopCloser(nil), nil
	}

	config = config.withDefaults()
	err := os.MkdirAll(config.Dir, 0777)
	if err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(config.Dir, logFileName),
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   config.Compress,
	}
	fileHandler := tint.NewHandler(file, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})
	return slog.New(fanout{console, fileHandler}), file, nil
}

// InitSlog replaces the default slog logger, the returned closer flushes the log file.
func InitSlog(verbose bool, config LogConfig) (io.Closer, error) {
	logger, closer, err := NewLogger(verbose, config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}
