// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger used for diagnostics. User-facing
// status lines are printed separately on stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/fetchsub/pkg/types"
)

// globalMu protects writes to the zerolog global logger.
var globalMu sync.Mutex

// New builds a logger writing to stderr and, when cfg.File is set, to a
// rotating log file. The returned closer releases the file; it is never nil.
func New(cfg types.LogConfig, verbose, quiet bool) (zerolog.Logger, io.Closer) {
	console := selectOutput()
	var (
		writer io.Writer = console
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		if fw, err := fileWriter(cfg); err == nil {
			writer = zerolog.MultiLevelWriter(console, fw)
			closer = fw
		}
	}

	logger := zerolog.New(writer).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	setGlobal(logger)
	return logger, closer
}

// NewWithWriter builds a logger writing JSON to w. It is intended for tests.
func NewWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	setGlobal(logger)
	return logger
}

// setGlobal points the zerolog/log package logger at logger so library code
// logging through log.Debug() and friends shares its settings.
func setGlobal(logger zerolog.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	log.Logger = logger
}

// selectLevel determines the log level from the verbosity flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput uses a console writer on a terminal unless NO_COLOR is set,
// and JSON on stderr otherwise.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

func fileWriter(cfg types.LogConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
