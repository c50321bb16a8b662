// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wires the diagnostic sink required by the store: every
// corruption, chain-break, or storage failure logs at least one line
// naming the offending hash.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/luxfi/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config controls how the package-level logger is constructed.
type Config struct {
	// Level is one of "trace", "debug", "info", "warn", "error", "crit".
	Level string
	// JSON selects the structured JSON handler instead of the terminal one.
	JSON bool
	// FilePath, when non-empty, rotates log output through lumberjack
	// instead of writing to the terminal.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is the handle every package in this module logs through.
type Logger struct {
	log.Logger
	level *slog.LevelVar
}

// New builds a Logger from cfg, following the handler-selection shape of
// a typical embedded-chain logger: JSON for machine consumption, a
// colorized terminal handler otherwise, with disk rotation layered in
// when a file path is configured.
func New(cfg Config) (Logger, error) {
	level := &slog.LevelVar{}

	writer := terminalWriter()
	if cfg.FilePath != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    nonZero(cfg.MaxSizeMB, 50),
			MaxBackups: nonZero(cfg.MaxBackups, 3),
			MaxAge:     nonZero(cfg.MaxAgeDays, 28),
		}
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = log.JSONHandlerWithLevel(writer, level)
	} else {
		useColor := cfg.FilePath == "" && isatty.IsTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(writer, level, useColor)
	}

	l := Logger{Logger: log.NewLogger(handler), level: level}
	if err := l.SetLevel(cfg.Level); err != nil {
		return Logger{}, err
	}
	return l, nil
}

// NoOp returns a logger that discards everything, for embedders and tests
// that don't want diagnostic output.
func NoOp() Logger {
	return Logger{Logger: log.NewNoOpLogger(), level: &slog.LevelVar{}}
}

// SetLevel updates the minimum level this logger emits.
func (l *Logger) SetLevel(level string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ToLevel(level)
	if err != nil {
		return fmt.Errorf("logging: invalid level %q: %w", level, err)
	}
	l.level.Set(slog.Level(lvl))
	return nil
}

func terminalWriter() io.Writer {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return colorable.NewColorableStdout()
	}
	return os.Stdout
}

func nonZero(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
