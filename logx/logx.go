// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides a small leveled, colored logger passed by
// reference into every solver component, instead of a process-wide
// global. It wraps github.com/cpmech/gosl/io's colored printers the
// way gofem wraps them behind its Global.Verbose flag, but without the
// package-level mutable state.
package logx

import (
	"github.com/cpmech/gosl/io"
)

// Level is a logging verbosity level.
type Level int

// Levels, ordered from most to least verbose.
const (
	Debug Level = iota
	Info
	Warn
	Error
)

// ParseLevel converts an option string ("DEBUG", "INFO", "WARN",
// "ERROR") to a Level, defaulting to Info on an empty string.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG":
		return Debug
	case "INFO", "":
		return Info
	case "WARN":
		return Warn
	case "ERROR":
		return Error
	default:
		return Info
	}
}

// Logger is a level-filtered, colored writer. The zero value logs at
// Debug level (every line).
type Logger struct {
	level Level
}

// New returns a Logger that only emits lines at or above level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

func (l *Logger) enabled(lvl Level) bool {
	return l != nil && lvl >= l.level
}

// Debugf logs a debug-level line.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.enabled(Debug) {
		io.Pf(format, args...)
	}
}

// Infof logs an info-level line.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.enabled(Info) {
		io.Pfcyan(format, args...)
	}
}

// Warnf logs a warn-level line.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.enabled(Warn) {
		io.Pfyel(format, args...)
	}
}

// Errorf logs an error-level line. Unlike the other levels this is
// never silenced: print_level=ERROR still shows errors.
func (l *Logger) Errorf(format string, args ...interface{}) {
	io.PfRed(format, args...)
}
