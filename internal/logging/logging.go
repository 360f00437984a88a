// Package logging wraps the standard library's log package with level
// filtering and per-pipeline prefixes. The rest of the stack, like the
// teacher repo, never reaches for a third-party logging library — the
// whole retrieved example pack has none — so this stays on stdlib log by
// design, not by omission.
package logging

import (
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a level-filtered, prefixed wrapper around *log.Logger.
type Logger struct {
	prefix string
	level  Level
	std    *log.Logger
}

// New creates a Logger writing to stderr with the given component prefix
// (e.g. "input", "filter") at the given level.
func New(component string, level Level) *Logger {
	return &Logger{
		prefix: "[" + component + "] ",
		level:  level,
		std:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.std.Printf(l.prefix+format, args...)
}
