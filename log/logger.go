// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the structured logger used across every engine
// component, mirroring the shape of go-ethereum's own log package: a
// slog-backed Logger interface, a process-wide root logger, and pluggable
// handlers (terminal, logfmt, JSON).
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// Level mirrors slog.Level with the extra Trace level go-ethereum adds below
// slog's Debug.
type Level = slog.Level

const (
	LevelTrace Level = -8
	LevelDebug       = slog.LevelDebug
	LevelInfo        = slog.LevelInfo
	LevelWarn        = slog.LevelWarn
	LevelError       = slog.LevelError
	LevelCrit  Level = 12
)

// Logger is the interface the root logger and the package-level
// Trace/Debug/... functions log through; internal/testlog returns one that
// routes output to a testing.T.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Log(level Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	Enabled(ctx context.Context, level Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps a handler into a Logger.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Write(level Level, msg string, attrs ...any) {
	l.inner.Log(context.Background(), level, msg, attrs...)
}

func (l *logger) Log(level Level, msg string, ctx ...any) { l.Write(level, msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

// New returns a child logger with additional context; identical to With but
// named the way go-ethereum's Logger.New is, used for per-component loggers
// such as log.New("module", "execution").
func (l *logger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *logger) Trace(msg string, ctx ...any) { l.Write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.Write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.Write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.Write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.Write(LevelError, msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any) {
	l.Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Enabled(ctx context.Context, level Level) bool {
	return l.inner.Enabled(ctx, level)
}

var root atomic.Value // Logger

func init() {
	root.Store(Logger(&logger{inner: slog.New(NewTerminalHandler(os.Stderr, false))}))
}

// SetDefault sets l as the root logger returned by Root and used by the
// package-level Trace/Debug/... functions.
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the current default logger.
func Root() Logger { return root.Load().(Logger) }

// New creates a new logger with the given key/value context, derived from
// the root logger. This is the usual way to get a per-component logger:
// log.New("module", "execution").
func New(ctx ...any) Logger { return Root().New(ctx...) }

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }

// timeNow is not read by any handler; the terminal handler stamps each line
// with the record's own time.
var timeNow = time.Now
