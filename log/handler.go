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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

const termTimeFormat = "01-02|15:04:05.000"

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelCrit:  "CRIT",
}

var levelColors = map[Level]int{
	LevelTrace: 36, // cyan
	LevelDebug: 34, // blue
	LevelInfo:  32, // green
	LevelWarn:  33, // yellow
	LevelError: 31, // red
	LevelCrit:  35, // magenta
}

// terminalHandler formats records the way go-ethereum's own TerminalHandler
// does: "LEVEL [date|time] msg  key=val key=val".
type terminalHandler struct {
	mu      sync.Mutex
	out     io.Writer
	useColor bool
	level   Level
	attrs   []slog.Attr
}

// NewTerminalHandler returns a handler writing human-readable, optionally
// colored, lines to w.
func NewTerminalHandler(w io.Writer, useColor bool) slog.Handler {
	return NewTerminalHandlerWithLevel(w, LevelTrace, useColor)
}

// NewTerminalHandlerWithLevel is NewTerminalHandler with an explicit minimum
// level, used by tests to avoid a separate GlogHandler wrapper.
func NewTerminalHandlerWithLevel(w io.Writer, level Level, useColor bool) slog.Handler {
	if f, ok := w.(*os.File); ok && useColor {
		useColor = isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	} else if useColor {
		// Not a real file descriptor (e.g. a bytes.Buffer in tests): emit
		// plain ANSI codes directly, there is nothing for colorable to
		// translate on non-Windows terminals.
	}
	return &terminalHandler{out: w, useColor: useColor, level: level}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b bytes.Buffer
	lvl := levelNames[r.Level]
	if lvl == "" {
		lvl = r.Level.String()
	}
	if h.useColor {
		fmt.Fprintf(&b, "\x1b[%dm%s\x1b[0m", levelColors[r.Level], lvl)
	} else {
		b.WriteString(lvl)
	}
	b.WriteByte(' ')
	b.WriteByte('[')
	writeTimeTermFormat(&b, r.Time)
	b.WriteByte(']')
	b.WriteByte(' ')
	b.WriteString(r.Message)

	if pad := 40 - len(r.Message); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteByte(' ')

	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%s", a.Key, formatValue(a.Value))
	}
	b.WriteByte('\n')
	_, err := h.out.Write(b.Bytes())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *terminalHandler) WithGroup(name string) slog.Handler { return h }

func writeTimeTermFormat(b *bytes.Buffer, t time.Time) {
	b.Write(t.AppendFormat(nil, termTimeFormat))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") {
			return strconvQuote(s)
		}
		return s
	default:
		s := fmt.Sprintf("%v", v.Any())
		if strings.ContainsAny(s, " \t\n\"=") {
			return strconvQuote(s)
		}
		return s
	}
}

func strconvQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// LogfmtHandler returns a handler emitting logfmt (key=value) lines with no
// color and no column alignment, used for piping into log aggregators.
func LogfmtHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelTrace})
}

// JSONHandler returns a handler emitting one JSON object per line.
func JSONHandler(w io.Writer) slog.Handler {
	return JSONHandlerWithLevel(w, LevelTrace)
}

// JSONHandlerWithLevel returns a JSON handler with an explicit minimum level.
func JSONHandlerWithLevel(w io.Writer, level Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// RotatingFileConfig configures the on-disk rotation policy for
// RotatingFileHandler. Zero values fall back to lumberjack's own defaults
// (100MB per file, no age limit, no backup limit, no compression).
type RotatingFileConfig struct {
	MaxSizeMegabytes int  // rotate once the active file exceeds this size
	MaxBackups       int  // number of rotated files to keep, 0 keeps all
	MaxAgeDays       int  // days to retain a rotated file, 0 keeps forever
	Compress         bool // gzip each file once it has been rotated out
}

// RotatingFileHandler returns a handler that writes logfmt lines to path,
// rotating the file under cfg's policy rather than growing it without bound.
// This is the handler an operator selects for a long-running node instead of
// NewTerminalHandler, whose output is meant for an attached console.
func RotatingFileHandler(path string, cfg RotatingFileConfig) slog.Handler {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMegabytes,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return LogfmtHandler(rotator)
}

// GlogHandler wraps another handler, adding glog-style global verbosity and
// optional per-file ("vmodule") verbosity overrides, matching go-ethereum's
// own --verbosity/--vmodule flags.
type GlogHandler struct {
	mu      sync.RWMutex
	inner   slog.Handler
	level   Level
	modules []vmoduleRule
}

type vmoduleRule struct {
	pattern *regexp.Regexp
	level   Level
}

// NewGlogHandler constructs a GlogHandler around h, defaulting to LevelInfo.
func NewGlogHandler(h slog.Handler) *GlogHandler {
	return &GlogHandler{inner: h, level: LevelInfo}
}

// Verbosity sets the global minimum level.
func (g *GlogHandler) Verbosity(level Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.level = level
}

// Vmodule parses a comma-separated list of "pattern=level" pairs, each
// pattern matched (via filepath.Match-style globs translated to regexp)
// against the basename of the file that issued the log call.
func (g *GlogHandler) Vmodule(spec string) error {
	var rules []vmoduleRule
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("invalid vmodule rule %q", part)
		}
		var lvl int
		if _, err := fmt.Sscanf(kv[1], "%d", &lvl); err != nil {
			return fmt.Errorf("invalid vmodule level in %q: %w", part, err)
		}
		re, err := globToRegexp(kv[0])
		if err != nil {
			return err
		}
		rules = append(rules, vmoduleRule{pattern: re, level: Level(lvl)})
	}
	g.mu.Lock()
	g.modules = rules
	g.mu.Unlock()
	return nil
}

func globToRegexp(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '.':
			b.WriteString(`\.`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}

func (g *GlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.modules) == 0 {
		return level >= g.level
	}
	// With vmodule rules active, the caller's file determines the threshold;
	// callers outside any rule still fall back to the global level.
	_, file, _, ok := runtime.Caller(3)
	if !ok {
		return level >= g.level
	}
	base := filepath.Base(file)
	for _, rule := range g.modules {
		if rule.pattern.MatchString(base) {
			return level >= rule.level
		}
	}
	return level >= g.level
}

func (g *GlogHandler) Handle(ctx context.Context, r slog.Record) error {
	return g.inner.Handle(ctx, r)
}

func (g *GlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &GlogHandler{inner: g.inner.WithAttrs(attrs), level: g.level, modules: g.modules}
}

func (g *GlogHandler) WithGroup(name string) slog.Handler {
	return &GlogHandler{inner: g.inner.WithGroup(name), level: g.level, modules: g.modules}
}

