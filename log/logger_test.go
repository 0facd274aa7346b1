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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTerminalHandlerFormatsKeyValues(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandlerWithLevel(out, LevelTrace, false))
	logger.Info("a message", "foo", "bar")

	have := out.String()
	if !strings.Contains(have, "INFO") {
		t.Errorf("expected level prefix in output, got %q", have)
	}
	if !strings.Contains(have, "a message") {
		t.Errorf("expected message in output, got %q", have)
	}
	if !strings.Contains(have, "foo=bar") {
		t.Errorf("expected key=value pair in output, got %q", have)
	}
}

func TestTerminalHandlerRespectsLevel(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandlerWithLevel(out, LevelWarn, false))
	logger.Info("should not appear")
	logger.Warn("should appear")

	have := out.String()
	if strings.Contains(have, "should not appear") {
		t.Errorf("expected Info below threshold to be suppressed, got %q", have)
	}
	if !strings.Contains(have, "should appear") {
		t.Errorf("expected Warn at threshold to be emitted, got %q", have)
	}
}

func TestLoggerWithAddsContext(t *testing.T) {
	out := new(bytes.Buffer)
	base := NewLogger(NewTerminalHandlerWithLevel(out, LevelTrace, false))
	child := base.New("module", "execution")
	child.Info("hello")

	have := out.String()
	if !strings.Contains(have, "module=execution") {
		t.Errorf("expected inherited context in output, got %q", have)
	}
}

func TestGlogHandlerVerbosity(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewGlogHandler(NewTerminalHandlerWithLevel(out, LevelTrace, false))
	glog.Verbosity(LevelError)
	logger := NewLogger(glog)

	logger.Warn("suppressed by verbosity")
	if out.Len() != 0 {
		t.Errorf("expected nothing written below the configured verbosity, got %q", out.String())
	}

	logger.Error("passes verbosity")
	if out.Len() == 0 {
		t.Errorf("expected error-level record to pass the configured verbosity")
	}
}

func TestJSONHandlerLevelFilter(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(JSONHandlerWithLevel(out, LevelInfo))
	logger.Debug("hidden")
	if out.Len() != 0 {
		t.Errorf("expected debug below the configured level to be dropped")
	}
	logger.Info("visible")
	if out.Len() == 0 {
		t.Errorf("expected info at the configured level to be written")
	}
}

func TestRotatingFileHandlerWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	logger := NewLogger(RotatingFileHandler(path, RotatingFileConfig{MaxSizeMegabytes: 1}))
	logger.Info("hello disk", "n", 1)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected rotating handler to create %s: %v", path, err)
	}
	if !strings.Contains(string(data), "hello disk") {
		t.Errorf("log file missing written record, got %q", string(data))
	}
}
