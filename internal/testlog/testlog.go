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

// Package testlog provides a log.Logger that forwards formatted lines into a
// *testing.T (or *testing.B), so test output interleaves correctly with
// `go test -v` output instead of racing it on stderr.
package testlog

import (
	"github.com/ethereum/execution-core/log"
)

// Logging is implemented by *testing.T and *testing.B.
type Logging interface {
	Helper()
	Logf(format string, args ...any)
}

// Logger returns a log.Logger that writes to t, filtering out records below
// level.
func Logger(t Logging, level log.Level) log.Logger {
	return log.NewLogger(log.NewTerminalHandlerWithLevel(&writer{t}, level, false))
}

// writer adapts Logging to io.Writer. The terminal handler issues exactly
// one Write call per log record, so each call maps to one t.Logf call.
type writer struct {
	t Logging
}

func (w *writer) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Logf("%s", p)
	return len(p), nil
}
