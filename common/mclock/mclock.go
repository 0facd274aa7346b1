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

// Package mclock is a wrapper for a monotonic clock source, letting the run
// loop's ticker-driven stages be driven by a virtual clock in tests instead
// of real time.
package mclock

import (
	"time"
)

// AbsTime represents absolute monotonic time.
type AbsTime time.Duration

var processStart = time.Now()

// Now returns the current absolute monotonic time.
func Now() AbsTime {
	return AbsTime(time.Since(processStart))
}

// Add returns t + d.
func (t AbsTime) Add(d time.Duration) AbsTime {
	return t + AbsTime(d)
}

// Sub returns t - t2 as a duration.
func (t AbsTime) Sub(t2 AbsTime) time.Duration {
	return time.Duration(t - t2)
}

// Clock abstracts over time, letting code be tested with a Simulated clock.
type Clock interface {
	Now() AbsTime
	Sleep(time.Duration)
	NewTimer(time.Duration) Timer
	After(time.Duration) <-chan AbsTime
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer represents a cancellable event returned by NewTimer/AfterFunc.
type Timer interface {
	// C returns the timer's channel, which receives the current time when
	// the timer fires. It returns nil for timers created via AfterFunc.
	C() <-chan AbsTime
	// Stop cancels the timer, returning true if it prevented the timer
	// from firing.
	Stop() bool
	// Reset reschedules the timer for a new duration starting now.
	Reset(time.Duration)
}

// System implements Clock using the real wall/monotonic clock.
type System struct{}

func (System) Now() AbsTime { return Now() }

func (System) Sleep(d time.Duration) { time.Sleep(d) }

func (System) NewTimer(d time.Duration) Timer {
	ch := make(chan AbsTime, 1)
	t := time.AfterFunc(d, func() {
		select {
		case ch <- Now():
		default:
		}
	})
	return &systemTimer{timer: t, ch: ch}
}

func (System) After(d time.Duration) <-chan AbsTime {
	ch := make(chan AbsTime, 1)
	time.AfterFunc(d, func() { ch <- Now() })
	return ch
}

func (System) AfterFunc(d time.Duration, f func()) Timer {
	return &systemTimer{timer: time.AfterFunc(d, f)}
}

type systemTimer struct {
	timer *time.Timer
	ch    chan AbsTime
}

func (s *systemTimer) C() <-chan AbsTime    { return s.ch }
func (s *systemTimer) Stop() bool           { return s.timer.Stop() }
func (s *systemTimer) Reset(d time.Duration) { s.timer.Reset(d) }
