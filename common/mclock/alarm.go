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

package mclock

import (
	"sync"
	"time"
)

// Alarm sends on its channel when a scheduled deadline is reached. It is
// used by the run loop to wait for the next iteration tick without
// busy-polling, and is safe to reschedule from other goroutines.
type Alarm struct {
	mu    sync.Mutex
	clock Clock
	timer Timer
	ch    chan struct{}

	deadline      AbsTime
	timerDeadline AbsTime
}

// NewAlarm creates an Alarm backed by clock.
func NewAlarm(clock Clock) *Alarm {
	if clock == nil {
		panic("mclock: nil clock given to NewAlarm")
	}
	return &Alarm{clock: clock, ch: make(chan struct{}, 1)}
}

// C returns the channel on which the alarm delivers its firing notification.
func (e *Alarm) C() <-chan struct{} {
	return e.ch
}

// Stop cancels any pending schedule and drains the channel.
func (e *Alarm) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deadline = 0
	if e.timer != nil {
		e.timer.Stop()
	}
	select {
	case <-e.ch:
	default:
	}
}

// Schedule arranges for the alarm to fire no later than deadline. Calling
// Schedule again before the previous deadline moves the fire time earlier;
// a later deadline is a no-op if an earlier timer is already pending, since
// an Alarm only promises to fire no later than its deadline, never later.
func (e *Alarm) Schedule(deadline AbsTime) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deadline = deadline
	now := e.clock.Now()
	if deadline <= now {
		// e.mu is already held here, so fire inline rather than via send.
		if e.deadline != 0 {
			e.timerDeadline = 0
			select {
			case e.ch <- struct{}{}:
			default:
			}
		}
		return
	}
	if e.timer == nil {
		e.timer = e.clock.AfterFunc(time.Duration(deadline-now), e.send)
		e.timerDeadline = deadline
	} else if e.timerDeadline == 0 || deadline < e.timerDeadline {
		e.timer.Reset(time.Duration(deadline - now))
		e.timerDeadline = deadline
	}
}

func (e *Alarm) send() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deadline == 0 {
		return
	}
	e.timerDeadline = 0
	select {
	case e.ch <- struct{}{}:
	default:
	}
}
