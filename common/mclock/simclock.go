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
	"container/heap"
	"sync"
	"time"
)

// Simulated implements a virtual Clock for deterministic tests: time only
// advances when Run is called.
type Simulated struct {
	mu        sync.Mutex
	cond      *sync.Cond
	now       AbsTime
	scheduled simTimerHeap
}

func (s *Simulated) init() {
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
}

// Run moves the clock forward by d, firing any timers scheduled in between.
func (s *Simulated) Run(d time.Duration) {
	s.mu.Lock()
	s.init()
	end := s.now + AbsTime(d)

	var fired []*simTimer
	for len(s.scheduled) > 0 && s.scheduled[0].at <= end {
		ev := heap.Pop(&s.scheduled).(*simTimer)
		s.now = ev.at
		fired = append(fired, ev)
	}
	s.now = end
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, ev := range fired {
		ev.fire()
	}
}

// Now returns the current virtual time.
func (s *Simulated) Now() AbsTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Sleep blocks the calling goroutine until the virtual clock has advanced by d.
func (s *Simulated) Sleep(d time.Duration) {
	<-s.After(d)
}

// NewTimer schedules a timer that sends the fire time on its channel.
func (s *Simulated) NewTimer(d time.Duration) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	ch := make(chan AbsTime, 1)
	st := &simTimer{s: s, at: s.now + AbsTime(d), ch: ch}
	st.do = func() { st.send() }
	heap.Push(&s.scheduled, st)
	s.cond.Broadcast()
	return st
}

// After is shorthand for NewTimer(d).C().
func (s *Simulated) After(d time.Duration) <-chan AbsTime {
	return s.NewTimer(d).C()
}

// AfterFunc schedules f to run once the virtual clock has advanced by d.
func (s *Simulated) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	st := &simTimer{s: s, at: s.now + AbsTime(d), do: f}
	heap.Push(&s.scheduled, st)
	s.cond.Broadcast()
	return st
}

// ActiveTimers returns the number of timers not yet fired or stopped.
func (s *Simulated) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}

// WaitForTimers blocks until at least n timers are scheduled.
func (s *Simulated) WaitForTimers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	for len(s.scheduled) < n {
		s.cond.Wait()
	}
}

type simTimer struct {
	mu    sync.Mutex
	s     *Simulated
	at    AbsTime
	index int
	do    func()
	ch    chan AbsTime
	fired bool
}

func (t *simTimer) C() <-chan AbsTime { return t.ch }

func (t *simTimer) send() {
	select {
	case t.ch <- t.at:
	default:
	}
}

func (t *simTimer) fire() {
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
	if t.do != nil {
		t.do()
	}
}

// Stop cancels the timer. It returns true if the timer was active and has
// been prevented from firing, matching time.Timer.Stop's convention.
func (t *simTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&t.s.scheduled, t.index)
	return true
}

// Reset reschedules the timer to fire after d more virtual time, relative to
// the clock's current time.
func (t *simTimer) Reset(d time.Duration) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.init()

	t.mu.Lock()
	t.fired = false
	t.at = t.s.now + AbsTime(d)
	t.mu.Unlock()

	if t.index < 0 {
		heap.Push(&t.s.scheduled, t)
	} else {
		heap.Fix(&t.s.scheduled, t.index)
	}
	t.s.cond.Broadcast()
}

// simTimerHeap is a min-heap of simTimer ordered by fire time, implementing
// container/heap.Interface.
type simTimerHeap []*simTimer

func (h simTimerHeap) Len() int { return len(h) }

func (h simTimerHeap) Less(i, j int) bool { return h[i].at < h[j].at }

func (h simTimerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *simTimerHeap) Push(x interface{}) {
	t := x.(*simTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *simTimerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
