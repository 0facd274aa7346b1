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

// Package syncx contains exotic synchronization primitives not provided by
// the standard library's sync package.
package syncx

// ClosableMutex is a mutex that can be permanently closed, rejecting further
// lock acquisitions. It backs the execution engine's single-in-flight-run
// gate: Start acquires it for the run loop's lifetime, and Stop closes it so
// no further run can begin once the engine is shutting down.
type ClosableMutex struct {
	ch chan struct{}
}

// NewClosableMutex returns an unlocked, open mutex.
func NewClosableMutex() *ClosableMutex {
	m := &ClosableMutex{ch: make(chan struct{}, 1)}
	m.ch <- struct{}{}
	return m
}

// TryLock blocks until the mutex can be acquired, returning false instead of
// blocking forever if the mutex has been closed in the meantime.
func (m *ClosableMutex) TryLock() bool {
	_, ok := <-m.ch
	return ok
}

// MustLock is TryLock but panics if the mutex is closed.
func (m *ClosableMutex) MustLock() {
	if !m.TryLock() {
		panic("syncx: MustLock called on a closed ClosableMutex")
	}
}

// Unlock releases the mutex. It panics if the mutex isn't currently locked.
func (m *ClosableMutex) Unlock() {
	select {
	case m.ch <- struct{}{}:
	default:
		panic("syncx: Unlock of unlocked ClosableMutex")
	}
}

// Close permanently closes the mutex, waking any blocked TryLock callers.
// It panics if the mutex is already closed.
func (m *ClosableMutex) Close() {
	select {
	case <-m.ch:
	default:
	}
	close(m.ch)
}
