// Copyright 2025 The go-ethereum Authors
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

package execution

import (
	"errors"

	"github.com/ethereum/execution-core/core/vm"
)

// ErrMissingStateRoot re-exports vm.ErrMissingStateRoot: the run loop and
// backstep recovery dispatch on this typed error, never on a substring of
// the VM's error message.
var ErrMissingStateRoot = vm.ErrMissingStateRoot

var (
	// ErrExecutionStopped is the cooperative cancellation error the
	// per-block callback throws once the engine is no longer started; it is
	// a normal termination, not a failure.
	ErrExecutionStopped = errors.New("execution: engine stopped")

	// ErrNonCanonicalHead is a hard failure from setHead: a named block's
	// hash differs from the store's canonical hash at that number after the
	// batched putBlocks.
	ErrNonCanonicalHead = errors.New("execution: block is not canonical")

	// ErrPreconditionFailed covers precondition violations: calling a
	// mutator before Open, calling Start twice, or a store missing a
	// capability the engine requires.
	ErrPreconditionFailed = errors.New("execution: precondition failed")

	// ErrAlreadyRunning is returned by Run when an execution is already in
	// flight; RunWithoutSetHead reports that case as (false, nil) instead.
	ErrAlreadyRunning = errors.New("execution: already running")
)
