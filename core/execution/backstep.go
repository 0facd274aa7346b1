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
	"github.com/ethereum/execution-core/core/chain"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/log"
)

// backstep recovers a run that failed with ErrMissingStateRoot past block 1:
// it rewinds the vm cursor to candidate's parent so candidate is redelivered
// on the next run, but only if candidate's own state root is actually
// present — otherwise rewinding would just reproduce the same failure one
// block earlier.
func (e *Engine) backstep(candidate *types.Block) {
	if candidate == nil {
		log.Error("execution: backstep has no candidate to rewind to, operator action required")
		return
	}
	if !e.vm.StateManager().HasStateRoot(candidate.Root()) {
		log.Error("execution: backstep candidate state root is also missing, operator action required",
			"number", candidate.NumberU64(), "hash", candidate.Hash())
		return
	}

	if err := e.store.SetIteratorHead(chain.CursorVM, candidate.ParentHash()); err != nil {
		log.Error("execution: backstep failed to rewind vm cursor", "err", err)
		return
	}
	e.backstepAttempted.Add(candidate.Hash())
	e.backsteps.Inc(1)
	log.Warn("execution: backstep recovery rewound vm cursor", "retryFrom", candidate.NumberU64(), "hash", candidate.Hash())
}
