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
	"fmt"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/chain"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/core/vm"
	"github.com/ethereum/execution-core/log"
	"github.com/ethereum/execution-core/params"
)

// Run iterates the vm cursor toward the canonical head, executing each
// delivered block. It acquires the gate for its entire duration — the
// store's own Iterate has no internal lock of its own, so releaseLock is
// passed through for interface parity only.
//
// loop repeats the iterate/refresh cycle as long as the previous pass
// delivered a full batch of NumBlocksPerIteration blocks; onlyBatched skips
// a pass entirely when the remaining gap is smaller than
// NumBlocksPerIteration.
func (e *Engine) Run(loop bool, onlyBatched bool) (uint64, error) {
	if !e.gate.TryLock() {
		return 0, fmt.Errorf("execution: %w: gate closed", ErrPreconditionFailed)
	}
	defer e.gate.Unlock()

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return 0, fmt.Errorf("execution: %w: not started", ErrPreconditionFailed)
	}
	if e.running {
		e.mu.Unlock()
		return 0, ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	var totalExecuted uint64
	var lastPassCount uint64
	first := true

	for {
		e.mu.Lock()
		stopping := e.shutdown || !e.started
		e.mu.Unlock()
		if stopping {
			break
		}

		if !first {
			if !loop {
				break
			}
			if e.cfg.NumBlocksPerIteration != 0 && lastPassCount != e.cfg.NumBlocksPerIteration {
				break
			}
		}

		startHead := e.store.IteratorHead(chain.CursorVM)
		canonical := e.store.CanonicalHead()
		if startHead == nil || canonical == nil || startHead.Hash() == canonical.Hash() {
			break
		}
		if onlyBatched && e.cfg.NumBlocksPerIteration > 0 {
			gap := canonical.NumberU64() - startHead.NumberU64()
			if gap < e.cfg.NumBlocksPerIteration {
				break
			}
		}

		cb := &perBlockCallback{engine: e, first: true}
		n, err := e.store.Iterate(chain.CursorVM, e.cfg.NumBlocksPerIteration, true, cb.run)
		totalExecuted += n
		lastPassCount = n
		first = false

		if err != nil {
			if handleErr := e.handleIterationError(cb, err); handleErr != nil {
				return totalExecuted, handleErr
			}
			break
		}
	}

	return totalExecuted, nil
}

// perBlockCallback carries state across the blocks delivered within one
// Iterate call: the last executed block, the state root it should resume
// execution from, and (on failure) the block that caused it.
type perBlockCallback struct {
	engine *Engine

	first       bool
	headBlock   *types.Block
	parentState common.Hash

	errorBlock *types.Block
}

func (cb *perBlockCallback) run(block *types.Block, reorg bool) error {
	e := cb.engine

	var clearCache bool
	if cb.first || reorg {
		parent := e.store.GetBlock(block.ParentHash(), block.NumberU64()-1)
		if parent == nil {
			cb.errorBlock = block
			return fmt.Errorf("execution: %w: missing parent of block %d", ErrPreconditionFailed, block.NumberU64())
		}
		cb.headBlock = parent
		cb.parentState = parent.Root()
		clearCache = true
	} else {
		clearCache = e.vm.StateManager().GetStateRoot() != cb.parentState
	}
	cb.first = false

	td := e.store.GetTotalDifficulty(block.ParentHash(), block.NumberU64()-1)
	hf := e.config.HardforkFor(block.NumberU64(), td, block.Time())
	if prev := e.Hardfork(); hf != prev {
		log.Info("execution: hardfork transition", "from", prev, "to", hf, "block", block.NumberU64())
		e.mu.Lock()
		e.hardfork = hf
		e.mu.Unlock()
	}

	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		cb.errorBlock = block
		return ErrExecutionStopped
	}

	skipBlockValidation := e.cons.ConsensusType() == params.PoA
	start := e.clock.Now()
	result, err := e.vm.RunBlock(vm.RunOpts{
		Block:                block,
		Root:                 cb.parentState,
		ClearCache:           clearCache,
		SkipBlockValidation:  skipBlockValidation,
		SkipHeaderValidation: true,
	})
	elapsed := e.clock.Now().Sub(start)
	if elapsed > e.cfg.MaxToleratedBlockTime {
		log.Warn("execution: slow block", "number", block.NumberU64(), "hash", block.Hash(),
			"txs", len(block.Transactions()), "gasUsed", result.GasUsed, "elapsed", elapsed)
	}
	if err != nil {
		cb.errorBlock = block
		return err
	}

	if err := e.rm.SaveReceipts(block, result.Receipts); err != nil {
		cb.errorBlock = block
		return fmt.Errorf("execution: save receipts for block %d: %w", block.NumberU64(), err)
	}

	cb.headBlock = block
	cb.parentState = block.Root()
	e.blocksExecuted.Inc(1)
	return nil
}

// handleIterationError: a cooperative shutdown is a normal termination; a
// missing-state-root error triggers backstep recovery; any other per-block
// failure is logged and emitted on the error channel, with the cursor left
// at the last successful block. In every one of those cases Run itself
// returns no error — the run always reports a count of successfully
// executed blocks — and only a structural failure with no associated block
// (a store invariant violation, not a block failure) is surfaced to Run's
// caller.
func (e *Engine) handleIterationError(cb *perBlockCallback, err error) error {
	if errors.Is(err, ErrExecutionStopped) {
		return nil
	}
	if cb.errorBlock == nil {
		log.Error("execution: iterator failed outside per-block scope", "err", err)
		return err
	}

	ref := &blockRef{Hash: cb.errorBlock.Hash(), Number: cb.errorBlock.NumberU64()}
	e.emitError(ref, err, "run")

	if errors.Is(err, ErrMissingStateRoot) && cb.errorBlock.NumberU64() > 1 {
		e.backstep(cb.headBlock)
	} else {
		log.Warn("execution: block execution failed, cursor left at last successful block",
			"number", cb.errorBlock.NumberU64(), "hash", cb.errorBlock.Hash(), "err", err)
	}
	return nil
}
