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
	"fmt"
	"math/big"

	"github.com/ethereum/execution-core/core/chain"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/core/vm"
	"github.com/ethereum/execution-core/log"
	"github.com/ethereum/execution-core/params"
)

// RunWithoutSetHead executes a single block the consensus client has handed
// over via newPayload without committing it as canonical: the block and its
// total difficulty are staged, its receipts are held in pendingReceipts
// until a later SetHead promotes them, and the vm cursor is left untouched.
//
// If precomputedReceipts is non-nil the block is assumed already executed
// (a fast path for a block the caller built itself) and RunBlock is skipped
// entirely.
//
// blocking mirrors Run's gate semantics: a non-blocking caller that finds an
// execution already in flight returns (false, nil) immediately rather than
// queuing.
func (e *Engine) RunWithoutSetHead(block *types.Block, precomputedReceipts types.Receipts, blocking bool, skipBlockchain bool) (bool, error) {
	if !blocking && e.IsRunning() {
		return false, nil
	}
	if !e.gate.TryLock() {
		return false, fmt.Errorf("execution: %w: gate closed", ErrPreconditionFailed)
	}
	defer e.gate.Unlock()

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	var result vm.RunResult
	var td *big.Int
	if precomputedReceipts != nil {
		result = vm.RunResult{Receipts: precomputedReceipts, StateRoot: block.Root()}
		td = new(big.Int).Add(e.store.GetTotalDifficulty(block.ParentHash(), block.NumberU64()-1), block.Difficulty())
	} else {
		parent := e.store.GetBlock(block.ParentHash(), block.NumberU64()-1)
		if parent == nil {
			return false, fmt.Errorf("execution: %w: missing parent for block %d", ErrPreconditionFailed, block.NumberU64())
		}
		clearCache := e.vm.StateManager().GetStateRoot() != parent.Root()

		parentTD := e.store.GetTotalDifficulty(parent.Hash(), parent.NumberU64())
		hf := e.config.HardforkFor(block.NumberU64(), parentTD, block.Time())
		if prev := e.Hardfork(); hf != prev {
			log.Info("execution: hardfork transition", "from", prev, "to", hf, "block", block.NumberU64())
			e.mu.Lock()
			e.hardfork = hf
			e.mu.Unlock()
		}

		var err error
		result, err = e.vm.RunBlock(vm.RunOpts{
			Block:                block,
			Root:                 parent.Root(),
			ClearCache:           clearCache,
			SkipBlockValidation:  e.cons.ConsensusType() == params.PoA,
			SkipHeaderValidation: true,
		})
		if err != nil {
			e.emitError(&blockRef{Hash: block.Hash(), Number: block.NumberU64()}, err, "runWithoutSetHead")
			return false, err
		}
		td = new(big.Int).Add(parentTD, block.Difficulty())
	}

	e.pendingReceipts.Set(block.Hash(), result.Receipts)

	if !skipBlockchain {
		if err := e.store.StageBlock(block, td); err != nil {
			return false, fmt.Errorf("execution: stage block %d: %w", block.NumberU64(), err)
		}
	}

	return true, nil
}

// SetHeadOpts names the optional safe and finalized pointers a SetHead call
// advances alongside the vm cursor.
type SetHeadOpts struct {
	Finalized *types.Block
	Safe      *types.Block
}

// SetHead promotes a run of previously staged blocks: it writes them
// canonically, drains and persists any receipts RunWithoutSetHead queued
// for them, verifies every named pointer actually landed on the canonical
// chain, and only then advances the vm/safe/finalized cursors. A
// verification failure after the canonical write is ErrNonCanonicalHead —
// a hard failure the engine does not attempt to repair on its own.
func (e *Engine) SetHead(blocks []*types.Block, opts SetHeadOpts) error {
	if !e.gate.TryLock() {
		return fmt.Errorf("execution: %w: gate closed", ErrPreconditionFailed)
	}
	defer e.gate.Unlock()

	if len(blocks) == 0 {
		return fmt.Errorf("execution: %w: setHead called with no blocks", ErrPreconditionFailed)
	}
	vmHead := blocks[len(blocks)-1]

	if !e.vm.StateManager().HasStateRoot(vmHead.Root()) {
		return fmt.Errorf("execution: setHead vm head %d: %w", vmHead.NumberU64(), ErrMissingStateRoot)
	}

	if err := e.store.PutBlocks(blocks, true, true); err != nil {
		return fmt.Errorf("execution: setHead put blocks: %w", err)
	}

	for _, block := range blocks {
		if receiptsList, ok := e.pendingReceipts.Get(block.Hash()); ok {
			if err := e.rm.SaveReceipts(block, receiptsList); err != nil {
				return fmt.Errorf("execution: setHead save receipts for block %d: %w", block.NumberU64(), err)
			}
			e.pendingReceipts.Delete(block.Hash())
		}
	}

	named := []*types.Block{vmHead}
	if opts.Safe != nil {
		named = append(named, opts.Safe)
	}
	if opts.Finalized != nil {
		named = append(named, opts.Finalized)
	}
	for _, block := range named {
		got := e.store.GetBlockByNumber(block.NumberU64())
		if got == nil || got.Hash() != block.Hash() {
			return fmt.Errorf("execution: setHead block %d: %w", block.NumberU64(), ErrNonCanonicalHead)
		}
	}

	if err := e.store.SetIteratorHead(chain.CursorVM, vmHead.Hash()); err != nil {
		return fmt.Errorf("execution: setHead advance vm cursor: %w", err)
	}
	if opts.Safe != nil {
		if err := e.store.SetIteratorHead(chain.CursorSafe, opts.Safe.Hash()); err != nil {
			return fmt.Errorf("execution: setHead advance safe cursor: %w", err)
		}
	}
	if opts.Finalized != nil {
		if err := e.store.SetIteratorHead(chain.CursorFinalized, opts.Finalized.Hash()); err != nil {
			return fmt.Errorf("execution: setHead advance finalized cursor: %w", err)
		}
	}

	e.store.Update(false)
	log.Info("execution: setHead", "vmHead", vmHead.NumberU64())
	return nil
}
