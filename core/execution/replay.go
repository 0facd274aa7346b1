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
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/core/vm"
)

// debugReplayConcurrency bounds how many blocks a single ExecuteBlocks call
// executes at once, so a wide debug replay range cannot starve the live run
// loop of VM resources.
const debugReplayConcurrency = 4

// ReplayResult is one block's outcome from a debug replay.
type ReplayResult struct {
	Block  *types.Block
	Result vm.RunResult
	Err    error
}

// ExecuteBlocks re-executes blocks [first, last] against shallow VM copies
// rather than the live one, so tracing never disturbs normal execution. When
// txHashes is non-empty only blocks containing at least one of those
// transactions are replayed. golang.org/x/sync/errgroup bounds the number
// of blocks replayed concurrently.
func (e *Engine) ExecuteBlocks(ctx context.Context, first, last uint64, txHashes []common.Hash) ([]ReplayResult, error) {
	if last < first {
		return nil, fmt.Errorf("execution: %w: replay range end before start", ErrPreconditionFailed)
	}

	wanted := make(map[common.Hash]struct{}, len(txHashes))
	for _, h := range txHashes {
		wanted[h] = struct{}{}
	}

	var blocks []*types.Block
	for n := first; n <= last; n++ {
		block := e.store.GetBlockByNumber(n)
		if block == nil {
			continue
		}
		if len(wanted) > 0 && !blockContainsAny(block, wanted) {
			continue
		}
		blocks = append(blocks, block)
	}

	results := make([]ReplayResult, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(debugReplayConcurrency)
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			// Each goroutine gets its own shallow copy sharing the VM's
			// backing state store and its presence cache but with its own
			// current-root bookkeeping, so concurrent replays never move each
			// other's or the run loop's current state root.
			replayVM := e.vm.ShallowCopy(true)
			parent := e.store.GetBlock(block.ParentHash(), block.NumberU64()-1)
			if parent == nil {
				results[i] = ReplayResult{Block: block, Err: fmt.Errorf("execution: replay: missing parent of block %d", block.NumberU64())}
				return nil
			}
			result, err := replayVM.RunBlock(vm.RunOpts{
				Block:                block,
				Root:                 parent.Root(),
				SkipBlockValidation:  true,
				SkipHeaderValidation: true,
			})
			results[i] = ReplayResult{Block: block, Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("execution: replay: %w", err)
	}
	return results, nil
}

func blockContainsAny(block *types.Block, wanted map[common.Hash]struct{}) bool {
	for _, tx := range block.Transactions() {
		if _, ok := wanted[tx.Hash()]; ok {
			return true
		}
	}
	return false
}
