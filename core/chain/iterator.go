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

package chain

import (
	"fmt"

	"github.com/ethereum/execution-core/core/rawdb"
	"github.com/ethereum/execution-core/core/types"
)

// Iterate walks the named cursor toward the canonical head, delivering one
// block per callback invocation in canonical order. A reorg is announced
// when the cursor's own branch has fallen off the canonical chain; the
// callback then receives the first block of the new branch past the common
// ancestor, and is expected to reset its own parent-state tracking to the
// parent of that delivered block.
//
// Iterate stops, with the cursor advanced past every successfully delivered
// block, when: the cursor reaches the canonical head, maxBlocks have been
// delivered, or callback returns an error (in which case that block is not
// considered delivered and the cursor is left at the prior block).
func (bc *BlockChain) Iterate(name string, maxBlocks uint64, releaseLock bool, callback func(block *types.Block, reorg bool) error) (uint64, error) {
	var executed uint64
	for maxBlocks == 0 || executed < maxBlocks {
		cursorBlock := bc.IteratorHead(name)
		if cursorBlock == nil {
			return executed, fmt.Errorf("chain: iterator cursor %q is not set", name)
		}
		canonical := bc.CanonicalHead()
		if canonical == nil || cursorBlock.Hash() == canonical.Hash() {
			break
		}

		next, reorg, err := bc.nextBlock(cursorBlock)
		if err != nil {
			return executed, err
		}
		if next == nil {
			break
		}
		if err := callback(next, reorg); err != nil {
			return executed, err
		}
		if err := bc.SetIteratorHead(name, next.Hash()); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

// nextBlock determines the next block Iterate should deliver past cursor,
// and whether doing so requires announcing a reorg.
func (bc *BlockChain) nextBlock(cursor *types.Block) (*types.Block, bool, error) {
	if rawdb.ReadCanonicalHash(bc.db, cursor.NumberU64()) == cursor.Hash() {
		return bc.GetBlockByNumber(cursor.NumberU64() + 1), false, nil
	}

	ancestor, err := bc.commonAncestor(cursor)
	if err != nil {
		return nil, false, err
	}
	return bc.GetBlockByNumber(ancestor.NumberU64() + 1), true, nil
}

// commonAncestor walks cursor's own branch backward via parent hashes until
// it finds a block that is still canonical at its number — the point the
// canonical chain and cursor's branch last agreed, before a reorg.
func (bc *BlockChain) commonAncestor(cursor *types.Block) (*types.Block, error) {
	current := cursor
	for {
		if rawdb.ReadCanonicalHash(bc.db, current.NumberU64()) == current.Hash() {
			return current, nil
		}
		if current.NumberU64() == 0 {
			return nil, fmt.Errorf("chain: no common ancestor found for cursor at block %d", cursor.NumberU64())
		}
		parent := bc.GetBlock(current.ParentHash(), current.NumberU64()-1)
		if parent == nil {
			return nil, fmt.Errorf("chain: missing ancestor at block %d", current.NumberU64()-1)
		}
		current = parent
	}
}
