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

// Package chain is the blockchain store external collaborator the execution
// engine runs against: ordered blocks, a canonical head, and named iterator
// cursors. Full block/state validation, the transaction pool and genesis
// bootstrapping belong to go-ethereum's much larger core.BlockChain and are
// out of scope here — this package implements exactly the storage and
// cursor contract the engine's run loop, head manager and backstep recovery
// depend on.
package chain

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/rawdb"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/log"
)

// Cursor names the engine reads and writes.
const (
	CursorVM        = "vm"
	CursorSafe      = "safe"
	CursorFinalized = "finalized"
)

// cursorKeyPrefix namespaces iterator-head markers in the shared store.
var cursorKeyPrefix = []byte("cursor-")

func cursorKey(name string) []byte {
	return append(append([]byte{}, cursorKeyPrefix...), []byte(name)...)
}

// Store is the blockchain store external collaborator the engine consumes.
type Store interface {
	GetBlock(hash common.Hash, number uint64) *types.Block
	GetBlockByNumber(number uint64) *types.Block
	CanonicalHead() *types.Block
	IteratorHead(name string) *types.Block
	SetIteratorHead(name string, hash common.Hash) error
	GetTotalDifficulty(hash common.Hash, number uint64) *big.Int

	// Iterate delivers blocks from the named cursor toward the canonical
	// head in canonical order, announcing reorgs, advancing the cursor
	// itself after each successful callback. It stops early, with the
	// cursor left at the last successfully delivered block, if callback
	// returns an error. releaseLock, when true, hints that the caller's own
	// gate may be released around each callback invocation — Store has no
	// gate of its own, so it is accepted for interface parity and unused.
	Iterate(name string, maxBlocks uint64, releaseLock bool, callback func(block *types.Block, reorg bool) error) (uint64, error)

	PutBlocks(blocks []*types.Block, skipCanonicalCheck, suppressChainUpdatedEvent bool) error
	Update(skipEmit bool)

	// StageBlock records a block and its total difficulty without marking it
	// canonical, for a caller that wants to execute against a block before
	// committing to it as canonical. SetHead later promotes staged blocks to
	// canonical via PutBlocks once it has verified the named pointers.
	StageBlock(block *types.Block, td *big.Int) error
}

// BlockChain is the reference Store, backed by core/rawdb's accessors and
// batch-op composers.
type BlockChain struct {
	db *rawdb.Database

	mu         sync.RWMutex
	cursors    map[string]common.Hash
	headHash   common.Hash
	headNumber uint64

	updateCh chan struct{}
}

// New returns a BlockChain over db. Cursor positions are loaded from db if
// present, defaulting to the zero hash (caller must seed genesis before the
// first Iterate).
func New(db *rawdb.Database) *BlockChain {
	bc := &BlockChain{
		db:       db,
		cursors:  make(map[string]common.Hash),
		updateCh: make(chan struct{}, 1),
	}
	for _, name := range []string{CursorVM, CursorSafe, CursorFinalized} {
		if raw, err := db.Get(cursorKey(name)); err == nil && len(raw) == 32 {
			bc.cursors[name] = common.BytesToHash(raw)
		}
	}
	if head := rawdb.ReadHeadBlockHash(db); head != (common.Hash{}) {
		if number, ok := db.HashToNumber(head); ok {
			bc.headHash, bc.headNumber = head, number
		}
	}
	return bc
}

func (bc *BlockChain) GetBlock(hash common.Hash, number uint64) *types.Block {
	return rawdb.ReadBlock(bc.db, hash, number)
}

func (bc *BlockChain) GetBlockByNumber(number uint64) *types.Block {
	hash := rawdb.ReadCanonicalHash(bc.db, number)
	if hash == (common.Hash{}) {
		return nil
	}
	return rawdb.ReadBlock(bc.db, hash, number)
}

// CanonicalHead returns the store's current canonical tip, tracked as the
// most recently recorded of the highest-numbered blocks PutBlocks has
// recorded, so a same-height reorg moves the tip to the new branch.
func (bc *BlockChain) CanonicalHead() *types.Block {
	bc.mu.RLock()
	hash, number := bc.headHash, bc.headNumber
	bc.mu.RUnlock()
	if hash == (common.Hash{}) {
		return nil
	}
	return rawdb.ReadBlock(bc.db, hash, number)
}

func (bc *BlockChain) IteratorHead(name string) *types.Block {
	bc.mu.RLock()
	hash, ok := bc.cursors[name]
	bc.mu.RUnlock()
	if !ok || hash == (common.Hash{}) {
		return nil
	}
	number, found := bc.db.HashToNumber(hash)
	if !found {
		return nil
	}
	return rawdb.ReadBlock(bc.db, hash, number)
}

func (bc *BlockChain) SetIteratorHead(name string, hash common.Hash) error {
	bc.mu.Lock()
	bc.cursors[name] = hash
	bc.mu.Unlock()
	if err := bc.db.Put(cursorKey(name), hash[:]); err != nil {
		return fmt.Errorf("chain: persist cursor %s: %w", name, err)
	}
	return nil
}

func (bc *BlockChain) GetTotalDifficulty(hash common.Hash, number uint64) *big.Int {
	return rawdb.ReadTd(bc.db, hash, number)
}

// PutBlocks establishes canonical number->hash for each block in order,
// composing the batch ops SetTD, SetBlockOrHeader, SetHashToNumber and
// SaveLookups plus the canonical-hash write PutBlocks itself is responsible
// for. skipCanonicalCheck and suppressChainUpdatedEvent are accepted for
// interface parity with the engine's head manager; this reference store
// always writes canonically (the engine's own setHead checks canonicality
// after PutBlocks returns) and never emits a chain-updated
// signal on its own — Update does that explicitly.
func (bc *BlockChain) PutBlocks(blocks []*types.Block, skipCanonicalCheck, suppressChainUpdatedEvent bool) error {
	batch := bc.db.NewBatch()
	// tdByHash tracks total difficulty across blocks in this same call before
	// any of them are committed, so a multi-block batch accumulates TD
	// correctly instead of each block reading a stale (pre-batch) parent TD.
	tdByHash := make(map[common.Hash]*big.Int, len(blocks))
	for _, block := range blocks {
		parentTD := big.NewInt(0)
		if block.NumberU64() > 0 {
			if td, ok := tdByHash[block.ParentHash()]; ok {
				parentTD = td
			} else if td := bc.GetTotalDifficulty(block.ParentHash(), block.NumberU64()-1); td != nil {
				parentTD = td
			}
		}
		td := new(big.Int).Add(parentTD, block.Difficulty())
		tdByHash[block.Hash()] = td

		rawdb.SetBlockOrHeader(batch, block)
		rawdb.SetHashToNumber(batch, block.Hash(), block.NumberU64())
		rawdb.SetTD(batch, block.Hash(), block.NumberU64(), td)
		rawdb.SaveLookups(batch, block)
		rawdb.WriteCanonicalHash(batch, block.Hash(), block.NumberU64())
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("chain: put blocks: %w", err)
	}

	bc.mu.Lock()
	for _, block := range blocks {
		bc.db.InvalidateCanonicalCache(block.NumberU64())
		if bc.headHash == (common.Hash{}) || block.NumberU64() >= bc.headNumber {
			bc.headHash, bc.headNumber = block.Hash(), block.NumberU64()
		}
	}
	head := bc.headHash
	bc.mu.Unlock()

	rawdb.WriteHeadBlockHash(bc.db, head)
	log.Info("chain: stored blocks", "count", len(blocks))
	return nil
}

// StageBlock writes a block, its header and hash->number index, and its
// total difficulty in one batch, deliberately omitting the canonical
// number->hash mapping PutBlocks writes.
func (bc *BlockChain) StageBlock(block *types.Block, td *big.Int) error {
	batch := bc.db.NewBatch()
	rawdb.SetBlockOrHeader(batch, block)
	rawdb.SetHashToNumber(batch, block.Hash(), block.NumberU64())
	rawdb.SetTD(batch, block.Hash(), block.NumberU64(), td)
	if err := batch.Write(); err != nil {
		return fmt.Errorf("chain: stage block %d: %w", block.NumberU64(), err)
	}
	return nil
}

// Update emits a chain-updated signal unless skipEmit is set.
func (bc *BlockChain) Update(skipEmit bool) {
	if skipEmit {
		return
	}
	select {
	case bc.updateCh <- struct{}{}:
	default:
	}
}

// Updates returns the channel chain-updated signals are delivered on.
func (bc *BlockChain) Updates() <-chan struct{} {
	return bc.updateCh
}
