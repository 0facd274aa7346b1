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

package rawdb

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/ethdb"
	"github.com/ethereum/execution-core/ethdb/memorydb"
)

const (
	numberCacheLimit = 2048
	hashCacheLimit   = 2048
)

// Database wraps an ethdb.Database with the canonical-lookup caches the
// run loop's per-block hot path (hash<->number resolution on every
// setHardforkFor/backstep/iterate call) leans on, mirroring
// core.BlockChain's own header/number caches.
type Database struct {
	ethdb.Database

	numberCache *lru.Cache[common.Hash, uint64] // hash -> number
	hashCache   *lru.Cache[uint64, common.Hash] // number -> canonical hash
}

// NewDatabase wraps db with canonical lookup caching.
func NewDatabase(db ethdb.Database) *Database {
	numberCache, _ := lru.New[common.Hash, uint64](numberCacheLimit)
	hashCache, _ := lru.New[uint64, common.Hash](hashCacheLimit)
	return &Database{Database: db, numberCache: numberCache, hashCache: hashCache}
}

// NewMemoryDatabase returns an in-memory, cache-wrapped database, used by
// tests.
func NewMemoryDatabase() *Database {
	return NewDatabase(memorydb.New())
}

// HashToNumber resolves a header hash to its block number, consulting the
// cache before falling back to the headerNumberKey accessor.
func (d *Database) HashToNumber(hash common.Hash) (uint64, bool) {
	if number, ok := d.numberCache.Get(hash); ok {
		return number, true
	}
	if n := ReadHeaderNumber(d.Database, hash); n != nil {
		d.numberCache.Add(hash, *n)
		return *n, true
	}
	return 0, false
}

// NumberToCanonicalHash resolves a canonical block number to its hash,
// consulting the cache before falling back to the headerHashKey accessor.
func (d *Database) NumberToCanonicalHash(number uint64) (common.Hash, bool) {
	if hash, ok := d.hashCache.Get(number); ok {
		return hash, true
	}
	hash := ReadCanonicalHash(d.Database, number)
	if hash == (common.Hash{}) {
		return common.Hash{}, false
	}
	d.hashCache.Add(number, hash)
	return hash, true
}

// SetTD composes a WriteTd call into batch, the way dbManager.batch(ops)
// sequences a SetTD op.
func SetTD(batch ethdb.Batch, hash common.Hash, number uint64, td *big.Int) {
	WriteTd(batch, hash, number, td)
}

// SetBlockOrHeader composes the header (with its hash-to-number mapping)
// and body writes for a block into batch, the way dbManager.batch(ops) sequences a
// SetBlockOrHeader op. It does not itself mark the block canonical; callers
// compose SetHashToNumber and WriteCanonicalHash separately, since a block
// can be stored (e.g. as a side-chain member) before it is canonical.
func SetBlockOrHeader(batch ethdb.Batch, block *types.Block) {
	WriteHeader(batch, block.Header())
	WriteBody(batch, block.Hash(), block.NumberU64(), block.Body())
}

// SetHashToNumber composes the hash-to-number mapping write into batch.
func SetHashToNumber(batch ethdb.Batch, hash common.Hash, number uint64) {
	WriteHeaderNumber(batch, hash, number)
}

// SaveLookups composes the per-transaction positional lookup writes for a
// block into batch, resolving a transaction hash straight to its block
// without a linear scan.
func SaveLookups(batch ethdb.Batch, block *types.Block) {
	WriteTxLookupEntriesByBlock(batch, block)
}

// InvalidateCanonicalCache drops number's cached canonical hash, used after
// a reorg changes which hash is canonical at number.
func (d *Database) InvalidateCanonicalCache(number uint64) {
	d.hashCache.Remove(number)
}

// CacheLens reports how many entries the number and hash lookup caches
// currently hold.
func (d *Database) CacheLens() (numberCacheLen, hashCacheLen int) {
	return d.numberCache.Len(), d.hashCache.Len()
}
