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

// Package state models the authenticated state trie the VM reads and writes,
// trimmed to the contract the execution engine actually depends on: a
// current state root and a presence check for arbitrary roots. The real
// merkle-patricia trie, account RLP encoding, and storage slots are out of
// scope here — the engine itself never inspects a state root beyond
// equality, so this package tracks materialized roots rather than state.
package state

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/ethdb"
	"github.com/ethereum/execution-core/log"
)

// stateRootsKeyPrefix namespaces the materialized-root marker keys within
// the shared key-value store, the way go-ethereum's trie database namespaces
// its own node keys.
var stateRootsKeyPrefix = []byte("state-root-")

func rootKey(root common.Hash) []byte {
	return append(append([]byte{}, stateRootsKeyPrefix...), root[:]...)
}

// Manager is the engine's view of the state model: GetStateRoot,
// HasStateRoot, GenerateCanonicalGenesis.
type Manager interface {
	// GetStateRoot returns the root of the state the manager currently
	// considers current.
	GetStateRoot() common.Hash

	// HasStateRoot reports whether root has been materialized and is
	// available for execution to resume from.
	HasStateRoot(root common.Hash) bool

	// GenerateCanonicalGenesis materializes the genesis state commitment,
	// called once by Engine.Open when the iterator head is block 0 and no
	// state has been recorded yet.
	GenerateCanonicalGenesis(root common.Hash) error
}

// cacheSize is the size of the fastcache instance fronting HasStateRoot,
// mirroring go-ethereum's trie node cache sizing convention of a fixed
// in-memory budget ahead of the backing KV store.
const cacheSize = 16 * 1024 * 1024

// KVManager is the reference Manager backed by an ethdb.Database: every
// materialized root is recorded as a marker key, and a fastcache instance
// fronts repeated HasStateRoot probes the way go-ethereum's trie database
// fronts repeated node lookups, since both backstep recovery and the
// per-block callback probe HasStateRoot on a hot path.
type KVManager struct {
	db    ethdb.Database
	cache *fastcache.Cache

	mu      sync.RWMutex
	current common.Hash
}

// NewKVManager returns a KVManager over db with the given current root. root
// is typically the state root of the store's "vm" iterator head at Open
// time.
func NewKVManager(db ethdb.Database, root common.Hash) *KVManager {
	return &KVManager{
		db:      db,
		cache:   fastcache.New(cacheSize),
		current: root,
	}
}

func (m *KVManager) GetStateRoot() common.Hash {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetStateRoot records the state root the manager should now consider
// current, called by the VM stub after a successful RunBlock.
func (m *KVManager) SetStateRoot(root common.Hash) {
	m.mu.Lock()
	m.current = root
	m.mu.Unlock()
}

func (m *KVManager) HasStateRoot(root common.Hash) bool {
	key := rootKey(root)
	if m.cache.Has(key) {
		return true
	}
	ok, err := m.db.Has(key)
	if err != nil {
		log.Error("state: presence probe failed", "root", root, "err", err)
		return false
	}
	if ok {
		m.cache.Set(key, []byte{1})
	}
	return ok
}

// MarkStateRoot records root as materialized. The VM stub calls this after
// producing a new state root from RunBlock, and GenerateCanonicalGenesis
// calls it for the genesis commitment.
func (m *KVManager) MarkStateRoot(root common.Hash) error {
	key := rootKey(root)
	if err := m.db.Put(key, []byte{1}); err != nil {
		return err
	}
	m.cache.Set(key, []byte{1})
	return nil
}

func (m *KVManager) GenerateCanonicalGenesis(root common.Hash) error {
	if m.HasStateRoot(root) {
		return nil
	}
	if err := m.MarkStateRoot(root); err != nil {
		return err
	}
	m.SetStateRoot(root)
	log.Info("state: generated canonical genesis", "root", root)
	return nil
}

// CacheStats reports the fastcache hit/miss counters the stats/telemetry
// timer samples on every tick.
func (m *KVManager) CacheStats() fastcache.Stats {
	var s fastcache.Stats
	m.cache.UpdateStats(&s)
	return s
}

// Fork returns an independent KVManager over the same backing store and
// current root, used by the VM's ShallowCopy so a debug replay's
// state-root bookkeeping never mutates the live manager's current root.
// preserveCache shares m's presence cache (fastcache is safe for concurrent
// use by multiple managers); otherwise the fork starts cold.
func (m *KVManager) Fork(preserveCache bool) *KVManager {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	cache := m.cache
	if !preserveCache {
		cache = fastcache.New(cacheSize)
	}
	return &KVManager{db: m.db, cache: cache, current: current}
}
