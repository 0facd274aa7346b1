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

// Package ethdb defines the key-value storage interfaces core/rawdb encodes
// the blockchain store against. Concrete engines live in the memorydb,
// leveldb and pebble subpackages.
package ethdb

import "io"

// KeyValueReader wraps the Has and Get methods of a backing store.
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put and Delete methods of a backing store.
type KeyValueWriter interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// KeyValueStater wraps the Stat method of a backing store.
type KeyValueStater interface {
	Stat(property string) (string, error)
}

// Iterator iterates over a database's key/value pairs in ascending key
// order. Must be released with Release when done.
type Iterator interface {
	Next() bool
	Error() error
	Key() []byte
	Value() []byte
	Release()
}

// Iteratee wraps the NewIterator methods of a backing store.
type Iteratee interface {
	// NewIterator creates a binary-alphabetical iterator over the start to
	// the end of the keyspace, restricted to keys with the given prefix and
	// starting at the given start position.
	NewIterator(prefix []byte, start []byte) Iterator
}

// Batch is a write-only database that commits changes to its host database
// when Write is called. A batch cannot be used concurrently.
type Batch interface {
	KeyValueWriter

	ValueSize() int
	Write() error
	Reset()
	Replay(w KeyValueWriter) error
}

// Batcher wraps the NewBatch and NewBatchWithSize methods of a backing
// store.
type Batcher interface {
	NewBatch() Batch
	NewBatchWithSize(size int) Batch
}

// KeyValueStore contains all the methods required to allow handling
// different backing stores interchangeably.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	KeyValueStater
	Batcher
	Iteratee
	io.Closer
}

// Database is the interface core/rawdb encodes the blockchain store
// against: a key-value store plus a compaction hook, both of which the
// engines in memorydb/leveldb/pebble implement.
type Database interface {
	KeyValueStore

	Compact(start []byte, limit []byte) error
}
