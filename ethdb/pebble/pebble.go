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

// Package pebble implements the ethdb.Database interface on top of
// cockroachdb/pebble, the teacher's newer on-disk engine and default for
// fresh datadirs.
package pebble

import (
	"bytes"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/execution-core/ethdb"
	"github.com/gofrs/flock"
)

// Database wraps a pebble instance, holding an exclusive directory lock
// for the lifetime of the handle.
type Database struct {
	fn   string
	db   *pebble.DB
	lock *flock.Flock
}

// New opens (creating if necessary) a pebble database at file, applying the
// given cache allocation (MiB) and file handle limit.
func New(file string, cache int, handles int, readonly bool) (*Database, error) {
	lock := flock.New(file + ".lock")
	if locked, err := lock.TryLock(); err != nil {
		return nil, err
	} else if !locked {
		return nil, errAlreadyLocked(file)
	}

	cacheSize := int64(cache) * 1024 * 1024
	opts := &pebble.Options{
		Cache:        pebble.NewCache(cacheSize),
		MaxOpenFiles: handles,
		ReadOnly:     readonly,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return &Database{fn: file, db: db, lock: lock}, nil
}

type errAlreadyLocked string

func (e errAlreadyLocked) Error() string {
	return "pebble: directory " + string(e) + " already locked"
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (db *Database) Get(key []byte) ([]byte, error) {
	data, closer, err := db.db.Get(key)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), data...)
	closer.Close()
	return out, nil
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Set(key, value, pebble.NoSync)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, pebble.NoSync)
}

func (db *Database) Stat(property string) (string, error) {
	return db.db.Metrics().String(), nil
}

func (db *Database) Compact(start []byte, limit []byte) error {
	if limit == nil {
		limit = bytes.Repeat([]byte{0xff}, 32)
	}
	return db.db.Compact(start, limit, true)
}

func (db *Database) Close() error {
	closeErr := db.db.Close()
	if err := db.lock.Unlock(); err != nil {
		return err
	}
	return closeErr
}

func (db *Database) NewBatch() ethdb.Batch {
	return &batch{db: db.db, b: db.db.NewBatch()}
}

func (db *Database) NewBatchWithSize(size int) ethdb.Batch {
	return &batch{db: db.db, b: db.db.NewBatchWithSize(size)}
}

func (db *Database) NewIterator(prefix []byte, start []byte) ethdb.Iterator {
	iterOpts := &pebble.IterOptions{LowerBound: append(append([]byte(nil), prefix...), start...)}
	if upper := upperBound(prefix); upper != nil {
		iterOpts.UpperBound = upper
	}
	it, _ := db.db.NewIter(iterOpts)
	return &iterator{iter: it, first: true}
}

// upperBound returns the lexicographically smallest key that is larger
// than every key with the given prefix, or nil if prefix is empty (no
// upper bound needed).
func upperBound(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] == 0xff {
			continue
		}
		upper := append([]byte(nil), prefix[:i+1]...)
		upper[i]++
		return upper
	}
	return nil
}

type batch struct {
	db   *pebble.DB
	b    *pebble.Batch
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.size += len(key) + len(value)
	return b.b.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key)
	return b.b.Delete(key, nil)
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	return b.db.Apply(b.b, pebble.NoSync)
}

func (b *batch) Reset() {
	b.b.Reset()
	b.size = 0
}

func (b *batch) Replay(w ethdb.KeyValueWriter) error {
	reader := b.b.Reader()
	for {
		kind, k, v, ok, err := reader.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		}
	}
}

type iterator struct {
	iter  *pebble.Iterator
	first bool
}

func (it *iterator) Next() bool {
	if it.first {
		it.first = false
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *iterator) Error() error { return it.iter.Error() }
func (it *iterator) Key() []byte  { return it.iter.Key() }
func (it *iterator) Value() []byte { return it.iter.Value() }
func (it *iterator) Release() {
	it.iter.Close()
}
