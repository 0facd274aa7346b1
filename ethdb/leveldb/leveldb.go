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

// Package leveldb implements the ethdb.Database interface on top of
// goleveldb, the engine's longstanding on-disk default.
package leveldb

import (
	"fmt"

	"github.com/ethereum/execution-core/ethdb"
	"github.com/gofrs/flock"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	minCache   = 16
	minHandles = 16
)

// Database wraps a goleveldb instance, holding an exclusive directory lock
// for the lifetime of the handle the same way node.Node locks its own
// datadir.
type Database struct {
	fn   string
	db   *leveldb.DB
	lock *flock.Flock
}

// New opens (creating if necessary) a leveldb database at file, applying
// the given cache allocation (MiB) and file handle limit. Values below the
// minimums are bumped up, mirroring the teacher's own defensive defaults.
func New(file string, cache int, handles int, readonly bool) (*Database, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}

	lock := flock.New(file + ".lock")
	if locked, err := lock.TryLock(); err != nil {
		return nil, err
	} else if !locked {
		return nil, fmt.Errorf("leveldb: directory %q already locked", file)
	}

	opts := &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
		ReadOnly:               readonly,
	}
	db, err := leveldb.OpenFile(file, opts)
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return &Database{fn: file, db: db, lock: lock}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	return db.db.Get(key, nil)
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

func (db *Database) Stat(property string) (string, error) {
	return db.db.GetProperty(property)
}

func (db *Database) Compact(start []byte, limit []byte) error {
	return db.db.CompactRange(util.Range{Start: start, Limit: limit})
}

func (db *Database) Close() error {
	closeErr := db.db.Close()
	if err := db.lock.Unlock(); err != nil {
		return err
	}
	return closeErr
}

func (db *Database) NewBatch() ethdb.Batch {
	return &batch{db: db.db, b: new(leveldb.Batch)}
}

func (db *Database) NewBatchWithSize(size int) ethdb.Batch {
	return &batch{db: db.db, b: leveldb.MakeBatch(size)}
}

func (db *Database) NewIterator(prefix []byte, start []byte) ethdb.Iterator {
	rg := util.BytesPrefix(prefix)
	rg.Start = append(rg.Start, start...)
	return db.db.NewIterator(rg, nil)
}

type batch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size += len(key)
	return nil
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *batch) Reset() {
	b.b.Reset()
	b.size = 0
}

func (b *batch) Replay(w ethdb.KeyValueWriter) error {
	rp := &replayer{writer: w}
	b.b.Replay(rp)
	return rp.failure
}

// replayer adapts ethdb.KeyValueWriter to goleveldb's batch replay
// callback shape.
type replayer struct {
	writer ethdb.KeyValueWriter
	failure error
}

func (r *replayer) Put(key, value []byte) {
	if r.failure != nil {
		return
	}
	r.failure = r.writer.Put(key, value)
}

func (r *replayer) Delete(key []byte) {
	if r.failure != nil {
		return
	}
	r.failure = r.writer.Delete(key)
}
