// Copyright 2014 The go-ethereum Authors
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

package ethdb_test

import (
	"bytes"
	"testing"

	"github.com/ethereum/execution-core/ethdb"
	"github.com/ethereum/execution-core/ethdb/memorydb"
)

var values = []string{"", "a", "1251", "\x00123\x00"}

func TestPutGetDelete(t *testing.T) {
	testPutGetDelete(t, memorydb.New())
}

func testPutGetDelete(t *testing.T, db ethdb.KeyValueStore) {
	t.Helper()

	for _, k := range values {
		if err := db.Put([]byte(k), nil); err != nil {
			t.Fatalf("Put(%q, nil) = %v, want nil", k, err)
		}
	}
	if _, err := db.Get([]byte("non-existent-key")); err == nil {
		t.Fatal("Get(non-existent-key) = nil error, want not-found")
	}

	for _, v := range values {
		if err := db.Put([]byte(v), []byte(v)); err != nil {
			t.Fatalf("Put(%q, %q) = %v, want nil", v, v, err)
		}
	}
	for _, v := range values {
		data, err := db.Get([]byte(v))
		if err != nil || !bytes.Equal(data, []byte(v)) {
			t.Fatalf("Get(%q) = %q, %v, want %q, nil", v, data, err, v)
		}
		// The store must not alias its internal storage.
		if len(data) > 0 {
			data[0] = 0xff
		}
		data2, err := db.Get([]byte(v))
		if err != nil || !bytes.Equal(data2, []byte(v)) {
			t.Fatalf("Get(%q) after caller mutation = %q, %v, want %q, nil", v, data2, err, v)
		}
	}

	for _, v := range values {
		if err := db.Delete([]byte(v)); err != nil {
			t.Fatalf("Delete(%q) = %v, want nil", v, err)
		}
	}
	for _, v := range values {
		if _, err := db.Get([]byte(v)); err == nil {
			t.Fatalf("Get(%q) after delete = nil error, want not-found", v)
		}
	}
}

func TestBatchWriteCommitsOnWrite(t *testing.T) {
	db := memorydb.New()
	b := db.NewBatch()

	if err := b.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := b.Put([]byte("b"), []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if has, _ := db.Has([]byte("b")); has {
		t.Fatal("batch writes must not be visible before Write")
	}
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}
	if has, _ := db.Has([]byte("a")); has {
		t.Fatal("expected \"a\" to have been deleted by the batch")
	}
	if data, _ := db.Get([]byte("b")); !bytes.Equal(data, []byte("2")) {
		t.Fatalf("expected \"b\" = \"2\", got %q", data)
	}
}

func TestBatchReset(t *testing.T) {
	db := memorydb.New()
	b := db.NewBatch()
	b.Put([]byte("a"), []byte("1"))
	if b.ValueSize() == 0 {
		t.Fatal("expected non-zero batch size after Put")
	}
	b.Reset()
	if b.ValueSize() != 0 {
		t.Fatalf("expected zero batch size after Reset, got %d", b.ValueSize())
	}
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}
	if has, _ := db.Has([]byte("a")); has {
		t.Fatal("reset batch should not have written anything")
	}
}

func TestClosedDatabaseErrors(t *testing.T) {
	db := memorydb.New()
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get([]byte("a")); err == nil {
		t.Fatal("expected error reading from closed database")
	}
	if err := db.Put([]byte("a"), []byte("1")); err == nil {
		t.Fatal("expected error writing to closed database")
	}
}
