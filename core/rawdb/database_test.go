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
	"testing"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/types"
)

func TestHashToNumberCaching(t *testing.T) {
	db := NewMemoryDatabase()
	header := testHeader(9)
	WriteHeader(db, header)

	if _, ok := db.HashToNumber(common.HexToHash("0xdead")); ok {
		t.Fatal("expected miss for unknown hash")
	}
	number, ok := db.HashToNumber(header.Hash())
	if !ok || number != 9 {
		t.Fatalf("expected (9, true), got (%d, %v)", number, ok)
	}
	// Second call must hit the cache and return the same answer.
	number, ok = db.HashToNumber(header.Hash())
	if !ok || number != 9 {
		t.Fatalf("expected cached (9, true), got (%d, %v)", number, ok)
	}
}

func TestNumberToCanonicalHashCaching(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x0c")
	WriteCanonicalHash(db, hash, 11)

	got, ok := db.NumberToCanonicalHash(11)
	if !ok || got != hash {
		t.Fatalf("expected (%x, true), got (%x, %v)", hash, got, ok)
	}

	other := common.HexToHash("0x0d")
	WriteCanonicalHash(db, other, 11)
	db.InvalidateCanonicalCache(11)

	got, ok = db.NumberToCanonicalHash(11)
	if !ok || got != other {
		t.Fatalf("expected invalidated cache to read fresh value %x, got %x", other, got)
	}
}

func TestBatchOpsComposeAWrite(t *testing.T) {
	db := NewMemoryDatabase()
	block := testBlockWithTxs()

	batch := db.NewBatch()
	SetBlockOrHeader(batch, block)
	SetHashToNumber(batch, block.Hash(), block.NumberU64())
	SetTD(batch, block.Hash(), block.NumberU64(), big.NewInt(42))
	SaveLookups(batch, block)
	WriteCanonicalHash(batch, block.Hash(), block.NumberU64())

	if err := batch.Write(); err != nil {
		t.Fatal(err)
	}

	if got := ReadBlock(db, block.Hash(), block.NumberU64()); got == nil {
		t.Fatal("expected block to be stored by SetBlockOrHeader")
	}
	if td := ReadTd(db, block.Hash(), block.NumberU64()); td == nil || td.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected total difficulty 42, got %v", td)
	}
	if got := ReadCanonicalHash(db, block.NumberU64()); got != block.Hash() {
		t.Fatalf("expected canonical hash %x, got %x", block.Hash(), got)
	}
	for _, tx := range block.Transactions() {
		if txn, _, _, _ := ReadTransaction(db, tx.Hash()); txn == nil {
			t.Fatalf("expected transaction %x to be looked up via SaveLookups", tx.Hash())
		}
	}
}

func testBlockWithTxs() *types.Block {
	tx := types.NewTransaction(0, common.HexToAddress("0x0e"), big.NewInt(1), 21000, big.NewInt(1), nil)
	return types.NewBlock(testHeader(20), &types.Body{Transactions: []*types.Transaction{tx}}, nil)
}
