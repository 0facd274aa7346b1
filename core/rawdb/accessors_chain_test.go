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

func testHeader(number int64) *types.Header {
	return &types.Header{
		ParentHash: common.HexToHash("0x01"),
		Root:       common.HexToHash("0x02"),
		Difficulty: big.NewInt(131072),
		Number:     big.NewInt(number),
		GasLimit:   3141592,
	}
}

func TestHeaderStorage(t *testing.T) {
	db := NewMemoryDatabase()
	header := testHeader(1)

	if entry := ReadHeader(db, header.Hash(), 1); entry != nil {
		t.Fatal("expected no header in pristine database")
	}
	WriteHeader(db, header)
	if entry := ReadHeader(db, header.Hash(), 1); entry == nil {
		t.Fatal("expected header to be found")
	} else if entry.Hash() != header.Hash() {
		t.Fatalf("hash mismatch: got %x want %x", entry.Hash(), header.Hash())
	}
	if n := ReadHeaderNumber(db, header.Hash()); n == nil || *n != 1 {
		t.Fatalf("expected hash-to-number mapping to be recorded, got %v", n)
	}

	DeleteHeader(db, header.Hash(), 1)
	if entry := ReadHeader(db, header.Hash(), 1); entry != nil {
		t.Fatal("expected header to be deleted")
	}
}

func TestBodyStorage(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x03")
	body := &types.Body{Transactions: []*types.Transaction{
		types.NewTransaction(0, common.HexToAddress("0x04"), big.NewInt(1), 21000, big.NewInt(1), nil),
	}}

	if entry := ReadBody(db, hash, 0); entry != nil {
		t.Fatal("expected no body in pristine database")
	}
	WriteBody(db, hash, 0, body)
	if entry := ReadBody(db, hash, 0); entry == nil {
		t.Fatal("expected body to be found")
	} else if len(entry.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(entry.Transactions))
	}

	DeleteBody(db, hash, 0)
	if entry := ReadBody(db, hash, 0); entry != nil {
		t.Fatal("expected body to be deleted")
	}
}

func TestBlockStorageRoundTrip(t *testing.T) {
	db := NewMemoryDatabase()
	block := types.NewBlock(testHeader(5), &types.Body{}, nil)

	WriteBlock(db, block)
	if !HasHeader(db, block.Hash(), block.NumberU64()) {
		t.Fatal("expected header to exist")
	}
	if !HasBody(db, block.Hash(), block.NumberU64()) {
		t.Fatal("expected body to exist")
	}
	got := ReadBlock(db, block.Hash(), block.NumberU64())
	if got == nil || got.Hash() != block.Hash() {
		t.Fatalf("block round trip mismatch: got %v", got)
	}

	DeleteBlock(db, block.Hash(), block.NumberU64())
	if HasHeader(db, block.Hash(), block.NumberU64()) || HasBody(db, block.Hash(), block.NumberU64()) {
		t.Fatal("expected block data to be fully deleted")
	}
}

func TestTdStorage(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x05")

	if td := ReadTd(db, hash, 0); td != nil {
		t.Fatal("expected no total difficulty in pristine database")
	}
	WriteTd(db, hash, 0, big.NewInt(12345))
	if td := ReadTd(db, hash, 0); td == nil || td.Cmp(big.NewInt(12345)) != 0 {
		t.Fatalf("expected total difficulty 12345, got %v", td)
	}

	DeleteTd(db, hash, 0)
	if td := ReadTd(db, hash, 0); td != nil {
		t.Fatal("expected total difficulty to be deleted")
	}
}

func TestCanonicalMappingStorage(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x06")

	if got := ReadCanonicalHash(db, 7); got != (common.Hash{}) {
		t.Fatal("expected no canonical hash in pristine database")
	}
	WriteCanonicalHash(db, hash, 7)
	if got := ReadCanonicalHash(db, 7); got != hash {
		t.Fatalf("canonical hash mismatch: got %x want %x", got, hash)
	}
	DeleteCanonicalHash(db, 7)
	if got := ReadCanonicalHash(db, 7); got != (common.Hash{}) {
		t.Fatal("expected canonical hash to be deleted")
	}
}

func TestHeadPointerStorage(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x07")

	if got := ReadHeadBlockHash(db); got != (common.Hash{}) {
		t.Fatal("expected no head block hash in pristine database")
	}
	WriteHeadBlockHash(db, hash)
	if got := ReadHeadBlockHash(db); got != hash {
		t.Fatalf("head block hash mismatch: got %x want %x", got, hash)
	}

	WriteHeadHeaderHash(db, hash)
	if got := ReadHeadHeaderHash(db); got != hash {
		t.Fatalf("head header hash mismatch: got %x want %x", got, hash)
	}
}

func TestReceiptStorageReattachesQueryFields(t *testing.T) {
	db := NewMemoryDatabase()
	hash := common.HexToHash("0x08")
	addr := common.HexToAddress("0x09")

	r := types.NewReceipt(types.ReceiptStatusSuccessful, 21000)
	r.TxHash = common.HexToHash("0x0a")
	r.Logs = []*types.Log{{Address: addr, Topics: []common.Hash{common.HexToHash("0x0b")}}}
	receipts := types.Receipts{r}

	if got := ReadReceipts(db, hash, 3); got != nil {
		t.Fatal("expected no receipts in pristine database")
	}
	WriteReceipts(db, hash, 3, receipts)

	got := ReadReceipts(db, hash, 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(got))
	}
	if got[0].BlockHash != hash || got[0].BlockNumber.Uint64() != 3 || got[0].TxIndex != 0 {
		t.Fatalf("expected query-only fields to be reattached, got BlockHash=%x BlockNumber=%v TxIndex=%d",
			got[0].BlockHash, got[0].BlockNumber, got[0].TxIndex)
	}
	if len(got[0].Logs) != 1 || got[0].Logs[0].BlockHash != hash || got[0].Logs[0].TxHash != r.TxHash {
		t.Fatalf("expected log query-only fields to be reattached, got %+v", got[0].Logs[0])
	}

	DeleteReceipts(db, hash, 3)
	if got := ReadReceipts(db, hash, 3); got != nil {
		t.Fatal("expected receipts to be deleted")
	}
}
