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

func TestTxLookupStorage(t *testing.T) {
	db := NewMemoryDatabase()

	tx1 := types.NewTransaction(1, common.BytesToAddress([]byte{0x11}), big.NewInt(111), 1111, big.NewInt(11111), []byte{0x11})
	tx2 := types.NewTransaction(2, common.BytesToAddress([]byte{0x22}), big.NewInt(222), 2222, big.NewInt(22222), []byte{0x22})
	txs := []*types.Transaction{tx1, tx2}

	block := types.NewBlock(testHeader(314), &types.Body{Transactions: txs}, nil)

	for i, tx := range txs {
		if txn, _, _, _ := ReadTransaction(db, tx.Hash()); txn != nil {
			t.Fatalf("tx #%d: non-existent transaction returned: %v", i, txn)
		}
	}

	WriteCanonicalHash(db, block.Hash(), block.NumberU64())
	WriteBlock(db, block)
	WriteTxLookupEntriesByBlock(db, block)

	for i, tx := range txs {
		txn, hash, number, index := ReadTransaction(db, tx.Hash())
		if txn == nil {
			t.Fatalf("tx #%d: transaction not found", i)
		}
		if hash != block.Hash() || number != block.NumberU64() || index != uint64(i) {
			t.Fatalf("tx #%d: positional metadata mismatch: have %x/%d/%d, want %x/%d/%d",
				i, hash, number, index, block.Hash(), block.NumberU64(), i)
		}
		if txn.Hash() != tx.Hash() {
			t.Fatalf("tx #%d: transaction hash mismatch: have %x, want %x", i, txn.Hash(), tx.Hash())
		}
	}

	for i, tx := range txs {
		DeleteTxLookupEntry(db, tx.Hash())
		if txn, _, _, _ := ReadTransaction(db, tx.Hash()); txn != nil {
			t.Fatalf("tx #%d: deleted transaction returned: %v", i, txn)
		}
	}
}
