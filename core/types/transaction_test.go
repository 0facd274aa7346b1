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

package types

import (
	"math/big"
	"testing"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/rlp"
)

func testTx() *Transaction {
	to := common.HexToAddress("0x095e7baea6a6c7c4c2dfeb977efac326af552d87")
	return NewTransaction(3, to, big.NewInt(10), 50000, big.NewInt(1), []byte("hello"))
}

func TestTransactionHashIsStable(t *testing.T) {
	tx := testTx()
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Errorf("Hash() not stable across calls: %x != %x", h1, h2)
	}
}

func TestTransactionHashDistinguishesFields(t *testing.T) {
	tx := testTx()
	other := testTx()
	other.Nonce = tx.Nonce + 1
	if tx.Hash() == other.Hash() {
		t.Error("transactions differing only in nonce hashed equal")
	}
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	tx := testTx()
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Transaction
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.Hash() != tx.Hash() {
		t.Errorf("hash mismatch after round trip: got %x want %x", decoded.Hash(), tx.Hash())
	}
	if decoded.Nonce != tx.Nonce {
		t.Errorf("nonce mismatch: got %d want %d", decoded.Nonce, tx.Nonce)
	}
	if decoded.To == nil || *decoded.To != *tx.To {
		t.Errorf("to mismatch: got %v want %v", decoded.To, tx.To)
	}
	if decoded.Value.Cmp(tx.Value) != 0 {
		t.Errorf("value mismatch: got %v want %v", decoded.Value, tx.Value)
	}
	if string(decoded.Data) != string(tx.Data) {
		t.Errorf("data mismatch: got %q want %q", decoded.Data, tx.Data)
	}
}

func TestTransactionsDeriveShaOrderSensitive(t *testing.T) {
	a := testTx()
	b := testTx()
	b.Nonce = a.Nonce + 1

	h1 := DeriveSha(Transactions{a, b})
	h2 := DeriveSha(Transactions{b, a})
	if h1 == h2 {
		t.Error("DeriveSha should be sensitive to transaction order")
	}
}

func TestContractCreationHasNilTo(t *testing.T) {
	tx := &Transaction{Nonce: 0, Value: big.NewInt(0), Gas: 100000, GasPrice: big.NewInt(1), Data: []byte{0x60}}
	if tx.To != nil {
		t.Fatal("expected nil To for contract creation")
	}
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Transaction
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.To != nil {
		t.Errorf("expected nil To to survive round trip, got %v", decoded.To)
	}
}
