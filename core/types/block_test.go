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

func testHeader() *Header {
	return &Header{
		ParentHash: common.HexToHash("0x01"),
		Coinbase:   common.HexToAddress("0x8888f1f195afa192cfee860698584c030f4c9db1"),
		Root:       common.HexToHash("0x02"),
		Difficulty: big.NewInt(131072),
		Number:     big.NewInt(1),
		GasLimit:   3141592,
		GasUsed:    21000,
		Time:       1426516743,
		Extra:      []byte("test block"),
		Nonce:      EncodeNonce(0xa13a5a8c8f2bb1c4),
	}
}

func TestBlockEncodingRoundTrip(t *testing.T) {
	to := common.HexToAddress("0x095e7baea6a6c7c4c2dfeb977efac326af552d87")
	tx := NewTransaction(0, to, big.NewInt(10), 50000, big.NewInt(10), nil)
	block := NewBlock(testHeader(), &Body{Transactions: []*Transaction{tx}}, nil)

	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Block
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if decoded.Hash() != block.Hash() {
		t.Errorf("hash mismatch: got %x want %x", decoded.Hash(), block.Hash())
	}
	if len(decoded.Transactions()) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(decoded.Transactions()))
	}
	if decoded.Transactions()[0].Hash() != tx.Hash() {
		t.Errorf("transaction hash mismatch: got %x want %x", decoded.Transactions()[0].Hash(), tx.Hash())
	}
	if decoded.Difficulty().Cmp(block.Difficulty()) != 0 {
		t.Errorf("difficulty mismatch: got %v want %v", decoded.Difficulty(), block.Difficulty())
	}
	if decoded.GasLimit() != block.GasLimit() {
		t.Errorf("gas limit mismatch: got %d want %d", decoded.GasLimit(), block.GasLimit())
	}
}

func TestEmptyBlockHashesAreCanonical(t *testing.T) {
	block := NewBlock(testHeader(), &Body{}, nil)
	if block.Header().TxHash != EmptyRootHash {
		t.Errorf("empty tx list should hash to EmptyRootHash, got %x", block.Header().TxHash)
	}
	if block.Header().UncleHash != EmptyUncleHash {
		t.Errorf("empty uncle list should hash to EmptyUncleHash, got %x", block.Header().UncleHash)
	}
}

func TestUncleHash(t *testing.T) {
	h := CalcUncleHash(nil)
	if h != EmptyUncleHash {
		t.Errorf("empty uncle hash mismatch: got %x want %x", h, EmptyUncleHash)
	}
}

func TestBlockSize(t *testing.T) {
	block := NewBlock(testHeader(), &Body{}, nil)
	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		t.Fatal(err)
	}
	if block.Size() != uint64(len(enc)) {
		t.Errorf("Size() = %d, want %d", block.Size(), len(enc))
	}
}
