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

func testReceipt() *Receipt {
	addr := common.HexToAddress("0x22341ae42d6dd7384bc8584e50419ea3ac75b83f")
	topic := common.HexToHash("0x01")
	r := NewReceipt(ReceiptStatusSuccessful, 21000)
	r.TxHash = common.HexToHash("0x02")
	r.GasUsed = 21000
	r.Logs = []*Log{{Address: addr, Topics: []common.Hash{topic}, Data: []byte{0x01, 0x02}}}
	r.Bloom = CreateBloom([]*Receipt{r})

	// Query-only fields, never part of the canonical encoding.
	r.BlockHash = common.HexToHash("0x03")
	r.BlockNumber = big.NewInt(5)
	r.TxIndex = 1

	return r
}

func TestReceiptEncodeDecodeRoundTrip(t *testing.T) {
	r := testReceipt()
	enc, err := rlp.EncodeToBytes(r)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Receipt
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.Status != r.Status {
		t.Errorf("status mismatch: got %d want %d", decoded.Status, r.Status)
	}
	if decoded.CumulativeGasUsed != r.CumulativeGasUsed {
		t.Errorf("cumulative gas mismatch: got %d want %d", decoded.CumulativeGasUsed, r.CumulativeGasUsed)
	}
	if decoded.TxHash != r.TxHash {
		t.Errorf("tx hash mismatch: got %x want %x", decoded.TxHash, r.TxHash)
	}
	if len(decoded.Logs) != 1 || decoded.Logs[0].Address != r.Logs[0].Address {
		t.Fatalf("log mismatch: got %+v want %+v", decoded.Logs, r.Logs)
	}
}

func TestReceiptQueryFieldsExcludedFromEncoding(t *testing.T) {
	r := testReceipt()
	enc, err := rlp.EncodeToBytes(r)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Receipt
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.BlockHash != (common.Hash{}) {
		t.Errorf("expected BlockHash to stay zero-valued, got %x", decoded.BlockHash)
	}
	if decoded.BlockNumber != nil {
		t.Errorf("expected BlockNumber to stay nil, got %v", decoded.BlockNumber)
	}
	if decoded.TxIndex != 0 {
		t.Errorf("expected TxIndex to stay zero, got %d", decoded.TxIndex)
	}
}

func TestLogQueryFieldsExcludedFromEncoding(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	log := &Log{
		Address:     addr,
		Topics:      []common.Hash{common.HexToHash("0x01")},
		BlockNumber: 42,
		TxIndex:     3,
		Removed:     true,
	}
	enc, err := rlp.EncodeToBytes(log)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var decoded Log
	if err := rlp.DecodeBytes(enc, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.Address != log.Address {
		t.Errorf("address mismatch: got %x want %x", decoded.Address, log.Address)
	}
	if decoded.BlockNumber != 0 || decoded.TxIndex != 0 || decoded.Removed {
		t.Errorf("expected query-only fields to stay zero-valued, got BlockNumber=%d TxIndex=%d Removed=%v",
			decoded.BlockNumber, decoded.TxIndex, decoded.Removed)
	}
}

func TestReceiptsDeriveShaOrderSensitive(t *testing.T) {
	a := NewReceipt(ReceiptStatusSuccessful, 100)
	b := NewReceipt(ReceiptStatusFailed, 200)

	h1 := DeriveSha(Receipts{a, b})
	h2 := DeriveSha(Receipts{b, a})
	if h1 == h2 {
		t.Error("DeriveSha should be sensitive to receipt order")
	}
}
