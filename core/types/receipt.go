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
	"bytes"
	"math/big"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/rlp"
)

// Receipt statuses, matching go-ethereum's post-Byzantium convention of a
// status byte rather than the pre-Byzantium intermediate state root.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the per-transaction execution outcome the run loop persists
// after runBlock; the pending-receipts map and receipts manager store
// receipts grouped per block, keyed by block hash.
type Receipt struct {
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	TxHash          common.Hash
	ContractAddress common.Address
	GasUsed         uint64

	BlockHash   common.Hash `rlp:"-"`
	BlockNumber *big.Int    `rlp:"-"`
	TxIndex     uint        `rlp:"-"`
}

// NewReceipt creates a receipt with only its status and cumulative gas set;
// Logs and Bloom are left for the caller to fill (mirroring go-ethereum's
// two-step construction: build the receipt, run the VM, then fill Logs/Bloom).
func NewReceipt(status uint64, cumulativeGasUsed uint64) *Receipt {
	return &Receipt{Status: status, CumulativeGasUsed: cumulativeGasUsed}
}

// Log is a single EVM log entry attached to a receipt.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	BlockNumber uint64      `rlp:"-"`
	TxHash      common.Hash `rlp:"-"`
	TxIndex     uint        `rlp:"-"`
	BlockHash   common.Hash `rlp:"-"`
	Index       uint        `rlp:"-"`
	Removed     bool        `rlp:"-"`
}

// Receipts implements DerivableList.
type Receipts []*Receipt

func (r Receipts) Len() int { return len(r) }

func (r Receipts) EncodeIndex(i int, w *bytes.Buffer) {
	enc, err := rlp.EncodeToBytes(r[i])
	if err != nil {
		panic(err)
	}
	w.Write(enc)
}
