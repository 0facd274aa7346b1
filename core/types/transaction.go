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
	"sync/atomic"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/rlp"
)

// Transaction is the opaque, already-signed payload the engine stores and
// re-hashes but never validates or signs itself: signature verification,
// gas pricing rules, EIP-2718 envelope typing and access-list/blob data are
// consensus-rule concerns the VM boundary owns, not this engine. The fields
// kept here are exactly what the receipts index and debug-replay's
// txHashes selection need: identity (Hash), addressing (To) and the gas
// bookkeeping receipts report against.
type Transaction struct {
	Nonce    uint64
	To       *common.Address // nil for contract creation
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
	Data     []byte
	V, R, S  *big.Int // signature, opaque to the engine

	hash atomic.Value
}

// NewTransaction builds an unsigned transaction.
func NewTransaction(nonce uint64, to common.Address, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return &Transaction{
		Nonce:    nonce,
		To:       &to,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	}
}

func (tx *Transaction) Hash() common.Hash {
	if h := tx.hash.Load(); h != nil {
		return h.(common.Hash)
	}
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(err)
	}
	h := common.BytesToHash(keccak256(enc))
	tx.hash.Store(h)
	return h
}

// Transactions is a list of transactions, implementing DerivableList so a
// block's TxHash can be derived from it.
type Transactions []*Transaction

func (s Transactions) Len() int { return len(s) }

func (s Transactions) EncodeIndex(i int, w *bytes.Buffer) {
	enc, err := rlp.EncodeToBytes(s[i])
	if err != nil {
		panic(err)
	}
	w.Write(enc)
}
