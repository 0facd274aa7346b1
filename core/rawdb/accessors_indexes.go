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
	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/ethdb"
	"github.com/ethereum/execution-core/log"
	"github.com/ethereum/execution-core/rlp"
)

// txLookupEntry is the positional metadata stored for each transaction,
// allowing the receipts manager to resolve a transaction hash straight to
// its containing block without touching the block itself.
type txLookupEntry struct {
	BlockHash  common.Hash
	BlockIndex uint64
	Index      uint64
}

// WriteTxLookupEntriesByBlock stores a positional metadata entry for every
// transaction in a block, used by the receipts manager's GetTxReceipt to
// locate a transaction by hash alone.
func WriteTxLookupEntriesByBlock(db ethdb.KeyValueWriter, block *types.Block) {
	for i, tx := range block.Transactions() {
		entry := txLookupEntry{
			BlockHash:  block.Hash(),
			BlockIndex: block.NumberU64(),
			Index:      uint64(i),
		}
		data, err := rlp.EncodeToBytes(entry)
		if err != nil {
			log.Crit("Failed to RLP encode transaction lookup entry", "err", err)
		}
		if err := db.Put(txLookupKey(tx.Hash()), data); err != nil {
			log.Crit("Failed to store transaction lookup entry", "err", err)
		}
	}
}

// ReadTxLookupEntry retrieves the positional metadata associated with a
// transaction hash to allow retrieving the transaction or receipt by hash.
func ReadTxLookupEntry(db ethdb.KeyValueReader, txHash common.Hash) (common.Hash, uint64, uint64) {
	data, _ := db.Get(txLookupKey(txHash))
	if len(data) == 0 {
		return common.Hash{}, 0, 0
	}
	var entry txLookupEntry
	if err := rlp.DecodeBytes(data, &entry); err != nil {
		log.Error("Invalid transaction lookup entry RLP", "hash", txHash, "err", err)
		return common.Hash{}, 0, 0
	}
	return entry.BlockHash, entry.BlockIndex, entry.Index
}

// ReadTransaction retrieves a specific transaction by hash, along with its
// containing block's hash, number, and index within that block.
func ReadTransaction(db ethdb.KeyValueReader, txHash common.Hash) (*types.Transaction, common.Hash, uint64, uint64) {
	blockHash, blockNumber, txIndex := ReadTxLookupEntry(db, txHash)
	if blockHash == (common.Hash{}) {
		return nil, common.Hash{}, 0, 0
	}
	body := ReadBody(db, blockHash, blockNumber)
	if body == nil || int(txIndex) >= len(body.Transactions) {
		log.Error("Transaction referenced missing", "number", blockNumber, "hash", blockHash, "index", txIndex)
		return nil, common.Hash{}, 0, 0
	}
	return body.Transactions[txIndex], blockHash, blockNumber, txIndex
}

// DeleteTxLookupEntry removes a transaction's positional metadata.
func DeleteTxLookupEntry(db ethdb.KeyValueWriter, txHash common.Hash) {
	if err := db.Delete(txLookupKey(txHash)); err != nil {
		log.Crit("Failed to delete transaction lookup entry", "err", err)
	}
}
