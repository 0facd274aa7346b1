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

// Package receipts is the public query surface over per-block receipts,
// backed by core/rawdb's receipt and tx-lookup accessors.
package receipts

import (
	"fmt"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/rawdb"
	"github.com/ethereum/execution-core/core/types"
)

// Manager persists per-block receipts and serves the tx-hash reverse lookup.
type Manager interface {
	SaveReceipts(block *types.Block, receipts types.Receipts) error
	GetReceipts(blockHash common.Hash, blockNumber uint64) types.Receipts
	GetTxReceipt(txHash common.Hash) (receipt *types.Receipt, blockHash common.Hash, index uint64, err error)
}

// RawdbManager is the reference Manager, writing through core/rawdb's
// WriteReceipts/WriteTxLookupEntriesByBlock in one atomic batch per block,
// so receipts and their lookup index are durable together rather than
// fire-and-forget.
type RawdbManager struct {
	db *rawdb.Database
}

// NewRawdbManager returns a RawdbManager over db.
func NewRawdbManager(db *rawdb.Database) *RawdbManager {
	return &RawdbManager{db: db}
}

// SaveReceipts persists block's receipts and tx lookup entries in a single
// atomic batch.
func (m *RawdbManager) SaveReceipts(block *types.Block, receiptsList types.Receipts) error {
	batch := m.db.NewBatch()
	rawdb.WriteReceipts(batch, block.Hash(), block.NumberU64(), receiptsList)
	rawdb.SaveLookups(batch, block)
	if err := batch.Write(); err != nil {
		return fmt.Errorf("receipts: save receipts for block %d: %w", block.NumberU64(), err)
	}
	return nil
}

func (m *RawdbManager) GetReceipts(blockHash common.Hash, blockNumber uint64) types.Receipts {
	return rawdb.ReadReceipts(m.db, blockHash, blockNumber)
}

// GetTxReceipt resolves a transaction hash to its receipt, owning block hash
// and positional index.
func (m *RawdbManager) GetTxReceipt(txHash common.Hash) (*types.Receipt, common.Hash, uint64, error) {
	_, blockHash, blockNumber, index := rawdb.ReadTransaction(m.db, txHash)
	if blockHash == (common.Hash{}) {
		return nil, common.Hash{}, 0, fmt.Errorf("receipts: no transaction lookup entry for %x", txHash)
	}
	receiptsList := rawdb.ReadReceipts(m.db, blockHash, blockNumber)
	if int(index) >= len(receiptsList) {
		return nil, common.Hash{}, 0, fmt.Errorf("receipts: index %d out of range for block %x", index, blockHash)
	}
	return receiptsList[index], blockHash, index, nil
}
