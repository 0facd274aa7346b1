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

package receipts

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/rawdb"
	"github.com/ethereum/execution-core/core/types"
)

func testBlockWithTxs(number int64, n int) *types.Block {
	header := &types.Header{Number: big.NewInt(number), Difficulty: big.NewInt(1), GasLimit: 30_000_000}
	var body types.Body
	for i := 0; i < n; i++ {
		body.Transactions = append(body.Transactions, types.NewTransaction(uint64(i), common.HexToAddress("0x01"), big.NewInt(1), 21000, big.NewInt(1), nil))
	}
	return types.NewBlock(header, &body, nil)
}

func testReceiptsFor(block *types.Block) types.Receipts {
	var out types.Receipts
	for _, tx := range block.Transactions() {
		r := types.NewReceipt(types.ReceiptStatusSuccessful, 21000)
		r.TxHash = tx.Hash()
		out = append(out, r)
	}
	return out
}

func TestSaveAndGetReceipts(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	m := NewRawdbManager(db)
	block := testBlockWithTxs(1, 2)
	receiptsList := testReceiptsFor(block)

	require.NoError(t, m.SaveReceipts(block, receiptsList))

	got := m.GetReceipts(block.Hash(), block.NumberU64())
	require.Len(t, got, 2)
}

func TestGetTxReceiptResolvesPositionally(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	m := NewRawdbManager(db)
	block := testBlockWithTxs(1, 3)
	receiptsList := testReceiptsFor(block)
	require.NoError(t, m.SaveReceipts(block, receiptsList))

	tx := block.Transactions()[2]
	r, blockHash, index, err := m.GetTxReceipt(tx.Hash())
	require.NoError(t, err)
	require.Equal(t, block.Hash(), blockHash)
	require.EqualValues(t, 2, index)
	require.Equal(t, tx.Hash(), r.TxHash)
}

func TestGetTxReceiptUnknownHash(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	m := NewRawdbManager(db)
	_, _, _, err := m.GetTxReceipt(common.HexToHash("0xdead"))
	require.Error(t, err)
}
