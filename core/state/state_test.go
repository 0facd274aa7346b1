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

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/ethdb/memorydb"
)

func TestHasStateRootMissByDefault(t *testing.T) {
	m := NewKVManager(memorydb.New(), common.Hash{})
	require.False(t, m.HasStateRoot(common.HexToHash("0x01")))
}

func TestMarkStateRootThenHasStateRoot(t *testing.T) {
	m := NewKVManager(memorydb.New(), common.Hash{})
	root := common.HexToHash("0x02")

	require.NoError(t, m.MarkStateRoot(root))
	require.True(t, m.HasStateRoot(root))
	// unrelated root remains absent
	require.False(t, m.HasStateRoot(common.HexToHash("0x03")))
}

func TestGetSetStateRoot(t *testing.T) {
	m := NewKVManager(memorydb.New(), common.HexToHash("0x04"))
	require.Equal(t, common.HexToHash("0x04"), m.GetStateRoot())

	m.SetStateRoot(common.HexToHash("0x05"))
	require.Equal(t, common.HexToHash("0x05"), m.GetStateRoot())
}

func TestGenerateCanonicalGenesisIsIdempotent(t *testing.T) {
	m := NewKVManager(memorydb.New(), common.Hash{})
	genesis := common.HexToHash("0x00")

	require.NoError(t, m.GenerateCanonicalGenesis(genesis))
	require.True(t, m.HasStateRoot(genesis))
	require.Equal(t, genesis, m.GetStateRoot())

	// calling again must not error and must leave state unchanged
	require.NoError(t, m.GenerateCanonicalGenesis(genesis))
}

func TestCacheStatsReflectsProbes(t *testing.T) {
	m := NewKVManager(memorydb.New(), common.Hash{})
	root := common.HexToHash("0x06")
	require.NoError(t, m.MarkStateRoot(root))

	m.HasStateRoot(root)
	stats := m.CacheStats()
	require.Greater(t, stats.GetCalls+stats.SetCalls, uint64(0))
}
