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

// Package params holds the protocol-parameter table the execution engine
// consults on every block: the hardfork activation schedule and the active
// consensus type. It mirrors the shape of go-ethereum's own
// params.ChainConfig, trimmed to the fields the engine's hardfork switcher
// actually reads (block/time/total-difficulty activation triggers), without
// the dozens of per-EIP booleans a full node's transaction pool and RPC
// layer also need.
package params

import "math/big"

// ConsensusType identifies the family of rules a chain is running under at
// its current hardfork.
type ConsensusType int

const (
	PoW ConsensusType = iota
	PoA
	PoS
)

func (c ConsensusType) String() string {
	switch c {
	case PoW:
		return "pow"
	case PoA:
		return "poa"
	case PoS:
		return "pos"
	default:
		return "unknown"
	}
}

// Named hardforks, oldest first. The order of this slice is the activation
// order used by GteHardfork; it is not a chain-specific schedule.
const (
	Frontier      = "frontier"
	Homestead     = "homestead"
	Byzantium     = "byzantium"
	Constantinople = "constantinople"
	Istanbul      = "istanbul"
	Berlin        = "berlin"
	London        = "london"
	Paris         = "paris" // the merge: PoW -> PoS
	Shanghai      = "shanghai"
	Cancun        = "cancun"
)

var hardforkOrder = []string{
	Frontier, Homestead, Byzantium, Constantinople, Istanbul, Berlin, London, Paris, Shanghai, Cancun,
}

func hardforkIndex(name string) int {
	for i, n := range hardforkOrder {
		if n == name {
			return i
		}
	}
	return -1
}

// Fork describes one hardfork's activation trigger. Exactly one of Block,
// TTD or Time is normally set for a given entry; a chain that activates a
// fork purely by timestamp (post-merge forks) leaves Block nil.
type Fork struct {
	Name  string
	Block *uint64  // activates when blockNumber >= *Block
	TTD   *big.Int // activates when total difficulty >= *TTD (the merge)
	Time  *uint64  // activates when timestamp >= *Time
}

// ChainConfig is the protocol-parameter table for one chain: its consensus
// family and its ordered hardfork schedule.
type ChainConfig struct {
	ChainID   *big.Int
	Consensus ConsensusType
	Forks     []Fork // must be in activation order, oldest first
}

// ConsensusType reports the chain's consensus family.
func (c *ChainConfig) ConsensusType() ConsensusType {
	return c.Consensus
}

// HardforkFor computes the active hardfork name for a block's activation
// coordinates. It is pure: given the same inputs it always returns the same
// fork name, and it does not mutate c.
func (c *ChainConfig) HardforkFor(blockNumber uint64, td *big.Int, timestamp uint64) string {
	active := Frontier
	for _, f := range c.Forks {
		switch {
		case f.Block != nil && blockNumber >= *f.Block:
			active = f.Name
		case f.TTD != nil && td != nil && td.Cmp(f.TTD) >= 0:
			active = f.Name
		case f.Time != nil && timestamp >= *f.Time:
			active = f.Name
		}
	}
	return active
}

// GteHardfork reports whether current is at or after name in activation
// order. Unknown fork names compare as false in both directions.
func GteHardfork(current, name string) bool {
	ci, ni := hardforkIndex(current), hardforkIndex(name)
	if ci < 0 || ni < 0 {
		return false
	}
	return ci >= ni
}
