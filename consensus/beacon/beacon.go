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

// Package beacon identifies the post-merge, externally-driven consensus
// family: fork choice is delivered by the consensus client via the engine
// API, not computed here.
package beacon

import "github.com/ethereum/execution-core/params"

// Beacon is the proof-of-stake consensus.Engine, wrapping an inner engine
// (typically ethash) the way go-ethereum's real beacon consensus engine
// wraps the pre-merge engine for transitional chains that haven't finalized
// on total difficulty yet.
type Beacon struct {
	inner interface{ ConsensusType() params.ConsensusType }
}

// New returns a post-merge consensus engine. inner is stored but never
// consulted: Beacon always reports PoS, whatever the chain's total
// difficulty.
func New(inner interface{ ConsensusType() params.ConsensusType }) *Beacon {
	return &Beacon{inner: inner}
}

func (b *Beacon) ConsensusType() params.ConsensusType { return params.PoS }
