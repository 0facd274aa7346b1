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

// Package ethash identifies the proof-of-work consensus family. DAG
// generation, nonce sealing and remote mining are out of scope: the engine's
// only dependency on a consensus.Engine is its ConsensusType.
package ethash

import "github.com/ethereum/execution-core/params"

// Ethash is the proof-of-work consensus.Engine.
type Ethash struct{}

// New returns a proof-of-work consensus engine.
func New() *Ethash { return &Ethash{} }

func (e *Ethash) ConsensusType() params.ConsensusType { return params.PoW }
