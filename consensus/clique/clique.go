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

// Package clique identifies the proof-of-authority consensus family. Signer
// voting, snapshot checkpoints and seal recovery are consensus validity
// rules out of scope here; the engine's only dependency is ConsensusType,
// which it uses to skip block validation for PoA chains since signer-state
// checks already ran upstream.
package clique

import "github.com/ethereum/execution-core/params"

// Clique is the proof-of-authority consensus.Engine.
type Clique struct{}

// New returns a proof-of-authority consensus engine.
func New() *Clique { return &Clique{} }

func (c *Clique) ConsensusType() params.ConsensusType { return params.PoA }
