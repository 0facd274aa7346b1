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

// Package consensus declares the one fact about the active consensus rules
// the execution engine itself needs: its family, since block validation is
// additionally skipped when consensus type is proof-of-authority.
// Header/seal verification, signer-state voting and difficulty calculation
// are consensus validity rules beyond invoking the VM and are out of scope
// here.
package consensus

import "github.com/ethereum/execution-core/params"

// Engine is the minimal consensus-engine contract the run loop consults when
// deciding whether to skip block validation.
type Engine interface {
	// ConsensusType reports the engine's consensus family.
	ConsensusType() params.ConsensusType
}
