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

// Package vm defines the boundary the execution engine calls through to run
// a block. The opcode interpreter, gas accounting and precompiles are out of
// scope here; RunOpts and RunResult are the only contract the engine depends
// on.
package vm

import (
	"errors"
	"fmt"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/core/state"
	"github.com/ethereum/execution-core/core/types"
)

// ErrMissingStateRoot is returned by RunBlock when the requested parent
// state root has not been materialized. Callers in this module always
// dispatch on the typed error, never on its message text.
var ErrMissingStateRoot = errors.New("does not contain state root")

// RunOpts bundles the per-call arguments to RunBlock.
type RunOpts struct {
	Block                *types.Block
	Root                 common.Hash
	ClearCache           bool
	SkipBlockValidation  bool
	SkipHeaderValidation bool
}

// RunResult is what RunBlock produces for a successfully executed block.
type RunResult struct {
	GasUsed   uint64
	Receipts  types.Receipts
	StateRoot common.Hash
}

// VM is the engine's view of the virtual machine: Init, ShallowCopy for
// debug replay, RunBlock, and the state manager it exposes for
// HasStateRoot/GetStateRoot probes.
type VM interface {
	Init() error

	// ShallowCopy returns an independent VM sharing the same backing state
	// store but with its own per-block caches, used by debug replay so that
	// tracing does not disturb normal execution. When preserveCaches is true
	// the copy starts warm instead of cold.
	ShallowCopy(preserveCaches bool) VM

	// RunBlock executes opts.Block against opts.Root, producing a new state
	// root and the block's receipts, or failing without leaving partial
	// state. A missing parent state root is reported as ErrMissingStateRoot.
	RunBlock(opts RunOpts) (RunResult, error)

	StateManager() state.Manager
}

// StubVM is a minimal reference VM sufficient to drive the engine's tests:
// it does not interpret transactions, it deterministically derives a new
// state root from the block and marks it materialized. Grounded on the
// engine's own three-method boundary contract, not on any retrieved EVM
// implementation, since none was kept in scope.
type StubVM struct {
	sm *state.KVManager

	// Execute, when set, computes the receipts and resulting state root for
	// a block instead of the deterministic default. Tests use this to
	// inject failures (including ErrMissingStateRoot) or custom receipts.
	Execute func(opts RunOpts) (RunResult, error)
}

// NewStubVM returns a StubVM fronting sm.
func NewStubVM(sm *state.KVManager) *StubVM {
	return &StubVM{sm: sm}
}

func (v *StubVM) Init() error { return nil }

func (v *StubVM) ShallowCopy(preserveCaches bool) VM {
	return &StubVM{sm: v.sm.Fork(preserveCaches), Execute: v.Execute}
}

func (v *StubVM) StateManager() state.Manager { return v.sm }

func (v *StubVM) RunBlock(opts RunOpts) (RunResult, error) {
	if !v.sm.HasStateRoot(opts.Root) {
		return RunResult{}, fmt.Errorf("vm: parent %w", ErrMissingStateRoot)
	}
	if v.Execute != nil {
		result, err := v.Execute(opts)
		if err != nil {
			return RunResult{}, err
		}
		if err := v.sm.MarkStateRoot(result.StateRoot); err != nil {
			return RunResult{}, err
		}
		v.sm.SetStateRoot(result.StateRoot)
		return result, nil
	}

	root := opts.Block.Root()
	if err := v.sm.MarkStateRoot(root); err != nil {
		return RunResult{}, err
	}
	v.sm.SetStateRoot(root)

	receipts := make(types.Receipts, 0, len(opts.Block.Transactions()))
	var gasUsed uint64
	for i, tx := range opts.Block.Transactions() {
		r := types.NewReceipt(types.ReceiptStatusSuccessful, gasUsed+tx.Gas)
		r.TxHash = tx.Hash()
		r.GasUsed = tx.Gas
		r.TxIndex = uint(i)
		gasUsed += tx.Gas
		receipts = append(receipts, r)
	}
	return RunResult{GasUsed: gasUsed, Receipts: receipts, StateRoot: root}, nil
}
