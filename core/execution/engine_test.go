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

package execution

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/execution-core/consensus/beacon"
	"github.com/ethereum/execution-core/consensus/clique"
	"github.com/ethereum/execution-core/consensus/ethash"
	"github.com/ethereum/execution-core/core/chain"
	"github.com/ethereum/execution-core/core/rawdb"
	"github.com/ethereum/execution-core/core/receipts"
	"github.com/ethereum/execution-core/core/state"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/core/vm"
	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/params"
)

// buildChain constructs n+1 blocks (genesis..n), each with a distinct,
// deterministic state root so the stub VM's HasStateRoot/clearCache logic
// has something meaningful to key on.
func buildChain(n int, seed byte) []*types.Block {
	blocks := make([]*types.Block, n+1)
	var parent common.Hash
	for i := 0; i <= n; i++ {
		header := &types.Header{
			ParentHash: parent,
			Number:     big.NewInt(int64(i)),
			Difficulty: big.NewInt(1),
			GasLimit:   30_000_000,
			Time:       uint64(i),
			Root:       common.BytesToHash([]byte(fmt.Sprintf("root-%d-%d", i, seed))),
			Extra:      []byte{seed},
		}
		block := types.NewBlock(header, &types.Body{}, nil)
		blocks[i] = block
		parent = block.Hash()
	}
	return blocks
}

// testHarness wires an Engine against an in-memory store, a stub VM and a
// beacon (PoS) consensus engine wrapping ethash, so Start fires no
// catch-up run and tests drive execution directly.
type testHarness struct {
	bc  *chain.BlockChain
	sm  *state.KVManager
	vm  *vm.StubVM
	rm  *receipts.RawdbManager
	cfg *params.ChainConfig
	eng *Engine
}

func newHarness(t *testing.T, numBlocksPerIteration uint64) (*testHarness, []*types.Block) {
	t.Helper()
	db := rawdb.NewMemoryDatabase()
	bc := chain.New(db)

	blocks := buildChain(10, 0xA)
	require.NoError(t, bc.PutBlocks(blocks, true, true))
	require.NoError(t, bc.SetIteratorHead(chain.CursorVM, blocks[0].Hash()))

	sm := state.NewKVManager(db, blocks[0].Root())
	require.NoError(t, sm.MarkStateRoot(blocks[0].Root()))
	machine := vm.NewStubVM(sm)
	rm := receipts.NewRawdbManager(db)

	cfg := &params.ChainConfig{ChainID: big.NewInt(1)}

	// Consensus defaults to PoS so Start never spawns its own async catch-up
	// run — every test below drives Run/RunWithoutSetHead/SetHead explicitly
	// and deterministically instead.
	eng := New(Config{NumBlocksPerIteration: numBlocksPerIteration}, cfg, bc, machine, rm, beacon.New(ethash.New()), nil)
	return &testHarness{bc: bc, sm: sm, vm: machine, rm: rm, cfg: cfg, eng: eng}, blocks
}

func TestOpenSetsHardforkAndGenesisState(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.Equal(t, params.Frontier, h.eng.Hardfork())
	require.True(t, h.vm.StateManager().HasStateRoot(blocks[0].Root()))
}

func TestOpenIsReentrySafe(t *testing.T) {
	h, _ := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())
	require.NoError(t, h.eng.Open()) // documented no-op, must not error or re-init
}

// scenario 1: linear sync to the canonical head in one unbounded pass.
func TestRunLinearSyncToHead(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	n, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 10, n)
	require.Equal(t, blocks[10].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())

	for _, b := range blocks[1:] {
		got := h.rm.GetReceipts(b.Hash(), b.NumberU64())
		require.NotNil(t, got)
	}
}

// scenario 2: batched run, numBlocksPerIteration=4 over 10 blocks -> 4,4,2.
func TestRunBatchedIteration(t *testing.T) {
	h, blocks := newHarness(t, 4)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	n, err := h.eng.Run(false, false)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	require.Equal(t, blocks[4].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())

	n, err = h.eng.Run(false, false)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	require.Equal(t, blocks[8].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())

	n, err = h.eng.Run(false, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, blocks[10].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// scenario: loop=true with a batch size repeats passes until the gap is
// exhausted, in one Run call.
func TestRunLoopRepeatsFullBatches(t *testing.T) {
	h, blocks := newHarness(t, 4)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	n, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 10, n)
	require.Equal(t, blocks[10].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// onlyBatched must skip a pass entirely when the remaining gap is smaller
// than NumBlocksPerIteration.
func TestRunOnlyBatchedSkipsPartialGap(t *testing.T) {
	h, blocks := newHarness(t, 4)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	n, err := h.eng.Run(false, true)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	n, err = h.eng.Run(false, true)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	// 2 blocks remain, less than the batch size of 4: onlyBatched must
	// refuse to run a short pass.
	n, err = h.eng.Run(false, true)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
	require.Equal(t, blocks[8].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// property P: hardfork transitions are reflected exactly at their
// activation block and logged once.
func TestHardforkTransitionAtActivation(t *testing.T) {
	h, blocks := newHarness(t, 0)
	activation := uint64(5)
	h.cfg.Forks = []params.Fork{{Name: params.Homestead, Block: &activation}}
	require.NoError(t, h.eng.Open())
	require.Equal(t, params.Frontier, h.eng.Hardfork())
	require.NoError(t, h.eng.Start())

	_, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.Equal(t, params.Homestead, h.eng.Hardfork())
	_ = blocks
}

// PoA consensus skips block validation; this is exercised indirectly by
// confirming a PoA-configured engine still executes normally end to end.
func TestPoAConsensusSkipsBlockValidation(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())
	h.eng.cons = clique.New()

	n, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 10, n)
	require.Equal(t, blocks[10].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// missing-state-root mid-chain triggers backstep recovery, rewinding the vm
// cursor to retry the failing block from its own parent.
func TestMissingStateRootTriggersBackstep(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	failOnce := true
	h.vm.Execute = func(opts vm.RunOpts) (vm.RunResult, error) {
		if failOnce && opts.Block.NumberU64() == 5 {
			failOnce = false
			return vm.RunResult{}, fmt.Errorf("vm: state %w", vm.ErrMissingStateRoot)
		}
		return vm.RunResult{StateRoot: opts.Block.Root()}, nil
	}

	errs := h.eng.SubscribeExecutionErrors()
	n, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 4, n) // blocks 1..4 succeed before block 5 fails

	select {
	case e := <-errs:
		require.EqualValues(t, 5, e.Block.Number)
	default:
		t.Fatal("expected an ExecutionError to have been emitted")
	}

	// backstep rewinds the cursor to block 4's parent (block 3) so block 4,
	// and then block 5, are redelivered.
	require.Equal(t, blocks[3].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())

	n, err = h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 7, n) // blocks 4..10 redelivered from the rewound cursor, block 5 now succeeds
	require.Equal(t, blocks[10].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// a block execution failure that isn't a missing state root just stops the
// run and leaves the cursor at the last good block; no backstep.
func TestGenericBlockFailureLeavesCursorInPlace(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	boom := fmt.Errorf("boom: invalid transaction")
	h.vm.Execute = func(opts vm.RunOpts) (vm.RunResult, error) {
		if opts.Block.NumberU64() == 3 {
			return vm.RunResult{}, boom
		}
		return vm.RunResult{StateRoot: opts.Block.Root()}, nil
	}

	n, err := h.eng.Run(true, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, blocks[2].Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

func TestRunWithoutSetHeadThenSetHeadPromotesReceipts(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	block := blocks[1]
	ok, err := h.eng.RunWithoutSetHead(block, nil, true, false)
	require.NoError(t, err)
	require.True(t, ok)

	// receipts are pending, not yet durable.
	require.Nil(t, h.rm.GetReceipts(block.Hash(), block.NumberU64()))

	require.NoError(t, h.eng.SetHead([]*types.Block{block}, SetHeadOpts{}))
	require.NotNil(t, h.rm.GetReceipts(block.Hash(), block.NumberU64()))
	require.Equal(t, block.Hash(), h.bc.IteratorHead(chain.CursorVM).Hash())
}

// racyStore wraps a real BlockChain but drops PutBlocks on the floor,
// simulating a concurrent writer that won the race for a given block number
// — SetHead's post-write canonical check must then catch the mismatch.
type racyStore struct {
	*chain.BlockChain
}

func (r racyStore) PutBlocks(blocks []*types.Block, skipCanonicalCheck, suppressChainUpdatedEvent bool) error {
	return nil
}

func TestSetHeadRejectsNonCanonicalBlock(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())
	h.eng.store = racyStore{h.bc}

	rogue := types.NewBlock(&types.Header{
		ParentHash: blocks[0].Hash(),
		Number:     big.NewInt(1),
		Difficulty: big.NewInt(1),
		GasLimit:   30_000_000,
		Root:       common.BytesToHash([]byte("rogue-root")),
		Extra:      []byte{0xFF},
	}, &types.Body{}, nil)

	require.NoError(t, h.sm.MarkStateRoot(rogue.Root()))
	err := h.eng.SetHead([]*types.Block{rogue}, SetHeadOpts{})
	require.ErrorIs(t, err, ErrNonCanonicalHead)
}

func TestStopWaitsForInFlightRunThenClosesGate(t *testing.T) {
	h, _ := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())

	_, err := h.eng.Run(true, false)
	require.NoError(t, err)

	require.NoError(t, h.eng.Stop())
	require.False(t, h.eng.gate.TryLock())
}

func TestReplayExecutesRangeAgainstShallowCopy(t *testing.T) {
	h, blocks := newHarness(t, 0)
	require.NoError(t, h.eng.Open())
	require.NoError(t, h.eng.Start())
	_, err := h.eng.Run(true, false)
	require.NoError(t, err)

	results, err := h.eng.ExecuteBlocks(context.Background(), 1, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, blocks[i+1].Hash(), r.Block.Hash())
	}

	// the live VM's current root must be unaffected by the replay.
	require.Equal(t, blocks[10].Root(), h.vm.StateManager().GetStateRoot())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, 12*time.Second, cfg.MaxToleratedBlockTime)
	require.Equal(t, 10*time.Second, cfg.StatsInterval)
}
