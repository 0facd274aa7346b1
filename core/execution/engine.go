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

// Package execution is the module's central deliverable: the lock-serialized
// execution engine sitting between the blockchain store and the VM,
// persisting receipts and reconciling with the consensus client's
// fork-choice calls.
package execution

import (
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/common/mclock"
	"github.com/ethereum/execution-core/consensus"
	"github.com/ethereum/execution-core/core/chain"
	"github.com/ethereum/execution-core/core/receipts"
	"github.com/ethereum/execution-core/core/types"
	"github.com/ethereum/execution-core/core/vm"
	"github.com/ethereum/execution-core/internal/syncx"
	"github.com/ethereum/execution-core/log"
	"github.com/ethereum/execution-core/metrics"
	"github.com/ethereum/execution-core/params"
)

// Config bundles the engine's construction-time parameters, following
// go-ethereum's eth/ethconfig convention of a flat struct with documented
// zero-value defaults rather than a global singleton.
type Config struct {
	// NumBlocksPerIteration bounds how many blocks a single Iterate call
	// delivers before returning control to Run. Zero means deliver to the
	// canonical head in one iterator pass.
	NumBlocksPerIteration uint64

	// MaxToleratedBlockTime is the wall-clock budget before a slow-block
	// warning is emitted. Zero defaults to 12s.
	MaxToleratedBlockTime time.Duration

	// StatsInterval is the stats/telemetry timer period. Zero defaults to
	// 10s.
	StatsInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxToleratedBlockTime == 0 {
		c.MaxToleratedBlockTime = 12 * time.Second
	}
	if c.StatsInterval == 0 {
		c.StatsInterval = 10 * time.Second
	}
	return c
}

// Engine is the execution core. It exclusively owns the VM instance, the
// pending-receipts map, the hardfork tag and the stats timer; the
// blockchain store is shared and mutated only through Store's documented
// write operations.
type Engine struct {
	cfg    Config
	config *params.ChainConfig
	store  chain.Store
	vm     vm.VM
	rm     receipts.Manager
	cons   consensus.Engine
	clock  mclock.Clock

	gate *syncx.ClosableMutex

	mu       sync.Mutex
	started  bool
	opened   bool
	running  bool
	shutdown bool

	// hardfork is engine-private mutable state; it is read and written only
	// under the gate.
	hardfork string

	// pendingReceipts is drained by setHead and populated by
	// runWithoutSetHead. ShrinkingMap bounds the overhead of a map that
	// churns one entry per block.
	pendingReceipts *common.ShrinkingMap[common.Hash, types.Receipts]

	// backstepAttempted records the hashes of the candidate blocks each
	// backstep walk has visited. It is only written, never read, so it does
	// not stop a repeated backstep against the same missing root.
	backstepAttempted mapset.Set[common.Hash]

	errCh chan ExecutionError

	statsStop    chan struct{}
	statsWG      sync.WaitGroup
	undoMaxProcs func()

	blocksExecuted metrics.Counter
	backsteps      metrics.Counter
	stateCacheHits metrics.GaugeFloat64

	runWG      sync.WaitGroup
	runPending bool
}

// ExecutionError is the typed payload of a failed per-block execution,
// delivered over a Go channel rather than a generic event bus.
type ExecutionError struct {
	Block *blockRef
	Err   error
	Phase string
}

// blockRef is the minimal block identity an ExecutionError reports: the
// block's hash and number rather than the whole block.
type blockRef struct {
	Hash   common.Hash
	Number uint64
}

// New constructs an Engine. Open must be called before Start.
func New(cfg Config, chainConfig *params.ChainConfig, store chain.Store, machine vm.VM, rm receipts.Manager, cons consensus.Engine, clock mclock.Clock) *Engine {
	if clock == nil {
		clock = mclock.System{}
	}
	return &Engine{
		cfg:               cfg.withDefaults(),
		config:            chainConfig,
		store:             store,
		vm:                machine,
		rm:                rm,
		cons:              cons,
		clock:             clock,
		gate:              syncx.NewClosableMutex(),
		pendingReceipts:   common.NewShrinkingMap[common.Hash, types.Receipts](64),
		backstepAttempted: mapset.NewSet[common.Hash](),
		errCh:             make(chan ExecutionError, 16),
		blocksExecuted:    metrics.NewCounter(),
		backsteps:         metrics.NewCounter(),
		stateCacheHits:    metrics.NewGaugeFloat64(),
	}
}

// SubscribeExecutionErrors returns the channel on which the engine delivers
// ExecutionError values.
func (e *Engine) SubscribeExecutionErrors() <-chan ExecutionError {
	return e.errCh
}

func (e *Engine) emitError(block *blockRef, err error, phase string) {
	select {
	case e.errCh <- ExecutionError{Block: block, Err: err, Phase: phase}:
	default:
		log.Warn("execution: error channel full, dropping event", "phase", phase, "err", err)
	}
}

// Hardfork returns the engine's current hardfork tag.
func (e *Engine) Hardfork() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hardfork
}

// IsRunning reports whether an execution is currently in flight, a
// non-blocking observable flag.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Open performs single-shot initialization under the gate: it initializes
// the VM, reads the iterator head, configures the hardfork, and
// materializes canonical genesis state if the head is block 0 and no state
// has been recorded. A second Open call while already started, or while an
// execution is pending, is a documented no-op.
func (e *Engine) Open() error {
	if !e.gate.TryLock() {
		return fmt.Errorf("execution: %w: gate closed", ErrPreconditionFailed)
	}
	defer e.gate.Unlock()

	e.mu.Lock()
	reentry := e.started || e.runPending
	e.mu.Unlock()
	if reentry {
		log.Warn("execution: Open called again while started or a run is pending; ignoring")
		return nil
	}

	if err := e.vm.Init(); err != nil {
		return fmt.Errorf("execution: vm init: %w", err)
	}

	head := e.store.IteratorHead(chain.CursorVM)
	if head == nil {
		return fmt.Errorf("execution: %w: no %q iterator head", ErrPreconditionFailed, chain.CursorVM)
	}

	td := e.store.GetTotalDifficulty(head.Hash(), head.NumberU64())
	hf := e.config.HardforkFor(head.NumberU64(), td, head.Time())

	e.mu.Lock()
	e.hardfork = hf
	e.opened = true
	e.mu.Unlock()

	if head.NumberU64() == 0 && !e.vm.StateManager().HasStateRoot(head.Root()) {
		if err := e.vm.StateManager().GenerateCanonicalGenesis(head.Root()); err != nil {
			return fmt.Errorf("execution: generate canonical genesis: %w", err)
		}
	}

	log.Info("execution: opened", "vmHead", head.NumberU64(), "hardfork", hf)
	return nil
}

// Start schedules the periodic stats timer and, for a pre-merge chain whose
// VM cursor trails the canonical head, fires an async catch-up run.
// Post-merge, the consensus client drives execution solely via
// RunWithoutSetHead/SetHead.
func (e *Engine) Start() error {
	e.mu.Lock()
	if !e.opened {
		e.mu.Unlock()
		return fmt.Errorf("execution: %w: Start called before Open", ErrPreconditionFailed)
	}
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("execution: %w: already started", ErrPreconditionFailed)
	}
	e.started = true
	e.shutdown = false
	e.mu.Unlock()

	e.startStats()

	vmHead := e.store.IteratorHead(chain.CursorVM)
	canonical := e.store.CanonicalHead()
	if e.cons.ConsensusType() != params.PoS && vmHead != nil && canonical != nil && vmHead.NumberU64() < canonical.NumberU64() {
		e.mu.Lock()
		e.runPending = true
		e.mu.Unlock()
		e.runWG.Add(1)
		go func() {
			defer e.runWG.Done()
			defer func() {
				e.mu.Lock()
				e.runPending = false
				e.mu.Unlock()
			}()
			if _, err := e.Run(true, true); err != nil {
				log.Error("execution: catch-up run failed", "err", err)
			}
		}()
	}
	return nil
}

// Stop performs a two-phase shutdown: it stops the stats timer and marks
// the engine stopped under e.mu without touching the gate (the run loop
// holds the gate during execution, so waiting for it while holding the gate
// would deadlock), waits for any in-flight execution, then acquires the
// gate and closes it so later gated calls fail.
func (e *Engine) Stop() error {
	e.stopStats()

	e.mu.Lock()
	e.started = false
	e.shutdown = true
	e.mu.Unlock()

	e.runWG.Wait()

	if !e.gate.TryLock() {
		return fmt.Errorf("execution: %w: gate already closed", ErrPreconditionFailed)
	}
	e.gate.Close()
	log.Info("execution: stopped")
	return nil
}
