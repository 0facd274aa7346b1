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
	"fmt"

	"github.com/VictoriaMetrics/fastcache"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ethereum/execution-core/common/mclock"
	"github.com/ethereum/execution-core/log"
)

// cacheStatsSource is the static trait the stats timer checks for rather
// than probing capabilities dynamically: any state.Manager implementation
// may opt in to cache reporting simply by implementing CacheStats, without
// widening the Manager interface itself.
type cacheStatsSource interface {
	CacheStats() fastcache.Stats
}

// startStats configures GOMAXPROCS for the container/cgroup the process
// actually runs in and launches the periodic telemetry tick. It is
// idempotent with Stop: calling Start/Stop repeatedly reapplies and reverts
// the GOMAXPROCS override each time.
func (e *Engine) startStats() {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug("execution: automaxprocs", "msg", fmt.Sprintf(format, args...))
	}))
	if err != nil {
		log.Warn("execution: automaxprocs failed to set GOMAXPROCS", "err", err)
		undo = func() {}
	}
	e.undoMaxProcs = undo

	e.statsStop = make(chan struct{})
	e.statsWG.Add(1)
	go e.statsLoop()
}

func (e *Engine) stopStats() {
	if e.statsStop != nil {
		close(e.statsStop)
	}
	e.statsWG.Wait()
	if e.undoMaxProcs != nil {
		e.undoMaxProcs()
	}
}

// statsLoop reports the run loop's counters and the VM state cache's hit
// rate on an mclock.Alarm ticker, avoiding the busy-polling a raw
// time.Ticker would impose on the execution gate.
func (e *Engine) statsLoop() {
	defer e.statsWG.Done()

	alarm := mclock.NewAlarm(e.clock)
	defer alarm.Stop()
	alarm.Schedule(e.clock.Now().Add(e.cfg.StatsInterval))

	for {
		select {
		case <-e.statsStop:
			return
		case <-alarm.C():
			e.reportStats()
			alarm.Schedule(e.clock.Now().Add(e.cfg.StatsInterval))
		}
	}
}

func (e *Engine) reportStats() {
	fields := []interface{}{
		"blocksExecuted", e.blocksExecuted.Count(),
		"backsteps", e.backsteps.Count(),
		"hardfork", e.Hardfork(),
	}

	if source, ok := e.vm.StateManager().(cacheStatsSource); ok {
		stats := source.CacheStats()
		var hitRate float64
		if stats.GetCalls > 0 {
			hitRate = 1 - float64(stats.Misses)/float64(stats.GetCalls)
		}
		e.stateCacheHits.Update(hitRate)
		fields = append(fields, "stateCacheHitRate", hitRate, "stateCacheEntries", stats.EntriesCount)
	}

	log.Info("execution: stats", fields...)
}
