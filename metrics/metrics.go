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

// Package metrics provides the counters, gauges, meters and timers the
// execution engine's stats/telemetry timer reports on a periodic tick, in
// the shape of go-ethereum's own metrics package.
package metrics

import (
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"
)

// Counter holds an int64 value that can be incremented and decremented.
type Counter interface {
	Clear()
	Dec(int64)
	Inc(int64)
	Count() int64
	Snapshot() Counter
}

type StandardCounter struct {
	mu    sync.Mutex
	count int64
}

func NewCounter() Counter { return &StandardCounter{} }

func (c *StandardCounter) Clear() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

func (c *StandardCounter) Dec(i int64) {
	c.mu.Lock()
	c.count -= i
	c.mu.Unlock()
}

func (c *StandardCounter) Inc(i int64) {
	c.mu.Lock()
	c.count += i
	c.mu.Unlock()
}

func (c *StandardCounter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *StandardCounter) Snapshot() Counter {
	return &counterSnapshot{c.Count()}
}

type counterSnapshot struct{ count int64 }

func (c *counterSnapshot) Clear()          { panic("Clear called on a counterSnapshot") }
func (c *counterSnapshot) Dec(int64)       { panic("Dec called on a counterSnapshot") }
func (c *counterSnapshot) Inc(int64)       { panic("Inc called on a counterSnapshot") }
func (c *counterSnapshot) Count() int64    { return c.count }
func (c *counterSnapshot) Snapshot() Counter { return c }

// CounterFloat64 is Counter for float64 values.
type CounterFloat64 interface {
	Clear()
	Dec(float64)
	Inc(float64)
	Count() float64
	Snapshot() CounterFloat64
}

type StandardCounterFloat64 struct {
	mu    sync.Mutex
	count float64
}

func NewCounterFloat64() CounterFloat64 { return &StandardCounterFloat64{} }

func (c *StandardCounterFloat64) Clear() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}
func (c *StandardCounterFloat64) Dec(v float64) {
	c.mu.Lock()
	c.count -= v
	c.mu.Unlock()
}
func (c *StandardCounterFloat64) Inc(v float64) {
	c.mu.Lock()
	c.count += v
	c.mu.Unlock()
}
func (c *StandardCounterFloat64) Count() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
func (c *StandardCounterFloat64) Snapshot() CounterFloat64 {
	return counterFloat64Snapshot(c.Count())
}

type counterFloat64Snapshot float64

func (c counterFloat64Snapshot) Clear()                       { panic("Clear called on a counterFloat64Snapshot") }
func (c counterFloat64Snapshot) Dec(float64)                  { panic("Dec called on a counterFloat64Snapshot") }
func (c counterFloat64Snapshot) Inc(float64)                  { panic("Inc called on a counterFloat64Snapshot") }
func (c counterFloat64Snapshot) Count() float64               { return float64(c) }
func (c counterFloat64Snapshot) Snapshot() CounterFloat64      { return c }

// Gauge holds an int64 value that can be set arbitrarily.
type Gauge interface {
	Update(int64)
	Value() int64
	Snapshot() Gauge
}

type StandardGauge struct {
	mu    sync.Mutex
	value int64
}

func NewGauge() Gauge { return &StandardGauge{} }

func (g *StandardGauge) Update(v int64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}
func (g *StandardGauge) Value() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}
func (g *StandardGauge) Snapshot() Gauge { return gaugeSnapshot(g.Value()) }

type gaugeSnapshot int64

func (g gaugeSnapshot) Update(int64)   { panic("Update called on a gaugeSnapshot") }
func (g gaugeSnapshot) Value() int64   { return int64(g) }
func (g gaugeSnapshot) Snapshot() Gauge { return g }

// FunctionalGauge returns a value computed on demand by a function.
type FunctionalGauge struct {
	value func() int64
}

func NewFunctionalGauge(f func() int64) Gauge { return &FunctionalGauge{value: f} }

func (g *FunctionalGauge) Value() int64   { return g.value() }
func (g *FunctionalGauge) Update(int64)   {}
func (g *FunctionalGauge) Snapshot() Gauge { return gaugeSnapshot(g.Value()) }

// GaugeFloat64 is Gauge for float64 values.
type GaugeFloat64 interface {
	Update(float64)
	Value() float64
	Snapshot() GaugeFloat64
}

type StandardGaugeFloat64 struct {
	mu    sync.Mutex
	value float64
}

func NewGaugeFloat64() GaugeFloat64 { return &StandardGaugeFloat64{} }

func (g *StandardGaugeFloat64) Update(v float64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}
func (g *StandardGaugeFloat64) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}
func (g *StandardGaugeFloat64) Snapshot() GaugeFloat64 { return gaugeFloat64Snapshot(g.Value()) }

type gaugeFloat64Snapshot float64

func (g gaugeFloat64Snapshot) Update(float64)         { panic("Update called on a gaugeFloat64Snapshot") }
func (g gaugeFloat64Snapshot) Value() float64         { return float64(g) }
func (g gaugeFloat64Snapshot) Snapshot() GaugeFloat64 { return g }

type FunctionalGaugeFloat64 struct {
	value func() float64
}

func NewFunctionalGaugeFloat64(f func() float64) GaugeFloat64 {
	return &FunctionalGaugeFloat64{value: f}
}

func (g *FunctionalGaugeFloat64) Value() float64         { return g.value() }
func (g *FunctionalGaugeFloat64) Update(float64)         {}
func (g *FunctionalGaugeFloat64) Snapshot() GaugeFloat64 { return gaugeFloat64Snapshot(g.Value()) }

// GaugeInfoValue is a small string-keyed label set reported alongside a
// metric, e.g. {"hardfork": "shanghai"}.
type GaugeInfoValue map[string]string

func (v GaugeInfoValue) String() string {
	b, _ := json.Marshal(v)
	return string(b)
}

// GaugeInfo holds a GaugeInfoValue that can be set arbitrarily.
type GaugeInfo interface {
	Update(GaugeInfoValue)
	Value() GaugeInfoValue
	Snapshot() GaugeInfo
}

type StandardGaugeInfo struct {
	mu    sync.Mutex
	value GaugeInfoValue
}

func NewGaugeInfo() GaugeInfo { return &StandardGaugeInfo{value: GaugeInfoValue{}} }

func (g *StandardGaugeInfo) Update(v GaugeInfoValue) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}
func (g *StandardGaugeInfo) Value() GaugeInfoValue {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}
func (g *StandardGaugeInfo) Snapshot() GaugeInfo {
	return gaugeInfoSnapshot(g.Value())
}

type gaugeInfoSnapshot GaugeInfoValue

func (g gaugeInfoSnapshot) Update(GaugeInfoValue) { panic("Update called on a gaugeInfoSnapshot") }
func (g gaugeInfoSnapshot) Value() GaugeInfoValue { return GaugeInfoValue(g) }
func (g gaugeInfoSnapshot) Snapshot() GaugeInfo    { return g }

type FunctionalGaugeInfo struct {
	value func() GaugeInfoValue
}

func NewFunctionalGaugeInfo(f func() GaugeInfoValue) GaugeInfo {
	return &FunctionalGaugeInfo{value: f}
}

func (g *FunctionalGaugeInfo) Value() GaugeInfoValue { return g.value() }
func (g *FunctionalGaugeInfo) Update(GaugeInfoValue)  {}
func (g *FunctionalGaugeInfo) Snapshot() GaugeInfo {
	return gaugeInfoSnapshot(g.Value())
}

// --- Meter ---------------------------------------------------------------

// Meter counts events and reports a mean rate, used for throughput stats
// such as blocks-executed/sec.
type Meter interface {
	Count() int64
	Mark(int64)
	RateMean() float64
	Snapshot() Meter
	Stop()
}

type meterArbiterType struct {
	mu     sync.Mutex
	meters map[*StandardMeter]struct{}
}

var arbiter = meterArbiterType{meters: make(map[*StandardMeter]struct{})}

type StandardMeter struct {
	mu    sync.Mutex
	count int64
	start time.Time
}

func newStandardMeter() *StandardMeter {
	return &StandardMeter{start: time.Now()}
}

// NewMeter constructs a new StandardMeter and registers it with the package
// arbiter so TestTimerStop-style bookkeeping (go-ethereum parity) works for
// meters embedded in timers too.
func NewMeter() Meter {
	m := newStandardMeter()
	arbiter.mu.Lock()
	arbiter.meters[m] = struct{}{}
	arbiter.mu.Unlock()
	return m
}

func (m *StandardMeter) Stop() {
	arbiter.mu.Lock()
	delete(arbiter.meters, m)
	arbiter.mu.Unlock()
}

func (m *StandardMeter) Mark(n int64) {
	m.mu.Lock()
	m.count += n
	m.mu.Unlock()
}

func (m *StandardMeter) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *StandardMeter) RateMean() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	elapsed := time.Since(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.count) / elapsed
}

func (m *StandardMeter) Snapshot() Meter {
	return &meterSnapshot{count: m.Count(), rateMean: m.RateMean()}
}

type meterSnapshot struct {
	count    int64
	rateMean float64
}

func (m *meterSnapshot) Count() int64      { return m.count }
func (m *meterSnapshot) Mark(int64)        { panic("Mark called on a meterSnapshot") }
func (m *meterSnapshot) RateMean() float64 { return m.rateMean }
func (m *meterSnapshot) Snapshot() Meter   { return m }
func (m *meterSnapshot) Stop()             {}

// --- Timer -----------------------------------------------------------------

// Timer captures the duration and rate of events, used for per-block
// execution latency.
type Timer interface {
	Time(func())
	Update(time.Duration)
	Count() int64
	Min() int64
	Max() int64
	Mean() float64
	StdDev() float64
	Percentiles([]float64) []float64
	Rate1() float64
	Rate5() float64
	Rate15() float64
	RateMean() float64
	Snapshot() Timer
	Stop()
}

type StandardTimer struct {
	mu      sync.Mutex
	samples []int64
	meter   *StandardMeter
}

func NewTimer() Timer {
	t := &StandardTimer{meter: newStandardMeter()}
	arbiter.mu.Lock()
	arbiter.meters[t.meter] = struct{}{}
	arbiter.mu.Unlock()
	return t
}

func (t *StandardTimer) Stop() { t.meter.Stop() }

func (t *StandardTimer) Update(d time.Duration) {
	t.mu.Lock()
	t.samples = append(t.samples, int64(d))
	t.mu.Unlock()
	t.meter.Mark(1)
}

func (t *StandardTimer) Time(f func()) {
	start := time.Now()
	f()
	t.Update(time.Since(start))
}

func (t *StandardTimer) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.samples))
}

func (t *StandardTimer) snapshotSamples() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]int64, len(t.samples))
	copy(cp, t.samples)
	return cp
}

func (t *StandardTimer) Min() int64 { return minMax(t.snapshotSamples(), true) }
func (t *StandardTimer) Max() int64 { return minMax(t.snapshotSamples(), false) }

func minMax(samples []int64, min bool) int64 {
	if len(samples) == 0 {
		return 0
	}
	best := samples[0]
	for _, s := range samples[1:] {
		if (min && s < best) || (!min && s > best) {
			best = s
		}
	}
	return best
}

func (t *StandardTimer) Mean() float64 {
	samples := t.snapshotSamples()
	if len(samples) == 0 {
		return 0
	}
	var sum int64
	for _, s := range samples {
		sum += s
	}
	return float64(sum) / float64(len(samples))
}

func (t *StandardTimer) StdDev() float64 {
	samples := t.snapshotSamples()
	if len(samples) == 0 {
		return 0
	}
	mean := t.Mean()
	var sumSq float64
	for _, s := range samples {
		d := float64(s) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(samples)))
}

func (t *StandardTimer) Percentiles(ps []float64) []float64 {
	samples := t.snapshotSamples()
	out := make([]float64, len(ps))
	if len(samples) == 0 {
		return out
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	for i, p := range ps {
		idx := int(p*float64(len(samples)) + 0.5)
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[i] = float64(samples[idx])
	}
	return out
}

func (t *StandardTimer) Rate1() float64     { return t.meter.RateMean() }
func (t *StandardTimer) Rate5() float64     { return t.meter.RateMean() }
func (t *StandardTimer) Rate15() float64    { return t.meter.RateMean() }
func (t *StandardTimer) RateMean() float64  { return t.meter.RateMean() }

func (t *StandardTimer) Snapshot() Timer {
	return &timerSnapshot{
		samples: t.snapshotSamples(),
		count:   t.Count(),
		min:     t.Min(),
		max:     t.Max(),
		mean:    t.Mean(),
		stdDev:  t.StdDev(),
		rate:    t.meter.RateMean(),
	}
}

type timerSnapshot struct {
	samples []int64
	count   int64
	min     int64
	max     int64
	mean    float64
	stdDev  float64
	rate    float64
}

func (t *timerSnapshot) Time(func())           { panic("Time called on a timerSnapshot") }
func (t *timerSnapshot) Update(time.Duration)  { panic("Update called on a timerSnapshot") }
func (t *timerSnapshot) Stop()                 {}
func (t *timerSnapshot) Count() int64          { return t.count }
func (t *timerSnapshot) Min() int64            { return t.min }
func (t *timerSnapshot) Max() int64            { return t.max }
func (t *timerSnapshot) Mean() float64         { return t.mean }
func (t *timerSnapshot) StdDev() float64       { return t.stdDev }
func (t *timerSnapshot) Rate1() float64        { return t.rate }
func (t *timerSnapshot) Rate5() float64        { return t.rate }
func (t *timerSnapshot) Rate15() float64       { return t.rate }
func (t *timerSnapshot) RateMean() float64     { return t.rate }
func (t *timerSnapshot) Snapshot() Timer       { return t }
func (t *timerSnapshot) Percentiles(ps []float64) []float64 {
	out := make([]float64, len(ps))
	if len(t.samples) == 0 {
		return out
	}
	samples := append([]int64{}, t.samples...)
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	for i, p := range ps {
		idx := int(p*float64(len(samples)) + 0.5)
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		out[i] = float64(samples[idx])
	}
	return out
}
