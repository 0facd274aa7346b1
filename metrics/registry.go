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

package metrics

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Registry holds references to a set of named metrics, letting the stats
// component report them all on each tick.
type Registry interface {
	Each(func(string, interface{}))
	Get(name string) interface{}
	GetOrRegister(name string, i interface{}) interface{}
	Register(name string, i interface{}) error
	Unregister(name string)
}

type StandardRegistry struct {
	mu      sync.Mutex
	metrics map[string]interface{}
}

func NewRegistry() Registry {
	return &StandardRegistry{metrics: make(map[string]interface{})}
}

func (r *StandardRegistry) Each(fn func(string, interface{})) {
	r.mu.Lock()
	cp := make(map[string]interface{}, len(r.metrics))
	for k, v := range r.metrics {
		cp[k] = v
	}
	r.mu.Unlock()
	for k, v := range cp {
		fn(k, v)
	}
}

func (r *StandardRegistry) Get(name string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics[name]
}

func (r *StandardRegistry) GetOrRegister(name string, i interface{}) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if metric, ok := r.metrics[name]; ok {
		return metric
	}
	if v := reflect.ValueOf(i); v.Kind() == reflect.Func {
		i = v.Call(nil)[0].Interface()
	}
	r.metrics[name] = i
	return i
}

func (r *StandardRegistry) Register(name string, i interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[name]; ok {
		return fmt.Errorf("duplicate metric: %s", name)
	}
	if v := reflect.ValueOf(i); v.Kind() == reflect.Func {
		i = v.Call(nil)[0].Interface()
	}
	r.metrics[name] = i
	return nil
}

func (r *StandardRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.metrics[name]; ok {
		if stopper, ok := m.(interface{ Stop() }); ok {
			stopper.Stop()
		}
		delete(r.metrics, name)
	}
}

// PrefixedRegistry is a Registry with its own backing store, whose metric
// names are all prefixed with a fixed string.
type PrefixedRegistry struct {
	underlying Registry
	prefix     string
}

func NewPrefixedRegistry(prefix string) Registry {
	return &PrefixedRegistry{underlying: NewRegistry(), prefix: prefix}
}

func (r *PrefixedRegistry) Each(fn func(string, interface{})) {
	base, prefix := findPrefix(r, "")
	base.(Registry).Each(func(name string, i interface{}) {
		if strings.HasPrefix(name, prefix) {
			fn(name, i)
		}
	})
}

func (r *PrefixedRegistry) Get(name string) interface{} {
	return r.underlying.Get(r.prefix + name)
}

func (r *PrefixedRegistry) GetOrRegister(name string, i interface{}) interface{} {
	return r.underlying.GetOrRegister(r.prefix+name, i)
}

func (r *PrefixedRegistry) Register(name string, i interface{}) error {
	return r.underlying.Register(r.prefix+name, i)
}

func (r *PrefixedRegistry) Unregister(name string) {
	r.underlying.Unregister(r.prefix + name)
}

// PrefixedChildRegistry is a Registry whose backing store is another
// Registry (possibly itself prefixed), letting prefixes nest.
type PrefixedChildRegistry struct {
	underlying Registry
	prefix     string
}

func NewPrefixedChildRegistry(parent Registry, prefix string) Registry {
	return &PrefixedChildRegistry{underlying: parent, prefix: prefix}
}

func (r *PrefixedChildRegistry) Each(fn func(string, interface{})) {
	base, prefix := findPrefix(r, "")
	base.(Registry).Each(func(name string, i interface{}) {
		if strings.HasPrefix(name, prefix) {
			fn(name, i)
		}
	})
}

func (r *PrefixedChildRegistry) Get(name string) interface{} {
	return r.underlying.Get(r.prefix + name)
}

func (r *PrefixedChildRegistry) GetOrRegister(name string, i interface{}) interface{} {
	return r.underlying.GetOrRegister(r.prefix+name, i)
}

func (r *PrefixedChildRegistry) Register(name string, i interface{}) error {
	return r.underlying.Register(r.prefix+name, i)
}

func (r *PrefixedChildRegistry) Unregister(name string) {
	r.underlying.Unregister(r.prefix + name)
}

// findPrefix walks a chain of Prefixed(Child)Registry wrappers down to their
// non-prefixed base registry, accumulating the combined prefix on the way.
func findPrefix(registry interface{}, prefix string) (interface{}, string) {
	switch r := registry.(type) {
	case *PrefixedRegistry:
		return findPrefix(r.underlying, r.prefix+prefix)
	case *PrefixedChildRegistry:
		return findPrefix(r.underlying, r.prefix+prefix)
	default:
		return registry, prefix
	}
}

// DefaultRegistry is the implicit registry package-level Register/
// GetOrRegister calls operate on.
var DefaultRegistry = NewRegistry()

func registryOrDefault(r Registry) Registry {
	if r == nil {
		return DefaultRegistry
	}
	return r
}

// Register adds a metric to the DefaultRegistry.
func Register(name string, i interface{}) error {
	return DefaultRegistry.Register(name, i)
}

// GetOrRegister returns an existing metric from the DefaultRegistry, or
// registers and returns i.
func GetOrRegister(name string, i interface{}) interface{} {
	return DefaultRegistry.GetOrRegister(name, i)
}

// Unregister removes a metric from the DefaultRegistry.
func Unregister(name string) {
	DefaultRegistry.Unregister(name)
}

func NewRegisteredCounter(name string, r Registry) Counter {
	c := NewCounter()
	registryOrDefault(r).Register(name, c)
	return c
}

func GetOrRegisterCounter(name string, r Registry) Counter {
	return registryOrDefault(r).GetOrRegister(name, NewCounter).(Counter)
}

func NewRegisteredCounterFloat64(name string, r Registry) CounterFloat64 {
	c := NewCounterFloat64()
	registryOrDefault(r).Register(name, c)
	return c
}

func GetOrRegisterCounterFloat64(name string, r Registry) CounterFloat64 {
	return registryOrDefault(r).GetOrRegister(name, NewCounterFloat64).(CounterFloat64)
}

func NewRegisteredGauge(name string, r Registry) Gauge {
	g := NewGauge()
	registryOrDefault(r).Register(name, g)
	return g
}

func GetOrRegisterGauge(name string, r Registry) Gauge {
	return registryOrDefault(r).GetOrRegister(name, NewGauge).(Gauge)
}

func NewRegisteredFunctionalGauge(name string, r Registry, f func() int64) Gauge {
	g := NewFunctionalGauge(f)
	registryOrDefault(r).Register(name, g)
	return g
}

func NewRegisteredGaugeFloat64(name string, r Registry) GaugeFloat64 {
	g := NewGaugeFloat64()
	registryOrDefault(r).Register(name, g)
	return g
}

func GetOrRegisterGaugeFloat64(name string, r Registry) GaugeFloat64 {
	return registryOrDefault(r).GetOrRegister(name, NewGaugeFloat64).(GaugeFloat64)
}

func NewRegisteredFunctionalGaugeFloat64(name string, r Registry, f func() float64) GaugeFloat64 {
	g := NewFunctionalGaugeFloat64(f)
	registryOrDefault(r).Register(name, g)
	return g
}

func NewRegisteredGaugeInfo(name string, r Registry) GaugeInfo {
	g := NewGaugeInfo()
	registryOrDefault(r).Register(name, g)
	return g
}

func GetOrRegisterGaugeInfo(name string, r Registry) GaugeInfo {
	return registryOrDefault(r).GetOrRegister(name, NewGaugeInfo).(GaugeInfo)
}

func NewRegisteredFunctionalGaugeInfo(name string, r Registry, f func() GaugeInfoValue) GaugeInfo {
	g := NewFunctionalGaugeInfo(f)
	registryOrDefault(r).Register(name, g)
	return g
}

func NewRegisteredMeter(name string, r Registry) Meter {
	m := NewMeter()
	registryOrDefault(r).Register(name, m)
	return m
}

func GetOrRegisterMeter(name string, r Registry) Meter {
	return registryOrDefault(r).GetOrRegister(name, NewMeter).(Meter)
}

func NewRegisteredTimer(name string, r Registry) Timer {
	t := NewTimer()
	registryOrDefault(r).Register(name, t)
	return t
}

func GetOrRegisterTimer(name string, r Registry) Timer {
	return registryOrDefault(r).GetOrRegister(name, NewTimer).(Timer)
}
