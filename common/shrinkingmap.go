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

package common

// ShrinkingMap is a map that periodically rebuilds its backing store after
// enough deletions, so that long-running maps with a high churn rate (such
// as the engine's pending receipts cache) don't retain Go map bucket
// overhead for keys that were deleted long ago. A shrinkThreshold of 0
// disables the rebuild and behaves like a plain map.
type ShrinkingMap[K comparable, V any] struct {
	m               map[K]V
	deletedKeys     int
	shrinkThreshold int
}

func NewShrinkingMap[K comparable, V any](shrinkThreshold int) *ShrinkingMap[K, V] {
	return &ShrinkingMap[K, V]{
		m:               make(map[K]V),
		shrinkThreshold: shrinkThreshold,
	}
}

func (m *ShrinkingMap[K, V]) Set(k K, v V) {
	m.m[k] = v
}

func (m *ShrinkingMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

func (m *ShrinkingMap[K, V]) Has(k K) bool {
	_, ok := m.m[k]
	return ok
}

func (m *ShrinkingMap[K, V]) Delete(k K) bool {
	if _, ok := m.m[k]; !ok {
		return false
	}
	delete(m.m, k)
	m.deletedKeys++

	if m.shrinkThreshold > 0 && m.deletedKeys >= m.shrinkThreshold {
		m.shrink()
	}
	return true
}

func (m *ShrinkingMap[K, V]) Size() int {
	return len(m.m)
}

func (m *ShrinkingMap[K, V]) shrink() {
	shrunk := make(map[K]V, len(m.m))
	for k, v := range m.m {
		shrunk[k] = v
	}
	m.m = shrunk
	m.deletedKeys = 0
}
