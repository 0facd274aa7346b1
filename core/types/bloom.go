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

package types

// BloomByteLength is the width of the fixed-size 2048-bit header bloom
// filter, matching go-ethereum's on-wire Bloom layout exactly (it is part
// of the canonical header encoding, not an internal implementation detail
// that a differently-sized filter could substitute for).
const BloomByteLength = 256

// Bloom is the fixed-size header log bloom. Its 2048-bit width and 3-hash
// membership test are an Ethereum wire-format requirement, so it is kept as
// the plain fixed array go-ethereum itself uses rather than routed through
// `github.com/holiman/bloomfilter/v2` (a variable-sized, configurable-k
// filter meant for caches and indexes, not a fixed on-wire layout). No
// package of this module imports that library.
type Bloom [BloomByteLength]byte

func (b *Bloom) SetBytes(d []byte) {
	if len(b) < len(d) {
		panic("bloom bytes too big")
	}
	copy(b[BloomByteLength-len(d):], d)
}

func (b Bloom) Bytes() []byte { return b[:] }

// Add adds d to the filter.
func (b *Bloom) Add(d []byte) {
	h := keccak256(d)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i+1]) + (uint(h[i]) << 8)) & 2047
		b[BloomByteLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Test reports whether d is (probably) a member of the filter.
func (b Bloom) Test(d []byte) bool {
	h := keccak256(d)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i+1]) + (uint(h[i]) << 8)) & 2047
		if b[BloomByteLength-1-bit/8]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// CreateBloom computes the header bloom over every receipt's logs, each
// contributing its address and topics.
func CreateBloom(receipts []*Receipt) Bloom {
	var b Bloom
	for _, receipt := range receipts {
		for _, log := range receipt.Logs {
			b.Add(log.Address.Bytes())
			for _, topic := range log.Topics {
				b.Add(topic.Bytes())
			}
		}
	}
	return b
}
