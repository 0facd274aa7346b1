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

// Package rawdb implements the low-level key-value schema the blockchain
// store (core/chain) and receipts manager (core/receipts) are built on top
// of, translating header/body/receipt/TD/hash-number/canonical lookups
// into ethdb.Database operations.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/execution-core/common"
)

// Key prefixes and suffixes for the key-value store, following the
// teacher's own naming and layout.
var (
	headHeaderKey = []byte("LastHeader")
	headBlockKey  = []byte("LastBlock")

	headerPrefix       = []byte("h") // headerPrefix + num (8 bytes big endian) + hash -> header
	headerHashSuffix   = []byte("n") // headerPrefix + num + headerHashSuffix -> hash
	headerNumberPrefix = []byte("H") // headerNumberPrefix + hash -> num (8 bytes big endian)

	blockBodyPrefix     = []byte("b") // blockBodyPrefix + num + hash -> block body
	blockReceiptsPrefix = []byte("r") // blockReceiptsPrefix + num + hash -> block receipts

	txLookupPrefix = []byte("l") // txLookupPrefix + hash -> transaction/receipt lookup metadata

	headerTDSuffix = []byte("t") // headerPrefix + num + hash + headerTDSuffix -> td

	chainConfigPrefix = []byte("ethereum-config-") // chainConfigPrefix + hash -> chain config

	skeletonHeaderPrefix = []byte("S") // skeletonHeaderPrefix + num (8 bytes big endian) -> header
)

// encodeBlockNumber encodes a block number as big endian uint64, so
// numerically ordered keys sort lexicographically the same way.
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

// headerKeyPrefix = headerPrefix + num (big endian 8 bytes)
func headerKeyPrefix(number uint64) []byte {
	return append(append([]byte{}, headerPrefix...), encodeBlockNumber(number)...)
}

// headerKey = headerPrefix + num (8 bytes big endian) + hash
func headerKey(number uint64, hash common.Hash) []byte {
	return append(append(headerKeyPrefix(number), hash.Bytes()...))
}

// headerTDKey = headerPrefix + num (8 bytes big endian) + hash + headerTDSuffix
func headerTDKey(number uint64, hash common.Hash) []byte {
	return append(headerKey(number, hash), headerTDSuffix...)
}

// headerHashKey = headerPrefix + num (8 bytes big endian) + headerHashSuffix
func headerHashKey(number uint64) []byte {
	return append(headerKeyPrefix(number), headerHashSuffix...)
}

// headerNumberKey = headerNumberPrefix + hash
func headerNumberKey(hash common.Hash) []byte {
	return append(append([]byte{}, headerNumberPrefix...), hash.Bytes()...)
}

// blockBodyKey = blockBodyPrefix + num (8 bytes big endian) + hash
func blockBodyKey(number uint64, hash common.Hash) []byte {
	return append(append(append([]byte{}, blockBodyPrefix...), encodeBlockNumber(number)...), hash.Bytes()...)
}

// blockReceiptsKey = blockReceiptsPrefix + num (8 bytes big endian) + hash
func blockReceiptsKey(number uint64, hash common.Hash) []byte {
	return append(append(append([]byte{}, blockReceiptsPrefix...), encodeBlockNumber(number)...), hash.Bytes()...)
}

// txLookupKey = txLookupPrefix + hash
func txLookupKey(hash common.Hash) []byte {
	return append(append([]byte{}, txLookupPrefix...), hash.Bytes()...)
}

// configKey = chainConfigPrefix + hash
func configKey(hash common.Hash) []byte {
	return append(append([]byte{}, chainConfigPrefix...), hash.Bytes()...)
}

// skeletonHeaderKey = skeletonHeaderPrefix + num (8 bytes big endian)
func skeletonHeaderKey(number uint64) []byte {
	return append(append([]byte{}, skeletonHeaderPrefix...), encodeBlockNumber(number)...)
}
