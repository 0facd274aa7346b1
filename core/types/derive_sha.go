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

import (
	"bytes"

	"github.com/ethereum/execution-core/common"
)

// DerivableList is a list whose items can be RLP-encoded by index, used to
// compute a block's TxHash/ReceiptHash.
type DerivableList interface {
	Len() int
	EncodeIndex(i int, w *bytes.Buffer)
}

// DeriveSha hashes the concatenated per-item encodings of list. The state
// trie that go-ethereum derives this root against is outside this engine's
// scope — the VM's state manager is an opaque boundary here — so this is a
// content hash rather than a Merkle Patricia trie root: it still gives every
// distinct transaction/receipt set a distinct, order-sensitive header field,
// which is all the run loop and debug-replay need from it.
func DeriveSha(list DerivableList) common.Hash {
	var buf bytes.Buffer
	for i := 0; i < list.Len(); i++ {
		list.EncodeIndex(i, &buf)
	}
	return common.BytesToHash(keccak256(buf.Bytes()))
}
