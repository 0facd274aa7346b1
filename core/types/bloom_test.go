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
	"testing"

	"github.com/ethereum/execution-core/common"
)

func TestBloom(t *testing.T) {
	var b Bloom
	b.Add([]byte("testtest"))
	if !b.Test([]byte("testtest")) {
		t.Error("expected membership test to pass for added value")
	}
	if b.Test([]byte("nope")) {
		t.Error("unexpected membership test pass for value never added")
	}
}

func TestCreateBloom(t *testing.T) {
	addr := common.HexToAddress("0x22341ae42d6dd7384bc8584e50419ea3ac75b83f")
	topic := common.HexToHash("0x01")
	receipts := []*Receipt{
		{Logs: []*Log{{Address: addr, Topics: []common.Hash{topic}}}},
	}
	bloom := CreateBloom(receipts)
	if !bloom.Test(addr.Bytes()) {
		t.Error("bloom should match the log's address")
	}
	if !bloom.Test(topic.Bytes()) {
		t.Error("bloom should match the log's topic")
	}
}
