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

// Package types defines the block, header, transaction and receipt shapes
// the execution engine consumes from the blockchain store and hands to the
// VM. Transactions are treated as opaque payloads here: the engine never
// signs, pools or validates them, it only needs a stable Hash() to serve
// debug-replay's block selection by transaction hash and the receipts index.
package types

import (
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/execution-core/common"
	"github.com/ethereum/execution-core/rlp"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Header is a block header. Field names follow go-ethereum's own Header
// exactly, trimmed of post-Shanghai withdrawals/blob fields this engine
// never reads.
type Header struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash // state root
	TxHash      common.Hash
	ReceiptHash common.Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       BlockNonce
	BaseFee     *uint256.Int `rlp:"optional"`
}

// Hash returns the block hash of the header, the Keccak256 of its RLP
// encoding.
func (h *Header) Hash() common.Hash {
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err)
	}
	return common.BytesToHash(keccak256(enc))
}

func keccak256(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// BlockNonce is the 8-byte PoW nonce.
type BlockNonce [8]byte

func EncodeNonce(i uint64) BlockNonce {
	var n BlockNonce
	for idx := 7; idx >= 0; idx-- {
		n[idx] = byte(i)
		i >>= 8
	}
	return n
}

func (n BlockNonce) Uint64() uint64 {
	var v uint64
	for _, b := range n {
		v = v<<8 | uint64(b)
	}
	return v
}

// Body holds a block's non-header content.
type Body struct {
	Transactions []*Transaction
	Uncles       []*Header
}

// Block groups a header with its body, caching its hash and encoded size
// since both are read repeatedly by the run loop and the stats collector.
type Block struct {
	header       *Header
	transactions Transactions
	uncles       []*Header

	hash atomic.Value
	size atomic.Value
}

// NewBlock assembles a block from a header and its body, copying the header
// and deriving TxHash/ReceiptHash/Bloom/UncleHash so the caller's mutable
// copy never aliases the block's.
func NewBlock(header *Header, body *Body, receipts []*Receipt) *Block {
	b := &Block{header: CopyHeader(header)}
	if len(body.Transactions) == 0 {
		b.header.TxHash = EmptyRootHash
	} else {
		b.header.TxHash = DeriveSha(Transactions(body.Transactions))
		b.transactions = make(Transactions, len(body.Transactions))
		copy(b.transactions, body.Transactions)
	}
	if len(receipts) == 0 {
		b.header.ReceiptHash = EmptyRootHash
	} else {
		b.header.ReceiptHash = DeriveSha(Receipts(receipts))
		b.header.Bloom = CreateBloom(receipts)
	}
	if len(body.Uncles) == 0 {
		b.header.UncleHash = EmptyUncleHash
	} else {
		b.header.UncleHash = CalcUncleHash(body.Uncles)
		b.uncles = make([]*Header, len(body.Uncles))
		for i := range body.Uncles {
			b.uncles[i] = CopyHeader(body.Uncles[i])
		}
	}
	return b
}

// NewBlockWithHeader creates a block with header as its exact header, no
// derivation: used when decoding a block whose hashes are already final.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: CopyHeader(header)}
}

// WithBody returns a copy of b carrying the given body.
func (b *Block) WithBody(body *Body) *Block {
	block := &Block{
		header:       b.header,
		transactions: make(Transactions, len(body.Transactions)),
		uncles:       make([]*Header, len(body.Uncles)),
	}
	copy(block.transactions, body.Transactions)
	for i := range body.Uncles {
		block.uncles[i] = CopyHeader(body.Uncles[i])
	}
	return block
}

func CopyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Difficulty = new(big.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if cpy.Number = new(big.Int); h.Number != nil {
		cpy.Number.Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(uint256.Int).Set(h.BaseFee)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}

func (b *Block) Header() *Header          { return CopyHeader(b.header) }
func (b *Block) Body() *Body              { return &Body{Transactions: b.transactions, Uncles: b.uncles} }
func (b *Block) Transactions() Transactions { return b.transactions }
func (b *Block) Uncles() []*Header        { return b.uncles }

func (b *Block) Number() *big.Int     { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64    { return b.header.Number.Uint64() }
func (b *Block) Difficulty() *big.Int { return new(big.Int).Set(b.header.Difficulty) }
func (b *Block) Time() uint64         { return b.header.Time }
func (b *Block) GasLimit() uint64     { return b.header.GasLimit }
func (b *Block) GasUsed() uint64      { return b.header.GasUsed }
func (b *Block) Root() common.Hash    { return b.header.Root }
func (b *Block) ParentHash() common.Hash { return b.header.ParentHash }
func (b *Block) Coinbase() common.Address { return b.header.Coinbase }
func (b *Block) Bloom() Bloom         { return b.header.Bloom }
func (b *Block) BaseFee() *uint256.Int {
	if b.header.BaseFee == nil {
		return nil
	}
	return new(uint256.Int).Set(b.header.BaseFee)
}

// Hash returns the header hash, cached after the first call.
func (b *Block) Hash() common.Hash {
	if hash := b.hash.Load(); hash != nil {
		return hash.(common.Hash)
	}
	h := b.header.Hash()
	b.hash.Store(h)
	return h
}

// Size returns the RLP-encoded size of the block, cached after first call.
func (b *Block) Size() uint64 {
	if size := b.size.Load(); size != nil {
		return size.(uint64)
	}
	enc, err := rlp.EncodeToBytes(b)
	if err != nil {
		panic(err)
	}
	s := uint64(len(enc))
	b.size.Store(s)
	return s
}

// extblock is Block's RLP wire shape: its three logical fields in order,
// used because Block itself keeps them unexported behind cached accessors.
type extblock struct {
	Header *Header
	Txs    []*Transaction
	Uncles []*Header
}

func (b *Block) toExtBlock() *extblock {
	return &extblock{Header: b.header, Txs: b.transactions, Uncles: b.uncles}
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, b.toExtBlock())
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(content []byte, isList bool) error {
	if !isList {
		return rlp.ErrExpectedList
	}
	var eb extblock
	if err := rlp.DecodeListContent(content, &eb); err != nil {
		return err
	}
	b.header = eb.Header
	b.transactions = eb.Txs
	b.uncles = eb.Uncles
	return nil
}

// CalcUncleHash returns the hash used for a block's UncleHash field.
func CalcUncleHash(uncles []*Header) common.Hash {
	if len(uncles) == 0 {
		return EmptyUncleHash
	}
	enc, err := rlp.EncodeToBytes(uncles)
	if err != nil {
		panic(err)
	}
	return common.BytesToHash(keccak256(enc))
}

// EmptyUncleHash is CalcUncleHash(nil), precomputed the way go-ethereum
// caches it.
var EmptyUncleHash = CalcUncleHash(nil)

// EmptyRootHash is the RLP empty-list hash used for TxHash/ReceiptHash when
// a block carries neither transactions nor receipts.
var EmptyRootHash = func() common.Hash {
	enc, _ := rlp.EncodeToBytes([]*Transaction{})
	return common.BytesToHash(keccak256(enc))
}()
