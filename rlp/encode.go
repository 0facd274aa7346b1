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

// Package rlp implements Ethereum's Recursive Length Prefix encoding, the
// canonical wire and storage format for blocks, headers and receipts. There
// is no third-party substitute: RLP is a bespoke, byte-exact format and
// go-ethereum's own rlp package is likewise a from-scratch implementation
// with no codec library underneath it.
package rlp

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// RawValue represents an already RLP-encoded value, such as the raw bytes
// read straight out of a database entry that callers may want to decode
// lazily. Its Kind (a byte slice) routes it through the plain byte-string
// encoding path, so encoding a RawValue with this package wraps it in a
// string header rather than writing its bytes verbatim.
type RawValue []byte

// Encoder is implemented by types that need control over their own RLP
// framing, such as Block, whose logical fields don't match its Go struct
// layout. EncodeRLP must write exactly one, self-contained RLP item.
type Encoder interface {
	EncodeRLP(w io.Writer) error
}

// EncodeToBytes returns the RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	return encodeValue(reflect.ValueOf(val))
}

// Encode writes the RLP encoding of val to w.
func Encode(w io.Writer, val interface{}) error {
	enc, err := EncodeToBytes(val)
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}

func encodeValue(v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return encodeString(nil), nil
	}
	if v.IsValid() && v.CanInterface() {
		if enc, ok := v.Interface().(Encoder); ok {
			var buf bytes.Buffer
			if err := enc.EncodeRLP(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}

	// Special-cased concrete types before falling back to reflection.
	switch x := v.Interface().(type) {
	case []byte:
		return encodeString(x), nil
	case *big.Int:
		if x == nil {
			return encodeString(nil), nil
		}
		return encodeString(bigToBytes(x)), nil
	case big.Int:
		return encodeString(bigToBytes(&x)), nil
	case uint256.Int:
		return encodeString(trimLeadingZeroes(x.Bytes())), nil
	case *uint256.Int:
		if x == nil {
			return encodeString(nil), nil
		}
		return encodeString(trimLeadingZeroes(x.Bytes())), nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return encodeString(nil), nil
		}
		return encodeValue(v.Elem())
	case reflect.Bool:
		if v.Bool() {
			return encodeString([]byte{1}), nil
		}
		return encodeString(nil), nil
	case reflect.String:
		return encodeString([]byte(v.String())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return encodeString(trimLeadingZeroes(uint64ToBytes(v.Uint()))), nil
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return encodeString(b), nil
		}
		return encodeSequence(v)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeString(v.Bytes()), nil
		}
		return encodeSequence(v)
	case reflect.Struct:
		return encodeSequence(v)
	case reflect.Interface:
		if v.IsNil() {
			return encodeString(nil), nil
		}
		return encodeValue(v.Elem())
	default:
		return nil, fmt.Errorf("rlp: unsupported type %s", v.Type())
	}
}

// encodeSequence encodes a struct's exported fields, or a slice/array's
// elements, as an RLP list in field/element order.
func encodeSequence(v reflect.Value) ([]byte, error) {
	var buf bytes.Buffer
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" || f.Tag.Get("rlp") == "-" {
				continue
			}
			enc, err := encodeValue(v.Field(i))
			if err != nil {
				return nil, err
			}
			buf.Write(enc)
		}
	default: // Array, Slice
		for i := 0; i < v.Len(); i++ {
			enc, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			buf.Write(enc)
		}
	}
	return encodeList(buf.Bytes()), nil
}

// encodeString wraps content as an RLP string item.
func encodeString(content []byte) []byte {
	if len(content) == 1 && content[0] < 0x80 {
		return content
	}
	return append(encodeLength(0x80, len(content)), content...)
}

// encodeList wraps already-encoded content as an RLP list item.
func encodeList(content []byte) []byte {
	return append(encodeLength(0xc0, len(content)), content...)
}

func encodeLength(offset byte, size int) []byte {
	if size < 56 {
		return []byte{offset + byte(size)}
	}
	lenBytes := trimLeadingZeroes(uint64ToBytes(uint64(size)))
	out := make([]byte, 0, 1+len(lenBytes))
	out = append(out, offset+55+byte(len(lenBytes)))
	return append(out, lenBytes...)
}

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}

func trimLeadingZeroes(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

func bigToBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return nil
	}
	return x.Bytes()
}
