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

package rlp

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

var (
	// ErrExpectedString is returned when a list item was found where a
	// string item was expected, or vice versa.
	ErrExpectedString = errors.New("rlp: expected String or Byte")
	ErrExpectedList   = errors.New("rlp: expected List")
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")
)

// Decoder is implemented by types needing control over their own decoding,
// the mirror image of Encoder. content is the item's already-unwrapped
// payload: for a list, the concatenated encoding of its elements; for a
// string, the raw bytes.
type Decoder interface {
	DecodeRLP(content []byte, isList bool) error
}

// DecodeListContent decodes already-unwrapped list content into val, for
// use by Decoder implementations that store their logical fields in an
// auxiliary exported struct (see Block.DecodeRLP).
func DecodeListContent(content []byte, val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("rlp: DecodeListContent requires a non-nil pointer")
	}
	return decodeSequenceInto(content, true, rv.Elem())
}

// DecodeBytes parses RLP-encoded data into val, which must be a non-nil
// pointer.
func DecodeBytes(data []byte, val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("rlp: DecodeBytes requires a non-nil pointer")
	}
	content, isList, rest, err := splitItem(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrMoreThanOneValue
	}
	return decodeValue(content, isList, rv.Elem())
}

// splitItem parses the single next RLP item at the front of b, returning
// its content, whether it's a list, and the remaining bytes after it.
func splitItem(b []byte) (content []byte, isList bool, rest []byte, err error) {
	if len(b) == 0 {
		return nil, false, nil, errors.New("rlp: value too short")
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		return b[:1], false, b[1:], nil
	case prefix < 0xb8:
		size := int(prefix - 0x80)
		return sliceContent(b, 1, size)
	case prefix < 0xc0:
		lenOfLen := int(prefix - 0xb7)
		size, err := readLongLength(b, lenOfLen)
		if err != nil {
			return nil, false, nil, err
		}
		return sliceContent(b, 1+lenOfLen, size)
	case prefix < 0xf8:
		size := int(prefix - 0xc0)
		content, _, rest, err := sliceContent(b, 1, size)
		return content, true, rest, err
	default:
		lenOfLen := int(prefix - 0xf7)
		size, err := readLongLength(b, lenOfLen)
		if err != nil {
			return nil, false, nil, err
		}
		content, _, rest, err := sliceContent(b, 1+lenOfLen, size)
		return content, true, rest, err
	}
}

func readLongLength(b []byte, lenOfLen int) (int, error) {
	if len(b) < 1+lenOfLen {
		return 0, errors.New("rlp: value too short")
	}
	size := 0
	for _, c := range b[1 : 1+lenOfLen] {
		size = size<<8 | int(c)
	}
	return size, nil
}

func sliceContent(b []byte, headerLen, size int) ([]byte, bool, []byte, error) {
	end := headerLen + size
	if end > len(b) {
		return nil, false, nil, errors.New("rlp: value too short")
	}
	return b[headerLen:end], false, b[end:], nil
}

func decodeValue(content []byte, isList bool, v reflect.Value) error {
	if v.CanAddr() {
		if dec, ok := v.Addr().Interface().(Decoder); ok {
			return dec.DecodeRLP(content, isList)
		}
	}

	// Special-cased concrete types before falling back to reflection.
	switch v.Interface().(type) {
	case big.Int:
		if isList {
			return ErrExpectedString
		}
		v.Set(reflect.ValueOf(*new(big.Int).SetBytes(content)))
		return nil
	case uint256.Int:
		if isList {
			return ErrExpectedString
		}
		var u uint256.Int
		u.SetBytes(content)
		v.Set(reflect.ValueOf(u))
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if !isList && len(content) == 0 && v.Type().Elem().Kind() != reflect.Struct {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(content, isList, v.Elem())
	case reflect.Bool:
		if isList {
			return ErrExpectedString
		}
		v.SetBool(len(content) != 0 && content[0] != 0)
		return nil
	case reflect.String:
		if isList {
			return ErrExpectedString
		}
		v.SetString(string(content))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isList {
			return ErrExpectedString
		}
		var n uint64
		for _, c := range content {
			n = n<<8 | uint64(c)
		}
		v.SetUint(n)
		return nil
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if isList {
				return ErrExpectedString
			}
			if len(content) > v.Len() {
				return fmt.Errorf("rlp: input too long for %s", v.Type())
			}
			reflect.Copy(v.Slice(v.Len()-len(content), v.Len()), reflect.ValueOf(content))
			return nil
		}
		return decodeSequenceInto(content, isList, v)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if isList {
				return ErrExpectedString
			}
			b := make([]byte, len(content))
			copy(b, content)
			v.SetBytes(b)
			return nil
		}
		return decodeSequenceInto(content, isList, v)
	case reflect.Struct:
		return decodeSequenceInto(content, isList, v)
	default:
		return fmt.Errorf("rlp: unsupported type %s", v.Type())
	}
}

// decodeSequenceInto decodes a list's items into a struct's exported
// fields, or appends them to a slice, in order.
func decodeSequenceInto(content []byte, isList bool, v reflect.Value) error {
	if !isList {
		return ErrExpectedList
	}
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		rest := content
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" || f.Tag.Get("rlp") == "-" {
				continue
			}
			if len(rest) == 0 {
				return fmt.Errorf("rlp: too few list elements for %s", t)
			}
			itemContent, itemIsList, next, err := splitItem(rest)
			if err != nil {
				return err
			}
			if err := decodeValue(itemContent, itemIsList, v.Field(i)); err != nil {
				return err
			}
			rest = next
		}
		return nil
	case reflect.Slice, reflect.Array:
		elems := reflect.MakeSlice(reflect.SliceOf(v.Type().Elem()), 0, 0)
		rest := content
		for len(rest) > 0 {
			itemContent, itemIsList, next, err := splitItem(rest)
			if err != nil {
				return err
			}
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := decodeValue(itemContent, itemIsList, elem); err != nil {
				return err
			}
			elems = reflect.Append(elems, elem)
			rest = next
		}
		if v.Kind() == reflect.Array {
			reflect.Copy(v, elems)
		} else {
			v.Set(elems)
		}
		return nil
	default:
		return fmt.Errorf("rlp: unsupported list target %s", v.Type())
	}
}
