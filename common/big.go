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

import "math/big"

var (
	tt255   = BigPow(2, 255)
	tt256   = BigPow(2, 256)
	tt256m1 = new(big.Int).Sub(tt256, big.NewInt(1))
)

// Big parses num (decimal, or 0x-prefixed hex) into a big.Int.
func Big(num string) *big.Int {
	n := new(big.Int)
	n.SetString(num, 0)
	return n
}

// BigPow returns a**b as a big.Int.
func BigPow(a, b int64) *big.Int {
	r := big.NewInt(a)
	return r.Exp(r, big.NewInt(b), nil)
}

// BigMax returns the larger of x and y.
func BigMax(x, y *big.Int) *big.Int {
	if x.Cmp(y) < 0 {
		return y
	}
	return x
}

// BigMin returns the smaller of x and y.
func BigMin(x, y *big.Int) *big.Int {
	if x.Cmp(y) > 0 {
		return y
	}
	return x
}

// BigCopy returns an independent copy of b.
func BigCopy(b *big.Int) *big.Int {
	return new(big.Int).Set(b)
}

// BigD interprets data as the big-endian bytes of an unsigned integer.
func BigD(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

// BitTest reports whether bit n of num is set.
func BitTest(num *big.Int, n int) bool {
	return num.Bit(n) > 0
}

// U256 wraps x into the range of an unsigned 256-bit integer, in place.
func U256(x *big.Int) *big.Int {
	return x.And(x, tt256m1)
}

// S256 interprets x as a two's-complement signed 256-bit integer.
func S256(x *big.Int) *big.Int {
	if x.Cmp(tt255) < 0 {
		return x
	}
	return new(big.Int).Sub(x, tt256)
}

// BigToBytes renders num as big-endian bytes, left-padded with a single zero
// byte when the minimal representation has an odd number of hex digits, so
// that base-16 callers always see whole bytes.
func BigToBytes(num *big.Int, base int) []byte {
	b := num.Bytes()
	if base == 16 && len(num.Text(16))%2 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}
