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

import (
	"math/big"
	"strings"
)

// ToGWei formats a wei amount as a decimal gwei string, used in CLI output
// and log lines reporting base fees.
func ToGWei(wei *big.Int) string {
	return formatUnits(wei, 9)
}

// ToEth formats a wei amount as a decimal ether string.
func ToEth(wei *big.Int) string {
	return formatUnits(wei, 18)
}

func formatUnits(wei *big.Int, decimals int64) string {
	if wei.Sign() == 0 {
		return "0"
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	s := new(big.Rat).SetFrac(wei, divisor).FloatString(int(decimals))
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
