// Copyright 2024 The go-dynabi Authors
// This file is part of the go-dynabi library.
//
// The go-dynabi library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-dynabi library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-dynabi library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		str string
		exp bool
	}{
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0X5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0x5AAEB6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed1", false},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"0xxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
		{"", false},
	}
	for _, test := range tests {
		require.Equal(t, test.exp, IsHexAddress(test.str), test.str)
	}
}

func TestAddressHexChecksum(t *testing.T) {
	// EIP-55 test vectors.
	tests := []struct {
		input  string
		output string
	}{
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359", "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"},
		{"0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb", "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"},
		{"0xd1220a0cf47c7b9be7a2e6ba89f429762e7b9adb", "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"},
	}
	for _, test := range tests {
		require.Equal(t, test.output, HexToAddress(test.input).Hex(), test.input)
	}
}

func TestHashSetBytes(t *testing.T) {
	var h Hash
	h.SetBytes([]byte{0x01})
	require.Equal(t, byte(0x01), h[31])

	// Oversized input keeps the rightmost HashLength bytes.
	long := make([]byte, HashLength+2)
	long[0], long[1], long[2] = 0xaa, 0xbb, 0xcc
	h.SetBytes(long)
	require.Equal(t, byte(0xcc), h[0])
}

func TestAddressSetBytes(t *testing.T) {
	var a Address
	a.SetBytes([]byte{0x01, 0x02})
	require.Equal(t, byte(0x02), a[19])
	require.Equal(t, byte(0x01), a[18])
}
