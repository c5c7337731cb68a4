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

package crypto

import (
	"testing"

	"github.com/dynabi/go-dynabi/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestKeccak256(t *testing.T) {
	// Known legacy-Keccak vectors.
	require.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hexutil.Encode(Keccak256()))
	require.Equal(t,
		"0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		hexutil.Encode(Keccak256([]byte("abc"))))

	// Multi-slice input hashes like the concatenation.
	require.Equal(t, Keccak256([]byte("abc")), Keccak256([]byte("a"), []byte("bc")))
}

func TestKeccak256Hash(t *testing.T) {
	h := Keccak256Hash([]byte("abc"))
	require.Equal(t, Keccak256([]byte("abc")), h[:])
}
