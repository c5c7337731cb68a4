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

package hexutil

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	b, err := Decode("0x0102ff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0xff}, b)

	b, err = Decode("0x")
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = Decode("")
	require.ErrorIs(t, err, ErrEmptyString)
	_, err = Decode("0102")
	require.ErrorIs(t, err, ErrMissingPrefix)
	_, err = Decode("0x010")
	require.ErrorIs(t, err, ErrOddLength)
	_, err = Decode("0xzz")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestEncode(t *testing.T) {
	require.Equal(t, "0x0102ff", Encode([]byte{0x01, 0x02, 0xff}))
	require.Equal(t, "0x", Encode(nil))
}

func TestUint64(t *testing.T) {
	require.Equal(t, "0x2a", EncodeUint64(42))
	v, err := DecodeUint64("0x2a")
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)

	_, err = DecodeUint64("0x012")
	require.ErrorIs(t, err, ErrLeadingZero)
}

func TestBig(t *testing.T) {
	require.Equal(t, "0x2a", EncodeBig(big.NewInt(42)))
	require.Equal(t, "-0x2a", EncodeBig(big.NewInt(-42)))

	v, err := DecodeBig("0x2a")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), v)

	_, err = DecodeBig("0x02a")
	require.ErrorIs(t, err, ErrLeadingZero)
}
