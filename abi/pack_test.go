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

package abi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/dynabi/go-dynabi/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// words joins 64-char hex words into the byte encoding they spell.
func words(ws ...string) []byte {
	return common.Hex2Bytes(strings.Join(ws, ""))
}

func TestPack(t *testing.T) {
	for _, tt := range []struct {
		name string
		v    Value
		want []byte
	}{
		{
			"uint256",
			Uint{Bits: 256, V: uint256.NewInt(42)},
			words("000000000000000000000000000000000000000000000000000000000000002a"),
		},
		{
			"int256 negative",
			Int{Bits: 256, V: big.NewInt(-1)},
			words("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		},
		{
			"int8 negative",
			Int{Bits: 8, V: big.NewInt(-2)},
			words("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"),
		},
		{
			"bool true",
			Bool(true),
			words("0000000000000000000000000000000000000000000000000000000000000001"),
		},
		{
			"bool false",
			Bool(false),
			words("0000000000000000000000000000000000000000000000000000000000000000"),
		},
		{
			"address",
			Address(common.HexToAddress("0x1234567890123456789012345678901234567890")),
			words("0000000000000000000000001234567890123456789012345678901234567890"),
		},
		{
			"bytes2",
			FixedBytes{Size: 2, Word: [32]byte{0xde, 0xad}},
			words("dead000000000000000000000000000000000000000000000000000000000000"),
		},
		{
			"string",
			String("hello"),
			words(
				"0000000000000000000000000000000000000000000000000000000000000005",
				"68656c6c6f000000000000000000000000000000000000000000000000000000",
			),
		},
		{
			"bytes",
			Bytes{0x01, 0x02, 0x03},
			words(
				"0000000000000000000000000000000000000000000000000000000000000003",
				"0102030000000000000000000000000000000000000000000000000000000000",
			),
		},
		{
			"empty bytes",
			Bytes{},
			words("0000000000000000000000000000000000000000000000000000000000000000"),
		},
		{
			"static array",
			Array{Vals: []Value{
				Uint{Bits: 256, V: uint256.NewInt(1)},
				Uint{Bits: 256, V: uint256.NewInt(2)},
				Uint{Bits: 256, V: uint256.NewInt(3)},
			}},
			words(
				"0000000000000000000000000000000000000000000000000000000000000001",
				"0000000000000000000000000000000000000000000000000000000000000002",
				"0000000000000000000000000000000000000000000000000000000000000003",
			),
		},
		{
			"dynamic array",
			Slice{Elem: Uint256Type, Vals: []Value{
				Uint{Bits: 256, V: uint256.NewInt(1)},
				Uint{Bits: 256, V: uint256.NewInt(2)},
			}},
			words(
				"0000000000000000000000000000000000000000000000000000000000000002",
				"0000000000000000000000000000000000000000000000000000000000000001",
				"0000000000000000000000000000000000000000000000000000000000000002",
			),
		},
		{
			"empty dynamic array",
			Slice{Elem: Uint256Type},
			words("0000000000000000000000000000000000000000000000000000000000000000"),
		},
		{
			"fixed array of strings",
			Array{Vals: []Value{String("hi"), String("bye")}},
			words(
				"0000000000000000000000000000000000000000000000000000000000000040",
				"0000000000000000000000000000000000000000000000000000000000000080",
				"0000000000000000000000000000000000000000000000000000000000000002",
				"6869000000000000000000000000000000000000000000000000000000000000",
				"0000000000000000000000000000000000000000000000000000000000000003",
				"6279650000000000000000000000000000000000000000000000000000000000",
			),
		},
		{
			"tuple with tail",
			NewTuple(Uint{Bits: 256, V: uint256.NewInt(1)}, String("dave")),
			words(
				"0000000000000000000000000000000000000000000000000000000000000001",
				"0000000000000000000000000000000000000000000000000000000000000040",
				"0000000000000000000000000000000000000000000000000000000000000004",
				"6461766500000000000000000000000000000000000000000000000000000000",
			),
		},
	} {
		got, err := Pack(tt.v)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, got, tt.name)
		require.Zero(t, len(got)%32, tt.name)
	}
}

func TestPackValues(t *testing.T) {
	// Two dynamic arrays as a top-level argument list: the classic offset
	// layout for f(uint256[],uint256[]).
	a := Slice{Elem: Uint256Type, Vals: []Value{
		Uint{Bits: 256, V: uint256.NewInt(1)},
		Uint{Bits: 256, V: uint256.NewInt(2)},
	}}
	b := Slice{Elem: Uint256Type, Vals: []Value{
		Uint{Bits: 256, V: uint256.NewInt(3)},
		Uint{Bits: 256, V: uint256.NewInt(4)},
	}}
	got, err := PackValues([]Value{a, b})
	require.NoError(t, err)
	require.Equal(t, words(
		"0000000000000000000000000000000000000000000000000000000000000040",
		"00000000000000000000000000000000000000000000000000000000000000a0",
		"0000000000000000000000000000000000000000000000000000000000000002",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000002",
		"0000000000000000000000000000000000000000000000000000000000000002",
		"0000000000000000000000000000000000000000000000000000000000000003",
		"0000000000000000000000000000000000000000000000000000000000000004",
	), got)
}

func TestPackStructEqualsTuple(t *testing.T) {
	// Struct and field names are hashing metadata: the wire encoding is the
	// plain tuple encoding.
	st, err := NewStruct("Point", []string{"x", "y"}, []Value{
		Uint{Bits: 256, V: uint256.NewInt(3)},
		Uint{Bits: 256, V: uint256.NewInt(7)},
	})
	require.NoError(t, err)
	tu := NewTuple(st.Vals...)

	a, err := Pack(st)
	require.NoError(t, err)
	b, err := Pack(tu)
	require.NoError(t, err)
	require.Equal(t, b, a)
}

func TestPackDeterministic(t *testing.T) {
	v := NewTuple(String("abc"), Slice{Elem: BoolType, Vals: []Value{Bool(true)}})
	a, err := Pack(v)
	require.NoError(t, err)
	b, err := Pack(v)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestPackInvalidValues(t *testing.T) {
	// Hand-built values that bypass the constructors are rejected, not
	// encoded.
	_, err := Pack(Slice{Elem: BoolType, Vals: []Value{Bool(true), String("x")}})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Pack(Uint{Bits: 8, V: uint256.NewInt(300)})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Pack(Int{Bits: 8, V: big.NewInt(128)})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Pack(Int{Bits: 256, V: nil})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Pack(Uint{Bits: 7, V: uint256.NewInt(1)})
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = Pack(Array{})
	require.ErrorIs(t, err, ErrInvalidSize)
}
