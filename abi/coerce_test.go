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
	"testing"

	"github.com/dynabi/go-dynabi/common"
	"github.com/dynabi/go-dynabi/common/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	u8, err := ParseType("uint8")
	require.NoError(t, err)

	// Width narrowing succeeds when the value fits.
	v, err := Coerce(Uint{Bits: 256, V: uint256.NewInt(200)}, u8)
	require.NoError(t, err)
	require.Equal(t, Value(Uint{Bits: 8, V: uint256.NewInt(200)}), v)

	_, err = Coerce(Uint{Bits: 256, V: uint256.NewInt(300)}, u8)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Signs never mix.
	_, err = Coerce(Int{Bits: 256, V: big.NewInt(1)}, u8)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Fixed lengths are exact.
	b4, err := ParseType("bytes4")
	require.NoError(t, err)
	_, err = Coerce(FixedBytes{Size: 2, Word: [32]byte{0xde, 0xad}}, b4)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Array lengths are exact.
	a2, err := ParseType("bool[2]")
	require.NoError(t, err)
	_, err = Coerce(Array{Vals: []Value{Bool(true)}}, a2)
	require.ErrorIs(t, err, ErrTypeMismatch)
	v, err = Coerce(Slice{Elem: BoolType, Vals: []Value{Bool(true), Bool(false)}}, a2)
	require.NoError(t, err)
	require.Equal(t, "bool[2]", v.TypeOf().String())
}

func TestCoerceTupleStruct(t *testing.T) {
	person, err := NewStructType("Person", []string{"name", "wallet"}, []Type{StringType, AddressType})
	require.NoError(t, err)

	// An anonymous tuple with the right shape converts to the named struct.
	v, err := Coerce(NewTuple(String("Alice"), Address{}), person)
	require.NoError(t, err)
	st, ok := v.(Struct)
	require.True(t, ok)
	require.Equal(t, "Person", st.Name)
	require.Equal(t, []string{"name", "wallet"}, st.FieldNames)

	_, err = Coerce(NewTuple(String("Alice")), person)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = Coerce(NewTuple(Bool(true), Address{}), person)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueOf(t *testing.T) {
	addr := common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")

	for _, tt := range []struct {
		sig  string
		data interface{}
		want Value
	}{
		{"bool", true, Bool(true)},
		{"string", "hi", String("hi")},
		{"address", "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826", Address(addr)},
		{"address", addr.Bytes(), Address(addr)},
		{"uint256", float64(42), Uint{Bits: 256, V: uint256.NewInt(42)}},
		{"uint256", "0x2a", Uint{Bits: 256, V: uint256.NewInt(42)}},
		{"uint256", "42", Uint{Bits: 256, V: uint256.NewInt(42)}},
		{"uint256", big.NewInt(42), Uint{Bits: 256, V: uint256.NewInt(42)}},
		{"uint256", math.NewHexOrDecimal256(42), Uint{Bits: 256, V: uint256.NewInt(42)}},
		{"int8", float64(-5), Int{Bits: 8, V: big.NewInt(-5)}},
		{"bytes", "0x010203", Bytes{0x01, 0x02, 0x03}},
		{"bytes2", "0xdead", FixedBytes{Size: 2, Word: [32]byte{0xde, 0xad}}},
		{"bytes2", [2]byte{0xde, 0xad}, FixedBytes{Size: 2, Word: [32]byte{0xde, 0xad}}},
	} {
		typ, err := ParseType(tt.sig)
		require.NoError(t, err, tt.sig)
		v, err := ValueOf(typ, tt.data)
		require.NoError(t, err, "%s from %v", tt.sig, tt.data)
		require.Equal(t, tt.want, v, "%s from %v", tt.sig, tt.data)
	}
}

func TestValueOfComposite(t *testing.T) {
	sliceTy, err := ParseType("uint256[]")
	require.NoError(t, err)
	v, err := ValueOf(sliceTy, []interface{}{float64(1), "2"})
	require.NoError(t, err)
	require.Equal(t, Value(Slice{Elem: Uint256Type, Vals: []Value{
		Uint{Bits: 256, V: uint256.NewInt(1)},
		Uint{Bits: 256, V: uint256.NewInt(2)},
	}}), v)

	arrayTy, err := ParseType("bool[2]")
	require.NoError(t, err)
	_, err = ValueOf(arrayTy, []interface{}{true})
	require.ErrorIs(t, err, ErrTypeMismatch)

	person, err := NewStructType("Person", []string{"name", "wallet"}, []Type{StringType, AddressType})
	require.NoError(t, err)
	v, err = ValueOf(person, map[string]interface{}{
		"name":   "Alice",
		"wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826",
	})
	require.NoError(t, err)
	st, ok := v.(Struct)
	require.True(t, ok)
	require.Equal(t, "Person", st.Name)

	_, err = ValueOf(person, map[string]interface{}{"name": "Alice"})
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = ValueOf(person, map[string]interface{}{
		"name": "Alice", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826", "extra": 1,
	})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueOfErrors(t *testing.T) {
	u256 := Uint256Type
	_, err := ValueOf(u256, float64(1.5))
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = ValueOf(u256, "-1")
	require.Error(t, err)
	_, err = ValueOf(u256, true)
	require.ErrorIs(t, err, ErrTypeMismatch)

	u8, err := ParseType("uint8")
	require.NoError(t, err)
	_, err = ValueOf(u8, float64(256))
	require.ErrorIs(t, err, ErrTypeMismatch)

	b2, err := ParseType("bytes2")
	require.NoError(t, err)
	_, err = ValueOf(b2, "0xdeadbe")
	require.ErrorIs(t, err, ErrTypeMismatch)
}
