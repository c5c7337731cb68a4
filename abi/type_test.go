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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  string // canonical form
	}{
		{"uint256", "uint256"},
		{"uint", "uint256"},
		{"int", "int256"},
		{"int8", "int8"},
		{"bytes", "bytes"},
		{"bytes1", "bytes1"},
		{"bytes32", "bytes32"},
		{"bool", "bool"},
		{"address", "address"},
		{"string", "string"},
		{"function", "function"},
		{"uint256[]", "uint256[]"},
		{"uint256[3]", "uint256[3]"},
		{"uint8[2][]", "uint8[2][]"},
		{"uint8[][2]", "uint8[][2]"},
		{"()", "()"},
		{"(uint256,bool)", "(uint256,bool)"},
		{"(uint256,(address,bytes))", "(uint256,(address,bytes))"},
		{"(uint256,bool)[2]", "(uint256,bool)[2]"},
		{" ( uint , bool ) [ 2 ] ", "(uint256,bool)[2]"},
	} {
		typ, err := ParseType(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.want, typ.String(), "input %q", tt.input)

		// The canonical form must parse back to itself.
		again, err := ParseType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ.String(), again.String())
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, tt := range []struct {
		input   string
		wantErr error
	}{
		{"uint7", ErrInvalidSize},
		{"uint264", ErrInvalidSize},
		{"int0", ErrInvalidSize},
		{"bytes0", ErrInvalidSize},
		{"bytes33", ErrInvalidSize},
		{"uint256[0]", ErrInvalidSize},
		{"foo", ErrUnknownType},
		{"bool256", ErrUnknownType},
		{"", ErrUnexpectedToken},
		{"uint256[", ErrUnexpectedToken},
		{"uint256[2", ErrUnexpectedToken},
		{"uint256]", ErrUnexpectedToken},
		{"uint256 bool", ErrUnexpectedToken},
		{"(uint256", ErrUnbalancedParens},
		{"(uint256,(bool)", ErrUnbalancedParens},
		{")", ErrUnbalancedParens},
		{"uint256)", ErrUnbalancedParens},
	} {
		_, err := ParseType(tt.input)
		require.ErrorIs(t, err, tt.wantErr, "input %q", tt.input)
	}
}

func TestParseTypeNestingLimit(t *testing.T) {
	// 32 levels of nesting are accepted, 33 are not.
	ok := "uint8" + strings.Repeat("[]", maxNestingDepth-1)
	_, err := ParseType(ok)
	require.NoError(t, err)

	_, err = ParseType(ok + "[]")
	require.ErrorIs(t, err, ErrNestingTooDeep)
}

func TestIsDynamic(t *testing.T) {
	for _, tt := range []struct {
		input   string
		dynamic bool
	}{
		{"uint256", false},
		{"int128", false},
		{"bool", false},
		{"address", false},
		{"bytes32", false},
		{"function", false},
		{"string", true},
		{"bytes", true},
		{"uint256[]", true},
		{"uint256[3]", false},
		{"string[3]", true},
		{"bytes32[2]", false},
		{"(uint256,bool)", false},
		{"(uint256,string)", true},
		{"(uint256,bool)[2]", false},
		{"(string)[2]", true},
		{"()", false},
	} {
		typ, err := ParseType(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.dynamic, typ.IsDynamic(), "input %q", tt.input)
	}
}

func TestTypeSize(t *testing.T) {
	for _, tt := range []struct {
		input string
		size  int
	}{
		{"uint256", 32},
		{"bool", 32},
		{"string", 32},    // offset word
		{"uint256[]", 32}, // offset word
		{"uint256[4]", 128},
		{"uint8[2][3]", 192},
		{"(uint256,bool)", 64},
		{"(uint256,bool)[2]", 128},
		{"(uint256,string)", 32}, // dynamic tuple, offset word
	} {
		typ, err := ParseType(tt.input)
		require.NoError(t, err)
		require.Equal(t, tt.size, typeSize(typ), "input %q", tt.input)
	}
}

func TestNewTypeConstructors(t *testing.T) {
	_, err := NewIntType(33)
	require.ErrorIs(t, err, ErrInvalidSize)
	_, err = NewUintType(0)
	require.ErrorIs(t, err, ErrInvalidSize)
	_, err = NewFixedBytesType(33)
	require.ErrorIs(t, err, ErrInvalidSize)
	_, err = NewArrayType(BoolType, 0)
	require.ErrorIs(t, err, ErrInvalidSize)

	st, err := NewStructType("Person", []string{"name", "wallet"}, []Type{StringType, AddressType})
	require.NoError(t, err)
	require.Equal(t, "(string,address)", st.String())
	require.Equal(t, "Person", st.TupleRawName)

	_, err = NewStructType("", nil, nil)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = NewStructType("Person", []string{"name"}, []Type{StringType, AddressType})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNewTypeJSON(t *testing.T) {
	// Anonymous tuple from components.
	typ, err := NewType("tuple", "", []ArgumentMarshaling{
		{Name: "a", Type: "uint256"},
		{Name: "b", Type: "string"},
	})
	require.NoError(t, err)
	require.Equal(t, "(uint256,string)", typ.String())
	require.Equal(t, "", typ.TupleRawName)
	require.Equal(t, []string{"a", "b"}, typ.TupleRawNames)

	// Named struct via internalType.
	typ, err = NewType("tuple[2]", "struct Example.Pair[2]", []ArgumentMarshaling{
		{Name: "x", Type: "uint128"},
		{Name: "y", Type: "uint128"},
	})
	require.NoError(t, err)
	require.Equal(t, "(uint128,uint128)[2]", typ.String())
	require.Equal(t, "ExamplePair", typ.Elem.TupleRawName)

	_, err = NewType("uint256[2", "", nil)
	require.ErrorIs(t, err, ErrUnbalancedParens)
}
