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
	"fmt"
	"strconv"
	"strings"
)

// Type enumerator
const (
	IntTy byte = iota
	UintTy
	BoolTy
	StringTy
	SliceTy
	ArrayTy
	TupleTy
	AddressTy
	FixedBytesTy
	BytesTy
	FunctionTy
)

// maxNestingDepth bounds how deep composite types may nest. The ABI standard
// itself imposes no limit; the bound exists so that adversarial signatures or
// descriptors cannot exhaust the call stack during encoding, decoding or
// hashing. Construction of a deeper type fails with ErrNestingTooDeep.
const maxNestingDepth = 32

// Type is the descriptor of a single Solidity value shape. A Type tree is
// immutable once built; all constructors validate their inputs.
type Type struct {
	Elem *Type // element type of a slice or array
	Size int   // bit width for intN/uintN, byte length for bytesN, element count for arrays
	T    byte  // our own type checking

	stringKind string // holds the canonical signature string

	// Tuple relative fields
	TupleRawName  string   // Raw struct name defined in source code, may be empty.
	TupleElems    []*Type  // Type information of all tuple fields
	TupleRawNames []string // Raw field name of all tuple fields
}

// Elementary types, ready to use.
var (
	BoolType     = Type{T: BoolTy, stringKind: "bool"}
	StringType   = Type{T: StringTy, stringKind: "string"}
	BytesType    = Type{T: BytesTy, stringKind: "bytes"}
	AddressType  = Type{T: AddressTy, Size: 20, stringKind: "address"}
	FunctionType = Type{T: FunctionTy, Size: 24, stringKind: "function"}
	Uint256Type  = Type{T: UintTy, Size: 256, stringKind: "uint256"}
	Int256Type   = Type{T: IntTy, Size: 256, stringKind: "int256"}
	Bytes32Type  = Type{T: FixedBytesTy, Size: 32, stringKind: "bytes32"}
)

// NewIntType returns the descriptor for intN. The width must be a multiple of
// 8 in [8, 256].
func NewIntType(bits int) (Type, error) {
	if err := checkNumericSize(bits); err != nil {
		return Type{}, err
	}
	return Type{T: IntTy, Size: bits, stringKind: "int" + strconv.Itoa(bits)}, nil
}

// NewUintType returns the descriptor for uintN. The width must be a multiple
// of 8 in [8, 256].
func NewUintType(bits int) (Type, error) {
	if err := checkNumericSize(bits); err != nil {
		return Type{}, err
	}
	return Type{T: UintTy, Size: bits, stringKind: "uint" + strconv.Itoa(bits)}, nil
}

func checkNumericSize(bits int) error {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return fmt.Errorf("%w: invalid integer width %d", ErrInvalidSize, bits)
	}
	return nil
}

// NewFixedBytesType returns the descriptor for bytesN, 1 <= N <= 32.
func NewFixedBytesType(size int) (Type, error) {
	if size < 1 || size > 32 {
		return Type{}, fmt.Errorf("%w: invalid bytes length %d", ErrInvalidSize, size)
	}
	return Type{T: FixedBytesTy, Size: size, stringKind: "bytes" + strconv.Itoa(size)}, nil
}

// NewSliceType returns the descriptor for elem[], the dynamic-length array of
// elem.
func NewSliceType(elem Type) (Type, error) {
	t := Type{T: SliceTy, Elem: &elem, stringKind: elem.stringKind + "[]"}
	if t.depth() > maxNestingDepth {
		return Type{}, fmt.Errorf("%w: %s", ErrNestingTooDeep, t.stringKind)
	}
	return t, nil
}

// NewArrayType returns the descriptor for elem[size], the fixed-length array
// of elem. The length must be positive.
func NewArrayType(elem Type, size int) (Type, error) {
	if size <= 0 {
		return Type{}, fmt.Errorf("%w: invalid array length %d", ErrInvalidSize, size)
	}
	t := Type{T: ArrayTy, Elem: &elem, Size: size, stringKind: elem.stringKind + "[" + strconv.Itoa(size) + "]"}
	if t.depth() > maxNestingDepth {
		return Type{}, fmt.Errorf("%w: %s", ErrNestingTooDeep, t.stringKind)
	}
	return t, nil
}

// NewTupleType returns the descriptor for the anonymous tuple (elems...).
func NewTupleType(elems ...Type) (Type, error) {
	return newTuple("", nil, elems)
}

// NewStructType returns the descriptor for a named struct. Struct name and
// field names are hashing metadata only: ABI encoding treats the type as the
// underlying tuple. One field name per element is required.
func NewStructType(name string, fieldNames []string, elems []Type) (Type, error) {
	if name == "" {
		return Type{}, fmt.Errorf("%w: struct requires a name", ErrTypeMismatch)
	}
	if len(fieldNames) != len(elems) {
		return Type{}, fmt.Errorf("%w: struct %s has %d field names for %d fields",
			ErrTypeMismatch, name, len(fieldNames), len(elems))
	}
	return newTuple(name, fieldNames, elems)
}

func newTuple(rawName string, rawNames []string, elems []Type) (Type, error) {
	var (
		ptrs       = make([]*Type, len(elems))
		expression strings.Builder
	)
	expression.WriteByte('(')
	for i := range elems {
		elem := elems[i]
		ptrs[i] = &elem
		if i > 0 {
			expression.WriteByte(',')
		}
		expression.WriteString(elem.stringKind)
	}
	expression.WriteByte(')')
	t := Type{
		T:             TupleTy,
		TupleElems:    ptrs,
		TupleRawName:  rawName,
		TupleRawNames: append([]string(nil), rawNames...),
		stringKind:    expression.String(),
	}
	if t.depth() > maxNestingDepth {
		return Type{}, fmt.Errorf("%w: %s", ErrNestingTooDeep, t.stringKind)
	}
	return t, nil
}

// String returns the canonical signature of the type, e.g. "(uint256,bool)[2]".
// Struct and field names do not appear: two types with equal strings encode
// identically.
func (t Type) String() string {
	return t.stringKind
}

// IsDynamic returns true if the type is dynamic.
// The following types are called “dynamic”:
// * bytes
// * string
// * T[] for any T
// * T[k] for any dynamic T and any k >= 0
// * (T1,...,Tk) if Ti is dynamic for some 1 <= i <= k
func (t Type) IsDynamic() bool {
	switch t.T {
	case StringTy, BytesTy, SliceTy:
		return true
	case ArrayTy:
		return t.Elem.IsDynamic()
	case TupleTy:
		for _, elem := range t.TupleElems {
			if elem.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// requiresLengthPrefix returns whether the type requires any sort of length
// prefixing.
func (t Type) requiresLengthPrefix() bool {
	return t.T == StringTy || t.T == BytesTy || t.T == SliceTy
}

// depth returns the nesting level of the type tree, 1 for elementary types.
func (t Type) depth() int {
	switch t.T {
	case SliceTy, ArrayTy:
		return 1 + t.Elem.depth()
	case TupleTy:
		max := 0
		for _, elem := range t.TupleElems {
			if d := elem.depth(); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 1
	}
}

// typeSize returns the number of bytes the type occupies in the head section
// of its enclosing tuple or array. Static types are encoded in place and
// occupy their full encoding; dynamic types occupy the fixed 32 bytes that
// hold the tail offset.
func typeSize(t Type) int {
	if t.T == ArrayTy && !t.Elem.IsDynamic() {
		if t.Elem.T == ArrayTy || t.Elem.T == TupleTy {
			return t.Size * typeSize(*t.Elem)
		}
		return t.Size * 32
	}
	if t.T == TupleTy && !t.IsDynamic() {
		total := 0
		for _, elem := range t.TupleElems {
			total += typeSize(*elem)
		}
		return total
	}
	return 32
}

// typeEqual reports whether two descriptors denote the same ABI type. Struct
// metadata is ignored, matching the encoding semantics.
func typeEqual(a, b Type) bool {
	return a.stringKind == b.stringKind
}
