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
	"math/big"

	"github.com/dynabi/go-dynabi/common"
	"github.com/holiman/uint256"
)

// Value is a Solidity value carried together with enough type information to
// recover its exact descriptor. The variant set is closed and mirrors the
// Type kinds one to one. Values are immutable once built; the constructors
// enforce the per-variant invariants (width ranges, element homogeneity,
// field-name arity), and the encoder re-checks them before emitting bytes.
type Value interface {
	// TypeOf returns the descriptor this value encodes as.
	TypeOf() Type

	value() // restricts implementations to this package
}

// Bool wraps a Solidity bool.
type Bool bool

// String wraps a Solidity string.
type String string

// Bytes wraps the dynamic-length bytes type.
type Bytes []byte

// Address wraps the 20-byte address type.
type Address common.Address

// Function wraps the 24-byte function type: a 20-byte address followed by a
// 4-byte selector.
type Function [24]byte

// FixedBytes wraps bytesN. Data is left-aligned in Word, the declared length
// is Size; a zero Size reads as 32.
type FixedBytes struct {
	Size int
	Word [32]byte
}

// Int wraps intN. The declared width is Bits; a zero Bits reads as 256. V is
// interpreted as a signed number and must fit the declared width.
type Int struct {
	Bits int
	V    *big.Int
}

// Uint wraps uintN. The declared width is Bits; a zero Bits reads as 256.
type Uint struct {
	Bits int
	V    *uint256.Int
}

// Slice wraps a dynamic-length array. Elem keeps the element descriptor so
// that an empty slice stays self-describing; NewSlice guarantees every
// element matches it.
type Slice struct {
	Elem Type
	Vals []Value
}

// Array wraps a fixed-length array. The length is len(Vals), which is always
// positive, and all elements share one descriptor.
type Array struct {
	Vals []Value
}

// Tuple wraps an anonymous tuple.
type Tuple struct {
	Vals []Value
}

// Struct wraps a named struct: a tuple plus hashing metadata. Name and
// FieldNames contribute nothing to ABI encoding.
type Struct struct {
	Name       string
	FieldNames []string
	Vals       []Value
}

func (Bool) value()       {}
func (String) value()     {}
func (Bytes) value()      {}
func (Address) value()    {}
func (Function) value()   {}
func (FixedBytes) value() {}
func (Int) value()        {}
func (Uint) value()       {}
func (Slice) value()      {}
func (Array) value()      {}
func (Tuple) value()      {}
func (Struct) value()     {}

// TypeOf implements Value.
func (Bool) TypeOf() Type { return BoolType }

// TypeOf implements Value.
func (String) TypeOf() Type { return StringType }

// TypeOf implements Value.
func (Bytes) TypeOf() Type { return BytesType }

// TypeOf implements Value.
func (Address) TypeOf() Type { return AddressType }

// TypeOf implements Value.
func (Function) TypeOf() Type { return FunctionType }

// TypeOf implements Value.
func (v FixedBytes) TypeOf() Type {
	t, err := NewFixedBytesType(v.size())
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Int) TypeOf() Type {
	t, err := NewIntType(v.bits())
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Uint) TypeOf() Type {
	t, err := NewUintType(v.bits())
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Slice) TypeOf() Type {
	t, err := NewSliceType(v.elemType())
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Array) TypeOf() Type {
	if len(v.Vals) == 0 {
		panic(invariantErr(fmt.Errorf("%w: empty fixed array", ErrTypeMismatch)))
	}
	t, err := NewArrayType(v.Vals[0].TypeOf(), len(v.Vals))
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Tuple) TypeOf() Type {
	t, err := NewTupleType(valueTypes(v.Vals)...)
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

// TypeOf implements Value.
func (v Struct) TypeOf() Type {
	t, err := NewStructType(v.Name, v.FieldNames, valueTypes(v.Vals))
	if err != nil {
		panic(invariantErr(err))
	}
	return t
}

func (v FixedBytes) size() int {
	if v.Size == 0 {
		return 32
	}
	return v.Size
}

// Bytes returns the declared-length prefix of the word.
func (v FixedBytes) Bytes() []byte { return v.Word[:v.size()] }

func (v Int) bits() int {
	if v.Bits == 0 {
		return 256
	}
	return v.Bits
}

func (v Uint) bits() int {
	if v.Bits == 0 {
		return 256
	}
	return v.Bits
}

func (v Slice) elemType() Type {
	if v.Elem.stringKind != "" {
		return v.Elem
	}
	if len(v.Vals) > 0 {
		return v.Vals[0].TypeOf()
	}
	panic(invariantErr(fmt.Errorf("%w: slice without element type", ErrTypeMismatch)))
}

func valueTypes(vals []Value) []Type {
	types := make([]Type, len(vals))
	for i, v := range vals {
		types[i] = v.TypeOf()
	}
	return types
}

func invariantErr(err error) error {
	return fmt.Errorf("abi: value built without constructor: %v", err)
}

// NewInt returns an intN value. x must fit the signed width.
func NewInt(bits int, x *big.Int) (Int, error) {
	if err := checkNumericSize(bits); err != nil {
		return Int{}, err
	}
	if x == nil {
		return Int{}, fmt.Errorf("%w: nil integer for int%d", ErrTypeMismatch, bits)
	}
	if err := checkIntRange(bits, x); err != nil {
		return Int{}, err
	}
	return Int{Bits: bits, V: new(big.Int).Set(x)}, nil
}

// NewUint returns a uintN value. x must fit the width.
func NewUint(bits int, x *uint256.Int) (Uint, error) {
	if err := checkNumericSize(bits); err != nil {
		return Uint{}, err
	}
	if x == nil {
		return Uint{}, fmt.Errorf("%w: nil integer for uint%d", ErrTypeMismatch, bits)
	}
	if x.BitLen() > bits {
		return Uint{}, fmt.Errorf("%w: %s overflows uint%d", ErrTypeMismatch, x, bits)
	}
	return Uint{Bits: bits, V: new(uint256.Int).Set(x)}, nil
}

// NewFixedBytes returns a bytesN value with N = len(data).
func NewFixedBytes(data []byte) (FixedBytes, error) {
	if len(data) < 1 || len(data) > 32 {
		return FixedBytes{}, fmt.Errorf("%w: bytes%d", ErrInvalidSize, len(data))
	}
	v := FixedBytes{Size: len(data)}
	copy(v.Word[:], data)
	return v, nil
}

// NewSlice returns a dynamic array value over elem. Every element must have
// exactly the element descriptor.
func NewSlice(elem Type, vals []Value) (Slice, error) {
	if elem.stringKind == "" {
		return Slice{}, fmt.Errorf("%w: slice requires an element type", ErrTypeMismatch)
	}
	for i, v := range vals {
		if !typeEqual(v.TypeOf(), elem) {
			return Slice{}, fmt.Errorf("%w: element %d is %s, want %s",
				ErrTypeMismatch, i, v.TypeOf(), elem)
		}
	}
	return Slice{Elem: elem, Vals: vals}, nil
}

// NewArray returns a fixed array value. At least one element is required and
// all elements must share one descriptor.
func NewArray(vals []Value) (Array, error) {
	if len(vals) == 0 {
		return Array{}, fmt.Errorf("%w: fixed array length 0", ErrInvalidSize)
	}
	elem := vals[0].TypeOf()
	for i, v := range vals[1:] {
		if !typeEqual(v.TypeOf(), elem) {
			return Array{}, fmt.Errorf("%w: element %d is %s, want %s",
				ErrTypeMismatch, i+1, v.TypeOf(), elem)
		}
	}
	return Array{Vals: vals}, nil
}

// NewTuple returns a tuple value over vals.
func NewTuple(vals ...Value) Tuple {
	return Tuple{Vals: vals}
}

// NewStruct returns a named struct value. One field name per value is
// required.
func NewStruct(name string, fieldNames []string, vals []Value) (Struct, error) {
	if name == "" {
		return Struct{}, fmt.Errorf("%w: struct requires a name", ErrTypeMismatch)
	}
	if len(fieldNames) != len(vals) {
		return Struct{}, fmt.Errorf("%w: struct %s has %d field names for %d values",
			ErrTypeMismatch, name, len(fieldNames), len(vals))
	}
	return Struct{Name: name, FieldNames: fieldNames, Vals: vals}, nil
}

// Field returns the value of the named struct field.
func (v Struct) Field(name string) (Value, bool) {
	for i, n := range v.FieldNames {
		if n == name {
			return v.Vals[i], true
		}
	}
	return nil, false
}

func checkIntRange(bits int, x *big.Int) error {
	// [-2^(bits-1), 2^(bits-1)-1]
	limit := new(big.Int).Lsh(common.Big1, uint(bits-1))
	max := new(big.Int).Sub(limit, common.Big1)
	min := new(big.Int).Neg(limit)
	if x.Cmp(min) < 0 || x.Cmp(max) > 0 {
		return fmt.Errorf("%w: %s overflows int%d", ErrTypeMismatch, x, bits)
	}
	return nil
}
