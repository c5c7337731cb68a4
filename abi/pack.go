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
	"github.com/dynabi/go-dynabi/common/math"
)

// Pack encodes a single value into its canonical ABI representation. The
// output length is always a multiple of 32. Encoding is deterministic; it
// fails only for values that violate a constructor invariant (mixed array
// elements, out-of-range widths).
func Pack(v Value) ([]byte, error) {
	if err := validateValue(v); err != nil {
		return nil, err
	}
	return packValue(v)
}

// PackValues encodes a top-level value list: exactly the tuple encoding of
// vals, with no outer length prefix. It is the semantic opposite of
// UnpackValues.
func PackValues(vals []Value) ([]byte, error) {
	for _, v := range vals {
		if err := validateValue(v); err != nil {
			return nil, err
		}
	}
	return packTupleElems(vals)
}

func packValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Slice:
		return packArrayElems(val.elemType(), val.Vals, true)
	case Array:
		return packArrayElems(val.Vals[0].TypeOf(), val.Vals, false)
	case Tuple:
		return packTupleElems(val.Vals)
	case Struct:
		// Struct name and field names are hashing metadata only.
		return packTupleElems(val.Vals)
	default:
		return packElement(v)
	}
}

// packArrayElems implements the head/tail layout for arrays. Dynamic element
// types get one offset word per element, with offsets relative to the start
// of this array's own encoding (after the length prefix, if any); static
// elements are encoded in place.
func packArrayElems(elem Type, vals []Value, lengthPrefix bool) ([]byte, error) {
	var ret []byte
	if lengthPrefix {
		ret = append(ret, packNum(len(vals))...)
	}
	offset := 0
	offsetReq := elem.IsDynamic()
	if offsetReq {
		offset = typeSize(elem) * len(vals)
	}
	var tail []byte
	for _, v := range vals {
		val, err := packValue(v)
		if err != nil {
			return nil, err
		}
		if !offsetReq {
			ret = append(ret, val...)
			continue
		}
		ret = append(ret, packNum(offset)...)
		offset += len(val)
		tail = append(tail, val...)
	}
	return append(ret, tail...), nil
}

// packTupleElems implements the head/tail layout for tuples:
//
//	enc(X) = head(X(1)) ... head(X(k)) tail(X(1)) ... tail(X(k))
//
// where the head of a static member is its encoding and the head of a
// dynamic member is the offset of its tail, counted from the start of this
// tuple's encoding.
func packTupleElems(vals []Value) ([]byte, error) {
	offset := 0
	for _, v := range vals {
		offset += typeSize(v.TypeOf())
	}
	var ret, tail []byte
	for _, v := range vals {
		val, err := packValue(v)
		if err != nil {
			return nil, err
		}
		if v.TypeOf().IsDynamic() {
			ret = append(ret, packNum(offset)...)
			offset += len(val)
			tail = append(tail, val...)
		} else {
			ret = append(ret, val...)
		}
	}
	return append(ret, tail...), nil
}

// packElement encodes a non-composite value into one or more 32-byte words.
func packElement(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Bool:
		if val {
			return math.PaddedBigBytes(common.Big1, 32), nil
		}
		return math.PaddedBigBytes(common.Big0, 32), nil
	case Uint:
		word := val.V.Bytes32()
		return word[:], nil
	case Int:
		return math.U256Bytes(new(big.Int).Set(val.V)), nil
	case Address:
		return common.LeftPadBytes(val[:], 32), nil
	case Function:
		return common.RightPadBytes(val[:], 32), nil
	case FixedBytes:
		return common.RightPadBytes(val.Bytes(), 32), nil
	case String:
		return packBytesSlice([]byte(val), len(val)), nil
	case Bytes:
		return packBytesSlice(val, len(val)), nil
	default:
		return nil, fmt.Errorf("%w: cannot pack %T", ErrTypeMismatch, v)
	}
}

// packBytesSlice packs the given bytes as [L, V] as the canonical
// representation: the length, then the data right-padded to a 32 byte
// boundary.
func packBytesSlice(bytes []byte, l int) []byte {
	len := packNum(l)
	return append(len, common.RightPadBytes(bytes, (l+31)/32*32)...)
}

// packNum encodes a non-negative length or offset as a 32-byte big-endian
// word.
func packNum(value int) []byte {
	return math.U256Bytes(big.NewInt(int64(value)))
}

// validateValue re-checks the constructor invariants of a value tree, so that
// hand-built literals fail with an error instead of a panic inside TypeOf.
func validateValue(v Value) error {
	switch val := v.(type) {
	case Bool, String, Bytes, Address, Function:
		return nil
	case FixedBytes:
		if s := val.size(); s < 1 || s > 32 {
			return fmt.Errorf("%w: bytes%d", ErrInvalidSize, s)
		}
	case Int:
		if err := checkNumericSize(val.bits()); err != nil {
			return err
		}
		if val.V == nil {
			return fmt.Errorf("%w: nil integer for int%d", ErrTypeMismatch, val.bits())
		}
		return checkIntRange(val.bits(), val.V)
	case Uint:
		if err := checkNumericSize(val.bits()); err != nil {
			return err
		}
		if val.V == nil {
			return fmt.Errorf("%w: nil integer for uint%d", ErrTypeMismatch, val.bits())
		}
		if val.V.BitLen() > val.bits() {
			return fmt.Errorf("%w: %s overflows uint%d", ErrTypeMismatch, val.V, val.bits())
		}
	case Slice:
		if val.Elem.stringKind == "" && len(val.Vals) == 0 {
			return fmt.Errorf("%w: slice without element type", ErrTypeMismatch)
		}
		elem := val.elemType()
		for i, e := range val.Vals {
			if err := validateValue(e); err != nil {
				return err
			}
			if !typeEqual(e.TypeOf(), elem) {
				return fmt.Errorf("%w: element %d is %s, want %s", ErrTypeMismatch, i, e.TypeOf(), elem)
			}
		}
	case Array:
		if len(val.Vals) == 0 {
			return fmt.Errorf("%w: fixed array length 0", ErrInvalidSize)
		}
		for _, e := range val.Vals {
			if err := validateValue(e); err != nil {
				return err
			}
		}
		elem := val.Vals[0].TypeOf()
		for i, e := range val.Vals[1:] {
			if !typeEqual(e.TypeOf(), elem) {
				return fmt.Errorf("%w: element %d is %s, want %s", ErrTypeMismatch, i+1, e.TypeOf(), elem)
			}
		}
	case Tuple:
		for _, e := range val.Vals {
			if err := validateValue(e); err != nil {
				return err
			}
		}
	case Struct:
		if val.Name == "" {
			return fmt.Errorf("%w: struct requires a name", ErrTypeMismatch)
		}
		if len(val.FieldNames) != len(val.Vals) {
			return fmt.Errorf("%w: struct %s has %d field names for %d values",
				ErrTypeMismatch, val.Name, len(val.FieldNames), len(val.Vals))
		}
		for _, e := range val.Vals {
			if err := validateValue(e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown value %T", ErrTypeMismatch, v)
	}
	return nil
}
