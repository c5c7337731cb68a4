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
	"github.com/holiman/uint256"
)

// Unpack decodes ABI data into the value described by t. It is a pure
// function of its inputs: every offset is validated against the enclosing
// buffer before it is followed, and decoding never reads outside data.
func Unpack(data []byte, t Type) (Value, error) {
	if len(data)%32 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrMisaligned, len(data))
	}
	return unpackInPlace(t, data)
}

// unpackInPlace decodes enc(t) starting at the beginning of output. Offset
// words appear only inside containers, so the outermost encoding of a
// dynamic type begins directly with its length prefix or head section.
func unpackInPlace(t Type, output []byte) (Value, error) {
	switch t.T {
	case StringTy, BytesTy, SliceTy:
		if len(output) < 32 {
			return nil, fmt.Errorf("%w: have %d bytes, need 32", ErrBufferTooShort, len(output))
		}
		lengthBig := new(big.Int).SetBytes(output[:32])
		if lengthBig.BitLen() > 63 {
			return nil, fmt.Errorf("%w: length larger than int64: %v", ErrInvalidLength, lengthBig)
		}
		length := int(lengthBig.Uint64())
		if t.T == SliceTy {
			return forEachUnpack(t, output[32:], 0, length)
		}
		if length > len(output)-32 {
			return nil, fmt.Errorf("%w: declared length %d exceeds buffer %d",
				ErrInvalidLength, length, len(output))
		}
		if t.T == StringTy {
			return String(output[32 : 32+length]), nil
		}
		return Bytes(common.CopyBytes(output[32 : 32+length])), nil
	case TupleTy:
		return forTupleUnpack(t, output)
	case ArrayTy:
		return forEachUnpack(t, output, 0, t.Size)
	default:
		return toValue(0, t, output)
	}
}

// UnpackValues decodes a top-level value list, the counterpart of PackValues.
func UnpackValues(data []byte, types []Type) ([]Value, error) {
	if len(data)%32 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrMisaligned, len(data))
	}
	retval := make([]Value, 0, len(types))
	virtualArgs := 0
	for index, t := range types {
		marshalledValue, err := toValue((index+virtualArgs)*32, t, data)
		if err != nil {
			return nil, err
		}
		if (t.T == ArrayTy || t.T == TupleTy) && !t.IsDynamic() {
			// Static arrays and tuples are encoded in place, occupying
			// several head words. Account for the extra words when indexing
			// the following arguments.
			virtualArgs += typeSize(t)/32 - 1
		}
		retval = append(retval, marshalledValue)
	}
	return retval, nil
}

// toValue decodes the value of type t whose head word sits at index. Offsets
// read from the buffer are relative to the enclosing tuple or array, which is
// why recursive calls pass sub-slices rather than absolute positions.
func toValue(index int, t Type, output []byte) (Value, error) {
	if index+32 > len(output) {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooShort, len(output), index+32)
	}

	var (
		returnOutput  []byte
		begin, length int
		err           error
	)

	// if we require a length prefix, find the beginning word and size
	// returned.
	if t.requiresLengthPrefix() {
		begin, length, err = lengthPrefixPointsTo(index, output)
		if err != nil {
			return nil, err
		}
	} else {
		returnOutput = output[index : index+32]
	}

	switch t.T {
	case TupleTy:
		if t.IsDynamic() {
			begin, err := tuplePointsTo(index, output)
			if err != nil {
				return nil, err
			}
			return forTupleUnpack(t, output[begin:])
		}
		return forTupleUnpack(t, output[index:])
	case SliceTy:
		return forEachUnpack(t, output[begin:], 0, length)
	case ArrayTy:
		if t.Elem.IsDynamic() {
			begin, err := tuplePointsTo(index, output)
			if err != nil {
				return nil, err
			}
			return forEachUnpack(t, output[begin:], 0, t.Size)
		}
		return forEachUnpack(t, output[index:], 0, t.Size)
	case StringTy: // variable arrays are written at the end of the return bytes
		return String(output[begin : begin+length]), nil
	case IntTy, UintTy:
		return readInteger(t, returnOutput)
	case BoolTy:
		return readBool(returnOutput)
	case AddressTy:
		return Address(common.BytesToAddress(returnOutput)), nil
	case BytesTy:
		return Bytes(common.CopyBytes(output[begin : begin+length])), nil
	case FixedBytesTy:
		return readFixedBytes(t, returnOutput)
	case FunctionTy:
		return readFunction(returnOutput)
	default:
		return nil, fmt.Errorf("abi: unknown type %v", t.T)
	}
}

// forEachUnpack iteratively unpacks elements.
func forEachUnpack(t Type, output []byte, start, size int) (Value, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrInvalidLength, size)
	}
	// Arrays have packed elements, resulting in longer unpack steps.
	// Slices have just 32 bytes per element (pointing to the contents).
	elemSize := typeSize(*t.Elem)
	if elemSize == 0 {
		// Zero-field tuples occupy no head words; an array of them has no
		// decodable representation.
		return nil, fmt.Errorf("%w: zero-size element type %s", ErrInvalidLength, t.Elem)
	}
	if start > len(output) || size > (len(output)-start)/elemSize {
		// The declared count cannot possibly fit in the remaining buffer:
		// reject before allocating anything proportional to it.
		return nil, fmt.Errorf("%w: %d elements of %s exceed %d remaining bytes",
			ErrInvalidLength, size, t.Elem, len(output)-start)
	}

	vals := make([]Value, 0, size)
	for i, j := start, 0; j < size; i, j = i+elemSize, j+1 {
		inter, err := toValue(i, *t.Elem, output)
		if err != nil {
			return nil, err
		}
		vals = append(vals, inter)
	}

	if t.T == SliceTy {
		return Slice{Elem: *t.Elem, Vals: vals}, nil
	}
	return Array{Vals: vals}, nil
}

// forTupleUnpack decodes a tuple whose encoding starts at the beginning of
// output. Named tuples come back as Struct values so that type derivation
// round-trips exactly.
func forTupleUnpack(t Type, output []byte) (Value, error) {
	vals := make([]Value, 0, len(t.TupleElems))
	virtualArgs := 0
	for index, elem := range t.TupleElems {
		marshalledValue, err := toValue((index+virtualArgs)*32, *elem, output)
		if err != nil {
			return nil, err
		}
		if (elem.T == ArrayTy || elem.T == TupleTy) && !elem.IsDynamic() {
			// Static composites are encoded inline, e.g. [3]uint256 takes
			// three head words. Skip the extra words for the next field.
			virtualArgs += typeSize(*elem)/32 - 1
		}
		vals = append(vals, marshalledValue)
	}
	if t.TupleRawName != "" {
		return NewStruct(t.TupleRawName, t.TupleRawNames, vals)
	}
	return Tuple{Vals: vals}, nil
}

// readInteger decodes a 32-byte word as intN or uintN, rejecting words that
// do not fit the declared width.
func readInteger(t Type, b []byte) (Value, error) {
	if t.T == UintTy {
		u := new(uint256.Int).SetBytes(b)
		if t.Size < 256 && u.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: word exceeds uint%d", ErrBadUint, t.Size)
		}
		return Uint{Bits: t.Size, V: u}, nil
	}

	// big.SetBytes can't tell if a number is negative or positive in itself.
	// On EVM, a word with bit 255 set encodes a negative number in two's
	// complement.
	ret := math.S256(new(big.Int).SetBytes(b))
	if t.Size < 256 {
		if err := checkIntRange(t.Size, ret); err != nil {
			return nil, fmt.Errorf("%w: word exceeds int%d", ErrBadInt, t.Size)
		}
	}
	return Int{Bits: t.Size, V: ret}, nil
}

// readBool reads a bool. Decoding is strict: the low byte must be 0 or 1 and
// the padding all zero, anything else is rejected.
func readBool(word []byte) (Value, error) {
	for _, b := range word[:31] {
		if b != 0 {
			return nil, ErrBadBool
		}
	}
	switch word[31] {
	case 0:
		return Bool(false), nil
	case 1:
		return Bool(true), nil
	default:
		return nil, ErrBadBool
	}
}

// readFixedBytes reads the declared-length prefix of the word. Padding bytes
// beyond the declared length are dropped so that re-encoding is canonical.
func readFixedBytes(t Type, word []byte) (Value, error) {
	v := FixedBytes{Size: t.Size}
	copy(v.Word[:], word[:t.Size])
	return v, nil
}

// A function type is simply the address with the function selection signature
// at the end. readFunction enforces that standard by requiring the 8 trailing
// bytes to be zero.
func readFunction(word []byte) (Value, error) {
	var fn Function
	for _, b := range word[24:32] {
		if b != 0 {
			return nil, fmt.Errorf("%w: non-zero padding %x", ErrBadFunction, word[24:32])
		}
	}
	copy(fn[:], word[:24])
	return fn, nil
}

// lengthPrefixPointsTo interprets a 32 byte slice as an offset and then
// determines which indices to look to decode the type.
func lengthPrefixPointsTo(index int, output []byte) (start int, length int, err error) {
	bigOffsetEnd := new(big.Int).SetBytes(output[index : index+32])
	bigOffsetEnd.Add(bigOffsetEnd, common.Big32)
	outputLength := big.NewInt(int64(len(output)))

	if bigOffsetEnd.BitLen() > 63 || bigOffsetEnd.Cmp(outputLength) > 0 {
		return 0, 0, fmt.Errorf("%w: offset %v would go over slice boundary (len=%v)",
			ErrOffsetOutOfBounds, new(big.Int).Sub(bigOffsetEnd, common.Big32), outputLength)
	}

	offsetEnd := int(bigOffsetEnd.Uint64())
	lengthBig := new(big.Int).SetBytes(output[offsetEnd-32 : offsetEnd])

	totalSize := new(big.Int).Add(bigOffsetEnd, lengthBig)
	if totalSize.BitLen() > 63 {
		return 0, 0, fmt.Errorf("%w: length larger than int64: %v", ErrInvalidLength, totalSize)
	}
	if totalSize.Cmp(outputLength) > 0 {
		return 0, 0, fmt.Errorf("%w: declared length %v exceeds buffer %v",
			ErrOffsetOutOfBounds, totalSize, outputLength)
	}
	start = offsetEnd
	length = int(lengthBig.Uint64())
	return
}

// tuplePointsTo resolves the location reference for a dynamic tuple or a
// fixed array of dynamic elements.
func tuplePointsTo(index int, output []byte) (start int, err error) {
	offset := new(big.Int).SetBytes(output[index : index+32])
	outputLen := big.NewInt(int64(len(output)))

	if offset.BitLen() > 63 || offset.Cmp(outputLen) > 0 {
		return 0, fmt.Errorf("%w: offset %v would go over slice boundary (len=%v)",
			ErrOffsetOutOfBounds, offset, outputLen)
	}
	return int(offset.Uint64()), nil
}
