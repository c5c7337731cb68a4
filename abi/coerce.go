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
	"reflect"

	"github.com/dynabi/go-dynabi/common"
	"github.com/dynabi/go-dynabi/common/hexutil"
	"github.com/dynabi/go-dynabi/common/math"
	"github.com/holiman/uint256"
)

// Coerce checks v against a target descriptor and returns a value whose
// TypeOf is exactly t. Numeric widths must accommodate the value and signs
// must agree; fixed-size kinds require exact lengths; containers are coerced
// element-wise. Tuples convert to named structs (and back) when the shapes
// match. Use it whenever an externally-sourced value must be validated
// against a declared type before encoding or hashing.
func Coerce(v Value, t Type) (Value, error) {
	switch t.T {
	case BoolTy:
		if b, ok := v.(Bool); ok {
			return b, nil
		}
	case StringTy:
		if s, ok := v.(String); ok {
			return s, nil
		}
	case BytesTy:
		if b, ok := v.(Bytes); ok {
			return b, nil
		}
	case AddressTy:
		if a, ok := v.(Address); ok {
			return a, nil
		}
	case FunctionTy:
		if f, ok := v.(Function); ok {
			return f, nil
		}
	case FixedBytesTy:
		if fb, ok := v.(FixedBytes); ok && fb.size() == t.Size {
			return fb, nil
		}
	case IntTy:
		if iv, ok := v.(Int); ok {
			return NewInt(t.Size, iv.V)
		}
	case UintTy:
		if uv, ok := v.(Uint); ok {
			return NewUint(t.Size, uv.V)
		}
	case SliceTy:
		var vals []Value
		switch av := v.(type) {
		case Slice:
			vals = av.Vals
		case Array:
			vals = av.Vals
		default:
			return nil, typeErr(t, v.TypeOf())
		}
		coerced, err := coerceElems(vals, *t.Elem)
		if err != nil {
			return nil, err
		}
		return NewSlice(*t.Elem, coerced)
	case ArrayTy:
		var vals []Value
		switch av := v.(type) {
		case Slice:
			vals = av.Vals
		case Array:
			vals = av.Vals
		default:
			return nil, typeErr(t, v.TypeOf())
		}
		if len(vals) != t.Size {
			return nil, fmt.Errorf("%w: got %d elements for %s", ErrTypeMismatch, len(vals), t)
		}
		coerced, err := coerceElems(vals, *t.Elem)
		if err != nil {
			return nil, err
		}
		return NewArray(coerced)
	case TupleTy:
		var vals []Value
		switch tv := v.(type) {
		case Tuple:
			vals = tv.Vals
		case Struct:
			vals = tv.Vals
		default:
			return nil, typeErr(t, v.TypeOf())
		}
		if len(vals) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: got %d fields for %s", ErrTypeMismatch, len(vals), t)
		}
		coerced := make([]Value, len(vals))
		for i, elem := range t.TupleElems {
			cv, err := Coerce(vals[i], *elem)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			coerced[i] = cv
		}
		if t.TupleRawName != "" {
			return NewStruct(t.TupleRawName, t.TupleRawNames, coerced)
		}
		return Tuple{Vals: coerced}, nil
	}
	return nil, typeErr(t, v.TypeOf())
}

func coerceElems(vals []Value, elem Type) ([]Value, error) {
	coerced := make([]Value, len(vals))
	for i, v := range vals {
		cv, err := Coerce(v, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		coerced[i] = cv
	}
	return coerced, nil
}

// ValueOf builds a Value of type t from untyped Go data, typically the
// product of decoding JSON: maps for tuples, slices for arrays, strings for
// hex quantities and addresses, float64 or string for numbers.
func ValueOf(t Type, data interface{}) (Value, error) {
	switch t.T {
	case BoolTy:
		if b, ok := data.(bool); ok {
			return Bool(b), nil
		}
	case StringTy:
		if s, ok := data.(string); ok {
			return String(s), nil
		}
	case BytesTy:
		if b, ok := parseBytes(data); ok {
			return Bytes(b), nil
		}
	case FixedBytesTy:
		if b, ok := parseBytes(data); ok && len(b) == t.Size {
			return NewFixedBytes(b)
		}
	case AddressTy:
		switch val := data.(type) {
		case string:
			if common.IsHexAddress(val) {
				return Address(common.HexToAddress(val)), nil
			}
		case []byte:
			if len(val) == common.AddressLength {
				return Address(common.BytesToAddress(val)), nil
			}
		case [common.AddressLength]byte:
			return Address(val), nil
		case common.Address:
			return Address(val), nil
		case Address:
			return val, nil
		}
	case FunctionTy:
		if b, ok := parseBytes(data); ok && len(b) == 24 {
			var fn Function
			copy(fn[:], b)
			return fn, nil
		}
	case IntTy:
		b, err := parseInteger(t, data)
		if err != nil {
			return nil, err
		}
		return NewInt(t.Size, b)
	case UintTy:
		b, err := parseInteger(t, data)
		if err != nil {
			return nil, err
		}
		u, overflow := uint256.FromBig(b)
		if overflow {
			return nil, fmt.Errorf("%w: %s overflows uint%d", ErrTypeMismatch, b, t.Size)
		}
		return NewUint(t.Size, u)
	case SliceTy:
		items, err := convertDataToSlice(data)
		if err != nil {
			return nil, err
		}
		vals := make([]Value, len(items))
		for i, item := range items {
			v, err := ValueOf(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = v
		}
		return NewSlice(*t.Elem, vals)
	case ArrayTy:
		items, err := convertDataToSlice(data)
		if err != nil {
			return nil, err
		}
		if len(items) != t.Size {
			return nil, fmt.Errorf("%w: got %d elements for %s", ErrTypeMismatch, len(items), t)
		}
		vals := make([]Value, len(items))
		for i, item := range items {
			v, err := ValueOf(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = v
		}
		return NewArray(vals)
	case TupleTy:
		switch val := data.(type) {
		case map[string]interface{}:
			if len(t.TupleRawNames) != len(t.TupleElems) {
				return nil, fmt.Errorf("%w: tuple %s has no field names for map data", ErrTypeMismatch, t)
			}
			if len(val) > len(t.TupleElems) {
				return nil, fmt.Errorf("%w: extra fields provided (%d > %d)",
					ErrTypeMismatch, len(val), len(t.TupleElems))
			}
			vals := make([]Value, len(t.TupleElems))
			for i, elem := range t.TupleElems {
				name := t.TupleRawNames[i]
				field, present := val[name]
				if !present {
					return nil, fmt.Errorf("%w: missing field %q", ErrTypeMismatch, name)
				}
				v, err := ValueOf(*elem, field)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", name, err)
				}
				vals[i] = v
			}
			if t.TupleRawName != "" {
				return NewStruct(t.TupleRawName, t.TupleRawNames, vals)
			}
			return Tuple{Vals: vals}, nil
		case []interface{}:
			if len(val) != len(t.TupleElems) {
				return nil, fmt.Errorf("%w: got %d fields for %s", ErrTypeMismatch, len(val), t)
			}
			vals := make([]Value, len(t.TupleElems))
			for i, elem := range t.TupleElems {
				v, err := ValueOf(*elem, val[i])
				if err != nil {
					return nil, fmt.Errorf("field %d: %w", i, err)
				}
				vals[i] = v
			}
			if t.TupleRawName != "" {
				return NewStruct(t.TupleRawName, t.TupleRawNames, vals)
			}
			return Tuple{Vals: vals}, nil
		}
	}
	return nil, dataMismatchError(t, data)
}

// parseBytes attempts to parse bytes in different formats: byte slice, fixed
// byte array, hex string, hexutil.Bytes.
func parseBytes(encValue interface{}) ([]byte, bool) {
	// Handle fixed-size array types through reflection.
	val := reflect.ValueOf(encValue)
	if val.Kind() == reflect.Array && val.Type().Elem().Kind() == reflect.Uint8 {
		v := reflect.MakeSlice(reflect.TypeOf([]byte{}), val.Len(), val.Len())
		reflect.Copy(v, val)
		return v.Bytes(), true
	}

	switch v := encValue.(type) {
	case []byte:
		return v, true
	case hexutil.Bytes:
		return v, true
	case string:
		bytes, err := hexutil.Decode(v)
		if err != nil {
			return nil, false
		}
		return bytes, true
	default:
		return nil, false
	}
}

// parseInteger converts the JSON-ish representations of a number into a
// big.Int, enforcing the declared width and sign.
func parseInteger(t Type, encValue interface{}) (*big.Int, error) {
	var b *big.Int
	switch v := encValue.(type) {
	case *math.HexOrDecimal256:
		b = (*big.Int)(v)
	case *big.Int:
		b = v
	case *uint256.Int:
		b = v.ToBig()
	case string:
		var hexIntValue math.HexOrDecimal256
		if err := hexIntValue.UnmarshalText([]byte(v)); err != nil {
			return nil, err
		}
		b = (*big.Int)(&hexIntValue)
	case float64:
		// JSON parses non-strings as float64. Fail if we cannot convert it
		// losslessly.
		if float64(int64(v)) == v {
			b = big.NewInt(int64(v))
		} else {
			return nil, fmt.Errorf("%w: invalid float value %v for type %s", ErrTypeMismatch, v, t)
		}
	case int:
		b = big.NewInt(int64(v))
	case int64:
		b = big.NewInt(v)
	case uint64:
		b = new(big.Int).SetUint64(v)
	}
	if b == nil {
		return nil, dataMismatchError(t, encValue)
	}
	if b.BitLen() > t.Size {
		return nil, fmt.Errorf("%w: integer larger than %s", ErrTypeMismatch, t)
	}
	if t.T == UintTy && b.Sign() == -1 {
		return nil, fmt.Errorf("%w: negative value for unsigned type %s", ErrTypeMismatch, t)
	}
	return b, nil
}

func convertDataToSlice(encValue interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(encValue)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: provided data %v is not a slice", ErrTypeMismatch, encValue)
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// dataMismatchError generates an error for a mismatch between the provided
// type and data.
func dataMismatchError(t Type, encValue interface{}) error {
	return fmt.Errorf("%w: provided data %v (%T) doesn't match type %s",
		ErrTypeMismatch, encValue, encValue, t)
}
