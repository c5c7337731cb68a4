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
	"errors"
	"fmt"
)

// Parse errors. ParseType and NewType wrap these with the offending token and
// its byte offset; test with errors.Is.
var (
	// ErrUnknownType is returned when a base type identifier is not part of
	// the Solidity type grammar.
	ErrUnknownType = errors.New("abi: unknown type")

	// ErrInvalidSize is returned when a numeric width or bytesN length lies
	// outside its valid range (intN/uintN: 8..256 step 8, bytesN: 1..32,
	// fixed arrays: length > 0).
	ErrInvalidSize = errors.New("abi: invalid type size")

	// ErrUnbalancedParens is returned when tuple parentheses do not match up.
	ErrUnbalancedParens = errors.New("abi: unbalanced parentheses")

	// ErrUnexpectedToken is returned for any other grammar violation.
	ErrUnexpectedToken = errors.New("abi: unexpected token")

	// ErrNestingTooDeep is returned when a composite type nests deeper than
	// maxNestingDepth levels.
	ErrNestingTooDeep = errors.New("abi: nesting too deep")
)

// ErrTypeMismatch is returned when a value cannot be coerced to, packed as or
// constructed for a given type.
var ErrTypeMismatch = errors.New("abi: type mismatch")

// Decode errors.
var (
	// ErrBufferTooShort is returned when the buffer ends before the word a
	// type requires.
	ErrBufferTooShort = errors.New("abi: buffer too short")

	// ErrMisaligned is returned when the total input length is not a
	// multiple of 32.
	ErrMisaligned = errors.New("abi: input not aligned to 32 bytes")

	// ErrOffsetOutOfBounds is returned when a head offset points outside the
	// enclosing buffer or leaves too few bytes for the declared payload.
	ErrOffsetOutOfBounds = errors.New("abi: offset out of bounds")

	// ErrInvalidLength is returned when a declared dynamic element count
	// cannot possibly fit in the remaining buffer.
	ErrInvalidLength = errors.New("abi: invalid element count")

	// ErrBadBool is returned when a boolean word carries anything other than
	// 0 or 1 in its low byte, or non-zero padding. Decoding is strict; there
	// is no lenient mode.
	ErrBadBool = errors.New("abi: improperly encoded boolean value")

	// ErrBadUint is returned when an unsigned integer word does not fit its
	// declared width.
	ErrBadUint = errors.New("abi: improperly encoded unsigned integer value")

	// ErrBadInt is returned when a signed integer word does not fit its
	// declared width.
	ErrBadInt = errors.New("abi: improperly encoded signed integer value")

	// ErrBadFunction is returned when a function word has non-zero bytes
	// after the 24-byte payload.
	ErrBadFunction = errors.New("abi: improperly encoded function value")
)

// typeErr returns a formatted type mismatch error that matches
// ErrTypeMismatch under errors.Is.
func typeErr(expected, got interface{}) error {
	return fmt.Errorf("%w: cannot use %v as type %v", ErrTypeMismatch, got, expected)
}
