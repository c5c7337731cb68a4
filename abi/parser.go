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

	"github.com/dynabi/go-dynabi/abi/token"
)

// ParseType parses a Solidity type signature, e.g. "uint256",
// "(address,bytes)[2]" or "bool[][3]". Array suffixes apply left to right:
// "uint8[2][]" is a dynamic array of uint8[2]. "int" and "uint" are accepted
// as aliases for their 256-bit forms and canonicalized.
func ParseType(s string) (Type, error) {
	p := &parser{sc: token.NewScanner(s)}
	p.next()
	typ, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.tok.Kind != token.EOF {
		if p.tok.Kind == token.RParen {
			return Type{}, fmt.Errorf("%w: stray %s", ErrUnbalancedParens, p.tok)
		}
		return Type{}, fmt.Errorf("%w: trailing %s", ErrUnexpectedToken, p.tok)
	}
	return typ, nil
}

// NewType creates the descriptor for a JSON ABI type entry. Tuple entries
// carry their field layout in components; internalType, when present in the
// "struct Name" form, names the source-level struct (Solidity >= 0.5.10
// emits it).
func NewType(t string, internalType string, components []ArgumentMarshaling) (Type, error) {
	if strings.Count(t, "[") != strings.Count(t, "]") {
		return Type{}, fmt.Errorf("%w: in %q", ErrUnbalancedParens, t)
	}
	// Peel the outermost array suffix, if any, and recursively build the
	// element type from what remains.
	if i := strings.LastIndex(t, "["); i != -1 {
		subInternal := internalType
		if j := strings.LastIndex(internalType, "["); j != -1 {
			subInternal = subInternal[:j]
		}
		embedded, err := NewType(t[:i], subInternal, components)
		if err != nil {
			return Type{}, err
		}
		suffix := t[i:]
		if suffix == "[]" {
			return NewSliceType(embedded)
		}
		size, err := strconv.Atoi(suffix[1 : len(suffix)-1])
		if err != nil {
			return Type{}, fmt.Errorf("%w: array size in %q", ErrUnexpectedToken, t)
		}
		return NewArrayType(embedded, size)
	}
	if t == "tuple" {
		elems := make([]Type, len(components))
		names := make([]string, len(components))
		for i, c := range components {
			elem, err := NewType(c.Type, c.InternalType, c.Components)
			if err != nil {
				return Type{}, err
			}
			elems[i] = elem
			names[i] = c.Name
		}
		const structPrefix = "struct "
		if strings.HasPrefix(internalType, structPrefix) {
			// Foo.Bar type definitions collapse to FooBar.
			name := strings.ReplaceAll(internalType[len(structPrefix):], ".", "")
			return NewStructType(name, names, elems)
		}
		return newTuple("", names, elems)
	}
	return ParseType(t)
}

type parser struct {
	sc  *token.Scanner
	tok token.Token
}

func (p *parser) next() { p.tok = p.sc.Next() }

func (p *parser) parseType() (Type, error) {
	var (
		typ Type
		err error
	)
	switch p.tok.Kind {
	case token.LParen:
		typ, err = p.parseTuple()
	case token.Ident:
		typ, err = parseElementary(p.tok.Text)
		if err != nil {
			err = fmt.Errorf("%w at offset %d", err, p.tok.Pos)
		} else {
			p.next()
		}
	case token.RParen:
		return Type{}, fmt.Errorf("%w: stray %s", ErrUnbalancedParens, p.tok)
	default:
		return Type{}, fmt.Errorf("%w: %s", ErrUnexpectedToken, p.tok)
	}
	if err != nil {
		return Type{}, err
	}
	// Array suffixes, innermost first.
	for p.tok.Kind == token.LBrack {
		p.next()
		switch p.tok.Kind {
		case token.RBrack:
			typ, err = NewSliceType(typ)
		case token.Number:
			size, convErr := strconv.Atoi(p.tok.Text)
			if convErr != nil {
				return Type{}, fmt.Errorf("%w: array size %s", ErrUnexpectedToken, p.tok)
			}
			p.next()
			if p.tok.Kind != token.RBrack {
				return Type{}, fmt.Errorf("%w: expected ']', got %s", ErrUnexpectedToken, p.tok)
			}
			typ, err = NewArrayType(typ, size)
		default:
			return Type{}, fmt.Errorf("%w: expected ']' or array size, got %s", ErrUnexpectedToken, p.tok)
		}
		if err != nil {
			return Type{}, err
		}
		p.next()
	}
	return typ, nil
}

func (p *parser) parseTuple() (Type, error) {
	open := p.tok
	p.next()
	if p.tok.Kind == token.RParen {
		p.next()
		return NewTupleType()
	}
	var elems []Type
	for {
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		elems = append(elems, elem)
		switch p.tok.Kind {
		case token.Comma:
			p.next()
		case token.RParen:
			p.next()
			return NewTupleType(elems...)
		case token.EOF:
			return Type{}, fmt.Errorf("%w: missing ')' for %s", ErrUnbalancedParens, open)
		default:
			return Type{}, fmt.Errorf("%w: expected ',' or ')', got %s", ErrUnexpectedToken, p.tok)
		}
	}
}

// parseElementary resolves a base identifier like "uint256" or "bytes4".
func parseElementary(name string) (Type, error) {
	base, digits := splitNumericSuffix(name)
	toInt := func() (int, bool) {
		n, err := strconv.Atoi(digits)
		return n, err == nil
	}
	switch base {
	case "int":
		if digits == "" {
			return Int256Type, nil
		}
		if n, ok := toInt(); ok {
			return NewIntType(n)
		}
	case "uint":
		if digits == "" {
			return Uint256Type, nil
		}
		if n, ok := toInt(); ok {
			return NewUintType(n)
		}
	case "bytes":
		if digits == "" {
			return BytesType, nil
		}
		if n, ok := toInt(); ok {
			return NewFixedBytesType(n)
		}
	case "bool":
		if digits == "" {
			return BoolType, nil
		}
	case "address":
		if digits == "" {
			return AddressType, nil
		}
	case "string":
		if digits == "" {
			return StringType, nil
		}
	case "function":
		if digits == "" {
			return FunctionType, nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// splitNumericSuffix splits "uint256" into "uint" and "256". Identifiers with
// digits anywhere but a pure numeric tail keep their full text as base.
func splitNumericSuffix(name string) (base, digits string) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	return name[:i], name[i:]
}
