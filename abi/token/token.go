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

// Package token turns Solidity type-signature text into a flat token stream.
// The abi package consumes the stream to assemble type trees; it never looks
// at raw signature text itself.
package token

import "fmt"

// Kind classifies a scanned token.
type Kind byte

const (
	EOF Kind = iota
	Ident
	Number
	LParen
	RParen
	LBrack
	RBrack
	Comma
	Illegal
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrack:
		return "'['"
	case RBrack:
		return "']'"
	case Comma:
		return "','"
	default:
		return "illegal token"
	}
}

// Token is a single lexical element with its byte position in the input.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s %q at offset %d", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s at offset %d", t.Kind, t.Pos)
}

// Scanner walks a signature string, producing one token per Next call.
// The zero Scanner is not usable; create one with NewScanner.
type Scanner struct {
	src string
	off int
}

// NewScanner returns a scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next token. Once EOF has been returned, every subsequent
// call returns EOF again.
func (s *Scanner) Next() Token {
	for s.off < len(s.src) && isSpace(s.src[s.off]) {
		s.off++
	}
	if s.off >= len(s.src) {
		return Token{Kind: EOF, Pos: s.off}
	}
	pos := s.off
	c := s.src[s.off]
	switch {
	case c == '(':
		s.off++
		return Token{Kind: LParen, Text: "(", Pos: pos}
	case c == ')':
		s.off++
		return Token{Kind: RParen, Text: ")", Pos: pos}
	case c == '[':
		s.off++
		return Token{Kind: LBrack, Text: "[", Pos: pos}
	case c == ']':
		s.off++
		return Token{Kind: RBrack, Text: "]", Pos: pos}
	case c == ',':
		s.off++
		return Token{Kind: Comma, Text: ",", Pos: pos}
	case isDigit(c):
		for s.off < len(s.src) && isDigit(s.src[s.off]) {
			s.off++
		}
		return Token{Kind: Number, Text: s.src[pos:s.off], Pos: pos}
	case isIdentStart(c):
		for s.off < len(s.src) && isIdentPart(s.src[s.off]) {
			s.off++
		}
		return Token{Kind: Ident, Text: s.src[pos:s.off], Pos: pos}
	default:
		s.off++
		return Token{Kind: Illegal, Text: s.src[pos:s.off], Pos: pos}
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
