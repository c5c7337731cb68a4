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

// Package abi implements the Ethereum contract ABI encoding for values whose
// types are only known at run time. Type descriptors are parsed from
// canonical signature strings ("uint256", "(bool,bytes)[4]"), values are
// represented by a closed set of variants rather than reflection over user
// structs, and the decoder validates every offset and length it follows
// before touching the payload.
package abi
