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

// Package eip712 implements hashing of structured data as specified by
// EIP-712. Messages arrive as untyped JSON-shaped data together with a type
// dictionary; the package derives the canonical type encoding, hashes each
// struct instance and binds the result to a signing domain.
package eip712

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dynabi/go-dynabi/abi"
	"github.com/dynabi/go-dynabi/common/hexutil"
	"github.com/dynabi/go-dynabi/common/math"
	"github.com/dynabi/go-dynabi/crypto"
)

var typedDataReferenceTypeRegexp = regexp.MustCompile(`^[A-Za-z](\w*)(\[\d*\])*$`)

var (
	ErrUnresolvedType      = errors.New("eip712: reference to undefined type")
	ErrCyclicTypeReference = errors.New("eip712: cyclic type reference")
	ErrNestingTooDeep      = errors.New("eip712: nesting too deep")
)

// maxEncodeDepth bounds struct and array nesting while encoding message
// data. The type dictionary itself is acyclic once Dependencies has
// accepted it, so only adversarially deep (not cyclic) input can get here.
const maxEncodeDepth = 32

// TypedData is a type to encapsulate EIP-712 typed messages.
type TypedData struct {
	Types       Types            `json:"types"`
	PrimaryType string           `json:"primaryType"`
	Domain      TypedDataDomain  `json:"domain"`
	Message     TypedDataMessage `json:"message"`
}

// Type is the inner type of an EIP-712 message.
type Type struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// isArray returns true if the type is a fixed or variable sized array.
// This method may return false positives, in case the Type is not a valid
// expression, e.g. "fooo[[[[".
func (t *Type) isArray() bool {
	return strings.IndexByte(t.Type, '[') > 0
}

// typeName returns the canonical name of the type. If the type is 'Person[]'
// or 'Person[2]', then this method returns 'Person'.
func (t *Type) typeName() string {
	return strings.Split(t.Type, "[")[0]
}

type Types map[string][]Type

type TypedDataMessage = map[string]interface{}

// TypedDataDomain represents the domain part of an EIP-712 message.
type TypedDataDomain struct {
	Name              string                `json:"name"`
	Version           string                `json:"version"`
	ChainId           *math.HexOrDecimal256 `json:"chainId"`
	VerifyingContract string                `json:"verifyingContract"`
	Salt              string                `json:"salt"`
}

// TypedDataAndHash is a helper function that calculates a hash for typed data
// conforming to EIP-712. This hash can then be safely used to calculate a
// signature.
//
// See https://eips.ethereum.org/EIPS/eip-712 for the full specification.
//
// This gives context to the signed typed data and prevents signing of
// transactions.
func TypedDataAndHash(typedData TypedData) ([]byte, string, error) {
	domainSeparator, err := typedData.HashDomain()
	if err != nil {
		return nil, "", err
	}
	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, "", err
	}
	rawData := fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash))
	return crypto.Keccak256([]byte(rawData)), rawData, nil
}

// HashDomain hashes the domain part of the typed data. When the type
// dictionary does not declare EIP712Domain explicitly, a member list is
// derived from the fields present on the domain, in the order fixed by the
// standard.
func (typedData *TypedData) HashDomain() (hexutil.Bytes, error) {
	td := *typedData
	if td.Types["EIP712Domain"] == nil {
		types := make(Types, len(td.Types)+1)
		for name, fields := range td.Types {
			types[name] = fields
		}
		types["EIP712Domain"] = td.Domain.typeFields()
		td.Types = types
	}
	return td.HashStruct("EIP712Domain", td.Domain.Map())
}

// HashStruct generates a keccak256 hash of the encoding of the provided data.
func (typedData *TypedData) HashStruct(primaryType string, data TypedDataMessage) (hexutil.Bytes, error) {
	encodedData, err := typedData.EncodeData(primaryType, data, 1)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(encodedData), nil
}

// Dependencies returns the custom types reachable from primaryType, the
// primary type first and the rest in discovery order. Walking a type whose
// definition is missing yields ErrUnresolvedType; a reference chain that
// loops back on itself yields ErrCyclicTypeReference.
func (typedData *TypedData) Dependencies(primaryType string) ([]string, error) {
	state := make(map[string]int)
	var found []string
	if err := typedData.collectDependencies(strings.Split(primaryType, "[")[0], state, &found); err != nil {
		return nil, err
	}
	return found, nil
}

const (
	depActive = 1
	depDone   = 2
)

func (typedData *TypedData) collectDependencies(name string, state map[string]int, found *[]string) error {
	switch state[name] {
	case depDone:
		return nil
	case depActive:
		return fmt.Errorf("%w: %s", ErrCyclicTypeReference, name)
	}
	fields, ok := typedData.Types[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnresolvedType, name)
	}
	state[name] = depActive
	*found = append(*found, name)
	for _, field := range fields {
		base := field.typeName()
		if typedData.Types[base] != nil {
			if err := typedData.collectDependencies(base, state, found); err != nil {
				return err
			}
		} else if !isPrimitiveTypeValid(field.Type) {
			return fmt.Errorf("%w: %s", ErrUnresolvedType, field.Type)
		}
	}
	state[name] = depDone
	return nil
}

// EncodeType generates the following encoding:
// `name ‖ "(" ‖ member₁ ‖ "," ‖ member₂ ‖ "," ‖ … ‖ memberₙ ")"`
//
// each member is written as `type ‖ " " ‖ name`; encodings cascade down and
// are sorted by name.
func (typedData *TypedData) EncodeType(primaryType string) (hexutil.Bytes, error) {
	// Get dependencies primary first, then alphabetical
	deps, err := typedData.Dependencies(primaryType)
	if err != nil {
		return nil, err
	}
	slicedDeps := deps[1:]
	sort.Strings(slicedDeps)
	deps = append([]string{deps[0]}, slicedDeps...)

	// Format as a string with fields
	var buffer bytes.Buffer
	for _, dep := range deps {
		buffer.WriteString(dep)
		buffer.WriteString("(")
		for i, obj := range typedData.Types[dep] {
			if i > 0 {
				buffer.WriteString(",")
			}
			buffer.WriteString(obj.Type)
			buffer.WriteString(" ")
			buffer.WriteString(obj.Name)
		}
		buffer.WriteString(")")
	}
	return buffer.Bytes(), nil
}

// TypeHash creates the keccak256 hash of the canonical type encoding.
func (typedData *TypedData) TypeHash(primaryType string) (hexutil.Bytes, error) {
	enc, err := typedData.EncodeType(primaryType)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(enc), nil
}

// EncodeData generates the following encoding:
// `enc(value₁) ‖ enc(value₂) ‖ … ‖ enc(valueₙ)`
//
// each encoded member is 32-byte long.
func (typedData *TypedData) EncodeData(primaryType string, data map[string]interface{}, depth int) (hexutil.Bytes, error) {
	if depth > maxEncodeDepth {
		return nil, fmt.Errorf("%w: %s", ErrNestingTooDeep, primaryType)
	}
	if err := typedData.validate(); err != nil {
		return nil, err
	}

	buffer := bytes.Buffer{}

	// Verify extra data
	if exp, got := len(typedData.Types[primaryType]), len(data); exp < got {
		return nil, fmt.Errorf("there is extra data provided in the message (%d < %d)", exp, got)
	}

	// Add typehash
	typeHash, err := typedData.TypeHash(primaryType)
	if err != nil {
		return nil, err
	}
	buffer.Write(typeHash)

	// Add field contents. Structs and arrays have special handlers.
	for _, field := range typedData.Types[primaryType] {
		encType := field.Type
		encValue, present := data[field.Name]
		if !present {
			return nil, fmt.Errorf("missing value for field %q of type %s", field.Name, encType)
		}
		if field.isArray() {
			encodedData, err := typedData.encodeArrayValue(encValue, encType, depth)
			if err != nil {
				return nil, err
			}
			buffer.Write(encodedData)
		} else if typedData.Types[encType] != nil {
			mapValue, ok := encValue.(map[string]interface{})
			if !ok {
				return nil, dataMismatchError(encType, encValue)
			}
			encodedData, err := typedData.EncodeData(encType, mapValue, depth+1)
			if err != nil {
				return nil, err
			}
			buffer.Write(crypto.Keccak256(encodedData))
		} else {
			byteValue, err := typedData.EncodePrimitiveValue(encType, encValue, depth)
			if err != nil {
				return nil, err
			}
			buffer.Write(byteValue)
		}
	}
	return buffer.Bytes(), nil
}

// encodeArrayValue hashes an array member: each element contributes one
// 32-byte word and the concatenation is hashed. Only the outermost array
// suffix is peeled per call, so nested arrays recurse through here.
func (typedData *TypedData) encodeArrayValue(encValue interface{}, encType string, depth int) (hexutil.Bytes, error) {
	if depth > maxEncodeDepth {
		return nil, fmt.Errorf("%w: %s", ErrNestingTooDeep, encType)
	}
	arrayValue, err := convertDataToSlice(encValue)
	if err != nil {
		return nil, dataMismatchError(encType, encValue)
	}

	open := strings.LastIndexByte(encType, '[')
	inner := encType[:open]
	if sizeStr := encType[open+1 : len(encType)-1]; sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid array size in type %s", encType)
		}
		if len(arrayValue) != size {
			return nil, fmt.Errorf("array length mismatch for %s: have %d, want %d", encType, len(arrayValue), size)
		}
	}

	arrayBuffer := new(bytes.Buffer)
	for _, item := range arrayValue {
		switch {
		case strings.IndexByte(inner, '[') > 0:
			encodedData, err := typedData.encodeArrayValue(item, inner, depth+1)
			if err != nil {
				return nil, err
			}
			arrayBuffer.Write(encodedData)
		case typedData.Types[inner] != nil:
			mapValue, ok := item.(map[string]interface{})
			if !ok {
				return nil, dataMismatchError(inner, item)
			}
			encodedData, err := typedData.EncodeData(inner, mapValue, depth+1)
			if err != nil {
				return nil, err
			}
			arrayBuffer.Write(crypto.Keccak256(encodedData))
		default:
			bytesValue, err := typedData.EncodePrimitiveValue(inner, item, depth)
			if err != nil {
				return nil, err
			}
			arrayBuffer.Write(bytesValue)
		}
	}
	return crypto.Keccak256(arrayBuffer.Bytes()), nil
}

// EncodePrimitiveValue deals with the primitive values found while searching
// through the typed data. Dynamic kinds contribute the hash of their
// contents; every static kind packs to exactly one word.
func (typedData *TypedData) EncodePrimitiveValue(encType string, encValue interface{}, depth int) ([]byte, error) {
	switch encType {
	case "string":
		strVal, ok := encValue.(string)
		if !ok {
			return nil, dataMismatchError(encType, encValue)
		}
		return crypto.Keccak256([]byte(strVal)), nil
	case "bytes":
		v, err := abi.ValueOf(abi.BytesType, encValue)
		if err != nil {
			return nil, dataMismatchError(encType, encValue)
		}
		return crypto.Keccak256(v.(abi.Bytes)), nil
	}
	t, err := abi.ParseType(encType)
	if err != nil {
		return nil, fmt.Errorf("unrecognized type '%s'", encType)
	}
	switch t.T {
	case abi.AddressTy, abi.BoolTy, abi.FixedBytesTy, abi.IntTy, abi.UintTy:
	default:
		return nil, fmt.Errorf("unrecognized type '%s'", encType)
	}
	v, err := abi.ValueOf(t, encValue)
	if err != nil {
		return nil, err
	}
	return abi.Pack(v)
}

// dataMismatchError generates an error for a mismatch between the provided
// type and data.
func dataMismatchError(encType string, encValue interface{}) error {
	return fmt.Errorf("provided data '%v' doesn't match type '%s'", encValue, encType)
}

func convertDataToSlice(encValue interface{}) ([]interface{}, error) {
	var outEncValue []interface{}
	rv := reflect.ValueOf(encValue)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			outEncValue = append(outEncValue, rv.Index(i).Interface())
		}
	} else {
		return outEncValue, fmt.Errorf("provided data '%v' is not slice", encValue)
	}
	return outEncValue, nil
}

// validate makes sure the types are sound.
func (typedData *TypedData) validate() error {
	if err := typedData.Types.validate(); err != nil {
		return err
	}
	if err := typedData.Domain.validate(); err != nil {
		return err
	}
	return nil
}

// Map generates a map version of the typed data.
func (typedData *TypedData) Map() map[string]interface{} {
	dataMap := map[string]interface{}{
		"types":       typedData.Types,
		"domain":      typedData.Domain.Map(),
		"primaryType": typedData.PrimaryType,
		"message":     typedData.Message,
	}
	return dataMap
}

// validate checks if the types object is conformant to the specs.
func (t Types) validate() error {
	for typeKey, typeArr := range t {
		if len(typeKey) == 0 {
			return errors.New("empty type key")
		}
		for i, typeObj := range typeArr {
			if len(typeObj.Type) == 0 {
				return fmt.Errorf("type %q:%d: empty Type", typeKey, i)
			}
			if len(typeObj.Name) == 0 {
				return fmt.Errorf("type %q:%d: empty Name", typeKey, i)
			}
			if typeKey == typeObj.Type {
				return fmt.Errorf("%w: type %q references itself", ErrCyclicTypeReference, typeObj.Type)
			}
			if isPrimitiveTypeValid(typeObj.Type) {
				continue
			}
			// Must be reference type
			if _, exist := t[typeObj.typeName()]; !exist {
				return fmt.Errorf("%w: %s", ErrUnresolvedType, typeObj.Type)
			}
			if !typedDataReferenceTypeRegexp.MatchString(typeObj.Type) {
				return fmt.Errorf("unknown reference type %q", typeObj.Type)
			}
		}
	}
	return nil
}

var validPrimitiveTypes = map[string]struct{}{}

// build the set of valid primitive types
func init() {
	// Types those are trivially valid
	for _, t := range []string{
		"address", "address[]", "bool", "bool[]", "string", "string[]",
		"bytes", "bytes[]", "int", "int[]", "uint", "uint[]",
	} {
		validPrimitiveTypes[t] = struct{}{}
	}
	// For 'bytesN', 'bytesN[]', we allow N from 1 to 32
	for n := 1; n <= 32; n++ {
		validPrimitiveTypes[fmt.Sprintf("bytes%d", n)] = struct{}{}
		validPrimitiveTypes[fmt.Sprintf("bytes%d[]", n)] = struct{}{}
	}
	// For 'intN','intN[]' and 'uintN','uintN[]' we allow N in increments of 8, from 8 up to 256
	for n := 8; n <= 256; n += 8 {
		validPrimitiveTypes[fmt.Sprintf("int%d", n)] = struct{}{}
		validPrimitiveTypes[fmt.Sprintf("int%d[]", n)] = struct{}{}
		validPrimitiveTypes[fmt.Sprintf("uint%d", n)] = struct{}{}
		validPrimitiveTypes[fmt.Sprintf("uint%d[]", n)] = struct{}{}
	}
}

// Checks if the primitive value is valid
func isPrimitiveTypeValid(primitiveType string) bool {
	input := strings.Split(primitiveType, "[")[0]
	_, ok := validPrimitiveTypes[input]
	return ok
}

// validate checks if the given domain is valid, i.e. contains at least the
// minimum viable keys and values.
func (domain *TypedDataDomain) validate() error {
	if domain.ChainId == nil && len(domain.Name) == 0 && len(domain.Version) == 0 && len(domain.VerifyingContract) == 0 && len(domain.Salt) == 0 {
		return errors.New("domain is undefined")
	}
	return nil
}

// typeFields derives the EIP712Domain member list from the fields that are
// present, in the order fixed by the standard.
func (domain *TypedDataDomain) typeFields() []Type {
	var fields []Type
	if len(domain.Name) > 0 {
		fields = append(fields, Type{Name: "name", Type: "string"})
	}
	if len(domain.Version) > 0 {
		fields = append(fields, Type{Name: "version", Type: "string"})
	}
	if domain.ChainId != nil {
		fields = append(fields, Type{Name: "chainId", Type: "uint256"})
	}
	if len(domain.VerifyingContract) > 0 {
		fields = append(fields, Type{Name: "verifyingContract", Type: "address"})
	}
	if len(domain.Salt) > 0 {
		fields = append(fields, Type{Name: "salt", Type: "bytes32"})
	}
	return fields
}

// Map is a helper function to generate a map version of the domain.
func (domain *TypedDataDomain) Map() map[string]interface{} {
	dataMap := map[string]interface{}{}

	if domain.ChainId != nil {
		dataMap["chainId"] = domain.ChainId
	}
	if len(domain.Name) > 0 {
		dataMap["name"] = domain.Name
	}
	if len(domain.Version) > 0 {
		dataMap["version"] = domain.Version
	}
	if len(domain.VerifyingContract) > 0 {
		dataMap["verifyingContract"] = domain.VerifyingContract
	}
	if len(domain.Salt) > 0 {
		dataMap["salt"] = domain.Salt
	}
	return dataMap
}
