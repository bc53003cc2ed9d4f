// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

// Package common contains the value and identity types shared across the
// execution engine.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Bytes is a byte slice that marshals and unmarshals as a 0x-prefixed hex
// string in JSON and text contexts, instead of the base64 encoding plain
// byte slices get.
type Bytes []byte

// MarshalText returns the hex representation of b.
func (b Bytes) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, "0x")
	hex.Encode(result[2:], b)
	return result, nil
}

// UnmarshalText parses a byte sequence in hex syntax. The 0x prefix is
// optional.
func (b *Bytes) UnmarshalText(input []byte) error {
	s := strings.TrimPrefix(string(input), "0x")
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %v", input, err)
	}
	*b = decoded
	return nil
}

// String returns the hex representation of b.
func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with "0x". Invalid input yields nil.
func FromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// Bytes2Hex returns the hexadecimal encoding of d.
func Bytes2Hex(d []byte) string {
	return hex.EncodeToString(d)
}
