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

// Package crypto implements the hashing and address derivation primitives
// used by the execution engine.
package crypto

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/veilchain/veil/common"
)

// KeccakState wraps sha3.state. In addition to the usual hash methods, it
// also supports Read to get a variable amount of data from the hash state.
// Read is faster than Sum because it doesn't copy the internal state, but
// also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// CreateAddress derives the address of an account created by the given
// sender at the given nonce. The derivation is the rightmost 20 bytes of
// Keccak256(sender || nonce).
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return common.BytesToAddress(Keccak256(sender.Bytes(), n[:])[12:])
}

// CreatePrivateAddress derives the address of an account created by the
// given sender at the given nonce within an isolated execution context.
// Folding the privacy group identifier into the digest keeps creations in
// distinct groups from colliding on the same address.
func CreatePrivateAddress(sender common.Address, nonce uint64, privacyGroupID []byte) common.Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return common.BytesToAddress(Keccak256(sender.Bytes(), n[:], privacyGroupID)[12:])
}
