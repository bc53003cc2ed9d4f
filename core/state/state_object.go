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

package state

import (
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
)

// stateObject is a mutable handle to an account inside an updater's pending
// change set. Mutations are visible to subsequent reads through the same
// updater and become visible to the layer beneath only on commit.
type stateObject struct {
	updater *Updater
	address common.Address
	data    *Account
}

func newObject(u *Updater, addr common.Address, data *Account) *stateObject {
	if data.Balance == nil {
		data.Balance = new(uint256.Int)
	}
	return &stateObject{updater: u, address: addr, data: data}
}

// Address returns the address of the account.
func (s *stateObject) Address() common.Address {
	return s.address
}

// Nonce returns the current nonce of the account.
func (s *stateObject) Nonce() uint64 {
	return s.data.Nonce
}

// SetNonce sets the account nonce.
func (s *stateObject) SetNonce(nonce uint64) {
	s.data.Nonce = nonce
}

// IncrementNonce bumps the account nonce by one and returns the previous
// value, which creation address derivation is based on.
func (s *stateObject) IncrementNonce() uint64 {
	prev := s.data.Nonce
	s.data.Nonce++
	return prev
}

// Balance returns a copy of the account balance.
func (s *stateObject) Balance() *uint256.Int {
	return new(uint256.Int).Set(s.data.Balance)
}

// SetBalance sets the account balance.
func (s *stateObject) SetBalance(amount *uint256.Int) {
	s.data.Balance = new(uint256.Int).Set(amount)
}

// AddBalance adds amount to the account balance.
func (s *stateObject) AddBalance(amount *uint256.Int) {
	s.data.Balance = new(uint256.Int).Add(s.data.Balance, amount)
}

// SubBalance removes amount from the account balance. The caller is
// responsible for checking sufficiency beforehand.
func (s *stateObject) SubBalance(amount *uint256.Int) {
	s.data.Balance = new(uint256.Int).Sub(s.data.Balance, amount)
}

// Code returns the contract code of the account.
func (s *stateObject) Code() []byte {
	return s.data.Code
}

// SetCode installs code on the account.
func (s *stateObject) SetCode(code []byte) {
	s.data.Code = common.CopyBytes(code)
}

// GetState returns the value of the given storage slot.
func (s *stateObject) GetState(key common.Hash) common.Hash {
	return s.data.Storage[key]
}

// SetState updates the given storage slot.
func (s *stateObject) SetState(key, value common.Hash) {
	if s.data.Storage == nil {
		s.data.Storage = make(map[common.Hash]common.Hash)
	}
	s.data.Storage[key] = value
}

// Empty reports whether the account is empty per the state clearing rule.
func (s *stateObject) Empty() bool {
	return s.data.Empty()
}
