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

// Package state implements the layered world state of the execution engine.
package state

import (
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
)

// Account is the consensus representation of an account: a nonce, a balance,
// contract code and persistent storage. Non-contract accounts have empty
// code and storage.
type Account struct {
	Nonce   uint64
	Balance *uint256.Int
	Code    []byte
	Storage map[common.Hash]common.Hash
}

// NewAccount returns an account with the given nonce and balance and no code.
func NewAccount(nonce uint64, balance *uint256.Int) *Account {
	if balance == nil {
		balance = new(uint256.Int)
	}
	return &Account{Nonce: nonce, Balance: balance}
}

// Empty reports whether the account has zero nonce, zero balance and no
// code. Empty accounts are eligible for removal during state clearing.
func (a *Account) Empty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) && len(a.Code) == 0
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := &Account{
		Nonce:   a.Nonce,
		Balance: new(uint256.Int),
		Code:    common.CopyBytes(a.Code),
	}
	if a.Balance != nil {
		cpy.Balance.Set(a.Balance)
	}
	if a.Storage != nil {
		cpy.Storage = make(map[common.Hash]common.Hash, len(a.Storage))
		for k, v := range a.Storage {
			cpy.Storage[k] = v
		}
	}
	return cpy
}
