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

package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/state"
	"github.com/veilchain/veil/core/tracing"
)

// GenesisAccount is an account seeded into the world state before any
// transaction runs.
type GenesisAccount struct {
	Nonce   uint64                      `json:"nonce,omitempty"`
	Balance *uint256.Int                `json:"balance,omitempty"`
	Code    common.Bytes                `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
}

// GenesisAlloc specifies the initial state of a chain.
type GenesisAlloc map[common.Address]GenesisAccount

// DecodeGenesisAlloc reads a JSON allocation.
func DecodeGenesisAlloc(r io.Reader) (GenesisAlloc, error) {
	var alloc GenesisAlloc
	if err := json.NewDecoder(r).Decode(&alloc); err != nil {
		return nil, fmt.Errorf("decoding genesis allocation: %w", err)
	}
	return alloc, nil
}

// ApplyGenesisAlloc seeds the allocation into the given world state in one
// atomic commit. An account already present at an allocated address is an
// error: genesis runs against empty state only.
func ApplyGenesisAlloc(ws state.WorldState, alloc GenesisAlloc, hooks *tracing.Hooks) error {
	updater := state.NewUpdater(ws)
	for addr, acct := range alloc {
		obj, err := updater.CreateAccount(addr, acct.Nonce, acct.Balance)
		if err != nil {
			return fmt.Errorf("allocating genesis account %s: %w", addr, err)
		}
		if len(acct.Code) > 0 {
			obj.SetCode(acct.Code)
		}
		for key, value := range acct.Storage {
			obj.SetState(key, value)
		}
		if hooks != nil && hooks.OnBalanceChange != nil && acct.Balance != nil && !acct.Balance.IsZero() {
			hooks.OnBalanceChange(addr, new(uint256.Int), acct.Balance, tracing.BalanceChangeGenesis)
		}
	}
	return updater.Commit()
}
