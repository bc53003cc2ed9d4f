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

// Package tracing defines the observer hooks invoked at execution
// lifecycle points. All hooks are optional; nil hooks are skipped.
package tracing

import (
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/types"
)

type (
	// EnterHook is invoked when the processing of a message frame starts.
	EnterHook = func(depth int, typ byte, from common.Address, to common.Address, input []byte, gas uint64, value *uint256.Int)

	// ExitHook is invoked when a message frame reaches a terminal state.
	// reverted is true both for explicit reverts and execution failures.
	ExitHook = func(depth int, output []byte, gasUsed uint64, err error, reverted bool)

	// NonceChangeHook is invoked when the nonce of an account changes.
	NonceChangeHook = func(addr common.Address, prev, new uint64)

	// BalanceChangeHook is invoked when the balance of an account changes.
	BalanceChangeHook = func(addr common.Address, prev, new *uint256.Int, reason BalanceChangeReason)

	// LogHook is invoked when a log is emitted.
	LogHook = func(log *types.Log)
)

// Hooks bundles the observer callbacks threaded through frame processing.
type Hooks struct {
	OnEnter         EnterHook
	OnExit          ExitHook
	OnNonceChange   NonceChangeHook
	OnBalanceChange BalanceChangeHook
	OnLog           LogHook
}

// BalanceChangeReason is used to indicate the reason for a balance change,
// useful for tracing and reporting.
type BalanceChangeReason byte

const (
	BalanceChangeUnspecified BalanceChangeReason = 0

	// BalanceChangeTransfer is a transfer of value between two accounts
	// as part of a message call or creation endowment.
	BalanceChangeTransfer BalanceChangeReason = 1

	// BalanceChangeGenesis is an allocation made at genesis time.
	BalanceChangeGenesis BalanceChangeReason = 2
)
