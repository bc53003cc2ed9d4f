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

// Package params defines the protocol configuration of the execution engine.
package params

const (
	// MaxCallDepth is the maximum nesting depth of message calls and
	// contract creations. Frames spawned beyond this depth fail.
	MaxCallDepth = 1024

	// MaxFrameStackSize bounds the explicit frame stack. It is one larger
	// than the call depth to make room for the root frame.
	MaxFrameStackSize = MaxCallDepth + 1

	// RefundQuotient caps the gas refund of a transaction to
	// gasUsed / RefundQuotient.
	RefundQuotient uint64 = 2
)

// ProtocolConfig holds the consensus-relevant execution parameters. All
// nodes of a network must process transactions with identical settings.
type ProtocolConfig struct {
	// MaxCallDepth is the nesting bound for message frames.
	MaxCallDepth int `toml:",omitempty"`

	// MaxRefundQuotient caps refunds to gasUsed / MaxRefundQuotient,
	// using integer division.
	MaxRefundQuotient uint64 `toml:",omitempty"`

	// AllowFutureNonce accepts transactions whose nonce is ahead of the
	// sender account for speculative execution.
	AllowFutureNonce bool `toml:",omitempty"`

	// ClearEmptyAccounts removes touched accounts that end a successful
	// execution with zero nonce, zero balance and no code.
	ClearEmptyAccounts bool `toml:",omitempty"`

	// NonceConsumedOnFailure keeps the sender's nonce increment when
	// execution fails after validation. When false, the increment is
	// rolled back on the FAILED path.
	NonceConsumedOnFailure bool `toml:",omitempty"`
}

// DefaultProtocolConfig returns the protocol parameters of the main network.
func DefaultProtocolConfig() *ProtocolConfig {
	return &ProtocolConfig{
		MaxCallDepth:           MaxCallDepth,
		MaxRefundQuotient:      RefundQuotient,
		AllowFutureNonce:       false,
		ClearEmptyAccounts:     true,
		NonceConsumedOnFailure: true,
	}
}
