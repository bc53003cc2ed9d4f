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
	"fmt"

	"github.com/veilchain/veil/core/types"
)

// InvalidReason classifies why a transaction was rejected without being
// executed.
type InvalidReason string

const (
	// NonceTooLow: the transaction nonce is behind the sender account.
	NonceTooLow InvalidReason = "NONCE_TOO_LOW"

	// IncorrectNonce: the transaction nonce is ahead of the sender account
	// and future nonces are not permitted.
	IncorrectNonce InvalidReason = "INCORRECT_NONCE"

	// InternalError: processing aborted on an unexpected fault.
	InternalError InvalidReason = "INTERNAL_ERROR"

	// ExecutionFailed classifies FAILED results: the transaction was valid
	// but its execution did not complete successfully.
	ExecutionFailed InvalidReason = "EXECUTION_FAILED"
)

// ValidationResult is the outcome of pre-execution admissibility checks.
type ValidationResult struct {
	Reason InvalidReason
	Err    error
}

// Valid reports whether the transaction passed validation.
func (r ValidationResult) Valid() bool {
	return r.Err == nil
}

func valid() ValidationResult {
	return ValidationResult{}
}

func invalid(reason InvalidReason, err error) ValidationResult {
	return ValidationResult{Reason: reason, Err: err}
}

// TransactionValidator performs the stateful admissibility checks run ahead
// of execution. It never executes code.
type TransactionValidator struct{}

// NewTransactionValidator returns a validator.
func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// Validate checks the transaction nonce against the sender account's
// current nonce. An exact match is always admissible; a future nonce only
// when allowFutureNonce is set.
func (v *TransactionValidator) Validate(tx *types.Transaction, accountNonce uint64, allowFutureNonce bool) ValidationResult {
	switch {
	case tx.Nonce < accountNonce:
		return invalid(NonceTooLow, fmt.Errorf("%w: address %s, tx nonce %d, account nonce %d",
			ErrNonceTooLow, tx.Sender, tx.Nonce, accountNonce))
	case tx.Nonce > accountNonce && !allowFutureNonce:
		return invalid(IncorrectNonce, fmt.Errorf("%w: address %s, tx nonce %d, account nonce %d",
			ErrNonceTooHigh, tx.Sender, tx.Nonce, accountNonce))
	default:
		return valid()
	}
}
