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

import "errors"

var (
	// ErrNonceTooLow is returned if the nonce of a transaction is lower than
	// the one present in the sender account.
	ErrNonceTooLow = errors.New("nonce too low")

	// ErrNonceTooHigh is returned if the nonce of a transaction is higher
	// than the next one expected based on the sender account and future
	// nonces are not permitted.
	ErrNonceTooHigh = errors.New("nonce too high")

	// ErrInternalFault is returned when transaction processing aborted on a
	// fault that is neither a validation nor an execution failure.
	ErrInternalFault = errors.New("internal fault during transaction processing")
)
