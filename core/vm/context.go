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

package vm

import "github.com/veilchain/veil/common"

// BlockHashLookup resolves the hash of a historic block by number. Executed
// code may reference recent block hashes; the chain owns the answer.
type BlockHashLookup func(number uint64) common.Hash

// BlockContext carries the block-level inputs of an execution. It is
// immutable for the duration of a transaction.
type BlockContext struct {
	// Coinbase is the beneficiary of the enclosing block.
	Coinbase common.Address

	// BlockNumber is the number of the enclosing block.
	BlockNumber uint64

	// Time is the timestamp of the enclosing block.
	Time uint64

	// GetHash resolves historic block hashes. May be nil when the
	// executed code never asks for one.
	GetHash BlockHashLookup
}
