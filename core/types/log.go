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

package types

import "github.com/veilchain/veil/common"

// Log is an event emitted by executed code. Logs accumulate on the frame
// that produced them and transfer to the processing result on success.
type Log struct {
	// Address of the account which generated this log.
	Address common.Address `json:"address"`
	// Topics the log is indexed under.
	Topics []common.Hash `json:"topics"`
	// Data carries the opaque log payload.
	Data []byte `json:"data"`
}

// Copy returns a deep copy of the log.
func (l *Log) Copy() *Log {
	topics := make([]common.Hash, len(l.Topics))
	copy(topics, l.Topics)
	return &Log{
		Address: l.Address,
		Topics:  topics,
		Data:    common.CopyBytes(l.Data),
	}
}
