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
	"github.com/veilchain/veil/core/types"
	"github.com/veilchain/veil/core/vm"
)

// Status classifies the outcome of processing one transaction.
type Status int

const (
	// Invalid means the transaction failed admissibility checks or hit an
	// internal fault; no execution effects were applied.
	Invalid Status = iota

	// Failed means the transaction executed but its effects were rolled
	// back, either through an explicit revert or an execution failure.
	Failed

	// Successful means the transaction executed and its effects were
	// committed.
	Successful
)

func (s Status) String() string {
	switch s {
	case Invalid:
		return "INVALID"
	case Failed:
		return "FAILED"
	case Successful:
		return "SUCCESSFUL"
	default:
		return "UNKNOWN"
	}
}

// ProcessingResult is the definitive outcome of one transaction: its status
// plus the gas accounting, logs and output that status entitles it to.
type ProcessingResult struct {
	Status        Status
	Logs          []*types.Log
	GasUsed       vm.Gas
	GasRefund     vm.Gas
	Output        []byte
	RevertReason  []byte
	InvalidReason InvalidReason
	Err           error
}

// IsSuccessful reports whether the transaction's effects were committed.
func (r *ProcessingResult) IsSuccessful() bool {
	return r.Status == Successful
}

// IsInvalid reports whether the transaction was rejected before execution.
func (r *ProcessingResult) IsInvalid() bool {
	return r.Status == Invalid
}

func successfulResult(logs []*types.Log, gasUsed, gasRefund vm.Gas, output []byte) *ProcessingResult {
	return &ProcessingResult{
		Status:    Successful,
		Logs:      logs,
		GasUsed:   gasUsed,
		GasRefund: gasRefund,
		Output:    output,
	}
}

func failedResult(gasUsed, gasRefund vm.Gas, revertReason []byte, err error) *ProcessingResult {
	return &ProcessingResult{
		Status:        Failed,
		GasUsed:       gasUsed,
		GasRefund:     gasRefund,
		RevertReason:  revertReason,
		InvalidReason: ExecutionFailed,
		Err:           err,
	}
}

func invalidResult(reason InvalidReason, err error) *ProcessingResult {
	return &ProcessingResult{
		Status:        Invalid,
		InvalidReason: reason,
		Err:           err,
	}
}
