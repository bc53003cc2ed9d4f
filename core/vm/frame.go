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

// Package vm implements the frame-based execution model of the engine:
// message frames on an explicit stack, the processors advancing them, and
// the capability interface to the opaque code executor.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/state"
	"github.com/veilchain/veil/core/types"
)

// FrameType selects the message processor a frame is dispatched to.
type FrameType byte

const (
	// ContractCreation deploys the output of the executed init code as
	// new account code.
	ContractCreation FrameType = iota

	// MessageCall executes the code of an existing account.
	MessageCall
)

func (t FrameType) String() string {
	switch t {
	case ContractCreation:
		return "CONTRACT_CREATION"
	case MessageCall:
		return "MESSAGE_CALL"
	default:
		return "UNKNOWN"
	}
}

// FrameState is the lifecycle state of a message frame.
type FrameState byte

const (
	NotStarted FrameState = iota
	Executing
	Suspended
	CompletedSuccess
	CompletedFailed
	Reverted
)

// Terminal reports whether the state ends the frame's lifecycle.
func (s FrameState) Terminal() bool {
	return s == CompletedSuccess || s == CompletedFailed || s == Reverted
}

func (s FrameState) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Executing:
		return "EXECUTING"
	case Suspended:
		return "SUSPENDED"
	case CompletedSuccess:
		return "COMPLETED_SUCCESS"
	case CompletedFailed:
		return "COMPLETED_FAILED"
	case Reverted:
		return "REVERTED"
	default:
		return "UNKNOWN"
	}
}

// FrameParams collects the inputs of a new message frame.
type FrameParams struct {
	Type          FrameType
	Address       common.Address // account whose context executes
	Contract      common.Address // owner of the executed code
	Sender        common.Address
	Origin        common.Address
	Input         []byte
	Code          []byte
	Gas           Gas
	Value         *uint256.Int
	ApparentValue *uint256.Int
	GasPrice      *uint256.Int
	Depth         int
	World         *state.Updater
	Block         BlockContext
	TxHash        common.Hash
}

// Frame is one unit of execution context: a message call or a contract
// creation attempt, together with its gas budget, its own world-state layer
// and its accumulated outputs. Frames link to parent and child frames via
// their position on the shared stack, never by pointer.
type Frame struct {
	typ   FrameType
	state FrameState
	depth int

	address  common.Address
	contract common.Address
	sender   common.Address
	origin   common.Address

	input []byte
	code  []byte

	initialGas Gas
	gas        Gas
	gasRefund  Gas

	value         *uint256.Int
	apparentValue *uint256.Int
	gasPrice      *uint256.Int

	world  *state.Updater
	block  BlockContext
	txHash common.Hash
	stack  *Stack

	logs         []*types.Log
	output       []byte
	returnData   []byte
	childState   FrameState
	revertReason []byte
	err          error

	// executorState is resumption state stashed by the code executor
	// across a suspension. Opaque to the engine.
	executorState any
}

// NewFrame constructs a frame and registers it against the given stack.
// The caller pushes it when ready.
func NewFrame(stack *Stack, p FrameParams) *Frame {
	f := &Frame{
		typ:           p.Type,
		state:         NotStarted,
		depth:         p.Depth,
		address:       p.Address,
		contract:      p.Contract,
		sender:        p.Sender,
		origin:        p.Origin,
		input:         p.Input,
		code:          p.Code,
		initialGas:    p.Gas,
		gas:           p.Gas,
		value:         p.Value,
		apparentValue: p.ApparentValue,
		gasPrice:      p.GasPrice,
		world:         p.World,
		block:         p.Block,
		txHash:        p.TxHash,
		stack:         stack,
	}
	if f.value == nil {
		f.value = new(uint256.Int)
	}
	if f.apparentValue == nil {
		f.apparentValue = new(uint256.Int).Set(f.value)
	}
	if f.gasPrice == nil {
		f.gasPrice = new(uint256.Int)
	}
	return f
}

// Type returns the frame type.
func (f *Frame) Type() FrameType { return f.typ }

// ExecutionState returns the current lifecycle state.
func (f *Frame) ExecutionState() FrameState { return f.state }

// Depth returns the call depth of the frame; the root frame has depth 0.
func (f *Frame) Depth() int { return f.depth }

// Address returns the account whose context executes.
func (f *Frame) Address() common.Address { return f.address }

// ContractAddress returns the owner of the executed code.
func (f *Frame) ContractAddress() common.Address { return f.contract }

// Sender returns the immediate caller.
func (f *Frame) Sender() common.Address { return f.sender }

// Origin returns the original transaction sender.
func (f *Frame) Origin() common.Address { return f.origin }

// Input returns the call data.
func (f *Frame) Input() []byte { return f.input }

// Code returns the byte code being executed.
func (f *Frame) Code() []byte { return f.code }

// Gas returns the remaining gas.
func (f *Frame) Gas() Gas { return f.gas }

// UseGas deducts amount from the remaining gas. It reports false, deducting
// nothing, when the remainder is insufficient.
func (f *Frame) UseGas(amount Gas) bool {
	if amount > f.gas {
		return false
	}
	f.gas -= amount
	return true
}

// ReturnGas credits unused gas back to the frame.
func (f *Frame) ReturnGas(amount Gas) {
	f.gas = f.gas.Plus(amount)
}

// AddRefund accumulates a gas refund request. The effective refund is
// capped when the transaction result is assembled.
func (f *Frame) AddRefund(amount Gas) {
	f.gasRefund = f.gasRefund.Plus(amount)
}

// Refund returns the accumulated refund request.
func (f *Frame) Refund() Gas { return f.gasRefund }

// GasUsed returns the gas consumed by the frame so far.
func (f *Frame) GasUsed() Gas { return f.initialGas.Minus(f.gas) }

// Value returns the value transferred with the message.
func (f *Frame) Value() *uint256.Int { return f.value }

// ApparentValue returns the value as perceived by the executed code, which
// may differ from Value under delegation semantics.
func (f *Frame) ApparentValue() *uint256.Int { return f.apparentValue }

// GasPrice returns the effective gas price of the enclosing transaction.
func (f *Frame) GasPrice() *uint256.Int { return f.gasPrice }

// WorldState returns the frame's world-state layer.
func (f *Frame) WorldState() *state.Updater { return f.world }

// Block returns the block context.
func (f *Frame) Block() BlockContext { return f.block }

// TransactionHash returns the hash of the enclosing transaction.
func (f *Frame) TransactionHash() common.Hash { return f.txHash }

// AddLog appends a log emitted by the executed code. Logs propagate to the
// parent frame only if this frame completes successfully.
func (f *Frame) AddLog(log *types.Log) {
	f.logs = append(f.logs, log)
}

// Logs returns the logs accumulated by this frame and its successful
// children.
func (f *Frame) Logs() []*types.Log { return f.logs }

// Output returns the frame's output data.
func (f *Frame) Output() []byte { return f.output }

// ReturnData returns the output of the most recently completed child frame.
func (f *Frame) ReturnData() []byte { return f.returnData }

// ChildState returns the terminal state of the most recently completed
// child frame, for the executor to inspect after resuming.
func (f *Frame) ChildState() FrameState { return f.childState }

// RevertReason returns the payload supplied with an explicit revert, if any.
func (f *Frame) RevertReason() []byte { return f.revertReason }

// FailureCause returns the error that terminated the frame, or nil.
func (f *Frame) FailureCause() error { return f.err }

// Succeed moves the frame to COMPLETED_SUCCESS with the given output.
func (f *Frame) Succeed(output []byte) {
	f.output = common.CopyBytes(output)
	f.state = CompletedSuccess
}

// Revert moves the frame to REVERTED, preserving the supplied reason. The
// frame's pending state changes are discarded; its remaining gas is
// returned to the caller.
func (f *Frame) Revert(reason []byte) {
	f.revertReason = common.CopyBytes(reason)
	f.err = ErrExecutionReverted
	f.state = Reverted
}

// Fail moves the frame to COMPLETED_FAILED with the given cause. All
// remaining gas is consumed.
func (f *Frame) Fail(err error) {
	if err == nil {
		err = ErrExecutionFailed
	}
	f.err = err
	f.gas = 0
	f.state = CompletedFailed
}

// SpawnChild builds a nested frame one level deeper, endows it with gas
// withheld from this frame, pushes it on the stack and suspends this frame
// until the child completes. The child runs on its own world-state layer
// which merges back only if it succeeds.
func (f *Frame) SpawnChild(p FrameParams) *Frame {
	endowment := p.Gas.Min(f.gas)
	f.gas -= endowment
	p.Gas = endowment
	p.Depth = f.depth + 1
	p.Origin = f.origin
	p.GasPrice = f.gasPrice
	p.Block = f.block
	p.TxHash = f.txHash
	p.World = state.NewUpdater(f.world)

	child := NewFrame(f.stack, p)
	f.state = Suspended
	f.stack.Push(child)
	return child
}

// SetExecutorState stashes opaque executor resumption state on the frame.
func (f *Frame) SetExecutorState(s any) { f.executorState = s }

// ExecutorState returns the stashed executor resumption state.
func (f *Frame) ExecutorState() any { return f.executorState }
