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

import (
	"fmt"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/tracing"
)

// CodeExecutor is the opaque capability that runs a frame's byte code. An
// executor drives the frame to a terminal state via Succeed, Revert or
// Fail, or suspends it by spawning a child frame; a suspended frame is
// re-executed once the child completes, with the child's outcome available
// through ReturnData and ChildState. The engine knows nothing about the
// instruction set.
type CodeExecutor interface {
	Execute(frame *Frame, hooks *tracing.Hooks)
}

// ExecutorFunc adapts a plain function to the CodeExecutor interface.
type ExecutorFunc func(frame *Frame, hooks *tracing.Hooks)

// Execute implements CodeExecutor.
func (fn ExecutorFunc) Execute(frame *Frame, hooks *tracing.Hooks) {
	fn(frame, hooks)
}

// NoopExecutor completes every frame successfully without producing output.
// It stands in where value transfer semantics are wanted but no byte code
// interpreter is wired.
type NoopExecutor struct{}

// Execute implements CodeExecutor.
func (NoopExecutor) Execute(frame *Frame, _ *tracing.Hooks) {
	frame.Succeed(nil)
}

// MessageProcessor advances a frame from its current state towards
// completion. Process is invoked once per dispatch of the frame at the top
// of the stack; a frame that suspends is dispatched again after its child
// completed.
type MessageProcessor interface {
	Process(frame *Frame, hooks *tracing.Hooks)
}

// MessageCallProcessor executes calls against the code of existing
// accounts.
type MessageCallProcessor struct {
	executor CodeExecutor
	maxDepth int
}

// NewMessageCallProcessor returns a call processor bound to the given code
// executor and depth limit.
func NewMessageCallProcessor(executor CodeExecutor, maxDepth int) *MessageCallProcessor {
	return &MessageCallProcessor{executor: executor, maxDepth: maxDepth}
}

// Process implements MessageProcessor.
func (p *MessageCallProcessor) Process(f *Frame, hooks *tracing.Hooks) {
	switch f.ExecutionState() {
	case NotStarted:
		p.start(f, hooks)
		if f.ExecutionState() == Executing {
			p.executor.Execute(f, hooks)
		}
	case Suspended:
		f.state = Executing
		p.executor.Execute(f, hooks)
	}
	if f.ExecutionState().Terminal() {
		completeFrame(f, hooks)
	}
}

func (p *MessageCallProcessor) start(f *Frame, hooks *tracing.Hooks) {
	traceEnter(f, hooks)
	if f.Depth() > p.maxDepth {
		f.Fail(ErrDepth)
		return
	}
	if !transferValue(f, hooks) {
		return
	}
	f.state = Executing
	if len(f.Code()) == 0 {
		// Executing empty code is a no-op success.
		f.Succeed(nil)
	}
}

// ContractCreationProcessor deploys new code: it runs the frame's init code
// and installs the output as the code of the freshly created account.
type ContractCreationProcessor struct {
	executor CodeExecutor
	maxDepth int
}

// NewContractCreationProcessor returns a creation processor bound to the
// given code executor and depth limit.
func NewContractCreationProcessor(executor CodeExecutor, maxDepth int) *ContractCreationProcessor {
	return &ContractCreationProcessor{executor: executor, maxDepth: maxDepth}
}

// Process implements MessageProcessor.
func (p *ContractCreationProcessor) Process(f *Frame, hooks *tracing.Hooks) {
	switch f.ExecutionState() {
	case NotStarted:
		p.start(f, hooks)
		if f.ExecutionState() == Executing {
			p.executor.Execute(f, hooks)
		}
	case Suspended:
		f.state = Executing
		p.executor.Execute(f, hooks)
	}
	if f.ExecutionState() == CompletedSuccess {
		p.installCode(f)
	}
	if f.ExecutionState().Terminal() {
		completeFrame(f, hooks)
	}
}

func (p *ContractCreationProcessor) start(f *Frame, hooks *tracing.Hooks) {
	traceEnter(f, hooks)
	if f.Depth() > p.maxDepth {
		f.Fail(ErrDepth)
		return
	}
	world := f.WorldState()
	existing, err := world.GetAccount(f.Address())
	if err != nil {
		panic(fmt.Errorf("world state read at %s: %w", f.Address(), err))
	}
	// Creating on top of an account with code or a used nonce is a
	// deterministic execution failure, never an overwrite.
	if existing != nil && (existing.Nonce() > 0 || len(existing.Code()) > 0) {
		f.Fail(ErrContractAddressCollision)
		return
	}
	if existing == nil {
		if _, err := world.CreateAccount(f.Address(), 0, nil); err != nil {
			panic(fmt.Errorf("creating account at %s: %w", f.Address(), err))
		}
	}
	if !transferValue(f, hooks) {
		return
	}
	f.state = Executing
	if len(f.Code()) == 0 {
		f.Succeed(nil)
	}
}

func (p *ContractCreationProcessor) installCode(f *Frame) {
	obj, err := f.WorldState().GetOrCreate(f.Address())
	if err != nil {
		panic(fmt.Errorf("installing code at %s: %w", f.Address(), err))
	}
	obj.SetCode(f.Output())
}

// transferValue moves the frame's value from sender to the executing
// account inside the frame's own state layer. It fails the frame and
// reports false when the sender cannot cover the transfer.
func transferValue(f *Frame, hooks *tracing.Hooks) bool {
	if f.Value().IsZero() {
		return true
	}
	world := f.WorldState()
	sender, err := world.GetOrCreate(f.Sender())
	if err != nil {
		panic(fmt.Errorf("world state read at %s: %w", f.Sender(), err))
	}
	if sender.Balance().Lt(f.Value()) {
		f.Fail(ErrInsufficientBalance)
		return false
	}
	recipient, err := world.GetOrCreate(f.Address())
	if err != nil {
		panic(fmt.Errorf("world state read at %s: %w", f.Address(), err))
	}
	prevSender, prevRecipient := sender.Balance(), recipient.Balance()
	sender.SubBalance(f.Value())
	recipient.AddBalance(f.Value())
	if hooks != nil && hooks.OnBalanceChange != nil {
		hooks.OnBalanceChange(sender.Address(), prevSender, sender.Balance(), tracing.BalanceChangeTransfer)
		hooks.OnBalanceChange(recipient.Address(), prevRecipient, recipient.Balance(), tracing.BalanceChangeTransfer)
	}
	return true
}

// completeFrame pops a terminal frame off the stack and merges its outcome
// into the parent: remaining gas returns on success and revert, logs and
// state merge on success only. The root frame's state layer is left for the
// orchestrator to commit or discard.
func completeFrame(f *Frame, hooks *tracing.Hooks) {
	f.stack.Pop()
	if hooks != nil && hooks.OnExit != nil {
		reverted := f.ExecutionState() != CompletedSuccess
		hooks.OnExit(f.Depth(), f.Output(), f.GasUsed().Uint64(), f.FailureCause(), reverted)
	}
	parent := f.stack.Peek()
	if parent == nil {
		return
	}
	parent.returnData = common.CopyBytes(f.Output())
	parent.childState = f.ExecutionState()
	switch f.ExecutionState() {
	case CompletedSuccess:
		if err := f.WorldState().Commit(); err != nil {
			panic(fmt.Errorf("committing child frame state: %w", err))
		}
		parent.ReturnGas(f.Gas())
		parent.gasRefund = parent.gasRefund.Plus(f.gasRefund)
		parent.logs = append(parent.logs, f.logs...)
	case Reverted:
		f.WorldState().Discard()
		parent.ReturnGas(f.Gas())
	case CompletedFailed:
		f.WorldState().Discard()
	}
}

func traceEnter(f *Frame, hooks *tracing.Hooks) {
	if hooks != nil && hooks.OnEnter != nil {
		hooks.OnEnter(f.Depth(), byte(f.Type()), f.Sender(), f.Address(), f.Input(), f.Gas().Uint64(), f.Value())
	}
}
