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

	"github.com/rs/zerolog"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/state"
	"github.com/veilchain/veil/core/tracing"
	"github.com/veilchain/veil/core/types"
	"github.com/veilchain/veil/core/vm"
	"github.com/veilchain/veil/crypto"
	"github.com/veilchain/veil/params"
)

// TransactionProcessor is the top-level entry point of the execution
// engine. One instance is safe for sequential reuse across transactions;
// concurrent calls must each target their own world-state layer.
type TransactionProcessor struct {
	config    *params.ProtocolConfig
	validator *TransactionValidator
	call      vm.MessageProcessor
	creation  vm.MessageProcessor
	logger    zerolog.Logger
}

// NewTransactionProcessor wires a processor around the given code executor.
func NewTransactionProcessor(config *params.ProtocolConfig, executor vm.CodeExecutor, logger zerolog.Logger) *TransactionProcessor {
	if config == nil {
		config = params.DefaultProtocolConfig()
	}
	return &TransactionProcessor{
		config:    config,
		validator: NewTransactionValidator(),
		call:      vm.NewMessageCallProcessor(executor, config.MaxCallDepth),
		creation:  vm.NewContractCreationProcessor(executor, config.MaxCallDepth),
		logger:    logger.With().Str("component", "txproc").Logger(),
	}
}

// ProcessTransaction validates and executes one transaction against the
// given world state and returns its definitive outcome.
//
// worldState is the layer that receives committed effects. publicReader,
// when non-nil, backs reads the layer cannot satisfy itself, so isolated
// execution contexts observe public accounts without ever writing to them.
// groupID salts contract address derivation for such contexts; it is nil
// for ordinary processing.
//
// Unexpected faults are confined to this call: they surface as an INVALID
// result with an internal-error classification and leave worldState
// untouched.
func (p *TransactionProcessor) ProcessTransaction(
	worldState state.WorldState,
	publicReader state.Reader,
	block vm.BlockContext,
	txHash common.Hash,
	tx *types.Transaction,
	hooks *tracing.Hooks,
	groupID []byte,
) (result *ProcessingResult) {
	logger := p.logger.With().Stringer("tx", txHash).Stringer("sender", tx.Sender).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("fault", r).Msg("transaction processing aborted on internal fault")
			result = invalidResult(InternalError, fmt.Errorf("%w: %v", ErrInternalFault, r))
		}
	}()

	txUpdater := state.NewLayeredUpdater(worldState, publicReader)

	sender, err := txUpdater.GetOrCreate(tx.Sender)
	if err != nil {
		panic(fmt.Errorf("resolving sender %s: %w", tx.Sender, err))
	}

	if v := p.validator.Validate(tx, sender.Nonce(), p.config.AllowFutureNonce); !v.Valid() {
		logger.Debug().Err(v.Err).Msg("transaction rejected")
		return invalidResult(v.Reason, v.Err)
	}

	prevNonce := sender.IncrementNonce()
	if hooks != nil && hooks.OnNonceChange != nil {
		hooks.OnNonceChange(tx.Sender, prevNonce, prevNonce+1)
	}

	stack := vm.NewStack()
	root := p.buildRootFrame(stack, txUpdater, block, txHash, tx, prevNonce, groupID)
	stack.Push(root)

	for !stack.Empty() {
		p.process(stack.Peek(), hooks)
	}

	gasUsed := root.GasUsed()
	gasRefund := refunded(vm.Gas(tx.GasLimit), root.Gas(), root.Refund(), p.config.MaxRefundQuotient)

	if root.ExecutionState() == vm.CompletedSuccess {
		if err := root.WorldState().Commit(); err != nil {
			panic(fmt.Errorf("committing root frame state: %w", err))
		}
		if p.config.ClearEmptyAccounts {
			clearEmptyAccounts(txUpdater)
		}
		if err := txUpdater.Commit(); err != nil {
			panic(fmt.Errorf("committing transaction state: %w", err))
		}
		if hooks != nil && hooks.OnLog != nil {
			for _, l := range root.Logs() {
				hooks.OnLog(l)
			}
		}
		logger.Debug().Uint64("gasUsed", gasUsed.Uint64()).Msg("transaction successful")
		return successfulResult(root.Logs(), gasUsed, gasRefund, root.Output())
	}

	root.WorldState().Discard()
	if p.config.NonceConsumedOnFailure {
		// The nonce increment is the only pending change left in the
		// transaction layer; it outlives the failed execution.
		if err := txUpdater.Commit(); err != nil {
			panic(fmt.Errorf("committing nonce after failed execution: %w", err))
		}
	} else {
		txUpdater.Discard()
	}
	logger.Debug().Err(root.FailureCause()).Msg("transaction failed")
	return failedResult(gasUsed, gasRefund, root.RevertReason(), root.FailureCause())
}

// buildRootFrame constructs the depth-zero frame for the transaction: a
// creation frame running the payload as init code when no recipient is
// named, a call frame against the recipient's code otherwise.
func (p *TransactionProcessor) buildRootFrame(
	stack *vm.Stack,
	txUpdater *state.Updater,
	block vm.BlockContext,
	txHash common.Hash,
	tx *types.Transaction,
	prevNonce uint64,
	groupID []byte,
) *vm.Frame {
	frameParams := vm.FrameParams{
		Sender:   tx.Sender,
		Origin:   tx.Sender,
		Gas:      vm.Gas(tx.GasLimit),
		Value:    tx.ValueOrZero(),
		GasPrice: tx.GasPrice,
		Depth:    0,
		World:    state.NewUpdater(txUpdater),
		Block:    block,
		TxHash:   txHash,
	}

	if tx.IsContractCreation() {
		var created common.Address
		if len(groupID) > 0 {
			created = crypto.CreatePrivateAddress(tx.Sender, prevNonce, groupID)
		} else {
			created = crypto.CreateAddress(tx.Sender, prevNonce)
		}
		frameParams.Type = vm.ContractCreation
		frameParams.Address = created
		frameParams.Contract = created
		frameParams.Code = tx.Payload
		return vm.NewFrame(stack, frameParams)
	}

	to := *tx.To
	code, err := recipientCode(txUpdater, to)
	if err != nil {
		panic(fmt.Errorf("resolving code at %s: %w", to, err))
	}
	frameParams.Type = vm.MessageCall
	frameParams.Address = to
	frameParams.Contract = to
	frameParams.Input = tx.Payload
	frameParams.Code = code
	return vm.NewFrame(stack, frameParams)
}

// process dispatches the frame at the top of the stack to the processor
// matching its type. The type domain is closed; anything else is a
// programming error handled by the fault boundary.
func (p *TransactionProcessor) process(f *vm.Frame, hooks *tracing.Hooks) {
	switch f.Type() {
	case vm.ContractCreation:
		p.creation.Process(f, hooks)
	case vm.MessageCall:
		p.call.Process(f, hooks)
	default:
		panic(fmt.Sprintf("unsupported frame type %d", f.Type()))
	}
}

// recipientCode resolves the code executed by a message call. An absent
// recipient executes empty code.
func recipientCode(u *state.Updater, addr common.Address) ([]byte, error) {
	acct, err := u.Account(addr)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, nil
	}
	return acct.Code, nil
}

// clearEmptyAccounts removes touched accounts that ended execution empty:
// zero nonce, zero balance, no code.
func clearEmptyAccounts(u *state.Updater) {
	for _, obj := range u.TouchedAccounts() {
		if obj.Empty() {
			u.DeleteAccount(obj.Address())
		}
	}
}

// refunded computes the gas credited back to the sender: the requested
// refund capped at floor(gasUsed / quotient).
func refunded(gasLimit, gasRemaining, requested vm.Gas, quotient uint64) vm.Gas {
	ceiling := gasLimit.Minus(gasRemaining).DividedBy(vm.Gas(quotient))
	return ceiling.Min(requested)
}
