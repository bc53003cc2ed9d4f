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
	"testing"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/core/state"
	"github.com/veilchain/veil/core/tracing"
	"github.com/veilchain/veil/core/types"
	"github.com/veilchain/veil/core/vm"
	"github.com/veilchain/veil/crypto"
	"github.com/veilchain/veil/params"
)

var (
	sender    = common.Address{0x11}
	recipient = common.Address{0x22}
)

func newProcessor(t *testing.T, executor vm.CodeExecutor, mutate func(*params.ProtocolConfig)) *TransactionProcessor {
	t.Helper()
	cfg := params.DefaultProtocolConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewTransactionProcessor(cfg, executor, zerolog.Nop())
}

// stateWith returns a memory store seeded with the given accounts.
func stateWith(t *testing.T, alloc GenesisAlloc) *state.MemoryState {
	t.Helper()
	base := state.NewMemoryState()
	require.NoError(t, ApplyGenesisAlloc(base, alloc, nil))
	return base
}

func transferTx(nonce uint64, amount uint64) *types.Transaction {
	to := recipient
	return &types.Transaction{
		Sender:   sender,
		To:       &to,
		Nonce:    nonce,
		Value:    uint256.NewInt(amount),
		GasPrice: uint256.NewInt(1),
		GasLimit: 21000,
	}
}

func accountAt(t *testing.T, ws state.Reader, addr common.Address) *state.Account {
	t.Helper()
	acct, err := ws.Account(addr)
	require.NoError(t, err)
	return acct
}

func TestProcessSimpleTransfer(t *testing.T) {
	base := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(1000)}})
	p := newProcessor(t, vm.NoopExecutor{}, nil)

	tx := transferTx(0, 250)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Successful, res.Status)
	assert.Empty(t, res.Logs)
	assert.NoError(t, res.Err)

	from := accountAt(t, base, sender)
	to := accountAt(t, base, recipient)
	assert.Equal(t, uint64(1), from.Nonce)
	assert.Equal(t, uint256.NewInt(750), from.Balance)
	assert.Equal(t, uint256.NewInt(250), to.Balance)
}

func TestProcessNonceTooLowIsInvalid(t *testing.T) {
	base := stateWith(t, GenesisAlloc{sender: {Nonce: 5, Balance: uint256.NewInt(1000)}})
	p := newProcessor(t, vm.NoopExecutor{}, nil)

	tx := transferTx(3, 1)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Invalid, res.Status)
	assert.Equal(t, NonceTooLow, res.InvalidReason)
	assert.ErrorIs(t, res.Err, ErrNonceTooLow)

	from := accountAt(t, base, sender)
	assert.Equal(t, uint64(5), from.Nonce, "invalid transactions must not touch state")
	assert.Equal(t, uint256.NewInt(1000), from.Balance)
}

func TestProcessFutureNoncePolicy(t *testing.T) {
	tx := transferTx(7, 1)

	base := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(10)}})
	p := newProcessor(t, vm.NoopExecutor{}, nil)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)
	require.Equal(t, Invalid, res.Status)
	assert.Equal(t, IncorrectNonce, res.InvalidReason)

	base = stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(10)}})
	p = newProcessor(t, vm.NoopExecutor{}, func(cfg *params.ProtocolConfig) {
		cfg.AllowFutureNonce = true
	})
	res = p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)
	assert.Equal(t, Successful, res.Status)
}

func TestProcessContractCreation(t *testing.T) {
	deployed := []byte{0x60, 0x60}
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		f.UseGas(5000)
		f.Succeed(deployed)
	})
	base := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(100)}})
	p := newProcessor(t, exec, nil)

	tx := &types.Transaction{
		Sender:   sender,
		Nonce:    0,
		Value:    uint256.NewInt(7),
		GasLimit: 100000,
		Payload:  []byte{0x01},
	}
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Successful, res.Status)
	assert.Equal(t, deployed, res.Output)
	assert.Equal(t, vm.Gas(5000), res.GasUsed)

	created := accountAt(t, base, crypto.CreateAddress(sender, 0))
	require.NotNil(t, created, "contract account must exist at the derived address")
	assert.Equal(t, deployed, created.Code)
	assert.Equal(t, uint256.NewInt(7), created.Balance)
}

func TestProcessCreationCollision(t *testing.T) {
	occupied := crypto.CreateAddress(sender, 0)
	base := stateWith(t, GenesisAlloc{
		sender:   {Balance: uint256.NewInt(100)},
		occupied: {Code: []byte{0xfe}},
	})
	p := newProcessor(t, vm.NoopExecutor{}, nil)

	tx := &types.Transaction{Sender: sender, Nonce: 0, GasLimit: 100000, Payload: []byte{0x01}}
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Failed, res.Status)
	assert.ErrorIs(t, res.Err, vm.ErrContractAddressCollision)

	assert.Equal(t, []byte{0xfe}, accountAt(t, base, occupied).Code, "existing code must not be overwritten")
	assert.Equal(t, uint64(1), accountAt(t, base, sender).Nonce, "nonce is consumed on failure")
}

func TestProcessRevertCarriesReason(t *testing.T) {
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		obj, err := f.WorldState().GetOrCreate(common.Address{0x99})
		require.NoError(t, err)
		obj.SetBalance(uint256.NewInt(123))
		f.UseGas(400)
		f.Revert([]byte("balance check failed"))
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(100)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, nil)

	tx := transferTx(0, 0)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Failed, res.Status)
	assert.Equal(t, []byte("balance check failed"), res.RevertReason)
	assert.ErrorIs(t, res.Err, vm.ErrExecutionReverted)
	assert.Equal(t, vm.Gas(400), res.GasUsed)

	assert.Nil(t, accountAt(t, base, common.Address{0x99}), "reverted writes must be discarded")
	assert.Equal(t, uint64(1), accountAt(t, base, sender).Nonce)
}

func TestProcessNonceNotConsumedWhenPolicyDisabled(t *testing.T) {
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		f.Revert(nil)
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(100)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, func(cfg *params.ProtocolConfig) {
		cfg.NonceConsumedOnFailure = false
	})

	tx := transferTx(0, 0)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Failed, res.Status)
	assert.Equal(t, uint64(0), accountAt(t, base, sender).Nonce)
}

func TestProcessRefundCap(t *testing.T) {
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		f.UseGas(10000)
		f.AddRefund(1 << 40) // far more than the cap
		f.Succeed(nil)
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(100)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, nil)

	tx := transferTx(0, 0)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Successful, res.Status)
	assert.Equal(t, vm.Gas(10000), res.GasUsed)
	assert.Equal(t, vm.Gas(5000), res.GasRefund, "refund capped at gasUsed/quotient")
}

func TestRefundedMath(t *testing.T) {
	// requested below the cap passes through untouched
	assert.Equal(t, vm.Gas(3), refunded(100, 80, 3, 2))
	// requested above the cap is clamped to floor((limit-remaining)/q)
	assert.Equal(t, vm.Gas(10), refunded(100, 80, 50, 2))
	// floor division
	assert.Equal(t, vm.Gas(4), refunded(100, 91, 50, 2))
	// nothing used, nothing refunded
	assert.Equal(t, vm.Gas(0), refunded(100, 100, 50, 2))
}

func TestProcessInternalFaultIsConfined(t *testing.T) {
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		panic("executor bug")
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(100)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, nil)

	tx := transferTx(0, 10)
	var res *ProcessingResult
	require.NotPanics(t, func() {
		res = p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)
	})

	require.Equal(t, Invalid, res.Status)
	assert.Equal(t, InternalError, res.InvalidReason)
	assert.ErrorIs(t, res.Err, ErrInternalFault)

	from := accountAt(t, base, sender)
	assert.Equal(t, uint64(0), from.Nonce, "faulted processing must leave state untouched")
	assert.Equal(t, uint256.NewInt(100), from.Balance)
}

func TestProcessDeterminism(t *testing.T) {
	run := func() (*ProcessingResult, *state.Account, *state.Account) {
		base := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(1000)}})
		p := newProcessor(t, vm.NoopExecutor{}, nil)
		tx := transferTx(0, 123)
		res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)
		return res, accountAt(t, base, sender), accountAt(t, base, recipient)
	}

	res1, from1, to1 := run()
	res2, from2, to2 := run()
	assert.Equal(t, res1, res2)
	assert.Equal(t, from1, from2)
	assert.Equal(t, to1, to2)
}

func TestProcessLayeredOverPublicReader(t *testing.T) {
	// The sender exists only in the public layer; execution reads through
	// to it but commits into the private layer exclusively.
	public := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(500)}})
	private := state.NewMemoryState()
	p := newProcessor(t, vm.NoopExecutor{}, nil)

	tx := transferTx(0, 200)
	res := p.ProcessTransaction(private, public, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Successful, res.Status)

	pub := accountAt(t, public, sender)
	assert.Equal(t, uint64(0), pub.Nonce, "public layer must never be written")
	assert.Equal(t, uint256.NewInt(500), pub.Balance)

	priv := accountAt(t, private, sender)
	require.NotNil(t, priv)
	assert.Equal(t, uint64(1), priv.Nonce)
	assert.Equal(t, uint256.NewInt(300), priv.Balance)
	assert.Equal(t, uint256.NewInt(200), accountAt(t, private, recipient).Balance)
}

func TestProcessPrivateCreationAddressSalted(t *testing.T) {
	deployed := []byte{0x01}
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		f.Succeed(deployed)
	})
	groupID := []byte("group-a")
	base := stateWith(t, GenesisAlloc{sender: {Balance: uint256.NewInt(10)}})
	p := newProcessor(t, exec, nil)

	tx := &types.Transaction{Sender: sender, Nonce: 0, GasLimit: 100000, Payload: []byte{0x01}}
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, groupID)

	require.Equal(t, Successful, res.Status)
	salted := crypto.CreatePrivateAddress(sender, 0, groupID)
	assert.NotEqual(t, crypto.CreateAddress(sender, 0), salted)
	created := accountAt(t, base, salted)
	require.NotNil(t, created)
	assert.Equal(t, deployed, created.Code)
}

func TestProcessClearsEmptyTouchedAccounts(t *testing.T) {
	touched := common.Address{0x77}
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		// Touch an account without giving it nonce, balance or code.
		_, err := f.WorldState().GetOrCreate(touched)
		require.NoError(t, err)
		f.Succeed(nil)
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(10)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, nil)

	tx := transferTx(0, 0)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)

	require.Equal(t, Successful, res.Status)
	assert.Nil(t, accountAt(t, base, touched), "empty touched accounts are cleared")
	assert.NotNil(t, accountAt(t, base, sender))
}

func TestProcessEmitsLifecycleHooks(t *testing.T) {
	var nonceChanges, enters, exits, logs int
	hooks := &tracing.Hooks{
		OnNonceChange: func(addr common.Address, prev, new uint64) {
			nonceChanges++
			assert.Equal(t, sender, addr)
			assert.Equal(t, prev+1, new)
		},
		OnEnter: func(int, byte, common.Address, common.Address, []byte, uint64, *uint256.Int) { enters++ },
		OnExit:  func(int, []byte, uint64, error, bool) { exits++ },
		OnLog:   func(*types.Log) { logs++ },
	}
	exec := vm.ExecutorFunc(func(f *vm.Frame, _ *tracing.Hooks) {
		f.AddLog(&types.Log{Address: f.Address()})
		f.Succeed(nil)
	})
	base := stateWith(t, GenesisAlloc{
		sender:    {Balance: uint256.NewInt(10)},
		recipient: {Code: []byte{0x01}},
	})
	p := newProcessor(t, exec, nil)

	tx := transferTx(0, 1)
	res := p.ProcessTransaction(base, nil, vm.BlockContext{}, tx.Hash(), tx, hooks, nil)

	require.Equal(t, Successful, res.Status)
	assert.Equal(t, 1, nonceChanges)
	assert.Equal(t, 1, enters)
	assert.Equal(t, 1, exits)
	assert.Equal(t, 1, logs)
	require.Len(t, res.Logs, 1)
}

func TestValidatorClassifications(t *testing.T) {
	v := NewTransactionValidator()
	tx := transferTx(4, 0)

	assert.True(t, v.Validate(tx, 4, false).Valid())
	assert.True(t, v.Validate(tx, 2, true).Valid(), "future nonce allowed by configuration")

	res := v.Validate(tx, 7, false)
	require.False(t, res.Valid())
	assert.Equal(t, NonceTooLow, res.Reason)

	res = v.Validate(tx, 2, false)
	require.False(t, res.Valid())
	assert.Equal(t, IncorrectNonce, res.Reason)
}
