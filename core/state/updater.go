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

package state

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
)

var (
	// ErrAccountExists is returned when creating an account at an address
	// that already holds one.
	ErrAccountExists = errors.New("account already exists")

	// ErrAlreadyCommitted is returned when an updater is committed twice.
	ErrAlreadyCommitted = errors.New("updater already committed")
)

// Updater is a mutable overlay on a state layer. Reads fall through the
// pending change set to the commit target and, when layered, to an
// additional fallback source; writes accumulate locally and reach the
// target only through Commit. Discard drops the pending changes.
//
// An updater serves exactly one execution at a time; concurrent use
// requires a fresh updater per execution.
type Updater struct {
	target    WorldState // commit destination, first read fallback
	fallback  Reader     // optional second read fallback (layered mode)
	pending   map[common.Address]*stateObject
	deleted   mapset.Set[common.Address]
	committed bool
}

// NewUpdater returns an overlay whose reads fall through to target and
// whose commit folds the pending changes into target.
func NewUpdater(target WorldState) *Updater {
	return &Updater{
		target:  target,
		pending: make(map[common.Address]*stateObject),
		deleted: mapset.NewThreadUnsafeSet[common.Address](),
	}
}

// NewLayeredUpdater returns an overlay for isolated execution: reads that
// neither the pending set nor target can satisfy are forwarded to fallback,
// while commits only ever reach target. This is the private-over-public
// composition: the public fallback is never mutated.
func NewLayeredUpdater(target WorldState, fallback Reader) *Updater {
	u := NewUpdater(target)
	u.fallback = fallback
	return u
}

// Account implements Reader, letting an updater serve as the backing layer
// of another updater. The returned account is a snapshot copy.
func (u *Updater) Account(addr common.Address) (*Account, error) {
	if u.deleted.Contains(addr) {
		return nil, nil
	}
	if obj, ok := u.pending[addr]; ok {
		return obj.data.Copy(), nil
	}
	return u.readThrough(addr)
}

// readThrough resolves addr against the layers beneath the pending set.
func (u *Updater) readThrough(addr common.Address) (*Account, error) {
	acct, err := u.target.Account(addr)
	if err != nil {
		return nil, err
	}
	if acct == nil && u.fallback != nil {
		return u.fallback.Account(addr)
	}
	return acct, nil
}

// GetAccount returns a mutable handle to the account at addr, or nil if no
// account exists there. The first access pulls the account into the pending
// set, so the account counts as touched from then on.
func (u *Updater) GetAccount(addr common.Address) (*stateObject, error) {
	if u.deleted.Contains(addr) {
		return nil, nil
	}
	if obj, ok := u.pending[addr]; ok {
		return obj, nil
	}
	acct, err := u.readThrough(addr)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, nil
	}
	obj := newObject(u, addr, acct)
	u.pending[addr] = obj
	return obj, nil
}

// CreateAccount creates a fresh account at addr. It fails with
// ErrAccountExists if any account, pending or committed, occupies the
// address already.
func (u *Updater) CreateAccount(addr common.Address, nonce uint64, balance *uint256.Int) (*stateObject, error) {
	existing, err := u.Account(addr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	obj := newObject(u, addr, NewAccount(nonce, balance))
	u.pending[addr] = obj
	u.deleted.Remove(addr)
	return obj, nil
}

// GetOrCreate returns the account at addr, creating a zero account when
// none exists.
func (u *Updater) GetOrCreate(addr common.Address) (*stateObject, error) {
	obj, err := u.GetAccount(addr)
	if err != nil || obj != nil {
		return obj, err
	}
	return u.CreateAccount(addr, 0, nil)
}

// DeleteAccount marks the account at addr for removal. The deletion takes
// effect beneath this layer only on commit.
func (u *Updater) DeleteAccount(addr common.Address) {
	delete(u.pending, addr)
	u.deleted.Add(addr)
}

// TouchedAccounts enumerates the accounts read or written through this
// updater during the current execution.
func (u *Updater) TouchedAccounts() []*stateObject {
	touched := make([]*stateObject, 0, len(u.pending))
	for _, obj := range u.pending {
		touched = append(touched, obj)
	}
	return touched
}

// Commit atomically folds the pending change set into the commit target.
// A second commit of the same updater is an error: the orchestration layer
// guarantees commit happens at most once per transaction.
func (u *Updater) Commit() error {
	if u.committed {
		return ErrAlreadyCommitted
	}
	update := &Update{
		Accounts: make(map[common.Address]*Account, len(u.pending)),
		Deleted:  u.deleted.ToSlice(),
	}
	for addr, obj := range u.pending {
		update.Accounts[addr] = obj.data.Copy()
	}
	if err := u.target.Apply(update); err != nil {
		return err
	}
	u.committed = true
	return nil
}

// Discard drops all pending mutations without touching the layers beneath.
func (u *Updater) Discard() {
	u.pending = make(map[common.Address]*stateObject)
	u.deleted = mapset.NewThreadUnsafeSet[common.Address]()
}

// Apply implements WorldState by merging a committed child batch into this
// updater's pending change set.
func (u *Updater) Apply(update *Update) error {
	for _, addr := range update.Deleted {
		u.DeleteAccount(addr)
	}
	for addr, acct := range update.Accounts {
		u.pending[addr] = newObject(u, addr, acct.Copy())
		u.deleted.Remove(addr)
	}
	return nil
}
