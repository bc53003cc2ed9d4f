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
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/veilchain/veil/common"
)

// Reader provides read access to the accounts of a state layer.
type Reader interface {
	// Account returns the account at the given address, or nil if the
	// address holds no account.
	Account(addr common.Address) (*Account, error)
}

// WorldState is a state layer that can absorb a batch of account changes.
// Both backing stores and updaters implement it, which is what allows
// updaters to be stacked on one another.
type WorldState interface {
	Reader

	// Apply folds a batch of account post-images and deletions into the
	// layer. The batch is applied atomically: either every change lands
	// or none does.
	Apply(update *Update) error
}

// Update is an atomic batch of state changes produced by an updater commit.
type Update struct {
	// Accounts maps addresses to the full post-state of created or
	// modified accounts.
	Accounts map[common.Address]*Account

	// Deleted lists addresses whose accounts are removed.
	Deleted []common.Address
}

// MemoryState is an in-memory WorldState backend, used by tests and for
// ephemeral execution.
type MemoryState struct {
	accounts map[common.Address]*Account
}

// NewMemoryState returns an empty in-memory world state.
func NewMemoryState() *MemoryState {
	return &MemoryState{accounts: make(map[common.Address]*Account)}
}

// Account implements Reader. The returned account is a copy; mutating it
// does not affect the store.
func (s *MemoryState) Account(addr common.Address) (*Account, error) {
	acct, ok := s.accounts[addr]
	if !ok {
		return nil, nil
	}
	return acct.Copy(), nil
}

// Apply implements WorldState.
func (s *MemoryState) Apply(update *Update) error {
	for _, addr := range update.Deleted {
		delete(s.accounts, addr)
	}
	for addr, acct := range update.Accounts {
		s.accounts[addr] = acct.Copy()
	}
	return nil
}

// Len returns the number of accounts held by the store.
func (s *MemoryState) Len() int {
	return len(s.accounts)
}

// accountPrefix namespaces account records in the key-value store.
var accountPrefix = []byte("a")

// LevelDBState is a WorldState persisted in a goleveldb database. Batches
// are written atomically, so a crash between transactions never leaves a
// half-applied update behind.
type LevelDBState struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a persistent world state at path.
func OpenLevelDB(path string) (*LevelDBState, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	return &LevelDBState{db: db}, nil
}

// Account implements Reader.
func (s *LevelDBState) Account(addr common.Address) (*Account, error) {
	data, err := s.db.Get(accountKey(addr), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeAccount(data)
}

// Apply implements WorldState using a single atomic write batch.
func (s *LevelDBState) Apply(update *Update) error {
	batch := new(leveldb.Batch)
	for _, addr := range update.Deleted {
		batch.Delete(accountKey(addr))
	}
	for addr, acct := range update.Accounts {
		batch.Put(accountKey(addr), encodeAccount(acct))
	}
	return s.db.Write(batch, nil)
}

// Close releases the underlying database.
func (s *LevelDBState) Close() error {
	return s.db.Close()
}

func accountKey(addr common.Address) []byte {
	return append(accountPrefix, addr.Bytes()...)
}

// encodeAccount serializes an account as
//
//	nonce (8) | balance (32) | len(code) (4) | code | #slots (4) | slots
//
// with storage slots sorted by key so the encoding is deterministic.
func encodeAccount(acct *Account) []byte {
	var buf bytes.Buffer
	var scratch [8]byte

	binary.BigEndian.PutUint64(scratch[:], acct.Nonce)
	buf.Write(scratch[:])

	var balance [32]byte
	if acct.Balance != nil {
		balance = acct.Balance.Bytes32()
	}
	buf.Write(balance[:])

	binary.BigEndian.PutUint32(scratch[:4], uint32(len(acct.Code)))
	buf.Write(scratch[:4])
	buf.Write(acct.Code)

	keys := make([]common.Hash, 0, len(acct.Storage))
	for k := range acct.Storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	binary.BigEndian.PutUint32(scratch[:4], uint32(len(keys)))
	buf.Write(scratch[:4])
	for _, k := range keys {
		v := acct.Storage[k]
		buf.Write(k[:])
		buf.Write(v[:])
	}
	return buf.Bytes()
}

func decodeAccount(data []byte) (*Account, error) {
	const minLen = 8 + 32 + 4
	if len(data) < minLen {
		return nil, fmt.Errorf("account record too short: %d bytes", len(data))
	}
	acct := &Account{}
	acct.Nonce = binary.BigEndian.Uint64(data[:8])
	data = data[8:]

	acct.Balance = new(uint256.Int).SetBytes(data[:32])
	data = data[32:]

	codeLen := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	// Compare in uint64 so a corrupt length near MaxUint32 cannot wrap the
	// bound past the record size.
	if uint64(len(data)) < uint64(codeLen)+4 {
		return nil, fmt.Errorf("account record truncated in code section")
	}
	if codeLen > 0 {
		acct.Code = common.CopyBytes(data[:codeLen])
	}
	data = data[codeLen:]

	slots := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) != uint64(slots)*64 {
		return nil, fmt.Errorf("account record truncated in storage section")
	}
	if slots > 0 {
		acct.Storage = make(map[common.Hash]common.Hash, slots)
		for i := uint32(0); i < slots; i++ {
			var k, v common.Hash
			copy(k[:], data[:32])
			copy(v[:], data[32:64])
			acct.Storage[k] = v
			data = data[64:]
		}
	}
	return acct, nil
}
