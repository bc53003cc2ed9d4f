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
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/common"
)

func testAccount() *Account {
	return &Account{
		Nonce:   7,
		Balance: uint256.NewInt(1234567),
		Code:    []byte{0x60, 0x00, 0x60, 0x00},
		Storage: map[common.Hash]common.Hash{
			common.BytesToHash([]byte{1}): common.BytesToHash([]byte{0xff}),
			common.BytesToHash([]byte{2}): common.BytesToHash([]byte{0xee}),
		},
	}
}

func TestAccountCodecRoundTrip(t *testing.T) {
	want := testAccount()
	got, err := decodeAccount(encodeAccount(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Encoding is deterministic regardless of map iteration order.
	assert.Equal(t, encodeAccount(want), encodeAccount(want.Copy()))
}

func TestAccountCodecRejectsTruncated(t *testing.T) {
	data := encodeAccount(testAccount())
	for _, cut := range []int{1, 8, 40, len(data) - 1} {
		_, err := decodeAccount(data[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestAccountCodecRejectsOversizedCodeLength(t *testing.T) {
	// A corrupt code-length word near MaxUint32 must surface as a decode
	// error, not an out-of-range slice.
	data := encodeAccount(testAccount())
	binary.BigEndian.PutUint32(data[40:44], 0xFFFFFFFD)
	require.NotPanics(t, func() {
		_, err := decodeAccount(data)
		assert.Error(t, err)
	})
}

func TestLevelDBStatePersists(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenLevelDB(dir)
	require.NoError(t, err)

	want := testAccount()
	require.NoError(t, db.Apply(&Update{Accounts: map[common.Address]*Account{addrA: want}}))

	got, err := db.Account(addrA)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing, err := db.Account(addrB)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.Close())

	// Reopen and read back.
	db, err = OpenLevelDB(dir)
	require.NoError(t, err)
	defer db.Close()

	got, err = db.Account(addrA)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLevelDBStateDelete(t *testing.T) {
	db, err := OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Apply(&Update{Accounts: map[common.Address]*Account{addrA: testAccount()}}))
	require.NoError(t, db.Apply(&Update{Deleted: []common.Address{addrA}}))

	got, err := db.Account(addrA)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdaterCommitsToLevelDB(t *testing.T) {
	db, err := OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	u := NewUpdater(db)
	obj, err := u.CreateAccount(addrA, 0, uint256.NewInt(99))
	require.NoError(t, err)
	obj.SetState(common.BytesToHash([]byte{1}), common.BytesToHash([]byte{2}))
	require.NoError(t, u.Commit())

	acct, err := db.Account(addrA)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, uint256.NewInt(99), acct.Balance)
	assert.Equal(t, common.BytesToHash([]byte{2}), acct.Storage[common.BytesToHash([]byte{1})])
}
