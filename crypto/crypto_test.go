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

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/common"
)

func TestKeccak256KnownVector(t *testing.T) {
	// Keccak256 of the empty input.
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	assert.Equal(t, want, common.Bytes2Hex(Keccak256()))
	assert.Equal(t, want, common.Bytes2Hex(Keccak256Hash().Bytes()))
}

func TestKeccak256Deterministic(t *testing.T) {
	msg := []byte("abc")
	assert.Equal(t, Keccak256(msg), Keccak256(msg))
	assert.NotEqual(t, Keccak256(msg), Keccak256([]byte("abd")))
}

func TestCreateAddress(t *testing.T) {
	sender, err := common.ParseAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")
	require.NoError(t, err)

	addr0 := CreateAddress(sender, 0)
	addr1 := CreateAddress(sender, 1)
	assert.NotEqual(t, addr0, addr1)
	assert.NotEqual(t, common.Address{}, addr0)

	// Same inputs derive the same address.
	assert.Equal(t, addr0, CreateAddress(sender, 0))
}

func TestCreatePrivateAddressGroupIsolation(t *testing.T) {
	sender, err := common.ParseAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")
	require.NoError(t, err)

	groupA := []byte("group-a")
	groupB := []byte("group-b")

	inA := CreatePrivateAddress(sender, 0, groupA)
	inB := CreatePrivateAddress(sender, 0, groupB)
	assert.NotEqual(t, inA, inB)
	assert.Equal(t, inA, CreatePrivateAddress(sender, 0, groupA))

	// An empty group id degrades to the public derivation.
	assert.Equal(t, CreateAddress(sender, 7), CreatePrivateAddress(sender, 7, nil))
}
