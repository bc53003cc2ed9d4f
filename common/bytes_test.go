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

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesJSON(t *testing.T) {
	encoded, err := json.Marshal(Bytes{0x60, 0x01})
	require.NoError(t, err)
	assert.Equal(t, `"0x6001"`, string(encoded))

	var decoded Bytes
	require.NoError(t, json.Unmarshal([]byte(`"0x6001"`), &decoded))
	assert.Equal(t, Bytes{0x60, 0x01}, decoded)

	// The 0x prefix is optional on input.
	require.NoError(t, json.Unmarshal([]byte(`"6001"`), &decoded))
	assert.Equal(t, Bytes{0x60, 0x01}, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0xzz"`), &decoded))

	empty, err := json.Marshal(Bytes{})
	require.NoError(t, err)
	assert.Equal(t, `"0x"`, string(empty))
}
