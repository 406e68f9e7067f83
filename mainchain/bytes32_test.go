// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	digits := strings.Repeat("ab", 32)

	for _, s := range []string{digits, "0x" + digits, "0X" + strings.ToUpper(digits)} {
		b, err := ParseBytes32(s)
		require.NoError(t, err, s)
		assert.Equal(t, "0x"+digits, b.String())
	}

	for _, s := range []string{"", "0x", digits[:62], "0x" + digits + "00", "0x" + strings.Repeat("zz", 32)} {
		_, err := ParseBytes32(s)
		assert.Error(t, err, s)
	}
}

func TestBytes32JSON(t *testing.T) {
	h := Blake2b([]byte("bundle"))

	type holder struct {
		Hash Bytes32            `json:"hash"`
		ByID map[Bytes32]string `json:"byId"`
	}
	data, err := json.Marshal(holder{h, map[Bytes32]string{h: "x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"`+h.String()+`","byId":{"`+h.String()+`":"x"}}`, string(data))

	var got holder
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, h, got.Hash)
	assert.Equal(t, "x", got.ByID[h])

	assert.Error(t, json.Unmarshal([]byte(`{"hash":"0x12"}`), &got))
}

func TestAbbrevString(t *testing.T) {
	var b Bytes32
	b[0], b[31] = 0x12, 0x34
	assert.Equal(t, "0x12000000…00000034", b.AbbrevString())
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}
