// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplatt8/mainchain/mainchain"
)

func TestParse(t *testing.T) {
	h := mainchain.Blake2b([]byte("bundle"))

	tests := []struct {
		in      string
		want    Vote
		wantErr bool
	}{
		{"", NewAbstain(), false},
		{"a", NewAbstain(), false},
		{"Abstain", NewAbstain(), false},
		{"x", NewDownvote(), false},
		{"alarm", NewDownvote(), false},
		{"downvote", NewDownvote(), false},
		{h.String(), NewUpvote(h), false},
		{h.String()[2:], NewUpvote(h), false},
		{"upvote", Vote{}, true},
		{"0x1234", Vote{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// textual form parses back
			again, err := Parse(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestSetDefaultsToAbstain(t *testing.T) {
	h := mainchain.Blake2b([]byte("bundle"))
	s := Set{1: NewUpvote(h), 3: NewDownvote(), 4: NewAbstain()}

	assert.Equal(t, NewAbstain(), s.Get(0))
	assert.Equal(t, NewUpvote(h), s.Get(1))
	assert.Equal(t, []mainchain.SlotID{1, 3}, s.Slots())

	c := s.Clone()
	assert.Len(t, c, 2)
	c[1] = NewDownvote()
	assert.Equal(t, Upvote, s.Get(1).Kind)
}

func TestVoteJSONText(t *testing.T) {
	h := mainchain.Blake2b([]byte("bundle"))
	s := Set{1: NewUpvote(h), 2: NewDownvote()}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"`+h.String()+`","2":"downvote"}`, string(data))

	var decoded Set
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}
