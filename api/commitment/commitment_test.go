// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitment

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/test/datagen"
	"github.com/mplatt8/mainchain/test/testscdb"
	"github.com/mplatt8/mainchain/vote"
)

func getCommitment(t *testing.T, url string) *Commitment {
	res, err := http.Get(url + "/commitment") //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var c Commitment
	require.NoError(t, json.Unmarshal(data, &c))
	return &c
}

func TestCommitment(t *testing.T) {
	chain, err := testscdb.New(registry.Sidechain{Slot: 0}, registry.Sidechain{Slot: 2})
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.SCDB()).Mount(router, "/commitment")
	ts := httptest.NewServer(router)
	defer ts.Close()

	// nothing to score yet
	assert.Equal(t, &Commitment{Height: 1}, getCommitment(t, ts.URL))

	a, b := datagen.RandomHash(), datagen.RandomHash()
	_, err = chain.MintBlock(
		scdb.Proposal{Slot: 0, Bundle: a},
		scdb.Proposal{Slot: 2, Bundle: a},
		scdb.Proposal{Slot: 2, Bundle: b},
	)
	require.NoError(t, err)

	assert.Equal(t, &Commitment{
		Height:   2,
		Required: true,
		Hex:      "ffff",
		Script:   "0x6ad77d177601ffff",
	}, getCommitment(t, ts.URL))

	require.NoError(t, chain.SCDB().SetVotes(vote.Set{
		0: vote.NewDownvote(),
		2: vote.NewUpvote(b),
	}))
	assert.Equal(t, &Commitment{
		Height:   2,
		Required: true,
		Hex:      "fe01",
		Script:   "0x6ad77d177601fe01",
	}, getCommitment(t, ts.URL))

	hex, err := chain.SCDB().CommitmentHex()
	require.NoError(t, err)
	assert.Equal(t, "fe01", hex)
}
