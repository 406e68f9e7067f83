// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshots

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/test/datagen"
	"github.com/mplatt8/mainchain/test/testscdb"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

var ts *httptest.Server

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func TestSnapshots(t *testing.T) {
	chain, err := testscdb.New(registry.Sidechain{Slot: 1, Title: "one"})
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.SCDB()).Mount(router, "/snapshots")
	ts = httptest.NewServer(router)
	defer ts.Close()

	bundle := datagen.RandomHash()
	_, err = chain.MintBlock(scdb.Proposal{Slot: 1, Bundle: bundle})
	require.NoError(t, err)
	require.NoError(t, chain.SCDB().SetVote(1, vote.NewUpvote(bundle)))
	for i := 0; i < 3; i++ {
		_, err = chain.MintBlock()
		require.NoError(t, err)
	}

	for name, tt := range map[string]func(*testing.T){
		"snapshot":        func(t *testing.T) { testGetSnapshot(t, bundle) },
		"next":            testGetNext,
		"history":         testGetHistory,
		"delta":           testGetDelta,
		"invalid queries": testInvalidQueries,
	} {
		t.Run(name, tt)
	}
}

func testGetSnapshot(t *testing.T, bundle mainchain.Bytes32) {
	body, code := httpGet(t, ts.URL+"/snapshots/2")
	require.Equal(t, http.StatusOK, code, string(body))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, uint64(2), snap.Height)
	require.Len(t, snap.Bundles, 1)
	assert.Equal(t, withdrawal.State{Slot: 1, BundleHash: bundle, WorkScore: 2, BlocksRemaining: 4}, snap.Bundles[0])
	assert.False(t, snap.Pending)

	body, code = httpGet(t, ts.URL+"/snapshots/latest")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, uint64(4), snap.Height)
	assert.Empty(t, snap.Bundles, "accepted at 3, dropped at 4")

	body, code = httpGet(t, ts.URL+"/snapshots/0")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"height":0,"digest":"`+withdrawal.Table{}.Digest().String()+`","bundles":[]}`, string(body))

	_, code = httpGet(t, ts.URL+"/snapshots/5")
	assert.Equal(t, http.StatusNotFound, code)
}

func testGetNext(t *testing.T) {
	body, code := httpGet(t, ts.URL+"/snapshots/next")
	require.Equal(t, http.StatusOK, code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, uint64(5), snap.Height)
	assert.True(t, snap.Pending)
	// the vote targets a bundle no longer in the table
	assert.Len(t, snap.Warnings, 1)
}

func testGetHistory(t *testing.T) {
	heights := func(url string) []uint64 {
		body, code := httpGet(t, url)
		require.Equal(t, http.StatusOK, code, string(body))
		var snaps []*Snapshot
		require.NoError(t, json.Unmarshal(body, &snaps))
		out := make([]uint64, 0, len(snaps))
		for _, s := range snaps {
			out = append(out, s.Height)
		}
		return out
	}

	assert.Equal(t, []uint64{4, 3, 2, 1, 0}, heights(ts.URL+"/snapshots"))
	assert.Equal(t, []uint64{2, 3}, heights(ts.URL+"/snapshots?from=3&count=2&order=asc"))
	assert.Equal(t, []uint64{1, 0}, heights(ts.URL+"/snapshots?from=1&count=5"))
}

func testGetDelta(t *testing.T) {
	body, code := httpGet(t, ts.URL+"/snapshots/delta?from=2&to=3")
	require.Equal(t, http.StatusOK, code, string(body))

	var deltas []*snapshot.SlotDelta
	require.NoError(t, json.Unmarshal(body, &deltas))
	require.Len(t, deltas, 1)
	assert.Equal(t, uint16(2), deltas[0].Bundles[0].PrevWorkScore)
	assert.Equal(t, uint16(3), deltas[0].Bundles[0].WorkScore)
	assert.Equal(t, withdrawal.Accepted, deltas[0].Bundles[0].Status)

	// defaults to the latest block
	body, code = httpGet(t, ts.URL+"/snapshots/delta")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func testInvalidQueries(t *testing.T) {
	for _, path := range []string{
		"/snapshots/abc",
		"/snapshots?count=-1",
		"/snapshots?count=1000",
		"/snapshots?order=up",
		"/snapshots?from=x",
		"/snapshots/delta?from=3&to=2",
	} {
		_, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusBadRequest, code, path)
	}
	_, code := httpGet(t, ts.URL+"/snapshots?from=9")
	assert.Equal(t, http.StatusNotFound, code)
}
