// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package outcomes

import (
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

func httpGet(t *testing.T, url string) (string, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(data), res.StatusCode
}

func TestOutcomes(t *testing.T) {
	chain, err := testscdb.New(registry.Sidechain{Slot: 4})
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.SCDB()).Mount(router, "/outcomes")
	ts := httptest.NewServer(router)
	defer ts.Close()

	accepted, expired := datagen.RandomHash(), datagen.RandomHash()
	_, err = chain.MintBlock(
		scdb.Proposal{Slot: 4, Bundle: accepted},
		scdb.Proposal{Slot: 4, Bundle: expired},
	)
	require.NoError(t, err)

	_, code := httpGet(t, ts.URL+"/outcomes/"+accepted.String())
	assert.Equal(t, http.StatusNotFound, code)

	require.NoError(t, chain.SCDB().SetVote(4, vote.NewUpvote(accepted)))
	for i := 0; i < 5; i++ {
		_, err = chain.MintBlock()
		require.NoError(t, err)
	}

	body, code := httpGet(t, ts.URL+"/outcomes/"+accepted.String())
	require.Equal(t, http.StatusOK, code, body)
	assert.JSONEq(t, `{"slot":4,"bundle":"`+accepted.String()+`","height":3,"status":"accepted"}`, body)

	body, code = httpGet(t, ts.URL+"/outcomes/"+expired.String())
	require.Equal(t, http.StatusOK, code, body)
	assert.JSONEq(t, `{"slot":4,"bundle":"`+expired.String()+`","height":6,"status":"expired"}`, body)

	_, code = httpGet(t, ts.URL+"/outcomes/0x1234")
	assert.Equal(t, http.StatusBadRequest, code)
}
