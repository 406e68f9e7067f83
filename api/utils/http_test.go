// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/tally"
	"github.com/mplatt8/mainchain/withdrawal"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad slot")), http.StatusBadRequest, "bad slot\n"},
		{"not found", StatusError(mainchain.NotFoundf("height 9")), http.StatusNotFound, "height 9\n"},
		{"conflict", StatusError(errors.Wrap(mainchain.Conflictf("slot 1 taken"), "add")), http.StatusConflict, "add: slot 1 taken\n"},
		{"capacity", StatusError(mainchain.Capacityf("full")), http.StatusBadRequest, "full\n"},
		{"wrapped status", errors.WithMessage(HTTPError(errors.New("gone"), http.StatusGone), "get"), http.StatusGone, "get: gone\n"},
		{"unknown", StatusError(errors.New("boom")), http.StatusInternalServerError, "boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error { return tt.err })
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
		})
	}
}

func TestDecodeErrorIsBadRequest(t *testing.T) {
	codec := m4.NewCodec(tally.New(mainchain.DefaultParams()))
	_, err := codec.DecodeVotes([]byte{0x00}, withdrawal.Table{})
	require.True(t, m4.IsDecodeError(err))

	rr := httptest.NewRecorder()
	WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return StatusError(err) })(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Slot int `json:"slot"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"slot":3}`), &v))
	assert.Equal(t, 3, v.Slot)

	assert.Error(t, ParseJSON(strings.NewReader(`{"slot":3,"extra":1}`), &v))
	assert.Error(t, ParseJSON(strings.NewReader(`{`), &v))
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rr, map[string]int{"height": 1}))

	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"height":1}`, rr.Body.String())
}
