// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/health"
)

// mainchain blocks come about every ten minutes, allow for variance
const defaultMaxTimeBetweenBlocks = time.Hour

type API struct {
	healthStatus *health.Health
}

func NewAPI(healthStatus *health.Health) *API {
	return &API{
		healthStatus: healthStatus,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxTimeBetweenBlocks := defaultMaxTimeBetweenBlocks
	if v := r.URL.Query().Get("maxTimeBetweenBlocks"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxTimeBetweenBlocks"))
		}
		maxTimeBetweenBlocks = parsed
	}

	acc := h.healthStatus.Status(maxTimeBetweenBlocks)
	if !acc.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, acc)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
