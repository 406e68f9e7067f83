// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/metrics"
)

// StartMetricsServer exposes the prometheus meters at /metrics. Metrics must
// be initialized first.
func StartMetricsServer(addr string) (string, func(), error) {
	h := metrics.HTTPHandler()
	if h == nil {
		return "", nil, errors.New("metrics are not enabled")
	}
	router := mux.NewRouter()
	router.Path("/metrics").Handler(h)
	return serve("metrics", addr, "/metrics", handlers.CompressHandler(router))
}
