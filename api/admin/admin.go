// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin assembles the operator endpoints. They are served on their
// own listener, never next to the public API.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	healthAPI "github.com/mplatt8/mainchain/api/admin/health"
	"github.com/mplatt8/mainchain/api/admin/loglevel"
	"github.com/mplatt8/mainchain/health"
)

const prefix = "/admin"

// New routes /admin/loglevel to logLevel and /admin/health to healthStatus.
func New(logLevel *slog.LevelVar, healthStatus *health.Health) http.Handler {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	loglevel.New(logLevel).Mount(router, prefix+"/loglevel")
	healthAPI.NewAPI(healthStatus).Mount(router, prefix+"/health")

	return handlers.CompressHandler(router)
}
