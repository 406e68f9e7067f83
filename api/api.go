// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mplatt8/mainchain/api/commitment"
	"github.com/mplatt8/mainchain/api/outcomes"
	"github.com/mplatt8/mainchain/api/sidechains"
	"github.com/mplatt8/mainchain/api/snapshots"
	"github.com/mplatt8/mainchain/api/votes"
	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/scdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(db *scdb.SCDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	sidechains.New(db).
		Mount(router, "/sidechains")
	votes.New(db).
		Mount(router, "/votes")
	snapshots.New(db).
		Mount(router, "/snapshots")
	commitment.New(db).
		Mount(router, "/commitment")
	outcomes.New(db).
		Mount(router, "/outcomes")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
