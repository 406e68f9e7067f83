// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net/http"
	"time"
)

const maxBodySize = 256 * 1024

// StartAPIServer serves the SCDB API. Requests running longer than timeout
// are answered with 503, a zero timeout disables the limit.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timeout")
	}
	return serve("API", addr, "/", requestBodyLimit(handler))
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		h.ServeHTTP(w, r)
	})
}
