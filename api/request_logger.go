// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/mplatt8/mainchain/log"
)

// maxLoggedBody caps the request body bytes copied into a log record.
const maxLoggedBody = 1024

// RequestLoggerHandler logs each request once it is served, with its
// response status and a prefix of its body. The body stays readable for the
// wrapped handler.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("failed to read request body", "uri", r.URL.String(), "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		m := httpsnoop.CaptureMetrics(handler, w, r)

		logged := body
		if len(logged) > maxLoggedBody {
			logged = logged[:maxLoggedBody]
		}
		logger.Info("served request",
			"method", r.Method,
			"uri", r.URL.String(),
			"status", m.Code,
			"elapsed", m.Duration,
			"written", m.Written,
			"body", string(logged),
		)
	})
}
