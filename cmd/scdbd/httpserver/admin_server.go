// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"

	"github.com/mplatt8/mainchain/api/admin"
	"github.com/mplatt8/mainchain/health"
)

// StartAdminServer serves the log level and health endpoints under /admin.
func StartAdminServer(addr string, logLevel *slog.LevelVar, healthStatus *health.Health) (string, func(), error) {
	return serve("admin", addr, "/admin", admin.New(logLevel, healthStatus))
}
