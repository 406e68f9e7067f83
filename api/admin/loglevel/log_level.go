// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package loglevel reads and changes the process log level at runtime.
package loglevel

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/log"
)

var logger = log.WithContext("pkg", "loglevel")

// Request changes the level. Level is a name (trace to crit) or a legacy
// verbosity digit.
type Request struct {
	Level string `json:"level"`
}

// Response carries the level name in effect.
type Response struct {
	CurrentLevel string `json:"currentLevel"`
}

type LogLevel struct {
	level *slog.LevelVar
}

func New(level *slog.LevelVar) *LogLevel {
	return &LogLevel{level}
}

func (l *LogLevel) current() Response {
	return Response{CurrentLevel: log.LevelString(l.level.Level())}
}

func (l *LogLevel) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, l.current())
}

func (l *LogLevel) handleSet(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	level, err := parseLevel(req.Level)
	if err != nil {
		return utils.BadRequest(err)
	}
	if prev := l.level.Level(); prev != level {
		l.level.Set(level)
		logger.Info("log level changed", "from", log.LevelString(prev), "to", log.LevelString(level))
	}
	return utils.WriteJSON(w, l.current())
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").Methods(http.MethodGet).Name("loglevel_get").HandlerFunc(utils.WrapHandlerFunc(l.handleGet))
	sub.Path("").Methods(http.MethodPost).Name("loglevel_set").HandlerFunc(utils.WrapHandlerFunc(l.handleSet))
}

var byName = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func parseLevel(s string) (slog.Level, error) {
	if level, ok := byName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= log.LegacyLevelCrit && n <= log.LegacyLevelTrace {
		return log.FromLegacyLevel(n), nil
	}
	return 0, errors.Errorf("unknown log level %q", s)
}
