// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/snapshot"
)

const (
	defaultCount = 10
	maxCount     = 256
)

type Snapshots struct {
	db *scdb.SCDB
}

func New(db *scdb.SCDB) *Snapshots {
	return &Snapshots{db}
}

func (s *Snapshots) handleGetSnapshot(w http.ResponseWriter, req *http.Request) error {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"], true)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}

	if revision.IsNext() {
		pending, err := s.db.NextState()
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertPending(pending))
	}

	var snap *snapshot.Snapshot
	if h, ok := revision.Height(); ok {
		snap, err = s.db.StateAt(h)
	} else {
		snap, err = s.db.Latest()
	}
	if err != nil {
		return utils.StatusError(err)
	}
	return utils.WriteJSON(w, convertSnapshot(snap))
}

func parseHeight(req *http.Request, name string, def uint64) (uint64, error) {
	v := req.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

func (s *Snapshots) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	from, err := parseHeight(req, "from", s.db.Tip())
	if err != nil {
		return err
	}

	count := defaultCount
	if v := req.URL.Query().Get("count"); v != "" {
		if count, err = strconv.Atoi(v); err != nil || count < 0 {
			return utils.BadRequest(errors.New("count: should be a non-negative integer"))
		}
		if count > maxCount {
			return utils.BadRequest(errors.Errorf("count: exceeds limit %d", maxCount))
		}
	}

	var newestFirst bool
	switch order := req.URL.Query().Get("order"); order {
	case "", "desc":
		newestFirst = true
	case "asc":
	default:
		return utils.BadRequest(errors.New("order: should be asc or desc"))
	}

	snaps, err := s.db.SnapshotRange(from, count, newestFirst)
	if err != nil {
		return utils.StatusError(err)
	}
	out := make([]*Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, convertSnapshot(snap))
	}
	return utils.WriteJSON(w, out)
}

func (s *Snapshots) handleGetDelta(w http.ResponseWriter, req *http.Request) error {
	tip := s.db.Tip()
	to, err := parseHeight(req, "to", tip)
	if err != nil {
		return err
	}
	var def uint64
	if to > 0 {
		def = to - 1
	}
	from, err := parseHeight(req, "from", def)
	if err != nil {
		return err
	}
	if from > to {
		return utils.BadRequest(errors.New("from: should not exceed to"))
	}

	deltas, err := s.db.Delta(from, to)
	if err != nil {
		return utils.StatusError(err)
	}
	return utils.WriteJSON(w, deltas)
}

func (s *Snapshots) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("snapshots_get_history").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetHistory))
	sub.Path("/delta").
		Methods(http.MethodGet).
		Name("snapshots_get_delta").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelta))
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("snapshots_get_snapshot").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSnapshot))
}
