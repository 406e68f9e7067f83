// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/vote"
)

type Votes struct {
	db *scdb.SCDB
}

func New(db *scdb.SCDB) *Votes {
	return &Votes{db}
}

func (v *Votes) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	current := v.db.CurrentVotes()
	out := make([]*SlotVote, 0, len(current))
	for slot, vt := range current {
		out = append(out, &SlotVote{slot, vt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return utils.WriteJSON(w, out)
}

func (v *Votes) handleSetVote(w http.ResponseWriter, req *http.Request) error {
	slot, err := utils.ParseSlot(mux.Vars(req)["slot"])
	if err != nil {
		return utils.BadRequest(err)
	}
	var body SetVoteRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.db.SetVote(slot, body.Vote); err != nil {
		return utils.StatusError(err)
	}
	return utils.WriteJSON(w, &SlotVote{slot, body.Vote})
}

func (v *Votes) handleSetVotes(w http.ResponseWriter, req *http.Request) error {
	var body []*SlotVote
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	set := make(vote.Set, len(body))
	for _, sv := range body {
		if _, ok := set[sv.Slot]; ok {
			return utils.BadRequest(errors.Errorf("slot %v: duplicate vote", sv.Slot))
		}
		set[sv.Slot] = sv.Vote
	}
	if err := v.db.ReplaceVotes(set); err != nil {
		return utils.StatusError(err)
	}
	return v.handleGetVotes(w, req)
}

func (v *Votes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("votes_get").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVotes))
	sub.Path("").
		Methods(http.MethodPut).
		Name("votes_set_all").
		HandlerFunc(utils.WrapHandlerFunc(v.handleSetVotes))
	sub.Path("/{slot}").
		Methods(http.MethodPut).
		Name("votes_set").
		HandlerFunc(utils.WrapHandlerFunc(v.handleSetVote))
}
