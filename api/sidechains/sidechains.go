// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sidechains

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/scdb"
)

type Sidechains struct {
	db *scdb.SCDB
}

func New(db *scdb.SCDB) *Sidechains {
	return &Sidechains{db}
}

func (s *Sidechains) handleGetSidechains(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, s.db.ActiveSidechains())
}

func (s *Sidechains) handleAddSidechain(w http.ResponseWriter, req *http.Request) error {
	var sc registry.Sidechain
	if err := utils.ParseJSON(req.Body, &sc); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.db.AddSidechain(sc); err != nil {
		return utils.StatusError(err)
	}
	return utils.WriteJSON(w, &sc)
}

func (s *Sidechains) handleRemoveSidechain(w http.ResponseWriter, req *http.Request) error {
	slot, err := utils.ParseSlot(mux.Vars(req)["slot"])
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := s.db.RemoveSidechain(slot); err != nil {
		return utils.StatusError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Sidechains) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("sidechains_get").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSidechains))
	sub.Path("").
		Methods(http.MethodPost).
		Name("sidechains_add").
		HandlerFunc(utils.WrapHandlerFunc(s.handleAddSidechain))
	sub.Path("/{slot}").
		Methods(http.MethodDelete).
		Name("sidechains_remove").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRemoveSidechain))
}
