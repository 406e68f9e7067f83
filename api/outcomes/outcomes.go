// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package outcomes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/scdb"
)

type Outcomes struct {
	db *scdb.SCDB
}

func New(db *scdb.SCDB) *Outcomes {
	return &Outcomes{db}
}

func (o *Outcomes) handleGetOutcome(w http.ResponseWriter, req *http.Request) error {
	hash, err := mainchain.ParseBytes32(mux.Vars(req)["hash"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "hash"))
	}
	outcome, err := o.db.Outcome(hash)
	if err != nil {
		return utils.StatusError(err)
	}
	return utils.WriteJSON(w, outcome)
}

func (o *Outcomes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{hash}").
		Methods(http.MethodGet).
		Name("outcomes_get").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetOutcome))
}
