// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitment

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"

	"github.com/mplatt8/mainchain/api/utils"
	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/scdb"
)

// Commitment is the commitment the next block should carry.
type Commitment struct {
	Height   uint64 `json:"height"`
	Required bool   `json:"required"`
	// Hex is the payload after the fixed prefix.
	Hex string `json:"hex"`
	// Script is the full output script.
	Script string `json:"script"`
}

type Commitments struct {
	db *scdb.SCDB
}

func New(db *scdb.SCDB) *Commitments {
	return &Commitments{db}
}

func (c *Commitments) handleGetCommitment(w http.ResponseWriter, req *http.Request) error {
	pending, err := c.db.NextState()
	if err != nil {
		return err
	}
	out := &Commitment{Height: pending.Height}
	if pending.Script != nil {
		out.Required = true
		out.Hex = m4.PayloadHex(pending.Script)
		out.Script = hexutil.Encode(pending.Script)
	}
	return utils.WriteJSON(w, out)
}

func (c *Commitments) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("commitment_get").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCommitment))
}
