// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshots

import (
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/withdrawal"
)

type Snapshot struct {
	Height  uint64             `json:"height"`
	Digest  mainchain.Bytes32  `json:"digest"`
	Bundles []withdrawal.State `json:"bundles"`
	// Pending is set for the projected next height.
	Pending bool `json:"pending,omitempty"`
	// Warnings lists inert votes of the pending state.
	Warnings []string `json:"warnings,omitempty"`
}

func convertSnapshot(s *snapshot.Snapshot) *Snapshot {
	return &Snapshot{
		Height:  s.Height,
		Digest:  s.Table.Digest(),
		Bundles: s.Table.Flatten(),
	}
}

func convertPending(p *scdb.Pending) *Snapshot {
	warnings := make([]string, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		warnings = append(warnings, w.Error())
	}
	return &Snapshot{
		Height:   p.Height,
		Digest:   p.Table.Digest(),
		Bundles:  p.Table.Flatten(),
		Pending:  true,
		Warnings: warnings,
	}
}
