// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/vote"
)

// SlotVote is the vote of one slot. Vote is "abstain", "downvote" or a bundle hash.
type SlotVote struct {
	Slot mainchain.SlotID `json:"slot"`
	Vote vote.Vote        `json:"vote"`
}

type SetVoteRequest struct {
	Vote vote.Vote `json:"vote"`
}
