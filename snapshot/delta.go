// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

// BundleDelta is the change of one bundle between two heights.
type BundleDelta struct {
	Bundle              mainchain.Bytes32 `json:"bundle"`
	PrevWorkScore       uint16            `json:"prevWorkScore"`
	WorkScore           uint16            `json:"workScore"`
	PrevBlocksRemaining uint16            `json:"prevBlocksRemaining"`
	BlocksRemaining     uint16            `json:"blocksRemaining"`
	Status              withdrawal.Status `json:"status"`
	// New is set when the bundle is absent from the older height.
	New bool `json:"new"`
}

// SlotDelta groups the bundle changes of a slot.
type SlotDelta struct {
	Slot    mainchain.SlotID `json:"slot"`
	Vote    vote.Kind        `json:"vote"`
	Bundles []*BundleDelta   `json:"bundles"`
}

// Delta compares the tables at heights a and b, for every bundle at b.
// Vote is the class the score changes imply.
func (s *Store) Delta(a, b uint64) ([]*SlotDelta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, err := s.snapshot(a)
	if err != nil {
		return nil, err
	}
	to, err := s.snapshot(b)
	if err != nil {
		return nil, err
	}
	return diff(from.Table, to.Table), nil
}

func diff(from, to withdrawal.Table) []*SlotDelta {
	out := make([]*SlotDelta, 0, len(to))
	for _, slot := range to.Slots() {
		sd := &SlotDelta{Slot: slot, Vote: vote.Abstain}
		var rose, fell int
		for _, st := range to[slot] {
			d := &BundleDelta{
				Bundle:          st.BundleHash,
				WorkScore:       st.WorkScore,
				BlocksRemaining: st.BlocksRemaining,
				Status:          st.Status,
			}
			if prev, ok := from.Find(slot, st.BundleHash); ok {
				d.PrevWorkScore = prev.WorkScore
				d.PrevBlocksRemaining = prev.BlocksRemaining
				switch {
				case st.WorkScore > prev.WorkScore:
					rose++
				case st.WorkScore < prev.WorkScore:
					fell++
				}
			} else {
				d.New = true
			}
			sd.Bundles = append(sd.Bundles, d)
		}
		switch {
		case fell > 0:
			sd.Vote = vote.Downvote
		case rose > 0:
			sd.Vote = vote.Upvote
		}
		out = append(out, sd)
	}
	return out
}
