// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tally turns one block of votes into the next withdrawal table.
package tally

import (
	"fmt"
	"sort"

	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

// InertVoteWarning reports an upvote naming no scoring bundle of its slot.
// The vote is counted as abstain.
type InertVoteWarning struct {
	Slot   mainchain.SlotID
	Bundle mainchain.Bytes32
}

func (w *InertVoteWarning) Error() string {
	return fmt.Sprintf("inert vote: slot %v has no scoring bundle %v", w.Slot, w.Bundle.AbbrevString())
}

// Tally applies the scoring rules.
type Tally struct {
	threshold    uint16
	maxWorkScore uint16
}

// New creates a tally for the given parameters.
func New(params mainchain.Params) *Tally {
	return &Tally{
		threshold:    params.Threshold,
		maxWorkScore: params.MaxWorkScore,
	}
}

// NextScores computes the table of the next block. The input is not modified.
//
// Terminal bundles of cur are dropped. Every scoring bundle ages one block,
// then is Accepted once its score reaches the threshold, or Expired when no
// blocks remain. Acceptance is checked first. Once a bundle of a slot is
// accepted, the other bundles of the slot expire in the same block, so at
// most one bundle per slot is ever accepted.
func (t *Tally) NextScores(cur withdrawal.Table, votes vote.Set) (withdrawal.Table, []*InertVoteWarning) {
	next := make(withdrawal.Table, len(cur))
	var warnings []*InertVoteWarning

	for _, slot := range cur.Slots() {
		v := votes.Get(slot)
		if v.Kind == vote.Upvote {
			if s, ok := cur.Find(slot, v.Bundle); !ok || s.Status != withdrawal.Scoring {
				warnings = append(warnings, &InertVoteWarning{Slot: slot, Bundle: v.Bundle})
			}
		}

		var states []withdrawal.State
		for _, s := range cur[slot] {
			if s.Status.IsTerminal() {
				continue
			}
			states = append(states, t.step(s, v))
		}
		supersede(states)
		if len(states) > 0 {
			next[slot] = states
		}
	}

	// upvotes for slots without any bundle
	for _, slot := range votes.Slots() {
		v := votes[slot]
		if v.Kind == vote.Upvote && len(cur[slot]) == 0 {
			warnings = append(warnings, &InertVoteWarning{Slot: slot, Bundle: v.Bundle})
		}
	}
	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Slot < warnings[j].Slot })

	return next, warnings
}

func (t *Tally) step(s withdrawal.State, v vote.Vote) withdrawal.State {
	switch v.Kind {
	case vote.Upvote:
		if v.Bundle == s.BundleHash && s.WorkScore < t.maxWorkScore {
			s.WorkScore++
		}
	case vote.Downvote:
		if s.WorkScore > 0 {
			s.WorkScore--
		}
	}

	if s.BlocksRemaining > 0 {
		s.BlocksRemaining--
	}

	switch {
	case s.WorkScore >= t.threshold:
		s.Status = withdrawal.Accepted
	case s.BlocksRemaining == 0:
		s.Status = withdrawal.Expired
	}
	return s
}

// supersede expires every bundle but the first accepted one.
func supersede(states []withdrawal.State) {
	winner := -1
	for i, s := range states {
		if s.Status == withdrawal.Accepted {
			winner = i
			break
		}
	}
	if winner < 0 {
		return
	}
	for i := range states {
		if i != winner {
			states[i].Status = withdrawal.Expired
		}
	}
}
