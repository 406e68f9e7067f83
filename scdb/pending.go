// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scdb

import (
	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/tally"
	"github.com/mplatt8/mainchain/withdrawal"
)

// Pending is the projected next block, from the tip and the current votes.
type Pending struct {
	// Height of the next block.
	Height uint64
	// Table is the next table, without bundles proposed in the next block.
	Table withdrawal.Table
	// Script is the commitment to embed, nil when not required.
	Script   []byte
	Warnings []*tally.InertVoteWarning
}

// invalidate supersedes any pending work.
func (s *SCDB) invalidate() {
	s.pending.Lock()
	s.pending.gen++
	s.pending.result = nil
	s.pending.Unlock()
	s.tick.Notify()
}

func (s *SCDB) recomputeLoop() {
	logger.Debug("enter recompute loop")
	defer logger.Debug("leave recompute loop")

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.tick.C():
			if _, err := s.pendingState(); err != nil {
				logger.Warn("failed to compute pending commitment", "err", err)
			}
		}
	}
}

// Refresh computes the pending state now, unless it's up to date.
func (s *SCDB) Refresh() error {
	_, err := s.pendingState()
	return err
}

func (s *SCDB) pendingState() (*Pending, error) {
	for {
		s.pending.Lock()
		if r := s.pending.result; r != nil {
			s.pending.Unlock()
			return r, nil
		}
		gen, afterCompute := s.pending.gen, s.pending.afterCompute
		s.pending.Unlock()

		p, err := s.computePending()
		if err != nil {
			return nil, err
		}
		if afterCompute != nil {
			afterCompute()
		}

		s.pending.Lock()
		if gen == s.pending.gen {
			s.pending.result = p
			s.pending.Unlock()
			metricPendingRecompute().AddWithLabel(1, map[string]string{"result": "stored"})
			return p, nil
		}
		s.pending.Unlock()
		metricPendingRecompute().AddWithLabel(1, map[string]string{"result": "stale"})
		logger.Trace("stale pending state discarded", "gen", gen)
	}
}

func (s *SCDB) computePending() (*Pending, error) {
	latest, err := s.store.Latest()
	if err != nil {
		return nil, err
	}
	votes := s.effectiveVotes()
	next, warnings := s.tally.NextScores(latest.Table, votes)
	return &Pending{
		Height:   latest.Height + 1,
		Table:    next,
		Script:   s.codec.EncodeVotes(latest.Table, votes),
		Warnings: warnings,
	}, nil
}

// NextState returns the projected pending state.
func (s *SCDB) NextState() (*Pending, error) {
	return s.pendingState()
}

// GenerateCommitment returns the script the next block should carry, nil if none is required.
func (s *SCDB) GenerateCommitment() ([]byte, error) {
	p, err := s.pendingState()
	if err != nil {
		return nil, err
	}
	return p.Script, nil
}

// CommitmentHex returns the hex payload of the next commitment, empty if none is required.
func (s *SCDB) CommitmentHex() (string, error) {
	script, err := s.GenerateCommitment()
	if err != nil || script == nil {
		return "", err
	}
	return m4.PayloadHex(script), nil
}
