// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/tally"
	"github.com/mplatt8/mainchain/withdrawal"
)

// Proposal adds a new withdrawal bundle to a slot.
type Proposal struct {
	Slot   mainchain.SlotID  `json:"slot"`
	Bundle mainchain.Bytes32 `json:"bundle"`
}

// Block is the part of a mainchain block affecting withdrawal scores.
type Block struct {
	Height uint64
	// Commitment is the full output script, required when the parent table has scoring bundles.
	Commitment []byte
	Proposals  []Proposal
	// Claimed, if not nil, is the table the block claims to produce.
	Claimed withdrawal.Table
}

// blockMeta is stored along with each snapshot, so the history can be replayed.
type blockMeta struct {
	Commitment []byte
	Proposals  []Proposal
}

func decodeMeta(data []byte) (*blockMeta, error) {
	var meta blockMeta
	if len(data) == 0 {
		return &meta, nil
	}
	if err := rlp.DecodeBytes(data, &meta); err != nil {
		return nil, errors.Wrap(err, "decode block meta")
	}
	return &meta, nil
}

// next computes the table following parent. isActive, if not nil, filters proposals.
func (s *SCDB) next(parent withdrawal.Table, b *Block, isActive func(mainchain.SlotID) bool) (withdrawal.Table, []*tally.InertVoteWarning, error) {
	votes, err := s.codec.DecodeVotes(b.Commitment, parent)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "block %d", b.Height)
	}

	next, warnings := s.tally.NextScores(parent, votes)

	for _, p := range b.Proposals {
		if isActive != nil && !isActive(p.Slot) {
			return nil, nil, mainchain.NotFoundf("block %d: proposal for unknown sidechain %v", b.Height, p.Slot)
		}
		if _, ok := next.Find(p.Slot, p.Bundle); ok {
			logger.Warn("duplicate bundle proposal ignored", "height", b.Height, "slot", p.Slot, "bundle", p.Bundle.AbbrevString())
			continue
		}
		next[p.Slot] = append(next[p.Slot], withdrawal.NewState(p.Slot, p.Bundle, s.params.VerificationPeriod))
	}
	return next, warnings, nil
}

// ConnectBlock applies the block on top of its parent and commits the result.
// Reconnecting an already connected block with the same outcome is a no-op.
func (s *SCDB) ConnectBlock(b *Block) (*snapshot.Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	startTime := mclock.Now()

	if b.Height == 0 {
		return nil, errors.New("genesis can not be connected")
	}
	tip := s.store.Tip()
	if b.Height > tip+1 {
		return nil, mainchain.NotFoundf("parent %d of block %d not found, tip is %d", b.Height-1, b.Height, tip)
	}
	parent, err := s.store.Snapshot(b.Height - 1)
	if err != nil {
		return nil, err
	}

	next, warnings, err := s.next(parent.Table, b, s.registry.IsActive)
	if err != nil {
		return nil, err
	}
	if b.Claimed != nil && b.Claimed.Digest() != next.Digest() {
		return nil, mainchain.Conflictf("block %d: claimed table %v, computed %v",
			b.Height, b.Claimed.Digest().AbbrevString(), next.Digest().AbbrevString())
	}

	meta, err := rlp.EncodeToBytes(&blockMeta{b.Commitment, b.Proposals})
	if err != nil {
		return nil, err
	}
	if err := s.store.CommitWith(b.Height, next, meta); err != nil {
		return nil, err
	}
	snap, err := s.store.Snapshot(b.Height)
	if err != nil {
		return nil, err
	}
	if b.Height <= tip {
		logger.Debug("block already connected", "height", b.Height)
		return snap, nil
	}

	for _, w := range warnings {
		logger.Warn("inert vote", "height", b.Height, "slot", w.Slot, "bundle", w.Bundle.AbbrevString())
	}
	metricInertVotes().Add(int64(len(warnings)))
	for _, st := range next.Flatten() {
		if st.Status.IsTerminal() {
			metricBundleOutcomes().AddWithLabel(1, map[string]string{"status": st.Status.String()})
			logger.Info("bundle "+st.Status.String(), "height", b.Height, "slot", st.Slot, "bundle", st.BundleHash.AbbrevString(), "score", st.WorkScore)
		}
	}

	elapsed := mclock.Now().Sub(startTime)
	metricBlocksConnected().Add(1)
	metricTallyDuration().Observe(elapsed.Milliseconds())
	metricScoringBundles().Set(int64(scoring(next)))
	logger.Debug("block connected",
		"height", b.Height,
		"bundles", next.Len(),
		"proposals", len(b.Proposals),
		"elapsed", common.PrettyDuration(elapsed),
	)

	s.invalidate()
	s.goes.Go(func() { s.feed.Send(snap) })
	return snap, nil
}

// DisconnectBlock removes the snapshot at height and all above it.
func (s *SCDB) DisconnectBlock(height uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Rollback(height); err != nil {
		return err
	}
	logger.Info("blocks disconnected", "from", height, "tip", s.store.Tip())
	s.invalidate()
	return nil
}
