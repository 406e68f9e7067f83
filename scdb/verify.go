// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scdb

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/withdrawal"
)

// MismatchError reports a stored table that replaying its block does not reproduce.
type MismatchError struct {
	Height   uint64
	Stored   withdrawal.Table
	Replayed withdrawal.Table
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("snapshot %d not reproducible: stored %v, replayed %v",
		e.Height, e.Stored.Digest().AbbrevString(), e.Replayed.Digest().AbbrevString())
}

// Verify replays heights [from, to] from their parents and their stored blocks.
// progress, if not nil, is called after each height.
func (s *SCDB) Verify(ctx context.Context, from, to uint64, progress func(height uint64)) error {
	if from == 0 {
		from = 1
	}
	if tip := s.store.Tip(); to > tip {
		return mainchain.NotFoundf("snapshot %d not found, tip is %d", to, tip)
	}

	for h := from; h <= to; h++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		parent, snap, err := s.snapshotPair(h)
		if err != nil {
			return err
		}
		meta, err := decodeMeta(snap.Meta)
		if err != nil {
			return errors.WithMessagef(err, "height %d", h)
		}

		// sidechains may have been removed since
		replayed, _, err := s.next(parent.Table, &Block{Height: h, Commitment: meta.Commitment, Proposals: meta.Proposals}, nil)
		if err != nil {
			return err
		}
		if !replayed.Equal(snap.Table) {
			return &MismatchError{Height: h, Stored: snap.Table, Replayed: replayed}
		}
		if progress != nil {
			progress(h)
		}
	}
	return nil
}

// snapshotPair reads the snapshot at h with its parent, so no block is
// disconnected in between.
func (s *SCDB) snapshotPair(h uint64) (parent, snap *snapshot.Snapshot, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if tip := s.store.Tip(); h > tip {
		return nil, nil, mainchain.NotFoundf("snapshot %d not found, tip is %d", h, tip)
	}
	if parent, err = s.store.Snapshot(h - 1); err != nil {
		return nil, nil, err
	}
	if snap, err = s.store.Snapshot(h); err != nil {
		return nil, nil, err
	}
	return parent, snap, nil
}
