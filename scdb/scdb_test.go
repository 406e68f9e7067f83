// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scdb

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplatt8/mainchain/lvldb"
	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

func testParams() mainchain.Params {
	p := mainchain.DefaultParams()
	p.Threshold = 3
	p.VerificationPeriod = 5
	p.MaxActive = 8
	return p
}

func hash(s string) mainchain.Bytes32 {
	return mainchain.Blake2b([]byte(s))
}

func newTestSCDB(t *testing.T) (*SCDB, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, Config{Params: testParams(), CacheSize: 16})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.AddSidechain(registry.Sidechain{Slot: 0, Title: "zero"}))
	require.NoError(t, s.AddSidechain(registry.Sidechain{Slot: 1, Title: "one"}))
	return s, db
}

// connect builds the next block the way a miner would.
func connect(t *testing.T, s *SCDB, proposals ...Proposal) *snapshot.Snapshot {
	script, err := s.GenerateCommitment()
	require.NoError(t, err)
	snap, err := s.ConnectBlock(&Block{Height: s.Tip() + 1, Commitment: script, Proposals: proposals})
	require.NoError(t, err)
	return snap
}

func find(t *testing.T, table withdrawal.Table, slot mainchain.SlotID, name string) withdrawal.State {
	st, ok := table.Find(slot, hash(name))
	require.True(t, ok, "bundle %s missing from slot %v", name, slot)
	return st
}

func TestConnectBlocks(t *testing.T) {
	s, _ := newTestSCDB(t)

	has, err := s.HasPendingCommitment()
	require.NoError(t, err)
	assert.False(t, has)
	hex, err := s.CommitmentHex()
	require.NoError(t, err)
	assert.Equal(t, "", hex)

	snap := connect(t, s, Proposal{0, hash("a")}, Proposal{0, hash("b")}, Proposal{1, hash("c")}, Proposal{0, hash("a")})
	assert.Equal(t, uint64(1), snap.Height)
	assert.Equal(t, 3, snap.Table.Len())
	assert.Equal(t, withdrawal.NewState(0, hash("a"), 5), find(t, snap.Table, 0, "a"))

	has, err = s.HasPendingCommitment()
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.SetVote(0, vote.NewUpvote(hash("a"))))
	require.NoError(t, s.SetVote(1, vote.NewDownvote()))
	assert.True(t, mainchain.IsNotFound(s.SetVote(5, vote.NewDownvote())))

	hex, err = s.CommitmentHex()
	require.NoError(t, err)
	assert.Equal(t, "00fe", hex)

	next, err := s.NextState()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next.Height)

	script, err := s.GenerateCommitment()
	require.NoError(t, err)
	snap, err = s.ConnectBlock(&Block{Height: 2, Commitment: script, Claimed: next.Table})
	require.NoError(t, err)
	assert.Equal(t, withdrawal.State{Slot: 0, BundleHash: hash("a"), WorkScore: 2, BlocksRemaining: 4}, find(t, snap.Table, 0, "a"))
	assert.Equal(t, uint16(1), find(t, snap.Table, 0, "b").WorkScore)
	assert.Equal(t, uint16(0), find(t, snap.Table, 1, "c").WorkScore)

	// reconnecting the same block is a no-op, a different one conflicts
	_, err = s.ConnectBlock(&Block{Height: 2, Commitment: script})
	assert.NoError(t, err)
	abstain := append(append([]byte(nil), script[:m4.PrefixLen]...), 0xFF, 0xFF)
	_, err = s.ConnectBlock(&Block{Height: 2, Commitment: abstain})
	assert.True(t, mainchain.IsConflict(err))

	_, err = s.ConnectBlock(&Block{Height: 4, Commitment: script})
	assert.True(t, mainchain.IsNotFound(err))

	_, err = s.ConnectBlock(&Block{Height: 3})
	assert.True(t, m4.IsDecodeError(err))

	_, err = s.ConnectBlock(&Block{Height: 3, Commitment: script, Claimed: snap.Table})
	assert.True(t, mainchain.IsConflict(err))
	assert.Equal(t, uint64(2), s.Tip())

	_, err = s.ConnectBlock(&Block{Height: 3, Commitment: script, Proposals: []Proposal{{7, hash("d")}}})
	assert.True(t, mainchain.IsNotFound(err))

	snap = connect(t, s)
	assert.Equal(t, withdrawal.Accepted, find(t, snap.Table, 0, "a").Status)
	assert.Equal(t, withdrawal.Expired, find(t, snap.Table, 0, "b").Status, "loses to a")

	o, err := s.Outcome(hash("a"))
	require.NoError(t, err)
	assert.Equal(t, &snapshot.Outcome{Slot: 0, Bundle: hash("a"), Height: 3, Status: withdrawal.Accepted}, o)

	deltas, err := s.Delta(2, 3)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, vote.Upvote, deltas[0].Vote)
	assert.Equal(t, vote.Abstain, deltas[1].Vote, "score of c is already floored")

	// accepted bundle leaves the table, the upvote becomes inert
	snap = connect(t, s)
	_, ok := snap.Table.Find(0, hash("a"))
	assert.False(t, ok)
	next, err = s.NextState()
	require.NoError(t, err)
	require.Len(t, next.Warnings, 1)
	assert.Equal(t, mainchain.SlotID(0), next.Warnings[0].Slot)

	require.NoError(t, s.Verify(context.Background(), 0, s.Tip(), nil))
}

func TestExpiry(t *testing.T) {
	s, _ := newTestSCDB(t)

	connect(t, s, Proposal{1, hash("x")})
	var snap *snapshot.Snapshot
	for i := 0; i < 5; i++ {
		snap = connect(t, s)
	}
	assert.Equal(t, uint64(6), snap.Height)
	x := find(t, snap.Table, 1, "x")
	assert.Equal(t, withdrawal.Expired, x.Status)
	assert.Equal(t, uint16(0), x.BlocksRemaining)

	has, err := s.HasPendingCommitment()
	require.NoError(t, err)
	assert.False(t, has)

	// no commitment once nothing scores
	snap = connect(t, s)
	assert.Empty(t, snap.Table)

	o, err := s.Outcome(hash("x"))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), o.Height)
	assert.Equal(t, withdrawal.Expired, o.Status)

	var seen []uint64
	require.NoError(t, s.Verify(context.Background(), 1, 7, func(h uint64) { seen = append(seen, h) }))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7}, seen)

	snaps, err := s.SnapshotRange(7, 3, true)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, uint64(5), snaps[2].Height)

	_, err = s.ConnectBlock(&Block{Height: 8, Commitment: []byte{m4.OpReturn, 0xD7, 0x7D, 0x17, 0x76, m4.Version1}})
	assert.True(t, m4.IsDecodeError(err), "commitment without scoring bundles")
	assert.Equal(t, uint64(7), s.Tip())
}

func TestRemoveSidechain(t *testing.T) {
	s, _ := newTestSCDB(t)

	connect(t, s, Proposal{0, hash("a")})
	require.NoError(t, s.SetVote(1, vote.NewDownvote()))

	assert.True(t, mainchain.IsConflict(s.RemoveSidechain(0)))
	assert.True(t, mainchain.IsNotFound(s.RemoveSidechain(5)))

	require.NoError(t, s.RemoveSidechain(1))
	assert.Equal(t, []registry.Sidechain{{Slot: 0, Title: "zero"}}, s.ActiveSidechains())
	assert.Equal(t, vote.Set{0: vote.NewAbstain()}, s.CurrentVotes())

	_, err := s.ConnectBlock(&Block{Height: 2, Commitment: []byte{m4.OpReturn, 0xD7, 0x7D, 0x17, 0x76, m4.Version1, 0xFF}, Proposals: []Proposal{{1, hash("b")}}})
	assert.True(t, mainchain.IsNotFound(err))
}

func TestDisconnectBlock(t *testing.T) {
	s, _ := newTestSCDB(t)

	connect(t, s, Proposal{0, hash("a")})
	require.NoError(t, s.SetVote(0, vote.NewUpvote(hash("a"))))
	connect(t, s)
	snap := connect(t, s)
	require.Equal(t, withdrawal.Accepted, find(t, snap.Table, 0, "a").Status)

	require.NoError(t, s.DisconnectBlock(3))
	assert.Equal(t, uint64(2), s.Tip())
	_, err := s.Outcome(hash("a"))
	assert.True(t, mainchain.IsNotFound(err))

	// pending state follows the new tip
	next, err := s.NextState()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next.Height)

	require.NoError(t, s.SetVote(0, vote.NewDownvote()))
	snap = connect(t, s)
	assert.Equal(t, uint16(1), find(t, snap.Table, 0, "a").WorkScore)
}

func TestVotesPersist(t *testing.T) {
	s, db := newTestSCDB(t)

	require.NoError(t, s.SetVotes(vote.Set{0: vote.NewUpvote(hash("a")), 1: vote.NewDownvote()}))
	require.NoError(t, s.SetVote(1, vote.NewAbstain()))
	assert.True(t, mainchain.IsNotFound(s.SetVotes(vote.Set{0: vote.NewDownvote(), 6: vote.NewDownvote()})))
	s.Close()

	reopened, err := New(db, Config{Params: testParams()})
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, vote.Set{0: vote.NewUpvote(hash("a")), 1: vote.NewAbstain()}, reopened.CurrentVotes())
	assert.Len(t, reopened.ActiveSidechains(), 2)

	require.NoError(t, reopened.ReplaceVotes(vote.Set{1: vote.NewDownvote()}))
	assert.Equal(t, vote.Set{0: vote.NewAbstain(), 1: vote.NewDownvote()}, reopened.CurrentVotes())
	assert.True(t, mainchain.IsNotFound(reopened.ReplaceVotes(vote.Set{6: vote.NewAbstain()})))
	assert.Equal(t, vote.NewDownvote(), reopened.CurrentVotes().Get(1))
}

func TestSubscribeSnapshots(t *testing.T) {
	s, _ := newTestSCDB(t)

	ch := make(chan *snapshot.Snapshot, 1)
	sub := s.SubscribeSnapshots(ch)
	defer sub.Unsubscribe()

	connect(t, s, Proposal{0, hash("a")})
	select {
	case snap := <-ch:
		assert.Equal(t, uint64(1), snap.Height)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestRecomputeLoop(t *testing.T) {
	s, _ := newTestSCDB(t)
	connect(t, s, Proposal{0, hash("a")})
	require.NoError(t, s.SetVote(0, vote.NewUpvote(hash("a"))))

	assert.Eventually(t, func() bool {
		s.pending.Lock()
		defer s.pending.Unlock()
		return s.pending.result != nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Refresh())
	hex, err := s.CommitmentHex()
	require.NoError(t, err)
	assert.Equal(t, "00", hex)
}

func TestStalePendingDiscarded(t *testing.T) {
	s, _ := newTestSCDB(t)
	connect(t, s, Proposal{0, hash("a")})
	require.NoError(t, s.Refresh())

	var (
		once    sync.Once
		voteErr error
		runs    atomic.Int32
	)
	s.pending.Lock()
	s.pending.afterCompute = func() {
		runs.Add(1)
		// the vote lands while the first result is in flight
		once.Do(func() { voteErr = s.SetVote(0, vote.NewUpvote(hash("a"))) })
	}
	s.pending.Unlock()
	s.invalidate()

	next, err := s.NextState()
	require.NoError(t, err)
	require.NoError(t, voteErr)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
	assert.Equal(t, []byte{0x00}, m4.Payload(next.Script))
	assert.Equal(t, uint16(2), find(t, next.Table, 0, "a").WorkScore)
}

func TestVerifyWhileReorganizing(t *testing.T) {
	s, _ := newTestSCDB(t)
	connect(t, s, Proposal{0, hash("a")})

	prefix := []byte{m4.OpReturn, 0xD7, 0x7D, 0x17, 0x76, m4.Version1}
	branches := [][]byte{
		append(append([]byte(nil), prefix...), 0x00),
		append(append([]byte(nil), prefix...), 0xFE),
	}
	reorg := func(script []byte) {
		for h := uint64(2); h <= 3; h++ {
			_, err := s.ConnectBlock(&Block{Height: h, Commitment: script})
			require.NoError(t, err)
		}
	}
	reorg(branches[0])

	done := make(chan struct{})
	failures := make(chan error, 1)
	go func() {
		defer close(failures)
		for {
			select {
			case <-done:
				return
			default:
			}
			if err := s.Verify(context.Background(), 1, 3, nil); err != nil && !mainchain.IsNotFound(err) {
				failures <- err
				return
			}
		}
	}()

	for i := 1; i <= 50; i++ {
		require.NoError(t, s.DisconnectBlock(2))
		reorg(branches[i%2])
	}
	close(done)
	assert.NoError(t, <-failures)
}

func TestVerifyMismatch(t *testing.T) {
	s, _ := newTestSCDB(t)
	connect(t, s, Proposal{0, hash("a")})

	script, err := s.GenerateCommitment()
	require.NoError(t, err)
	meta, err := rlp.EncodeToBytes(&blockMeta{Commitment: script})
	require.NoError(t, err)
	forged := withdrawal.Table{0: {{Slot: 0, BundleHash: hash("a"), WorkScore: 9, BlocksRemaining: 4}}}
	require.NoError(t, s.store.CommitWith(2, forged, meta))

	err = s.Verify(context.Background(), 1, 2, nil)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint64(2), mismatch.Height)
	assert.Equal(t, uint16(1), mismatch.Replayed[0][0].WorkScore)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Verify(ctx, 1, 1, nil), context.Canceled)
	assert.True(t, mainchain.IsNotFound(s.Verify(context.Background(), 1, 3, nil)))
}
