// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scdb is the sidechain withdrawal scoring database.
//
// It connects blocks one height at a time, keeping the withdrawal table of
// every height, the active sidechains and the local votes. The commitment the
// next block should carry is recomputed in background whenever a vote or the
// tip changes.
package scdb

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/co"
	"github.com/mplatt8/mainchain/kv"
	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/snapshot"
	"github.com/mplatt8/mainchain/tally"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

var logger = log.WithContext("pkg", "scdb")

const voteBucket = kv.Bucket("v")

// Config configures the database.
type Config struct {
	Params mainchain.Params
	// CacheSize is the number of decoded snapshots kept in memory.
	CacheSize int
}

// SCDB tracks withdrawal bundles of all sidechains.
//
// Block connection and commands are serialized, queries may run concurrently.
// Close is required to be called at end.
type SCDB struct {
	params   mainchain.Params
	tally    *tally.Tally
	codec    *m4.Codec
	registry *registry.Registry
	store    *snapshot.Store
	votes    kv.Store

	writeMu sync.Mutex

	voteMu  sync.RWMutex
	current vote.Set

	pending struct {
		sync.Mutex
		gen    uint64
		result *Pending
		// afterCompute, if set, runs between computing and storing a result.
		afterCompute func()
	}

	tick   co.Signal
	ctx    context.Context
	cancel func()
	goes   co.Goes
	feed   event.Feed
	scope  event.SubscriptionScope
}

// New opens the database on db.
func New(db kv.Store, config Config) (*SCDB, error) {
	if err := config.Params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "params")
	}

	reg, err := registry.New(db, config.Params.MaxActive)
	if err != nil {
		return nil, err
	}
	store, err := snapshot.New(db, config.CacheSize)
	if err != nil {
		return nil, err
	}

	t := tally.New(config.Params)
	ctx, cancel := context.WithCancel(context.Background())
	s := &SCDB{
		params:   config.Params,
		tally:    t,
		codec:    m4.NewCodec(t),
		registry: reg,
		store:    store,
		votes:    voteBucket.NewStore(db),
		ctx:      ctx,
		cancel:   cancel,
	}
	if s.current, err = s.loadVotes(); err != nil {
		cancel()
		return nil, err
	}

	logger.Info("scdb opened", "tip", store.Tip(), "sidechains", reg.Len(), "votes", len(s.current))
	s.goes.Go(s.recomputeLoop)
	s.invalidate()
	return s, nil
}

// Close stops background work.
func (s *SCDB) Close() {
	s.cancel()
	s.scope.Close()
	s.goes.Wait()
	logger.Debug("closed")
}

// Params returns the consensus parameters.
func (s *SCDB) Params() mainchain.Params {
	return s.params
}

// SubscribeSnapshots receives every newly connected snapshot.
func (s *SCDB) SubscribeSnapshots(ch chan *snapshot.Snapshot) event.Subscription {
	return s.scope.Track(s.feed.Subscribe(ch))
}

func (s *SCDB) loadVotes() (vote.Set, error) {
	votes := make(vote.Set)
	it := s.votes.Iterate(kv.Range{})
	defer it.Release()
	for it.Next() {
		if len(it.Key()) != 1 {
			return nil, errors.New("corrupted vote key")
		}
		var v vote.Vote
		if err := v.UnmarshalText(it.Value()); err != nil {
			return nil, errors.WithMessage(err, "load votes")
		}
		votes[mainchain.SlotID(it.Key()[0])] = v
	}
	return votes, errors.Wrap(it.Error(), "load votes")
}

// ActiveSidechains returns the registered sidechains ordered by slot.
func (s *SCDB) ActiveSidechains() []registry.Sidechain {
	return s.registry.Active()
}

// AddSidechain activates a sidechain slot.
func (s *SCDB) AddSidechain(sc registry.Sidechain) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.registry.Add(sc)
}

// RemoveSidechain deactivates a slot, refused while bundles of the slot still score.
// The local vote of the slot is dropped.
func (s *SCDB) RemoveSidechain(slot mainchain.SlotID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	latest, err := s.store.Latest()
	if err != nil {
		return err
	}
	inUse := func(slot mainchain.SlotID) bool {
		return len(latest.Table.Scoring(slot)) > 0
	}
	if err := s.registry.Remove(slot, inUse); err != nil {
		return err
	}
	return s.putVotes(vote.Set{slot: vote.NewAbstain()})
}

// SetVote sets the local vote of an active slot. It stays effective until changed.
func (s *SCDB) SetVote(slot mainchain.SlotID, v vote.Vote) error {
	return s.SetVotes(vote.Set{slot: v})
}

// SetVotes sets several votes at once. Nothing is changed if any slot is not active.
func (s *SCDB) SetVotes(votes vote.Set) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for slot := range votes {
		if !s.registry.IsActive(slot) {
			return mainchain.NotFoundf("sidechain %v not found", slot)
		}
	}
	return s.putVotes(votes)
}

// ReplaceVotes sets the whole vote set. Active slots absent from votes abstain.
// Nothing is changed if any slot is not active.
func (s *SCDB) ReplaceVotes(votes vote.Set) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for slot := range votes {
		if !s.registry.IsActive(slot) {
			return mainchain.NotFoundf("sidechain %v not found", slot)
		}
	}
	all := make(vote.Set)
	for _, sc := range s.registry.Active() {
		all[sc.Slot] = votes.Get(sc.Slot)
	}
	return s.putVotes(all)
}

func (s *SCDB) putVotes(votes vote.Set) error {
	bulk := s.votes.Bulk()
	for slot, v := range votes {
		key := []byte{byte(slot)}
		if v.Kind == vote.Abstain {
			if err := bulk.Delete(key); err != nil {
				return err
			}
			continue
		}
		text, err := v.MarshalText()
		if err != nil {
			return err
		}
		if err := bulk.Put(key, text); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "save votes")
	}

	s.voteMu.Lock()
	for slot, v := range votes {
		if v.Kind == vote.Abstain {
			delete(s.current, slot)
		} else {
			s.current[slot] = v
		}
		logger.Debug("vote set", "slot", slot, "vote", v)
	}
	s.voteMu.Unlock()

	s.invalidate()
	return nil
}

// CurrentVotes returns the vote of every active slot.
func (s *SCDB) CurrentVotes() vote.Set {
	s.voteMu.RLock()
	defer s.voteMu.RUnlock()

	out := make(vote.Set)
	for _, sc := range s.registry.Active() {
		out[sc.Slot] = s.current.Get(sc.Slot)
	}
	return out
}

func (s *SCDB) effectiveVotes() vote.Set {
	s.voteMu.RLock()
	defer s.voteMu.RUnlock()
	return s.current.Clone()
}

// StateAt returns the snapshot at height.
func (s *SCDB) StateAt(height uint64) (*snapshot.Snapshot, error) {
	return s.store.Snapshot(height)
}

// Latest returns the snapshot at the tip.
func (s *SCDB) Latest() (*snapshot.Snapshot, error) {
	return s.store.Latest()
}

// Tip returns the latest connected height.
func (s *SCDB) Tip() uint64 {
	return s.store.Tip()
}

// HasPendingCommitment returns whether the next block must carry a commitment.
func (s *SCDB) HasPendingCommitment() (bool, error) {
	latest, err := s.store.Latest()
	if err != nil {
		return false, err
	}
	return latest.Table.HasScoring(), nil
}

// SnapshotRange returns up to count snapshots ending at from.
func (s *SCDB) SnapshotRange(from uint64, count int, newestFirst bool) ([]*snapshot.Snapshot, error) {
	return s.store.Range(from, count, newestFirst)
}

// Delta compares the tables of two heights.
func (s *SCDB) Delta(from, to uint64) ([]*snapshot.SlotDelta, error) {
	return s.store.Delta(from, to)
}

// Outcome returns the height a bundle was accepted or expired at.
func (s *SCDB) Outcome(bundle mainchain.Bytes32) (*snapshot.Outcome, error) {
	return s.store.Outcome(bundle)
}

// scoring counts the bundles still collecting score.
func scoring(table withdrawal.Table) int {
	n := 0
	for _, slot := range table.ScoringSlots() {
		n += len(table.Scoring(slot))
	}
	return n
}
