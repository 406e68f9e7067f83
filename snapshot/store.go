// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot persists the withdrawal table of every block height.
package snapshot

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/mplatt8/mainchain/cache"
	"github.com/mplatt8/mainchain/kv"
	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/withdrawal"
)

var logger = log.WithContext("pkg", "snapshot")

const (
	snapshotBucket = kv.Bucket("s") // height => snappy(rlp(record))
	outcomeBucket  = kv.Bucket("o") // bundle hash + height => rlp(Outcome)
	metaBucket     = kv.Bucket("m")
)

var tipKey = []byte("tip")

// Snapshot is the committed table of a height. It must not be modified.
type Snapshot struct {
	Height uint64
	Table  withdrawal.Table
	// Meta is opaque data committed along with the table.
	Meta []byte
}

// Outcome records the height a bundle became terminal.
type Outcome struct {
	Slot   mainchain.SlotID  `json:"slot"`
	Bundle mainchain.Bytes32 `json:"bundle"`
	Height uint64            `json:"height"`
	Status withdrawal.Status `json:"status"`
}

type record struct {
	Table withdrawal.Table
	Meta  []byte
}

// Store is an append-only sequence of snapshots starting at the empty genesis.
//
// It's thread-safe.
type Store struct {
	mu        sync.RWMutex
	db        kv.Store
	snapshots kv.Store
	outcomes  kv.Store
	meta      kv.Store
	tip       uint64
	cache     *cache.LRU[uint64, *Snapshot]
}

// New opens the store, restoring the tip from db.
func New(db kv.Store, cacheSize int) (*Store, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	c, err := cache.NewLRU[uint64, *Snapshot](cacheSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:        db,
		snapshots: snapshotBucket.NewStore(db),
		outcomes:  outcomeBucket.NewStore(db),
		meta:      metaBucket.NewStore(db),
		cache:     c,
	}

	data, err := s.meta.Get(tipKey)
	if err != nil {
		if !s.meta.IsNotFound(err) {
			return nil, errors.Wrap(err, "load tip")
		}
	} else {
		if len(data) != 8 {
			return nil, errors.New("corrupted tip")
		}
		s.tip = binary.BigEndian.Uint64(data)
	}
	logger.Debug("snapshot store opened", "tip", s.tip)
	return s, nil
}

func heightKey(h uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], h)
	return k[:]
}

// outcomeKey orders the outcomes of a bundle by height, since an expired
// hash may be proposed again.
func outcomeKey(bundle mainchain.Bytes32, h uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte(nil), bundle[:]...), h)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

// Tip returns the highest committed height.
func (s *Store) Tip() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tip
}

// Commit appends the table at height, which must be tip+1.
// Committing the same table at an existing height is a no-op and a different
// one is a ConflictError.
func (s *Store) Commit(height uint64, table withdrawal.Table) error {
	return s.CommitWith(height, table, nil)
}

// CommitWith is like Commit, also storing meta along with the table.
func (s *Store) CommitWith(height uint64, table withdrawal.Table, meta []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height <= s.tip {
		existing, err := s.snapshot(height)
		if err != nil {
			return err
		}
		if existing.Table.Digest() != table.Digest() {
			return mainchain.Conflictf("height %d already committed with different table", height)
		}
		return nil
	}
	if height != s.tip+1 {
		return mainchain.NotFoundf("snapshot %d not found, tip is %d", height-1, s.tip)
	}

	snap := &Snapshot{
		Height: height,
		Table:  table.Clone(),
		Meta:   append([]byte(nil), meta...),
	}
	data, err := rlp.EncodeToBytes(&record{snap.Table, snap.Meta})
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	bulk := s.db.Bulk()
	if err := snapshotBucket.NewPutter(bulk).Put(heightKey(height), snappy.Encode(nil, data)); err != nil {
		return err
	}
	outcomes := outcomeBucket.NewPutter(bulk)
	for _, o := range outcomesOf(snap) {
		if err := saveRLP(outcomes, outcomeKey(o.Bundle, o.Height), o); err != nil {
			return err
		}
	}
	if err := metaBucket.NewPutter(bulk).Put(tipKey, heightKey(height)); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrapf(err, "commit snapshot %d", height)
	}

	s.tip = height
	s.cache.Add(height, snap)
	return nil
}

func outcomesOf(snap *Snapshot) []*Outcome {
	var out []*Outcome
	for _, st := range snap.Table.Flatten() {
		if st.Status.IsTerminal() {
			out = append(out, &Outcome{Slot: st.Slot, Bundle: st.BundleHash, Height: snap.Height, Status: st.Status})
		}
	}
	return out
}

// Get returns the table at height. Height 0 is always the empty table.
func (s *Store) Get(height uint64) (withdrawal.Table, error) {
	snap, err := s.Snapshot(height)
	if err != nil {
		return nil, err
	}
	return snap.Table, nil
}

// Snapshot returns the snapshot at height.
func (s *Store) Snapshot(height uint64) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(height)
}

// Latest returns the snapshot at the tip.
func (s *Store) Latest() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(s.tip)
}

func (s *Store) snapshot(height uint64) (*Snapshot, error) {
	if height == 0 {
		return &Snapshot{Table: withdrawal.Table{}}, nil
	}
	if height > s.tip {
		return nil, mainchain.NotFoundf("snapshot %d not found, tip is %d", height, s.tip)
	}
	return s.cache.GetOrLoad(height, s.load)
}

func (s *Store) load(height uint64) (*Snapshot, error) {
	data, err := s.snapshots.Get(heightKey(height))
	if err != nil {
		if s.snapshots.IsNotFound(err) {
			return nil, mainchain.NotFoundf("snapshot %d not found", height)
		}
		return nil, errors.Wrapf(err, "load snapshot %d", height)
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress snapshot %d", height)
	}
	var rec record
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %d", height)
	}
	if rec.Table == nil {
		rec.Table = withdrawal.Table{}
	}
	return &Snapshot{Height: height, Table: rec.Table, Meta: rec.Meta}, nil
}

// Rollback removes the snapshot at height and all above it.
func (s *Store) Rollback(height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height == 0 {
		return errors.New("genesis can not be rolled back")
	}
	if height > s.tip {
		return mainchain.NotFoundf("snapshot %d not found, tip is %d", height, s.tip)
	}

	bulk := s.db.Bulk()
	snapshots := snapshotBucket.NewPutter(bulk)
	outcomes := outcomeBucket.NewPutter(bulk)
	for h := s.tip; h >= height; h-- {
		snap, err := s.snapshot(h)
		if err != nil {
			return err
		}
		for _, o := range outcomesOf(snap) {
			if err := outcomes.Delete(outcomeKey(o.Bundle, h)); err != nil {
				return err
			}
		}
		if err := snapshots.Delete(heightKey(h)); err != nil {
			return err
		}
	}
	if err := metaBucket.NewPutter(bulk).Put(tipKey, heightKey(height-1)); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrapf(err, "rollback to %d", height-1)
	}

	for h := s.tip; h >= height; h-- {
		s.cache.Remove(h)
	}
	logger.Debug("snapshots rolled back", "from", s.tip, "to", height-1)
	s.tip = height - 1
	return nil
}

// Range returns up to count consecutive snapshots ending at from, stopping at genesis.
func (s *Store) Range(from uint64, count int, newestFirst bool) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if from > s.tip {
		return nil, mainchain.NotFoundf("snapshot %d not found, tip is %d", from, s.tip)
	}
	if count <= 0 {
		return []*Snapshot{}, nil
	}

	var start uint64
	if uint64(count) <= from {
		start = from - uint64(count) + 1
	}
	out := make([]*Snapshot, 0, from-start+1)
	for h := start; h <= from; h++ {
		snap, err := s.snapshot(h)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// Outcome returns where the bundle last became Accepted or Expired.
func (s *Store) Outcome(bundle mainchain.Bytes32) (*Outcome, error) {
	history, err := s.Outcomes(bundle)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, mainchain.NotFoundf("outcome of %v not found", bundle.AbbrevString())
	}
	return history[len(history)-1], nil
}

// Outcomes returns every outcome of the bundle, ascending by height.
func (s *Store) Outcomes(bundle mainchain.Bytes32) ([]*Outcome, error) {
	prefix := util.BytesPrefix(bundle[:])
	it := s.outcomes.Iterate(kv.Range{Start: prefix.Start, Limit: prefix.Limit})
	defer it.Release()

	var out []*Outcome
	for it.Next() {
		var o Outcome
		if err := rlp.DecodeBytes(it.Value(), &o); err != nil {
			return nil, errors.Wrap(err, "decode outcome")
		}
		out = append(out, &o)
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "load outcome")
	}
	return out, nil
}
