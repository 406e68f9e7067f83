// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix carving a logical namespace out of a store.
type Bucket string

// Key returns a fresh slice holding the prefixed key.
func (b Bucket) Key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	k = append(k, b...)
	return append(k, key...)
}

// NewPutter prefixes every write to src.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewStore returns the view of src restricted to the bucket. Iterated keys
// have the prefix stripped.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketPutter{b, src}, src}
}

type bucketPutter struct {
	bucket Bucket
	src    Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.bucket.Key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.bucket.Key(key)) }

type bucketStore struct {
	bucketPutter
	store Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.store.Get(s.bucket.Key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.store.Has(s.bucket.Key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.store.IsNotFound(err) }

func (s *bucketStore) Bulk() Bulk {
	bulk := s.store.Bulk()
	return &bucketBulk{bucketPutter{s.bucket, bulk}, bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	scoped := Range{Start: s.bucket.Key(r.Start)}
	if len(r.Limit) == 0 {
		scoped.Limit = util.BytesPrefix([]byte(s.bucket)).Limit
	} else {
		scoped.Limit = s.bucket.Key(r.Limit)
	}
	return &bucketIterator{s.store.Iterate(scoped), len(s.bucket)}
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b *bucketBulk) Write() error { return b.bulk.Write() }

type bucketIterator struct {
	Iterator
	prefixLen int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }
