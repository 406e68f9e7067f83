// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value interfaces the SCDB state is persisted
// through, and buckets to partition one store by key prefix.
package kv

// Getter reads values. Get fails for missing keys with an error IsNotFound
// recognises.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes values.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes. None of them is visible until Write succeeds, so a
// block is connected or rolled back atomically.
type Bulk interface {
	Putter
	Write() error
}

// Iterator walks key-value pairs in ascending key order. Key and Value are
// only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range selects keys in [Start, Limit). An empty Limit is unbounded.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is a key-value store with batched writes and range iteration.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Iterate(r Range) Iterator
}
