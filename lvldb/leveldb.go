// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/mplatt8/mainchain/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minCacheSize, minOpenFiles = 16, 16

// Options tunes the database. Values below the minimum are raised to it.
type Options struct {
	CacheSize int // MiB, half block cache and a quarter per write buffer
	OpenFiles int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, minCacheSize)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFiles, minOpenFiles),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

var (
	readOpt = &opt.ReadOptions{}
	scanOpt = &opt.ReadOptions{DontFillCache: true}
	// single writes are vote updates and may be lost on crash, bulks
	// carry whole blocks and are synced
	writeOpt = &opt.WriteOptions{}
	bulkOpt  = &opt.WriteOptions{Sync: true}
)

// LevelDB is a kv.Store backed by leveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb storage")
	}
	return open(stg, opts)
}

// NewMem opens a database held in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Cause(err) == leveldb.ErrNotFound
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, readOpt)
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) { return l.db.Has(key, readOpt) }

func (l *LevelDB) Put(key, val []byte) error { return l.db.Put(key, val, writeOpt) }

func (l *LevelDB) Delete(key []byte) error { return l.db.Delete(key, writeOpt) }

// Close releases the database; every later call fails.
func (l *LevelDB) Close() error { return l.db.Close() }

func (l *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: l.db}
}

// Iterate scans r without filling the block cache.
func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, scanOpt)
}

type bulk struct {
	db    *leveldb.DB
	batch leveldb.Batch
}

func (b *bulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	return b.db.Write(&b.batch, bulkOpt)
}
