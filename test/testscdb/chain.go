// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testscdb provides an in-memory database and a block producer for tests.
package testscdb

import (
	"github.com/mplatt8/mainchain/lvldb"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/registry"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/snapshot"
)

// Params are small consensus parameters, so bundles resolve within a few blocks.
func Params() mainchain.Params {
	p := mainchain.DefaultParams()
	p.Threshold = 3
	p.VerificationPeriod = 5
	p.MaxActive = 8
	return p
}

// Chain produces blocks on top of an in-memory database.
type Chain struct {
	db   *lvldb.LevelDB
	scdb *scdb.SCDB
}

// New creates a chain with the given sidechains registered.
func New(sidechains ...registry.Sidechain) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	s, err := scdb.New(db, scdb.Config{Params: Params(), CacheSize: 16})
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, sc := range sidechains {
		if err := s.AddSidechain(sc); err != nil {
			s.Close()
			db.Close()
			return nil, err
		}
	}
	return &Chain{db, s}, nil
}

func (c *Chain) SCDB() *scdb.SCDB {
	return c.scdb
}

func (c *Chain) Database() *lvldb.LevelDB {
	return c.db
}

// MintBlock connects the next block, carrying the commitment of the current votes.
func (c *Chain) MintBlock(proposals ...scdb.Proposal) (*snapshot.Snapshot, error) {
	script, err := c.scdb.GenerateCommitment()
	if err != nil {
		return nil, err
	}
	return c.scdb.ConnectBlock(&scdb.Block{
		Height:     c.scdb.Tip() + 1,
		Commitment: script,
		Proposals:  proposals,
	})
}

func (c *Chain) Close() error {
	c.scdb.Close()
	return c.db.Close()
}
