// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mplatt8/mainchain/scdb"
)

// jsonBlock is a block line of an import file.
type jsonBlock struct {
	Height     uint64          `json:"height"`
	Commitment hexutil.Bytes   `json:"commitment,omitempty"`
	Proposals  []scdb.Proposal `json:"proposals,omitempty"`
}

func importAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing block file, usage: scdbd import <file>")
	}
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	db, err := openSCDB(mainDB, cfg, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "open block file")
	}
	defer f.Close()

	n, err := importBlocks(exitSignal, f, db)
	logger.Info("import done", "blocks", n, "tip", db.Tip())
	return err
}

// importBlocks connects the blocks decoded from r, in order. Blocks at or below the tip are skipped.
func importBlocks(ctx context.Context, r io.Reader, db *scdb.SCDB) (int, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var n int
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		var b jsonBlock
		if err := dec.Decode(&b); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, errors.Wrapf(err, "decode block after %d blocks", n)
		}
		if b.Height <= db.Tip() {
			continue
		}
		if _, err := db.ConnectBlock(&scdb.Block{
			Height:     b.Height,
			Commitment: b.Commitment,
			Proposals:  b.Proposals,
		}); err != nil {
			return n, errors.WithMessagef(err, "connect block %d", b.Height)
		}
		n++
	}
}
