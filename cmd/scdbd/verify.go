// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/mplatt8/mainchain/scdb"
)

func verifyAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

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

	return verifyHistory(exitSignal, os.Stdout, db, ctx.Uint64(fromFlag.Name), ctx.Uint64(toFlag.Name))
}

// verifyHistory replays heights [from, to], to is the tip if 0.
func verifyHistory(ctx context.Context, w io.Writer, db *scdb.SCDB, from, to uint64) error {
	if from == 0 {
		from = 1
	}
	if to == 0 {
		to = db.Tip()
	}
	if from > to {
		fmt.Fprintln(w, "nothing to verify")
		return nil
	}

	fmt.Fprintln(w, ">> Verifying snapshots <<")
	bar := pb.New64(int64(to - from + 1)).
		Set64(0).
		SetMaxWidth(90)
	bar.Output = w
	bar.Start()
	defer func() { bar.NotPrint = true }()

	err := db.Verify(ctx, from, to, func(uint64) { bar.Increment() })
	if err != nil {
		var mismatch *scdb.MismatchError
		if errors.As(err, &mismatch) {
			fmt.Fprintf(w, "\nDiff of snapshot %d\n", mismatch.Height)
			fmt.Fprintln(w, jsonDiff(mismatch.Stored.Flatten(), mismatch.Replayed.Flatten()))
		}
		return err
	}
	bar.Finish()
	fmt.Fprintf(w, "verified %d snapshots\n", to-from+1)
	return nil
}
