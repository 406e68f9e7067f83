// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mplatt8/mainchain/api"
	"github.com/mplatt8/mainchain/cmd/scdbd/httpserver"
	"github.com/mplatt8/mainchain/health"
	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/metrics"
	"github.com/mplatt8/mainchain/scdb"
	"github.com/mplatt8/mainchain/snapshot"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "scdbd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "scdbd"
	app.Usage = "Sidechain withdrawal scoring database"
	app.Flags = []cli.Flag{
		dataDirFlag,
		configFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		enableAPILogsFlag,
		verbosityFlag,
		jsonLogsFlag,
		cacheFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
	}
	app.Action = defaultAction
	app.Commands = []cli.Command{
		{
			Name:  "verify",
			Usage: "replay the stored history and check every snapshot is reproducible",
			Flags: []cli.Flag{
				dataDirFlag,
				configFlag,
				verbosityFlag,
				jsonLogsFlag,
				fromFlag,
				toFlag,
			},
			Action: verifyAction,
		},
		{
			Name:      "import",
			Usage:     "connect blocks read from a JSON lines file",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				dataDirFlag,
				configFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: importAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	// meters are created lazily, prometheus must be in place before the first use
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	db, err := openSCDB(mainDB, cfg, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing scoring database..."); db.Close() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		api.New(db, api.Options{
			AllowedOrigins:  ctx.String(apiCorsFlag.Name),
			EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
			EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		}),
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	healthStatus := health.New(db.Tip())

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, healthStatus)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(os.Stdout, db, dataDir, apiURL, metricsURL, adminURL)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error { return watchSnapshots(gctx, db, healthStatus) })
	g.Go(func() error { return refreshLoop(gctx, db, healthStatus, time.Minute) })
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// watchSnapshots reports every connected snapshot until ctx is done.
func watchSnapshots(ctx context.Context, db *scdb.SCDB, h *health.Health) error {
	ch := make(chan *snapshot.Snapshot, 16)
	sub := db.SubscribeSnapshots(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return err
		case snap := <-ch:
			h.NewBlock(snap.Height)
			logger.Debug("snapshot connected", "height", snap.Height, "bundles", snap.Table.Len())
		}
	}
}

// refreshLoop keeps the pending commitment warm, so a miner asking for it is answered at once.
func refreshLoop(ctx context.Context, db *scdb.SCDB, h *health.Health, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := db.Refresh(); err != nil {
			logger.Warn("failed to refresh pending commitment", "err", err)
			h.PendingStatus(false)
		} else {
			h.PendingStatus(true)
			if required, err := db.HasPendingCommitment(); err == nil {
				logger.Debug("pending commitment", "tip", db.Tip(), "required", required)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
