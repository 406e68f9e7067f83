// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/lvldb"
	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/scdb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor(os.Stderr))
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func useColor(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(dataDir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dataDir, "scdb.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize: 128,
		OpenFiles: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database [%v]", path)
	}
	return db, nil
}

// openSCDB opens the scoring database and registers the configured sidechains not yet known.
func openSCDB(db *lvldb.LevelDB, cfg *config, cacheSize int) (*scdb.SCDB, error) {
	s, err := scdb.New(db, scdb.Config{Params: cfg.Params, CacheSize: cacheSize})
	if err != nil {
		return nil, err
	}
	for _, sc := range cfg.Sidechains {
		if err := s.AddSidechain(sc); err != nil {
			if mainchain.IsConflict(err) {
				continue
			}
			s.Close()
			return nil, errors.WithMessagef(err, "register sidechain %v", sc.Slot)
		}
		logger.Info("sidechain registered", "slot", sc.Slot, "title", sc.Title)
	}
	return s, nil
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.mainchain.scdb")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.mainchain.scdb")
		default:
			return filepath.Join(home, ".org.mainchain.scdb")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Stored",
		ToFile:   "Replayed",
		Context:  2,
	})
	return diff
}

func printStartupMessage(w io.Writer, s *scdb.SCDB, dataDir, apiURL, metricsURL, adminURL string) {
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	if adminURL == "" {
		adminURL = "Disabled"
	}
	params := s.Params()
	fmt.Fprintf(w, `Starting %v
    Tip          [ #%v ]
    Sidechains   [ %v ]
    Params       [ threshold=%v period=%v max-active=%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullVersion(),
		s.Tip(),
		len(s.ActiveSidechains()),
		params.Threshold, params.VerificationPeriod, params.MaxActive,
		dataDir,
		apiURL,
		metricsURL,
		adminURL)
}
