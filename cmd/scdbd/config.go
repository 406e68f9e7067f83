// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mplatt8/mainchain/mainchain"
	"github.com/mplatt8/mainchain/registry"
)

// config is the content of the --config file.
type config struct {
	Params     mainchain.Params     `yaml:"params"`
	Sidechains []registry.Sidechain `yaml:"sidechains"`
}

// loadConfig reads the config file at path. Missing params keep their defaults.
// An empty path gives the default config.
func loadConfig(path string) (*config, error) {
	cfg := &config{Params: mainchain.DefaultParams()}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "decode config [%v]", path)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "config [%v]", path)
	}

	seen := make(map[mainchain.SlotID]bool, len(cfg.Sidechains))
	for _, sc := range cfg.Sidechains {
		if seen[sc.Slot] {
			return nil, errors.Errorf("config [%v]: duplicate sidechain slot %v", path, sc.Slot)
		}
		seen[sc.Slot] = true
	}
	return cfg, nil
}
