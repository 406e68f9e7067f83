// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random fixtures for tests.
package datagen

import (
	"crypto/rand"

	"github.com/mplatt8/mainchain/mainchain"
)

// RandomHash returns a random bundle hash.
func RandomHash() (h mainchain.Bytes32) {
	if _, err := rand.Read(h[:]); err != nil {
		panic(err)
	}
	return
}
