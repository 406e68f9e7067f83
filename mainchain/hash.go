// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"io"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// Blake2b hashes the concatenation of data with blake2b-256.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn hashes whatever fn writes with blake2b-256.
func Blake2bFn(fn func(w io.Writer)) (h Bytes32) {
	// New256 only fails for oversized keys
	hasher, _ := blake2b.New256(nil)
	fn(hasher)
	hasher.Sum(h[:0])
	return
}
