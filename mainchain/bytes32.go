// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"encoding"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Bytes32 is a 32 byte hash. Bundle hashes and table digests use it.
// Its text form is 0x prefixed hex, used by JSON and YAML alike.
type Bytes32 [32]byte

var (
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// AbbrevString keeps the first and last four bytes, for logs.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	parsed, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 parses 64 hex digits, with or without the 0x prefix.
func ParseBytes32(s string) (b Bytes32, err error) {
	digits := s
	if len(digits) >= 2 && strings.EqualFold(digits[:2], "0x") {
		digits = digits[2:]
	}
	if len(digits) != hex.EncodedLen(len(b)) {
		return Bytes32{}, errors.Errorf("invalid bytes32 %q: want %d hex digits", s, hex.EncodedLen(len(b)))
	}
	if _, err := hex.Decode(b[:], []byte(digits)); err != nil {
		return Bytes32{}, errors.Wrapf(err, "invalid bytes32 %q", s)
	}
	return b, nil
}
