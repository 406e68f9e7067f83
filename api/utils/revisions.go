// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
)

const (
	revLatest int64 = -1
	revNext   int64 = -2
)

// Revision is a height, the latest height, or the pending next one.
type Revision struct {
	val any
}

func (rev *Revision) IsNext() bool {
	return rev.val == revNext
}

func (rev *Revision) IsLatest() bool {
	return rev.val == revLatest
}

// Height returns the height of a numeric revision.
func (rev *Revision) Height() (uint64, bool) {
	h, ok := rev.val.(uint64)
	return h, ok
}

// ParseRevision parses a query parameter into a height.
func ParseRevision(revision string, allowNext bool) (*Revision, error) {
	switch revision {
	case "", "latest", "best":
		return &Revision{revLatest}, nil
	case "next":
		if !allowNext {
			return nil, errors.New("invalid revision: next is not allowed")
		}
		return &Revision{revNext}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid revision")
	}
	return &Revision{n}, nil
}

// ParseSlot parses a sidechain slot number.
func ParseSlot(s string) (mainchain.SlotID, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Wrap(err, "invalid slot")
	}
	return mainchain.SlotID(n), nil
}
