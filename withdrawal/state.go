// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package withdrawal defines the per-block state of competing withdrawal bundles.
package withdrawal

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
)

// Status is the life-cycle stage of a bundle.
// Scoring is the only non-terminal status.
type Status uint8

const (
	Scoring Status = iota
	Accepted
	Expired
)

// IsTerminal returns whether no transition leaves the status.
func (s Status) IsTerminal() bool {
	return s != Scoring
}

func (s Status) String() string {
	switch s {
	case Scoring:
		return "scoring"
	case Accepted:
		return "accepted"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "scoring":
		*s = Scoring
	case "accepted":
		*s = Accepted
	case "expired":
		*s = Expired
	default:
		return errors.Errorf("unknown status %q", str)
	}
	return nil
}

// State is one candidate withdrawal bundle of a sidechain slot as of some block.
type State struct {
	Slot            mainchain.SlotID  `json:"slot"`
	BundleHash      mainchain.Bytes32 `json:"bundleHash"`
	WorkScore       uint16            `json:"workScore"`
	BlocksRemaining uint16            `json:"blocksRemaining"`
	Status          Status            `json:"status"`
}

// NewState creates a freshly proposed bundle.
func NewState(slot mainchain.SlotID, hash mainchain.Bytes32, period uint16) State {
	return State{
		Slot:            slot,
		BundleHash:      hash,
		WorkScore:       mainchain.InitialWorkScore,
		BlocksRemaining: period,
		Status:          Scoring,
	}
}

func (s State) String() string {
	return fmt.Sprintf("bundle(%v slot=%v score=%d left=%d %v)",
		s.BundleHash.AbbrevString(), s.Slot, s.WorkScore, s.BlocksRemaining, s.Status)
}
