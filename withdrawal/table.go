// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package withdrawal

import (
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
)

// Table maps each slot to its bundles, in proposal order.
// Slots without bundles are absent.
type Table map[mainchain.SlotID][]State

// Slots returns slots holding at least one bundle, ascending.
func (t Table) Slots() []mainchain.SlotID {
	slots := make([]mainchain.SlotID, 0, len(t))
	for slot, states := range t {
		if len(states) > 0 {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// Scoring returns the non-terminal bundles of the slot, in order.
func (t Table) Scoring(slot mainchain.SlotID) []State {
	var out []State
	for _, s := range t[slot] {
		if s.Status == Scoring {
			out = append(out, s)
		}
	}
	return out
}

// ScoringSlots returns slots with at least one Scoring bundle, ascending.
func (t Table) ScoringSlots() []mainchain.SlotID {
	var slots []mainchain.SlotID
	for _, slot := range t.Slots() {
		if len(t.Scoring(slot)) > 0 {
			slots = append(slots, slot)
		}
	}
	return slots
}

// HasScoring returns whether any bundle is still collecting score.
func (t Table) HasScoring() bool {
	return len(t.ScoringSlots()) > 0
}

// Find looks up the bundle with the given hash in the slot.
func (t Table) Find(slot mainchain.SlotID, hash mainchain.Bytes32) (State, bool) {
	for _, s := range t[slot] {
		if s.BundleHash == hash {
			return s, true
		}
	}
	return State{}, false
}

// Len returns the total number of bundles.
func (t Table) Len() int {
	n := 0
	for _, states := range t {
		n += len(states)
	}
	return n
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for slot, states := range t {
		if len(states) > 0 {
			c[slot] = append([]State(nil), states...)
		}
	}
	return c
}

// Equal reports whether both tables hold the same bundles in the same order.
func (t Table) Equal(other Table) bool {
	a, b := t.Flatten(), other.Flatten()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Flatten lists all bundles ordered by slot, then proposal order.
func (t Table) Flatten() []State {
	out := make([]State, 0, t.Len())
	for _, slot := range t.Slots() {
		out = append(out, t[slot]...)
	}
	return out
}

// FromStates rebuilds a table from a flattened list.
func FromStates(states []State) Table {
	t := make(Table)
	for _, s := range states {
		t[s.Slot] = append(t[s.Slot], s)
	}
	return t
}

// EncodeRLP implements rlp.Encoder.
func (t Table) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, t.Flatten())
}

// DecodeRLP implements rlp.Decoder.
func (t *Table) DecodeRLP(s *rlp.Stream) error {
	var states []State
	if err := s.Decode(&states); err != nil {
		return err
	}
	for i := 1; i < len(states); i++ {
		if states[i].Slot < states[i-1].Slot {
			return errors.New("bundles not ordered by slot")
		}
	}
	*t = FromStates(states)
	return nil
}

// Digest returns the blake2b hash of the canonical encoding.
func (t Table) Digest() mainchain.Bytes32 {
	return mainchain.Blake2bFn(func(w io.Writer) {
		_ = rlp.Encode(w, t.Flatten())
	})
}
