// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vote defines the per-slot votes cast on withdrawal bundles.
package vote

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/mainchain"
)

// Kind is the class of a vote.
type Kind uint8

const (
	Abstain Kind = iota
	Downvote
	Upvote
)

func (k Kind) String() string {
	switch k {
	case Abstain:
		return "abstain"
	case Downvote:
		return "downvote"
	case Upvote:
		return "upvote"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for _, c := range []Kind{Abstain, Downvote, Upvote} {
		if c.String() == str {
			*k = c
			return nil
		}
	}
	return errors.Errorf("unknown vote kind %q", str)
}

// Vote is the vote of one slot for one block. Bundle is set only for Upvote.
type Vote struct {
	Kind   Kind
	Bundle mainchain.Bytes32
}

// NewAbstain returns the default vote.
func NewAbstain() Vote { return Vote{Kind: Abstain} }

// NewDownvote returns a vote lowering every bundle of the slot.
func NewDownvote() Vote { return Vote{Kind: Downvote} }

// NewUpvote returns a vote raising the given bundle.
func NewUpvote(bundle mainchain.Bytes32) Vote { return Vote{Kind: Upvote, Bundle: bundle} }

// String returns the textual form accepted by Parse.
func (v Vote) String() string {
	if v.Kind == Upvote {
		return v.Bundle.String()
	}
	return v.Kind.String()
}

// Parse parses "abstain", "downvote" (or "alarm") and bundle hashes.
// The single-letter forms "a" and "x" are accepted as well.
func Parse(s string) (Vote, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "abstain":
		return NewAbstain(), nil
	case "x", "alarm", "downvote":
		return NewDownvote(), nil
	}
	h, err := mainchain.ParseBytes32(strings.TrimSpace(s))
	if err != nil {
		return Vote{}, errors.WithMessagef(err, "parse vote %q", s)
	}
	return NewUpvote(h), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Vote) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Vote) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Set holds the vote of every slot. Slots without an explicit vote abstain.
type Set map[mainchain.SlotID]Vote

// Get returns the vote of the slot, Abstain by default.
func (s Set) Get(slot mainchain.SlotID) Vote {
	if v, ok := s[slot]; ok {
		return v
	}
	return NewAbstain()
}

// Clone returns a copy, dropping explicit abstains.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for slot, v := range s {
		if v.Kind != Abstain {
			c[slot] = v
		}
	}
	return c
}

// Slots returns slots with a non-abstain vote, ascending.
func (s Set) Slots() []mainchain.SlotID {
	slots := make([]mainchain.SlotID, 0, len(s))
	for slot, v := range s {
		if v.Kind != Abstain {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}
