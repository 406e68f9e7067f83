// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package m4 implements the per-block SCDB update commitment.
//
// A commitment is an output script:
//
//	OP_RETURN 0xD7 0x7D 0x17 0x76 <version> <symbol>...
//
// with one symbol for every slot holding a scoring bundle, ascending by slot.
// A symbol is the index of the upvoted bundle among the slot's scoring
// bundles, or one of the reserved downvote / abstain values. Version 1 uses
// one byte per symbol, version 2 two bytes little-endian.
package m4

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/tally"
	"github.com/mplatt8/mainchain/vote"
	"github.com/mplatt8/mainchain/withdrawal"
)

const (
	// OpReturn is the script opcode the commitment starts with.
	OpReturn = 0x6a
	// PrefixLen is the number of bytes before the payload.
	PrefixLen = 6

	Version1 byte = 0x01
	Version2 byte = 0x02
)

// Header tags the script as an SCDB update.
var Header = [4]byte{0xD7, 0x7D, 0x17, 0x76}

const (
	abstain1  = 0xFF
	downvote1 = 0xFE
	abstain2  = 0xFFFF
	downvote2 = 0xFFFE

	// MaxBundlesVersion1 is the most scoring bundles a slot may have for a one byte symbol.
	MaxBundlesVersion1 = downvote1
)

// Codec encodes and verifies commitments, replaying the tally on decode.
type Codec struct {
	tally *tally.Tally
}

// NewCodec creates a codec which replays the given tally.
func NewCodec(t *tally.Tally) *Codec {
	return &Codec{tally: t}
}

// IsCommitment returns whether the script carries the commitment prefix.
func IsCommitment(script []byte) bool {
	return len(script) >= PrefixLen && script[0] == OpReturn && bytes.Equal(script[1:5], Header[:])
}

// Payload returns the symbols of the script, skipping the fixed prefix.
func Payload(script []byte) []byte {
	if len(script) < PrefixLen {
		return nil
	}
	return script[PrefixLen:]
}

// PayloadHex returns the hex form of the payload as shown to voters.
func PayloadHex(script []byte) string {
	return hex.EncodeToString(Payload(script))
}

func versionFor(before withdrawal.Table) byte {
	for _, slot := range before.ScoringSlots() {
		if len(before.Scoring(slot)) > MaxBundlesVersion1 {
			return Version2
		}
	}
	return Version1
}

// EncodeVotes builds the commitment of casting votes on before.
// Upvotes naming no scoring bundle are encoded as abstain.
// It returns nil when before has no scoring bundle, since nothing is to be committed.
func (c *Codec) EncodeVotes(before withdrawal.Table, votes vote.Set) []byte {
	slots := before.ScoringSlots()
	if len(slots) == 0 {
		return nil
	}

	version := versionFor(before)
	script := make([]byte, 0, PrefixLen+2*len(slots))
	script = append(script, OpReturn)
	script = append(script, Header[:]...)
	script = append(script, version)

	for _, slot := range slots {
		sym := symbolOf(before.Scoring(slot), votes.Get(slot), version)
		if version == Version1 {
			script = append(script, byte(sym))
		} else {
			script = binary.LittleEndian.AppendUint16(script, sym)
		}
	}
	return script
}

func symbolOf(scoring []withdrawal.State, v vote.Vote, version byte) uint16 {
	abstain, downvote := uint16(abstain1), uint16(downvote1)
	if version == Version2 {
		abstain, downvote = abstain2, downvote2
	}
	switch v.Kind {
	case vote.Downvote:
		return downvote
	case vote.Upvote:
		for i, s := range scoring {
			if s.BundleHash == v.Bundle {
				return uint16(i)
			}
		}
	}
	return abstain
}

// Encode infers the votes leading from before to after and encodes them.
// Bundles of after absent from before, i.e. proposed in the same block, are ignored.
// An error is returned if no vote set produces after.
func (c *Codec) Encode(before, after withdrawal.Table) ([]byte, error) {
	votes := make(vote.Set)
	for _, slot := range before.ScoringSlots() {
		var rose, fell []int
		scoring := before.Scoring(slot)
		for i, b := range scoring {
			a, ok := after.Find(slot, b.BundleHash)
			if !ok {
				return nil, errors.Errorf("bundle %v of slot %v missing from next table", b.BundleHash.AbbrevString(), slot)
			}
			switch {
			case a.WorkScore > b.WorkScore:
				rose = append(rose, i)
			case a.WorkScore < b.WorkScore:
				fell = append(fell, i)
			}
		}
		switch {
		case len(rose) == 1 && len(fell) == 0:
			votes[slot] = vote.NewUpvote(scoring[rose[0]].BundleHash)
		case len(rose) == 0 && len(fell) > 0:
			votes[slot] = vote.NewDownvote()
		case len(rose) > 0:
			return nil, errors.Errorf("slot %v: unreachable score transition", slot)
		}
	}

	expected, _ := c.tally.NextScores(before, votes)
	for _, slot := range before.Slots() {
		for _, s := range before[slot] {
			want, wantOK := expected.Find(slot, s.BundleHash)
			got, gotOK := after.Find(slot, s.BundleHash)
			if wantOK != gotOK || want != got {
				return nil, errors.Errorf("slot %v: bundle %v does not follow scoring rules", slot, s.BundleHash.AbbrevString())
			}
		}
	}
	return c.EncodeVotes(before, votes), nil
}

// DecodeVotes parses the commitment against before and recovers the votes.
// Abstaining slots are left out of the result.
// When before has no scoring bundle the script must be empty.
func (c *Codec) DecodeVotes(script []byte, before withdrawal.Table) (vote.Set, error) {
	slots := before.ScoringSlots()
	if len(slots) == 0 {
		if len(script) > 0 {
			return nil, decodeErrorf("unexpected commitment: no scoring bundle")
		}
		return make(vote.Set), nil
	}
	if len(script) < PrefixLen {
		return nil, decodeErrorf("script too short: %d bytes", len(script))
	}
	if script[0] != OpReturn || !bytes.Equal(script[1:5], Header[:]) {
		return nil, decodeErrorf("missing header")
	}

	var width int
	switch version := script[5]; version {
	case Version1:
		width = 1
	case Version2:
		width = 2
	default:
		return nil, decodeErrorf("unknown version %#x", version)
	}
	if want := versionFor(before); script[5] != want {
		return nil, decodeErrorf("version %#x, want %#x", script[5], want)
	}

	payload := script[PrefixLen:]
	if len(payload) != len(slots)*width {
		return nil, decodeErrorf("payload of %d bytes, want %d symbols of %d bytes", len(payload), len(slots), width)
	}

	votes := make(vote.Set)
	for i, slot := range slots {
		var (
			sym               uint16
			abstain, downvote uint16
		)
		if width == 1 {
			sym, abstain, downvote = uint16(payload[i]), abstain1, downvote1
		} else {
			sym, abstain, downvote = binary.LittleEndian.Uint16(payload[2*i:]), abstain2, downvote2
		}

		switch sym {
		case abstain:
		case downvote:
			votes[slot] = vote.NewDownvote()
		default:
			scoring := before.Scoring(slot)
			if int(sym) >= len(scoring) {
				return nil, decodeErrorf("slot %v: bundle index %d out of %d", slot, sym, len(scoring))
			}
			votes[slot] = vote.NewUpvote(scoring[sym].BundleHash)
		}
	}
	return votes, nil
}

// Decode parses the commitment and replays the tally to recover the next table.
// An empty script decodes when before has no scoring bundle.
func (c *Codec) Decode(script []byte, before withdrawal.Table) (withdrawal.Table, error) {
	votes, err := c.DecodeVotes(script, before)
	if err != nil {
		return nil, err
	}
	after, _ := c.tally.NextScores(before, votes)
	return after, nil
}
