// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"strconv"

	"github.com/pkg/errors"
)

// SlotID identifies an active sidechain slot.
type SlotID uint8

func (s SlotID) String() string {
	return strconv.Itoa(int(s))
}

// Consensus constants of the withdrawal scoring rules.
const (
	// MaxActiveSidechains is the upper bound of concurrently active sidechain slots.
	MaxActiveSidechains = 256

	// WithdrawalVerificationPeriod is the number of blocks a bundle may collect work score.
	WithdrawalVerificationPeriod uint16 = 26300

	// WithdrawalMinWorkScore is the work score a bundle needs to be accepted.
	WithdrawalMinWorkScore uint16 = 13150

	// MaxWorkScore caps the work score of a single bundle.
	MaxWorkScore uint16 = 65535

	// InitialWorkScore is the work score of a bundle in the block it is proposed.
	InitialWorkScore uint16 = 1
)

// Params holds the tunable scoring parameters.
type Params struct {
	Threshold          uint16 `yaml:"threshold" json:"threshold"`
	MaxWorkScore       uint16 `yaml:"maxWorkScore" json:"maxWorkScore"`
	VerificationPeriod uint16 `yaml:"verificationPeriod" json:"verificationPeriod"`
	MaxActive          int    `yaml:"maxActive" json:"maxActive"`
}

// DefaultParams returns the mainnet scoring parameters.
func DefaultParams() Params {
	return Params{
		Threshold:          WithdrawalMinWorkScore,
		MaxWorkScore:       MaxWorkScore,
		VerificationPeriod: WithdrawalVerificationPeriod,
		MaxActive:          MaxActiveSidechains,
	}
}

// Validate checks the parameters are self consistent.
func (p Params) Validate() error {
	if p.Threshold == 0 {
		return errors.New("threshold must be positive")
	}
	if p.Threshold > p.MaxWorkScore {
		return errors.Errorf("threshold %d exceeds max work score %d", p.Threshold, p.MaxWorkScore)
	}
	if p.VerificationPeriod == 0 {
		return errors.New("verification period must be positive")
	}
	if p.MaxActive < 1 || p.MaxActive > MaxActiveSidechains {
		return errors.Errorf("max active sidechains must be in [1, %d]", MaxActiveSidechains)
	}
	return nil
}
