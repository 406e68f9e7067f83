// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero threshold", func(p *Params) { p.Threshold = 0 }},
		{"threshold above max", func(p *Params) { p.MaxWorkScore = p.Threshold - 1 }},
		{"zero period", func(p *Params) { p.VerificationPeriod = 0 }},
		{"no slots", func(p *Params) { p.MaxActive = 0 }},
		{"too many slots", func(p *Params) { p.MaxActive = MaxActiveSidechains + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestErrors(t *testing.T) {
	err := errors.WithMessage(NotFoundf("height %d", 7), "load snapshot")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Equal(t, "load snapshot: height 7", err.Error())

	assert.True(t, IsConflict(errors.Wrap(Conflictf("x"), "commit")))
	assert.True(t, IsCapacity(Capacityf("full")))
	assert.False(t, IsCapacity(errors.New("full")))
	assert.False(t, IsNotFound(nil))
}
