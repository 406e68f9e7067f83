// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[uint64, string](2)
	require.NoError(t, err)

	loads := 0
	loader := func(k uint64) (string, error) {
		loads++
		if k == 0 {
			return "", errors.New("no data")
		}
		return "v", nil
	}

	v, err := c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad(0, loader)
	assert.Error(t, err)
	_, ok := c.Get(0)
	assert.False(t, ok, "failed loads are not cached")

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)

	c.Remove(1)
	assert.Equal(t, 0, c.Len())

	_, err = NewLRU[int, int](0)
	assert.Error(t, err)
}

func TestCacheStats(t *testing.T) {
	cs := &Stats{}
	cs.Hit()
	cs.Miss()
	_, hit, miss := cs.Stats()

	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	changed, _, _ := cs.Stats()
	assert.False(t, changed)

	cs.Hit()
	cs.Miss()
	assert.Equal(t, int64(3), cs.Hit())

	changed, hit, miss = cs.Stats()
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
	assert.True(t, changed)
}
