// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks block ingestion and pending commitment readiness.
package health

import (
	"sync"
	"time"
)

type BlockIngestion struct {
	Height    uint64     `json:"height"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
	// PendingReady is set once the commitment for the next block computes.
	PendingReady bool `json:"pendingReady"`
}

type Health struct {
	lock         sync.RWMutex
	newBlock     time.Time
	height       uint64
	pendingReady bool
}

// New starts tracking from the given tip, counting it as just connected.
func New(tip uint64) *Health {
	return &Health{
		newBlock: time.Now(),
		height:   tip,
	}
}

func (h *Health) NewBlock(height uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBlock = time.Now()
	h.height = height
}

func (h *Health) PendingStatus(ready bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.pendingReady = ready
}

// Status reports healthy when the pending commitment computes and, if
// maxTimeBetweenBlocks is positive, a block was connected within it.
func (h *Health) Status(maxTimeBetweenBlocks time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ts := h.newBlock
	healthy := h.pendingReady
	if maxTimeBetweenBlocks > 0 && time.Since(ts) > maxTimeBetweenBlocks {
		healthy = false
	}

	return &Status{
		Healthy: healthy,
		BlockIngestion: &BlockIngestion{
			Height:    h.height,
			Timestamp: &ts,
		},
		PendingReady: h.pendingReady,
	}
}
