// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the set of active sidechain slots.
package registry

import (
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/kv"
	"github.com/mplatt8/mainchain/log"
	"github.com/mplatt8/mainchain/mainchain"
)

var logger = log.WithContext("pkg", "registry")

const sidechainBucket = kv.Bucket("r")

// Sidechain is an activated sidechain, identified by its slot.
type Sidechain struct {
	Slot  mainchain.SlotID `json:"slot" yaml:"slot"`
	Title string           `json:"title" yaml:"title"`
}

// Registry holds the active sidechains, persisted in a kv store.
//
// It's thread-safe.
type Registry struct {
	mu        sync.RWMutex
	store     kv.Store
	maxActive int
	active    map[mainchain.SlotID]Sidechain
}

// New loads the registry from db. Slots are limited to [0, maxActive).
func New(db kv.Store, maxActive int) (*Registry, error) {
	r := &Registry{
		store:     sidechainBucket.NewStore(db),
		maxActive: maxActive,
		active:    make(map[mainchain.SlotID]Sidechain),
	}

	it := r.store.Iterate(kv.Range{})
	defer it.Release()
	for it.Next() {
		var sc Sidechain
		if err := rlp.DecodeBytes(it.Value(), &sc); err != nil {
			return nil, errors.Wrap(err, "decode sidechain")
		}
		r.active[sc.Slot] = sc
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "load sidechains")
	}
	logger.Debug("sidechains loaded", "count", len(r.active))
	return r, nil
}

// Active returns the active sidechains ordered by slot.
func (r *Registry) Active() []Sidechain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sidechain, 0, len(r.active))
	for _, sc := range r.active {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Get returns the sidechain of the slot.
func (r *Registry) Get(slot mainchain.SlotID) (Sidechain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.active[slot]
	if !ok {
		return Sidechain{}, mainchain.NotFoundf("sidechain %v not found", slot)
	}
	return sc, nil
}

// IsActive returns whether the slot is registered.
func (r *Registry) IsActive(slot mainchain.SlotID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.active[slot]
	return ok
}

// Len returns the number of active sidechains.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// Add activates a sidechain.
func (r *Registry) Add(sc Sidechain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(sc.Slot) >= r.maxActive {
		return mainchain.Capacityf("slot %v out of range, max %d", sc.Slot, r.maxActive)
	}
	if len(r.active) >= r.maxActive {
		return mainchain.Capacityf("registry full with %d sidechains", len(r.active))
	}
	if _, ok := r.active[sc.Slot]; ok {
		return mainchain.Conflictf("slot %v already taken", sc.Slot)
	}

	data, err := rlp.EncodeToBytes(&sc)
	if err != nil {
		return err
	}
	if err := r.store.Put([]byte{byte(sc.Slot)}, data); err != nil {
		return errors.Wrap(err, "save sidechain")
	}
	r.active[sc.Slot] = sc
	logger.Info("sidechain added", "slot", sc.Slot, "title", sc.Title)
	return nil
}

// Remove deactivates the slot. It's refused while inUse reports bundles still referencing it.
func (r *Registry) Remove(slot mainchain.SlotID, inUse func(mainchain.SlotID) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[slot]; !ok {
		return mainchain.NotFoundf("sidechain %v not found", slot)
	}
	if inUse != nil && inUse(slot) {
		return mainchain.Conflictf("slot %v still referenced by unexpired bundles", slot)
	}
	if err := r.store.Delete([]byte{byte(slot)}); err != nil {
		return errors.Wrap(err, "delete sidechain")
	}
	delete(r.active, slot)
	logger.Info("sidechain removed", "slot", slot)
	return nil
}
