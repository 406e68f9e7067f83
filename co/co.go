// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides goroutine life-cycle and wake-up helpers.
package co

import (
	"sync"
)

// Goes to run and manage life-cycle of go routines.
type Goes struct {
	wg sync.WaitGroup
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait wait for all go routines started by 'Go' done.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Signal is a coalescing wake-up: any number of Notify calls made while
// nobody is waiting collapse into a single pending wake-up.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) init() {
	if s.ch == nil {
		s.ch = make(chan struct{}, 1)
	}
}

// Notify wakes the goroutine waiting on s, or leaves a pending wake-up.
func (s *Signal) Notify() {
	s.l.Lock()
	s.init()
	select {
	case s.ch <- struct{}{}:
	default:
	}
	s.l.Unlock()
}

// C returns the channel to wait for the next wake-up.
func (s *Signal) C() <-chan struct{} {
	s.l.Lock()
	defer s.l.Unlock()
	s.init()
	return s.ch
}
