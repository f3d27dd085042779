// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"sync"
)

// ErrRefreshInFlight is returned when a refresh for the same root path is
// already running. The second caller is refused rather than queued.
var ErrRefreshInFlight = errors.New("jobs: refresh already in flight for this root")

// gate serializes refresh runs per root path.
type gate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newGate() *gate {
	return &gate{inFlight: make(map[string]struct{})}
}

// acquire reserves root for one run. It reports false when a run for root is
// already in flight.
func (g *gate) acquire(root string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[root]; busy {
		return false
	}
	g.inFlight[root] = struct{}{}
	return true
}

func (g *gate) release(root string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, root)
}
