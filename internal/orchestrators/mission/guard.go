package mission

import (
	"sync"
	"time"

	"github.com/shinobios/mission-api/internal/errors"
	"github.com/shinobios/mission-api/internal/pkg/clock"
)

// DefaultGenerationCooldown is the minimum gap between generations in the
// same region
const DefaultGenerationCooldown = 2 * time.Second

// guard serializes mission operations per owner and rate-limits mission
// generation per region. Owner locks are never removed; the map grows with
// the set of distinct actors seen by this process, which is bounded in
// practice by the player base.
type guard struct {
	mu     sync.Mutex
	owners map[string]*sync.Mutex

	cooldownMu sync.Mutex
	lastGen    map[string]time.Time
	cooldown   time.Duration
	clock      clock.Clock
}

func newGuard(cooldown time.Duration, clk clock.Clock) *guard {
	if cooldown <= 0 {
		cooldown = DefaultGenerationCooldown
	}
	return &guard{
		owners:   make(map[string]*sync.Mutex),
		lastGen:  make(map[string]time.Time),
		cooldown: cooldown,
		clock:    clk,
	}
}

// lockOwner acquires the per-owner mutex and returns its unlock function
func (g *guard) lockOwner(ownerID string) func() {
	g.mu.Lock()
	m, ok := g.owners[ownerID]
	if !ok {
		m = &sync.Mutex{}
		g.owners[ownerID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// reserveRegion checks the region's generation cooldown and, if clear,
// claims the slot. Check and claim happen under one lock so concurrent
// generators cannot both pass. The returned claim time identifies this
// reservation to releaseRegion.
func (g *guard) reserveRegion(region string) (time.Time, error) {
	g.cooldownMu.Lock()
	defer g.cooldownMu.Unlock()

	now := g.clock.Now()
	if last, ok := g.lastGen[region]; ok {
		elapsed := now.Sub(last)
		if elapsed < g.cooldown {
			return time.Time{}, errors.ResourceExhaustedf(
				"mission generation for region %s is cooling down, retry in %s",
				region, g.cooldown-elapsed,
			)
		}
	}

	g.lastGen[region] = now
	return now, nil
}

// releaseRegion gives back a claimed cooldown slot after a generation that
// never produced a mission. Only the reservation identified by claimed is
// released; a newer claim by another generator stays in place.
func (g *guard) releaseRegion(region string, claimed time.Time) {
	g.cooldownMu.Lock()
	defer g.cooldownMu.Unlock()

	if last, ok := g.lastGen[region]; ok && last.Equal(claimed) {
		delete(g.lastGen, region)
	}
}
