package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector aggregates layout-engine counters per window mode.
type Collector struct {
	mu      sync.RWMutex
	enabled bool
	started time.Time
	modes   map[string]*ModeMetrics

	staleSkips      uint64
	screenFallbacks uint64
	deferredAspect  uint64
}

// ModeMetrics captures per-window-mode counters.
type ModeMetrics struct {
	Mode                 string    `json:"mode"`
	TransitionsBuilt     uint64    `json:"transitionsBuilt"`
	TransitionsCompleted uint64    `json:"transitionsCompleted"`
	ClampsApplied        uint64    `json:"clampsApplied"`
	LastBuilt            time.Time `json:"lastBuilt,omitempty"`
	LastCompleted        time.Time `json:"lastCompleted,omitempty"`
}

// Totals aggregates counters across all modes in a snapshot.
type Totals struct {
	TransitionsBuilt     uint64 `json:"transitionsBuilt"`
	TransitionsCompleted uint64 `json:"transitionsCompleted"`
	ClampsApplied        uint64 `json:"clampsApplied"`
	StaleTasksSkipped    uint64 `json:"staleTasksSkipped"`
	ScreenFallbacks      uint64 `json:"screenFallbacks"`
	DeferredRecomputes   uint64 `json:"deferredRecomputes"`
}

// Snapshot is the serializable view of the current metrics state.
type Snapshot struct {
	Enabled bool          `json:"enabled"`
	Started time.Time     `json:"started,omitempty"`
	Totals  Totals        `json:"totals"`
	Modes   []ModeMetrics `json:"modes,omitempty"`
}

// NewCollector returns a collector with the provided opt-in state.
func NewCollector(enabled bool) *Collector {
	c := &Collector{}
	c.SetEnabled(enabled)
	return c
}

// Enabled reports whether collection is currently active.
func (c *Collector) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetEnabled toggles collection, resetting counters when enabling.
func (c *Collector) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.modes = nil
		c.started = time.Time{}
		c.staleSkips = 0
		c.screenFallbacks = 0
		c.deferredAspect = 0
		return
	}
	c.started = time.Now()
	c.modes = make(map[string]*ModeMetrics)
}

// RecordTransitionBuilt increments the built counter for a mode.
func (c *Collector) RecordTransitionBuilt(mode string) {
	c.updateMode(mode, func(m *ModeMetrics, now time.Time) {
		m.TransitionsBuilt++
		m.LastBuilt = now
	})
}

// RecordTransitionCompleted increments the completed counter for a mode.
func (c *Collector) RecordTransitionCompleted(mode string) {
	c.updateMode(mode, func(m *ModeMetrics, now time.Time) {
		m.TransitionsCompleted++
		m.LastCompleted = now
	})
}

// RecordClamp increments the clamp counter for a mode.
func (c *Collector) RecordClamp(mode string) {
	c.updateMode(mode, func(m *ModeMetrics, _ time.Time) {
		m.ClampsApplied++
	})
}

// RecordStaleTaskSkipped counts a geometry task skipped by the queue.
func (c *Collector) RecordStaleTaskSkipped() {
	c.count(func() { c.staleSkips++ })
}

// RecordScreenFallback counts a resolve falling back to another screen.
func (c *Collector) RecordScreenFallback() {
	c.count(func() { c.screenFallbacks++ })
}

// RecordDeferredRecompute counts a geometry recompute skipped because the
// video aspect ratio is not yet known.
func (c *Collector) RecordDeferredRecompute() {
	c.count(func() { c.deferredAspect++ })
}

func (c *Collector) count(mutate func()) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	mutate()
}

func (c *Collector) updateMode(mode string, mutate func(*ModeMetrics, time.Time)) {
	if c == nil || mutate == nil {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	if c.modes == nil {
		c.modes = make(map[string]*ModeMetrics)
	}
	m, exists := c.modes[mode]
	if !exists {
		m = &ModeMetrics{Mode: mode}
		c.modes[mode] = m
	}
	mutate(m, now)
}

// Snapshot returns the current counters for serialization or display.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Enabled: c.enabled}
	if !c.enabled {
		return snap
	}
	snap.Started = c.started
	snap.Totals.StaleTasksSkipped = c.staleSkips
	snap.Totals.ScreenFallbacks = c.screenFallbacks
	snap.Totals.DeferredRecomputes = c.deferredAspect
	if len(c.modes) == 0 {
		return snap
	}
	snap.Modes = make([]ModeMetrics, 0, len(c.modes))
	for _, m := range c.modes {
		if m == nil {
			continue
		}
		clone := *m
		snap.Modes = append(snap.Modes, clone)
		snap.Totals.TransitionsBuilt += clone.TransitionsBuilt
		snap.Totals.TransitionsCompleted += clone.TransitionsCompleted
		snap.Totals.ClampsApplied += clone.ClampsApplied
	}
	sort.Slice(snap.Modes, func(i, j int) bool {
		return snap.Modes[i].Mode < snap.Modes[j].Mode
	})
	return snap
}
