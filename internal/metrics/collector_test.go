package metrics

import "testing"

func TestCollectorDisabledByDefaultRecordsNothing(t *testing.T) {
	c := NewCollector(false)
	c.RecordTransitionBuilt("windowed")
	c.RecordStaleTaskSkipped()
	snap := c.Snapshot()
	if snap.Enabled {
		t.Fatal("expected disabled snapshot")
	}
	if snap.Totals != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", snap.Totals)
	}
}

func TestCollectorAggregatesPerMode(t *testing.T) {
	c := NewCollector(true)
	c.RecordTransitionBuilt("windowed")
	c.RecordTransitionBuilt("windowed")
	c.RecordTransitionCompleted("windowed")
	c.RecordTransitionBuilt("music")
	c.RecordClamp("music")
	c.RecordStaleTaskSkipped()
	c.RecordScreenFallback()
	c.RecordDeferredRecompute()

	snap := c.Snapshot()
	if snap.Totals.TransitionsBuilt != 3 || snap.Totals.TransitionsCompleted != 1 {
		t.Fatalf("unexpected totals %+v", snap.Totals)
	}
	if snap.Totals.StaleTasksSkipped != 1 || snap.Totals.ScreenFallbacks != 1 || snap.Totals.DeferredRecomputes != 1 {
		t.Fatalf("unexpected queue totals %+v", snap.Totals)
	}
	if len(snap.Modes) != 2 {
		t.Fatalf("expected two modes, got %+v", snap.Modes)
	}
	// Sorted by mode name: music before windowed.
	if snap.Modes[0].Mode != "music" || snap.Modes[0].ClampsApplied != 1 {
		t.Fatalf("unexpected music metrics %+v", snap.Modes[0])
	}
	if snap.Modes[1].Mode != "windowed" || snap.Modes[1].TransitionsBuilt != 2 {
		t.Fatalf("unexpected windowed metrics %+v", snap.Modes[1])
	}
}

func TestCollectorDisableResetsCounters(t *testing.T) {
	c := NewCollector(true)
	c.RecordTransitionBuilt("windowed")
	c.SetEnabled(false)
	c.SetEnabled(true)
	if snap := c.Snapshot(); snap.Totals.TransitionsBuilt != 0 {
		t.Fatalf("expected counters reset after re-enable, got %+v", snap.Totals)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordTransitionBuilt("windowed")
	c.RecordStaleTaskSkipped()
	if c.Enabled() {
		t.Fatal("nil collector cannot be enabled")
	}
	if snap := c.Snapshot(); snap.Enabled {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
