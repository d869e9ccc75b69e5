package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
)

func sampleSession() *Session {
	spec := layout.NewSpec(layout.Spec{
		Mode:            layout.ModeWindowed,
		LegacyStyle:     true,
		TopBarPlacement: layout.PlacementOutsideViewport,
		OSCEnabled:      true,
		OSCPosition:     layout.OSCTop,
		Leading: layout.Sidebar{
			Placement:  layout.PlacementOutsideViewport,
			TabGroups:  []layout.TabGroup{layout.TabPlaylist, layout.TabChapters},
			Visibility: layout.SidebarShown,
			LastTab:    layout.TabPlaylist,
			Width:      300,
		},
	})
	st := layout.BuildState(spec)
	g := layout.BuildWindowGeometry(geometry.Rect{X: 100, Y: 100, Width: 960, Height: 580}, "main", st, 16.0/9.0)
	music := layout.BuildMusicModeGeometry(geometry.Rect{X: 40, Y: 60, Width: 280, Height: 552}, "main", 200, true, true, 1.0)
	return &Session{
		Windowed: SnapshotGeometry(g),
		Music:    SnapshotMusic(music),
		Spec:     SnapshotSpec(spec),
	}
}

func TestSaveLoadRoundTripsExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.yaml")
	want := sampleSession()
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotSpecEmptyTabsStayNil(t *testing.T) {
	// omitempty drops empty tab lists from the document, so only a nil
	// slice survives a save/load cycle unchanged.
	snap := SnapshotSpec(layout.NewSpec(layout.Spec{}))
	if snap.Leading.Tabs != nil || snap.Trailing.Tabs != nil {
		t.Fatalf("expected empty tab lists to stay nil, got %+v", snap)
	}
}

func TestSpecSnapshotRebuildsEqualSpec(t *testing.T) {
	spec := sampleSession().Spec.Spec()
	again := SnapshotSpec(spec).Spec()
	if !spec.Equal(again) {
		t.Fatalf("expected snapshot round trip to preserve spec, got %+v", again)
	}
}

func TestMusicSnapshotPreservesGeometry(t *testing.T) {
	music := layout.BuildMusicModeGeometry(geometry.Rect{X: 40, Y: 60, Width: 280, Height: 552}, "main", 200, true, true, 1.0)
	got := SnapshotMusic(music).Geometry()
	if got != music {
		t.Fatalf("expected music geometry preserved, got %+v", got)
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session for missing file, got %+v", got)
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := Save(path, &Session{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	want := sampleSession()
	if err := Save(path, want); err != nil {
		t.Fatalf("save full: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Spec == nil || got.Spec.Mode != "windowed" {
		t.Fatalf("expected replacement content, got %+v", got)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}
