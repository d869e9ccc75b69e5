package screens

import (
	"testing"

	"github.com/viewframe/viewframe/internal/geometry"
)

func twoScreens() []Screen {
	return []Screen{
		{ID: "ext", Name: "ext", Frame: geometry.Rect{X: 1920, Width: 2560, Height: 1440}, Visible: geometry.Rect{X: 1920, Width: 2560, Height: 1440}},
		{ID: "main", Name: "main", Frame: geometry.Rect{Width: 1920, Height: 1080}, Visible: geometry.Rect{Y: 25, Width: 1920, Height: 1055}, Primary: true},
	}
}

func TestResolveFindsByID(t *testing.T) {
	s, err := Resolve(twoScreens(), "ext", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.ID != "ext" {
		t.Fatalf("expected ext, got %q", s.ID)
	}
}

func TestResolveUnknownFallsBackToPrimary(t *testing.T) {
	s, err := Resolve(twoScreens(), "ghost", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.ID != "main" {
		t.Fatalf("expected fallback to primary, got %q", s.ID)
	}
}

func TestResolveNoPrimaryFallsBackToFirst(t *testing.T) {
	list := twoScreens()
	list[1].Primary = false
	s, err := Resolve(list, "ghost", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.ID != "ext" {
		t.Fatalf("expected first screen, got %q", s.ID)
	}
}

func TestResolveEmptyListErrors(t *testing.T) {
	if _, err := Resolve(nil, "main", nil); err == nil {
		t.Fatal("expected error for empty screen list")
	}
}

func TestSortedPrimaryFirst(t *testing.T) {
	got := Sorted(twoScreens())
	if got[0].ID != "main" {
		t.Fatalf("expected primary first, got %q", got[0].ID)
	}
}

func TestStaticEmptyErrors(t *testing.T) {
	if _, err := (Static{}).Screens(); err == nil {
		t.Fatal("expected error from empty static provider")
	}
}
