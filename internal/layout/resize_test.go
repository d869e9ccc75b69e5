package layout

import (
	"testing"

	"github.com/viewframe/viewframe/internal/geometry"
)

func resizeBaseGeometry() WindowGeometry {
	return BuildWindowGeometry(geometry.Rect{Width: 960, Height: 580}, "main", topBarOutsideState(), widescreen)
}

func TestResizeSideHandleDragDrivesFromWidth(t *testing.T) {
	// Scenario: 16:9 video, 40px outside top bar, user drags a side
	// handle to width 1280.
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	got := n.Resize(g, geometry.Size{Width: 1280, Height: 580}, true, true, testScreen())
	if got.WindowFrame.Width != 1280 {
		t.Fatalf("expected width 1280, got %v", got.WindowFrame.Width)
	}
	if got.WindowFrame.Height != 760 {
		t.Fatalf("expected height 720+40=760, got %v", got.WindowFrame.Height)
	}
	if got.VideoSize().Height != 720 {
		t.Fatalf("expected video height 720, got %v", got.VideoSize().Height)
	}
}

func TestResizeLiveDragLocksDrivingDimension(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	screen := testScreen()

	// First frame: both dimensions change, width by far more; width must
	// drive this and every later frame even when only height changes.
	g = n.Resize(g, geometry.Size{Width: 1100, Height: 600}, true, true, screen)
	wantHeight := g.WindowFrame.Height
	if g.WindowFrame.Width != 1100 {
		t.Fatalf("expected width-driven first frame, got %+v", g.WindowFrame)
	}
	g = n.Resize(g, geometry.Size{Width: 1100, Height: 900}, true, true, screen)
	if g.WindowFrame.Height != wantHeight {
		t.Fatalf("driving dimension flipped mid-drag: %+v", g.WindowFrame)
	}
	g = n.Resize(g, geometry.Size{Width: 1200, Height: 1000}, true, true, screen)
	if g.WindowFrame.Width != 1200 {
		t.Fatalf("expected width to keep driving, got %+v", g.WindowFrame)
	}
	if g.WindowFrame.Height != 715 {
		t.Fatalf("expected height derived from width 1200, got %v", g.WindowFrame.Height)
	}
}

func TestResizeSingleDimensionFramesStayConsistent(t *testing.T) {
	// A drag where only one dimension changes per frame must never
	// flip-flop once the first both-changed frame locks the direction.
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	screen := testScreen()
	sizes := []geometry.Size{
		{Width: 1000, Height: 580},
		{Width: 1040, Height: 580},
		{Width: 1040, Height: 620},
		{Width: 1100, Height: 640},
		{Width: 1100, Height: 700},
	}
	for _, size := range sizes {
		g = n.Resize(g, size, true, true, screen)
	}
	// Width crossed the direction epsilon first, so every frame after the
	// lock-in is width-driven.
	if g.WindowFrame.Width != 1100 {
		t.Fatalf("expected width-driven final frame, got %+v", g.WindowFrame)
	}
}

func TestResizeJitterDoesNotFlipDrivingDimension(t *testing.T) {
	// A side-handle drag reports a 1px height wobble on the next frame;
	// the locked width dimension must keep driving.
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	screen := testScreen()
	g = n.Resize(g, geometry.Size{Width: 1010, Height: 608}, true, true, screen)
	first := g.WindowFrame
	g = n.Resize(g, geometry.Size{Width: 1010, Height: first.Height + 1}, true, true, screen)
	if g.WindowFrame != first {
		t.Fatalf("1px jitter moved the frame: %+v -> %+v", first, g.WindowFrame)
	}
}

func TestResizeSubEpsilonDragHoldsFrame(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	got := n.Resize(g, geometry.Size{Width: 965, Height: 580}, true, true, testScreen())
	if got.WindowFrame != g.WindowFrame {
		t.Fatalf("expected frame held below the direction epsilon, got %+v", got.WindowFrame)
	}
}

func TestResizeEndLiveResizeResetsLock(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	screen := testScreen()
	n.Resize(g, geometry.Size{Width: 1200, Height: 640}, true, true, screen)
	n.EndLiveResize()
	got := n.Resize(g, geometry.Size{Width: 960, Height: 900}, true, true, screen)
	// New drag: height is the changed dimension now.
	if got.WindowFrame.Height == g.WindowFrame.Height {
		t.Fatalf("expected new drag to honor height change, got %+v", got.WindowFrame)
	}
}

func TestResizeExternalPicksCandidateWithinRequest(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	got := n.Resize(g, geometry.Size{Width: 1280, Height: 700}, false, true, testScreen())
	if got.WindowFrame.Width > 1280+AspectEpsilon || got.WindowFrame.Height > 700+AspectEpsilon {
		t.Fatalf("expected result within requested size, got %+v", got.WindowFrame)
	}
}

func TestResizeBelowMinimumReturnsCurrent(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	got := n.Resize(g, geometry.Size{Width: 100, Height: 80}, false, true, testScreen())
	if got.WindowFrame != g.WindowFrame {
		t.Fatalf("expected below-minimum request to keep current size, got %+v", got.WindowFrame)
	}
}

func TestResizeUnlockedScalesFreely(t *testing.T) {
	var n ResizeNegotiator
	g := resizeBaseGeometry()
	got := n.Resize(g, geometry.Size{Width: 800, Height: 900}, false, false, testScreen())
	if got.WindowFrame.Width != 800 || got.WindowFrame.Height != 900 {
		t.Fatalf("expected free resize to honor request exactly, got %+v", got.WindowFrame)
	}
}
