package layout

import (
	"math"
	"testing"

	"github.com/viewframe/viewframe/internal/geometry"
)

const widescreen = 16.0 / 9.0

func testScreen() geometry.Rect {
	return geometry.Rect{X: 0, Y: 25, Width: 1920, Height: 1055}
}

// Windowed layout with a 40px top bar outside the viewport and nothing else.
func topBarOutsideState() State {
	return BuildState(NewSpec(Spec{
		Mode:            ModeWindowed,
		LegacyStyle:     true,
		TopBarPlacement: PlacementOutsideViewport,
		OSCEnabled:      true,
		OSCPosition:     OSCTop,
	}))
}

func TestBarInsetsTopBarOutside(t *testing.T) {
	st := topBarOutsideState()
	g := BuildWindowGeometry(geometry.Rect{Width: 960, Height: 580}, "main", st, widescreen)
	if g.Outside.Top != 40 {
		t.Fatalf("expected 40px outside top bar, got %v", g.Outside.Top)
	}
	if !g.Inside.IsZero() {
		t.Fatalf("expected no inside bars, got %+v", g.Inside)
	}
	video := g.VideoSize()
	if video.Width != 960 || video.Height != 540 {
		t.Fatalf("expected 960x540 video, got %+v", video)
	}
}

func TestVideoSizeToleratesOffByOneAspect(t *testing.T) {
	// Content height differs from the division-derived height by under a
	// pixel; both results must be treated as equal to avoid flicker.
	g := WindowGeometry{
		WindowFrame: geometry.Rect{Width: 1001, Height: 563},
		VideoAspect: widescreen,
	}
	video := g.VideoSize()
	if video != g.ContentSize() {
		t.Fatalf("expected near-aspect content to be used as-is, got %+v", video)
	}
}

func TestVideoSizeLetterboxesMismatchedContent(t *testing.T) {
	g := WindowGeometry{
		WindowFrame: geometry.Rect{Width: 1000, Height: 1000},
		VideoAspect: 2.0,
	}
	video := g.VideoSize()
	if video.Width != 1000 || video.Height != 500 {
		t.Fatalf("expected letterboxed 1000x500 video, got %+v", video)
	}
	rect := g.VideoRect()
	if rect.Y != 250 {
		t.Fatalf("expected video centered vertically at 250, got %+v", rect)
	}
}

func TestViewportSizeIncludesInsideBars(t *testing.T) {
	st := BuildState(NewSpec(Spec{
		Mode:               ModeWindowed,
		LegacyStyle:        true,
		OSCEnabled:         true,
		OSCPosition:        OSCBottom,
		BottomBarPlacement: PlacementInsideViewport,
	}))
	g := BuildWindowGeometry(geometry.Rect{Width: 1280, Height: 720}, "main", st, widescreen)
	viewport := g.ViewportSize()
	if viewport.Height != g.VideoSize().Height+BottomOSCHeight {
		t.Fatalf("expected viewport to include inside bottom bar, got %+v", viewport)
	}
}

func TestScaleVideoExactWithLockedViewport(t *testing.T) {
	st := topBarOutsideState()
	g := BuildWindowGeometry(geometry.Rect{X: 100, Y: 100, Width: 960, Height: 580}, "main", st, widescreen)
	scaled := g.ScaleVideo(geometry.Size{Width: 1280, Height: 720}, FitKeepInside, true, testScreen())
	if scaled.WindowFrame.Width != 1280 || scaled.WindowFrame.Height != 760 {
		t.Fatalf("expected 1280x760 window, got %+v", scaled.WindowFrame)
	}
	if !testScreen().Contains(scaled.WindowFrame) {
		t.Fatalf("expected scaled window inside screen, got %+v", scaled.WindowFrame)
	}
}

func TestScaleVideoClampsToScreen(t *testing.T) {
	st := topBarOutsideState()
	screen := testScreen()
	g := BuildWindowGeometry(geometry.Rect{Width: 960, Height: 580}, "main", st, widescreen)
	scaled := g.ScaleVideo(geometry.Size{Width: 4000, Height: 2250}, FitKeepInside, true, screen)
	if !screen.Contains(scaled.WindowFrame) {
		t.Fatalf("expected oversized request clamped into screen, got %+v", scaled.WindowFrame)
	}
	video := scaled.VideoSize()
	if math.Abs(video.Width/video.Height-widescreen) > 0.02 {
		t.Fatalf("aspect lost while clamping: %+v", video)
	}
}

func TestScaleVideoClampsBelowMinimumFeasible(t *testing.T) {
	st := topBarOutsideState()
	g := BuildWindowGeometry(geometry.Rect{Width: 960, Height: 580}, "main", st, widescreen)
	scaled := g.ScaleVideo(geometry.Size{Width: 10, Height: 5}, FitKeepInside, true, testScreen())
	video := scaled.VideoSize()
	if video.Width < MinVideoSize.Width-AspectEpsilon {
		t.Fatalf("expected video clamped to minimum, got %+v", video)
	}
}

func TestScaleViewportTargetsVideoPlusInsideBars(t *testing.T) {
	st := BuildState(NewSpec(Spec{
		Mode:               ModeWindowed,
		LegacyStyle:        true,
		OSCEnabled:         true,
		OSCPosition:        OSCBottom,
		BottomBarPlacement: PlacementInsideViewport,
	}))
	g := BuildWindowGeometry(geometry.Rect{Width: 960, Height: 540}, "main", st, widescreen)
	scaled := g.ScaleViewport(geometry.Size{Width: 1280, Height: 720 + BottomOSCHeight}, FitKeepInside, testScreen())
	if scaled.VideoSize().Width != 1280 {
		t.Fatalf("expected 1280 video width, got %+v", scaled.VideoSize())
	}
}

func TestRefitConstrainsWidthThenHeight(t *testing.T) {
	st := topBarOutsideState()
	screen := testScreen()
	g := BuildWindowGeometry(geometry.Rect{X: 0, Y: 0, Width: 2400, Height: 1390}, "main", st, widescreen)
	refit := g.Refit(FitKeepInside, screen)
	if !screen.Contains(refit.WindowFrame) {
		t.Fatalf("expected refit window inside screen, got %+v", refit.WindowFrame)
	}
	video := refit.VideoSize()
	if math.Abs(video.Width/video.Height-widescreen) > 0.02 {
		t.Fatalf("refit must not change aspect, got %+v", video)
	}
}

func TestRefitTallScreenLimitsByHeight(t *testing.T) {
	st := topBarOutsideState()
	screen := geometry.Rect{Width: 1920, Height: 500}
	g := BuildWindowGeometry(geometry.Rect{Width: 1920, Height: 1120}, "main", st, widescreen)
	refit := g.Refit(FitCenterInside, screen)
	if !screen.Contains(refit.WindowFrame) {
		t.Fatalf("expected refit window inside short screen, got %+v", refit.WindowFrame)
	}
}

func TestRefitFitNoneLeavesGeometryAlone(t *testing.T) {
	st := topBarOutsideState()
	g := BuildWindowGeometry(geometry.Rect{X: -500, Y: -500, Width: 4000, Height: 2290}, "main", st, widescreen)
	if got := g.Refit(FitNone, testScreen()); got.WindowFrame != g.WindowFrame {
		t.Fatalf("expected FitNone to leave frame untouched, got %+v", got.WindowFrame)
	}
}

func TestWithResizedBarsHoldsWindowFrame(t *testing.T) {
	closed := BuildState(NewSpec(Spec{Mode: ModeWindowed, LegacyStyle: true}))
	open := BuildState(NewSpec(Spec{
		Mode:        ModeWindowed,
		LegacyStyle: true,
		Leading:     Sidebar{Placement: PlacementOutsideViewport, Visibility: SidebarShown, Width: 280},
	}))
	g := BuildWindowGeometry(geometry.Rect{Width: 1280, Height: 720}, "main", closed, widescreen)
	resized := g.WithResizedBars(open)
	if resized.WindowFrame != g.WindowFrame {
		t.Fatalf("expected window frame held fixed, got %+v", resized.WindowFrame)
	}
	if resized.Outside.Leading != 280 {
		t.Fatalf("expected leading bar extent 280, got %v", resized.Outside.Leading)
	}
	if resized.VideoSize().Width >= g.VideoSize().Width {
		t.Fatalf("expected video to shrink when sidebar opens")
	}
}

func TestAspectLockHoldsAcrossWidths(t *testing.T) {
	st := topBarOutsideState()
	screen := geometry.Rect{Width: 5000, Height: 3000}
	g := BuildWindowGeometry(geometry.Rect{Width: 960, Height: 580}, "main", st, widescreen)
	for width := MinVideoSize.Width; width <= 2560; width += 37 {
		scaled := g.ScaleVideo(geometry.Size{Width: width, Height: width / widescreen}, FitKeepInside, true, screen)
		video := scaled.VideoSize()
		if video.IsEmpty() {
			t.Fatalf("empty video at width %v", width)
		}
		if math.Abs(video.Width/video.Height-widescreen) > 0.02 {
			t.Fatalf("aspect violated at width %v: %+v", width, video)
		}
	}
}
