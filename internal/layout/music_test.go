package layout

import (
	"testing"

	"github.com/viewframe/viewframe/internal/geometry"
)

func TestMusicGeometryRecomputesPlaylistFromWindowHeight(t *testing.T) {
	// Control bar 72, square video at width 280, stored playlist height
	// 200: the window height determines the playlist, not the hint.
	frame := geometry.Rect{Width: 280, Height: 552}
	g := BuildMusicModeGeometry(frame, "main", 999, true, true, 1.0)
	if g.VideoHeight() != 280 {
		t.Fatalf("expected square video height 280, got %v", g.VideoHeight())
	}
	if g.PlaylistHeight != 200 {
		t.Fatalf("expected playlist height recomputed to 200, got %v", g.PlaylistHeight)
	}
	if g.ContentHeight() != 552 {
		t.Fatalf("expected content height 552, got %v", g.ContentHeight())
	}
}

func TestMusicGeometryKeepsHintWhilePlaylistHidden(t *testing.T) {
	frame := geometry.Rect{Width: 280, Height: 352}
	g := BuildMusicModeGeometry(frame, "main", 240, true, false, 1.0)
	if g.PlaylistHeight != 240 {
		t.Fatalf("expected stored playlist height kept while hidden, got %v", g.PlaylistHeight)
	}
}

func TestMusicGeometryClampsPlaylistMinimum(t *testing.T) {
	frame := geometry.Rect{Width: 280, Height: 400}
	g := BuildMusicModeGeometry(frame, "main", 50, true, true, 1.0)
	if g.PlaylistHeight < PlaylistMinHeight {
		t.Fatalf("expected playlist height >= %v, got %v", PlaylistMinHeight, g.PlaylistHeight)
	}
}

func TestMusicRefitLimitsWidthForPlaylist(t *testing.T) {
	screen := geometry.Rect{Width: 1920, Height: 500}
	frame := geometry.Rect{Width: 460, Height: 700}
	g := BuildMusicModeGeometry(frame, "main", 200, true, true, 1.0)
	refit := g.Refit(screen)
	if !screen.Contains(refit.WindowFrame) {
		t.Fatalf("expected refit window inside screen, got %+v", refit.WindowFrame)
	}
	// Width must leave room for control bar plus minimum playlist.
	maxVideo := screen.Height - MusicControlBarHeight - PlaylistMinHeight
	if refit.VideoHeight() > maxVideo {
		t.Fatalf("video height %v exceeds available %v", refit.VideoHeight(), maxVideo)
	}
}

func TestMusicRefitClampsWidthRange(t *testing.T) {
	screen := geometry.Rect{Width: 1920, Height: 1080}
	g := BuildMusicModeGeometry(geometry.Rect{Width: 100, Height: 300}, "main", 0, false, false, 0)
	refit := g.Refit(screen)
	if refit.WindowFrame.Width != MusicMinWindowWidth {
		t.Fatalf("expected width clamped to %v, got %v", MusicMinWindowWidth, refit.WindowFrame.Width)
	}
	if refit.WindowFrame.Height != MusicControlBarHeight {
		t.Fatalf("expected bare control strip height, got %v", refit.WindowFrame.Height)
	}
}

func TestMusicScaleVideoAnchorsTrailingEdge(t *testing.T) {
	screen := geometry.Rect{Width: 1920, Height: 1080}
	frame := geometry.Rect{X: 1500, Y: 100, Width: 300, Height: 672}
	g := BuildMusicModeGeometry(frame, "main", 200, true, true, 1.0)
	scaled := g.ScaleVideo(geometry.Size{Width: 400}, screen)
	if scaled.WindowFrame.MaxX() != frame.MaxX() {
		t.Fatalf("expected trailing edge anchored at %v, got %v", frame.MaxX(), scaled.WindowFrame.MaxX())
	}
	if scaled.WindowFrame.Width != 400 {
		t.Fatalf("expected width 400, got %v", scaled.WindowFrame.Width)
	}
}

func TestMusicScaleVideoAnchorsLeadingEdge(t *testing.T) {
	screen := geometry.Rect{Width: 1920, Height: 1080}
	frame := geometry.Rect{X: 50, Y: 100, Width: 300, Height: 672}
	g := BuildMusicModeGeometry(frame, "main", 200, true, true, 1.0)
	scaled := g.ScaleVideo(geometry.Size{Width: 400}, screen)
	if scaled.WindowFrame.X != frame.X {
		t.Fatalf("expected leading edge anchored at %v, got %v", frame.X, scaled.WindowFrame.X)
	}
}

func TestMusicScaleVideoRespectsWidthBounds(t *testing.T) {
	screen := geometry.Rect{Width: 1920, Height: 1080}
	g := BuildMusicModeGeometry(geometry.Rect{Width: 300, Height: 672}, "main", 200, true, true, 1.0)
	if got := g.ScaleVideo(geometry.Size{Width: 5000}, screen); got.WindowFrame.Width > MusicMaxWindowWidth {
		t.Fatalf("expected width clamped to %v, got %v", MusicMaxWindowWidth, got.WindowFrame.Width)
	}
	if got := g.ScaleVideo(geometry.Size{Width: 10}, screen); got.WindowFrame.Width < MusicMinWindowWidth {
		t.Fatalf("expected width clamped to %v, got %v", MusicMinWindowWidth, got.WindowFrame.Width)
	}
}

func TestMusicGeometryRoundTripPreservesFrameAndAspect(t *testing.T) {
	frame := geometry.Rect{X: 40, Y: 60, Width: 320, Height: 664}
	g := BuildMusicModeGeometry(frame, "main", 200, true, true, 1.25)
	wg := g.ToWindowGeometry()
	back := MusicModeGeometryFrom(wg, g)
	if back.WindowFrame != g.WindowFrame {
		t.Fatalf("round trip changed frame: %+v != %+v", back.WindowFrame, g.WindowFrame)
	}
	if back.VideoAspect != g.VideoAspect {
		t.Fatalf("round trip changed aspect: %v != %v", back.VideoAspect, g.VideoAspect)
	}
	if back.PlaylistHeight != g.PlaylistHeight {
		t.Fatalf("round trip changed playlist height: %v != %v", back.PlaylistHeight, g.PlaylistHeight)
	}
}

func TestMusicWithAspectResizesHeightFromContent(t *testing.T) {
	g := BuildMusicModeGeometry(geometry.Rect{Width: 280, Height: 552}, "main", 200, true, true, 1.0)
	corrected := g.WithAspect(2.0)
	// Video height drops from 280 to 140; playlist stays at 200.
	want := MusicControlBarHeight + 140 + 200
	if corrected.WindowFrame.Height != float64(want) {
		t.Fatalf("expected height %v after aspect change, got %v", want, corrected.WindowFrame.Height)
	}
}
