package layout

import (
	"math"

	"github.com/viewframe/viewframe/internal/geometry"
)

// FitOption controls how a solved geometry relates to the target screen's
// visible frame.
type FitOption int

const (
	// FitNone applies no screen constraint (used mid-drag).
	FitNone FitOption = iota
	// FitCenterInside clamps the window to the visible frame and centers it.
	FitCenterInside
	// FitKeepInside clamps the window to the visible frame while moving it
	// as little as possible.
	FitKeepInside
)

// WindowGeometry is the solved geometry for windowed and full-screen
// presentations: the window frame plus the bar extents that partition it
// into video and viewport.
type WindowGeometry struct {
	WindowFrame geometry.Rect
	ScreenID    string
	// Outside bars reserve their own space and shrink the video region.
	Outside geometry.Insets
	// Inside bars overlay the viewport without shrinking the video.
	Inside      geometry.Insets
	VideoAspect float64
}

// BuildWindowGeometry derives a geometry from a window frame and the bar
// extents of a layout state.
func BuildWindowGeometry(frame geometry.Rect, screenID string, st State, aspect float64) WindowGeometry {
	outside, inside := barInsets(st)
	return WindowGeometry{
		WindowFrame: frame.Rounded(),
		ScreenID:    screenID,
		Outside:     outside,
		Inside:      inside,
		VideoAspect: aspect,
	}
}

// barInsets projects a layout state's bar sizes onto outside/inside insets.
func barInsets(st State) (outside, inside geometry.Insets) {
	top := st.TopBarHeight()
	if st.Spec.TopBarPlacement == PlacementOutsideViewport {
		outside.Top = top
	} else if st.TopBar.IsShown() {
		inside.Top = top
	}
	if st.BottomBar.IsShown() {
		if st.Spec.BottomBarPlacement == PlacementOutsideViewport {
			outside.Bottom = st.BottomBarHeight
		} else {
			inside.Bottom = st.BottomBarHeight
		}
	}
	outside.Leading = st.LeadingSidebar.OutsideWidth
	outside.Trailing = st.TrailingSidebar.OutsideWidth
	inside.Leading = st.LeadingSidebar.InsideWidth
	inside.Trailing = st.TrailingSidebar.InsideWidth
	return outside, inside
}

// ContentSize is the window size minus all outside bars.
func (g WindowGeometry) ContentSize() geometry.Size {
	return g.Outside.ShrinkSize(g.WindowFrame.Size())
}

// VideoSize returns the video rectangle's size: the content region when it
// already matches the aspect ratio (within AspectEpsilon, so division- and
// subtraction-derived results agree), otherwise the aspect-fitted
// letterbox inside it.
func (g WindowGeometry) VideoSize() geometry.Size {
	content := g.ContentSize()
	if g.VideoAspect <= 0 || content.IsEmpty() {
		return content
	}
	fromWidth := content.Width / g.VideoAspect
	if math.Abs(fromWidth-content.Height) <= AspectEpsilon {
		return content
	}
	if fromWidth <= content.Height {
		return geometry.Size{Width: content.Width, Height: fromWidth}
	}
	return geometry.Size{Width: content.Height * g.VideoAspect, Height: content.Height}
}

// VideoRect returns the video rectangle in window-local coordinates,
// centered within the content region.
func (g WindowGeometry) VideoRect() geometry.Rect {
	content := geometry.Rect{
		X:      g.Outside.Leading,
		Y:      g.Outside.Top,
		Width:  g.ContentSize().Width,
		Height: g.ContentSize().Height,
	}
	video := g.VideoSize()
	return geometry.Rect{Width: video.Width, Height: video.Height}.CenteredIn(content)
}

// ViewportSize is the video size plus the inside bars that overlay it.
func (g WindowGeometry) ViewportSize() geometry.Size {
	return g.Inside.GrowSize(g.VideoSize())
}

// slack is the extra margin the window currently keeps around the video in
// each dimension.
func (g WindowGeometry) slack() geometry.Size {
	content := g.ContentSize()
	video := g.VideoSize()
	s := geometry.Size{Width: content.Width - video.Width, Height: content.Height - video.Height}
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}

// WithResizedBars recomputes the bar extents for a new layout state while
// holding the window frame fixed. Used when panels open or close.
func (g WindowGeometry) WithResizedBars(st State) WindowGeometry {
	g.Outside, g.Inside = barInsets(st)
	return g
}

// WithAspect returns the geometry with a new video aspect ratio.
func (g WindowGeometry) WithAspect(aspect float64) WindowGeometry {
	g.VideoAspect = aspect
	return g
}

// ScaleVideo grows or shrinks the window so the video occupies desired.
// When lockViewport is true the window hugs the video exactly (outside
// bars only); when false the current extra margin around the video is
// preserved. Out-of-range requests clamp; this never fails.
func (g WindowGeometry) ScaleVideo(desired geometry.Size, fit FitOption, lockViewport bool, screen geometry.Rect) WindowGeometry {
	video := g.clampVideoSize(desired)
	margin := geometry.Size{}
	if !lockViewport {
		margin = g.slack()
	}
	if fit != FitNone {
		maxVideo := geometry.Size{
			Width:  screen.Width - g.Outside.Horizontal() - margin.Width,
			Height: screen.Height - g.Outside.Vertical() - margin.Height,
		}
		video = shrinkToFit(video, maxVideo, g.VideoAspect)
	}

	frame := g.WindowFrame
	center := frame.Center()
	frame.Width = video.Width + g.Outside.Horizontal() + margin.Width
	frame.Height = video.Height + g.Outside.Vertical() + margin.Height
	frame.X = center.X - frame.Width/2
	frame.Y = center.Y - frame.Height/2
	frame = frame.Rounded()

	switch fit {
	case FitCenterInside:
		frame = frame.CenteredIn(screen).Rounded()
	case FitKeepInside:
		frame = frame.ConstrainedWithin(screen).Rounded()
	}
	g.WindowFrame = frame
	return g
}

// ScaleViewport is ScaleVideo with the viewport (video plus inside bars)
// as the target instead of the raw video.
func (g WindowGeometry) ScaleViewport(desired geometry.Size, fit FitOption, screen geometry.Rect) WindowGeometry {
	video := g.Inside.ShrinkSize(desired)
	return g.ScaleVideo(video, fit, true, screen)
}

// Refit clamps the geometry into the screen's visible frame without
// changing the aspect ratio: width is constrained first, then height, and
// the other dimension re-derived from the ratio.
func (g WindowGeometry) Refit(fit FitOption, screen geometry.Rect) WindowGeometry {
	if fit == FitNone {
		return g
	}
	margin := g.slack()
	width := geometry.Clamp(g.WindowFrame.Width, MinWindowSize.Width, screen.Width)
	height := g.WindowFrame.Height
	if g.VideoAspect > 0 {
		videoW := width - g.Outside.Horizontal() - margin.Width
		if videoW < 0 {
			videoW = 0
		}
		height = videoW/g.VideoAspect + g.Outside.Vertical() + margin.Height
		if height > screen.Height {
			height = screen.Height
			videoH := height - g.Outside.Vertical() - margin.Height
			if videoH < 0 {
				videoH = 0
			}
			width = videoH*g.VideoAspect + g.Outside.Horizontal() + margin.Width
		}
	} else {
		height = geometry.Clamp(height, MinWindowSize.Height, screen.Height)
	}

	frame := g.WindowFrame
	frame.Width = width
	frame.Height = height
	frame = frame.Rounded()
	if fit == FitCenterInside {
		frame = frame.CenteredIn(screen).Rounded()
	} else {
		frame = frame.ConstrainedWithin(screen).Rounded()
	}
	g.WindowFrame = frame
	return g
}

// clampVideoSize snaps a requested video size to the aspect ratio and the
// minimum content constraints. When the minimums are unsatisfiable in both
// dimensions the minimum feasible size wins; this is a UI constraint, not
// a failure.
func (g WindowGeometry) clampVideoSize(desired geometry.Size) geometry.Size {
	if g.VideoAspect <= 0 {
		if desired.Width < MinVideoSize.Width {
			desired.Width = MinVideoSize.Width
		}
		if desired.Height < MinVideoSize.Height {
			desired.Height = MinVideoSize.Height
		}
		return desired.Rounded()
	}
	width := desired.Width
	if width < MinVideoSize.Width {
		width = MinVideoSize.Width
	}
	height := width / g.VideoAspect
	if height < MinVideoSize.Height {
		height = MinVideoSize.Height
		width = height * g.VideoAspect
		if width < MinVideoSize.Width {
			width = MinVideoSize.Width
		}
	}
	return geometry.Size{Width: width, Height: height}
}

// shrinkToFit scales video down (never up) to fit within bounds while
// keeping the aspect ratio.
func shrinkToFit(video, bounds geometry.Size, aspect float64) geometry.Size {
	if bounds.Width <= 0 || bounds.Height <= 0 || video.IsEmpty() {
		return video
	}
	scale := math.Min(bounds.Width/video.Width, bounds.Height/video.Height)
	if scale >= 1 {
		return video
	}
	video.Width *= scale
	if aspect > 0 {
		video.Height = video.Width / aspect
	} else {
		video.Height *= scale
	}
	return video
}
