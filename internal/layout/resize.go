package layout

import (
	"math"

	"github.com/viewframe/viewframe/internal/geometry"
)

type drivingDimension int

const (
	drivingNone drivingDimension = iota
	drivingWidth
	drivingHeight
)

// ResizeNegotiator decides how a requested window size maps onto an
// aspect-locked geometry. It carries per-drag state so the driving
// dimension is chosen once per gesture instead of per frame, which keeps
// corner drags from oscillating between width- and height-derived frames.
type ResizeNegotiator struct {
	dragActive bool
	dragStart  geometry.Size
	driving    drivingDimension
}

// EndLiveResize resets the per-drag state. Call when the user releases the
// resize handle.
func (n *ResizeNegotiator) EndLiveResize() {
	n.dragActive = false
	n.driving = drivingNone
}

// Resize negotiates a requested window size against the current geometry.
// Requests below the minimum window size return the current geometry
// unchanged rather than clamping to an exact minimum.
func (n *ResizeNegotiator) Resize(g WindowGeometry, requested geometry.Size, live, aspectLocked bool, screen geometry.Rect) WindowGeometry {
	if requested.Width < MinWindowSize.Width || requested.Height < MinWindowSize.Height {
		return g
	}
	if !aspectLocked || g.VideoAspect <= 0 {
		frame := g.WindowFrame.WithSize(requested).Rounded()
		if !live {
			frame = frame.ConstrainedWithin(screen).Rounded()
		}
		g.WindowFrame = frame
		return g
	}

	fromWidth := g.resizedFromWidth(requested.Width)
	fromHeight := g.resizedFromHeight(requested.Height)

	var chosen WindowGeometry
	if live {
		chosen = n.chooseLive(g, requested, fromWidth, fromHeight)
	} else {
		n.EndLiveResize()
		chosen = chooseFitting(requested, fromWidth, fromHeight)
		chosen.WindowFrame = chosen.WindowFrame.ConstrainedWithin(screen).Rounded()
	}
	return chosen
}

// chooseLive picks the candidate for one frame of a live drag. The driving
// dimension locks in on the first frame where the cumulative delta from
// the pre-drag size crosses ResizeDirectionEpsilon and is then held for
// the rest of the gesture; sub-epsilon movement is handle jitter.
func (n *ResizeNegotiator) chooseLive(g WindowGeometry, requested geometry.Size, fromWidth, fromHeight WindowGeometry) WindowGeometry {
	if !n.dragActive {
		n.dragActive = true
		n.dragStart = g.WindowFrame.Size()
		n.driving = drivingNone
	}
	if n.driving == drivingNone {
		dw := math.Abs(requested.Width - n.dragStart.Width)
		dh := math.Abs(requested.Height - n.dragStart.Height)
		switch {
		case dw >= ResizeDirectionEpsilon && dw >= dh:
			n.driving = drivingWidth
		case dh >= ResizeDirectionEpsilon:
			n.driving = drivingHeight
		default:
			return g
		}
	}
	if n.driving == drivingWidth {
		return fromWidth
	}
	return fromHeight
}

// resizedFromWidth derives the full geometry where the requested width
// drives the video height. Bars stay pinned; only the video scales.
func (g WindowGeometry) resizedFromWidth(width float64) WindowGeometry {
	margin := g.slack()
	videoW := width - g.Outside.Horizontal() - margin.Width
	if videoW < MinVideoSize.Width {
		videoW = MinVideoSize.Width
	}
	frame := g.WindowFrame
	frame.Width = math.Round(videoW + g.Outside.Horizontal() + margin.Width)
	frame.Height = math.Round(videoW/g.VideoAspect + g.Outside.Vertical() + margin.Height)
	g.WindowFrame = frame
	return g
}

// resizedFromHeight derives the geometry where the requested height drives
// the video width.
func (g WindowGeometry) resizedFromHeight(height float64) WindowGeometry {
	margin := g.slack()
	videoH := height - g.Outside.Vertical() - margin.Height
	if videoH < MinVideoSize.Height {
		videoH = MinVideoSize.Height
	}
	frame := g.WindowFrame
	frame.Height = math.Round(videoH + g.Outside.Vertical() + margin.Height)
	frame.Width = math.Round(videoH*g.VideoAspect + g.Outside.Horizontal() + margin.Width)
	g.WindowFrame = frame
	return g
}

// chooseFitting picks the candidate whose frame does not exceed the
// request in either dimension; external resize tools expect the result to
// fit within what they asked for.
func chooseFitting(requested geometry.Size, fromWidth, fromHeight WindowGeometry) WindowGeometry {
	const slack = AspectEpsilon
	widthFits := fromWidth.WindowFrame.Width <= requested.Width+slack &&
		fromWidth.WindowFrame.Height <= requested.Height+slack
	heightFits := fromHeight.WindowFrame.Width <= requested.Width+slack &&
		fromHeight.WindowFrame.Height <= requested.Height+slack
	switch {
	case widthFits && heightFits:
		// Prefer the larger result when both fit.
		if fromWidth.WindowFrame.Width >= fromHeight.WindowFrame.Width {
			return fromWidth
		}
		return fromHeight
	case widthFits:
		return fromWidth
	case heightFits:
		return fromHeight
	default:
		// Neither fits (request below feasible size); take the smaller.
		if fromWidth.WindowFrame.Width <= fromHeight.WindowFrame.Width {
			return fromWidth
		}
		return fromHeight
	}
}
