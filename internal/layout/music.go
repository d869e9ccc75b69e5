package layout

import (
	"math"

	"github.com/viewframe/viewframe/internal/geometry"
)

// MusicModeGeometry is the solved geometry for the compact music
// presentation: a fixed-height control strip with optional video and
// playlist regions stacked above and below it.
type MusicModeGeometry struct {
	WindowFrame geometry.Rect
	ScreenID    string
	// PlaylistHeight is kept meaningful even while the playlist is hidden
	// so reopening restores the user's preferred height.
	PlaylistHeight  float64
	VideoVisible    bool
	PlaylistVisible bool
	VideoAspect     float64
}

// BuildMusicModeGeometry derives a music-mode geometry from a window frame.
// When the playlist is visible its height is recomputed from the window
// height rather than trusted from the hint.
func BuildMusicModeGeometry(frame geometry.Rect, screenID string, playlistHeightHint float64, videoVisible, playlistVisible bool, aspect float64) MusicModeGeometry {
	g := MusicModeGeometry{
		WindowFrame:     frame.Rounded(),
		ScreenID:        screenID,
		PlaylistHeight:  playlistHeightHint,
		VideoVisible:    videoVisible,
		PlaylistVisible: playlistVisible,
		VideoAspect:     aspect,
	}
	if playlistVisible {
		g.PlaylistHeight = g.WindowFrame.Height - MusicControlBarHeight - g.VideoHeight()
	}
	if g.PlaylistHeight < PlaylistMinHeight {
		g.PlaylistHeight = PlaylistMinHeight
	}
	return g
}

// VideoHeight returns the height of the video region, zero when hidden.
func (g MusicModeGeometry) VideoHeight() float64 {
	if !g.VideoVisible || g.VideoAspect <= 0 {
		return 0
	}
	return math.Round(g.WindowFrame.Width / g.VideoAspect)
}

// ContentHeight is the minimum window height the current regions require.
func (g MusicModeGeometry) ContentHeight() float64 {
	h := MusicControlBarHeight + g.VideoHeight()
	if g.PlaylistVisible {
		h += g.PlaylistHeight
	}
	return h
}

// Refit clamps the geometry into the screen's visible frame: the width is
// limited so the control bar and minimum playlist stay on-screen, then the
// height is recomputed from the (possibly clamped) width.
func (g MusicModeGeometry) Refit(screen geometry.Rect) MusicModeGeometry {
	maxWidth := math.Min(MusicMaxWindowWidth, screen.Width)
	if g.VideoVisible && g.VideoAspect > 0 {
		// Widest window whose video still leaves room for the control
		// bar and a minimum playlist.
		maxVideoHeight := screen.Height - MusicControlBarHeight - PlaylistMinHeight
		if maxVideoHeight > 0 {
			maxWidth = math.Min(maxWidth, maxVideoHeight*g.VideoAspect)
		}
	}
	width := geometry.Clamp(g.WindowFrame.Width, MusicMinWindowWidth, maxWidth)

	frame := g.WindowFrame
	frame.Width = math.Round(width)
	g.WindowFrame = frame
	height := g.ContentHeight()
	minHeight := MusicControlBarHeight + g.VideoHeight()
	if g.PlaylistVisible {
		height = geometry.Clamp(height, minHeight+PlaylistMinHeight, math.Max(screen.Height, minHeight+PlaylistMinHeight))
	} else {
		height = minHeight
	}
	frame.Height = math.Round(height)
	g.WindowFrame = frame.ConstrainedWithin(screen).Rounded()
	if g.PlaylistVisible {
		g.PlaylistHeight = g.WindowFrame.Height - MusicControlBarHeight - g.VideoHeight()
		if g.PlaylistHeight < PlaylistMinHeight {
			g.PlaylistHeight = PlaylistMinHeight
		}
	}
	return g
}

// ScaleVideo scales the window width toward the desired video width within
// the music-mode bounds, re-deriving the video height from the aspect
// ratio only when it fits above the control bar and minimum playlist. The
// window stays anchored to whichever screen edge it sits closer to, so
// scaling feels pinned rather than centered.
func (g MusicModeGeometry) ScaleVideo(desired geometry.Size, screen geometry.Rect) MusicModeGeometry {
	width := geometry.Clamp(desired.Width, MusicMinWindowWidth, MusicMaxWindowWidth)
	if g.VideoVisible && g.VideoAspect > 0 && g.PlaylistVisible {
		available := g.WindowFrame.Height - MusicControlBarHeight - PlaylistMinHeight
		if available > 0 && width/g.VideoAspect > available {
			width = available * g.VideoAspect
			width = geometry.Clamp(width, MusicMinWindowWidth, MusicMaxWindowWidth)
		}
	}

	frame := g.WindowFrame
	anchorTrailing := frame.Center().X > screen.Center().X
	oldMaxX := frame.MaxX()
	frame.Width = math.Round(width)
	if anchorTrailing {
		frame.X = oldMaxX - frame.Width
	}
	g.WindowFrame = frame

	height := g.ContentHeight()
	frame.Height = math.Round(height)
	g.WindowFrame = frame.Rounded()
	if g.PlaylistVisible {
		g.PlaylistHeight = g.WindowFrame.Height - MusicControlBarHeight - g.VideoHeight()
		if g.PlaylistHeight < PlaylistMinHeight {
			g.PlaylistHeight = PlaylistMinHeight
		}
	}
	return g
}

// WithAspect returns the geometry corrected for a new video aspect ratio:
// the stored playlist height is kept and the window height re-derived from
// the content. Used when re-entering music mode after the video changed.
func (g MusicModeGeometry) WithAspect(aspect float64) MusicModeGeometry {
	g.VideoAspect = aspect
	frame := g.WindowFrame
	frame.Height = math.Round(g.ContentHeight())
	g.WindowFrame = frame
	return g
}

// ToWindowGeometry converts to the generic representation so the
// transition builder can treat all modes uniformly. The control strip and
// playlist become the outside bottom bar extent.
func (g MusicModeGeometry) ToWindowGeometry() WindowGeometry {
	outside := geometry.Insets{Bottom: MusicControlBarHeight}
	if g.PlaylistVisible {
		outside.Bottom += g.PlaylistHeight
	}
	return WindowGeometry{
		WindowFrame: g.WindowFrame,
		ScreenID:    g.ScreenID,
		Outside:     outside,
		VideoAspect: g.VideoAspect,
	}
}

// MusicModeGeometryFrom reconstructs a music-mode geometry from the
// generic representation, using hint for the fields the generic form does
// not carry. Round-trips preserve the window frame and aspect exactly.
func MusicModeGeometryFrom(wg WindowGeometry, hint MusicModeGeometry) MusicModeGeometry {
	g := hint
	g.WindowFrame = wg.WindowFrame
	g.ScreenID = wg.ScreenID
	g.VideoAspect = wg.VideoAspect
	if g.PlaylistVisible {
		g.PlaylistHeight = wg.Outside.Bottom - MusicControlBarHeight
		if g.PlaylistHeight < PlaylistMinHeight {
			g.PlaylistHeight = PlaylistMinHeight
		}
	}
	return g
}
