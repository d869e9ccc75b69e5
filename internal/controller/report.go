package controller

import (
	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
)

// SidebarReport describes one sidebar for the control surface.
type SidebarReport struct {
	Placement  string  `json:"placement"`
	Visibility string  `json:"visibility"`
	Width      float64 `json:"width"`
}

// Report is the JSON view of the current layout served over the control
// socket.
type Report struct {
	Mode        string        `json:"mode"`
	LegacyStyle bool          `json:"legacyStyle"`
	OSCEnabled  bool          `json:"oscEnabled"`
	OSCPosition string        `json:"oscPosition"`
	Leading     SidebarReport `json:"leading"`
	Trailing    SidebarReport `json:"trailing"`

	Screen      string        `json:"screen"`
	WindowFrame geometry.Rect `json:"windowFrame"`
	VideoSize   geometry.Size `json:"videoSize"`
	Viewport    geometry.Size `json:"viewport"`
	VideoAspect float64       `json:"videoAspect"`

	TopBarHeight    float64 `json:"topBarHeight"`
	BottomBarHeight float64 `json:"bottomBarHeight"`
	ChromeShown     bool    `json:"chromeShown"`

	PlaylistHeight  float64 `json:"playlistHeight,omitempty"`
	PlaylistVisible bool    `json:"playlistVisible,omitempty"`
}

// Report captures the current layout for display.
func (c *Controller) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := Report{
		Mode:            c.spec.Mode.String(),
		LegacyStyle:     c.spec.LegacyStyle,
		OSCEnabled:      c.spec.OSCEnabled,
		OSCPosition:     c.spec.OSCPosition.String(),
		Leading:         sidebarReport(c.spec.Leading),
		Trailing:        sidebarReport(c.spec.Trailing),
		Screen:          c.geometry.ScreenID,
		WindowFrame:     c.geometry.WindowFrame,
		VideoSize:       c.geometry.VideoSize(),
		Viewport:        c.geometry.ViewportSize(),
		VideoAspect:     c.geometry.VideoAspect,
		TopBarHeight:    c.state.TopBarHeight(),
		BottomBarHeight: c.state.BottomBarHeight,
		ChromeShown:     c.chromeShown,
	}
	if c.spec.Mode == layout.ModeMusic {
		r.PlaylistHeight = c.music.PlaylistHeight
		r.PlaylistVisible = c.music.PlaylistVisible
	}
	return r
}

func sidebarReport(sb layout.Sidebar) SidebarReport {
	return SidebarReport{
		Placement:  sb.Placement.String(),
		Visibility: sb.Visibility.String(),
		Width:      sb.Width,
	}
}
