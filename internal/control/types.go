package control

import (
	"os"

	"github.com/viewframe/viewframe/internal/settings"
)

const (
	// Action names supported by the control protocol.
	ActionLayoutGet      = "layout.get"
	ActionModeSet        = "mode.set"
	ActionSidebarToggle  = "sidebar.toggle"
	ActionVideoScale     = "video.scale"
	ActionMetricsGet     = "metrics.get"
	ActionScreensRefresh = "screens.refresh"
	ActionReload         = "reload"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// TransitionResult summarizes a layout transition accepted by the daemon.
// The transition itself runs on the daemon's animation queue; Tasks and
// NoOp tell the caller whether anything was actually queued.
type TransitionResult struct {
	Mode  string `json:"mode"`
	Tasks int    `json:"tasks"`
	NoOp  bool   `json:"noop"`
}

// VideoScaleResult reports the video size reached after a scale request,
// which may be smaller than asked for when the screen clamps it.
type VideoScaleResult struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSocketPath returns the control socket location, honoring the
// environment override.
func DefaultSocketPath() string {
	if env := os.Getenv("VIEWFRAME_CONTROL_SOCKET"); env != "" {
		return env
	}
	return settings.DefaultSocketPath()
}
