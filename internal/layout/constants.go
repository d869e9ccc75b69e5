package layout

import "github.com/viewframe/viewframe/internal/geometry"

// Chrome sizing in logical pixels. These values match the standard chrome
// heights of the desktop shell; the sidebar tab range and both epsilons are
// empirically tuned and safe to adjust.
const (
	StandardTitleBarHeight = 28
	ReducedTitleBarHeight  = 22
	TopOSCHeight           = 40
	BottomOSCHeight        = 44

	MusicControlBarHeight = 72
	PlaylistMinHeight     = 138
	MusicMinWindowWidth   = 260
	MusicMaxWindowWidth   = 460
	MusicTabHeight        = 34

	DefaultSidebarWidth = 280
	MinSidebarWidth     = 240
	MaxSidebarWidth     = 500
	// Minimum viewport span that must remain between two open sidebars.
	MinSidebarGap = 20

	DefaultTabHeight = 48
	MinTabHeight     = 32
	MaxTabHeight     = 70
)

// Minimum content sizes. Requests below these are refused by returning the
// current geometry unchanged, which behaves better with window snapping
// tools than clamping to an exact minimum.
var (
	MinVideoSize  = geometry.Size{Width: 285, Height: 120}
	MinWindowSize = geometry.Size{Width: 285, Height: 120}
)

const (
	// AspectEpsilon treats a ratio computed by division and one computed
	// by subtraction as equal, avoiding hysteresis flicker between two
	// near-identical results.
	AspectEpsilon = 1.0
	// ResizeDirectionEpsilon is the minimum delta that counts as a real
	// change when deciding which dimension drives a live resize.
	ResizeDirectionEpsilon = 10.0
)
