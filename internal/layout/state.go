package layout

// Visibility tags how a chrome region shows and fades.
type Visibility int

const (
	VisibilityHidden Visibility = iota
	VisibilityAlwaysShown
	VisibilityFadeableWithTopBar
	VisibilityFadeableIndependently
)

func (v Visibility) String() string {
	switch v {
	case VisibilityAlwaysShown:
		return "always-shown"
	case VisibilityFadeableWithTopBar:
		return "fadeable-top"
	case VisibilityFadeableIndependently:
		return "fadeable"
	default:
		return "hidden"
	}
}

// IsShown reports whether the region is drawn at all.
func (v Visibility) IsShown() bool { return v != VisibilityHidden }

// SidebarExtent is the width a sidebar projects into the layout, split by
// whether its placement reserves space or overlays the video.
type SidebarExtent struct {
	InsideWidth  float64
	OutsideWidth float64
}

// State is the derived, read-only layout snapshot computed purely from a
// Spec. It is always produced by BuildState and never hand-edited.
type State struct {
	Spec Spec

	TitleBar              Visibility
	TopBar                Visibility
	BottomBar             Visibility
	FloatingOSC           Visibility
	LeadingSidebarToggle  Visibility
	TrailingSidebarToggle Visibility

	TitleBarHeight  float64
	TopOSCHeight    float64
	BottomBarHeight float64
	LeadingSidebar  SidebarExtent
	TrailingSidebar SidebarExtent

	SidebarDownshift float64
	SidebarTabHeight float64
}

// TopBarHeight is the combined title bar and top OSC strip height.
func (st State) TopBarHeight() float64 {
	return st.TitleBarHeight + st.TopOSCHeight
}

// BuildState derives the layout state for a spec. Pure; no side effects.
func BuildState(spec Spec) State {
	spec = spec.normalized()
	st := State{Spec: spec}

	switch spec.Mode {
	case ModeFullScreen:
		buildFullScreenState(&st)
	case ModeMusic:
		buildMusicState(&st)
	default:
		buildWindowedState(&st)
	}

	st.LeadingSidebar = sidebarExtent(spec.Leading)
	st.TrailingSidebar = sidebarExtent(spec.Trailing)
	st.LeadingSidebarToggle = toggleVisibility(spec, spec.Leading, st.TopBar)
	st.TrailingSidebarToggle = toggleVisibility(spec, spec.Trailing, st.TopBar)
	st.SidebarDownshift, st.SidebarTabHeight = tabStripMetrics(spec, st.TitleBarHeight, st.TopOSCHeight)
	return st
}

// Full screen keeps window controls visible and disables chrome fades.
func buildFullScreenState(st *State) {
	spec := st.Spec
	st.TitleBar = VisibilityAlwaysShown
	st.TitleBarHeight = StandardTitleBarHeight
	st.TopBar = VisibilityAlwaysShown
	if spec.OSCEnabled {
		switch spec.OSCPosition {
		case OSCTop:
			st.TitleBarHeight = ReducedTitleBarHeight
			st.TopOSCHeight = TopOSCHeight
		case OSCBottom:
			st.BottomBar = VisibilityAlwaysShown
			st.BottomBarHeight = BottomOSCHeight
		default:
			st.FloatingOSC = VisibilityAlwaysShown
		}
	}
}

func buildWindowedState(st *State) {
	spec := st.Spec
	if spec.TopBarPlacement == PlacementInsideViewport {
		st.TopBar = VisibilityFadeableWithTopBar
	} else {
		st.TopBar = VisibilityAlwaysShown
	}
	if spec.LegacyStyle {
		st.TitleBar = VisibilityHidden
		st.TitleBarHeight = 0
	} else {
		st.TitleBar = st.TopBar
		st.TitleBarHeight = StandardTitleBarHeight
	}
	if !spec.OSCEnabled {
		return
	}
	switch spec.OSCPosition {
	case OSCTop:
		// The OSC strip shares the top bar; the title row shrinks to
		// its reduced height to make room.
		if st.TitleBarHeight > 0 {
			st.TitleBarHeight = ReducedTitleBarHeight
		}
		st.TopOSCHeight = TopOSCHeight
	case OSCBottom:
		if spec.BottomBarPlacement == PlacementInsideViewport {
			st.BottomBar = VisibilityFadeableIndependently
		} else {
			st.BottomBar = VisibilityAlwaysShown
		}
		st.BottomBarHeight = BottomOSCHeight
	default:
		st.FloatingOSC = VisibilityFadeableIndependently
	}
}

// Music mode draws a fixed control strip rather than an OSC, with a
// fading compact top bar over the (optional) video.
func buildMusicState(st *State) {
	st.TitleBar = VisibilityFadeableWithTopBar
	st.TitleBarHeight = StandardTitleBarHeight
	st.TopBar = VisibilityFadeableWithTopBar
	st.BottomBar = VisibilityAlwaysShown
	st.BottomBarHeight = MusicControlBarHeight
}

func sidebarExtent(sb Sidebar) SidebarExtent {
	if !sb.Visibility.OccupiesSpace() {
		return SidebarExtent{}
	}
	if sb.Placement == PlacementOutsideViewport {
		return SidebarExtent{OutsideWidth: sb.Width}
	}
	return SidebarExtent{InsideWidth: sb.Width}
}

func toggleVisibility(spec Spec, sb Sidebar, topBar Visibility) Visibility {
	if spec.Mode == ModeMusic || len(sb.TabGroups) == 0 {
		return VisibilityHidden
	}
	if topBar == VisibilityFadeableWithTopBar {
		return VisibilityFadeableWithTopBar
	}
	return VisibilityAlwaysShown
}

// tabStripMetrics aligns the sidebar tab strip with the title bar and the
// top OSC. Music mode uses a fixed compact height; otherwise the strip
// matches the OSC strip height when that falls in a sane range.
func tabStripMetrics(spec Spec, titleBarHeight, topOSCHeight float64) (downshift, tabHeight float64) {
	if spec.Mode == ModeMusic {
		return 0, MusicTabHeight
	}
	tabHeight = DefaultTabHeight
	if spec.TopBarPlacement == PlacementInsideViewport {
		downshift = titleBarHeight
		if topOSCHeight >= MinTabHeight && topOSCHeight <= MaxTabHeight {
			tabHeight = topOSCHeight
		}
	}
	return downshift, tabHeight
}
