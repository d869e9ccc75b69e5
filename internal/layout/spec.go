package layout

// WindowMode is the closed set of mutually exclusive window presentations.
type WindowMode int

const (
	ModeWindowed WindowMode = iota
	ModeFullScreen
	ModeMusic
)

func (m WindowMode) String() string {
	switch m {
	case ModeWindowed:
		return "windowed"
	case ModeFullScreen:
		return "fullscreen"
	case ModeMusic:
		return "music"
	default:
		return "unknown"
	}
}

// ParseWindowMode converts a mode name to a WindowMode.
func ParseWindowMode(s string) (WindowMode, bool) {
	switch s {
	case "windowed":
		return ModeWindowed, true
	case "fullscreen":
		return ModeFullScreen, true
	case "music":
		return ModeMusic, true
	default:
		return ModeWindowed, false
	}
}

// BarPlacement determines whether a chrome bar reserves its own space
// (outside the viewport) or overlays the video (inside it).
type BarPlacement int

const (
	PlacementInsideViewport BarPlacement = iota
	PlacementOutsideViewport
)

func (p BarPlacement) String() string {
	if p == PlacementOutsideViewport {
		return "outside"
	}
	return "inside"
}

// OSCPosition places the on-screen controller strip.
type OSCPosition int

const (
	OSCFloating OSCPosition = iota
	OSCTop
	OSCBottom
)

func (p OSCPosition) String() string {
	switch p {
	case OSCTop:
		return "top"
	case OSCBottom:
		return "bottom"
	default:
		return "floating"
	}
}

// SidebarLocation identifies one of the two sidebars.
type SidebarLocation int

const (
	SidebarLeading SidebarLocation = iota
	SidebarTrailing
)

func (l SidebarLocation) String() string {
	if l == SidebarTrailing {
		return "trailing"
	}
	return "leading"
}

// SidebarVisibility is the transient visibility state of a sidebar.
type SidebarVisibility int

const (
	SidebarHidden SidebarVisibility = iota
	SidebarWillShow
	SidebarShown
	SidebarWillHide
)

// OccupiesSpace reports whether the sidebar claims layout width in this
// state. A sidebar that is about to show already reserves its width so the
// open animation grows into committed space.
func (v SidebarVisibility) OccupiesSpace() bool {
	return v == SidebarShown || v == SidebarWillShow
}

func (v SidebarVisibility) String() string {
	switch v {
	case SidebarWillShow:
		return "will-show"
	case SidebarShown:
		return "shown"
	case SidebarWillHide:
		return "will-hide"
	default:
		return "hidden"
	}
}

// TabGroup names a sidebar tab group.
type TabGroup string

const (
	TabPlaylist TabGroup = "playlist"
	TabChapters TabGroup = "chapters"
	TabSettings TabGroup = "settings"
	TabPlugins  TabGroup = "plugins"
)

// Sidebar is the per-sidebar portion of a LayoutSpec.
type Sidebar struct {
	Placement  BarPlacement
	TabGroups  []TabGroup
	Visibility SidebarVisibility
	LastTab    TabGroup
	Width      float64
}

func (s Sidebar) clone() Sidebar {
	s.TabGroups = append([]TabGroup(nil), s.TabGroups...)
	return s
}

// Spec is the immutable description of a desired window layout. Specs are
// never mutated in place; every change clones the current spec through one
// of the With helpers, and NewSpec/normalization enforce the music-mode
// invariants.
type Spec struct {
	Mode               WindowMode
	LegacyStyle        bool
	TopBarPlacement    BarPlacement
	BottomBarPlacement BarPlacement
	Leading            Sidebar
	Trailing           Sidebar
	OSCEnabled         bool
	OSCPosition        OSCPosition
}

// NewSpec returns a normalized copy of raw.
func NewSpec(raw Spec) Spec {
	return raw.normalized()
}

// normalized enforces the cross-field invariants. Music mode carries its
// own compact chrome: sidebars forced hidden, OSC disabled, bottom bar
// outside and top bar inside the viewport.
func (s Spec) normalized() Spec {
	s.Leading = s.Leading.clone()
	s.Trailing = s.Trailing.clone()
	if s.Leading.Width <= 0 {
		s.Leading.Width = DefaultSidebarWidth
	}
	if s.Trailing.Width <= 0 {
		s.Trailing.Width = DefaultSidebarWidth
	}
	if s.Mode == ModeMusic {
		s.Leading.Visibility = SidebarHidden
		s.Trailing.Visibility = SidebarHidden
		s.OSCEnabled = false
		s.BottomBarPlacement = PlacementOutsideViewport
		s.TopBarPlacement = PlacementInsideViewport
	}
	return s
}

// WithMode clones the spec with a new window mode.
func (s Spec) WithMode(mode WindowMode) Spec {
	s.Mode = mode
	return s.normalized()
}

// WithSidebarVisibility clones the spec with one sidebar's visibility
// replaced. Ignored in music mode, where sidebars are forced hidden.
func (s Spec) WithSidebarVisibility(loc SidebarLocation, v SidebarVisibility) Spec {
	switch loc {
	case SidebarLeading:
		s.Leading.Visibility = v
	case SidebarTrailing:
		s.Trailing.Visibility = v
	}
	return s.normalized()
}

// WithSidebarWidth clones the spec with one sidebar's width replaced,
// clamped to the supported range.
func (s Spec) WithSidebarWidth(loc SidebarLocation, width float64) Spec {
	if width < MinSidebarWidth {
		width = MinSidebarWidth
	}
	if width > MaxSidebarWidth {
		width = MaxSidebarWidth
	}
	switch loc {
	case SidebarLeading:
		s.Leading.Width = width
	case SidebarTrailing:
		s.Trailing.Width = width
	}
	return s.normalized()
}

// WithOSC clones the spec with new on-screen-controller settings.
func (s Spec) WithOSC(enabled bool, pos OSCPosition) Spec {
	s.OSCEnabled = enabled
	s.OSCPosition = pos
	return s.normalized()
}

// SidebarAt returns the sidebar at the given location.
func (s Spec) SidebarAt(loc SidebarLocation) Sidebar {
	if loc == SidebarTrailing {
		return s.Trailing
	}
	return s.Leading
}

// PreferenceFields projects the fields of a spec that are derived purely
// from global preferences, excluding transient per-window state such as
// mode and sidebar visibility. Music-mode normalization forces several of
// these fields, so projections only compare meaningfully between specs of
// the same mode.
type PreferenceFields struct {
	LegacyStyle        bool
	TopBarPlacement    BarPlacement
	BottomBarPlacement BarPlacement
	OSCEnabled         bool
	OSCPosition        OSCPosition
}

// PreferenceFields extracts the preference-derived projection of the spec.
func (s Spec) PreferenceFields() PreferenceFields {
	return PreferenceFields{
		LegacyStyle:        s.LegacyStyle,
		TopBarPlacement:    s.TopBarPlacement,
		BottomBarPlacement: s.BottomBarPlacement,
		OSCEnabled:         s.OSCEnabled,
		OSCPosition:        s.OSCPosition,
	}
}

// Equal reports whether two specs describe the same layout.
func (s Spec) Equal(other Spec) bool {
	if s.Mode != other.Mode || s.LegacyStyle != other.LegacyStyle ||
		s.TopBarPlacement != other.TopBarPlacement || s.BottomBarPlacement != other.BottomBarPlacement ||
		s.OSCEnabled != other.OSCEnabled || s.OSCPosition != other.OSCPosition {
		return false
	}
	return sidebarEqual(s.Leading, other.Leading) && sidebarEqual(s.Trailing, other.Trailing)
}

func sidebarEqual(a, b Sidebar) bool {
	if a.Placement != b.Placement || a.Visibility != b.Visibility ||
		a.LastTab != b.LastTab || a.Width != b.Width {
		return false
	}
	if len(a.TabGroups) != len(b.TabGroups) {
		return false
	}
	for i := range a.TabGroups {
		if a.TabGroups[i] != b.TabGroups[i] {
			return false
		}
	}
	return true
}
