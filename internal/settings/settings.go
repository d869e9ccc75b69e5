package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viewframe/viewframe/internal/layout"
)

// Preferences is the top-level preferences document.
type Preferences struct {
	LogLevel string       `yaml:"logLevel"`
	Window   WindowPrefs  `yaml:"window"`
	OSC      OSCPrefs     `yaml:"osc"`
	Sidebars SidebarSet   `yaml:"sidebars"`
	Screens  ScreenPrefs  `yaml:"screens"`
	Control  ControlPrefs `yaml:"control"`
	Store    StorePrefs   `yaml:"store"`
}

// WindowPrefs configures window chrome.
type WindowPrefs struct {
	LegacyStyle        bool   `yaml:"legacyStyle"`
	TopBarPlacement    string `yaml:"topBarPlacement"`
	BottomBarPlacement string `yaml:"bottomBarPlacement"`
}

// OSCPrefs configures the on-screen controller.
type OSCPrefs struct {
	Enabled  bool   `yaml:"enabled"`
	Position string `yaml:"position"`
}

// SidebarSet holds both sidebar configurations.
type SidebarSet struct {
	Leading  SidebarPrefs `yaml:"leading"`
	Trailing SidebarPrefs `yaml:"trailing"`
}

// SidebarPrefs configures one sidebar.
type SidebarPrefs struct {
	Placement string   `yaml:"placement"`
	Width     float64  `yaml:"width"`
	Tabs      []string `yaml:"tabs"`
}

// ScreenPrefs selects the screen provider.
type ScreenPrefs struct {
	Provider  string `yaml:"provider"`
	Preferred string `yaml:"preferred"`
}

// ControlPrefs configures the control socket.
type ControlPrefs struct {
	Socket string `yaml:"socket"`
}

// StorePrefs configures session persistence.
type StorePrefs struct {
	Path string `yaml:"path"`
}

// UnmarshalYAML handles deprecated fields while decoding preference files.
func (p *Preferences) UnmarshalYAML(value *yaml.Node) error {
	type rawPreferences struct {
		LogLevel string      `yaml:"logLevel"`
		Window   WindowPrefs `yaml:"window"`
		OSC      *OSCPrefs   `yaml:"osc"`
		// Pre-1.0 files carried the OSC settings at the top level.
		LegacyOSCEnabled  *bool        `yaml:"oscEnabled"`
		LegacyOSCPosition *string      `yaml:"oscPosition"`
		Sidebars          SidebarSet   `yaml:"sidebars"`
		Screens           ScreenPrefs  `yaml:"screens"`
		Control           ControlPrefs `yaml:"control"`
		Store             StorePrefs   `yaml:"store"`
	}

	var raw rawPreferences
	if err := value.Decode(&raw); err != nil {
		return err
	}

	p.LogLevel = raw.LogLevel
	p.Window = raw.Window
	p.Sidebars = raw.Sidebars
	p.Screens = raw.Screens
	p.Control = raw.Control
	p.Store = raw.Store

	switch {
	case raw.OSC != nil:
		p.OSC = *raw.OSC
	case raw.LegacyOSCEnabled != nil || raw.LegacyOSCPosition != nil:
		if raw.LegacyOSCEnabled != nil {
			p.OSC.Enabled = *raw.LegacyOSCEnabled
		}
		if raw.LegacyOSCPosition != nil {
			p.OSC.Position = *raw.LegacyOSCPosition
		}
	default:
		p.OSC = OSCPrefs{}
	}
	return nil
}

// Default returns the preferences used when no file exists.
func Default() *Preferences {
	p := &Preferences{}
	p.applyDefaults()
	return p
}

// Load reads and validates a preferences file.
func Load(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults, and validates a serialized preferences document.
func Parse(data []byte) (*Preferences, error) {
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Preferences) applyDefaults() {
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.Window.TopBarPlacement == "" {
		p.Window.TopBarPlacement = "inside"
	}
	if p.Window.BottomBarPlacement == "" {
		p.Window.BottomBarPlacement = "inside"
	}
	if p.OSC.Position == "" {
		p.OSC.Position = "floating"
	}
	if p.Sidebars.Leading.Placement == "" {
		p.Sidebars.Leading.Placement = "outside"
	}
	if p.Sidebars.Trailing.Placement == "" {
		p.Sidebars.Trailing.Placement = "outside"
	}
	if p.Sidebars.Leading.Width == 0 {
		p.Sidebars.Leading.Width = layout.DefaultSidebarWidth
	}
	if p.Sidebars.Trailing.Width == 0 {
		p.Sidebars.Trailing.Width = layout.DefaultSidebarWidth
	}
	if len(p.Sidebars.Leading.Tabs) == 0 {
		p.Sidebars.Leading.Tabs = []string{"playlist", "chapters"}
	}
	if len(p.Sidebars.Trailing.Tabs) == 0 {
		p.Sidebars.Trailing.Tabs = []string{"settings", "plugins"}
	}
	if p.Screens.Provider == "" {
		p.Screens.Provider = "static"
	}
	if p.Control.Socket == "" {
		p.Control.Socket = DefaultSocketPath()
	}
	if p.Store.Path == "" {
		p.Store.Path = DefaultStorePath()
	}
}

// Validate performs basic sanity checks.
func (p *Preferences) Validate() error {
	if _, err := parsePlacement(p.Window.TopBarPlacement); err != nil {
		return fmt.Errorf("window.topBarPlacement: %w", err)
	}
	if _, err := parsePlacement(p.Window.BottomBarPlacement); err != nil {
		return fmt.Errorf("window.bottomBarPlacement: %w", err)
	}
	if _, err := parseOSCPosition(p.OSC.Position); err != nil {
		return fmt.Errorf("osc.position: %w", err)
	}
	if err := p.Sidebars.Leading.validate(); err != nil {
		return fmt.Errorf("sidebars.leading: %w", err)
	}
	if err := p.Sidebars.Trailing.validate(); err != nil {
		return fmt.Errorf("sidebars.trailing: %w", err)
	}
	switch p.Screens.Provider {
	case "static", "x11":
	default:
		return fmt.Errorf("screens.provider must be static or x11, got %q", p.Screens.Provider)
	}
	return nil
}

func (s SidebarPrefs) validate() error {
	if _, err := parsePlacement(s.Placement); err != nil {
		return err
	}
	if s.Width < layout.MinSidebarWidth || s.Width > layout.MaxSidebarWidth {
		return fmt.Errorf("width %v outside [%v, %v]", s.Width, layout.MinSidebarWidth, layout.MaxSidebarWidth)
	}
	seen := map[string]struct{}{}
	for _, tab := range s.Tabs {
		if _, err := parseTabGroup(tab); err != nil {
			return err
		}
		if _, dup := seen[tab]; dup {
			return fmt.Errorf("duplicate tab %q", tab)
		}
		seen[tab] = struct{}{}
	}
	return nil
}

func parsePlacement(s string) (layout.BarPlacement, error) {
	switch s {
	case "inside":
		return layout.PlacementInsideViewport, nil
	case "outside":
		return layout.PlacementOutsideViewport, nil
	default:
		return 0, fmt.Errorf("must be inside or outside, got %q", s)
	}
}

func parseOSCPosition(s string) (layout.OSCPosition, error) {
	switch s {
	case "floating":
		return layout.OSCFloating, nil
	case "top":
		return layout.OSCTop, nil
	case "bottom":
		return layout.OSCBottom, nil
	default:
		return 0, fmt.Errorf("must be floating, top, or bottom, got %q", s)
	}
}

func parseTabGroup(s string) (layout.TabGroup, error) {
	switch layout.TabGroup(s) {
	case layout.TabPlaylist, layout.TabChapters, layout.TabSettings, layout.TabPlugins:
		return layout.TabGroup(s), nil
	default:
		return "", fmt.Errorf("unknown tab group %q", s)
	}
}

// BuildSpec derives the preference-driven layout spec. Mode and sidebar
// visibility are per-window state, not preferences, and start at their
// zero values.
func (p *Preferences) BuildSpec() layout.Spec {
	topBar, _ := parsePlacement(p.Window.TopBarPlacement)
	bottomBar, _ := parsePlacement(p.Window.BottomBarPlacement)
	oscPos, _ := parseOSCPosition(p.OSC.Position)
	return layout.NewSpec(layout.Spec{
		Mode:               layout.ModeWindowed,
		LegacyStyle:        p.Window.LegacyStyle,
		TopBarPlacement:    topBar,
		BottomBarPlacement: bottomBar,
		Leading:            p.Sidebars.Leading.spec(),
		Trailing:           p.Sidebars.Trailing.spec(),
		OSCEnabled:         p.OSC.Enabled,
		OSCPosition:        oscPos,
	})
}

func (s SidebarPrefs) spec() layout.Sidebar {
	placement, _ := parsePlacement(s.Placement)
	tabs := make([]layout.TabGroup, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		if tab, err := parseTabGroup(t); err == nil {
			tabs = append(tabs, tab)
		}
	}
	return layout.Sidebar{
		Placement: placement,
		TabGroups: tabs,
		Width:     s.Width,
	}
}

// DefaultPath is the preferences file location honoring XDG conventions.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "viewframe", "preferences.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "viewframe.yaml"
	}
	return filepath.Join(home, ".config", "viewframe", "preferences.yaml")
}

// DefaultSocketPath is the control socket location.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "viewframe.sock")
	}
	return filepath.Join(os.TempDir(), "viewframe.sock")
}

// DefaultStorePath is the persisted session snapshot location.
func DefaultStorePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "viewframe", "session.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "viewframe-session.yaml"
	}
	return filepath.Join(home, ".local", "state", "viewframe", "session.yaml")
}
