package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
)

// Session is the persisted state restored at window creation: the last
// geometry per mode and the last layout spec. Round-trips exactly.
type Session struct {
	Windowed *GeometrySnapshot `yaml:"windowed,omitempty"`
	Music    *MusicSnapshot    `yaml:"music,omitempty"`
	Spec     *SpecSnapshot     `yaml:"spec,omitempty"`
}

// RectSnapshot serializes a geometry.Rect.
type RectSnapshot struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func rectSnapshot(r geometry.Rect) RectSnapshot {
	return RectSnapshot{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Rect converts back to the geometry type.
func (r RectSnapshot) Rect() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// GeometrySnapshot serializes a windowed-mode WindowGeometry.
type GeometrySnapshot struct {
	Frame       RectSnapshot `yaml:"frame"`
	ScreenID    string       `yaml:"screen"`
	VideoAspect float64      `yaml:"videoAspect"`
}

// SnapshotGeometry captures the persistable fields of a window geometry.
// Bar extents are derived state and are rebuilt from the spec on restore.
func SnapshotGeometry(g layout.WindowGeometry) *GeometrySnapshot {
	return &GeometrySnapshot{
		Frame:       rectSnapshot(g.WindowFrame),
		ScreenID:    g.ScreenID,
		VideoAspect: g.VideoAspect,
	}
}

// Geometry rebuilds the window geometry for the given layout state.
func (s *GeometrySnapshot) Geometry(st layout.State) layout.WindowGeometry {
	return layout.BuildWindowGeometry(s.Frame.Rect(), s.ScreenID, st, s.VideoAspect)
}

// MusicSnapshot serializes a MusicModeGeometry.
type MusicSnapshot struct {
	Frame           RectSnapshot `yaml:"frame"`
	ScreenID        string       `yaml:"screen"`
	PlaylistHeight  float64      `yaml:"playlistHeight"`
	VideoVisible    bool         `yaml:"videoVisible"`
	PlaylistVisible bool         `yaml:"playlistVisible"`
	VideoAspect     float64      `yaml:"videoAspect"`
}

// SnapshotMusic captures a music-mode geometry.
func SnapshotMusic(g layout.MusicModeGeometry) *MusicSnapshot {
	return &MusicSnapshot{
		Frame:           rectSnapshot(g.WindowFrame),
		ScreenID:        g.ScreenID,
		PlaylistHeight:  g.PlaylistHeight,
		VideoVisible:    g.VideoVisible,
		PlaylistVisible: g.PlaylistVisible,
		VideoAspect:     g.VideoAspect,
	}
}

// Geometry rebuilds the music-mode geometry.
func (s *MusicSnapshot) Geometry() layout.MusicModeGeometry {
	return layout.MusicModeGeometry{
		WindowFrame:     s.Frame.Rect(),
		ScreenID:        s.ScreenID,
		PlaylistHeight:  s.PlaylistHeight,
		VideoVisible:    s.VideoVisible,
		PlaylistVisible: s.PlaylistVisible,
		VideoAspect:     s.VideoAspect,
	}
}

// SidebarSnapshot serializes one sidebar of a spec.
type SidebarSnapshot struct {
	Placement  string   `yaml:"placement"`
	Tabs       []string `yaml:"tabs,omitempty"`
	Visibility string   `yaml:"visibility"`
	LastTab    string   `yaml:"lastTab,omitempty"`
	Width      float64  `yaml:"width"`
}

// SpecSnapshot serializes a layout spec.
type SpecSnapshot struct {
	Mode               string          `yaml:"mode"`
	LegacyStyle        bool            `yaml:"legacyStyle"`
	TopBarPlacement    string          `yaml:"topBarPlacement"`
	BottomBarPlacement string          `yaml:"bottomBarPlacement"`
	Leading            SidebarSnapshot `yaml:"leading"`
	Trailing           SidebarSnapshot `yaml:"trailing"`
	OSCEnabled         bool            `yaml:"oscEnabled"`
	OSCPosition        string          `yaml:"oscPosition"`
}

// SnapshotSpec captures a layout spec.
func SnapshotSpec(spec layout.Spec) *SpecSnapshot {
	return &SpecSnapshot{
		Mode:               spec.Mode.String(),
		LegacyStyle:        spec.LegacyStyle,
		TopBarPlacement:    spec.TopBarPlacement.String(),
		BottomBarPlacement: spec.BottomBarPlacement.String(),
		Leading:            sidebarSnapshot(spec.Leading),
		Trailing:           sidebarSnapshot(spec.Trailing),
		OSCEnabled:         spec.OSCEnabled,
		OSCPosition:        spec.OSCPosition.String(),
	}
}

func sidebarSnapshot(sb layout.Sidebar) SidebarSnapshot {
	// Empty tab lists stay nil: omitempty drops them from the document,
	// so a non-nil empty slice would not survive a round trip.
	var tabs []string
	for _, t := range sb.TabGroups {
		tabs = append(tabs, string(t))
	}
	return SidebarSnapshot{
		Placement:  sb.Placement.String(),
		Tabs:       tabs,
		Visibility: sb.Visibility.String(),
		LastTab:    string(sb.LastTab),
		Width:      sb.Width,
	}
}

// Spec rebuilds the layout spec, normalized.
func (s *SpecSnapshot) Spec() layout.Spec {
	mode, _ := layout.ParseWindowMode(s.Mode)
	return layout.NewSpec(layout.Spec{
		Mode:               mode,
		LegacyStyle:        s.LegacyStyle,
		TopBarPlacement:    parsePlacement(s.TopBarPlacement),
		BottomBarPlacement: parsePlacement(s.BottomBarPlacement),
		Leading:            s.Leading.sidebar(),
		Trailing:           s.Trailing.sidebar(),
		OSCEnabled:         s.OSCEnabled,
		OSCPosition:        parseOSCPosition(s.OSCPosition),
	})
}

func (s SidebarSnapshot) sidebar() layout.Sidebar {
	var tabs []layout.TabGroup
	for _, t := range s.Tabs {
		tabs = append(tabs, layout.TabGroup(t))
	}
	return layout.Sidebar{
		Placement:  parsePlacement(s.Placement),
		TabGroups:  tabs,
		Visibility: parseVisibility(s.Visibility),
		LastTab:    layout.TabGroup(s.LastTab),
		Width:      s.Width,
	}
}

func parsePlacement(s string) layout.BarPlacement {
	if s == "outside" {
		return layout.PlacementOutsideViewport
	}
	return layout.PlacementInsideViewport
}

func parseOSCPosition(s string) layout.OSCPosition {
	switch s {
	case "top":
		return layout.OSCTop
	case "bottom":
		return layout.OSCBottom
	default:
		return layout.OSCFloating
	}
}

func parseVisibility(s string) layout.SidebarVisibility {
	switch s {
	case "will-show":
		return layout.SidebarWillShow
	case "shown":
		return layout.SidebarShown
	case "will-hide":
		return layout.SidebarWillHide
	default:
		return layout.SidebarHidden
	}
}

// Load reads a session snapshot. A missing file is not an error; it means
// a fresh start.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save writes the session atomically: a temp file in the same directory,
// then a rename over the destination.
func Save(path string, s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}
