package screens

import (
	"fmt"
	"sort"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/util"
)

// Screen describes one display the window can live on. Frame is the full
// monitor rectangle; Visible is the frame minus docks and panels, and is
// the rectangle every layout computation clamps against.
type Screen struct {
	ID      string
	Name    string
	Frame   geometry.Rect
	Visible geometry.Rect
	Primary bool
}

// Provider enumerates the screens currently attached.
type Provider interface {
	Screens() ([]Screen, error)
}

// Static is a fixed screen list. It backs headless runs and tests.
type Static struct {
	List []Screen
}

func (s Static) Screens() ([]Screen, error) {
	if len(s.List) == 0 {
		return nil, fmt.Errorf("static provider has no screens")
	}
	return s.List, nil
}

// DefaultStatic returns a single-screen provider sized like a common
// desktop, with a 25px top panel carved out of the visible frame.
func DefaultStatic() Static {
	frame := geometry.Rect{Width: 1920, Height: 1080}
	return Static{List: []Screen{{
		ID:      "main",
		Name:    "main",
		Frame:   frame,
		Visible: geometry.Rect{X: 0, Y: 25, Width: 1920, Height: 1055},
		Primary: true,
	}}}
}

// Resolve finds the screen with the given ID. A missing or unknown ID
// falls back to the primary screen, then the first screen, and logs the
// substitution so a disappeared monitor is visible in traces.
func Resolve(list []Screen, id string, log *util.Logger) (Screen, error) {
	if len(list) == 0 {
		return Screen{}, fmt.Errorf("no screens available")
	}
	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}
	fallback := list[0]
	for _, s := range list {
		if s.Primary {
			fallback = s
			break
		}
	}
	if log != nil {
		log.Tracef("screen fallback {\"requested\":%q,\"resolved\":%q}", id, fallback.ID)
	}
	return fallback, nil
}

// Sorted returns the list ordered primary-first, then by name, so output
// over the control socket is stable.
func Sorted(list []Screen) []Screen {
	out := make([]Screen, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Primary != out[j].Primary {
			return out[i].Primary
		}
		return out[i].Name < out[j].Name
	})
	return out
}
