package transition

import (
	"time"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
)

// Phase orders the tasks of a transition. Phases always run in declaration
// order within one transition.
type Phase int

const (
	// PhasePrepare commits the new layout state before anything animates,
	// so code invoked mid-animation reads a consistent current layout.
	PhasePrepare Phase = iota
	// PhaseClose fades out departing chrome and shrinks old bars toward
	// the middle geometry.
	PhaseClose
	// PhaseRestyle swaps structural configuration between the shrink and
	// grow phases. Zero duration; visually a no-op when timed correctly.
	PhaseRestyle
	// PhaseOpen grows bars to final size, moves the window to the output
	// frame, and fades in new chrome.
	PhaseOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseClose:
		return "close"
	case PhaseRestyle:
		return "restyle"
	case PhaseOpen:
		return "open"
	default:
		return "prepare"
	}
}

// Easing names the animation curve a task runs with. The compositing
// backend maps these to its own primitives.
type Easing int

const (
	EaseLinear Easing = iota
	EaseInOut
	EaseOut
)

// Phase durations. Empirically tuned; treat as tunables, not invariants.
const (
	ClosePhaseDuration = 120 * time.Millisecond
	OpenPhaseDuration  = 250 * time.Millisecond
	MusicPhaseDuration = 150 * time.Millisecond
)

// Applier is the surface a task effect mutates. The daemon implements it
// against the real window; tests implement it as a recorder.
type Applier interface {
	CommitLayout(spec layout.Spec, st layout.State)
	SetWindowStyle(decorated bool)
	FadeChrome(visible bool)
	ResizeBars(outside, inside geometry.Insets)
	RestyleControls(pos layout.OSCPosition)
	SetWindowFrame(frame geometry.Rect)
	SetVideoSize(size geometry.Size)
	SetKeepAspect(keep bool)
}

// Effect is one plain-data mutation of the window. Effects carry the
// computed target values so a task list can be inspected and unit-tested
// without a real animation backend.
type Effect interface {
	apply(a Applier)
}

// CommitLayout makes the new spec and state current.
type CommitLayout struct {
	Spec  layout.Spec
	State layout.State
}

func (e CommitLayout) apply(a Applier) { a.CommitLayout(e.Spec, e.State) }

// SetWindowStyle toggles native window decoration, used when entering or
// leaving legacy presentation.
type SetWindowStyle struct {
	Decorated bool
}

func (e SetWindowStyle) apply(a Applier) { a.SetWindowStyle(e.Decorated) }

// FadeChrome fades the fadeable chrome regions in or out.
type FadeChrome struct {
	Visible bool
}

func (e FadeChrome) apply(a Applier) { a.FadeChrome(e.Visible) }

// ResizeBars applies new bar extents while the window frame holds.
type ResizeBars struct {
	Outside geometry.Insets
	Inside  geometry.Insets
}

func (e ResizeBars) apply(a Applier) { a.ResizeBars(e.Outside, e.Inside) }

// RestyleControls moves the transport controls to a new position.
type RestyleControls struct {
	Position layout.OSCPosition
}

func (e RestyleControls) apply(a Applier) { a.RestyleControls(e.Position) }

// SetWindowFrame moves and resizes the window.
type SetWindowFrame struct {
	Frame geometry.Rect
}

func (e SetWindowFrame) apply(a Applier) { a.SetWindowFrame(e.Frame) }

// SetVideoSize reports the final chosen video pixel dimensions to the
// playback binding so the renderer can size its output surface.
type SetVideoSize struct {
	Size geometry.Size
}

func (e SetVideoSize) apply(a Applier) { a.SetVideoSize(e.Size) }

// SetKeepAspect toggles aspect-ratio keeping in the playback binding
// around full-screen transitions.
type SetKeepAspect struct {
	Keep bool
}

func (e SetKeepAspect) apply(a Applier) { a.SetKeepAspect(e.Keep) }

// Task is one timed unit of a transition: a duration, an easing curve, and
// the effects to apply when it runs. Geometry-mutating tasks carry the
// Geometry flag so the queue can skip them once a newer transition has
// been submitted.
type Task struct {
	Name     string
	Phase    Phase
	Duration time.Duration
	Easing   Easing
	Geometry bool
	Effects  []Effect
}

// Apply runs the task's effects in order.
func (t Task) Apply(a Applier) {
	for _, e := range t.Effects {
		e.apply(a)
	}
}
