package playback

import (
	"context"
	"time"

	"github.com/viewframe/viewframe/internal/geometry"
)

// EventKind classifies playback notifications relevant to layout.
type EventKind int

const (
	// EventVideoReconfigured fires when the decoder's output geometry
	// changes: new file, rotation, or aspect override.
	EventVideoReconfigured EventKind = iota
	// EventPlaybackStopped fires when playback ends and the video region
	// empties.
	EventPlaybackStopped
)

func (k EventKind) String() string {
	if k == EventPlaybackStopped {
		return "stopped"
	}
	return "video-reconfigured"
}

// Event is one playback notification. Aspect is zero when the ratio is
// not yet known.
type Event struct {
	Kind   EventKind
	Aspect float64
}

// Binding is the playback-engine boundary. Events arrive from the
// engine's own thread; the consumer must funnel them onto its single
// layout goroutine before touching geometry state.
type Binding interface {
	// VideoAspect reports the current ratio; ok is false before the
	// first frame decodes.
	VideoAspect() (aspect float64, ok bool)
	// Events is the notification stream. Closed when the binding shuts
	// down.
	Events() <-chan Event
	// SetVideoSize reports the final chosen video pixel dimensions so
	// the renderer can size its output surface.
	SetVideoSize(size geometry.Size)
	// SetKeepAspect toggles aspect-ratio keeping in the engine.
	SetKeepAspect(keep bool)
	Close() error
}

// ScriptStep is one timed aspect change in a scripted binding.
type ScriptStep struct {
	After  time.Duration
	Aspect float64
}

// Scripted replays a fixed timeline of aspect changes. Used by the
// daemon's demo mode, where no real playback engine is attached.
type Scripted struct {
	*Fake
	steps []ScriptStep
}

// NewScripted wraps a fake binding with a timeline.
func NewScripted(steps []ScriptStep) *Scripted {
	return &Scripted{Fake: NewFake(), steps: steps}
}

// Run replays the script until done or canceled.
func (s *Scripted) Run(ctx context.Context) error {
	for _, step := range s.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.After):
		}
		s.SetAspect(step.Aspect)
	}
	return nil
}
