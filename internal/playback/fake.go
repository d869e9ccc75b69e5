package playback

import (
	"sync"

	"github.com/viewframe/viewframe/internal/geometry"
)

// Fake is an in-memory binding for tests and demo mode. Aspect changes
// push a reconfigure event; command-sink calls are recorded.
type Fake struct {
	mu       sync.Mutex
	aspect   float64
	known    bool
	closed   bool
	events   chan Event
	videoLog []geometry.Size
	keepLog  []bool
}

// NewFake returns a binding with no aspect ratio known yet.
func NewFake() *Fake {
	return &Fake{events: make(chan Event, 16)}
}

func (f *Fake) VideoAspect() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aspect, f.known
}

// SetAspect updates the ratio and emits a reconfigure event. An aspect at
// or below zero marks the ratio unknown again.
func (f *Fake) SetAspect(aspect float64) {
	f.mu.Lock()
	f.aspect = aspect
	f.known = aspect > 0
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	f.events <- Event{Kind: EventVideoReconfigured, Aspect: aspect}
}

// Stop emits a playback-stopped event.
func (f *Fake) Stop() {
	f.mu.Lock()
	f.known = false
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	f.events <- Event{Kind: EventPlaybackStopped}
}

func (f *Fake) Events() <-chan Event {
	return f.events
}

func (f *Fake) SetVideoSize(size geometry.Size) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoLog = append(f.videoLog, size)
}

func (f *Fake) SetKeepAspect(keep bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keepLog = append(f.keepLog, keep)
}

// VideoSizes returns the recorded SetVideoSize calls.
func (f *Fake) VideoSizes() []geometry.Size {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]geometry.Size, len(f.videoLog))
	copy(out, f.videoLog)
	return out
}

// KeepAspectCalls returns the recorded SetKeepAspect calls.
func (f *Fake) KeepAspectCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.keepLog))
	copy(out, f.keepLog)
	return out
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}
