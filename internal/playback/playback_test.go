package playback

import (
	"testing"

	"github.com/viewframe/viewframe/internal/geometry"
)

func TestFakeAspectUnknownUntilSet(t *testing.T) {
	f := NewFake()
	if _, ok := f.VideoAspect(); ok {
		t.Fatal("expected aspect unknown before first frame")
	}
	f.SetAspect(16.0 / 9.0)
	aspect, ok := f.VideoAspect()
	if !ok || aspect != 16.0/9.0 {
		t.Fatalf("expected known aspect, got %v %v", aspect, ok)
	}
}

func TestFakeEmitsReconfigureEvents(t *testing.T) {
	f := NewFake()
	f.SetAspect(2.0)
	ev := <-f.Events()
	if ev.Kind != EventVideoReconfigured || ev.Aspect != 2.0 {
		t.Fatalf("unexpected event %+v", ev)
	}
	f.Stop()
	if ev := <-f.Events(); ev.Kind != EventPlaybackStopped {
		t.Fatalf("expected stop event, got %+v", ev)
	}
	if _, ok := f.VideoAspect(); ok {
		t.Fatal("expected aspect unknown after stop")
	}
}

func TestFakeRecordsCommandSink(t *testing.T) {
	f := NewFake()
	f.SetVideoSize(geometry.Size{Width: 1280, Height: 720})
	f.SetKeepAspect(false)
	f.SetKeepAspect(true)
	if sizes := f.VideoSizes(); len(sizes) != 1 || sizes[0].Width != 1280 {
		t.Fatalf("unexpected video size log %v", sizes)
	}
	if calls := f.KeepAspectCalls(); len(calls) != 2 || calls[0] || !calls[1] {
		t.Fatalf("unexpected keep-aspect log %v", calls)
	}
}

func TestFakeCloseClosesEvents(t *testing.T) {
	f := NewFake()
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, open := <-f.Events(); open {
		t.Fatal("expected closed event channel")
	}
	// Further pushes after close must not panic.
	f.SetAspect(1.0)
	f.Stop()
}
