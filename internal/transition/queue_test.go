package transition

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/util"
)

func testQueue(opts ...QueueOption) *Queue {
	logger := util.NewLoggerWithWriter(util.LevelError, io.Discard)
	opts = append([]QueueOption{WithClock(ImmediateClock{})}, opts...)
	return NewQueue(logger, opts...)
}

func frameTransition(width float64) *Transition {
	return &Transition{Tasks: []Task{
		{Name: "prepare", Phase: PhasePrepare, Effects: []Effect{FadeChrome{Visible: false}}},
		{
			Name:     "open-new",
			Phase:    PhaseOpen,
			Duration: 50 * time.Millisecond,
			Geometry: true,
			Effects:  []Effect{SetWindowFrame{Frame: geometry.Rect{Width: width, Height: width}}},
		},
	}}
}

func TestQueueRunsTasksInSubmissionOrder(t *testing.T) {
	q := testQueue()
	rec := &recorder{}
	doneCalls := 0
	q.Submit(frameTransition(100), func(stale bool) {
		doneCalls++
		if stale {
			t.Fatal("unexpected stale completion")
		}
	})
	if err := q.Drain(context.Background(), rec); err != nil {
		t.Fatalf("drain: %v", err)
	}
	want := []string{"fade visible=false", "frame 100x100"}
	if len(rec.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("call %d: expected %q, got %q", i, want[i], rec.calls[i])
		}
	}
	if doneCalls != 1 {
		t.Fatalf("expected one completion, got %d", doneCalls)
	}
}

func TestQueueSkipsStaleGeometryTasks(t *testing.T) {
	var skipped []string
	q := testQueue(WithStaleHook(func(task Task) {
		skipped = append(skipped, task.Name)
	}))
	rec := &recorder{}

	var firstStale bool
	q.Submit(frameTransition(100), func(stale bool) { firstStale = stale })
	q.Submit(frameTransition(200), nil)

	if err := q.Drain(context.Background(), rec); err != nil {
		t.Fatalf("drain: %v", err)
	}
	// The first transition's geometry step must be a no-op; the second
	// transition's final frame wins.
	for _, call := range rec.calls {
		if call == "frame 100x100" {
			t.Fatalf("stale frame applied: %v", rec.calls)
		}
	}
	if rec.calls[len(rec.calls)-1] != "frame 200x200" {
		t.Fatalf("expected newest frame last, got %v", rec.calls)
	}
	if len(skipped) != 1 || skipped[0] != "open-new" {
		t.Fatalf("expected one skipped geometry task, got %v", skipped)
	}
	if !firstStale {
		t.Fatal("expected first transition to complete as stale")
	}
}

func TestQueueRunsNonGeometryTasksEvenWhenStale(t *testing.T) {
	q := testQueue()
	rec := &recorder{}
	q.Submit(frameTransition(100), nil)
	q.Submit(frameTransition(200), nil)
	if err := q.Drain(context.Background(), rec); err != nil {
		t.Fatalf("drain: %v", err)
	}
	// Both prepare steps run; only the stale geometry step is skipped.
	fades := 0
	for _, call := range rec.calls {
		if call == "fade visible=false" {
			fades++
		}
	}
	if fades != 2 {
		t.Fatalf("expected both prepare steps to run, got %v", rec.calls)
	}
}

func TestQueueEmptyTransitionCompletesImmediately(t *testing.T) {
	q := testQueue()
	called := false
	q.Submit(&Transition{}, func(stale bool) {
		called = true
		if stale {
			t.Fatal("empty transition must not be stale")
		}
	})
	if !called {
		t.Fatal("expected immediate completion for empty transition")
	}
}

func TestQueueTicketsIncrease(t *testing.T) {
	q := testQueue()
	a := q.Submit(&Transition{}, nil)
	b := q.Submit(&Transition{}, nil)
	if b <= a {
		t.Fatalf("expected increasing tickets, got %d then %d", a, b)
	}
	if q.Ticket() != b {
		t.Fatalf("expected latest ticket %d, got %d", b, q.Ticket())
	}
}

func TestQueueRunStopsOnCancel(t *testing.T) {
	q := testQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Run(ctx, &recorder{}); err == nil {
		t.Fatal("expected context error from canceled run")
	}
}
