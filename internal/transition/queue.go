package transition

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viewframe/viewframe/internal/util"
)

// Clock abstracts task timing so tests can run transitions instantly.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// ImmediateClock fires every wait instantly. For tests.
type ImmediateClock struct{}

func (ImmediateClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

type queuedTask struct {
	task   Task
	ticket uint64
	done   func(stale bool)
}

// Queue executes transition tasks strictly in submission order. Each
// submitted transition gets a monotonically increasing ticket; a
// geometry-mutating task whose ticket is no longer the latest is skipped
// rather than removed, so rapid repeated requests converge on the newest
// one without visible fighting.
type Queue struct {
	logger  *util.Logger
	clock   Clock
	onStale func(Task)

	latest atomic.Uint64

	mu      sync.Mutex
	pending []queuedTask
	wake    chan struct{}
}

// QueueOption customizes a Queue.
type QueueOption func(*Queue)

// WithClock substitutes the timing source.
func WithClock(c Clock) QueueOption {
	return func(q *Queue) { q.clock = c }
}

// WithStaleHook registers a callback invoked for every skipped stale task.
func WithStaleHook(fn func(Task)) QueueOption {
	return func(q *Queue) { q.onStale = fn }
}

// NewQueue creates an empty serial queue.
func NewQueue(logger *util.Logger, opts ...QueueOption) *Queue {
	q := &Queue{
		logger: logger,
		clock:  realClock{},
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Ticket returns the most recently issued ticket.
func (q *Queue) Ticket() uint64 {
	return q.latest.Load()
}

// Submit appends a transition's tasks under a fresh ticket and returns it.
// The done callback, if any, runs after the transition's last task with
// whether the transition had gone stale by then.
func (q *Queue) Submit(tr *Transition, done func(stale bool)) uint64 {
	ticket := q.latest.Add(1)
	if len(tr.Tasks) == 0 {
		if done != nil {
			done(false)
		}
		return ticket
	}
	q.mu.Lock()
	for i, task := range tr.Tasks {
		item := queuedTask{task: task, ticket: ticket}
		if i == len(tr.Tasks)-1 {
			item.done = done
		}
		q.pending = append(q.pending, item)
	}
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return ticket
}

// Run drains the queue until the context is canceled.
func (q *Queue) Run(ctx context.Context, a Applier) error {
	for {
		if err := q.Drain(ctx, a); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Drain executes every currently queued task in order, waiting out each
// task's duration on the queue's clock. Stale geometry tasks are logged
// and skipped without waiting.
func (q *Queue) Drain(ctx context.Context, a Applier) error {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return nil
		}
		item := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		stale := item.task.Geometry && item.ticket != q.latest.Load()
		if stale {
			if q.logger != nil {
				q.logger.Tracef("stale task skipped {\"task\":%q,\"ticket\":%d,\"latest\":%d}", item.task.Name, item.ticket, q.latest.Load())
			}
			if q.onStale != nil {
				q.onStale(item.task)
			}
		} else {
			if item.task.Duration > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-q.clock.After(item.task.Duration):
				}
			}
			item.task.Apply(a)
		}
		if item.done != nil {
			item.done(item.ticket != q.latest.Load())
		}
	}
}
