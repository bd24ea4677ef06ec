package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/alert-override/internal/logger"
)

// DefaultDrainTimeout bounds how long Run keeps executing pending tasks after
// its context is canceled. Pending restores get a chance to put the device back.
const DefaultDrainTimeout = 15 * time.Second

// Loop is a single-goroutine timer queue.
type Loop struct {
	// mu protects tasks and seq.
	mu    sync.Mutex
	tasks queue
	seq   uint64
	// wake nudges Run when an earlier task was added.
	wake chan struct{}
	// drainTimeout bounds the shutdown drain.
	drainTimeout time.Duration
}

// Option configures a Loop.
type Option func(*Loop)

// WithDrainTimeout overrides DefaultDrainTimeout. Zero drops pending tasks at once.
func WithDrainTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d >= 0 {
			l.drainTimeout = d
		}
	}
}

// NewLoop creates an idle loop; call Run to start executing tasks.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		wake:         make(chan struct{}, 1),
		drainTimeout: DefaultDrainTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// AfterFunc schedules fn to run on the loop after delay. It never blocks and
// may be called from inside a running callback.
func (l *Loop) AfterFunc(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}

	l.mu.Lock()
	l.seq++
	l.tasks.push(&task{
		due: time.Now().Add(delay),
		seq: l.seq,
		fn:  fn,
	})
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tasks.Len()
}

// Run executes tasks until ctx is canceled, then drains what is left for at
// most the drain timeout. It always returns nil.
//
//nolint:cyclop // One select drives waiting, waking, shutdown and drain; splitting hides the state.
func (l *Loop) Run(ctx context.Context) error {
	var (
		stop     = ctx.Done()
		deadline <-chan time.Time
		draining bool
	)

	logger.Debug(ctx, "Scheduler loop started")

	for {
		fn, wait, pending := l.next()
		if fn != nil {
			l.execute(ctx, fn)

			continue
		}

		if !pending && draining {
			logger.Debug(ctx, "Scheduler loop drained")

			return nil
		}

		var (
			timer   *time.Timer
			timerCh <-chan time.Time
		)

		if pending {
			timer = time.NewTimer(wait)
			timerCh = timer.C
		}

		select {
		case <-timerCh:
		case <-l.wake:
		case <-stop:
			stop = nil
			draining = true

			drainTimer := time.NewTimer(l.drainTimeout)
			defer drainTimer.Stop()

			deadline = drainTimer.C

			logger.InfoKV(ctx, "Draining scheduled tasks", "pending", l.Len(), "timeout", l.drainTimeout.String())
		case <-deadline:
			if dropped := l.reset(); dropped > 0 {
				logger.WarnKV(ctx, "Dropped scheduled tasks on shutdown", "dropped", dropped)
			}

			if timer != nil {
				timer.Stop()
			}

			return nil
		}

		if timer != nil {
			timer.Stop()
		}
	}
}

// next pops the head task when it is due. Otherwise it reports how long to
// wait and whether anything is pending at all.
func (l *Loop) next() (func(), time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	head := l.tasks.peek()
	if head == nil {
		return nil, 0, false
	}

	wait := time.Until(head.due)
	if wait > 0 {
		return nil, wait, true
	}

	return l.tasks.pop().fn, 0, true
}

func (l *Loop) reset() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.tasks.Len()
	l.tasks = nil

	return n
}

// execute runs one callback; a panic is logged and the loop carries on.
func (l *Loop) execute(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Scheduled task panicked", "panic", r)
		}
	}()

	fn()
}
