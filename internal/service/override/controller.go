package override

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
)

// AudioDevice is the audio capability of the host. Any call may fail when the
// device is in an abnormal state.
type AudioDevice interface {
	RingerMode(ctx context.Context) (alert.RingerMode, error)
	SetRingerMode(ctx context.Context, mode alert.RingerMode) error
	StreamVolume(ctx context.Context, stream alert.Stream) (int, error)
	SetStreamVolume(ctx context.Context, stream alert.Stream, level int) error
	MaxStreamVolume(ctx context.Context, stream alert.Stream) (int, error)
	EmitTone(ctx context.Context, duration time.Duration) error
}

// Scheduler runs callbacks after a delay, one at a time.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func())
}

// Controller starts override sessions against one audio device.
type Controller struct {
	// device is the audio capability shared by all sessions.
	device AudioDevice
	// scheduler is the single timeline every session step runs on.
	scheduler Scheduler

	mu     sync.Mutex
	seq    uint64
	active map[string]*Session
}

// NewController wires a controller to a device and a scheduler.
func NewController(device AudioDevice, scheduler Scheduler) *Controller {
	return &Controller{
		device:    device,
		scheduler: scheduler,
		active:    make(map[string]*Session),
	}
}

// Start schedules a new session and returns at once. The session begins on
// the scheduler timeline; once started it always runs to completion.
func (c *Controller) Start(ctx context.Context, eventID string, plan Plan) *Session {
	// Sessions outlive the request that triggered them.
	ctx = logger.WithName(context.WithoutCancel(ctx), "override")
	ctx = logger.WithFields(ctx, "event_id", eventID, "kind", plan.Kind)

	s := newSession(ctx, eventID, plan, c)

	c.mu.Lock()
	c.seq++
	s.seq = c.seq
	c.active[eventID] = s
	c.mu.Unlock()

	logger.DebugKV(ctx, "Override session scheduled",
		"tones", plan.Tones,
		"interval", plan.Interval.String(),
		"restore_delay", plan.RestoreDelay.String(),
	)

	c.scheduler.AfterFunc(0, s.begin)

	return s
}

// Active returns the number of sessions that have not finished yet.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.active)
}

// RestoreAll restores every unfinished session at once, newest snapshot
// first so the oldest one wins. It must only be called once the scheduler
// has stopped, since it runs outside the scheduler timeline.
func (c *Controller) RestoreAll(ctx context.Context) int {
	c.mu.Lock()
	sessions := make([]*Session, 0, len(c.active))

	for _, s := range c.active {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	slices.SortFunc(sessions, func(a, b *Session) int {
		return cmp.Compare(b.seq, a.seq)
	})

	for _, s := range sessions {
		s.Restore()
	}

	if len(sessions) > 0 {
		logger.WarnKV(ctx, "Restored unfinished override sessions", "count", len(sessions))
	}

	return len(sessions)
}

func (c *Controller) release(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active[s.id] == s {
		delete(c.active, s.id)
	}
}

// deviceFailed logs and counts one failed device call.
func deviceFailed(ctx context.Context, op string, err error) {
	metrics.RecordDeviceError(op)
	logger.WarnKV(ctx, "Audio device call failed", "op", op, "error", err)
}
