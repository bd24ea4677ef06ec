package override

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
)

// State is the position of a session in its lifecycle.
type State string

const (
	// StateIdle is a scheduled session whose first step has not run yet.
	StateIdle State = "idle"
	// StateSnapshotting reads the current audio state.
	StateSnapshotting State = "snapshotting"
	// StateBoosting raises the media stream.
	StateBoosting State = "boosting"
	// StateBeeping has tones scheduled and waits for the restore step.
	StateBeeping State = "beeping"
	// StateRestoring puts the snapshot back.
	StateRestoring State = "restoring"
	// StateDone is terminal.
	StateDone State = "done"
)

// Session is one override run. Its snapshot is captured once and never changes.
type Session struct {
	ctx  context.Context
	id   string
	plan Plan
	ctrl *Controller
	seq  uint64
	done chan struct{}

	// mu guards the fields below, which observers read from other goroutines.
	mu          sync.Mutex
	state       State
	snapshot    alert.AudioSnapshot
	hasSnapshot bool
	boosted     bool
	tones       int
	failedTones int
	restored    bool
}

func newSession(ctx context.Context, id string, plan Plan, ctrl *Controller) *Session {
	return &Session{
		ctx:   ctx,
		id:    id,
		plan:  plan,
		ctrl:  ctrl,
		done:  make(chan struct{}),
		state: StateIdle,
	}
}

// ID returns the event ID the session belongs to.
func (s *Session) ID() string {
	return s.id
}

// Plan returns the parameters the session runs with.
func (s *Session) Plan() Plan {
	return s.plan
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Snapshot returns the captured audio state; false if capture failed or has not run.
func (s *Session) Snapshot() (alert.AudioSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot, s.hasSnapshot
}

// Boosted reports whether the media stream was raised.
func (s *Session) Boosted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.boosted
}

// Tones returns how many tones were emitted successfully and how many failed.
func (s *Session) Tones() (emitted, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tones, s.failedTones
}

// Done is closed when the session reaches StateDone.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// begin is the first scheduled step: snapshot, optional boost, then the
// tone sequence and the restore step are scheduled relative to now.
func (s *Session) begin() {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()

		return
	}

	s.state = StateSnapshotting
	s.mu.Unlock()

	snapshot, err := s.capture()
	if err != nil {
		logger.WarnKV(s.ctx, "Audio snapshot failed, beeping at current volume", "error", err)
	} else {
		s.mu.Lock()
		s.snapshot = snapshot
		s.hasSnapshot = true
		s.mu.Unlock()

		logger.DebugKV(s.ctx, "Audio snapshot captured",
			"ringer_mode", snapshot.RingerMode.String(),
			"notification_volume", snapshot.NotificationVolume,
			"media_volume", snapshot.MediaVolume,
		)
	}

	boosted := false

	if err == nil && snapshot.Muted() {
		s.setState(StateBoosting)
		boosted = s.boost(snapshot)
	}

	s.mu.Lock()
	s.boosted = boosted
	s.state = StateBeeping
	s.mu.Unlock()

	metrics.RecordSession(string(s.plan.Kind), boosted)

	for i := range s.plan.Tones {
		s.ctrl.scheduler.AfterFunc(s.plan.ToneOffset(i), func() { s.tone(i) })
	}

	s.ctrl.scheduler.AfterFunc(s.plan.RestoreDelay, s.Restore)

	logger.InfoKV(s.ctx, "Override session started",
		"boosted", boosted,
		"tones", s.plan.Tones,
		"restore_in", s.plan.RestoreDelay.String(),
	)
}

// capture reads the three values that make up the snapshot. Any failure
// aborts the capture as a whole.
func (s *Session) capture() (alert.AudioSnapshot, error) {
	device := s.ctrl.device

	mode, err := device.RingerMode(s.ctx)
	if err != nil {
		deviceFailed(s.ctx, "ringer_mode", err)

		return alert.AudioSnapshot{}, fmt.Errorf("read ringer mode: %w", err)
	}

	notification, err := device.StreamVolume(s.ctx, alert.StreamNotification)
	if err != nil {
		deviceFailed(s.ctx, "stream_volume", err)

		return alert.AudioSnapshot{}, fmt.Errorf("read notification volume: %w", err)
	}

	media, err := device.StreamVolume(s.ctx, alert.StreamMedia)
	if err != nil {
		deviceFailed(s.ctx, "stream_volume", err)

		return alert.AudioSnapshot{}, fmt.Errorf("read media volume: %w", err)
	}

	return alert.AudioSnapshot{
		RingerMode:         mode,
		NotificationVolume: notification,
		MediaVolume:        media,
		EventID:            s.id,
	}, nil
}

// boost raises the media stream and reports whether the device accepted it.
func (s *Session) boost(snapshot alert.AudioSnapshot) bool {
	device := s.ctrl.device

	maxVolume, err := device.MaxStreamVolume(s.ctx, alert.StreamMedia)
	if err != nil {
		deviceFailed(s.ctx, "max_stream_volume", err)

		return false
	}

	target := s.plan.BoostTarget(maxVolume)

	if err = device.SetStreamVolume(s.ctx, alert.StreamMedia, target); err != nil {
		deviceFailed(s.ctx, "set_stream_volume", err)

		return false
	}

	logger.InfoKV(s.ctx, "Media volume boosted", "from", snapshot.MediaVolume, "to", target, "max", maxVolume)

	return true
}

// tone emits tone i; a failure never stops the remaining tones. Tones that
// fall due after the restore are skipped.
func (s *Session) tone(i int) {
	s.mu.Lock()
	restored := s.restored
	s.mu.Unlock()

	if restored {
		return
	}

	err := s.ctrl.device.EmitTone(s.ctx, s.plan.ToneDuration)

	s.mu.Lock()
	if err != nil {
		s.failedTones++
	} else {
		s.tones++
	}
	s.mu.Unlock()

	metrics.RecordTone(string(s.plan.Kind), err == nil)

	if err != nil {
		deviceFailed(s.ctx, "emit_tone", err)

		return
	}

	logger.DebugKV(s.ctx, "Tone emitted", "tone", i+1, "of", s.plan.Tones)
}

// Restore puts the snapshot back. It runs once per session; later calls are
// no-ops. Without a boost there is nothing to put back and the session just
// ends. Failures are logged and not retried.
func (s *Session) Restore() {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()

		return
	}

	s.restored = true
	s.state = StateRestoring
	boosted := s.boosted
	snapshot := s.snapshot
	s.mu.Unlock()

	defer s.finish()

	if !boosted {
		logger.Debug(s.ctx, "Nothing to restore")

		return
	}

	ok := true
	device := s.ctrl.device

	if err := device.SetStreamVolume(s.ctx, alert.StreamMedia, snapshot.MediaVolume); err != nil {
		deviceFailed(s.ctx, "set_stream_volume", err)

		ok = false
	}

	mode, err := device.RingerMode(s.ctx)

	switch {
	case err != nil:
		deviceFailed(s.ctx, "ringer_mode", err)

		ok = false
	case mode != snapshot.RingerMode:
		logger.InfoKV(s.ctx, "Correcting ringer mode", "from", mode.String(), "to", snapshot.RingerMode.String())

		if err = device.SetRingerMode(s.ctx, snapshot.RingerMode); err != nil {
			deviceFailed(s.ctx, "set_ringer_mode", err)

			ok = false
		}
	}

	metrics.RecordRestore(string(s.plan.Kind), ok)

	if !ok {
		logger.Error(s.ctx, "Audio state could not be fully restored")

		return
	}

	logger.InfoKV(s.ctx, "Audio state restored", "media_volume", snapshot.MediaVolume, "ringer_mode", snapshot.RingerMode.String())
}

func (s *Session) finish() {
	s.setState(StateDone)
	s.ctrl.release(s)
	close(s.done)
}
