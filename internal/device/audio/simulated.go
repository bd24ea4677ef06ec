package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

// DefaultMaxVolume is the stream maximum of a simulated device.
const DefaultMaxVolume = 15

// ErrUnknownStream indicates a stream the device does not have.
var ErrUnknownStream = errors.New("unknown audio stream")

// ToneEmitter produces the audible part of a tone.
type ToneEmitter interface {
	Emit(ctx context.Context, d time.Duration) error
}

// State is the full observable state of the device.
type State struct {
	RingerMode         alert.RingerMode
	NotificationVolume int
	MediaVolume        int
	MaxVolume          int
}

// Simulated is an in-process audio device. It keeps the ringer mode and
// stream volumes in memory and hands tones off to a ToneEmitter.
type Simulated struct {
	mu      sync.Mutex
	state   State
	emitter ToneEmitter
}

// NewSimulated creates a device in the given state. A non-positive maximum
// becomes DefaultMaxVolume and volumes are clamped to it.
func NewSimulated(initial State, emitter ToneEmitter) *Simulated {
	if initial.MaxVolume <= 0 {
		initial.MaxVolume = DefaultMaxVolume
	}

	initial.NotificationVolume = clampVolume(initial.NotificationVolume, initial.MaxVolume)
	initial.MediaVolume = clampVolume(initial.MediaVolume, initial.MaxVolume)

	return &Simulated{
		state:   initial,
		emitter: emitter,
	}
}

// State returns a copy of the current state.
func (d *Simulated) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// SetState replaces the ringer mode and volumes, keeping the maximum.
func (d *Simulated) SetState(state State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.RingerMode = state.RingerMode
	d.state.NotificationVolume = clampVolume(state.NotificationVolume, d.state.MaxVolume)
	d.state.MediaVolume = clampVolume(state.MediaVolume, d.state.MaxVolume)
}

// RingerMode returns the ringer mode.
func (d *Simulated) RingerMode(context.Context) (alert.RingerMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.RingerMode, nil
}

// SetRingerMode changes the ringer mode.
func (d *Simulated) SetRingerMode(_ context.Context, mode alert.RingerMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.RingerMode = mode

	return nil
}

// StreamVolume returns the volume of a stream.
func (d *Simulated) StreamVolume(_ context.Context, stream alert.Stream) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch stream {
	case alert.StreamNotification:
		return d.state.NotificationVolume, nil
	case alert.StreamMedia:
		return d.state.MediaVolume, nil
	default:
		return 0, fmt.Errorf("%q: %w", stream, ErrUnknownStream)
	}
}

// SetStreamVolume sets the volume of a stream, clamped to 0..max.
func (d *Simulated) SetStreamVolume(_ context.Context, stream alert.Stream, level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	level = clampVolume(level, d.state.MaxVolume)

	switch stream {
	case alert.StreamNotification:
		d.state.NotificationVolume = level
	case alert.StreamMedia:
		d.state.MediaVolume = level
	default:
		return fmt.Errorf("%q: %w", stream, ErrUnknownStream)
	}

	return nil
}

// MaxStreamVolume returns the shared stream maximum.
func (d *Simulated) MaxStreamVolume(_ context.Context, stream alert.Stream) (int, error) {
	if stream != alert.StreamNotification && stream != alert.StreamMedia {
		return 0, fmt.Errorf("%q: %w", stream, ErrUnknownStream)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.MaxVolume, nil
}

// EmitTone hands the tone to the emitter, if any.
func (d *Simulated) EmitTone(ctx context.Context, duration time.Duration) error {
	if d.emitter == nil {
		return nil
	}

	if err := d.emitter.Emit(ctx, duration); err != nil {
		return fmt.Errorf("%w: %w", alert.ErrDevice, err)
	}

	return nil
}

func clampVolume(v, maxVolume int) int {
	return min(max(v, 0), maxVolume)
}
