package tone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Mode selects how tones are produced.
type Mode string

const (
	// ModeCommand starts a platform sound command for every tone.
	ModeCommand Mode = "command"
	// ModeBell writes the terminal bell character.
	ModeBell Mode = "bell"
	// ModeNone produces no sound and only counts tones.
	ModeNone Mode = "none"
)

// Frequency is the pitch of generated tones, in hertz.
const Frequency = 880

var (
	// ErrUnsupportedOS indicates the current OS has no known sound command.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrUnknownMode indicates a mode outside the known set.
	ErrUnknownMode = errors.New("unknown tone mode")
)

// ParseMode validates a textual mode from configuration.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCommand, ModeBell, ModeNone:
		return m, nil
	case "":
		return ModeNone, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
	}
}

// Command returns the sound command for a tone of length d on the given OS:
// - Linux:   `play -q -n synth <seconds> sine 880` (sox)
// - macOS:   `afplay -t <seconds> /System/Library/Sounds/Ping.aiff`
// - Windows: `powershell.exe -NoProfile -Command [console]::beep(880,<ms>)`
func Command(goos string, d time.Duration) (string, []string, error) {
	seconds := strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
	osName := strings.ToLower(goos)

	switch {
	case strings.Contains(osName, "linux"):
		return "play", []string{"-q", "-n", "synth", seconds, "sine", strconv.Itoa(Frequency)}, nil
	case strings.Contains(osName, "darwin"):
		return "afplay", []string{"-t", seconds, "/System/Library/Sounds/Ping.aiff"}, nil
	case strings.Contains(osName, "windows"):
		ms := int64(math.Round(float64(d) / float64(time.Millisecond)))

		return "powershell.exe", []string{
			"-NoProfile",
			"-Command",
			fmt.Sprintf("[console]::beep(%d,%d)", Frequency, ms),
		}, nil
	default:
		return "", nil, fmt.Errorf("%s: %w", goos, ErrUnsupportedOS)
	}
}

// Emitter produces tones. It is safe for concurrent use.
type Emitter struct {
	mode Mode
	goos string
	bell io.Writer

	mu    sync.Mutex
	count int
	// wg tracks sound commands still running so Wait can reap them.
	wg sync.WaitGroup
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithBellWriter sets where ModeBell writes; os.Stdout by default in the engine.
func WithBellWriter(w io.Writer) Option {
	return func(e *Emitter) {
		e.bell = w
	}
}

// WithGOOS overrides the OS used to pick the sound command.
func WithGOOS(goos string) Option {
	return func(e *Emitter) {
		e.goos = goos
	}
}

// NewEmitter creates an emitter for the given mode.
func NewEmitter(mode Mode, opts ...Option) *Emitter {
	e := &Emitter{
		mode: mode,
		goos: runtime.GOOS,
		bell: io.Discard,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Mode returns the configured mode.
func (e *Emitter) Mode() Mode {
	return e.mode
}

// Count returns the number of tones emitted so far.
func (e *Emitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.count
}

// Emit produces one tone of length d. Sound commands are started
// asynchronously; the call does not wait for the tone to finish.
func (e *Emitter) Emit(ctx context.Context, d time.Duration) error {
	switch e.mode {
	case ModeNone:
	case ModeBell:
		if _, err := io.WriteString(e.bell, "\a"); err != nil {
			return fmt.Errorf("write bell: %w", err)
		}
	case ModeCommand:
		if err := e.start(ctx, d); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%q: %w", e.mode, ErrUnknownMode)
	}

	e.mu.Lock()
	e.count++
	e.mu.Unlock()

	return nil
}

// Wait blocks until every started sound command has exited.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

func (e *Emitter) start(ctx context.Context, d time.Duration) error {
	name, args, err := Command(e.goos, d)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		//nolint:errcheck // The tone is best effort, a failed player only means silence.
		cmd.Wait()
	}()

	return nil
}
