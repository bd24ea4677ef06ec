package scheduler

import (
	"sync"
	"time"
)

// Manual is a scheduler over virtual time. Nothing runs until Advance or
// RunAll is called, and callbacks run on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	epoch time.Time
	now   time.Time
	tasks queue
	seq   uint64
}

// NewManual creates a manual scheduler at virtual offset zero.
func NewManual() *Manual {
	var epoch time.Time

	return &Manual{
		epoch: epoch,
		now:   epoch,
	}
}

// AfterFunc schedules fn at the current virtual time plus delay.
func (m *Manual) AfterFunc(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.tasks.push(&task{
		due: m.now.Add(delay),
		seq: m.seq,
		fn:  fn,
	})
}

// Elapsed returns the virtual time passed since creation.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now.Sub(m.epoch)
}

// Pending returns the due offsets, measured from creation, of the pending
// tasks in execution order.
func (m *Manual) Pending() []time.Duration {
	m.mu.Lock()
	snapshot := append(queue(nil), m.tasks...)
	m.mu.Unlock()

	offsets := make([]time.Duration, 0, len(snapshot))
	for snapshot.Len() > 0 {
		offsets = append(offsets, snapshot.pop().due.Sub(m.epoch))
	}

	return offsets
}

// Len returns the number of pending tasks.
func (m *Manual) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tasks.Len()
}

// Advance moves virtual time forward by d, running every task that falls due,
// including tasks scheduled by the callbacks themselves. It returns the
// number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	ran := 0

	for {
		m.mu.Lock()

		head := m.tasks.peek()
		if head == nil || head.due.After(target) {
			m.now = target
			m.mu.Unlock()

			return ran
		}

		t := m.tasks.pop()
		m.now = t.due
		m.mu.Unlock()

		t.fn()

		ran++
	}
}

// RunAll advances until no task is pending and returns the number run.
func (m *Manual) RunAll() int {
	ran := 0

	for {
		m.mu.Lock()
		head := m.tasks.peek()
		m.mu.Unlock()

		if head == nil {
			return ran
		}

		ran += m.Advance(head.due.Sub(m.current()))
	}
}

func (m *Manual) current() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}
