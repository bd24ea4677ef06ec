package scheduler

import (
	"container/heap"
	"time"
)

// task is one pending callback.
type task struct {
	due time.Time
	// seq breaks ties so tasks due at the same time run in scheduling order.
	seq uint64
	fn  func()
}

// queue is a min-heap of tasks ordered by (due, seq).
type queue []*task

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}

	return q[i].due.Before(q[j].due)
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*task)) } //nolint:forcetypeassert // heap.Interface contract.

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return t
}

func (q *queue) push(t *task) {
	heap.Push(q, t)
}

func (q *queue) peek() *task {
	if len(*q) == 0 {
		return nil
	}

	return (*q)[0]
}

func (q *queue) pop() *task {
	return heap.Pop(q).(*task) //nolint:forcetypeassert // Only *task is ever pushed.
}
