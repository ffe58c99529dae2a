// SPDX-License-Identifier: MIT
// Queues backing the scheduler's ready and wait sets. Both are simple
// mutex-guarded structures rather than lock-free Michael-Scott queues: the
// spec (§9) explicitly allows either, and a straightforward sync.Mutex
// critical section is simpler than a hand-rolled lock-free structure. Only
// safe publication is required,
// not linearizable ordering, so a short critical section per push/pop is
// sufficient and easier to reason about.
package scheduler

import (
	"container/heap"
	"sync"

	"github.com/blockqr/blockqr/task"
)

// readyQueue is the interface both scheduling modes satisfy.
type readyQueue interface {
	Push(t *task.Descriptor)
	Pop() (*task.Descriptor, bool)
}

// fifoQueue is a concurrency-safe FIFO, used for both the plain ready queue
// and the wait queue.
type fifoQueue struct {
	mu    sync.Mutex
	items []*task.Descriptor
}

func newFIFOQueue(capacity int) *fifoQueue {
	return &fifoQueue{items: make([]*task.Descriptor, 0, capacity)}
}

func (q *fifoQueue) Push(t *task.Descriptor) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
}

func (q *fifoQueue) Pop() (*task.Descriptor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items = q.items[1:]

	return t, true
}

func (q *fifoQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// taskHeap implements heap.Interface, ordering by Task.Priority descending
// (higher priority first) and breaking ties by smaller J, exactly per spec
// §4.3. Grounded on dijkstra.nodePQ, the teacher's only other heap.Interface
// implementation.
type taskHeap []*task.Descriptor

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}

	return h[i].J < h[j].J
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*task.Descriptor))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}

// priorityQueue is a concurrency-safe priority queue ordered by Task.Priority.
type priorityQueue struct {
	mu sync.Mutex
	h  taskHeap
}

func newPriorityQueue(capacity int) *priorityQueue {
	pq := &priorityQueue{h: make(taskHeap, 0, capacity)}
	heap.Init(&pq.h)

	return pq
}

func (q *priorityQueue) Push(t *task.Descriptor) {
	q.mu.Lock()
	heap.Push(&q.h, t)
	q.mu.Unlock()
}

func (q *priorityQueue) Pop() (*task.Descriptor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.h.Len() == 0 {
		return nil, false
	}

	return heap.Pop(&q.h).(*task.Descriptor), true
}
