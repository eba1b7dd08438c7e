package scheduler

// prioritizedTask wraps a task with its priority and a globally unique,
// monotonically increasing id assigned at submission time.
type prioritizedTask struct {
	task     Task
	priority Priority
	id       uint64
}

// taskHeap is a max-heap over prioritizedTask: higher priority first,
// ties broken by lower (earlier) task id. Combined with monotonic ids
// this makes the queue a stable priority queue, never a LIFO stack.
// It implements container/heap.Interface.
type taskHeap []*prioritizedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].id < h[j].id
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*prioritizedTask))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
