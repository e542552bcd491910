package citypandemic

import "container/heap"

// HeapScheduler is a reference, in-memory Scheduler (spec §6): a binary
// min-heap ordered by (Time, Cmd.Less) so commands due at the same
// instant drain in a deterministic order. It is provided as a usable
// default for tests and small runs, not counted against the core's own
// component budget (spec's "Reference external collaborators").
//
// Grounded on container/heap's own documentation example; no
// third-party priority-queue library appears anywhere in the retrieval
// pack, so this is implemented directly against the standard library
// interface it defines for exactly this purpose.
type HeapScheduler struct {
	items schedulerHeap
}

// NewHeapScheduler returns an empty HeapScheduler.
func NewHeapScheduler() *HeapScheduler {
	return &HeapScheduler{}
}

// Push implements Scheduler.
func (s *HeapScheduler) Push(at Time, cmd Cmd) {
	heap.Push(&s.items, scheduledCmd{at: at, cmd: cmd})
}

// Pop removes and returns the earliest-due command. ok is false if the
// scheduler is empty.
func (s *HeapScheduler) Pop() (Time, Cmd, bool) {
	if s.items.Len() == 0 {
		return 0, Cmd{}, false
	}
	item := heap.Pop(&s.items).(scheduledCmd)
	return item.at, item.cmd, true
}

// Len reports how many commands are pending.
func (s *HeapScheduler) Len() int { return s.items.Len() }

type scheduledCmd struct {
	at  Time
	cmd Cmd
}

type schedulerHeap []scheduledCmd

func (h schedulerHeap) Len() int { return len(h) }

func (h schedulerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].cmd.Less(h[j].cmd)
}

func (h schedulerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *schedulerHeap) Push(x any) {
	*h = append(*h, x.(scheduledCmd))
}

func (h *schedulerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
