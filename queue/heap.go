package queue

import "sort"

type priorityLevel struct {
	priority int
	ln       *lane[Item]
}

// priorityHeap is an ordered list of a queue's non-empty priority levels —
// not a container/heap binary heap. Levels are kept sorted ascending by
// priority via a binary-search insertion point (sort.Search), so the
// highest and lowest active levels are both O(1) to find and a full
// ordered snapshot (HeapSnapshot) is a cheap slice walk. A binary heap
// would make extract-min/max just as cheap but lose that ordered walk,
// which PeekHeap and the introspection snapshot both need.
type priorityHeap struct {
	levels []*priorityLevel
}

func newPriorityHeap() *priorityHeap {
	return &priorityHeap{}
}

func (h *priorityHeap) find(priority int) (int, bool) {
	i := sort.Search(len(h.levels), func(i int) bool {
		return h.levels[i].priority >= priority
	})
	if i < len(h.levels) && h.levels[i].priority == priority {
		return i, true
	}
	return i, false
}

func (h *priorityHeap) levelAt(priority int, createIfMissing bool) (*priorityLevel, int) {
	i, found := h.find(priority)
	if found {
		return h.levels[i], i
	}
	if !createIfMissing {
		return nil, -1
	}
	lvl := &priorityLevel{priority: priority, ln: newLane[Item]()}
	h.levels = append(h.levels, nil)
	copy(h.levels[i+1:], h.levels[i:])
	h.levels[i] = lvl
	return lvl, i
}

func (h *priorityHeap) dropIfEmpty(i int) {
	if i < 0 || i >= len(h.levels) {
		return
	}
	if h.levels[i].ln.Len() == 0 {
		h.levels = append(h.levels[:i], h.levels[i+1:]...)
	}
}

// Enqueue appends items to the tail of the given priority level's lane,
// creating the level if it doesn't exist yet. Enqueue always appends to the
// tail regardless of Type; Type only governs which end Dequeue/Peek read
// from, matching the normal lane's rule.
func (h *priorityHeap) Enqueue(priority int, items ...Item) {
	lvl, _ := h.levelAt(priority, true)
	lvl.ln.PushBack(items...)
}

// Insert splices items into the given priority level at a FIFO/LIFO-
// symmetric index, per index.go, creating the level if needed.
func (h *priorityHeap) Insert(priority int, idx int, t Type, items ...Item) {
	lvl, _ := h.levelAt(priority, true)
	pos := insertIndex(idx, lvl.ln.Len(), t)
	lvl.ln.InsertAt(pos, items...)
}

func (h *priorityHeap) selectIndex(order Order) (int, bool) {
	if len(h.levels) == 0 {
		return 0, false
	}
	if order == HIGHEST {
		return len(h.levels) - 1, true
	}
	return 0, true
}

// Dequeue pops the next-to-dequeue element of the highest- or lowest-
// numbered active level (per order), dropping the level once it empties.
func (h *priorityHeap) Dequeue(order Order, t Type) (Item, int, bool) {
	i, ok := h.selectIndex(order)
	if !ok {
		return Item{}, 0, false
	}
	lvl := h.levels[i]
	var item Item
	if t == FIFO {
		item, ok = lvl.ln.PopFront()
	} else {
		item, ok = lvl.ln.PopBack()
	}
	if !ok {
		return Item{}, 0, false
	}
	priority := lvl.priority
	h.dropIfEmpty(i)
	return item, priority, true
}

// PeekHeap returns the next-to-dequeue element of the top active level
// without removing it.
func (h *priorityHeap) PeekHeap(order Order, t Type) (Item, int, bool) {
	i, ok := h.selectIndex(order)
	if !ok {
		return Item{}, 0, false
	}
	lvl := h.levels[i]
	pos := readIndex(0, lvl.ln.Len(), t)
	item, ok := lvl.ln.At(pos)
	if !ok {
		return Item{}, 0, false
	}
	return item, lvl.priority, true
}

// PeekHeapAt returns the next-to-dequeue element of the levelIndex-th active
// priority level in heap order (0 == top, matching PeekHeap; 1 == the level
// that would be drained second, and so on), without removing it.
func (h *priorityHeap) PeekHeapAt(levelIndex int, order Order, t Type) (Item, int, bool) {
	n := len(h.levels)
	if levelIndex < 0 || levelIndex >= n {
		return Item{}, 0, false
	}
	i := levelIndex
	if order == HIGHEST {
		i = n - 1 - levelIndex
	}
	lvl := h.levels[i]
	pos := readIndex(0, lvl.ln.Len(), t)
	item, ok := lvl.ln.At(pos)
	if !ok {
		return Item{}, 0, false
	}
	return item, lvl.priority, true
}

// Peek returns the element at a FIFO/LIFO-symmetric index within the given
// priority level, or false if the level doesn't exist or the index is out
// of range.
func (h *priorityHeap) Peek(priority, idx int, t Type) (Item, bool) {
	lvl, _ := h.levelAt(priority, false)
	if lvl == nil {
		var zero Item
		return zero, false
	}
	pos := readIndex(idx, lvl.ln.Len(), t)
	return lvl.ln.At(pos)
}

// LevelStat is one entry of an ordered snapshot of active priority levels.
type LevelStat struct {
	Priority int
	Pending  int
}

// Snapshot returns the active priority levels in heap order — index 0 is
// the level PeekHeap/Dequeue would drain next, matching order (descending
// under HIGHEST, ascending under LOWEST) so a caller reading Snapshot sees
// the same next-to-dequeue level PeekHeap reports. It never blocks a
// concurrent Enqueue/Dequeue — callers own whatever lock guards the owning
// Core.
func (h *priorityHeap) Snapshot(order Order) []LevelStat {
	out := make([]LevelStat, len(h.levels))
	n := len(h.levels)
	for i, lvl := range h.levels {
		pos := i
		if order == HIGHEST {
			pos = n - 1 - i
		}
		out[pos] = LevelStat{Priority: lvl.priority, Pending: lvl.ln.Len()}
	}
	return out
}

func (h *priorityHeap) Pending() int {
	total := 0
	for _, lvl := range h.levels {
		total += lvl.ln.Len()
	}
	return total
}

func (h *priorityHeap) Clear() {
	h.levels = nil
}
