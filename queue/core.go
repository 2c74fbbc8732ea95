package queue

// Core is the pure data structure behind a hybrid queue: one normal lane
// plus any number of integer-keyed priority lanes. It has no mutex and no
// channel — every operation below is a synchronous, single-goroutine
// transform of in-memory state. The manager package serializes access to a
// Core from its single dispatcher goroutine; the standalone queue wraps one
// in its own mutex for direct multi-goroutine use. Splitting it out this way
// means the same tested logic backs both modes.
type Core struct {
	typ   Type
	order Order

	normal *lane[Item]
	heap   *priorityHeap
}

// NewCore creates an empty Core with the given lane order and priority
// order.
func NewCore(t Type, order Order) *Core {
	return &Core{
		typ:    t,
		order:  order,
		normal: newLane[Item](),
		heap:   newPriorityHeap(),
	}
}

// Type reports the lane order (FIFO/LIFO) this Core was created with.
func (c *Core) Type() Type { return c.typ }

// Order reports the priority order (HIGHEST/LOWEST) this Core was created
// with.
func (c *Core) Order() Order { return c.order }

// Enqueue appends items to the tail of the normal lane.
func (c *Core) Enqueue(items ...Item) {
	c.normal.PushBack(items...)
}

// EnqueuePriority appends items to the tail of the given priority level,
// creating the level if this is its first item.
func (c *Core) EnqueuePriority(priority int, items ...Item) {
	c.heap.Enqueue(priority, items...)
}

// Dequeue removes and returns one element. Priority levels are served ahead
// of the normal lane, in the Order this Core was created with; within a
// level, and within the normal lane, elements come off per Type. Returns
// false when nothing is pending — an empty queue is not an error.
func (c *Core) Dequeue() (Item, bool) {
	if item, _, ok := c.heap.Dequeue(c.order, c.typ); ok {
		return item, true
	}
	if c.typ == FIFO {
		return c.normal.PopFront()
	}
	return c.normal.PopBack()
}

// DequeuePriority removes and returns one element from exactly the given
// priority level, ignoring every other level and the normal lane.
func (c *Core) DequeuePriority(priority int) (Item, bool) {
	lvl, i := c.heap.levelAt(priority, false)
	if lvl == nil {
		var zero Item
		return zero, false
	}
	var item Item
	var ok bool
	if c.typ == FIFO {
		item, ok = lvl.ln.PopFront()
	} else {
		item, ok = lvl.ln.PopBack()
	}
	if ok {
		c.heap.dropIfEmpty(i)
	}
	return item, ok
}

// Insert splices items into the normal lane at a FIFO/LIFO-symmetric index
// (see index.go); out-of-range indices clamp to the nearer end.
func (c *Core) Insert(idx int, items ...Item) {
	pos := insertIndex(idx, c.normal.Len(), c.typ)
	c.normal.InsertAt(pos, items...)
}

// InsertPriority splices items into the given priority level at a
// FIFO/LIFO-symmetric index, creating the level if needed.
func (c *Core) InsertPriority(priority, idx int, items ...Item) {
	c.heap.Insert(priority, idx, c.typ, items...)
}

// Peek returns the element at a FIFO/LIFO-symmetric index in the normal
// lane without removing it. Returns false when |idx| names a position
// outside the current lane.
func (c *Core) Peek(idx int) (Item, bool) {
	pos := readIndex(idx, c.normal.Len(), c.typ)
	return c.normal.At(pos)
}

// PeekPriority returns the element at a FIFO/LIFO-symmetric index within the
// given priority level.
func (c *Core) PeekPriority(priority, idx int) (Item, bool) {
	return c.heap.Peek(priority, idx, c.typ)
}

// PeekHeap returns the next-to-dequeue element of the highest- or lowest-
// numbered active priority level (per this Core's Order) without removing
// it, along with that level's priority number.
func (c *Core) PeekHeap() (Item, int, bool) {
	return c.heap.PeekHeap(c.order, c.typ)
}

// PeekHeapAt returns the next-to-dequeue element of the levelIndex-th active
// priority level in heap order (0 == top, the same level PeekHeap reports),
// without removing it.
func (c *Core) PeekHeapAt(levelIndex int) (Item, int, bool) {
	return c.heap.PeekHeapAt(levelIndex, c.order, c.typ)
}

// HeapSnapshot returns the active priority levels in heap order — index 0
// is the level that would be drained next, matching this Core's Order —
// each with its pending count.
func (c *Core) HeapSnapshot() []LevelStat {
	return c.heap.Snapshot(c.order)
}

// Pending returns the total number of elements across the normal lane and
// every priority level.
func (c *Core) Pending() int {
	return c.normal.Len() + c.heap.Pending()
}

// Clear empties both the normal lane and every priority level.
func (c *Core) Clear() {
	c.normal.Clear()
	c.heap.Clear()
}
