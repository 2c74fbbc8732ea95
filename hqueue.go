// Package hqueue is the public entry point of the hybrid shared queue: one
// normal lane plus any number of priority lanes, usable standalone inside a
// single process or split across a manager and any number of worker
// goroutines talking over a framed control socket. The pure lane/heap logic
// lives in the queue subpackage; this package adds the blocking semantics,
// the three Queue implementations (standalone, manager-resident, worker
// proxy), and the factory that picks the right one.
package hqueue

import (
	"github.com/everyday-items/hqueue/internal/errs"
	"github.com/everyday-items/hqueue/queue"
)

// Re-exported so callers never need to import the queue subpackage directly
// for the common case of constructing a Config.
const (
	LIFO = queue.LIFO
	FIFO = queue.FIFO
	FILO = queue.FILO
	LILO = queue.LILO

	LOWEST  = queue.LOWEST
	HIGHEST = queue.HIGHEST

	// MaxDequeueDepth bounds a single fast-mode doorbell burst.
	MaxDequeueDepth = queue.MaxDequeueDepth
)

type (
	// Type is re-exported for Config.Type.
	Type = queue.Type
	// Order is re-exported for Config.PriorityOrder.
	Order = queue.Order
	// Item is the value type stored in and returned from a queue.
	Item = queue.Item
)

var (
	// BytesItem wraps a raw byte payload for enqueueing.
	BytesItem = queue.BytesItem
	// FrozenItem wraps an already-serialized payload for enqueueing.
	FrozenItem = queue.FrozenItem
	// Freeze serializes a structured value into an Item.
	Freeze = queue.Freeze
	// Thaw reverses Freeze.
	Thaw = queue.Thaw
)

var (
	// ErrNotInteger is returned when a priority/index/count argument fails
	// to parse as an integer.
	ErrNotInteger = queue.ErrNotInteger
	// ErrEmptyCount is returned when dequeue count is <= 0.
	ErrEmptyCount = queue.ErrEmptyCount
	// ErrModeViolation is returned when clear or dequeue_nb is called on a
	// fast-mode queue. Await on a queue without await enabled returns
	// ErrAwaitDisabled instead.
	ErrModeViolation = errs.New("hqueue: operation not permitted in this mode")
	// ErrAwaitDisabled is the specific mode violation for Await on a queue
	// constructed without WithAwait.
	ErrAwaitDisabled = errs.New("hqueue: queue was not constructed with await enabled")
	// ErrQueueClosed is returned to a caller blocked on a doorbell whose
	// queue was destroyed out from under it.
	ErrQueueClosed = errs.New("hqueue: queue was destroyed")
	// ErrNoManager is returned by local.Factory.New when the factory's mode
	// is none of the known construction modes.
	ErrNoManager = errs.New("hqueue: no connection to manager")
)

// GatherFunc receives an item diverted from the normal enqueue path when a
// manager-resident queue is constructed with a Gather callback.
type GatherFunc func(Item)

// Config is the constructor configuration for a queue, covering every
// option enumerated for queue construction: initial contents, lane and
// priority order, the await and fast-mode toggles, and the manager-side
// gather diversion hook.
type Config struct {
	// Queue preloads the normal lane. If non-empty, one wake-up byte is
	// pre-written to the signal channel (manager-resident queues only).
	Queue []Item

	// Type selects FIFO or LIFO lane order. Zero value is LIFO; callers
	// that care should set this explicitly or use a Defaults-derived value.
	Type Type

	// PriorityOrder selects HIGHEST or LOWEST priority-lane order.
	PriorityOrder Order

	// Await allocates the await/threshold channel and enables Await().
	Await bool

	// Fast selects the fast-mode dequeue wake-up strategy (§4.4). Mutually
	// exclusive in practice with Clear/DequeueNB, which become mode
	// violations when Fast is set.
	Fast bool

	// Gather, when set, diverts manager-side enqueues to this callback
	// instead of appending to a lane. Only meaningful for manager-resident
	// queues; standalone and worker-proxy queues ignore it.
	Gather GatherFunc
}

// Queue is the operation surface shared by every construction mode:
// StandaloneQueue (single process, no sockets), a manager-resident queue
// (see the manager package), and WorkerProxy (see the workerclient
// package). Exactly one concrete implementation backs any given Queue
// value; the factory in this package never rebinds a queue's behavior at
// runtime the way the original's method-table swap did.
type Queue interface {
	// ID returns the queue's process-wide identifier.
	ID() int64

	// Enqueue appends items to the normal lane's tail.
	Enqueue(items ...Item) error
	// EnqueuePriority appends items to the tail of the given priority level.
	EnqueuePriority(priority int, items ...Item) error

	// Dequeue blocks until at least one item is available, then returns up
	// to count items (fewer at the tail of the returned slice if the queue
	// was drained first). count must be >= 1.
	Dequeue(count int) ([]Item, error)
	// DequeueNB returns immediately: up to count items, or none if the
	// queue is currently empty. Disallowed (ErrModeViolation) when the
	// queue is in fast mode.
	DequeueNB(count int) ([]Item, error)

	// Insert splices items into the normal lane at a FIFO/LIFO-symmetric
	// index (see queue/index.go for the exact mapping).
	Insert(index int, items ...Item) error
	// InsertPriority splices items into a priority level at a
	// FIFO/LIFO-symmetric index, creating the level if needed.
	InsertPriority(priority, index int, items ...Item) error

	// Peek returns the item at a FIFO/LIFO-symmetric index in the normal
	// lane without removing it. ok is false when the index is out of range.
	Peek(index int) (item Item, ok bool, err error)
	// PeekPriority is Peek scoped to one priority level.
	PeekPriority(priority, index int) (item Item, ok bool, err error)
	// PeekHeap returns the next-to-dequeue item of the index-th active
	// priority level in heap order (0 is the top level) without removing
	// it, along with that level's number.
	PeekHeap(index int) (item Item, priority int, ok bool, err error)
	// HeapSnapshot returns every active priority level in heap order —
	// index 0 is the level PeekHeap/Dequeue would drain next — with each
	// level's pending count.
	HeapSnapshot() ([]queue.LevelStat, error)

	// Pending returns the total element count across every lane.
	Pending() (int, error)

	// Clear empties every lane. Disallowed (ErrModeViolation) in fast mode.
	Clear() error

	// Await blocks the calling goroutine until Pending() <= threshold.
	// Returns ErrAwaitDisabled if the queue wasn't constructed with Await.
	Await(threshold int) error

	// Close releases any resources (sockets, background goroutines) this
	// Queue implementation owns. Standalone queues are a no-op.
	Close() error
}
