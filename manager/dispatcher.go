// Package manager implements the ManagerDispatcher: the single-threaded
// process that owns every queue's authoritative state and speaks the
// framed wire protocol (see the wire package) to worker connections over a
// shared control socket. It mutates queue.Core directly — no locking inside
// the dispatch loop — because exactly one goroutine ever calls Serve for a
// given connection, and a worker's channel lock (see workerclient) ensures
// only one request is ever in flight on that connection at a time.
package manager

import (
	"bufio"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/idgen"
	"github.com/everyday-items/hqueue/internal/errs"
	"github.com/everyday-items/hqueue/internal/ipc"
	"github.com/everyday-items/hqueue/internal/obslog"
	"github.com/everyday-items/hqueue/internal/syncx"
	"github.com/everyday-items/hqueue/metrics"
	"github.com/everyday-items/hqueue/queue"
	"github.com/everyday-items/hqueue/wire"
)

// ErrQueueNotFound is returned (and sent back as a wire error response)
// when a frame names a queue id the registry doesn't hold.
var ErrQueueNotFound = errs.New("manager: queue not found")

// queueState is the authoritative, manager-owned state for one queue: the
// pure Core plus the doorbell bookkeeping (§3, §4.4, §4.5) that only makes
// sense once a manager is in the picture. Every field here except gather is
// touched by one access path only: Dispatcher.Serve's single
// read-dispatch-write loop for a queue created over the wire, or the
// ManagerQueue handle (serialized by its callMu) for one created by
// NewLocalQueue.
type queueState struct {
	cfg    hqueue.Config
	core   *queue.Core
	signal *ipc.Doorbell
	await  *ipc.Doorbell

	// gather is set out-of-band from SetGather rather than carried in cfg:
	// a callback cannot cross the wire in OpNewQueue's request frame, so it
	// is attached after construction by code sharing this process with the
	// Dispatcher. Accessed with atomic.Pointer because SetGather's caller
	// is not the dispatcher goroutine, unlike every other queueState field.
	gather atomic.Pointer[hqueue.GatherFunc]

	nbFlag bool
	dsem   int
	asem   int
	tsem   int
}

// QueueStats is a point-in-time, lock-free-to-read snapshot of one queue,
// returned by Dispatcher.Snapshot for introspection by a goroutine other
// than the dispatcher's own — the "read-only introspection" surface
// described as a supplemented feature.
type QueueStats struct {
	ID      int64
	Pending int
	Heap    int
	Dsem    int
	Asem    int
	Fast    bool
	Await   bool
}

// Dispatcher owns the queue registry and runs the frame loop. One
// Dispatcher typically serves one shared control connection; Serve can be
// called again on a new connection after the previous one closes.
type Dispatcher struct {
	log *obslog.Logger
	ids *idgen.Snowflake

	// queues mirrors the registry for lock-free Snapshot reads; entries are
	// added and removed by the dispatch loop and by NewLocalQueue /
	// ManagerQueue.Close.
	queues *syncx.ConcurrentMap[int64, *queueState]

	closeOnce sync.Once
}

// New creates a Dispatcher. workerID seeds the Snowflake id generator so
// queue ids stay monotonic and collision-free across manager restarts, per
// spec.md's "identifiers never reused."
func New(workerID int64, log *obslog.Logger) (*Dispatcher, error) {
	sf, err := idgen.NewSnowflake(workerID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = obslog.Default()
	}
	return &Dispatcher{
		log:    log.With(obslog.Component("manager")),
		ids:    sf,
		queues: syncx.NewConcurrentMap[int64, *queueState](),
	}, nil
}

// Snapshot returns a stats copy of every live queue. Safe to call
// concurrently with Serve; never blocks the dispatch loop.
func (d *Dispatcher) Snapshot() map[int64]QueueStats {
	out := make(map[int64]QueueStats)
	d.queues.Range(func(id int64, st *queueState) bool {
		out[id] = QueueStats{
			ID:      id,
			Pending: st.core.Pending(),
			Heap:    len(st.core.HeapSnapshot()),
			Dsem:    st.dsem,
			Asem:    st.asem,
			Fast:    st.cfg.Fast,
			Await:   st.cfg.Await,
		}
		return true
	})
	return out
}

// Doorbells returns the signal and (if the queue was built with Await) await
// doorbells for id, so an in-process WorkerProxy can share the very socket
// pair the dispatcher signals on rather than redialing a second control
// connection just to carry wake-up bytes.
func (d *Dispatcher) Doorbells(id int64) (signal, await *ipc.Doorbell, ok bool) {
	st, ok := d.queues.Load(id)
	if !ok {
		return nil, nil, false
	}
	return st.signal, st.await, true
}

// SetGather attaches fn as id's gather callback: every subsequent enqueue
// onto id's normal or priority lanes is handed to fn instead of appended,
// and produces no doorbell byte (§4.6). fn must return quickly — it runs
// synchronously inside the dispatch loop, blocking every other queue's
// requests on this connection while it executes. Passing a nil fn detaches
// the callback and restores ordinary enqueue behavior. Reports false if id
// is not a live queue.
func (d *Dispatcher) SetGather(id int64, fn hqueue.GatherFunc) bool {
	st, ok := d.queues.Load(id)
	if !ok {
		return false
	}
	if fn == nil {
		st.gather.Store(nil)
		return true
	}
	st.gather.Store(&fn)
	return true
}

// Close tears down every remaining queue's doorbells. Called when the
// manager process is shutting down.
func (d *Dispatcher) Close() error {
	var firstErr error
	d.closeOnce.Do(func() {
		ids := d.queues.Keys()
		for _, id := range ids {
			st, ok := d.queues.Load(id)
			if !ok {
				continue
			}
			if err := st.signal.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			if st.await != nil {
				if err := st.await.Close(); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			metrics.Forget(id)
			d.queues.Delete(id)
		}
	})
	return firstErr
}

// Serve runs the single-threaded frame loop over conn until it closes or a
// wire violation (§7 kind 3) makes the connection unrecoverable. A panic
// while handling one frame is contained by errs.Safe so a single malformed
// request cannot take the whole dispatcher down; the panic is sent back as
// an error response and the loop goes on with the next frame, since the
// failed frame was already read in full and the lockstep request/response
// exchange is still in step.
func (d *Dispatcher) Serve(conn net.Conn) error {
	r := bufio.NewReader(conn)
	defer conn.Close()

	// connID is a human-correlatable debug tag, not a queue or frame
	// identity: it tags this connection's open and close log lines and any
	// panic recovered while handling one of its frames.
	connID := idgen.UUID()
	d.log.Info("connection opened", obslog.RequestID(connID))
	defer d.log.Info("connection closed", obslog.RequestID(connID))

	for {
		req, err := wire.ReadRequest(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		resp, handleErr := d.dispatchSafely(connID, req)
		if handleErr != nil {
			return handleErr
		}
		if err := wire.WriteResponse(conn, resp); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) dispatchSafely(connID string, req wire.Request) (resp wire.Response, fatal error) {
	err := errs.Safe(func() error {
		resp = d.dispatch(req)
		return nil
	})
	if err != nil {
		d.log.Error("panic handling frame", obslog.RequestID(connID), obslog.String("opcode", string(req.Op)), obslog.Err(err))
		return wire.Response{Status: wire.StatusError, ErrMsg: err.Error()}, nil
	}
	return resp, nil
}

func (d *Dispatcher) dispatch(req wire.Request) wire.Response {
	metrics.FramesDispatchedTotal.WithLabelValues(string(req.Op)).Inc()

	if req.Op == wire.OpNewQueue {
		return d.handleNewQueue(req)
	}

	st, ok := d.queues.Load(req.QueueID)
	if !ok {
		return errResponse(ErrQueueNotFound)
	}

	switch req.Op {
	case wire.OpEnqueue:
		return d.handleEnqueue(req.QueueID, st, nil, req.Items)
	case wire.OpEnqueuePrio:
		p := int(req.Args[0])
		return d.handleEnqueue(req.QueueID, st, &p, req.Items)
	case wire.OpInsert:
		return d.handleInsert(req.QueueID, st, nil, int(req.Args[0]), req.Items)
	case wire.OpInsertPrio:
		p := int(req.Args[0])
		return d.handleInsert(req.QueueID, st, &p, int(req.Args[1]), req.Items)
	case wire.OpDequeue:
		return d.handleDequeue(req.QueueID, st, int(req.Args[0]), true)
	case wire.OpDequeueNB:
		return d.handleDequeue(req.QueueID, st, int(req.Args[0]), false)
	case wire.OpPeek:
		return d.handlePeek(st, int(req.Args[0]))
	case wire.OpPeekPrio:
		return d.handlePeekPriority(st, int(req.Args[0]), int(req.Args[1]))
	case wire.OpPeekHeap:
		return d.handlePeekHeap(st, int(req.Args[0]))
	case wire.OpHeapSnapshot:
		return d.handleHeapSnapshot(st)
	case wire.OpPendingTotal:
		return wire.Response{Status: wire.StatusOK, Args: []int64{int64(st.core.Pending())}}
	case wire.OpClear:
		return d.handleClear(req.QueueID, st)
	case wire.OpAwait:
		return d.handleAwait(req.QueueID, st, int(req.Args[0]))
	case wire.OpDestroy:
		return d.handleDestroy(req.QueueID, st)
	default:
		return errResponse(wire.ErrBadOpcode)
	}
}

func errResponse(err error) wire.Response {
	return wire.Response{Status: wire.StatusError, ErrMsg: err.Error()}
}
