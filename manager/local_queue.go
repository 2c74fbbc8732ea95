package manager

import (
	"sync"

	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/internal/ipc"
	"github.com/everyday-items/hqueue/internal/obslog"
	"github.com/everyday-items/hqueue/metrics"
	"github.com/everyday-items/hqueue/queue"
	"github.com/everyday-items/hqueue/wire"
)

// ManagerQueue is the manager-resident hqueue.Queue implementation: its
// state lives in a Dispatcher's registry but is driven by direct Go calls
// from code sharing this process, never by a framed wire request. It reuses
// the exact handleEnqueue/handleDequeue/... methods the wire dispatch path
// calls, so a ManagerQueue and a WorkerProxy talking to the same Dispatcher
// observe identical doorbell and await behavior (§4.4-§4.5) — the only
// difference between them is how a call reaches queueState.
//
// A given queue id is driven by exactly one path for its whole lifetime:
// either wire frames via Dispatcher.Serve (queueState built by
// handleNewQueue) or direct calls via ManagerQueue (queueState built by
// NewLocalQueue below). Mixing the two would let Serve's single-threaded
// dispatch loop and a ManagerQueue caller mutate the same queueState from
// two goroutines with nothing serializing between them; callMu here only
// serializes ManagerQueue's own callers against each other, mirroring the
// role a worker's channel lock plays for WorkerProxy.
type ManagerQueue struct {
	d  *Dispatcher
	id int64

	callMu sync.Mutex
}

// NewLocalQueue creates a queue in d's registry by direct construction —
// no OpNewQueue frame is ever parsed — and returns a ManagerQueue handle to
// it. Use this for queues the manager process itself consumes or produces
// to (for example, to seed a Gather callback at construction instead of
// attaching it after the fact via SetGather).
func (d *Dispatcher) NewLocalQueue(cfg hqueue.Config) (*ManagerQueue, error) {
	id := d.ids.Generate()
	core := queue.NewCore(cfg.Type, cfg.PriorityOrder)

	signal, err := ipc.New()
	if err != nil {
		return nil, err
	}
	var awaitCh *ipc.Doorbell
	if cfg.Await {
		awaitCh, err = ipc.New()
		if err != nil {
			signal.Close()
			return nil, err
		}
	}

	st := &queueState{cfg: cfg, core: core, signal: signal, await: awaitCh}
	if cfg.Gather != nil {
		gather := cfg.Gather
		st.gather.Store(&gather)
	}
	if len(cfg.Queue) > 0 {
		core.Enqueue(cfg.Queue...)
		if err := st.signal.Signal(); err == nil {
			metrics.SignalBytesTotal.WithLabelValues(metrics.QueueLabel(id)).Inc()
		}
	}

	d.queues.Store(id, st)
	d.log.Info("local queue created", obslog.Int64("queue_id", id), obslog.Bool("await", cfg.Await), obslog.Bool("fast", cfg.Fast))
	return &ManagerQueue{d: d, id: id}, nil
}

func (q *ManagerQueue) ID() int64 { return q.id }

func (q *ManagerQueue) state() (*queueState, error) {
	st, ok := q.d.queues.Load(q.id)
	if !ok {
		return nil, hqueue.ErrQueueClosed
	}
	return st, nil
}

func (q *ManagerQueue) Enqueue(items ...hqueue.Item) error {
	return q.mutate(func(st *queueState) wire.Response {
		return q.d.handleEnqueue(q.id, st, nil, items)
	})
}

func (q *ManagerQueue) EnqueuePriority(priority int, items ...hqueue.Item) error {
	return q.mutate(func(st *queueState) wire.Response {
		return q.d.handleEnqueue(q.id, st, &priority, items)
	})
}

func (q *ManagerQueue) Insert(index int, items ...hqueue.Item) error {
	return q.mutate(func(st *queueState) wire.Response {
		return q.d.handleInsert(q.id, st, nil, index, items)
	})
}

func (q *ManagerQueue) InsertPriority(priority, index int, items ...hqueue.Item) error {
	return q.mutate(func(st *queueState) wire.Response {
		return q.d.handleInsert(q.id, st, &priority, index, items)
	})
}

// Dequeue waits on the signal doorbell outside callMu — exactly like
// WorkerProxy.Dequeue waits outside its channel lock — so a concurrent
// Enqueue from another goroutine sharing this ManagerQueue is never
// blocked behind a consumer that is merely waiting for data.
func (q *ManagerQueue) Dequeue(count int) ([]hqueue.Item, error) {
	if count < 1 {
		return nil, queue.ErrEmptyCount
	}
	st, err := q.state()
	if err != nil {
		return nil, err
	}
	for {
		if err := st.signal.Wait(); err != nil {
			return nil, hqueue.ErrQueueClosed
		}
		q.callMu.Lock()
		resp := q.d.handleDequeue(q.id, st, count, true)
		q.callMu.Unlock()
		if resp.Status == wire.StatusAbsent {
			continue
		}
		if resp.Status == wire.StatusError {
			return nil, mapLocalErr(resp.ErrMsg)
		}
		return resp.Items, nil
	}
}

func (q *ManagerQueue) DequeueNB(count int) ([]hqueue.Item, error) {
	if count < 1 {
		return nil, queue.ErrEmptyCount
	}
	var resp wire.Response
	err := q.mutate(func(st *queueState) wire.Response {
		resp = q.d.handleDequeue(q.id, st, count, false)
		return resp
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (q *ManagerQueue) Peek(index int) (hqueue.Item, bool, error) {
	st, err := q.state()
	if err != nil {
		return hqueue.Item{}, false, err
	}
	q.callMu.Lock()
	resp := q.d.handlePeek(st, index)
	q.callMu.Unlock()
	return peekResult(resp)
}

func (q *ManagerQueue) PeekPriority(priority, index int) (hqueue.Item, bool, error) {
	st, err := q.state()
	if err != nil {
		return hqueue.Item{}, false, err
	}
	q.callMu.Lock()
	resp := q.d.handlePeekPriority(st, priority, index)
	q.callMu.Unlock()
	return peekResult(resp)
}

func (q *ManagerQueue) PeekHeap(index int) (hqueue.Item, int, bool, error) {
	st, err := q.state()
	if err != nil {
		return hqueue.Item{}, 0, false, err
	}
	q.callMu.Lock()
	resp := q.d.handlePeekHeap(st, index)
	q.callMu.Unlock()
	if resp.Status == wire.StatusAbsent {
		return hqueue.Item{}, 0, false, nil
	}
	if resp.Status == wire.StatusError {
		return hqueue.Item{}, 0, false, mapLocalErr(resp.ErrMsg)
	}
	return resp.Items[0], int(resp.Args[0]), true, nil
}

func (q *ManagerQueue) HeapSnapshot() ([]queue.LevelStat, error) {
	st, err := q.state()
	if err != nil {
		return nil, err
	}
	q.callMu.Lock()
	resp := q.d.handleHeapSnapshot(st)
	q.callMu.Unlock()
	if resp.Status == wire.StatusError {
		return nil, mapLocalErr(resp.ErrMsg)
	}
	var snap []queue.LevelStat
	if err := queue.Thaw(resp.Items[0], &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (q *ManagerQueue) Pending() (int, error) {
	st, err := q.state()
	if err != nil {
		return 0, err
	}
	q.callMu.Lock()
	defer q.callMu.Unlock()
	return st.core.Pending(), nil
}

func (q *ManagerQueue) Clear() error {
	return q.mutate(func(st *queueState) wire.Response {
		return q.d.handleClear(q.id, st)
	})
}

// Await issues the same threshold bookkeeping handleAwait gives a wire
// caller, then blocks on the await doorbell exactly like WorkerProxy.Await
// does after its round trip.
func (q *ManagerQueue) Await(threshold int) error {
	st, err := q.state()
	if err != nil {
		return err
	}
	q.callMu.Lock()
	resp := q.d.handleAwait(q.id, st, threshold)
	q.callMu.Unlock()
	if resp.Status == wire.StatusError {
		return mapLocalErr(resp.ErrMsg)
	}
	// handleAwait already rejected st.await == nil as ErrAwaitDisabled above.
	if err := st.await.Wait(); err != nil {
		return hqueue.ErrQueueClosed
	}
	return nil
}

// Close tears down this queue's doorbells and drops it from the registry,
// same as a wire-driven OpDestroy would.
func (q *ManagerQueue) Close() error {
	st, err := q.state()
	if err != nil {
		return nil
	}
	q.callMu.Lock()
	defer q.callMu.Unlock()
	q.d.handleDestroy(q.id, st)
	return nil
}

func (q *ManagerQueue) mutate(fn func(*queueState) wire.Response) error {
	st, err := q.state()
	if err != nil {
		return err
	}
	q.callMu.Lock()
	resp := fn(st)
	q.callMu.Unlock()
	if resp.Status == wire.StatusError {
		return mapLocalErr(resp.ErrMsg)
	}
	return nil
}

func peekResult(resp wire.Response) (hqueue.Item, bool, error) {
	if resp.Status == wire.StatusAbsent {
		return hqueue.Item{}, false, nil
	}
	if resp.Status == wire.StatusError {
		return hqueue.Item{}, false, mapLocalErr(resp.ErrMsg)
	}
	return resp.Items[0], true, nil
}

// mapLocalErr recovers a known sentinel by message text, same approach
// workerclient.mapErr uses for responses that crossed an actual socket;
// ManagerQueue's responses never leave the process, but reusing handleX's
// wire.Response return type means errors still arrive as strings here.
func mapLocalErr(msg string) error {
	switch msg {
	case hqueue.ErrModeViolation.Error():
		return hqueue.ErrModeViolation
	case hqueue.ErrAwaitDisabled.Error():
		return hqueue.ErrAwaitDisabled
	case hqueue.ErrQueueClosed.Error():
		return hqueue.ErrQueueClosed
	case queue.ErrEmptyCount.Error():
		return queue.ErrEmptyCount
	case queue.ErrNotInteger.Error():
		return queue.ErrNotInteger
	case ErrQueueNotFound.Error():
		return ErrQueueNotFound
	default:
		return localErrString(msg)
	}
}

type localErrString string

func (e localErrString) Error() string { return string(e) }

var _ hqueue.Queue = (*ManagerQueue)(nil)
