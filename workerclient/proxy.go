package workerclient

import (
	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/internal/ipc"
	"github.com/everyday-items/hqueue/queue"
	"github.com/everyday-items/hqueue/wire"
)

// Proxy is the hqueue.Queue implementation that talks to one queue held by a
// remote (or, in this port, in-process) ManagerDispatcher over a shared
// Client connection. Blocking operations wait on a doorbell outside the
// connection's request lock, then issue the matching wire request once
// woken, mirroring how a real worker never holds the control
// connection open while idle.
type Proxy struct {
	client *Client
	id     int64
	cfg    hqueue.Config

	signal *ipc.Doorbell
	await  *ipc.Doorbell
}

// NewQueue asks the manager behind client to create a queue and returns its
// assigned id. Use (*Dispatcher).Doorbells (manager package) to fetch the
// doorbells for NewProxy when client and the dispatcher share a process.
func NewQueue(client *Client, cfg hqueue.Config) (int64, error) {
	req := wire.Request{
		Op: wire.OpNewQueue,
		Args: []int64{
			int64(cfg.Type),
			int64(cfg.PriorityOrder),
			boolArg(cfg.Await),
			boolArg(cfg.Fast),
		},
		Items: cfg.Queue,
	}
	resp, err := client.call(req)
	if err != nil {
		return 0, err
	}
	if resp.Status == wire.StatusError {
		return 0, mapErr(resp.ErrMsg)
	}
	return resp.Args[0], nil
}

func boolArg(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// NewProxy wraps an already-created queue id in a Queue handle. signal is
// required; await may be nil when cfg.Await is false.
func NewProxy(client *Client, id int64, cfg hqueue.Config, signal, await *ipc.Doorbell) *Proxy {
	return &Proxy{client: client, id: id, cfg: cfg, signal: signal, await: await}
}

func (p *Proxy) ID() int64 { return p.id }

func (p *Proxy) Enqueue(items ...hqueue.Item) error {
	return p.enqueue(nil, items...)
}

func (p *Proxy) EnqueuePriority(priority int, items ...hqueue.Item) error {
	return p.enqueue(&priority, items...)
}

func (p *Proxy) enqueue(priority *int, items ...hqueue.Item) error {
	if len(items) == 0 {
		return nil
	}
	op := wire.OpEnqueue
	var args []int64
	if priority != nil {
		op = wire.OpEnqueuePrio
		args = []int64{int64(*priority)}
	}
	resp, err := p.client.call(wire.Request{Op: op, QueueID: p.id, Args: args, Items: items})
	if err != nil {
		return err
	}
	return statusErr(resp)
}

func (p *Proxy) Insert(index int, items ...hqueue.Item) error {
	return p.insert(nil, index, items...)
}

func (p *Proxy) InsertPriority(priority, index int, items ...hqueue.Item) error {
	return p.insert(&priority, index, items...)
}

func (p *Proxy) insert(priority *int, index int, items ...hqueue.Item) error {
	if len(items) == 0 {
		return nil
	}
	op := wire.OpInsert
	args := []int64{int64(index)}
	if priority != nil {
		op = wire.OpInsertPrio
		args = []int64{int64(*priority), int64(index)}
	}
	resp, err := p.client.call(wire.Request{Op: op, QueueID: p.id, Args: args, Items: items})
	if err != nil {
		return err
	}
	return statusErr(resp)
}

// Dequeue blocks until at least one item is available. It waits on the
// signal doorbell outside the connection lock, then issues a blocking
// dequeue request; a manager-side race can still report the queue absent
// (another worker drained it first), in which case Dequeue waits again
// rather than surfacing the race to the caller.
func (p *Proxy) Dequeue(count int) ([]hqueue.Item, error) {
	if count < 1 {
		return nil, queue.ErrEmptyCount
	}
	for {
		if err := p.signal.Wait(); err != nil {
			if err == ipc.ErrClosed {
				return nil, hqueue.ErrQueueClosed
			}
			return nil, err
		}
		resp, err := p.client.call(wire.Request{Op: wire.OpDequeue, QueueID: p.id, Args: []int64{int64(count)}})
		if err != nil {
			return nil, err
		}
		if resp.Status == wire.StatusAbsent {
			continue
		}
		if resp.Status == wire.StatusError {
			return nil, mapErr(resp.ErrMsg)
		}
		return resp.Items, nil
	}
}

func (p *Proxy) DequeueNB(count int) ([]hqueue.Item, error) {
	if count < 1 {
		return nil, queue.ErrEmptyCount
	}
	resp, err := p.client.call(wire.Request{Op: wire.OpDequeueNB, QueueID: p.id, Args: []int64{int64(count)}})
	if err != nil {
		return nil, err
	}
	if resp.Status == wire.StatusError {
		return nil, mapErr(resp.ErrMsg)
	}
	return resp.Items, nil
}

func (p *Proxy) Peek(index int) (hqueue.Item, bool, error) {
	resp, err := p.client.call(wire.Request{Op: wire.OpPeek, QueueID: p.id, Args: []int64{int64(index)}})
	if err != nil {
		return hqueue.Item{}, false, err
	}
	if resp.Status == wire.StatusError {
		return hqueue.Item{}, false, mapErr(resp.ErrMsg)
	}
	if resp.Status == wire.StatusAbsent {
		return hqueue.Item{}, false, nil
	}
	return resp.Items[0], true, nil
}

func (p *Proxy) PeekPriority(priority, index int) (hqueue.Item, bool, error) {
	resp, err := p.client.call(wire.Request{Op: wire.OpPeekPrio, QueueID: p.id, Args: []int64{int64(priority), int64(index)}})
	if err != nil {
		return hqueue.Item{}, false, err
	}
	if resp.Status == wire.StatusError {
		return hqueue.Item{}, false, mapErr(resp.ErrMsg)
	}
	if resp.Status == wire.StatusAbsent {
		return hqueue.Item{}, false, nil
	}
	return resp.Items[0], true, nil
}

func (p *Proxy) PeekHeap(index int) (hqueue.Item, int, bool, error) {
	resp, err := p.client.call(wire.Request{Op: wire.OpPeekHeap, QueueID: p.id, Args: []int64{int64(index)}})
	if err != nil {
		return hqueue.Item{}, 0, false, err
	}
	if resp.Status == wire.StatusError {
		return hqueue.Item{}, 0, false, mapErr(resp.ErrMsg)
	}
	if resp.Status == wire.StatusAbsent {
		return hqueue.Item{}, 0, false, nil
	}
	return resp.Items[0], int(resp.Args[0]), true, nil
}

func (p *Proxy) HeapSnapshot() ([]queue.LevelStat, error) {
	resp, err := p.client.call(wire.Request{Op: wire.OpHeapSnapshot, QueueID: p.id})
	if err != nil {
		return nil, err
	}
	if resp.Status == wire.StatusError {
		return nil, mapErr(resp.ErrMsg)
	}
	var snap []queue.LevelStat
	if err := queue.Thaw(resp.Items[0], &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *Proxy) Pending() (int, error) {
	resp, err := p.client.call(wire.Request{Op: wire.OpPendingTotal, QueueID: p.id})
	if err != nil {
		return 0, err
	}
	if resp.Status == wire.StatusError {
		return 0, mapErr(resp.ErrMsg)
	}
	return int(resp.Args[0]), nil
}

func (p *Proxy) Clear() error {
	resp, err := p.client.call(wire.Request{Op: wire.OpClear, QueueID: p.id})
	if err != nil {
		return err
	}
	return statusErr(resp)
}

// Await blocks until the manager reports pending at or below threshold. It
// rejects locally (no round trip) when this proxy's config never enabled
// Await, matching the StandaloneQueue's immediate ErrAwaitDisabled.
func (p *Proxy) Await(threshold int) error {
	if !p.cfg.Await {
		return hqueue.ErrAwaitDisabled
	}
	resp, err := p.client.call(wire.Request{Op: wire.OpAwait, QueueID: p.id, Args: []int64{int64(threshold)}})
	if err != nil {
		return err
	}
	if err := statusErr(resp); err != nil {
		return err
	}
	if err := p.await.Wait(); err == ipc.ErrClosed {
		return hqueue.ErrQueueClosed
	} else {
		return err
	}
}

// Close releases this handle's local resources. It does not tear down the
// queue on the manager: other proxies may still hold it. Queue teardown is
// an explicit manager-side operation (see manager.Dispatcher), not implied
// by a worker disconnecting.
func (p *Proxy) Close() error {
	return nil
}

func statusErr(resp wire.Response) error {
	if resp.Status == wire.StatusError {
		return mapErr(resp.ErrMsg)
	}
	return nil
}

// mapErr recovers a known sentinel from a wire error response's message, so
// callers can still use errors.Is against hqueue's sentinels even though the
// error crossed a socket and lost its identity. Anything unrecognized is
// returned as a plain error carrying the manager's message.
func mapErr(msg string) error {
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
	default:
		return errString(msg)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

var _ hqueue.Queue = (*Proxy)(nil)
