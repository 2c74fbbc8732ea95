// Package local is the factory design note 9 asks for: one entry point that
// picks between StandaloneQueue, a manager-resident ManagerQueue, and a
// WorkerProxy at construction time, instead of the original's runtime
// method-table swap. A Factory is built once for a process with a fixed
// Mode; every queue it subsequently builds is wired the same way.
//
// ModeManaged pairs a Dispatcher and a Proxy over an in-memory net.Pipe
// rather than a real listener, because in this port the "manager process"
// and "worker process" of the original are usually goroutines in one Go
// process, not separate OS processes. A deployment that does split them
// across processes dials workerclient.Dial against a real listener running
// Dispatcher.Serve instead of using this package.
//
// ModeManagerLocal skips the net.Pipe/wire round trip entirely and returns a
// ManagerQueue talking to the Dispatcher's registry by direct call. Pick
// this for code that runs inside the manager process itself (the manager's
// own housekeeping, a Gather sink it owns) and has no need to pay framing
// and socket-copy overhead to reach state already in the same address space.
package local

import (
	"net"
	"sync/atomic"

	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/manager"
	"github.com/everyday-items/hqueue/workerclient"
)

// Mode selects which hqueue.Queue implementation Factory.New returns.
type Mode int

const (
	// ModeStandalone builds a StandaloneQueue: all state in this process,
	// no sockets, no dispatcher.
	ModeStandalone Mode = iota
	// ModeManaged builds a WorkerProxy backed by a Dispatcher sharing this
	// process, connected over an in-memory net.Pipe.
	ModeManaged
	// ModeManagerLocal builds a ManagerQueue: direct calls into a
	// Dispatcher's registry, no socket pair and no framing at all.
	ModeManagerLocal
)

// Factory builds queues for one process in one Mode. It never rebinds: a
// Factory constructed with ModeStandalone always returns StandaloneQueue
// values, and one constructed with ModeManaged always returns WorkerProxy
// values against the same Dispatcher.
type Factory struct {
	mode          Mode
	dispatcher    *manager.Dispatcher
	standaloneIDs *standaloneCounter
}

// NewStandaloneFactory builds a Factory that constructs StandaloneQueue
// values with process-unique ids drawn from a simple counter (standalone
// queues never share a registry with anything else, so no coordination
// beyond uniqueness-within-process is required).
func NewStandaloneFactory() *Factory {
	return &Factory{mode: ModeStandalone, standaloneIDs: new(standaloneCounter)}
}

// NewManagedFactory builds a Factory that constructs WorkerProxy values
// against dispatcher, a Dispatcher already running (or about to run) in
// this process. Each New call opens its own net.Pipe connection and its own
// Dispatcher.Serve goroutine so concurrent callers never contend on one
// control connection's channel lock.
func NewManagedFactory(dispatcher *manager.Dispatcher) *Factory {
	return &Factory{mode: ModeManaged, dispatcher: dispatcher}
}

// NewManagerLocalFactory builds a Factory that constructs ManagerQueue
// values directly against dispatcher's registry, for callers that already
// live inside the manager process and have no use for a socket round trip
// to reach state they could call into directly.
func NewManagerLocalFactory(dispatcher *manager.Dispatcher) *Factory {
	return &Factory{mode: ModeManagerLocal, dispatcher: dispatcher}
}

// New constructs one queue per cfg, in this Factory's Mode.
func (f *Factory) New(cfg hqueue.Config) (hqueue.Queue, error) {
	switch f.mode {
	case ModeStandalone:
		return hqueue.NewStandalone(f.standaloneIDs.next(), cfg), nil
	case ModeManaged:
		return f.newManaged(cfg)
	case ModeManagerLocal:
		return f.dispatcher.NewLocalQueue(cfg)
	default:
		return nil, hqueue.ErrNoManager
	}
}

func (f *Factory) newManaged(cfg hqueue.Config) (hqueue.Queue, error) {
	serverConn, clientConn := net.Pipe()
	go func() {
		_ = f.dispatcher.Serve(serverConn)
	}()

	client := workerclient.NewClientFromConn(clientConn)
	id, err := workerclient.NewQueue(client, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}
	if cfg.Gather != nil {
		// Gather is a Go callback and cannot ride the wire frame OpNewQueue
		// sent above; attach it directly now that both factory and
		// dispatcher share this process.
		f.dispatcher.SetGather(id, cfg.Gather)
	}

	signal, await, ok := f.dispatcher.Doorbells(id)
	if !ok {
		client.Close()
		return nil, manager.ErrQueueNotFound
	}
	return workerclient.NewProxy(client, id, cfg, signal, await), nil
}

// standaloneCounter hands out process-unique, monotonically increasing ids
// without pulling in idgen's Snowflake machinery: standalone queues have no
// manager restart to survive and no cross-process collision to avoid, so a
// plain atomic counter satisfies "identifiers never reused" (§3) at a
// fraction of the mechanism.
type standaloneCounter struct {
	n atomic.Int64
}

func (c *standaloneCounter) next() int64 {
	return c.n.Add(1)
}
