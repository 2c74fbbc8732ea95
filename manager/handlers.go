package manager

import (
	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/internal/ipc"
	"github.com/everyday-items/hqueue/internal/obslog"
	"github.com/everyday-items/hqueue/metrics"
	"github.com/everyday-items/hqueue/queue"
	"github.com/everyday-items/hqueue/wire"
)

func (d *Dispatcher) handleNewQueue(req wire.Request) wire.Response {
	typ := queue.Type(req.Args[0])
	order := queue.Order(req.Args[1])
	await := req.Args[2] != 0
	fast := req.Args[3] != 0

	id := d.ids.Generate()
	core := queue.NewCore(typ, order)

	signal, err := ipc.New()
	if err != nil {
		return errResponse(err)
	}
	var awaitCh *ipc.Doorbell
	if await {
		awaitCh, err = ipc.New()
		if err != nil {
			signal.Close()
			return errResponse(err)
		}
	}

	st := &queueState{
		cfg: hqueue.Config{
			Type:          typ,
			PriorityOrder: order,
			Await:         await,
			Fast:          fast,
		},
		core:   core,
		signal: signal,
		await:  awaitCh,
	}

	if len(req.Items) > 0 {
		core.Enqueue(req.Items...)
		st.signal.Signal()
		metrics.SignalBytesTotal.WithLabelValues(metrics.QueueLabel(id)).Inc()
	}

	d.queues.Store(id, st)
	d.log.Info("queue created", obslog.Int64("queue_id", id), obslog.Bool("await", await), obslog.Bool("fast", fast))
	return wire.Response{Status: wire.StatusOK, Args: []int64{id}}
}

// signalOnMutate implements the slow/fast-mode-common "empty -> non-empty"
// bootstrap rule of §4.4: a single wake-up byte, suppressed if the last
// dequeue on this queue was non-blocking (nb_flag).
func (d *Dispatcher) signalOnMutate(id int64, st *queueState, wasEmpty bool) {
	if !wasEmpty || st.nbFlag {
		return
	}
	if err := st.signal.Signal(); err != nil {
		d.log.Error("signal write failed", obslog.Int64("queue_id", id), obslog.Err(err))
		return
	}
	metrics.SignalBytesTotal.WithLabelValues(metrics.QueueLabel(id)).Inc()
}

func (d *Dispatcher) handleEnqueue(id int64, st *queueState, priority *int, items []queue.Item) wire.Response {
	if len(items) == 0 {
		return wire.Response{Status: wire.StatusOK}
	}
	if fn := st.gather.Load(); fn != nil {
		for _, item := range items {
			(*fn)(item)
		}
		return wire.Response{Status: wire.StatusOK}
	}

	wasEmpty := st.core.Pending() == 0
	if priority == nil {
		st.core.Enqueue(items...)
	} else {
		st.core.EnqueuePriority(*priority, items...)
	}
	d.signalOnMutate(id, st, wasEmpty)
	d.reportDepth(id, st)
	return wire.Response{Status: wire.StatusOK}
}

func (d *Dispatcher) handleInsert(id int64, st *queueState, priority *int, index int, items []queue.Item) wire.Response {
	if len(items) == 0 {
		return wire.Response{Status: wire.StatusOK}
	}
	wasEmpty := st.core.Pending() == 0
	if priority == nil {
		st.core.Insert(index, items...)
	} else {
		st.core.InsertPriority(*priority, index, items...)
	}
	d.signalOnMutate(id, st, wasEmpty)
	d.reportDepth(id, st)
	return wire.Response{Status: wire.StatusOK}
}

// reportDepth samples Pending and HeapDepth together: every mutation that
// can change either (enqueue, insert, dequeue, clear) reports both so the
// two gauges never drift out of sync with each other.
func (d *Dispatcher) reportDepth(id int64, st *queueState) {
	label := metrics.QueueLabel(id)
	metrics.Pending.WithLabelValues(label).Set(float64(st.core.Pending()))
	metrics.HeapDepth.WithLabelValues(label).Set(float64(len(st.core.HeapSnapshot())))
}

func (d *Dispatcher) handleDequeue(id int64, st *queueState, count int, blocking bool) wire.Response {
	if count < 1 {
		return errResponse(queue.ErrEmptyCount)
	}
	if !blocking && st.cfg.Fast {
		metrics.ModeViolationsTotal.WithLabelValues(metrics.QueueLabel(id), "dequeue_nb").Inc()
		d.log.Warn("dequeue_nb rejected under fast mode", obslog.Int64("queue_id", id))
		return errResponse(hqueue.ErrModeViolation)
	}

	out := make([]queue.Item, 0, count)
	for i := 0; i < count; i++ {
		item, ok := st.core.Dequeue()
		if !ok {
			break
		}
		out = append(out, item)
	}

	if blocking {
		st.nbFlag = false
	} else {
		st.nbFlag = true
	}

	d.signalOnDequeue(id, st, count, len(out))
	d.releaseAwaiters(id, st)
	d.reportDepth(id, st)

	if len(out) == 0 {
		return wire.Response{Status: wire.StatusAbsent}
	}
	return wire.Response{Status: wire.StatusOK, Items: out}
}

// signalOnDequeue implements §4.4's two wake-up regimes for a dequeue that
// actually removed at least one item.
func (d *Dispatcher) signalOnDequeue(id int64, st *queueState, countHint, removed int) {
	if removed == 0 {
		return
	}
	pendingAfter := st.core.Pending()

	if !st.cfg.Fast {
		if pendingAfter > 0 {
			if err := st.signal.Signal(); err == nil {
				metrics.SignalBytesTotal.WithLabelValues(metrics.QueueLabel(id)).Inc()
			}
		}
		return
	}

	if st.dsem <= 1 {
		depth := pendingAfter
		if countHint > 1 {
			depth = pendingAfter / countHint
		}
		if depth > queue.MaxDequeueDepth {
			depth = queue.MaxDequeueDepth
		}
		if depth > 0 {
			if err := st.signal.SignalBurst(depth); err == nil {
				metrics.SignalBytesTotal.WithLabelValues(metrics.QueueLabel(id)).Add(float64(depth))
			}
		}
		st.dsem = depth
	} else {
		st.dsem--
	}
	metrics.DequeueSemaphore.WithLabelValues(metrics.QueueLabel(id)).Set(float64(st.dsem))
}

// releaseAwaiters implements §4.5: once pending drops to tsem or below and
// at least one producer is waiting, wake all of them in a single burst.
func (d *Dispatcher) releaseAwaiters(id int64, st *queueState) {
	if !st.cfg.Await || st.asem == 0 {
		return
	}
	if st.core.Pending() > st.tsem {
		return
	}
	if err := st.await.SignalBurst(st.asem); err != nil {
		d.log.Error("await signal failed", obslog.Int64("queue_id", id), obslog.Err(err))
		return
	}
	st.asem = 0
	metrics.AwaitSemaphore.WithLabelValues(metrics.QueueLabel(id)).Set(0)
}

func (d *Dispatcher) handlePeek(st *queueState, index int) wire.Response {
	item, ok := st.core.Peek(index)
	if !ok {
		return wire.Response{Status: wire.StatusAbsent}
	}
	return wire.Response{Status: wire.StatusOK, Items: []queue.Item{item}}
}

func (d *Dispatcher) handlePeekPriority(st *queueState, priority, index int) wire.Response {
	item, ok := st.core.PeekPriority(priority, index)
	if !ok {
		return wire.Response{Status: wire.StatusAbsent}
	}
	return wire.Response{Status: wire.StatusOK, Items: []queue.Item{item}}
}

func (d *Dispatcher) handlePeekHeap(st *queueState, index int) wire.Response {
	item, priority, ok := st.core.PeekHeapAt(index)
	if !ok {
		return wire.Response{Status: wire.StatusAbsent}
	}
	return wire.Response{Status: wire.StatusOK, Args: []int64{int64(priority)}, Items: []queue.Item{item}}
}

func (d *Dispatcher) handleHeapSnapshot(st *queueState) wire.Response {
	snap := st.core.HeapSnapshot()
	frozen, err := queue.Freeze(snap)
	if err != nil {
		return errResponse(err)
	}
	return wire.Response{Status: wire.StatusOK, Items: []queue.Item{frozen}}
}

func (d *Dispatcher) handleClear(id int64, st *queueState) wire.Response {
	if st.cfg.Fast {
		metrics.ModeViolationsTotal.WithLabelValues(metrics.QueueLabel(id), "clear").Inc()
		d.log.Warn("clear rejected under fast mode")
		return errResponse(hqueue.ErrModeViolation)
	}
	st.signal.TryDrain()
	st.core.Clear()
	d.reportDepth(id, st)
	return wire.Response{Status: wire.StatusOK}
}

func (d *Dispatcher) handleAwait(id int64, st *queueState, threshold int) wire.Response {
	if !st.cfg.Await {
		metrics.ModeViolationsTotal.WithLabelValues(metrics.QueueLabel(id), "await").Inc()
		d.log.Warn("await rejected: not constructed with await enabled", obslog.Int64("queue_id", id))
		return errResponse(hqueue.ErrAwaitDisabled)
	}
	st.tsem = threshold
	if st.core.Pending() <= threshold {
		st.await.Signal()
		return wire.Response{Status: wire.StatusOK}
	}
	st.asem++
	metrics.AwaitSemaphore.WithLabelValues(metrics.QueueLabel(id)).Set(float64(st.asem))
	return wire.Response{Status: wire.StatusOK}
}

func (d *Dispatcher) handleDestroy(id int64, st *queueState) wire.Response {
	st.signal.Close()
	if st.await != nil {
		st.await.Close()
	}
	d.queues.Delete(id)
	metrics.Forget(id)
	d.log.Info("queue destroyed", obslog.Int64("queue_id", id))
	return wire.Response{Status: wire.StatusOK}
}
