// Package metrics exposes the manager's per-queue Prometheus instrumentation:
// pending depth, active priority-level count, the fast-mode dsem counter,
// the await asem counter, and cumulative counters for doorbell bytes written
// and frames dispatched. It is adapted from the toolkit's
// infra/queue/asynq/metrics.go promauto.NewGaugeVec/NewCounterVec pattern,
// labeled by queue id instead of asynq's queue name.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pending is the total element count (normal lane + priority lanes) of
	// a queue, sampled after every dispatched frame that can change it.
	Pending = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hqueue_pending",
			Help: "Current number of pending elements in the queue (all lanes).",
		},
		[]string{"queue_id"},
	)

	// HeapDepth is the number of currently non-empty priority levels.
	HeapDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hqueue_heap_depth",
			Help: "Current number of active (non-empty) priority levels.",
		},
		[]string{"queue_id"},
	)

	// DequeueSemaphore mirrors a fast-mode queue's dsem: the number of
	// pre-signalled doorbell bytes still outstanding.
	DequeueSemaphore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hqueue_dequeue_semaphore",
			Help: "Fast-mode dsem: doorbell bytes pre-signalled but not yet consumed.",
		},
		[]string{"queue_id"},
	)

	// AwaitSemaphore mirrors a queue's asem: the number of producers
	// currently blocked in await() waiting for pending to drop to tsem.
	AwaitSemaphore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hqueue_await_semaphore",
			Help: "Number of producers currently blocked on await().",
		},
		[]string{"queue_id"},
	)

	// SignalBytesTotal counts every wake-up byte the manager has written to
	// a queue's signal channel, across both the slow and fast regimes.
	SignalBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hqueue_signal_bytes_total",
			Help: "Total doorbell bytes written to the queue's signal channel.",
		},
		[]string{"queue_id"},
	)

	// FramesDispatchedTotal counts every request frame the dispatcher has
	// processed, labeled by opcode, for per-operation throughput.
	FramesDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hqueue_frames_dispatched_total",
			Help: "Total request frames processed by the manager dispatcher, by opcode.",
		},
		[]string{"opcode"},
	)

	// ModeViolationsTotal counts warn-level mode violations (clear/
	// dequeue_nb under fast mode, await on a non-await queue).
	ModeViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hqueue_mode_violations_total",
			Help: "Total operations rejected as mode violations (§7 kind 2).",
		},
		[]string{"queue_id", "op"},
	)
)

// QueueLabel formats an int64 queue id as the label value the Gauge/Counter
// vectors above expect.
func QueueLabel(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Forget removes every series labeled with id, called when a queue is
// destroyed so its gauges don't linger at a stale last-observed value.
func Forget(id int64) {
	label := QueueLabel(id)
	Pending.DeleteLabelValues(label)
	HeapDepth.DeleteLabelValues(label)
	DequeueSemaphore.DeleteLabelValues(label)
	AwaitSemaphore.DeleteLabelValues(label)
	SignalBytesTotal.DeleteLabelValues(label)
}
