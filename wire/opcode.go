// Package wire implements the framed request/response protocol a
// WorkerClient speaks to a ManagerDispatcher over a control socket: an ASCII,
// line-terminated header naming the operation and its integer arguments,
// followed by zero or more length-prefixed item payloads, each tagged with a
// scalar-vs-frozen marker byte. It is a pure codec — it never blocks on I/O
// itself, it only reads from and writes to whatever io.Reader/io.Writer the
// caller (manager, workerclient) hands it.
package wire

// Op is a 5-byte wire opcode token, e.g. "A~QUE" for enqueue. The fixed
// width makes a malformed header detectable the instant the token doesn't
// match any entry in argCount, rather than after an ambiguous partial
// parse.
type Op string

const (
	// Opcodes below this line reproduce spec.md §4.3's table exactly —
	// same 5-character tokens, same meaning. Enqueue collapses the spec's
	// A~QUE/S~QUE (array vs scalar) distinction into one opcode per lane
	// that carries a count-prefixed item list (a one-item list is the
	// scalar case, a longer one is the array case); both still ride the
	// same per-item scalar/frozen marker byte §4.3 specifies.
	OpEnqueue      Op = "A~QUE" // append to the normal lane
	OpEnqueuePrio  Op = "A~QUP" // append to a priority level
	OpInsert       Op = "I~QUE" // splice into the normal lane at an index
	OpInsertPrio   Op = "I~QUP" // splice into a priority level at an index
	OpDequeue      Op = "D~QUE" // blocking dequeue
	OpDequeueNB    Op = "D~QUN" // non-blocking dequeue
	OpPeek         Op = "P~QUE" // peek the normal lane at an index
	OpPeekPrio     Op = "P~QUP" // peek a priority level at an index
	OpPeekHeap     Op = "P~QUH" // peek an active priority level by heap-order index
	OpHeapSnapshot Op = "H~QUE" // ordered snapshot of active priority levels
	OpPendingTotal Op = "N~QUE" // pending count, normal lane + priority levels
	OpClear        Op = "C~QUE" // drop every pending element
	OpAwait        Op = "W~QUE" // block until pending reaches a threshold

	// OpNewQueue and OpDestroy are not in spec.md's table: queue creation
	// and teardown are owned by the outer parallel-execution framework
	// (spec.md §1's explicit out-of-scope collaborator), which has no
	// wire shape of its own here. Both use tokens outside the spec's 14
	// reserved ones so they can never be confused with a spec opcode.
	OpNewQueue Op = "Z~QUN" // create a queue, manager assigns an id
	OpDestroy  Op = "Z~QUX" // tear down a queue
)

// argCount is the number of decimal integer arguments (after the queue id)
// each opcode's header carries, e.g. OpEnqueuePrio carries the priority
// number. A mismatch here is a wire violation (kind 3, fatal to the
// dispatcher), never a silently-ignored extra field.
var argCount = map[Op]int{
	OpNewQueue:     4, // type, priority order, await, fast
	OpEnqueue:      0,
	OpEnqueuePrio:  1, // priority
	OpInsert:       1, // index
	OpInsertPrio:   2, // priority, index
	OpDequeue:      1, // count
	OpDequeueNB:    1, // count
	OpPeek:         1, // index
	OpPeekPrio:     2, // priority, index
	OpPeekHeap:     1, // level index
	OpHeapSnapshot: 0,
	OpPendingTotal: 0,
	OpClear:        0,
	OpAwait:        1, // threshold
	OpDestroy:      0,
}

// hasItemPayload reports whether this opcode's request frame carries one or
// more length-prefixed item payloads (enqueue/insert variants do; everything
// else is header-only).
func hasItemPayload(op Op) bool {
	switch op {
	case OpNewQueue, OpEnqueue, OpEnqueuePrio, OpInsert, OpInsertPrio:
		return true
	default:
		return false
	}
}

// Valid reports whether op is a recognized opcode.
func (op Op) Valid() bool {
	_, ok := argCount[op]
	return ok
}
