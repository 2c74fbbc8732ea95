package wire

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/everyday-items/hqueue/queue"
)

func roundTripRequest(t *testing.T, req Request) Request {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteRequest(&buf, req); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	got, err := ReadRequest(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	return got
}

func TestRequestRoundTrip_NewQueue(t *testing.T) {
	req := Request{
		Op:      OpNewQueue,
		QueueID: 0,
		Args:    []int64{int64(queue.FIFO), int64(queue.HIGHEST), 1, 0},
		Items:   []queue.Item{queue.BytesItem([]byte("seed"))},
	}
	got := roundTripRequest(t, req)
	if got.Op != req.Op || len(got.Args) != 4 {
		t.Fatalf("got %+v, want %+v", got, req)
	}
	if len(got.Items) != 1 || string(got.Items[0].Data) != "seed" {
		t.Fatalf("got items %+v", got.Items)
	}
}

func TestRequestRoundTrip_DequeueCarriesCount(t *testing.T) {
	req := Request{Op: OpDequeue, QueueID: 42, Args: []int64{3}}
	got := roundTripRequest(t, req)
	if got.QueueID != 42 || len(got.Args) != 1 || got.Args[0] != 3 {
		t.Fatalf("got %+v, want count arg 3", got)
	}
}

func TestRequestRoundTrip_DequeueNBCarriesCount(t *testing.T) {
	req := Request{Op: OpDequeueNB, QueueID: 7, Args: []int64{1}}
	got := roundTripRequest(t, req)
	if got.Op != OpDequeueNB || got.Args[0] != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestRoundTrip_PeekHeapCarriesLevelIndex(t *testing.T) {
	req := Request{Op: OpPeekHeap, QueueID: 9, Args: []int64{2}}
	got := roundTripRequest(t, req)
	if got.Op != OpPeekHeap || got.Args[0] != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestRoundTrip_EnqueuePriorityWithItems(t *testing.T) {
	req := Request{
		Op:      OpEnqueuePrio,
		QueueID: 1,
		Args:    []int64{5},
		Items:   []queue.Item{queue.BytesItem([]byte("a")), queue.FrozenItem([]byte("b"))},
	}
	got := roundTripRequest(t, req)
	if got.Args[0] != 5 || len(got.Items) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Items[0].Kind != queue.KindBytes || got.Items[1].Kind != queue.KindFrozen {
		t.Fatalf("item kinds not preserved: %+v", got.Items)
	}
}

func TestRequestRoundTrip_NoArgOpcodes(t *testing.T) {
	for _, op := range []Op{OpHeapSnapshot, OpPendingTotal, OpClear, OpDestroy} {
		req := Request{Op: op, QueueID: 11}
		got := roundTripRequest(t, req)
		if got.Op != op || len(got.Args) != 0 {
			t.Fatalf("op %v: got %+v", op, got)
		}
	}
}

func TestWriteRequest_RejectsWrongArgCount(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRequest(&buf, Request{Op: OpDequeue, QueueID: 1, Args: []int64{1, 2}})
	if err != ErrArgCount {
		t.Fatalf("WriteRequest() = %v, want ErrArgCount", err)
	}
}

func TestWriteRequest_RejectsUnknownOpcode(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRequest(&buf, Request{Op: Op("Z~ZZZ"), QueueID: 1})
	if err != ErrBadOpcode {
		t.Fatalf("WriteRequest() = %v, want ErrBadOpcode", err)
	}
}

func TestReadRequest_RejectsWrongArgCount(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("D~QUE 1 2 3\n"))
	_, err := ReadRequest(r)
	if err != ErrArgCount {
		t.Fatalf("ReadRequest() = %v, want ErrArgCount", err)
	}
}

func TestResponseRoundTrip_OKWithItems(t *testing.T) {
	resp := Response{Status: StatusOK, Items: []queue.Item{queue.BytesItem([]byte("x"))}}
	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Status != StatusOK || len(got.Items) != 1 || string(got.Items[0].Data) != "x" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundTrip_Absent(t *testing.T) {
	resp := Response{Status: StatusAbsent}
	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Status != StatusAbsent || len(got.Items) != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundTrip_Error(t *testing.T) {
	resp := Response{Status: StatusError, ErrMsg: "boom"}
	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Status != StatusError || got.ErrMsg != "boom" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundTrip_ArgsAndItemsTogether(t *testing.T) {
	resp := Response{Status: StatusOK, Args: []int64{3}, Items: []queue.Item{queue.BytesItem([]byte("y"))}}
	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if len(got.Args) != 1 || got.Args[0] != 3 || len(got.Items) != 1 {
		t.Fatalf("got %+v", got)
	}
}
