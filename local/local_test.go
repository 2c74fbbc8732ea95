package local

import (
	"sync"
	"testing"
	"time"

	"github.com/everyday-items/hqueue"
	"github.com/everyday-items/hqueue/manager"
)

func strItems(vals ...string) []hqueue.Item {
	out := make([]hqueue.Item, len(vals))
	for i, v := range vals {
		out[i] = hqueue.BytesItem([]byte(v))
	}
	return out
}

func strOf(it hqueue.Item) string { return string(it.Data) }

func TestFactory_Standalone(t *testing.T) {
	f := NewStandaloneFactory()
	q1, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	q2, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q1.ID() == q2.ID() {
		t.Fatalf("two standalone queues from the same factory got the same id: %d", q1.ID())
	}
	if err := q1.Enqueue(strItems("a")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pending, _ := q2.Pending(); pending != 0 {
		t.Fatalf("q2.Pending() = %d, want 0 (standalone queues must not share state)", pending)
	}
}

func TestFactory_Managed_EnqueueDequeueOverWire(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagedFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("1", "2", "3")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pending, err := q.Pending(); err != nil || pending != 3 {
		t.Fatalf("Pending() = %d, %v, want 3", pending, err)
	}

	for _, want := range []string{"1", "2", "3"} {
		items, err := q.Dequeue(1)
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if len(items) != 1 || strOf(items[0]) != want {
			t.Fatalf("Dequeue() = %v, want [%q]", items, want)
		}
	}
}

func TestFactory_Managed_BlockingDequeueWakesOnEnqueue(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagedFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	result := make(chan string, 1)
	go func() {
		items, err := q.Dequeue(1)
		if err != nil {
			t.Errorf("Dequeue: %v", err)
			return
		}
		result <- strOf(items[0])
	}()

	time.Sleep(30 * time.Millisecond)
	select {
	case <-result:
		t.Fatal("Dequeue returned before any Enqueue")
	default:
	}

	if err := q.Enqueue(strItems("woke")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case got := <-result:
		if got != "woke" {
			t.Fatalf("got %q, want %q", got, "woke")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue never woke after Enqueue")
	}
}

func TestFactory_Managed_GatherDivertsEnqueue(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	var mu sync.Mutex
	var gathered []string

	f := NewManagedFactory(d)
	q, err := f.New(hqueue.Config{
		Type:          hqueue.FIFO,
		PriorityOrder: hqueue.HIGHEST,
		Gather: func(item hqueue.Item) {
			mu.Lock()
			gathered = append(gathered, string(item.Data))
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("a", "b")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.EnqueuePriority(5, strItems("c")...); err != nil {
		t.Fatalf("EnqueuePriority: %v", err)
	}

	if pending, err := q.Pending(); err != nil || pending != 0 {
		t.Fatalf("Pending() = %d, %v, want 0 (gather should divert every enqueue)", pending, err)
	}

	mu.Lock()
	got := append([]string(nil), gathered...)
	mu.Unlock()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("gathered = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("gathered = %v, want %v", got, want)
		}
	}
}

func TestFactory_Managed_AwaitAcrossWire(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagedFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST, Await: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("1", "2", "3")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	released := make(chan struct{})
	go func() {
		if err := q.Await(1); err != nil {
			t.Errorf("Await: %v", err)
		}
		close(released)
	}()

	time.Sleep(30 * time.Millisecond)
	select {
	case <-released:
		t.Fatal("Await released before pending dropped to threshold")
	default:
	}

	if _, err := q.Dequeue(1); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if _, err := q.Dequeue(1); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Await never released once pending reached threshold")
	}
}

func TestFactory_ManagerLocal_EnqueueDequeueNoWire(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagerLocalFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("1", "2", "3")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pending, err := q.Pending(); err != nil || pending != 3 {
		t.Fatalf("Pending() = %d, %v, want 3", pending, err)
	}

	snapshot := d.Snapshot()
	stats, ok := snapshot[q.ID()]
	if !ok {
		t.Fatalf("Snapshot() missing queue %d", q.ID())
	}
	if stats.Pending != 3 {
		t.Fatalf("Snapshot().Pending = %d, want 3", stats.Pending)
	}

	for _, want := range []string{"1", "2", "3"} {
		items, err := q.Dequeue(1)
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if len(items) != 1 || strOf(items[0]) != want {
			t.Fatalf("Dequeue() = %v, want [%q]", items, want)
		}
	}
}

func TestFactory_ManagerLocal_BlockingDequeueWakesOnEnqueue(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagerLocalFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	result := make(chan string, 1)
	go func() {
		items, err := q.Dequeue(1)
		if err != nil {
			t.Errorf("Dequeue: %v", err)
			return
		}
		result <- strOf(items[0])
	}()

	time.Sleep(30 * time.Millisecond)
	select {
	case <-result:
		t.Fatal("Dequeue returned before any Enqueue")
	default:
	}

	if err := q.Enqueue(strItems("woke")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case got := <-result:
		if got != "woke" {
			t.Fatalf("got %q, want %q", got, "woke")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue never woke after Enqueue")
	}
}

func TestFactory_ManagerLocal_GatherAtConstruction(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	var mu sync.Mutex
	var gathered []string

	f := NewManagerLocalFactory(d)
	q, err := f.New(hqueue.Config{
		Type:          hqueue.FIFO,
		PriorityOrder: hqueue.HIGHEST,
		Gather: func(item hqueue.Item) {
			mu.Lock()
			gathered = append(gathered, string(item.Data))
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("x", "y")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pending, err := q.Pending(); err != nil || pending != 0 {
		t.Fatalf("Pending() = %d, %v, want 0 (gather should divert every enqueue)", pending, err)
	}

	mu.Lock()
	got := append([]string(nil), gathered...)
	mu.Unlock()
	want := []string{"x", "y"}
	if len(got) != len(want) {
		t.Fatalf("gathered = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("gathered = %v, want %v", got, want)
		}
	}
}

func TestFactory_ManagerLocal_ClearRejectedUnderFastMode(t *testing.T) {
	d, err := manager.New(1, nil)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	defer d.Close()

	f := NewManagerLocalFactory(d)
	q, err := f.New(hqueue.Config{Type: hqueue.FIFO, PriorityOrder: hqueue.HIGHEST, Fast: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(strItems("a")...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Clear(); err != hqueue.ErrModeViolation {
		t.Fatalf("Clear() under fast mode = %v, want %v", err, hqueue.ErrModeViolation)
	}
}
