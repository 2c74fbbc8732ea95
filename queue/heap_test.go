package queue

import "testing"

func TestPriorityHeap_InsertSplicesWithinLevel(t *testing.T) {
	c := NewCore(FIFO, HIGHEST)
	c.EnqueuePriority(5, items("1", "2", "3")...)
	c.InsertPriority(5, 1, items("x")...)
	got := []string{}
	for {
		v, ok := c.DequeuePriority(5)
		if !ok {
			break
		}
		got = append(got, string(v.Data))
	}
	assertSlice(t, got, []string{"1", "x", "2", "3"})
}

func TestPriorityHeap_PeekPriorityWithinLevel(t *testing.T) {
	c := NewCore(FIFO, HIGHEST)
	c.EnqueuePriority(5, items("a", "b", "c")...)
	v, ok := c.PeekPriority(5, 1)
	if !ok || string(v.Data) != "b" {
		t.Errorf("PeekPriority(5,1) = (%q, %v), want (\"b\", true)", v.Data, ok)
	}
	if _, ok := c.PeekPriority(5, 10); ok {
		t.Error("PeekPriority with an out-of-range index should be absent")
	}
	if _, ok := c.PeekPriority(999, 0); ok {
		t.Error("PeekPriority on a nonexistent level should be absent")
	}
}

func TestPriorityHeap_DequeuePrioritySkipsOtherLevels(t *testing.T) {
	c := NewCore(FIFO, HIGHEST)
	c.EnqueuePriority(1, items("low")...)
	c.EnqueuePriority(9, items("high")...)
	v, ok := c.DequeuePriority(1)
	if !ok || string(v.Data) != "low" {
		t.Errorf("DequeuePriority(1) = (%q, %v), want (\"low\", true)", v.Data, ok)
	}
	// level 9 must still be intact
	v, _, ok = c.PeekHeap()
	if !ok || string(v.Data) != "high" {
		t.Errorf("PeekHeap() after draining level 1 = (%q, %v), want (\"high\", true)", v.Data, ok)
	}
}
