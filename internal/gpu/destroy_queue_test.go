// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "testing"

func TestDestroyQueue(t *testing.T) {
	var q DestroyQueue
	var order []int

	q.Defer(1, func() { order = append(order, 1) })
	q.Defer(3, func() { order = append(order, 3) })
	q.Defer(2, func() { order = append(order, 2) })
	q.Defer(5, nil)

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	if n := q.Triage(0); n != 0 {
		t.Errorf("Triage(0) = %d, want 0", n)
	}
	if n := q.Triage(2); n != 2 {
		t.Errorf("Triage(2) = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if n := q.Flush(); n != 1 {
		t.Errorf("Flush = %d, want 1", n)
	}
	if q.Len() != 0 || len(order) != 3 {
		t.Errorf("Len = %d, order = %v", q.Len(), order)
	}
}
