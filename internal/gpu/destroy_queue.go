// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "sync"

// DestroyQueue defers resource release until the GPU has finished every
// submission that may still reference the resource.
//
// Entries are keyed by the submission index that was current when the
// resource was retired. Triage releases entries whose index is at or below
// the completed index reported by the queue.
type DestroyQueue struct {
	mu      sync.Mutex
	pending []deferredRelease
}

type deferredRelease struct {
	index   uint64
	release func()
}

// Defer schedules release to run once submission index has completed.
// Index 0 means no submission references the resource.
func (q *DestroyQueue) Defer(index uint64, release func()) {
	if release == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, deferredRelease{index: index, release: release})
	q.mu.Unlock()
}

// Triage runs every release whose submission index is <= completed and
// returns how many ran. Releases run in the order they were deferred.
func (q *DestroyQueue) Triage(completed uint64) int {
	q.mu.Lock()
	var ready []deferredRelease
	kept := q.pending[:0]
	for _, d := range q.pending {
		if d.index <= completed {
			ready = append(ready, d)
		} else {
			kept = append(kept, d)
		}
	}
	clear(q.pending[len(kept):])
	q.pending = kept
	q.mu.Unlock()

	for _, d := range ready {
		d.release()
	}
	return len(ready)
}

// Flush runs every pending release regardless of GPU progress. Callers must
// have waited for the device to go idle.
func (q *DestroyQueue) Flush() int {
	q.mu.Lock()
	all := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, d := range all {
		d.release()
	}
	return len(all)
}

// Len returns the number of pending releases.
func (q *DestroyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
