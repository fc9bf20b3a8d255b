// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_Run_AllTasksAreCalled(t *testing.T) {
	var count atomic.Int64

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = func() { count.Add(1) }
	}

	NewPool(3).Run(tasks)

	if count.Load() != 10 {
		t.Errorf("expected 10 tasks run, got %d", count.Load())
	}
}

func TestPool_Run_Empty(t *testing.T) {
	// Should not panic or block on an empty task list
	NewPool(4).Run(nil)
	NewPool(4).Run([]Task{})
}

func TestPool_Run_ZeroSizeRunsSequentially(t *testing.T) {
	order := []int{}
	var mu sync.Mutex

	tasks := make([]Task, 5)
	for i := range tasks {
		i := i
		tasks[i] = func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}
	}

	// Zero value caps concurrency at one; start order is slice order.
	(&Pool{}).Run(tasks)

	if len(order) != len(tasks) {
		t.Fatalf("expected %d tasks run, got %d", len(tasks), len(order))
	}
	for i, v := range order {
		if v != i {
			t.Errorf("expected order[%d]=%d, got %d", i, i, v)
		}
	}
}

func TestPool_Run_BoundedConcurrency(t *testing.T) {
	const limit = 2

	var current, peak atomic.Int64

	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func() {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			current.Add(-1)
		}
	}

	NewPool(limit).Run(tasks)

	if peak.Load() > limit {
		t.Errorf("expected at most %d concurrent tasks, saw %d", limit, peak.Load())
	}
}

func TestPool_Run_MultipleRuns(t *testing.T) {
	var count atomic.Int64
	task := Task(func() { count.Add(1) })

	p := NewPool(1)
	p.Run([]Task{task})
	p.Run([]Task{task})
	p.Run([]Task{task})

	if count.Load() != 3 {
		t.Errorf("expected count=3 after 3 runs, got %d", count.Load())
	}
}
