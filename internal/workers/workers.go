// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides a bounded-concurrency task pool for batch
// operations such as bulk thumbnail regeneration.
package workers

import "sync"

// Task is one unit of background work.
type Task func()

// Pool runs queued tasks with at most Size concurrent goroutines. The zero
// value runs tasks one at a time.
type Pool struct {
	// Size is the maximum number of tasks running at once.
	Size int
}

// NewPool constructs a pool with the given concurrency limit.
func NewPool(size int) *Pool {
	return &Pool{Size: size}
}

// Run executes every task and blocks until the last one finishes. Tasks
// are started in slice order but may complete in any order.
func (p *Pool) Run(tasks []Task) {
	size := p.Size
	if size < 1 {
		size = 1
	}

	var wg sync.WaitGroup
	slots := make(chan struct{}, size)

	for _, task := range tasks {
		wg.Add(1)
		slots <- struct{}{}
		go func(task Task) {
			defer wg.Done()
			defer func() { <-slots }()
			task()
		}(task)
	}

	wg.Wait()
}
