package utils

import (
	"sync"
)

// WorkerPool runs jobs on a bounded number of goroutines.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool running at most maxWorkers jobs at once.
// Values below 1 are treated as 1.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// Size returns the concurrency limit of the pool.
func (wp *WorkerPool) Size() int {
	return wp.maxWorkers
}

// Submit enqueues a job for execution in the pool. It blocks while all
// workers are busy.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// ForEachIndex runs fn(i) for every i in [0, n) on the pool and waits for
// all of them. Callers write results into slot i, so output order never
// depends on completion order.
func (wp *WorkerPool) ForEachIndex(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		idx := i
		wp.Submit(func() { fn(idx) })
	}
	wp.Wait()
}

// URLSet is a thread-safe set of strings that remembers insertion order.
type URLSet struct {
	mu    sync.RWMutex
	seen  map[string]struct{}
	order []string
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Contains returns true if the URL has already been added.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Values returns the tracked URLs in first-seen order.
func (s *URLSet) Values() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
