package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks a supervisor run. It is safe to read from another
// goroutine while the run is in progress, which is how the TUI renders it.
type Progress struct {
	// TotalItems is the number of items in the run.
	TotalItems int

	// CompletedItems counts items that reached a terminal state.
	CompletedItems int

	// SucceededItems and SkippedItems split CompletedItems.
	SucceededItems int
	SkippedItems   int

	// Attempts counts work function calls, retries included.
	Attempts int

	// Current is the index of the item being worked on.
	Current int

	// StartTime is when processing started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	// mu protects concurrent access to progress fields.
	mu sync.RWMutex
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddAttempt records the start of an attempt on the item at index.
func (p *Progress) AddAttempt(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Attempts++
	p.Current = index
	p.LastUpdateTime = time.Now()
}

// Complete records that the current item reached a terminal state.
func (p *Progress) Complete(succeeded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.CompletedItems++
	if succeeded {
		p.SucceededItems++
	} else {
		p.SkippedItems++
	}
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.percentCompleteUnsafe()
}

// IsComplete returns true if all items have reached a terminal state.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.CompletedItems >= p.TotalItems
}

// ElapsedTime returns the time elapsed since processing started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.StartTime)
}

// Snapshot returns a thread-safe copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalItems:      p.TotalItems,
		CompletedItems:  p.CompletedItems,
		SucceededItems:  p.SucceededItems,
		SkippedItems:    p.SkippedItems,
		Attempts:        p.Attempts,
		Current:         p.Current,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems      int
	CompletedItems  int
	SucceededItems  int
	SkippedItems    int
	Attempts        int
	Current         int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
}

// percentCompleteUnsafe calculates percent complete without locking.
// Should only be called when already holding the lock.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.CompletedItems) / float64(p.TotalItems)) * percentMultiplier
}
