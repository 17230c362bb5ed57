package batch

import (
	"context"
	"errors"
)

// Common supervisor errors.
var (
	ErrNilCallback = errors.New("batch callback cannot be nil")
	ErrEmptyItems  = errors.New("items slice cannot be empty")
)

// Decision is the operator's answer to a failed item.
type Decision int

const (
	// Retry runs the work function again on the same item.
	Retry Decision = iota
	// Skip gives up on the item and advances to the next one.
	Skip
)

// String returns the lower-case decision name.
func (d Decision) String() string {
	switch d {
	case Retry:
		return "retry"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of one item.
type State int

const (
	// StatePending means the item is waiting for (another) attempt.
	StatePending State = iota
	// StateAwaitingDecision means an attempt failed and the operator is being asked.
	StateAwaitingDecision
	// StateSucceeded is terminal: the last attempt succeeded.
	StateSucceeded
	// StateFailed is terminal: the operator chose to skip the item.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// WorkFunc processes a single item.
type WorkFunc[T any] func(ctx context.Context, item T) error

// DecideFunc is consulted synchronously when WorkFunc fails. Processing is
// suspended until it returns.
type DecideFunc[T any] func(ctx context.Context, item T, err error) Decision

// SkipCallback is notified after an item is skipped.
type SkipCallback[T any] func(item T, err error)

// ProgressCallback is invoked after every attempt and every completed item.
type ProgressCallback func(progress *Progress)

// Supervisor runs work over a list of items, one at a time.
type Supervisor[T any] struct {
	onProgress ProgressCallback
	onSkip     SkipCallback[T]
}

// NewSupervisor creates a supervisor with no callbacks.
func NewSupervisor[T any]() *Supervisor[T] {
	return &Supervisor[T]{}
}

// WithProgressCallback sets a progress callback for the supervisor.
func (s *Supervisor[T]) WithProgressCallback(callback ProgressCallback) *Supervisor[T] {
	s.onProgress = callback
	return s
}

// WithSkipCallback sets a callback invoked whenever an item is skipped.
func (s *Supervisor[T]) WithSkipCallback(callback SkipCallback[T]) *Supervisor[T] {
	s.onSkip = callback
	return s
}

// Run processes items in order.
//
// An empty item list returns ErrEmptyItems without calling work. When ctx is
// cancelled, Run stops before the next attempt and returns the partial
// report together with ctx.Err(); items not yet finished stay Pending.
func (s *Supervisor[T]) Run(
	ctx context.Context,
	items []T,
	work WorkFunc[T],
	decide DecideFunc[T],
) (*Report[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	if work == nil || decide == nil {
		return nil, ErrNilCallback
	}

	report := newReport(items)
	progress := NewProgress(len(items))

	for i := range report.Outcomes {
		if err := s.runItem(ctx, &report.Outcomes[i], progress, i, work, decide); err != nil {
			return report, err
		}
	}

	return report, nil
}

// runItem drives one item to a terminal state.
func (s *Supervisor[T]) runItem(
	ctx context.Context,
	out *Outcome[T],
	progress *Progress,
	index int,
	work WorkFunc[T],
	decide DecideFunc[T],
) error {
	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			out.State = StatePending
			return ctx.Err()
		default:
		}

		out.Attempts++
		progress.AddAttempt(index)
		s.notify(progress)

		err := work(ctx, out.Item)
		if err == nil {
			out.State = StateSucceeded
			out.Err = nil
			progress.Complete(true)
			s.notify(progress)
			return nil
		}

		out.State = StateAwaitingDecision
		out.Err = err

		if decide(ctx, out.Item, err) == Retry {
			out.State = StatePending
			continue
		}

		out.State = StateFailed
		progress.Complete(false)
		if s.onSkip != nil {
			s.onSkip(out.Item, err)
		}
		s.notify(progress)
		return nil
	}
}

func (s *Supervisor[T]) notify(progress *Progress) {
	if s.onProgress != nil {
		s.onProgress(progress)
	}
}
