package batch

// Outcome is the per-item result of a run.
type Outcome[T any] struct {
	Item T

	// State is StateSucceeded or StateFailed once the item was processed.
	State State

	// Attempts counts calls to the work function for this item.
	Attempts int

	// Err is the last failure. It is nil for items that ended in success,
	// even when earlier attempts failed.
	Err error
}

// Report summarises a run.
type Report[T any] struct {
	// Total is the number of items handed to Run.
	Total int

	// Outcomes holds one entry per item, in input order.
	Outcomes []Outcome[T]
}

func newReport[T any](items []T) *Report[T] {
	r := &Report[T]{
		Total:    len(items),
		Outcomes: make([]Outcome[T], len(items)),
	}
	for i, item := range items {
		r.Outcomes[i] = Outcome[T]{Item: item, State: StatePending}
	}
	return r
}

// Succeeded counts items that ended in StateSucceeded.
func (r *Report[T]) Succeeded() int {
	return r.count(StateSucceeded)
}

// Skipped counts items the operator skipped.
func (r *Report[T]) Skipped() int {
	return r.count(StateFailed)
}

// Attempts sums work function calls across all items.
func (r *Report[T]) Attempts() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Attempts
	}
	return n
}

// Failed returns the outcomes of skipped items.
func (r *Report[T]) Failed() []Outcome[T] {
	var failed []Outcome[T]
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r *Report[T]) count(s State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == s {
			n++
		}
	}
	return n
}
