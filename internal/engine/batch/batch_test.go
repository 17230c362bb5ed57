package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func alwaysSkip(context.Context, string, error) Decision { return Skip }

func TestSupervisor_Run(t *testing.T) {
	items := []string{"a", "b", "c"}

	t.Run("AllSucceed", func(t *testing.T) {
		var order []string
		work := func(_ context.Context, item string) error {
			order = append(order, item)
			return nil
		}

		report, err := NewSupervisor[string]().Run(context.Background(), items, work, alwaysSkip)
		require.NoError(t, err)
		assert.Equal(t, items, order)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 3, report.Succeeded())
		assert.Equal(t, 0, report.Skipped())
		assert.Equal(t, 3, report.Attempts())
	})

	t.Run("RetryThenSucceed", func(t *testing.T) {
		calls := map[string]int{}
		work := func(_ context.Context, item string) error {
			calls[item]++
			if item == "b" && calls[item] == 1 {
				return errBoom
			}
			return nil
		}
		var decided []error
		decide := func(_ context.Context, item string, err error) Decision {
			assert.Equal(t, "b", item)
			decided = append(decided, err)
			return Retry
		}

		report, err := NewSupervisor[string]().Run(context.Background(), items, work, decide)
		require.NoError(t, err)
		assert.Equal(t, 2, calls["b"])
		assert.Equal(t, 4, report.Attempts())
		assert.Equal(t, 3, report.Succeeded())
		assert.Equal(t, []error{errBoom}, decided)

		b := report.Outcomes[1]
		assert.Equal(t, StateSucceeded, b.State)
		assert.Equal(t, 2, b.Attempts)
		assert.NoError(t, b.Err)
	})

	t.Run("Skip", func(t *testing.T) {
		work := func(_ context.Context, item string) error {
			if item == "b" {
				return errBoom
			}
			return nil
		}
		var skipped []string
		sup := NewSupervisor[string]().WithSkipCallback(func(item string, err error) {
			assert.ErrorIs(t, err, errBoom)
			skipped = append(skipped, item)
		})

		report, err := sup.Run(context.Background(), items, work, alwaysSkip)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, skipped)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 2, report.Succeeded())
		assert.Equal(t, 1, report.Skipped())

		failed := report.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, "b", failed[0].Item)
		assert.ErrorIs(t, failed[0].Err, errBoom)
		assert.Equal(t, StateSucceeded, report.Outcomes[2].State, "processing continues after a skip")
	})

	t.Run("UnboundedRetry", func(t *testing.T) {
		const retries = 100
		attempts := 0
		work := func(context.Context, string) error {
			attempts++
			return errBoom
		}
		prompts := 0
		decide := func(context.Context, string, error) Decision {
			prompts++
			if prompts <= retries {
				return Retry
			}
			return Skip
		}

		report, err := NewSupervisor[string]().Run(context.Background(), []string{"x"}, work, decide)
		require.NoError(t, err)
		assert.Equal(t, retries+1, attempts)
		assert.Equal(t, retries+1, prompts)
		assert.Equal(t, StateFailed, report.Outcomes[0].State)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		work := func(_ context.Context, item string) error {
			if item == "a" {
				cancel()
			}
			return nil
		}

		report, err := NewSupervisor[string]().Run(ctx, items, work, alwaysSkip)
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, report)
		assert.Equal(t, StateSucceeded, report.Outcomes[0].State)
		assert.Equal(t, StatePending, report.Outcomes[1].State)
		assert.Equal(t, StatePending, report.Outcomes[2].State)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		called := false
		work := func(context.Context, string) error {
			called = true
			return nil
		}
		report, err := NewSupervisor[string]().Run(context.Background(), nil, work, alwaysSkip)
		assert.Equal(t, ErrEmptyItems, err)
		assert.Nil(t, report)
		assert.False(t, called)
	})

	t.Run("NilCallback", func(t *testing.T) {
		_, err := NewSupervisor[string]().Run(context.Background(), items, nil, alwaysSkip)
		assert.Equal(t, ErrNilCallback, err)

		work := func(context.Context, string) error { return nil }
		_, err = NewSupervisor[string]().Run(context.Background(), items, work, nil)
		assert.Equal(t, ErrNilCallback, err)
	})
}

func TestSupervisor_Progress(t *testing.T) {
	var snaps []ProgressSnapshot
	sup := NewSupervisor[int]().WithProgressCallback(func(p *Progress) {
		snaps = append(snaps, p.Snapshot())
	})

	first := true
	work := func(_ context.Context, item int) error {
		if item == 1 && first {
			first = false
			return errBoom
		}
		return nil
	}
	decide := func(context.Context, int, error) Decision { return Retry }

	_, err := sup.Run(context.Background(), []int{0, 1}, work, decide)
	require.NoError(t, err)

	require.NotEmpty(t, snaps)
	last := snaps[len(snaps)-1]
	assert.Equal(t, 2, last.TotalItems)
	assert.Equal(t, 2, last.CompletedItems)
	assert.Equal(t, 2, last.SucceededItems)
	assert.Equal(t, 3, last.Attempts)
	assert.Equal(t, 1, last.Current)
	assert.Equal(t, 100.0, last.PercentComplete)
}

func TestProgress(t *testing.T) {
	p := NewProgress(4)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.AddAttempt(0)
	p.Complete(true)
	assert.Equal(t, 25.0, p.PercentComplete())

	p.AddAttempt(1)
	p.Complete(false)
	p.AddAttempt(2)
	p.Complete(true)
	p.AddAttempt(3)
	p.Complete(true)

	assert.True(t, p.IsComplete())
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.GreaterOrEqual(t, p.ElapsedTime(), time.Duration(0))

	snap := p.Snapshot()
	assert.Equal(t, 3, snap.SucceededItems)
	assert.Equal(t, 1, snap.SkippedItems)
	assert.Equal(t, 4, snap.Attempts)
	assert.Equal(t, 3, snap.Current)

	assert.Equal(t, 0.0, NewProgress(0).PercentComplete())
}

func TestDecisionAndStateStrings(t *testing.T) {
	assert.Equal(t, "retry", Retry.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "unknown", Decision(9).String())

	assert.Equal(t, "awaiting_decision", StateAwaitingDecision.String())
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StatePending.Terminal())
	assert.False(t, StateAwaitingDecision.Terminal())
}
