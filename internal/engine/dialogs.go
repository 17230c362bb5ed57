package engine

import (
	"context"

	"github.com/rshade/uvwizard/internal/logging"
)

// UnattendedDialogs answers every prompt without an operator: failures are
// skipped and an empty selection cancels. It never answers Retry, since an
// automatic retry of a deterministic failure would never end.
type UnattendedDialogs struct{}

// NoSelection implements Dialogs.
func (UnattendedDialogs) NoSelection(ctx context.Context) SessionChoice {
	logging.FromContext(ctx).Warn().
		Str("component", "dialogs").
		Msg("The operation failed because no mesh selection was found.")
	return Cancel
}

// UnwrapFailed implements Dialogs.
func (UnattendedDialogs) UnwrapFailed(ctx context.Context, h MeshHandle, err error) Decision {
	logging.FromContext(ctx).Warn().
		Str("component", "dialogs").
		Str("item", h.Name).
		Err(err).
		Msg("unattended run, skipping failed item")
	return Skip
}

// Completed implements Dialogs.
func (UnattendedDialogs) Completed(ctx context.Context, s Summary) {
	logging.FromContext(ctx).Info().
		Str("component", "dialogs").
		Int("reported", s.Reported).
		Int("skipped", s.Skipped).
		Msg("UV mapping process(es) completed")
}
