package wizard

import (
	"context"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/logging"
)

// Host supplies the editor's current selection. It is read each time the
// wizard window opens.
type Host interface {
	Selection(ctx context.Context) ([]any, error)
}

// HostFunc adapts a function to Host.
type HostFunc func(ctx context.Context) ([]any, error)

// Selection implements Host.
func (f HostFunc) Selection(ctx context.Context) ([]any, error) { return f(ctx) }

// Factory builds a fresh wizard for each window opening.
type Factory func() *Wizard

// Presenter shows an open wizard to the operator and drives it until the
// window closes. created is false when the operator closed the window
// without running Create.
type Presenter interface {
	Present(ctx context.Context, w *Wizard) (summary engine.Summary, created bool, err error)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, w *Wizard) (engine.Summary, bool, error)

// Present implements Presenter.
func (f PresenterFunc) Present(ctx context.Context, w *Wizard) (engine.Summary, bool, error) {
	return f(ctx, w)
}

// RunSession opens the wizard and keeps re-opening it for as long as the
// operator asks to select again after an empty selection. It returns the
// summary of every Create in order.
func RunSession(ctx context.Context, host Host, factory Factory, presenter Presenter) ([]engine.Summary, error) {
	ctx, _ = logging.WithRunID(ctx)
	log := logging.FromContext(ctx).With().Str("component", "wizard").Logger()

	var summaries []engine.Summary
	for opening := 1; ; opening++ {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		selection, err := host.Selection(ctx)
		if err != nil {
			return summaries, err
		}

		w := factory()
		w.Open(selection)
		log.Info().
			Int("opening", opening).
			Int("targets", len(w.Targets())).
			Msg("wizard opened")

		summary, created, err := presenter.Present(ctx, w)
		if err != nil {
			return summaries, err
		}
		if !created {
			log.Info().Msg("wizard closed")
			return summaries, nil
		}
		summaries = append(summaries, summary)

		if !summary.RestartRequested {
			return summaries, nil
		}
		log.Info().Msg("re-opening wizard for a new selection")
	}
}

// Register adds the wizard command to r. Invoking it runs a full session.
func Register(r *Registry, host Host, factory Factory, presenter Presenter) error {
	return r.Register(CommandName, func(ctx context.Context) error {
		_, err := RunSession(ctx, host, factory, presenter)
		return err
	})
}
