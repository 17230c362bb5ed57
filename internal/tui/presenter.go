package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/wizard"
)

// WatchFunc delivers selection changes until ctx is done.
type WatchFunc func(ctx context.Context, send func(SelectionChangedMsg)) error

// Presenter shows wizards as a full-screen Bubble Tea program. The wizards
// it presents must use Dialogs (and Dialogs.Progress) so their prompts reach
// the program.
type Presenter struct {
	Dialogs *Dialogs
	// Watch, if set, runs alongside the program for live selection updates.
	Watch WatchFunc
	// ProgramOptions are appended to the defaults (context, alt screen).
	ProgramOptions []tea.ProgramOption
}

// Present implements wizard.Presenter.
func (p *Presenter) Present(ctx context.Context, w *wizard.Wizard) (engine.Summary, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewWizardModel(ctx, w)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, p.ProgramOptions...)
	prog := tea.NewProgram(model, opts...)

	done := make(chan struct{})
	p.Dialogs.Attach(prog, done)
	defer p.Dialogs.Attach(nil, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		defer cancel()
		if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running wizard window: %w", err)
		}
		return nil
	})
	if p.Watch != nil {
		g.Go(func() error {
			err := p.Watch(gctx, func(msg SelectionChangedMsg) { prog.Send(msg) })
			if err != nil && !errors.Is(err, context.Canceled) {
				// The window stays usable with the last known selection.
				prog.Send(SelectionChangedMsg{Err: fmt.Errorf("watching selection: %w", err)})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return engine.Summary{}, false, err
	}
	return model.Result()
}
