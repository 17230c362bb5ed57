package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/logging"
)

// Processor runs unwrap batches.
type Processor struct {
	unwrap     UnwrapFunc
	dialogs    Dialogs
	onProgress batch.ProgressCallback
}

// NewProcessor creates a processor using unwrap for every item and dialogs
// for every operator decision.
func NewProcessor(unwrap UnwrapFunc, dialogs Dialogs) *Processor {
	return &Processor{unwrap: unwrap, dialogs: dialogs}
}

// WithProgressCallback sets a callback invoked as items are processed.
func (p *Processor) WithProgressCallback(cb batch.ProgressCallback) *Processor {
	p.onProgress = cb
	return p
}

// Run processes the worklist in order.
//
// An empty worklist never calls unwrap: the operator is shown the
// no-selection prompt and the returned Summary carries their choice. A failed
// item is retried for as long as the operator chooses Retry. Once every item
// is done the completion notice is shown exactly once.
//
// The only error returned is context cancellation; unwrap failures are
// handled through the dialogs and reported in the Summary.
func (p *Processor) Run(ctx context.Context, worklist []MeshHandle) (Summary, error) {
	log := logging.FromContext(ctx).With().Str("component", "engine").Logger()

	if len(worklist) == 0 {
		log.Warn().Err(ErrNoSelectionFound).Msg("nothing to unwrap")
		choice := p.dialogs.NoSelection(ctx)
		log.Debug().Stringer("choice", choice).Msg("no-selection prompt answered")
		return Summary{
			NoSelection:      true,
			RestartRequested: choice == RestartSession,
		}, nil
	}

	log.Info().Int("items", len(worklist)).Msg("starting UV unwrap batch")

	sup := batch.NewSupervisor[MeshHandle]().
		WithProgressCallback(p.onProgress).
		WithSkipCallback(func(h MeshHandle, err error) {
			log.Warn().Str("item", h.Name).Err(err).Msg(h.Name + " object UV map creation skipped!")
		})

	report, err := sup.Run(ctx, worklist, p.work(log), p.decide(log))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return Summary{}, err
	}

	summary := summarize(report)
	if err != nil {
		summary.Cancelled = true
		log.Warn().Err(err).Int("succeeded", summary.Succeeded).Msg("UV unwrap batch interrupted")
		return summary, err
	}

	log.Info().
		Int("reported", summary.Reported).
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("attempts", summary.Attempts).
		Msg("UV unwrap batch completed")

	p.dialogs.Completed(ctx, summary)
	return summary, nil
}

func (p *Processor) work(log zerolog.Logger) batch.WorkFunc[MeshHandle] {
	return func(ctx context.Context, h MeshHandle) error {
		err := p.unwrap(ctx, h)
		if err == nil {
			log.Debug().Str("item", h.Name).Msg("UV map created")
			return nil
		}
		var ue *UnwrapError
		if errors.As(err, &ue) {
			return ue
		}
		return &UnwrapError{Item: h.Name, Message: err.Error(), Err: err}
	}
}

func (p *Processor) decide(log zerolog.Logger) batch.DecideFunc[MeshHandle] {
	return func(ctx context.Context, h MeshHandle, err error) Decision {
		log.Error().Str("item", h.Name).Err(err).Msg("UV map creation failed")
		d := p.dialogs.UnwrapFailed(ctx, h, err)
		log.Debug().Str("item", h.Name).Stringer("decision", d).Msg("failure prompt answered")
		return d
	}
}

func summarize(report *batch.Report[MeshHandle]) Summary {
	s := Summary{
		Reported:  report.Total,
		Succeeded: report.Succeeded(),
		Skipped:   report.Skipped(),
		Attempts:  report.Attempts(),
	}
	for _, o := range report.Failed() {
		var ue *UnwrapError
		if errors.As(o.Err, &ue) {
			s.Failures = append(s.Failures, ue)
		}
	}
	return s
}

// Run is a convenience wrapper around NewProcessor(unwrap, dialogs).Run.
func Run(ctx context.Context, worklist []MeshHandle, unwrap UnwrapFunc, dialogs Dialogs) (Summary, error) {
	return NewProcessor(unwrap, dialogs).Run(ctx, worklist)
}
