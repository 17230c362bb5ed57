package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/logging"
	"github.com/rshade/uvwizard/internal/scene"
	"github.com/rshade/uvwizard/internal/unwrap"
)

// Default window labels.
const (
	DefaultTitle        = "UV Map Creation Wizard"
	DefaultCreateButton = "Create UV Map"
)

// ErrNoDialogs is returned by Create when the wizard has no dialogs to ask
// the operator with.
var ErrNoDialogs = errors.New("wizard has no dialogs")

// Options configures a Wizard.
type Options struct {
	Title        string
	CreateButton string

	// Unwrap is run for every item of the worklist.
	Unwrap engine.UnwrapFunc
	// Dialogs answers every operator prompt during Create.
	Dialogs engine.Dialogs
	// Progress, if set, is called as items are processed.
	Progress batch.ProgressCallback
}

// Wizard is one open wizard window. The worklist is rebuilt from scratch
// whenever the selection changes; Create works on a snapshot of it.
type Wizard struct {
	opts Options

	mu      sync.RWMutex
	targets []engine.MeshHandle
	opened  bool
}

// New builds a closed wizard.
func New(opts Options) *Wizard {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.CreateButton == "" {
		opts.CreateButton = DefaultCreateButton
	}
	return &Wizard{opts: opts}
}

// Title is the window title.
func (w *Wizard) Title() string { return w.opts.Title }

// CreateButton is the label of the create action.
func (w *Wizard) CreateButton() string { return w.opts.CreateButton }

// Open shows the window and resolves the current selection.
func (w *Wizard) Open(selection []any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opened = true
	w.targets = engine.Resolve(selection)
}

// IsOpen reports whether Open has been called.
func (w *Wizard) IsOpen() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opened
}

// OnSelectionChange discards the worklist and resolves the new selection.
func (w *Wizard) OnSelectionChange(selection []any) {
	handles := engine.Resolve(selection)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets = handles
}

// Targets returns a copy of the current worklist.
func (w *Wizard) Targets() []engine.MeshHandle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]engine.MeshHandle(nil), w.targets...)
}

// Create runs the batch over the current worklist. Selection changes that
// arrive while it runs only affect the next Create.
func (w *Wizard) Create(ctx context.Context) (engine.Summary, error) {
	return w.CreateFor(ctx, w.Targets())
}

// CreateFor runs the batch over targets, a worklist snapshot previously
// taken with Targets.
func (w *Wizard) CreateFor(ctx context.Context, targets []engine.MeshHandle) (engine.Summary, error) {
	if w.opts.Dialogs == nil {
		return engine.Summary{}, ErrNoDialogs
	}

	logging.FromContext(ctx).Info().
		Str("component", "wizard").
		Int("targets", len(targets)).
		Msg(w.opts.CreateButton)

	unwrapFn := w.opts.Unwrap
	if unwrapFn == nil {
		unwrapFn = func(context.Context, engine.MeshHandle) error { return unwrap.ErrNoCommand }
	}

	return engine.NewProcessor(unwrapFn, w.opts.Dialogs).
		WithProgressCallback(w.opts.Progress).
		Run(ctx, targets)
}

// UnwrapWith adapts an Unwrapper and its parameters to the per-item call the
// batch processor makes.
func UnwrapWith(u unwrap.Unwrapper, params unwrap.Params) engine.UnwrapFunc {
	return func(ctx context.Context, h engine.MeshHandle) error {
		return u.Unwrap(ctx, h.Mesh, params)
	}
}

// SceneHost serves the selection from a loaded scene. Names that do not
// exist in the scene become nil entries, and are reported through OnMissing.
type SceneHost struct {
	Scene *scene.Scene
	// Names returns the selected object names. A nil Names selects nothing.
	Names func(ctx context.Context) ([]string, error)
	// OnMissing, if set, is called when some names are unknown.
	OnMissing func(*scene.SelectionWarning)
}

// Selection implements Host.
func (h SceneHost) Selection(ctx context.Context) ([]any, error) {
	if h.Names == nil {
		return nil, nil
	}
	names, err := h.Names(ctx)
	if err != nil {
		return nil, err
	}
	selected, warning := h.Scene.Select(names)
	if warning != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "wizard").
			Err(warning).
			Msg("selection contains unknown objects")
		if h.OnMissing != nil {
			h.OnMissing(warning)
		}
	}
	return selected, nil
}
