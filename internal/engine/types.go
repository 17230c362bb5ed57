package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/scene"
)

// ErrNoSelectionFound is reported when a run starts with an empty worklist.
var ErrNoSelectionFound = errors.New("no mesh selection was found")

// MeshHandle references one mesh to unwrap. It never owns the mesh.
type MeshHandle struct {
	// Name is the display name of the selected object.
	Name string
	Mesh *scene.Mesh
}

// Decision is the operator's answer to a failed unwrap.
type Decision = batch.Decision

// Decisions offered when an unwrap fails.
const (
	Retry = batch.Retry
	Skip  = batch.Skip
)

// SessionChoice is the operator's answer when nothing is selected.
type SessionChoice int

const (
	// Cancel abandons the run with no side effect.
	Cancel SessionChoice = iota
	// RestartSession re-opens the wizard from the current selection.
	RestartSession
)

// String returns the choice name.
func (c SessionChoice) String() string {
	if c == RestartSession {
		return "restart"
	}
	return "cancel"
}

// UnwrapError is the failure of the external unwrap operation for one item.
type UnwrapError struct {
	Item    string
	Message string
	Err     error
}

func (e *UnwrapError) Error() string {
	return fmt.Sprintf("unwrap of %q failed: %s", e.Item, e.Message)
}

func (e *UnwrapError) Unwrap() error { return e.Err }

// UnwrapFunc applies the external transform to one mesh.
type UnwrapFunc func(ctx context.Context, h MeshHandle) error

// Dialogs are the operator prompts of a run. Each call blocks until the
// operator answers.
type Dialogs interface {
	// NoSelection is shown when the worklist is empty.
	NoSelection(ctx context.Context) SessionChoice

	// UnwrapFailed is shown for every failed attempt. err is an *UnwrapError.
	UnwrapFailed(ctx context.Context, h MeshHandle, err error) Decision

	// Completed is shown once, after the whole worklist was processed.
	Completed(ctx context.Context, s Summary)
}

// Summary is the aggregate result of a run.
type Summary struct {
	// Reported is the worklist size at the start of the run. It is what the
	// completion notice claims as created, skipped items included.
	Reported int

	// Succeeded and Skipped are the actual outcomes.
	Succeeded int
	Skipped   int

	// Attempts counts unwrap invocations, retries included.
	Attempts int

	// Failures lists skipped items with their last error.
	Failures []*UnwrapError

	// NoSelection is set when the run found nothing to do.
	NoSelection bool

	// RestartRequested is set when the operator asked to restart the session
	// from the no-selection prompt.
	RestartRequested bool

	// Cancelled is set when the run was interrupted by context cancellation.
	Cancelled bool
}
