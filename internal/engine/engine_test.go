package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/scene"
)

// fakeDialogs records every prompt and answers from scripted queues.
type fakeDialogs struct {
	sessionChoice SessionChoice
	decisions     []Decision

	noSelectionCalls int
	failures         []string
	failureErrs      []error
	completed        []Summary
}

func (f *fakeDialogs) NoSelection(context.Context) SessionChoice {
	f.noSelectionCalls++
	return f.sessionChoice
}

func (f *fakeDialogs) UnwrapFailed(_ context.Context, h MeshHandle, err error) Decision {
	f.failures = append(f.failures, h.Name)
	f.failureErrs = append(f.failureErrs, err)
	if len(f.decisions) == 0 {
		return Skip
	}
	d := f.decisions[0]
	f.decisions = f.decisions[1:]
	return d
}

func (f *fakeDialogs) Completed(_ context.Context, s Summary) {
	f.completed = append(f.completed, s)
}

func meshObject(name string) *scene.Object {
	return &scene.Object{
		Name: name,
		Components: []scene.Component{
			scene.Generic{Type: "transform"},
			scene.MeshFilter{Mesh: &scene.Mesh{Name: name + "Mesh", Path: "/meshes/" + name + ".obj"}},
		},
	}
}

func worklist(names ...string) []MeshHandle {
	handles := make([]MeshHandle, len(names))
	for i, n := range names {
		handles[i] = MeshHandle{Name: n, Mesh: &scene.Mesh{Name: n}}
	}
	return handles
}

// bareProvider implements scene.MeshProvider without a display name.
type bareProvider struct{ mesh *scene.Mesh }

func (b bareProvider) TryGetMesh() (*scene.Mesh, bool) { return b.mesh, b.mesh != nil }

func TestResolve(t *testing.T) {
	var nilObject *scene.Object
	light := &scene.Object{Name: "Sun", Components: []scene.Component{scene.Generic{Type: "light"}}}
	emptyFilter := &scene.Object{Name: "Empty", Components: []scene.Component{scene.MeshFilter{}}}

	selected := []any{
		nil,
		meshObject("Cube"),
		"not an object",
		light,
		nilObject,
		meshObject("Rock"),
		nil,
		emptyFilter,
		42,
		bareProvider{mesh: &scene.Mesh{Name: "Loose"}},
		bareProvider{},
		meshObject("Tree"),
	}

	handles := Resolve(selected)

	names := make([]string, len(handles))
	for i, h := range handles {
		names[i] = h.Name
		require.NotNil(t, h.Mesh)
	}
	assert.Equal(t, []string{"Cube", "Rock", "Loose", "Tree"}, names)
	assert.Equal(t, "RockMesh", handles[1].Mesh.Name)

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Resolve(nil))
		assert.Empty(t, Resolve([]any{}))
		assert.Empty(t, Resolve([]any{nil, nil}))
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, Resolve(selected), Resolve(selected))
	})
}

func TestResolve_Duplicates(t *testing.T) {
	cube := meshObject("Cube")
	rock := meshObject("Rock")

	handles := Resolve([]any{cube, rock, cube, nil, rock})
	require.Len(t, handles, 2)
	assert.Equal(t, "Cube", handles[0].Name)
	assert.Equal(t, "Rock", handles[1].Name)

	t.Run("same name on distinct objects is kept", func(t *testing.T) {
		handles := Resolve([]any{meshObject("Cube"), meshObject("Cube")})
		assert.Len(t, handles, 2)
	})

	t.Run("repeated object is unwrapped once", func(t *testing.T) {
		calls := 0
		unwrap := func(context.Context, MeshHandle) error {
			calls++
			return nil
		}

		summary, err := Run(context.Background(), Resolve([]any{cube, cube}), unwrap, &fakeDialogs{})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, summary.Reported)
	})
}

func TestResolve_Counts(t *testing.T) {
	tests := []struct {
		nulls, nonQualifying, qualifying int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 2, 0},
		{0, 0, 5},
		{2, 3, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("N%d_M%d_K%d", tt.nulls, tt.nonQualifying, tt.qualifying), func(t *testing.T) {
			var selected []any
			var want []string
			// Interleave so order preservation is exercised.
			for i := 0; i < max(tt.nulls, tt.nonQualifying, tt.qualifying); i++ {
				if i < tt.nulls {
					selected = append(selected, nil)
				}
				if i < tt.qualifying {
					name := fmt.Sprintf("Mesh%d", i)
					selected = append(selected, meshObject(name))
					want = append(want, name)
				}
				if i < tt.nonQualifying {
					selected = append(selected, &scene.Object{Name: fmt.Sprintf("Light%d", i)})
				}
			}

			handles := Resolve(selected)
			require.Len(t, handles, tt.qualifying)
			for i, h := range handles {
				assert.Equal(t, want[i], h.Name)
			}
		})
	}
}

func TestRun_EmptyWorklist(t *testing.T) {
	for _, choice := range []SessionChoice{Cancel, RestartSession} {
		t.Run(choice.String(), func(t *testing.T) {
			called := false
			unwrap := func(context.Context, MeshHandle) error {
				called = true
				return nil
			}
			dialogs := &fakeDialogs{sessionChoice: choice}

			summary, err := Run(context.Background(), nil, unwrap, dialogs)
			require.NoError(t, err)
			assert.False(t, called, "unwrap must not run on an empty worklist")
			assert.Equal(t, 1, dialogs.noSelectionCalls)
			assert.Empty(t, dialogs.completed, "no completion notice without work")
			assert.True(t, summary.NoSelection)
			assert.Equal(t, choice == RestartSession, summary.RestartRequested)
			assert.Equal(t, 0, summary.Reported)
		})
	}
}

func TestRun_AllSucceed(t *testing.T) {
	var order []string
	unwrap := func(_ context.Context, h MeshHandle) error {
		order = append(order, h.Name)
		return nil
	}
	dialogs := &fakeDialogs{}

	summary, err := Run(context.Background(), worklist("a", "b", "c"), unwrap, dialogs)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Empty(t, dialogs.failures)
	require.Len(t, dialogs.completed, 1)
	assert.Equal(t, summary, dialogs.completed[0])
	assert.Equal(t, 3, summary.Reported)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 3, summary.Attempts)
}

func TestRun_RetryThenSucceed(t *testing.T) {
	calls := map[string]int{}
	total := 0
	unwrap := func(_ context.Context, h MeshHandle) error {
		calls[h.Name]++
		total++
		if h.Name == "b" && calls[h.Name] == 1 {
			return errors.New("degenerate triangles")
		}
		return nil
	}
	dialogs := &fakeDialogs{decisions: []Decision{Retry}}

	summary, err := Run(context.Background(), worklist("a", "b", "c"), unwrap, dialogs)
	require.NoError(t, err)

	assert.Equal(t, 4, total)
	assert.Equal(t, 2, calls["b"])
	assert.Equal(t, []string{"b"}, dialogs.failures)
	assert.Equal(t, 3, summary.Reported)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 4, summary.Attempts)

	var ue *UnwrapError
	require.ErrorAs(t, dialogs.failureErrs[0], &ue)
	assert.Equal(t, "b", ue.Item)
	assert.Equal(t, "degenerate triangles", ue.Message)
}

func TestRun_SkipKeepsReportedCount(t *testing.T) {
	cause := errors.New("non-manifold edges")
	unwrap := func(_ context.Context, h MeshHandle) error {
		if h.Name == "b" {
			return cause
		}
		return nil
	}
	dialogs := &fakeDialogs{decisions: []Decision{Skip}}

	summary, err := Run(context.Background(), worklist("a", "b", "c"), unwrap, dialogs)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Reported, "reported count is the pre-run worklist size")
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "b", summary.Failures[0].Item)
	assert.ErrorIs(t, summary.Failures[0], cause)
	require.Len(t, dialogs.completed, 1)
	assert.Contains(t, CompletionMessage(dialogs.completed[0]), "'3' mesh(es) were created")
}

func TestRun_UnboundedRetry(t *testing.T) {
	const retries = 100
	attempts := 0
	unwrap := func(context.Context, MeshHandle) error {
		attempts++
		if attempts <= retries {
			return errors.New("still broken")
		}
		return nil
	}
	decisions := make([]Decision, retries)
	for i := range decisions {
		decisions[i] = Retry
	}
	dialogs := &fakeDialogs{decisions: decisions}

	summary, err := Run(context.Background(), worklist("stubborn"), unwrap, dialogs)
	require.NoError(t, err)
	assert.Equal(t, retries+1, attempts)
	assert.Len(t, dialogs.failures, retries, "operator is prompted after every failure")
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
}

func TestRun_PreservesUnwrapError(t *testing.T) {
	original := &UnwrapError{Item: "custom", Message: "from host"}
	unwrap := func(context.Context, MeshHandle) error { return original }
	dialogs := &fakeDialogs{}

	_, err := Run(context.Background(), worklist("a"), unwrap, dialogs)
	require.NoError(t, err)
	require.Len(t, dialogs.failureErrs, 1)
	assert.Same(t, original, dialogs.failureErrs[0])
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unwrap := func(_ context.Context, h MeshHandle) error {
		if h.Name == "a" {
			cancel()
		}
		return nil
	}
	dialogs := &fakeDialogs{}

	summary, err := Run(ctx, worklist("a", "b"), unwrap, dialogs)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Cancelled)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Empty(t, dialogs.completed)
}

func TestProcessor_Progress(t *testing.T) {
	var snaps []batch.ProgressSnapshot
	p := NewProcessor(func(context.Context, MeshHandle) error { return nil }, &fakeDialogs{}).
		WithProgressCallback(func(pr *batch.Progress) {
			snaps = append(snaps, pr.Snapshot())
		})

	_, err := p.Run(context.Background(), worklist("a", "b"))
	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	assert.Equal(t, 100.0, snaps[len(snaps)-1].PercentComplete)
}

func TestUnattendedDialogs(t *testing.T) {
	d := UnattendedDialogs{}
	ctx := context.Background()
	assert.Equal(t, Cancel, d.NoSelection(ctx))
	assert.Equal(t, Skip, d.UnwrapFailed(ctx, MeshHandle{Name: "x"}, errors.New("e")))
	d.Completed(ctx, Summary{Reported: 1})
}

func TestMessages(t *testing.T) {
	msg := FailureMessage(MeshHandle{Name: "Cube"}, errors.New("bad normals"))
	assert.Contains(t, msg, "Details of the error: bad normals")
	assert.Contains(t, msg, "error caught in the Cube object")

	assert.Equal(t,
		"UV mapping process(es) completed successfully.\nUV map(s) of '1,200' mesh(es) were created.",
		CompletionMessage(Summary{Reported: 1200}))
	assert.Contains(t, CompletionMessage(Summary{Reported: 3, Skipped: 1}), "(1 skipped)")

	assert.Equal(t, "restart", RestartSession.String())
	assert.Equal(t, "cancel", Cancel.String())

	ue := &UnwrapError{Item: "Cube", Message: "boom"}
	assert.Equal(t, `unwrap of "Cube" failed: boom`, ue.Error())
}
