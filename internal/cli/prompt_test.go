package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/scene"
	"github.com/rshade/uvwizard/internal/wizard"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewConsole(strings.NewReader(input), out), out
}

func TestConsoleDialogs_NoSelection(t *testing.T) {
	tests := []struct {
		input string
		want  engine.SessionChoice
	}{
		{"y\n", engine.RestartSession},
		{"YES\n", engine.RestartSession},
		{"n\n", engine.Cancel},
		{"\n", engine.Cancel},
		{"", engine.Cancel},
	}

	for _, tt := range tests {
		console, out := newTestConsole(tt.input)
		got := ConsoleDialogs{Console: console}.NoSelection(context.Background())

		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), engine.NoSelectionMessage)
		assert.Contains(t, out.String(), engine.LabelRestart)
	}
}

func TestConsoleDialogs_UnwrapFailed(t *testing.T) {
	h := engine.MeshHandle{Name: "Crate", Mesh: &scene.Mesh{Name: "crate"}}
	failure := &engine.UnwrapError{Item: "Crate", Message: "bad topology", Err: errors.New("bad topology")}

	tests := []struct {
		input string
		want  engine.Decision
	}{
		{"r\n", engine.Retry},
		{"retry\n", engine.Retry},
		{" Y \n", engine.Retry},
		{"s\n", engine.Skip},
		{"\n", engine.Skip},
		{"", engine.Skip},
	}

	for _, tt := range tests {
		console, out := newTestConsole(tt.input)
		got := ConsoleDialogs{Console: console}.UnwrapFailed(context.Background(), h, failure)

		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "error caught in the Crate object")
		assert.Contains(t, out.String(), "bad topology")
	}
}

func TestConsoleDialogs_Completed(t *testing.T) {
	console, out := newTestConsole("")
	ConsoleDialogs{Console: console}.Completed(context.Background(), engine.Summary{Reported: 3, Succeeded: 2, Skipped: 1})

	assert.Contains(t, out.String(), engine.TitleCompleted)
	assert.Contains(t, out.String(), "UV map(s) of '3' mesh(es) were created.")
	assert.Contains(t, out.String(), "(1 skipped)")
}

// TestConsole_SharedAcrossPrompts checks that answers queued on one input
// reach every prompt in order.
func TestConsole_SharedAcrossPrompts(t *testing.T) {
	console, _ := newTestConsole("\nr\n\n")
	sc := &scene.Scene{Objects: []*scene.Object{
		{Name: "Crate", Components: []scene.Component{scene.MeshFilter{Mesh: &scene.Mesh{Name: "crate"}}}},
	}}

	calls := 0
	w := wizard.New(wizard.Options{
		Title:        "Wizard",
		CreateButton: "Create",
		Dialogs:      ConsoleDialogs{Console: console},
		Unwrap: func(context.Context, engine.MeshHandle) error {
			calls++
			return errors.New("boom")
		},
	})
	w.Open(sc.SelectAll())

	summary, created, err := ConsolePresenter{Console: console}.Present(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Reported)
}

func TestConsolePresenter_Close(t *testing.T) {
	for _, input := range []string{"q\n", "quit\n", ""} {
		console, out := newTestConsole(input)
		w := wizard.New(wizard.Options{Title: "UV Wizard", CreateButton: "Create UV Maps"})
		w.Open(nil)

		_, created, err := ConsolePresenter{Console: console}.Present(context.Background(), w)
		require.NoError(t, err)
		assert.False(t, created, "input %q", input)
		assert.Contains(t, out.String(), "UV Wizard")
		assert.Contains(t, out.String(), "(no mesh selected)")
		assert.Contains(t, out.String(), "create uv maps")
	}
}

func TestImmediatePresenter(t *testing.T) {
	w := wizard.New(wizard.Options{Dialogs: engine.UnattendedDialogs{}})
	w.Open(nil)

	summary, created, err := ImmediatePresenter{}.Present(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, summary.NoSelection)
}
