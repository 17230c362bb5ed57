package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/scene"
	"github.com/rshade/uvwizard/internal/tui"
	"github.com/rshade/uvwizard/internal/wizard"
)

// errNoScene is returned when --scene is missing.
var errNoScene = errors.New("--scene is required")

// selectionFlags are shared by every command that resolves a selection.
type selectionFlags struct {
	scene         string
	names         []string
	selectionFile string
	all           bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scene, "scene", "", "scene manifest (.yaml, .yml or .toml)")
	cmd.Flags().StringSliceVar(&f.names, "select", nil, "comma-separated object names to select")
	cmd.Flags().StringVar(&f.selectionFile, "selection-file", "",
		"file listing selected object names, one per line (default from wizard.selection_file)")
	cmd.Flags().BoolVar(&f.all, "all", false, "select every object in the scene")
	cmd.MarkFlagsMutuallyExclusive("select", "selection-file", "all")
}

// selectionPath returns the selection file to read, or "" when the
// selection is given on the command line.
func (f *selectionFlags) selectionPath(cfg *config.Config) string {
	if f.all || len(f.names) > 0 {
		return ""
	}
	if f.selectionFile != "" {
		return f.selectionFile
	}
	return cfg.Wizard.SelectionFile
}

// load reads the scene and builds the host that serves its selection.
// onMissing may be nil.
func (f *selectionFlags) load(cfg *config.Config, onMissing func(*scene.SelectionWarning)) (*scene.Scene, wizard.SceneHost, error) {
	if f.scene == "" {
		return nil, wizard.SceneHost{}, errNoScene
	}
	sc, err := scene.Load(f.scene)
	if err != nil {
		return nil, wizard.SceneHost{}, fmt.Errorf("loading scene: %w", err)
	}

	host := wizard.SceneHost{Scene: sc, OnMissing: onMissing}
	switch path := f.selectionPath(cfg); {
	case f.all:
		host.Names = func(context.Context) ([]string, error) { return sc.Names(), nil }
	case len(f.names) > 0:
		names := append([]string(nil), f.names...)
		host.Names = func(context.Context) ([]string, error) { return names, nil }
	case path != "":
		host.Names = func(context.Context) ([]string, error) { return scene.ReadSelectionFile(path) }
	}
	return sc, host, nil
}

// warnMissing prints unknown selected names to the command's stderr.
func warnMissing(cmd *cobra.Command) func(*scene.SelectionWarning) {
	return func(w *scene.SelectionWarning) {
		cmd.PrintErrf("Warning: %v\n", w)
	}
}

// tuiWatch forwards selection file changes to the full-screen wizard.
func tuiWatch(w *scene.Watcher, sc *scene.Scene) tui.WatchFunc {
	return func(ctx context.Context, send func(tui.SelectionChangedMsg)) error {
		return w.Run(ctx, func(c scene.SelectionChanged) {
			if c.Err != nil {
				send(tui.SelectionChangedMsg{Err: c.Err})
				return
			}
			selected, warning := sc.Select(c.Names)
			msg := tui.SelectionChangedMsg{Selection: selected}
			if warning != nil {
				msg.Missing = warning.Names()
			}
			send(msg)
		})
	}
}

// consoleWatch applies selection file changes to the open wizard.
func consoleWatch(cmd *cobra.Command, w *scene.Watcher, sc *scene.Scene) func(context.Context, *wizard.Wizard) error {
	return func(ctx context.Context, wz *wizard.Wizard) error {
		return w.Run(ctx, func(c scene.SelectionChanged) {
			if c.Err != nil {
				logger.Warn().Err(c.Err).Msg("selection file unreadable, keeping current worklist")
				return
			}
			selected, warning := sc.Select(c.Names)
			if warning != nil {
				warnMissing(cmd)(warning)
			}
			wz.OnSelectionChange(selected)
			cmd.PrintErrf("\nSelection changed: %d mesh(es) targeted\n", len(wz.Targets()))
		})
	}
}
