package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/scene"
	"github.com/rshade/uvwizard/internal/tui"
	"github.com/rshade/uvwizard/internal/wizard"
)

// NewWizardCmd creates the wizard command, the interactive session.
func NewWizardCmd() *cobra.Command {
	var (
		sel   selectionFlags
		noTUI bool
	)

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Open the UV Map Creation Wizard",
		Long: `Opens the UV Map Creation Wizard for the current selection.

Every selected object that has a mesh filter is added to the worklist. Creating
UV maps runs the configured unwrap tool for each of them in order; a failure
asks whether to try again or skip. With an empty selection the wizard offers to
re-open once a new selection is made.

When --selection-file is used, the worklist follows changes to that file while
the wizard is open.`,
		Example: `  # Full-screen wizard over two objects
  uvwizard wizard --scene level.yaml --select Crate,Barrel

  # Follow an editor-maintained selection file
  uvwizard wizard --scene level.yaml --selection-file selection.txt

  # Line prompts, e.g. over ssh without a terminal
  uvwizard wizard --scene level.yaml --all --no-tui`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWizard(cmd, &sel)
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "use line prompts instead of the full-screen wizard")

	return cmd
}

// usesTUI reports whether cmd runs the full-screen wizard.
func usesTUI(cmd *cobra.Command) bool {
	if cmd.Name() != "wizard" {
		return false
	}
	noTUI, err := cmd.Flags().GetBool("no-tui")
	return err == nil && !noTUI && tui.IsTTY()
}

func runWizard(cmd *cobra.Command, sel *selectionFlags) error {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	fullScreen := usesTUI(cmd)

	var onMissing func(*scene.SelectionWarning)
	if !fullScreen {
		onMissing = warnMissing(cmd)
	}
	sc, host, err := sel.load(cfg, onMissing)
	if err != nil {
		return err
	}

	var watcher *scene.Watcher
	if path := sel.selectionPath(cfg); path != "" {
		watcher, err = scene.NewWatcher(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("selection file will not be followed")
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	var (
		dialogs   engine.Dialogs
		presenter wizard.Presenter
		progress  batch.ProgressCallback
	)
	if fullScreen {
		d := tui.NewDialogs()
		p := &tui.Presenter{Dialogs: d}
		if watcher != nil {
			p.Watch = tuiWatch(watcher, sc)
		}
		dialogs, presenter, progress = d, p, d.Progress
	} else {
		console := NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
		p := ConsolePresenter{Console: console}
		if watcher != nil {
			p.Watch = consoleWatch(cmd, watcher, sc)
		}
		dialogs, presenter = ConsoleDialogs{Console: console}, p
	}

	factory := newWizardFactory(cfg, dialogs, progress)
	reg := newRegistry(host, factory, presenter)

	err = reg.Invoke(cmd.Context(), wizard.CommandName)
	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Wizard aborted")
		return nil
	}
	return err
}

// newWizardFactory builds wizards from the configuration.
func newWizardFactory(cfg *config.Config, dialogs engine.Dialogs, progress batch.ProgressCallback) wizard.Factory {
	unwrapFn := wizard.UnwrapWith(cfg.Unwrapper(), cfg.Unwrap.Params)
	return func() *wizard.Wizard {
		return wizard.New(wizard.Options{
			Title:        cfg.Wizard.Title,
			CreateButton: cfg.Wizard.CreateButton,
			Unwrap:       unwrapFn,
			Dialogs:      dialogs,
			Progress:     progress,
		})
	}
}

// newRegistry returns the editor command registry with the wizard registered.
func newRegistry(host wizard.Host, factory wizard.Factory, presenter wizard.Presenter) *wizard.Registry {
	reg := wizard.NewRegistry()
	// Registering into a fresh registry cannot collide.
	_ = wizard.Register(reg, host, factory, presenter)
	return reg
}
