package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/wizard"
)

// exitCodeSkipped is returned by a --strict run that skipped items.
const exitCodeSkipped = 2

// NewUnwrapCmd creates the unwrap command, which runs Create straight away
// without showing the wizard window.
func NewUnwrapCmd() *cobra.Command {
	var (
		sel    selectionFlags
		yes    bool
		strict bool
		params paramFlags
	)

	cmd := &cobra.Command{
		Use:   "unwrap",
		Short: "Create UV maps for the selection without the wizard window",
		Long: `Creates secondary UV maps for every selected mesh, as if the wizard's create
button had been pressed immediately.

Failures are prompted for on the terminal. With --yes every failure is skipped
and an empty selection ends the run. With --strict the command exits with code
2 when any item was skipped.`,
		Example: `  # Unwrap two objects, answering failure prompts
  uvwizard unwrap --scene level.yaml --select Crate,Barrel

  # CI: skip failures, fail the job if any occurred
  uvwizard unwrap --scene level.yaml --all --yes --strict

  # Override the seam angle for this run
  uvwizard unwrap --scene level.yaml --all --hard-angle 66`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUnwrap(cmd, &sel, &params, yes, strict)
		},
	}

	sel.register(cmd)
	params.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "never prompt: skip failed items and cancel on an empty selection")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with code 2 when any item was skipped")

	return cmd
}

func runUnwrap(cmd *cobra.Command, sel *selectionFlags, params *paramFlags, yes, strict bool) error {
	cfg := config.GetGlobalConfig()
	params.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	_, host, err := sel.load(cfg, warnMissing(cmd))
	if err != nil {
		return err
	}

	var dialogs engine.Dialogs = engine.UnattendedDialogs{}
	if !yes {
		dialogs = ConsoleDialogs{Console: NewConsole(cmd.InOrStdin(), cmd.ErrOrStderr())}
	}

	summaries, err := wizard.RunSession(cmd.Context(), host, newWizardFactory(cfg, dialogs, nil), ImmediatePresenter{})
	if err != nil {
		return err
	}

	var skipped int
	for _, s := range summaries {
		skipped += s.Skipped
		if yes && !s.NoSelection {
			cmd.Println(engine.CompletionMessage(s))
		}
	}
	if len(summaries) > 0 && summaries[len(summaries)-1].NoSelection && yes {
		cmd.PrintErrln(engine.NoSelectionMessage)
	}

	if strict && skipped > 0 {
		return &ExitError{
			ExitCode: exitCodeSkipped,
			Reason:   fmt.Sprintf("%d item(s) skipped", skipped),
		}
	}
	return nil
}

// paramFlags override the configured unwrap parameters for one run.
type paramFlags struct {
	hardAngle  float64
	packMargin float64
	angleError float64
	areaError  float64
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.hardAngle, "hard-angle", 0, "seam angle in degrees (default from unwrap.params.hard_angle)")
	cmd.Flags().Float64Var(&p.packMargin, "pack-margin", 0, "margin between UV charts (default from unwrap.params.pack_margin)")
	cmd.Flags().Float64Var(&p.angleError, "angle-error", 0, "maximum angle distortion (default from unwrap.params.angle_error)")
	cmd.Flags().Float64Var(&p.areaError, "area-error", 0, "maximum area distortion (default from unwrap.params.area_error)")
}

// apply copies the flags the user set onto cfg.
func (p *paramFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("hard-angle") {
		cfg.Unwrap.Params.HardAngle = p.hardAngle
	}
	if flags.Changed("pack-margin") {
		cfg.Unwrap.Params.PackMargin = p.packMargin
	}
	if flags.Changed("angle-error") {
		cfg.Unwrap.Params.AngleError = p.angleError
	}
	if flags.Changed("area-error") {
		cfg.Unwrap.Params.AreaError = p.areaError
	}
}
