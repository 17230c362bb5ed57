package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/logging"
	"github.com/rshade/uvwizard/pkg/version"
)

// StepStatus represents the outcome of a single setup step.
type StepStatus int

const (
	// StepSuccess indicates the step completed successfully.
	StepSuccess StepStatus = iota
	// StepWarning indicates the step completed with a non-fatal issue.
	StepWarning
	// StepSkipped indicates the step was intentionally skipped via flag.
	StepSkipped
	// StepError indicates the step failed.
	StepError
)

// StepResult describes the outcome of executing a single setup step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// SetupOptions holds the configuration for the setup command, derived from CLI flags.
type SetupOptions struct {
	SkipToolCheck  bool
	NonInteractive bool
}

// SetupResult is the aggregate outcome of all setup steps.
type SetupResult struct {
	Steps       []StepResult
	HasErrors   bool
	HasWarnings bool
}

// dirPermBase is the permission mode for the home and log directories.
const dirPermBase = 0o700

// formatStatus returns a status marker appropriate for the output mode.
func formatStatus(status StepStatus, nonInteractive bool) string {
	if nonInteractive {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepError:
			return "[ERR]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "✓"
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepError:
		return "✗"
	default:
		return "?"
	}
}

// NewSetupCmd creates the top-level setup command that bootstraps the uvwizard environment.
func NewSetupCmd() *cobra.Command {
	var opts SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the uvwizard environment",
		Long: `Sets up the uvwizard environment by creating directories, initializing the
global configuration, and checking that the unwrap tool can be found.

Safe to run repeatedly: an existing configuration file is left untouched.`,
		Example: `  # Full setup
  uvwizard setup

  # CI setup (no TTY-dependent output)
  uvwizard setup --non-interactive

  # Skip the unwrap tool check
  uvwizard setup --skip-tool-check`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false,
		"Disable TTY-dependent output (status symbols)")
	cmd.Flags().BoolVar(&opts.SkipToolCheck, "skip-tool-check", false,
		"Skip looking up the configured unwrap command")

	return cmd
}

// runSetup runs every step in order. A failed step does not stop the ones
// after it; only a failed critical step makes the command fail.
func runSetup(cmd *cobra.Command, opts *SetupOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.NonInteractive = true
	}

	result := &SetupResult{}
	record := func(steps ...StepResult) {
		for _, s := range steps {
			printStep(cmd, s, opts.NonInteractive)
			result.Steps = append(result.Steps, s)
		}
	}

	record(stepDisplayVersion())
	record(stepCreateDirectories()...)
	record(stepInitConfig())
	if opts.SkipToolCheck {
		record(StepResult{Name: "Unwrap tool", Status: StepSkipped, Message: "Skipped unwrap tool check"})
	} else {
		record(stepDetectUnwrapTool(ctx, config.GetGlobalConfig()))
	}

	for _, s := range result.Steps {
		if s.Status == StepError && s.Critical {
			result.HasErrors = true
		}
		if s.Status == StepWarning {
			result.HasWarnings = true
		}
	}

	printSummary(cmd, result)

	if result.HasErrors {
		logging.FromContext(ctx).Error().
			Ctx(ctx).
			Str("component", "setup").
			Msg("setup completed with critical errors")
		return errors.New("setup failed: one or more critical steps failed")
	}

	return nil
}

// printStep outputs a single step's status line.
func printStep(cmd *cobra.Command, step StepResult, nonInteractive bool) {
	cmd.Printf("%s %s\n", formatStatus(step.Status, nonInteractive), step.Message)
}

// printSummary outputs the final completion message.
func printSummary(cmd *cobra.Command, result *SetupResult) {
	cmd.Println()
	if result.HasErrors {
		cmd.Println("Setup completed with errors. Review the messages above for remediation steps.")
	} else {
		cmd.Println("Setup complete! Run 'uvwizard wizard --scene <scene.yaml> --all' to get started.")
	}
}

// stepDisplayVersion reports the uvwizard version and Go runtime.
func stepDisplayVersion() StepResult {
	return StepResult{
		Name:    "Version display",
		Status:  StepSuccess,
		Message: fmt.Sprintf("uvwizard %s (%s)", version.GetVersion(), runtime.Version()),
	}
}

// stepDetectUnwrapTool checks that the configured unwrap command resolves.
func stepDetectUnwrapTool(ctx context.Context, cfg *config.Config) StepResult {
	if cfg.Unwrap.Command == "" {
		return StepResult{
			Name:    "Unwrap tool",
			Status:  StepWarning,
			Message: "No unwrap command configured. Set unwrap.command in the config file or UVWIZARD_UNWRAP_COMMAND",
		}
	}

	path, err := exec.LookPath(cfg.Unwrap.Command)
	if err != nil {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "setup").
			Str("command", cfg.Unwrap.Command).
			Err(err).
			Msg("unwrap command not found")
		return StepResult{
			Name:    "Unwrap tool",
			Status:  StepWarning,
			Message: fmt.Sprintf("Unwrap command %q not found on PATH", cfg.Unwrap.Command),
			Err:     err,
		}
	}

	return StepResult{
		Name:    "Unwrap tool",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Unwrap command found (%s)", path),
	}
}

// stepCreateDirectories creates the home and log directories.
// Returns one StepResult per directory.
func stepCreateDirectories() []StepResult {
	baseDir, err := config.GetConfigDir()
	if err != nil {
		return []StepResult{{
			Name:     "Directory creation",
			Status:   StepError,
			Message:  fmt.Sprintf("Cannot resolve home directory: %v\n  Try: export UVWIZARD_HOME=/path/to/writable/directory", err),
			Critical: true,
			Err:      err,
		}}
	}
	logDir, err := config.GetLogDir()
	if err != nil {
		logDir = baseDir
	}

	var results []StepResult
	for _, dir := range []string{baseDir, logDir} {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			results = append(results, StepResult{
				Name:     "Directory creation",
				Status:   StepSuccess,
				Message:  fmt.Sprintf("Directory exists: %s", dir),
				Critical: true,
			})
			continue
		}

		if mkErr := os.MkdirAll(dir, dirPermBase); mkErr != nil {
			results = append(results, StepResult{
				Name:   "Directory creation",
				Status: StepError,
				Message: fmt.Sprintf(
					"Failed to create %s: %v\n  Try: export UVWIZARD_HOME=/path/to/writable/directory",
					dir,
					mkErr,
				),
				Critical: true,
				Err:      mkErr,
			})
			continue
		}

		results = append(results, StepResult{
			Name:     "Directory creation",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Created %s", dir),
			Critical: true,
		})
	}

	return results
}

// stepInitConfig writes the default global config file if none exists.
func stepInitConfig() StepResult {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to resolve config path: %v", err),
			Critical: true,
			Err:      err,
		}
	}

	if _, err = os.Stat(configPath); err == nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Config already exists (%s)", configPath),
			Critical: true,
		}
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err = cfg.Save(); err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to initialize config: %v", err),
			Critical: true,
			Err:      err,
		}
	}

	return StepResult{
		Name:     "Config initialization",
		Status:   StepSuccess,
		Message:  fmt.Sprintf("Initialized config (%s)", configPath),
		Critical: true,
	}
}
