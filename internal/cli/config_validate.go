package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for semantic correctness.

This includes:
- Logging level and format
- Unwrap parameter ranges and timeout
- Presence of the unwrap command on PATH (warning only)`,
		Example: `  # Validate current configuration
  uvwizard config validate

  # Validate and show detailed information
  uvwizard config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if warning := unwrapCommandWarning(cfg); warning != "" {
		cmd.Printf("Warning: %s\n\n", warning)
	}
	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// unwrapCommandWarning reports an unwrap command that cannot be run. An
// unset command is not an error: every item then fails and can be skipped.
func unwrapCommandWarning(cfg *config.Config) string {
	if cfg.Unwrap.Command == "" {
		return "unwrap.command is not set, every item will fail until it is"
	}
	if _, err := exec.LookPath(cfg.Unwrap.Command); err != nil {
		return fmt.Sprintf("unwrap command %q not found: %v", cfg.Unwrap.Command, err)
	}
	return ""
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Logging format: %s\n", cfg.Logging.Format)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Unwrap command: %s %v\n", cfg.Unwrap.Command, cfg.Unwrap.Args)
	cmd.Printf("  Unwrap timeout: %s\n", cfg.Unwrap.Timeout)
	p := cfg.Unwrap.Params
	cmd.Printf("  Unwrap params: hard_angle=%g pack_margin=%g angle_error=%g area_error=%g\n",
		p.HardAngle, p.PackMargin, p.AngleError, p.AreaError)
	cmd.Printf("  Wizard title: %s\n", cfg.Wizard.Title)
	if cfg.Wizard.SelectionFile != "" {
		cmd.Printf("  Selection file: %s\n", cfg.Wizard.SelectionFile)
	}
}
