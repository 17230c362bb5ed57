package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// ExitError carries a process exit code for outcomes that are not usage
// errors, such as a strict unattended run that skipped items.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// NewRootCmd creates the root Cobra command for the uvwizard CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "uvwizard",
		Short:         "UV Map Creation Wizard",
		Long:          "uvwizard: create secondary UV maps for every mesh in a scene selection",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath, projectDir)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(lookupEnv)
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $UVWIZARD_HOME/config.yaml, or ~/.uvwizard/config.yaml)")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .uvwizard/config.yaml (default: discovered from the working directory)")

	cmd.AddCommand(
		NewWizardCmd(),
		NewResolveCmd(),
		NewUnwrapCmd(),
		NewCommandsCmd(),
		NewSetupCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Open the wizard for two objects of a scene
  uvwizard wizard --scene level.yaml --select Crate,Barrel

  # Follow a selection file that an editor keeps up to date
  uvwizard wizard --scene level.yaml --selection-file .uvwizard/selection.txt

  # Show which selected objects would be unwrapped
  uvwizard resolve --scene level.toml --select Crate,Lamp --output json

  # Unwrap without prompts, skipping failures
  uvwizard unwrap --scene level.yaml --all --yes

  # Initialize configuration
  uvwizard config init`

// loadConfig loads the explicit config file when --config is given and the
// global one otherwise, then layers the project overlay on top.
func loadConfig(cmd *cobra.Command, configPath, projectFlag string) (*config.Config, error) {
	ctx := cmd.Context()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	projectDir := config.ResolveProjectDir(ctx, projectFlag, wd)
	config.SetResolvedProjectDir(projectDir)

	if configPath == "" {
		return config.NewWithProjectDir(ctx, projectDir), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if projectDir != "" {
		overlay := filepath.Join(projectDir, "config.yaml")
		if _, statErr := os.Stat(overlay); statErr == nil {
			if err = config.ShallowMergeYAML(cfg, overlay); err != nil {
				return nil, fmt.Errorf("loading project config: %w", err)
			}
		}
	}
	return cfg, nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
