package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/uvwizard/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after files and environment overrides.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  # Global settings merged with the project overlay
  uvwizard config show

  # Check what an environment override resolves to
  UVWIZARD_LOG_LEVEL=debug uvwizard config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			if path := cfg.ConfigPath(); path != "" {
				cmd.Printf("# %s\n", path)
			}
			if dir := config.GetResolvedProjectDir(); dir != "" {
				cmd.Printf("# project overlay: %s\n", dir)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
