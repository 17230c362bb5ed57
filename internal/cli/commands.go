package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/wizard"
)

// NewCommandsCmd creates the commands command, which lists the editor menu
// commands this tool registers.
func NewCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List registered editor commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			noSelection := wizard.HostFunc(func(context.Context) ([]any, error) { return nil, nil })
			closed := wizard.PresenterFunc(func(context.Context, *wizard.Wizard) (engine.Summary, bool, error) {
				return engine.Summary{}, false, nil
			})
			reg := newRegistry(noSelection, func() *wizard.Wizard { return wizard.New(wizard.Options{}) }, closed)
			for _, name := range reg.Names() {
				cmd.Println(name)
			}
			return nil
		},
	}
}
