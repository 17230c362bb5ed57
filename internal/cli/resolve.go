package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/scene"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// resolvePadding is the minimum column padding for tabwriter output.
const resolvePadding = 2

// resolveResult is the JSON shape of the resolve command.
type resolveResult struct {
	Selected int            `json:"selected"`
	Targets  []resolveEntry `json:"targets"`
	Missing  []string       `json:"missing,omitempty"`
}

type resolveEntry struct {
	Object string `json:"object"`
	Mesh   string `json:"mesh"`
	Path   string `json:"path,omitempty"`
}

// NewResolveCmd creates the resolve command, which prints the worklist a
// selection would produce without running anything.
func NewResolveCmd() *cobra.Command {
	var (
		sel    selectionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which selected objects would be unwrapped",
		Long: `Resolves the selection against the scene and prints the resulting worklist.

Objects without a mesh filter are left out. Selected names that are not in the
scene are reported with close matches.`,
		Example: `  # Table of targets
  uvwizard resolve --scene level.yaml --select Crate,Lamp

  # JSON for scripts
  uvwizard resolve --scene level.toml --all --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, &sel, output)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table or json")

	return cmd
}

func runResolve(cmd *cobra.Command, sel *selectionFlags, output string) error {
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("unsupported output format %q (use table or json)", output)
	}

	var missing []string
	_, host, err := sel.load(config.GetGlobalConfig(), func(w *scene.SelectionWarning) {
		missing = w.Names()
		if output == outputTable {
			warnMissing(cmd)(w)
		}
	})
	if err != nil {
		return err
	}

	selected, err := host.Selection(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading selection: %w", err)
	}
	targets := engine.Resolve(selected)
	logger.Debug().Ctx(cmd.Context()).
		Int("selected", len(selected)).
		Int("targets", len(targets)).
		Msg("selection resolved")

	result := resolveResult{Selected: len(selected), Targets: make([]resolveEntry, 0, len(targets)), Missing: missing}
	for _, h := range targets {
		result.Targets = append(result.Targets, resolveEntry{Object: h.Name, Mesh: h.Mesh.Name, Path: h.Mesh.Path})
	}

	if output == outputJSON {
		return renderResolveJSON(cmd.OutOrStdout(), result)
	}
	return renderResolveTable(cmd.OutOrStdout(), result)
}

func renderResolveJSON(w io.Writer, result resolveResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func renderResolveTable(w io.Writer, result resolveResult) error {
	if len(result.Targets) == 0 {
		_, err := fmt.Fprintln(w, engine.NoSelectionMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, resolvePadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, "OBJECT\tMESH\tPATH")
	for _, e := range result.Targets {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Object, e.Mesh, e.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d selected object(s) will be unwrapped\n", len(result.Targets), result.Selected)
	return err
}
