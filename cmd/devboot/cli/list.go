package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superclaud/devboot/internal/bootstrap"
	"github.com/superclaud/devboot/internal/config"
	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known tools and their install state",
	Long:  `Probes every registry tool and shows where it was found. Read-only.`,
	RunE:  listTools,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listTools(cmd *cobra.Command, args []string) error {
	globalCfg, _ := config.LoadGlobal()
	b := bootstrap.New(execrun.New())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tSTATUS\tVERSION\tPATH")
	for _, spec := range tool.All() {
		path, err := b.Locate(spec, globalCfg.PathsFor(spec.Name))
		if err != nil {
			fmt.Fprintf(w, "%s\t%s missing\t\t\n", spec.Name, ui.FailTag())
			continue
		}
		version := toolVersion(cmd.Context(), b, spec, path)
		fmt.Fprintf(w, "%s\t%s found\t%s\t%s\n", spec.Name, ui.OKTag(), version, path)
	}
	return w.Flush()
}

func toolVersion(ctx context.Context, b *bootstrap.Bootstrapper, spec tool.Spec, path string) string {
	v, err := b.ToolVersion(ctx, spec, path)
	if err != nil {
		return ui.Dim("unknown")
	}
	return v
}
