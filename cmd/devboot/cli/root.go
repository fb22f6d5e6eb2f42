// Package cli implements the devboot command-line interface using Cobra.
// It provides commands for bootstrapping and inspecting local developer
// tooling: the cloud SDK, the GitHub CLI, and git.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/superclaud/devboot/internal/config"
	"github.com/superclaud/devboot/internal/log"
	"github.com/superclaud/devboot/internal/ui"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "devboot",
	Short: "devboot - local developer environment bootstrapper",
	Long: `devboot sets up the external tools a development machine needs:
it locates each tool across its known install locations, installs it if
missing, runs the tool's own interactive login once, applies the project's
configuration values, and reports the final state.

Re-running is always safe: present tools, live sessions, and already-applied
configuration are left untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		globalCfg, _ := config.LoadGlobal()
		if err := log.Init(log.Options{
			Verbose:       verbose,
			JSONFormat:    jsonOut,
			DebugDir:      config.DebugDir(),
			RetentionDays: globalCfg.Debug.RetentionDays,
		}); err != nil {
			// Non-fatal; the run proceeds without the debug file sink.
			ui.Warnf("failed to initialize debug logging: %v", err)
		}
		return nil
	},
}

// Execute runs the root command with a Ctrl-C aware context so a hung
// interactive login can be cancelled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer log.Close()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}
