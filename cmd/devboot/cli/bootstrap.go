package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superclaud/devboot/internal/bootstrap"
	"github.com/superclaud/devboot/internal/config"
	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/prompt"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

var (
	checkOnly bool
	assumeYes bool
)

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	bootstrapCmd.Flags().BoolVar(&checkOnly, "check-only", false, "only locate and verify; perform no mutation")
	bootstrapCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <tool>",
	Short: "Locate, install, authenticate, and configure one tool",
	Long: `Runs the full bootstrap sequence for one named tool:

  locate -> install-if-missing -> authenticate -> configure -> verify

With --check-only, only locate and verify run; nothing on the machine is
changed and the exit code reports whether the tool is fully configured.

Exit codes: 0 success; 1 tool not found and install failed; 2 authentication
failed; 3 one or more configuration keys failed to apply.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeToolNames,
	RunE:              runBootstrap,
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	spec, ok := tool.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown tool %q (known: %s)", args[0], strings.Join(tool.Names(), ", "))
	}

	globalCfg, _ := config.LoadGlobal()

	opts := []bootstrap.Option{bootstrap.WithOutput(os.Stdout)}
	if !assumeYes && !checkOnly {
		opts = append(opts, bootstrap.WithConfirm(confirmStage))
	}
	b := bootstrap.New(execrun.New(), opts...)

	inst, err := b.Run(cmd.Context(), spec, bootstrap.Options{
		CheckOnly:  checkOnly,
		Values:     globalCfg.ValuesFor(spec),
		ExtraPaths: globalCfg.PathsFor(spec.Name),
	})

	printSummary(inst)
	return err
}

// confirmStage gates install and login. Non-interactive stdin declines, so a
// scripted run without --yes fails fast instead of hanging on a prompt.
func confirmStage(question string) (bool, error) {
	if !prompt.Interactive() {
		return false, nil
	}
	return prompt.Confirm(question)
}

func printSummary(inst *bootstrap.Installation) {
	fmt.Println()
	ui.Section(inst.Spec.Name)

	stateTag := ui.FailTag()
	if inst.State == bootstrap.StateConfigured || inst.State == bootstrap.StateFound {
		stateTag = ui.OKTag()
	}
	fmt.Printf("State:\t%s %s\n", stateTag, inst.State)
	if inst.ResolvedPath != "" {
		fmt.Printf("Path:\t%s\n", inst.ResolvedPath)
	}
	if inst.Version != "" {
		fmt.Printf("Version:\t%s\n", inst.Version)
	}
	if inst.IsAuthenticated && inst.Identity != "" {
		fmt.Printf("Account:\t%s\n", inst.Identity)
	}
	if inst.Snapshot != "" {
		fmt.Println()
		fmt.Println(ui.Bold("Configuration"))
		fmt.Println(ui.Dim(inst.Snapshot))
	}
}

func completeToolNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return tool.Names(), cobra.ShellCompDirectiveNoFileComp
}
