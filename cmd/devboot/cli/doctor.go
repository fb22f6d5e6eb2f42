package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superclaud/devboot/internal/bootstrap"
	"github.com/superclaud/devboot/internal/config"
	"github.com/superclaud/devboot/internal/doctor"
	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/gitid"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnostic information about the devboot environment",
	Long: `Displays diagnostic information for debugging a setup:

- devboot version and platform
- per-tool probe results (path, version, authentication)
- global git identity
- configuration file locations

Read-only; nothing on the machine is changed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.Bold("devboot doctor"))
	fmt.Println()

	reg := doctor.NewRegistry()
	reg.Register(&versionSection{})
	reg.Register(&toolsSection{ctx: cmd.Context()})
	reg.Register(&gitSection{})
	reg.Register(&configSection{})

	reg.Run(os.Stdout)
	return nil
}

// versionSection shows platform and version info.
type versionSection struct{}

func (s *versionSection) Name() string { return "Version" }

func (s *versionSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "devboot:\t%s\n", version)
	fmt.Fprintf(tw, "Platform:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	return tw.Flush()
}

// toolsSection probes every registry tool.
type toolsSection struct {
	ctx context.Context
}

func (s *toolsSection) Name() string { return "Tools" }

func (s *toolsSection) Print(w io.Writer) error {
	globalCfg, _ := config.LoadGlobal()
	// Declining confirm keeps the probe read-only: Authenticate reports the
	// missing session instead of launching a login flow.
	b := bootstrap.New(execrun.New(),
		bootstrap.WithConfirm(func(string) (bool, error) { return false, nil }),
		bootstrap.WithOutput(io.Discard))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, spec := range tool.All() {
		path, err := b.Locate(spec, globalCfg.PathsFor(spec.Name))
		if err != nil {
			fmt.Fprintf(tw, "%s:\t%s not found\n", spec.Name, ui.FailTag())
			continue
		}
		line := fmt.Sprintf("%s %s", ui.OKTag(), path)
		if v, err := b.ToolVersion(s.ctx, spec, path); err == nil && v != "" {
			line += "  " + ui.Dim(v)
		}
		fmt.Fprintf(tw, "%s:\t%s\n", spec.Name, line)

		if spec.HasAuth() {
			auth, err := b.Authenticate(s.ctx, spec, path)
			if err == nil && auth.AlreadyAuthenticated {
				fmt.Fprintf(tw, "\t%s authenticated as %s\n", ui.OKTag(), auth.Identity)
			} else {
				fmt.Fprintf(tw, "\t%s not authenticated\n", ui.WarnTag())
			}
		}
	}
	return tw.Flush()
}

// gitSection shows the global git identity.
type gitSection struct{}

func (s *gitSection) Name() string { return "Git Identity" }

func (s *gitSection) Print(w io.Writer) error {
	id, err := gitid.Load()
	if err != nil {
		return fmt.Errorf("reading global gitconfig: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !id.Configured() {
		fmt.Fprintf(tw, "%s git identity not configured\n", ui.WarnTag())
		fmt.Fprintln(tw, ui.Dim(`set it with: git config --global user.name "..." and user.email "..."`))
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Name:\t%s\n", id.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", id.Email)
	return tw.Flush()
}

// configSection shows where devboot reads configuration from.
type configSection struct{}

func (s *configSection) Name() string { return "Configuration" }

func (s *configSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Config file:\t%s\n", configFileStatus())
	fmt.Fprintf(tw, "Debug logs:\t%s\n", config.DebugDir())
	return tw.Flush()
}

func configFileStatus() string {
	path := config.GlobalConfigDir() + "/config.yaml"
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("%s %s", path, ui.Dim("(absent, defaults in effect)"))
	}
	return path
}
