// Package bootstrap implements the locate → install → authenticate →
// configure → verify sequence for one external tool.
//
// Execution is strictly sequential with one subprocess in flight, matching an
// interactive setup wizard where a human completes browser-based login steps.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

// Bootstrapper drives the bootstrap sequence. The function fields default to
// the real filesystem and PATH; tests override them alongside the Runner.
type Bootstrapper struct {
	runner execrun.Runner

	// stat and lookPath are injectable for locate tests.
	stat     func(string) (os.FileInfo, error)
	lookPath func(string) (string, error)

	// confirm gates interactive stages. Nil means proceed without asking.
	confirm func(prompt string) (bool, error)

	// env is applied to every subprocess as a scoped override; the process
	// environment itself is never mutated.
	env map[string]string

	out io.Writer
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithStat overrides the filesystem existence check.
func WithStat(fn func(string) (os.FileInfo, error)) Option {
	return func(b *Bootstrapper) { b.stat = fn }
}

// WithLookPath overrides PATH resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(b *Bootstrapper) { b.lookPath = fn }
}

// WithConfirm sets the confirmation prompt for install and login stages.
func WithConfirm(fn func(string) (bool, error)) Option {
	return func(b *Bootstrapper) { b.confirm = fn }
}

// WithEnv sets per-subprocess environment overrides.
func WithEnv(env map[string]string) Option {
	return func(b *Bootstrapper) { b.env = env }
}

// WithOutput sets the progress output writer (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(b *Bootstrapper) { b.out = w }
}

// New creates a Bootstrapper using the given runner.
func New(runner execrun.Runner, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		runner:   runner,
		stat:     os.Stat,
		lookPath: exec.LookPath,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Options controls a single Run.
type Options struct {
	// CheckOnly restricts the run to locate + verify with no mutation.
	CheckOnly bool
	// Values are the configuration values to apply; defaults merged with
	// any user overrides. Nil means the registry defaults.
	Values map[string]string
	// ExtraPaths are user-supplied candidate paths probed before the
	// registry's own.
	ExtraPaths []string
}

// Run executes the full sequence for one tool and returns the per-run record
// together with the first halting error. The record is valid even on error;
// its State says how far the run got.
func (b *Bootstrapper) Run(ctx context.Context, spec tool.Spec, opts Options) (*Installation, error) {
	inst := &Installation{Spec: spec, State: StateUnprobed}

	if opts.CheckOnly {
		return inst, b.runCheckOnly(ctx, inst, opts)
	}

	// Probe, installing on a miss.
	path, err := b.Locate(spec, opts.ExtraPaths)
	if err != nil {
		inst.State = StateNotFound
		fmt.Fprintf(b.out, "%s %s not found, attempting install\n", ui.WarnTag(), spec.Command)
		path, err = b.install(ctx, spec, opts.ExtraPaths)
		if err != nil {
			inst.State = StateInstallFailed
			return inst, err
		}
		inst.State = StateInstalled
	} else {
		inst.State = StateFound
	}
	inst.ResolvedPath = path
	fmt.Fprintf(b.out, "%s %s at %s\n", ui.OKTag(), spec.Command, path)

	if v, err := b.ToolVersion(ctx, spec, path); err == nil {
		inst.Version = v
	}

	// Authenticate before any configuration is written.
	auth, err := b.Authenticate(ctx, spec, path)
	if err != nil {
		inst.State = StateAuthFailed
		return inst, err
	}
	inst.State = StateAuthenticated
	inst.IsAuthenticated = true
	inst.Identity = auth.Identity
	switch {
	case auth.Skipped:
		fmt.Fprintf(b.out, "%s no authentication required\n", ui.SkipTag())
	case auth.AlreadyAuthenticated:
		fmt.Fprintf(b.out, "%s already authenticated as %s\n", ui.OKTag(), auth.Identity)
	default:
		fmt.Fprintf(b.out, "%s authenticated as %s\n", ui.OKTag(), auth.Identity)
	}

	// Configure; partial failure is reported but does not stop verify.
	values := opts.Values
	if values == nil {
		values = spec.ConfigValues()
	}
	cfgErr := b.Configure(ctx, inst, path, values)
	if cfgErr == nil {
		inst.State = StateConfigured
	}

	if snap, err := b.Verify(ctx, spec, path); err == nil {
		inst.Snapshot = snap
	}

	return inst, cfgErr
}

// runCheckOnly performs locate + verify only. No install, auth, or configure
// subprocess is invoked; the single subprocess is the tool's read-only
// config list.
func (b *Bootstrapper) runCheckOnly(ctx context.Context, inst *Installation, opts Options) error {
	spec := inst.Spec

	path, err := b.Locate(spec, opts.ExtraPaths)
	if err != nil {
		inst.State = StateNotFound
		return err
	}
	inst.State = StateFound
	inst.ResolvedPath = path
	fmt.Fprintf(b.out, "%s %s at %s\n", ui.OKTag(), spec.Command, path)

	snap, err := b.Verify(ctx, spec, path)
	if err != nil {
		return err
	}
	inst.Snapshot = snap

	values := opts.Values
	if values == nil {
		values = spec.ConfigValues()
	}
	var missing []string
	for k, v := range values {
		if !SnapshotContains(snap, k, v) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &StageError{
			Tool:  spec.Name,
			Cause: ErrNotFound,
			Hint:  fmt.Sprintf("configuration incomplete (%d key(s) not applied) — run 'devboot bootstrap %s' to finish setup", len(missing), spec.Name),
		}
	}
	fmt.Fprintf(b.out, "%s %s fully configured\n", ui.OKTag(), spec.Command)
	return nil
}

// ToolVersion runs the tool's version report as a sanity check on the
// resolved executable. Best effort; locate already verified existence.
func (b *Bootstrapper) ToolVersion(ctx context.Context, spec tool.Spec, path string) (string, error) {
	if len(spec.VersionArgs) == 0 {
		return "", nil
	}
	res, err := b.run(ctx, path, spec.VersionArgs)
	if err != nil || !res.Ok() {
		return "", fmt.Errorf("version check failed")
	}
	return firstLine(res.Stdout), nil
}

func (b *Bootstrapper) run(ctx context.Context, path string, args []string) (execrun.Result, error) {
	return b.runner.Run(ctx, execrun.Invocation{Path: path, Args: args, Env: b.env})
}

func (b *Bootstrapper) askConfirm(prompt string) (bool, error) {
	if b.confirm == nil {
		return true, nil
	}
	return b.confirm(prompt)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
