// Package execrun runs external tool subprocesses for the bootstrapper.
//
// All invocations go through the Runner interface so tests can substitute a
// recording fake and assert which commands a bootstrap stage issued (or that
// a read-only stage issued none).
package execrun

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds captured invocations. The original setup scripts
// blocked forever on wedged subprocesses; a bounded wait with Ctrl-C wins.
const DefaultTimeout = 30 * time.Second

// Invocation describes one subprocess call.
type Invocation struct {
	// Path is the executable to run, either a bare name resolved via PATH
	// or an absolute candidate path from the tool registry.
	Path string
	// Args are the arguments, excluding the executable itself.
	Args []string
	// Env holds extra environment entries applied to this call only. The
	// process environment is never mutated; each call gets its own copy.
	Env map[string]string
	// Timeout overrides DefaultTimeout when positive. Ignored by
	// RunInteractive, which blocks until the user finishes or cancels.
	Timeout time.Duration
}

// Result is the outcome of a captured invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Ok reports whether the subprocess exited zero.
func (r Result) Ok() bool { return r.ExitCode == 0 }

// Runner executes subprocesses. Run captures output; RunInteractive wires the
// subprocess to the user's terminal for login flows that open a browser or
// prompt for a device code.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
	RunInteractive(ctx context.Context, inv Invocation) error
}

// ExecRunner is the os/exec implementation of Runner.
type ExecRunner struct{}

// New returns a Runner backed by os/exec.
func New() *ExecRunner { return &ExecRunner{} }

// Run executes the invocation with captured output and a bounded wait.
// A non-zero exit is reported in Result, not as an error; errors mean the
// process could not run at all (missing binary, timeout, cancellation).
func (e *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Env = mergedEnv(inv.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("exec", "path", inv.Path, "args", strings.Join(inv.Args, " "))
	err := cmd.Run()

	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			slog.Debug("exec exit", "path", inv.Path, "code", res.ExitCode)
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, err
	}

	slog.Debug("exec exit", "path", inv.Path, "code", 0)
	return res, nil
}

// RunInteractive executes the invocation with inherited stdio and no timeout.
// Cancelling ctx (Ctrl-C on the root command) terminates the subprocess.
func (e *ExecRunner) RunInteractive(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Env = mergedEnv(inv.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Debug("exec interactive", "path", inv.Path, "args", strings.Join(inv.Args, " "))
	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// mergedEnv copies the process environment and applies per-call overrides.
// Overrides replace existing entries with the same key.
func mergedEnv(overrides map[string]string) []string {
	base := os.Environ()
	if len(overrides) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, shadowed := overrides[key]; shadowed {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
