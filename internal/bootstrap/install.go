package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

// installTimeout bounds package-manager installs, which legitimately take a
// while on a cold winget source cache.
const installTimeout = 10 * time.Minute

// EnsureInstalled returns the tool's path, installing it first if no
// candidate location matches. Idempotent: a present tool short-circuits with
// zero install actions.
func (b *Bootstrapper) EnsureInstalled(ctx context.Context, spec tool.Spec, extraPaths []string) (string, error) {
	if path, err := b.Locate(spec, extraPaths); err == nil {
		return path, nil
	}
	return b.install(ctx, spec, extraPaths)
}

// install tries each install strategy in declared order, re-probing after
// each. The bootstrapper never silently proceeds without the tool: if every
// strategy is exhausted the run fails with the vendor URL in the remedy.
func (b *Bootstrapper) install(ctx context.Context, spec tool.Spec, extraPaths []string) (string, error) {
	if len(spec.Install) == 0 {
		return "", &StageError{
			Tool:  spec.Name,
			Cause: ErrInstallFailed,
			Hint:  fmt.Sprintf("no install strategy for %s — install manually from %s", spec.Command, spec.VendorURL),
		}
	}

	ok, err := b.askConfirm(fmt.Sprintf("%s is not installed. Install it now?", spec.Command))
	if err != nil || !ok {
		return "", &StageError{
			Tool:  spec.Name,
			Cause: ErrUserAbort,
			Hint:  fmt.Sprintf("install manually from %s, then re-run devboot", spec.VendorURL),
		}
	}

	var hint string
	for _, strat := range spec.Install {
		stratHint, err := b.runStrategy(ctx, spec, strat)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", &StageError{Tool: spec.Name, Cause: err}
			}
			slog.Warn("install strategy failed", "tool", spec.Name, "type", string(strat.Type), "error", err)
			continue
		}
		if stratHint != "" {
			hint = stratHint
		}
		if path, err := b.Locate(spec, extraPaths); err == nil {
			return path, nil
		}
	}

	if hint == "" {
		hint = fmt.Sprintf("automatic installation failed — install manually from %s and re-run devboot", spec.VendorURL)
	}
	return "", &StageError{Tool: spec.Name, Cause: ErrInstallFailed, Hint: hint}
}

// runStrategy executes one install strategy. The returned hint, if any, tells
// the user what manual step remains (e.g. running a downloaded installer).
func (b *Bootstrapper) runStrategy(ctx context.Context, spec tool.Spec, strat tool.InstallStrategy) (string, error) {
	switch strat.Type {
	case tool.TypeWinget:
		fmt.Fprintf(b.out, "%s installing %s via winget (%s)\n", ui.WarnTag(), spec.Command, strat.Package)
		res, err := b.runner.Run(ctx, execrun.Invocation{
			Path: "winget",
			Args: []string{
				"install", "--id", strat.Package,
				"--silent", "--accept-package-agreements", "--accept-source-agreements",
			},
			Env:     b.env,
			Timeout: installTimeout,
		})
		if err != nil {
			return "", err
		}
		if !res.Ok() {
			return "", fmt.Errorf("winget exited %d: %s", res.ExitCode, firstLine(res.Stderr))
		}
		return "", nil

	case tool.TypeDownload:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dest := filepath.Join(home, strat.File)
		hint := fmt.Sprintf("installer saved to %s — run it, restart your terminal, then re-run devboot", dest)

		// A previously downloaded artifact is reused, not re-fetched.
		if _, err := b.stat(dest); err == nil {
			slog.Debug("installer already downloaded", "tool", spec.Name, "path", dest)
			return hint, nil
		}

		fmt.Fprintf(b.out, "%s downloading installer for %s\n", ui.WarnTag(), spec.Command)
		res, err := b.runner.Run(ctx, execrun.Invocation{
			Path:    "curl",
			Args:    []string{"-fsSL", strat.URL, "-o", dest},
			Env:     b.env,
			Timeout: installTimeout,
		})
		if err != nil {
			return "", err
		}
		if !res.Ok() {
			return "", fmt.Errorf("download failed (curl exited %d): %s", res.ExitCode, firstLine(res.Stderr))
		}
		return hint, nil

	default:
		return "", fmt.Errorf("unknown install strategy %q", strat.Type)
	}
}
