package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

// AuthResult is the outcome of the authenticate stage.
type AuthResult struct {
	// Skipped means the tool has no authentication flow (e.g. git).
	Skipped bool
	// AlreadyAuthenticated means a session existed and login was not run.
	AlreadyAuthenticated bool
	// Identity is the authenticated account, when the tool reports one.
	Identity string
}

// Authenticate ensures the tool has an authenticated session. An existing
// session short-circuits the login flow; otherwise the tool's own interactive
// login runs as a blocking foreground subprocess. Login is never retried
// automatically — a failed browser flow needs a human, not a loop.
func (b *Bootstrapper) Authenticate(ctx context.Context, spec tool.Spec, path string) (AuthResult, error) {
	if !spec.HasAuth() {
		return AuthResult{Skipped: true}, nil
	}

	if identity, ok := b.authStatus(ctx, spec, path); ok {
		return AuthResult{AlreadyAuthenticated: true, Identity: identity}, nil
	}

	ok, err := b.askConfirm(fmt.Sprintf("%s is not authenticated. Open the login flow now?", spec.Command))
	if err != nil || !ok {
		return AuthResult{}, &StageError{
			Tool:  spec.Name,
			Cause: ErrUserAbort,
			Hint:  fmt.Sprintf("authenticate manually with: %s %s", spec.Command, strings.Join(spec.Auth.Login, " ")),
		}
	}

	fmt.Fprintf(b.out, "%s opening %s login (this may launch a browser)\n", ui.WarnTag(), spec.Command)
	if err := b.runner.RunInteractive(ctx, execrun.Invocation{Path: path, Args: spec.Auth.Login, Env: b.env}); err != nil {
		return AuthResult{}, &StageError{
			Tool:  spec.Name,
			Cause: ErrAuthFailed,
			Hint: fmt.Sprintf("login did not complete — check your network and browser, then run: %s %s",
				spec.Command, strings.Join(spec.Auth.Login, " ")),
		}
	}

	return AuthResult{Identity: b.identity(ctx, spec, path)}, nil
}

// authStatus probes for an existing session using the tool's read-only status
// command. Authenticated means exit zero with a non-empty stdout; tools that
// have no active session either exit non-zero (gh) or print nothing to
// stdout (gcloud with no active account).
func (b *Bootstrapper) authStatus(ctx context.Context, spec tool.Spec, path string) (string, bool) {
	if len(spec.Auth.Status) == 0 {
		return "", false
	}
	res, err := b.run(ctx, path, spec.Auth.Status)
	if err != nil || !res.Ok() || strings.TrimSpace(res.Stdout) == "" {
		slog.Debug("no existing session", "tool", spec.Name)
		return "", false
	}
	return b.identity(ctx, spec, path), true
}

// identity reads back the authenticated account. Best effort; an empty
// identity is reported as such rather than failing the stage.
func (b *Bootstrapper) identity(ctx context.Context, spec tool.Spec, path string) string {
	if len(spec.Auth.Identity) == 0 {
		return ""
	}
	res, err := b.run(ctx, path, spec.Auth.Identity)
	if err != nil || !res.Ok() {
		return ""
	}
	return firstLine(strings.TrimSpace(res.Stdout))
}
