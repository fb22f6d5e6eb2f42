package cli

import (
	"errors"

	"github.com/superclaud/devboot/internal/bootstrap"
)

// Exit codes for the bootstrap command.
const (
	ExitOK            = 0
	ExitNotInstalled  = 1 // tool not found and install failed, or check-only incomplete
	ExitAuthFailed    = 2 // authentication failed or aborted
	ExitConfigPartial = 3 // one or more configuration keys failed to apply
)

// ExitCode maps an error from Execute to the documented process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var partial *bootstrap.PartialConfigError
	if errors.As(err, &partial) {
		return ExitConfigPartial
	}
	if errors.Is(err, bootstrap.ErrAuthFailed) || errors.Is(err, bootstrap.ErrUserAbort) {
		return ExitAuthFailed
	}
	// Covers ErrNotFound, ErrInstallFailed, and anything unexpected.
	return ExitNotInstalled
}
