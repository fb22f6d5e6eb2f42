package bootstrap

import "github.com/superclaud/devboot/internal/tool"

// State tracks a tool's progress through the bootstrap sequence. Transitions
// never skip a predecessor: UNPROBED -> FOUND|NOT_FOUND,
// NOT_FOUND -> INSTALLED|INSTALL_FAILED, FOUND|INSTALLED ->
// AUTHENTICATED|AUTH_FAILED, AUTHENTICATED -> CONFIGURED.
type State int

const (
	StateUnprobed State = iota
	StateFound
	StateNotFound
	StateInstalled
	StateInstallFailed
	StateAuthenticated
	StateAuthFailed
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateUnprobed:
		return "unprobed"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not-found"
	case StateInstalled:
		return "installed"
	case StateInstallFailed:
		return "install-failed"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthFailed:
		return "auth-failed"
	case StateConfigured:
		return "configured"
	}
	return "unknown"
}

// Terminal reports whether the state ends the sequence.
func (s State) Terminal() bool {
	switch s {
	case StateInstallFailed, StateAuthFailed, StateConfigured:
		return true
	}
	return false
}

// Installation is the per-run record for one tool. Constructed fresh per
// bootstrap run and never persisted; all durable state lives in the external
// tools' own config files.
type Installation struct {
	Spec  tool.Spec
	State State

	// ResolvedPath is set only after a verifying existence check.
	ResolvedPath string
	Version      string

	IsAuthenticated bool
	Identity        string

	// ConfiguredValues are the keys successfully applied this run.
	ConfiguredValues map[string]string

	// Snapshot is the tool's config read-back from the verify stage.
	Snapshot string
}
