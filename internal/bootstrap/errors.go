package bootstrap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a tool is absent after probing every
	// candidate location.
	ErrNotFound = errors.New("tool not found")
	// ErrInstallFailed is returned when no install strategy yielded a
	// working executable.
	ErrInstallFailed = errors.New("installation failed")
	// ErrAuthFailed is returned when the tool's login subprocess exited
	// non-zero or was aborted.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrUserAbort is returned when the user declined an interactive step.
	ErrUserAbort = errors.New("aborted by user")
)

// StageError wraps a stage failure with the tool name and an actionable hint
// surfaced to the user. Failures halt progression to later stages.
type StageError struct {
	Tool  string
	Cause error
	Hint  string
}

func (e *StageError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("bootstrap %s: %v\n\n%s", e.Tool, e.Cause, e.Hint)
	}
	return fmt.Sprintf("bootstrap %s: %v", e.Tool, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// PartialConfigError reports a configure stage where some keys applied and
// others were rejected by the underlying tool. It is the one non-halting
// failure: remaining keys are still attempted and the aggregate is reported.
type PartialConfigError struct {
	Tool    string
	Applied []string
	Failed  map[string]string // key -> tool's error text
}

func (e *PartialConfigError) Error() string {
	keys := make([]string, 0, len(e.Failed))
	for k := range e.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("configure %s: %d of %d keys failed to apply: %s",
		e.Tool, len(e.Failed), len(e.Failed)+len(e.Applied), strings.Join(keys, ", "))
}
