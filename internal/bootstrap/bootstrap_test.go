package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superclaud/devboot/internal/execrun"
	"github.com/superclaud/devboot/internal/tool"
)

// fakeRunner records every invocation and answers from caller-supplied hooks.
type fakeRunner struct {
	calls       []execrun.Invocation
	interactive []execrun.Invocation

	onRun         func(inv execrun.Invocation) (execrun.Result, error)
	onInteractive func(inv execrun.Invocation) error
}

func (f *fakeRunner) Run(_ context.Context, inv execrun.Invocation) (execrun.Result, error) {
	f.calls = append(f.calls, inv)
	if f.onRun != nil {
		return f.onRun(inv)
	}
	return execrun.Result{}, nil
}

func (f *fakeRunner) RunInteractive(_ context.Context, inv execrun.Invocation) error {
	f.interactive = append(f.interactive, inv)
	if f.onInteractive != nil {
		return f.onInteractive(inv)
	}
	return nil
}

// mutating returns the recorded calls that would change machine state:
// package installs, downloads, config writes, plus every interactive login.
func (f *fakeRunner) mutating() []execrun.Invocation {
	var out []execrun.Invocation
	for _, inv := range f.calls {
		if inv.Path == "winget" || inv.Path == "curl" {
			out = append(out, inv)
			continue
		}
		if len(inv.Args) >= 2 && inv.Args[0] == "config" && inv.Args[1] == "set" {
			out = append(out, inv)
		}
	}
	return append(out, f.interactive...)
}

func argsJoined(inv execrun.Invocation) string {
	return strings.Join(inv.Args, " ")
}

type fakeInfo struct{ dir bool }

func (fakeInfo) Name() string      { return "" }
func (fakeInfo) Size() int64       { return 0 }
func (f fakeInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir
	}
	return 0
}
func (fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool      { return f.dir }
func (fakeInfo) Sys() any           { return nil }

func statFor(existing map[string]bool) func(string) (os.FileInfo, error) {
	return func(p string) (os.FileInfo, error) {
		if existing[p] {
			return fakeInfo{}, nil
		}
		return nil, os.ErrNotExist
	}
}

func noLookPath(string) (string, error) { return "", exec.ErrNotFound }

func cloudSpec() tool.Spec {
	return tool.Spec{
		Name:    "google-cloud-sdk",
		Command: "gcloud",
		CandidatePaths: []string{
			"/opt/sdk/bin/gcloud",
			"/usr/lib/sdk/bin/gcloud",
		},
		VersionArgs: []string{"version"},
		Auth: &tool.AuthSpec{
			Status:   []string{"auth", "list", "--format=value(account)"},
			Login:    []string{"auth", "login"},
			Identity: []string{"config", "get-value", "account"},
		},
		Config: &tool.ConfigSpec{
			Set:  []string{"config", "set"},
			List: []string{"config", "list"},
			Defaults: map[string]string{
				"core/project":   "superclaud",
				"compute/region": "asia-northeast3",
			},
		},
		Install: []tool.InstallStrategy{
			{Type: tool.TypeWinget, Package: "Google.CloudSDK"},
		},
		VendorURL: "https://cloud.google.com/sdk/docs/install",
	}
}

func newTestBootstrapper(r execrun.Runner, existing map[string]bool) (*Bootstrapper, *bytes.Buffer) {
	var out bytes.Buffer
	b := New(r,
		WithStat(statFor(existing)),
		WithLookPath(noLookPath),
		WithOutput(&out),
	)
	return b, &out
}

// --- Run: full sequence ---

// A present but unauthenticated tool gets exactly one login subprocess, then
// configure and verify.
func TestRunPresentUnauthenticated(t *testing.T) {
	spec := cloudSpec()
	authed := false
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			switch {
			case argsJoined(inv) == "version":
				return execrun.Result{Stdout: "Google Cloud SDK 502.0.0"}, nil
			case inv.Args[0] == "auth" && inv.Args[1] == "list":
				if authed {
					return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
				}
				return execrun.Result{Stdout: ""}, nil
			case argsJoined(inv) == "config get-value account":
				return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
			case inv.Args[0] == "config" && inv.Args[1] == "set":
				return execrun.Result{}, nil
			case argsJoined(inv) == "config list":
				return execrun.Result{Stdout: "project = superclaud\nregion = asia-northeast3"}, nil
			}
			return execrun.Result{ExitCode: 1}, nil
		},
		onInteractive: func(inv execrun.Invocation) error {
			authed = true
			return nil
		},
	}
	b, _ := newTestBootstrapper(runner, map[string]bool{"/opt/sdk/bin/gcloud": true})

	inst, err := b.Run(context.Background(), spec, Options{})
	require.NoError(t, err)

	assert.Equal(t, StateConfigured, inst.State)
	assert.Equal(t, "/opt/sdk/bin/gcloud", inst.ResolvedPath)
	assert.True(t, inst.IsAuthenticated)
	assert.Equal(t, "dev@superclaud.dev", inst.Identity)
	assert.Len(t, runner.interactive, 1, "exactly one auth login subprocess")
	assert.Equal(t, []string{"auth", "login"}, runner.interactive[0].Args)
	assert.Contains(t, inst.Snapshot, "project = superclaud")
	assert.Equal(t, "superclaud", inst.ConfiguredValues["core/project"])
}

// An absent tool whose install strategies all fail halts with the vendor URL
// in the remedy and never reaches authentication.
func TestRunAbsentInstallFails(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			if inv.Path == "winget" {
				return execrun.Result{ExitCode: 1, Stderr: "no source found"}, nil
			}
			return execrun.Result{ExitCode: 1}, nil
		},
	}
	b, _ := newTestBootstrapper(runner, map[string]bool{})

	inst, err := b.Run(context.Background(), spec, Options{})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.Contains(t, err.Error(), spec.VendorURL, "remedy must name the vendor download URL")
	assert.Equal(t, StateInstallFailed, inst.State)
	assert.Empty(t, runner.interactive, "no authentication attempted after install failure")
}

// Install succeeding mid-run transitions NOT_FOUND -> INSTALLED and the
// sequence continues.
func TestRunInstallsThenProceeds(t *testing.T) {
	spec := cloudSpec()
	existing := map[string]bool{}
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			switch {
			case inv.Path == "winget":
				existing["/opt/sdk/bin/gcloud"] = true
				return execrun.Result{}, nil
			case argsJoined(inv) == "version":
				return execrun.Result{Stdout: "Google Cloud SDK 502.0.0"}, nil
			case inv.Args[0] == "auth":
				return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
			case argsJoined(inv) == "config get-value account":
				return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
			case argsJoined(inv) == "config list":
				return execrun.Result{Stdout: "project = superclaud\nregion = asia-northeast3"}, nil
			}
			return execrun.Result{}, nil
		},
	}
	b, _ := newTestBootstrapper(runner, existing)

	inst, err := b.Run(context.Background(), spec, Options{})
	require.NoError(t, err)

	assert.Equal(t, StateConfigured, inst.State)
	assert.Empty(t, runner.interactive, "existing session short-circuits login")
}

// Declining the install confirmation aborts without touching the machine.
func TestRunUserAbortsInstall(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{}
	b := New(runner,
		WithStat(statFor(nil)),
		WithLookPath(noLookPath),
		WithOutput(&bytes.Buffer{}),
		WithConfirm(func(string) (bool, error) { return false, nil }),
	)

	_, err := b.Run(context.Background(), spec, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAbort)
	assert.Empty(t, runner.mutating())
}

// --- Run: check-only ---

func TestCheckOnlyNeverMutates(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			if argsJoined(inv) == "config list" {
				return execrun.Result{Stdout: "project = superclaud\nregion = asia-northeast3"}, nil
			}
			t.Errorf("unexpected subprocess in check-only run: %s %s", inv.Path, argsJoined(inv))
			return execrun.Result{ExitCode: 1}, nil
		},
	}
	b, _ := newTestBootstrapper(runner, map[string]bool{"/opt/sdk/bin/gcloud": true})

	inst, err := b.Run(context.Background(), spec, Options{CheckOnly: true})
	require.NoError(t, err)

	assert.Equal(t, StateFound, inst.State)
	assert.Empty(t, runner.mutating(), "check-only must perform zero mutating subprocess calls")
}

func TestCheckOnlyReportsIncomplete(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			return execrun.Result{Stdout: "project = something-else"}, nil
		},
	}
	b, _ := newTestBootstrapper(runner, map[string]bool{"/opt/sdk/bin/gcloud": true})

	_, err := b.Run(context.Background(), spec, Options{CheckOnly: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration incomplete")
	assert.Empty(t, runner.mutating())
}

func TestCheckOnlyAbsentTool(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, map[string]bool{})

	inst, err := b.Run(context.Background(), cloudSpec(), Options{CheckOnly: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateNotFound, inst.State)
	assert.Empty(t, runner.calls, "no subprocess at all when the tool is absent")
}

// --- EnsureInstalled ---

func TestEnsureInstalledIdempotent(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, map[string]bool{"/opt/sdk/bin/gcloud": true})

	for i := 0; i < 2; i++ {
		path, err := b.EnsureInstalled(context.Background(), spec, nil)
		require.NoError(t, err)
		assert.Equal(t, "/opt/sdk/bin/gcloud", path)
	}
	assert.Empty(t, runner.calls, "present tool must trigger zero install actions")
}

// --- Authenticate ---

func TestAuthenticateShortCircuit(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			switch {
			case inv.Args[0] == "auth":
				return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
			case argsJoined(inv) == "config get-value account":
				return execrun.Result{Stdout: "dev@superclaud.dev"}, nil
			}
			return execrun.Result{ExitCode: 1}, nil
		},
	}
	b, _ := newTestBootstrapper(runner, nil)

	res, err := b.Authenticate(context.Background(), spec, "/opt/sdk/bin/gcloud")
	require.NoError(t, err)
	assert.True(t, res.AlreadyAuthenticated)
	assert.Equal(t, "dev@superclaud.dev", res.Identity)
	assert.Empty(t, runner.interactive)
}

func TestAuthenticateFailure(t *testing.T) {
	spec := cloudSpec()
	runner := &fakeRunner{
		onRun: func(inv execrun.Invocation) (execrun.Result, error) {
			return execrun.Result{ExitCode: 1}, nil
		},
		onInteractive: func(inv execrun.Invocation) error {
			return errors.New("exit status 1")
		},
	}
	b, _ := newTestBootstrapper(runner, nil)

	_, err := b.Authenticate(context.Background(), spec, "/opt/sdk/bin/gcloud")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Len(t, runner.interactive, 1, "login is not retried automatically")
}

func TestAuthenticateNoAuthFlow(t *testing.T) {
	gitSpec := tool.Spec{Name: "git", Command: "git"}
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, nil)

	res, err := b.Authenticate(context.Background(), gitSpec, "/usr/bin/git")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, runner.calls)
}
