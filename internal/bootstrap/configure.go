package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/superclaud/devboot/internal/tool"
	"github.com/superclaud/devboot/internal/ui"
)

// Configure applies each configuration key through the tool's own config-set
// subcommand. Keys are independent and applied in sorted order for
// deterministic output; a rejected key is recorded and the remaining keys
// still apply. Re-applying identical values is a no-op in the underlying
// tool, so the stage is idempotent by delegation.
func (b *Bootstrapper) Configure(ctx context.Context, inst *Installation, path string, values map[string]string) error {
	spec := inst.Spec
	if !spec.Configurable() || len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applied := make(map[string]string, len(values))
	failed := make(map[string]string)

	for _, key := range keys {
		value := values[key]
		args := append(append([]string{}, spec.Config.Set...), key, value)
		res, err := b.run(ctx, path, args)
		switch {
		case err != nil:
			failed[key] = err.Error()
		case !res.Ok():
			msg := firstLine(res.Stderr)
			if msg == "" {
				msg = fmt.Sprintf("exit code %d", res.ExitCode)
			}
			failed[key] = msg
		default:
			applied[key] = value
		}

		if _, bad := failed[key]; bad {
			fmt.Fprintf(b.out, "%s %s = %s (%s)\n", ui.FailTag(), key, value, failed[key])
		} else {
			fmt.Fprintf(b.out, "%s %s = %s\n", ui.OKTag(), key, value)
		}
	}

	inst.ConfiguredValues = applied

	if len(failed) > 0 {
		appliedKeys := make([]string, 0, len(applied))
		for k := range applied {
			appliedKeys = append(appliedKeys, k)
		}
		sort.Strings(appliedKeys)
		return &PartialConfigError{Tool: spec.Name, Applied: appliedKeys, Failed: failed}
	}
	return nil
}

// Verify reads back the tool's full configuration. Pure read; no side
// effects, safe under --check-only.
func (b *Bootstrapper) Verify(ctx context.Context, spec tool.Spec, path string) (string, error) {
	if spec.Config == nil || len(spec.Config.List) == 0 {
		return "", nil
	}
	res, err := b.run(ctx, path, spec.Config.List)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("config read-back failed: %s", firstLine(res.Stderr))
	}
	return res.Stdout, nil
}

// SnapshotContains reports whether a config read-back shows the given key set
// to the given value. Keys with a section prefix ("core/project") match on
// the bare name, covering both gcloud's "project = x" and git's
// "user.name=x" formats.
func SnapshotContains(snapshot, key, value string) bool {
	name := key
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		name = key[i+1:]
	}
	for _, line := range strings.Split(snapshot, "\n") {
		line = strings.TrimSpace(line)
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if (k == name || strings.HasSuffix(k, "."+name)) && v == value {
			return true
		}
	}
	return false
}
