package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/superclaud/devboot/internal/tool"
)

// Locate resolves the tool's executable: first a PATH lookup of the candidate
// binary names, then the fixed candidate paths in declared order. The first
// existing match wins, so results are deterministic on machines with more
// than one install. Pure probe; no subprocess is invoked.
func (b *Bootstrapper) Locate(spec tool.Spec, extraPaths []string) (string, error) {
	for _, bin := range spec.BinaryNames() {
		if path, err := b.lookPath(bin); err == nil {
			slog.Debug("located on PATH", "tool", spec.Name, "path", path)
			return path, nil
		}
	}

	candidates := make([]string, 0, len(extraPaths)+len(spec.CandidatePaths))
	candidates = append(candidates, extraPaths...)
	candidates = append(candidates, spec.CandidatePaths...)

	for _, raw := range candidates {
		path := ExpandPath(raw)
		if path == "" {
			continue
		}
		fi, err := b.stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		slog.Debug("located at candidate path", "tool", spec.Name, "path", path)
		return path, nil
	}

	return "", &StageError{
		Tool:  spec.Name,
		Cause: ErrNotFound,
		Hint:  fmt.Sprintf("%s is not installed at any known location — install manually from %s", spec.Command, spec.VendorURL),
	}
}

// ExpandPath expands environment references in a candidate path. Both the
// Windows %VAR% form and the ${VAR} form are accepted so one registry serves
// every platform. Unset variables expand to empty, which simply makes the
// candidate not match.
func ExpandPath(raw string) string {
	s := raw
	// Rewrite %VAR% pairs to ${VAR} before the standard expansion.
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			break
		}
		name := s[start+1 : start+1+end]
		s = s[:start] + "${" + name + "}" + s[start+2+end:]
	}
	expanded := os.Expand(s, func(name string) string {
		return os.Getenv(name)
	})
	// A path that lost its leading variable is not probe-worthy.
	if strings.HasPrefix(expanded, `\`) || expanded == "" {
		return ""
	}
	return expanded
}
