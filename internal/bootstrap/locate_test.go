package bootstrap

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superclaud/devboot/internal/tool"
)

func specWithPaths(paths ...string) tool.Spec {
	return tool.Spec{
		Name:           "mytool",
		Command:        "mytool",
		CandidatePaths: paths,
		VendorURL:      "https://example.com/mytool/install",
	}
}

// locate returns the first existing path in declared order, regardless of
// which other candidates also exist.
func TestLocateDeclaredOrderWins(t *testing.T) {
	fsState := map[string]bool{
		"/a/mytool": true,
		"/b/mytool": true,
		"/c/mytool": true,
	}

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"all exist, first declared wins", []string{"/a/mytool", "/b/mytool", "/c/mytool"}, "/a/mytool"},
		{"same filesystem, permuted declaration", []string{"/c/mytool", "/a/mytool", "/b/mytool"}, "/c/mytool"},
		{"first declared missing", []string{"/missing/mytool", "/b/mytool"}, "/b/mytool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBootstrapper(&fakeRunner{}, fsState)
			got, err := b.Locate(specWithPaths(tt.paths...), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateNotFound(t *testing.T) {
	b, _ := newTestBootstrapper(&fakeRunner{}, map[string]bool{})

	_, err := b.Locate(specWithPaths("/a/mytool", "/b/mytool"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "https://example.com/mytool/install")
}

func TestLocateExtraPathsProbedFirst(t *testing.T) {
	fsState := map[string]bool{
		"/custom/mytool": true,
		"/a/mytool":      true,
	}
	b, _ := newTestBootstrapper(&fakeRunner{}, fsState)

	got, err := b.Locate(specWithPaths("/a/mytool"), []string{"/custom/mytool"})
	require.NoError(t, err)
	assert.Equal(t, "/custom/mytool", got)
}

func TestLocatePathLookupBeforeCandidates(t *testing.T) {
	b := New(&fakeRunner{},
		WithStat(statFor(map[string]bool{"/a/mytool": true})),
		WithLookPath(func(name string) (string, error) {
			return "/usr/local/bin/" + name, nil
		}),
	)

	got, err := b.Locate(specWithPaths("/a/mytool"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/mytool", got)
}

func TestLocateSkipsDirectories(t *testing.T) {
	b := New(&fakeRunner{},
		WithStat(func(p string) (os.FileInfo, error) {
			if p == "/a/mytool" {
				return fakeInfo{dir: true}, nil
			}
			return fakeInfo{}, nil
		}),
		WithLookPath(noLookPath),
	)

	got, err := b.Locate(specWithPaths("/a/mytool", "/b/mytool"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/b/mytool", got)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("USERPROFILE", `C:\Users\dev`)
	t.Setenv("DEVBOOT_SDK_HOME", "/opt/sdk")

	tests := []struct {
		raw  string
		want string
	}{
		{`%USERPROFILE%\AppData\Local\Google\gcloud.cmd`, `C:\Users\dev\AppData\Local\Google\gcloud.cmd`},
		{"${DEVBOOT_SDK_HOME}/bin/gcloud", "/opt/sdk/bin/gcloud"},
		{"/usr/lib/google-cloud-sdk/bin/gcloud", "/usr/lib/google-cloud-sdk/bin/gcloud"},
		// Unset leading variable leaves nothing worth probing.
		{`%DEVBOOT_UNSET_VAR%\bin\tool.exe`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.raw), "raw %q", tt.raw)
	}
}
