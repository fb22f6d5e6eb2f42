// Package tool defines the registry of external developer tools that devboot
// knows how to locate, install, authenticate, and configure.
package tool

// InstallType defines how an install strategy acquires a tool.
type InstallType string

const (
	// TypeWinget installs via the Windows package manager.
	TypeWinget InstallType = "winget"
	// TypeDownload fetches a vendor installer artifact to the user's home
	// directory. The user still runs the installer; devboot re-probes after.
	TypeDownload InstallType = "download"
)

// InstallStrategy is one entry in a tool's ordered install fallback chain.
// Strategies are tried in declared order until one succeeds.
type InstallStrategy struct {
	Type InstallType `yaml:"type"`

	// Package is the winget package identifier (winget type).
	Package string `yaml:"package,omitempty"`

	// URL and File describe the installer artifact (download type).
	// File is the name the artifact is saved under in the home directory.
	URL  string `yaml:"url,omitempty"`
	File string `yaml:"file,omitempty"`
}

// AuthSpec holds the tool's own authentication subcommands.
type AuthSpec struct {
	// Status is a read-only probe; exit 0 with non-empty output means an
	// authenticated session already exists and login is skipped.
	Status []string `yaml:"status"`
	// Login is the interactive login flow (browser or device code).
	Login []string `yaml:"login"`
	// Identity reads back the authenticated account after login.
	Identity []string `yaml:"identity"`
}

// ConfigSpec holds the tool's configuration subcommands and the fixed values
// devboot applies after authentication.
type ConfigSpec struct {
	// Set is the subcommand prefix; key and value are appended per entry.
	// Empty means the tool's configuration is read-only for devboot.
	Set []string `yaml:"set,omitempty"`
	// List reads back the full configuration for verification.
	List []string `yaml:"list"`
	// Defaults are the values applied after authentication. Overridable
	// through the global config file without editing the registry.
	Defaults map[string]string `yaml:"defaults,omitempty"`
}

// Spec describes one bootstrappable tool.
type Spec struct {
	// Name is the registry key, e.g. "google-cloud-sdk". Set on load.
	Name string `yaml:"-"`

	Description string `yaml:"description,omitempty"`

	// Command is the primary executable name, e.g. "gcloud".
	Command string `yaml:"command"`

	// Binaries are candidate executable names probed on PATH before the
	// fixed candidate paths. Defaults to [Command] when empty.
	Binaries []string `yaml:"binaries,omitempty"`

	// CandidatePaths are fixed install locations probed in declared order,
	// most likely first. Entries may reference environment variables in
	// either %VAR% or ${VAR} form.
	CandidatePaths []string `yaml:"candidate-paths,omitempty"`

	// VersionArgs invoke the tool's version report, used as the "does this
	// executable actually work" check after locating it.
	VersionArgs []string `yaml:"version-args"`

	Auth    *AuthSpec         `yaml:"auth,omitempty"`
	Config  *ConfigSpec       `yaml:"config,omitempty"`
	Install []InstallStrategy `yaml:"install,omitempty"`

	// Aliases are alternative registry lookup names, e.g. "gcloud".
	Aliases []string `yaml:"aliases,omitempty"`

	// VendorURL is included in remedy messages when the tool cannot be
	// located or installed.
	VendorURL string `yaml:"vendor-url,omitempty"`
}

// BinaryNames returns the PATH probe candidates for the tool.
func (s Spec) BinaryNames() []string {
	if len(s.Binaries) > 0 {
		return s.Binaries
	}
	return []string{s.Command}
}

// HasAuth reports whether the tool has an authentication flow.
func (s Spec) HasAuth() bool {
	return s.Auth != nil && len(s.Auth.Login) > 0
}

// Configurable reports whether devboot may write configuration values.
func (s Spec) Configurable() bool {
	return s.Config != nil && len(s.Config.Set) > 0
}

// ConfigValues returns the default configuration values, never nil.
func (s Spec) ConfigValues() map[string]string {
	if s.Config == nil || s.Config.Defaults == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(s.Config.Defaults))
	for k, v := range s.Config.Defaults {
		out[k] = v
	}
	return out
}
