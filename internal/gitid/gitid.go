// Package gitid reads the user's global git identity.
//
// The bootstrapper treats git configuration as read-only: the identity is
// reported in doctor output so the user knows whether commits will be
// attributed correctly, but devboot never writes it.
package gitid

import (
	gitconfig "github.com/go-git/go-git/v5/config"
)

// Identity is the global git user identity.
type Identity struct {
	Name  string
	Email string
}

// Configured reports whether both name and email are set.
func (i Identity) Configured() bool {
	return i.Name != "" && i.Email != ""
}

// Load reads the global gitconfig. A missing file yields a zero Identity,
// not an error; errors mean the config exists but could not be parsed.
func Load() (Identity, error) {
	cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Name:  cfg.User.Name,
		Email: cfg.User.Email,
	}, nil
}
