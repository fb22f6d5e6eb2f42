package tool

import (
	_ "embed"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryData []byte

var (
	registry map[string]Spec
	aliases  map[string]string // alias -> canonical name
)

func init() {
	var raw map[string]Spec
	if err := yaml.Unmarshal(registryData, &raw); err != nil {
		panic("invalid registry.yaml: " + err.Error())
	}

	registry = make(map[string]Spec, len(raw))
	aliases = make(map[string]string)
	for name, spec := range raw {
		spec.Name = name
		registry[name] = spec
		for _, a := range spec.Aliases {
			aliases[a] = name
		}
	}
}

// Resolve returns the canonical registry name for a name or alias.
// Unknown names are returned as-is.
func Resolve(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Get returns a tool spec by name or alias.
func Get(name string) (Spec, bool) {
	s, ok := registry[Resolve(name)]
	return s, ok
}

// All returns all tool specs sorted by name.
func All() []Spec {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Spec, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

// Names returns all canonical tool names sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
