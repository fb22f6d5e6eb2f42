// Package doctor provides diagnostic output for debugging a devboot setup.
package doctor

import (
	"fmt"
	"io"

	"github.com/superclaud/devboot/internal/ui"
)

// Section represents a diagnostic section that can be printed.
type Section interface {
	// Name returns the section name (e.g., "Tools").
	Name() string

	// Print outputs the section's diagnostic information to the writer.
	Print(w io.Writer) error
}

// Registry holds all registered doctor sections.
type Registry struct {
	sections []Section
}

// NewRegistry creates a new doctor section registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns all registered sections.
func (r *Registry) Sections() []Section {
	return r.sections
}

// Run prints every section with its header. A failing section is reported
// inline and does not stop the rest.
func (r *Registry) Run(w io.Writer) {
	for _, section := range r.sections {
		ui.Section(section.Name())
		if err := section.Print(w); err != nil {
			fmt.Fprintf(w, "%s %v\n", ui.FailTag(), err)
		}
		fmt.Fprintln(w)
	}
}
