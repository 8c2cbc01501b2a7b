package example

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DuplicateNameError reports two descriptors claiming the same name at
// registry construction.
type DuplicateNameError struct {
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate example name %q", e.Name)
}

// UnknownExampleError reports a lookup for a name the registry does not
// hold. Known carries the full catalog for the diagnostic.
type UnknownExampleError struct {
	Name  string
	Known []string
}

func (e UnknownExampleError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown example %q", e.Name)
	}
	return fmt.Sprintf("unknown example %q (known examples: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Registry is the immutable example catalog. Build it once with NewRegistry
// and pass it to whoever dispatches; there is no mutation after that.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds the catalog, rejecting duplicate names.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	byName := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		if d.IsZero() {
			return nil, errors.New("registry cannot hold the zero descriptor")
		}
		if _, taken := byName[d.Name()]; taken {
			return nil, DuplicateNameError{Name: d.Name()}
		}
		byName[d.Name()] = d
	}
	return &Registry{byName: byName}, nil
}

// Lookup resolves a name to its descriptor.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, UnknownExampleError{Name: name, Known: r.Names()}
	}
	return d, nil
}

// Names lists the registered example names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors lists the catalog sorted by name, for the list command.
func (r *Registry) Descriptors() []Descriptor {
	descs := make([]Descriptor, 0, len(r.byName))
	for _, name := range r.Names() {
		descs = append(descs, r.byName[name])
	}
	return descs
}

// Len returns the number of registered examples.
func (r *Registry) Len() int {
	return len(r.byName)
}
