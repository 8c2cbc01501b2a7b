package feature

import (
	"fmt"
	"sort"
	"strings"
)

// Set is an immutable, sorted set of resolved capability flags
type Set struct {
	flags []Flag
}

// NewSet builds a Set from flags, deduplicating and sorting
func NewSet(flags ...Flag) Set {
	seen := make(map[Flag]bool, len(flags))
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		if f.IsZero() || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return Set{flags: out}
}

// Has reports whether f is in the set
func (s Set) Has(f Flag) bool {
	for _, v := range s.flags {
		if v == f {
			return true
		}
	}
	return false
}

// List returns the flags in sorted order
func (s Set) List() []Flag {
	out := make([]Flag, len(s.flags))
	copy(out, s.flags)
	return out
}

// Names returns the flag names in sorted order
func (s Set) Names() []string {
	out := make([]string, len(s.flags))
	for i, f := range s.flags {
		out[i] = f.name
	}
	return out
}

// Len returns the number of flags in the set
func (s Set) Len() int {
	return len(s.flags)
}

// Equal reports whether two sets contain the same flags
func (s Set) Equal(o Set) bool {
	if len(s.flags) != len(o.flags) {
		return false
	}
	for i := range s.flags {
		if s.flags[i] != o.flags[i] {
			return false
		}
	}
	return true
}

// String implements the Stringer interface
func (s Set) String() string {
	return strings.Join(s.Names(), ",")
}

// ConflictError reports two flags that ended up enabled together despite
// being declared mutually exclusive. It aborts engine construction.
type ConflictError struct {
	A, B Flag
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflicting capability flags: %q and %q cannot both be enabled", e.A, e.B)
}

// UnknownFlagError reports a requested flag the manifest does not declare
type UnknownFlagError struct {
	Name string
}

func (e UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown capability flag %q", e.Name)
}

// Resolve computes the capability set for a request: the union of the
// manifest's platform defaults and the requested flags, closed transitively
// under implication. Requested flags must be declared in the manifest.
// After closure, any enabled pair declared conflicting fails resolution.
//
// Resolve is deterministic: equal manifests and equal requests produce equal
// sets, and resolving an already-resolved set returns an equal set.
func Resolve(m Manifest, requested []Flag) (Set, error) {
	enabled := make(map[Flag]bool)
	var queue []Flag

	for _, f := range m.Defaults() {
		if !enabled[f] {
			enabled[f] = true
			queue = append(queue, f)
		}
	}
	for _, f := range requested {
		if !m.Declared(f) {
			return Set{}, UnknownFlagError{Name: f.Value()}
		}
		if !enabled[f] {
			enabled[f] = true
			queue = append(queue, f)
		}
	}

	// Transitive implication closure. The queue only ever holds declared
	// flags, and NewManifest guarantees implications reference declared
	// flags, so the walk cannot escape the manifest.
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		decl, _ := m.Declaration(f)
		for _, imp := range decl.Implies {
			if !enabled[imp] {
				enabled[imp] = true
				queue = append(queue, imp)
			}
		}
	}

	flags := make([]Flag, 0, len(enabled))
	for f := range enabled {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].name < flags[j].name })

	// Conflict check runs over the closed set so implied flags count too.
	// Sorted iteration keeps the reported pair deterministic.
	for i, a := range flags {
		for _, b := range flags[i+1:] {
			if m.conflictsWith(a, b) {
				return Set{}, ConflictError{A: a, B: b}
			}
		}
	}

	return Set{flags: flags}, nil
}
