package feature

import (
	"fmt"
	"sort"
)

// Declaration describes one flag in a manifest: the flags it pulls in, the
// flags it cannot coexist with, and whether it is enabled by default.
type Declaration struct {
	Flag      Flag
	Implies   []Flag
	Conflicts []Flag
	Default   bool
}

// Manifest is the immutable flag vocabulary resolution runs against.
// Declaring a conflict on either side of a pair is enough; the manifest
// stores it symmetrically.
type Manifest struct {
	decls map[Flag]Declaration
	order []Flag
}

// NewManifest validates the declarations and builds a Manifest. Every flag
// referenced by an implication or conflict must itself be declared, a flag
// cannot imply or conflict with itself, and duplicate declarations are
// rejected.
func NewManifest(decls ...Declaration) (Manifest, error) {
	m := Manifest{decls: make(map[Flag]Declaration, len(decls))}
	for _, d := range decls {
		if d.Flag.IsZero() {
			return Manifest{}, fmt.Errorf("manifest declares a zero-value flag")
		}
		if _, dup := m.decls[d.Flag]; dup {
			return Manifest{}, fmt.Errorf("manifest declares flag %q twice", d.Flag)
		}
		m.decls[d.Flag] = d
		m.order = append(m.order, d.Flag)
	}

	for _, d := range decls {
		for _, imp := range d.Implies {
			if imp == d.Flag {
				return Manifest{}, fmt.Errorf("flag %q implies itself", d.Flag)
			}
			if _, ok := m.decls[imp]; !ok {
				return Manifest{}, fmt.Errorf("flag %q implies undeclared flag %q", d.Flag, imp)
			}
		}
		for _, con := range d.Conflicts {
			if con == d.Flag {
				return Manifest{}, fmt.Errorf("flag %q conflicts with itself", d.Flag)
			}
			if _, ok := m.decls[con]; !ok {
				return Manifest{}, fmt.Errorf("flag %q conflicts with undeclared flag %q", d.Flag, con)
			}
		}
	}

	sort.Slice(m.order, func(i, j int) bool { return m.order[i].name < m.order[j].name })
	return m, nil
}

// Declared reports whether the manifest declares f
func (m Manifest) Declared(f Flag) bool {
	_, ok := m.decls[f]
	return ok
}

// Flags returns every declared flag in sorted order
func (m Manifest) Flags() []Flag {
	out := make([]Flag, len(m.order))
	copy(out, m.order)
	return out
}

// Declaration returns the declaration for f
func (m Manifest) Declaration(f Flag) (Declaration, bool) {
	d, ok := m.decls[f]
	return d, ok
}

// Defaults returns the platform-default flags in sorted order
func (m Manifest) Defaults() []Flag {
	var out []Flag
	for _, f := range m.order {
		if m.decls[f].Default {
			out = append(out, f)
		}
	}
	return out
}

// conflictsWith reports whether a and b are declared conflicting on either
// side of the pair.
func (m Manifest) conflictsWith(a, b Flag) bool {
	for _, c := range m.decls[a].Conflicts {
		if c == b {
			return true
		}
	}
	for _, c := range m.decls[b].Conflicts {
		if c == a {
			return true
		}
	}
	return false
}

var builtin = mustManifest(
	Declaration{Flag: Term, Default: true},
	Declaration{Flag: AltScreen, Implies: []Flag{Term}, Default: true},
	Declaration{Flag: Inline, Implies: []Flag{Term}, Default: true},
	Declaration{Flag: Mouse, Implies: []Flag{Term}, Default: true},
	Declaration{Flag: MouseAllMotion, Implies: []Flag{Mouse}, Conflicts: []Flag{MouseCellMotion}, Default: true},
	Declaration{Flag: MouseCellMotion, Implies: []Flag{Mouse}, Conflicts: []Flag{MouseAllMotion}},
	Declaration{Flag: Color, Default: true},
	Declaration{Flag: Color256, Implies: []Flag{Color}},
	Declaration{Flag: TrueColor, Implies: []Flag{Color256}, Default: true},
	Declaration{Flag: UnicodeTiles, Default: true},
	Declaration{Flag: PNG, Default: true},
	Declaration{Flag: HUD, Default: true},
	Declaration{Flag: DebugGrid, Default: true},
)

func mustManifest(decls ...Declaration) Manifest {
	m, err := NewManifest(decls...)
	if err != nil {
		panic(err)
	}
	return m
}

// Default returns the built-in engine manifest. AltScreen and Inline are
// both default-enabled on purpose: which one wins is a runtime decision
// keyed on whether stdout is a terminal, not a resolution-time conflict.
func Default() Manifest {
	return builtin
}
