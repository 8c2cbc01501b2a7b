// Package feature resolves engine capability flags. A manifest declares the
// flag vocabulary (implications, conflicts, platform defaults); Resolve turns
// a requested flag list into the closed, validated set the engine is built
// from. Resolution is pure: no environment reads, no I/O.
package feature

import "fmt"

// Flag is a value object naming one engine capability flag
type Flag struct {
	name string
}

// NewFlag creates a Flag with validation. Names are lowercase words joined
// by single dashes, e.g. "alt-screen".
func NewFlag(name string) (Flag, error) {
	if name == "" {
		return Flag{}, fmt.Errorf("capability flag name cannot be empty")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
			if i == 0 || i == len(name)-1 || name[i-1] == '-' {
				return Flag{}, fmt.Errorf("capability flag name %q has a misplaced dash", name)
			}
		default:
			return Flag{}, fmt.Errorf("capability flag name %q contains invalid character %q", name, c)
		}
	}
	return Flag{name: name}, nil
}

// ParseFlags converts raw flag names (CLI input) into Flags
func ParseFlags(names []string) ([]Flag, error) {
	flags := make([]Flag, 0, len(names))
	for _, name := range names {
		f, err := NewFlag(name)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, nil
}

// Value returns the flag name
func (f Flag) Value() string {
	return f.name
}

// String implements the Stringer interface
func (f Flag) String() string {
	return f.name
}

// IsZero reports whether the flag is the uninitialized zero value
func (f Flag) IsZero() bool {
	return f.name == ""
}

// The built-in engine capability vocabulary. Examples and the engine refer
// to these instead of re-parsing names.
var (
	// Term is the base terminal backend, implied by every windowing flag.
	Term = Flag{name: "term"}
	// AltScreen renders on the terminal's dedicated alternate screen.
	AltScreen = Flag{name: "alt-screen"}
	// Inline renders in the normal scrollback instead of the alternate
	// screen. AltScreen and Inline may both be enabled; the engine picks at
	// runtime based on whether stdout is a TTY.
	Inline = Flag{name: "inline"}
	// Mouse enables pointer input. The picking plugin refuses to register
	// without it.
	Mouse = Flag{name: "mouse"}
	// MouseAllMotion reports pointer motion even with no button down
	// (hover picking). Conflicts with MouseCellMotion.
	MouseAllMotion = Flag{name: "mouse-all-motion"}
	// MouseCellMotion reports motion only while a button is held.
	MouseCellMotion = Flag{name: "mouse-cell-motion"}
	// Color enables the 16-color palette.
	Color = Flag{name: "color"}
	// Color256 enables the 256-color palette.
	Color256 = Flag{name: "color-256"}
	// TrueColor enables 24-bit color output.
	TrueColor = Flag{name: "truecolor"}
	// UnicodeTiles selects double-width glyph tile assets; without it the
	// scene falls back to ASCII tiles.
	UnicodeTiles = Flag{name: "unicode-tiles"}
	// PNG enables the grid snapshot exporter.
	PNG = Flag{name: "png"}
	// HUD enables the status/help overlay.
	HUD = Flag{name: "hud"}
	// DebugGrid enables the grid-line and coordinate overlay.
	DebugGrid = Flag{name: "debug-grid"}
)
