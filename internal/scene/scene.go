// Package scene renders generated grid content as a terminal frame: glyph
// tiles with colours, a pannable camera with layer slicing, overlays and a
// HUD. The renderer is an engine plugin; generation and picking plugins feed
// it cells, markers and cursor state.
package scene

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// Asset is the visual for one model template. Glyphs get a two-column budget
// per cell; wider glyphs are truncated, narrower ones padded.
type Asset struct {
	// Glyph is the tile art, usually one double-width rune or two narrow ones.
	Glyph string
	// Fallback replaces Glyph when the unicode-tiles capability is off.
	Fallback string
	FG       lipgloss.Color
	BG       lipgloss.Color
	// Offset places the asset away from its node, in grid coordinates.
	// Props like tree crowns reach into neighbouring cells this way.
	Offset grid.Delta
	// Directional overrides the glyph per model rotation (a bridge renders
	// ═ at r0 and ║ at r90).
	Directional map[tileset.Rotation]string
	// Animation cycles the glyph over time.
	Animation *FrameAnimation
	// Variants picks one glyph per node, seeded, for organic repetition.
	Variants []string
}

// FrameAnimation cycles Frames at a fixed interval.
type FrameAnimation struct {
	Frames   []string
	Interval time.Duration
}

// AssetMap binds a model template index to its assets. A template may carry
// several assets when its art spans more than one cell.
type AssetMap map[int][]Asset

// Palette is the per-example colour scheme.
type Palette struct {
	Background lipgloss.Color
	Void       lipgloss.Color
	GridLine   lipgloss.Color
	HUDAccent  lipgloss.Color
	HUDText    lipgloss.Color
	Hover      lipgloss.Color
	Selection  lipgloss.Color
	Failure    lipgloss.Color
}

// DefaultPalette is a neutral dark scheme; examples override the accents.
func DefaultPalette() Palette {
	return Palette{
		Background: lipgloss.Color("#1a1a1f"),
		Void:       lipgloss.Color("#26262e"),
		GridLine:   lipgloss.Color("#3a3a45"),
		HUDAccent:  lipgloss.Color("#5fd7af"),
		HUDText:    lipgloss.Color("#8a8a96"),
		Hover:      lipgloss.Color("#2f5fd7"),
		Selection:  lipgloss.Color("#5f87ff"),
		Failure:    lipgloss.Color("#d75f5f"),
	}
}

// Cell is one spawned tile as the generation plugin reports it.
type Cell struct {
	Template int
	Rotation tileset.Rotation
	Name     string
	// SpawnedAt drives the fade-in; the zero time renders fully lit.
	SpawnedAt time.Time
}

// GenInfo is the generation state the HUD status line shows.
type GenInfo struct {
	Seed      uint64
	Status    string
	Attempt   int
	Generated int
	Total     int
}

// MarkerKind selects a marker style.
type MarkerKind uint8

const (
	MarkerSelected MarkerKind = iota
	MarkerFailed
)
