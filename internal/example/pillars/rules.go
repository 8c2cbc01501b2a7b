package pillars

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/scene"
	"github.com/tessera-labs/tessera/internal/tileset"
)

var (
	lichen     = lipgloss.Color("#6b7a4c")
	stoneDark  = lipgloss.Color("#6e6e5e")
	stoneMid   = lipgloss.Color("#8d8d7f")
	stoneLight = lipgloss.Color("#c2c2a8")
)

// field bundles the compiled pillar vocabulary with its glyph assets.
type field struct {
	rules  *tileset.Rules
	assets scene.AssetMap

	void    int
	ground  int
	base    int
	section int
	cap     int
}

// newField declares the pillar vocabulary: a ground plane held to the
// bottom layer by its unconnected underside, and pillars stacking base,
// sections and cap over it. A base only mates with the ground's top face
// and a cap only with a section's, so every pillar is grounded and
// finished; pillar sides mate with air alone, which keeps the columns
// freestanding. Air outweighs the pillar parts, so pillars come out sparse
// and of varied height.
func newField() (*field, error) {
	sockets := tileset.NewSocketCollection()

	air := sockets.Create()
	airUp, airDown := sockets.Create(), sockets.Create()
	ground := sockets.Create()
	groundUp, groundDown := sockets.Create(), sockets.Create()
	pillar := sockets.Create()
	baseUp, baseDown := sockets.Create(), sockets.Create()
	sectionUp, sectionDown := sockets.Create(), sockets.Create()
	capUp, capDown := sockets.Create(), sockets.Create()

	models := tileset.NewModelSet()

	voidIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(air), XNeg: tileset.S(air),
		YPos: tileset.S(airUp), YNeg: tileset.S(airDown),
		ZPos: tileset.S(air), ZNeg: tileset.S(air),
	}.Template().Weight(8).Named("void"))

	groundIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(ground), XNeg: tileset.S(ground),
		YPos: tileset.S(groundUp), YNeg: tileset.S(groundDown),
		ZPos: tileset.S(ground), ZNeg: tileset.S(ground),
	}.Template().Weight(24).Named("ground"))

	baseIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(pillar), XNeg: tileset.S(pillar),
		YPos: tileset.S(baseUp), YNeg: tileset.S(baseDown),
		ZPos: tileset.S(pillar), ZNeg: tileset.S(pillar),
	}.Template().Weight(1.2).Named("pillar_base"))

	sectionIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(pillar), XNeg: tileset.S(pillar),
		YPos: tileset.S(sectionUp), YNeg: tileset.S(sectionDown),
		ZPos: tileset.S(pillar), ZNeg: tileset.S(pillar),
	}.Template().Weight(0.5).Named("pillar_section"))

	capIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(pillar), XNeg: tileset.S(pillar),
		YPos: tileset.S(capUp), YNeg: tileset.S(capDown),
		ZPos: tileset.S(pillar), ZNeg: tileset.S(pillar),
	}.Template().Weight(0.4).Named("pillar_cap"))

	sockets.AddConnections(
		tileset.S(air, air, pillar),
		tileset.S(ground, ground, air),
	)
	// groundDown stays unconnected: nothing ever fits under the plane
	sockets.
		AddRotatedConnection(groundUp, baseDown).
		AddRotatedConnection(groundUp, airDown).
		AddRotatedConnection(baseUp, sectionDown).
		AddRotatedConnection(sectionUp, sectionDown).
		AddRotatedConnection(sectionUp, capDown).
		AddRotatedConnection(capUp, airDown).
		AddRotatedConnection(airUp, airDown)

	rules, err := tileset.NewRules3D(models, sockets, grid.YPos)
	if err != nil {
		return nil, err
	}

	assets := scene.AssetMap{
		groundIdx: {{
			Glyph: "░░", Fallback: "..", FG: lichen,
			Variants: []string{"░░", "░▒", "▒░"},
		}},
		baseIdx:    {{Glyph: "▓▓", Fallback: "##", FG: stoneDark}},
		sectionIdx: {{Glyph: "██", Fallback: "||", FG: stoneMid}},
		capIdx:     {{Glyph: "▀▀", Fallback: "^^", FG: stoneLight}},
	}

	return &field{
		rules:   rules,
		assets:  assets,
		void:    voidIdx,
		ground:  groundIdx,
		base:    baseIdx,
		section: sectionIdx,
		cap:     capIdx,
	}, nil
}

// palette keeps the stone cold and the pits dark.
func palette() scene.Palette {
	p := scene.DefaultPalette()
	p.Background = lipgloss.Color("#14161a")
	p.Void = lipgloss.Color("#0e1014")
	p.HUDAccent = lipgloss.Color("#b8b89e")
	return p
}
