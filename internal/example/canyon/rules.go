package canyon

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/scene"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// Rim and deck glyphs per spawn rotation. Rot0 keeps the drop toward the
// right of the screen; the quarter turns follow the y-up rotation cycle
// (x+ -> z- -> x- -> z+), counterclockwise on screen.
var (
	rimSideGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "█ ",
		tileset.Rot90:  "▄▄",
		tileset.Rot180: " █",
		tileset.Rot270: "▀▀",
	}
	rimCornerGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "▀ ",
		tileset.Rot90:  "▄ ",
		tileset.Rot180: " ▄",
		tileset.Rot270: " ▀",
	}
	deckGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "║║",
		tileset.Rot90:  "══",
		tileset.Rot180: "║║",
		tileset.Rot270: "══",
	}
	// the solid half is the landing; the deck leaves through the open one
	rampGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "▄▄",
		tileset.Rot90:  " █",
		tileset.Rot180: "▀▀",
		tileset.Rot270: "█ ",
	}
)

var (
	waterDeep   = lipgloss.Color("#1f5a66")
	waterGlint  = lipgloss.Color("#5fa8b0")
	sandTan     = lipgloss.Color("#c9a35e")
	sandPale    = lipgloss.Color("#e3c684")
	rockLow     = lipgloss.Color("#9c5f3d")
	rockHigh    = lipgloss.Color("#c9855c")
	plankBrown  = lipgloss.Color("#8a6238")
	cactusGreen = lipgloss.Color("#5d9b52")
	stoneWarm   = lipgloss.Color("#99876f")
	canvasPale  = lipgloss.Color("#e8e0cf")
)

// terrain bundles the compiled canyon rule set with its glyph assets.
type terrain struct {
	rules  *tileset.Rules
	assets scene.AssetMap

	void         int
	water        int
	sand         int
	groundCorner int
	groundSide   int
	rockCorner   int
	rockSide     int
	rock         int
	bridgeStart  int
	bridge       int
	cactus       int
	smallRock    int
	windmillBase int
	windmillCap  int
}

// newTerrain declares the canyon vocabulary. The floor is water and sand;
// rock mesas rise from it behind rimmed cliff edges, bridges span the gaps
// between the rims, and props and windmills settle on sand and rock tops.
// The rim chains are directed: each tile's next face plugs into the
// neighbouring tile's prev face, so a rim never butts against itself.
func newTerrain() (*terrain, error) {
	sockets := tileset.NewSocketCollection()

	void, voidUp, voidDown := sockets.Create(), sockets.Create(), sockets.Create()
	water, waterEdge := sockets.Create(), sockets.Create()
	waterUp, waterDown := sockets.Create(), sockets.Create()
	sand, sandEdge := sockets.Create(), sockets.Create()
	sandUp, sandDown := sockets.Create(), sockets.Create()

	groundRim, groundRimUp, groundRimDown := sockets.Create(), sockets.Create(), sockets.Create()
	groundRimNext, groundRimPrev := sockets.Create(), sockets.Create()
	rock, rockUp, rockDown := sockets.Create(), sockets.Create(), sockets.Create()
	rockRim, rockRimUp, rockRimDown := sockets.Create(), sockets.Create(), sockets.Create()
	rockRimNext, rockRimPrev := sockets.Create(), sockets.Create()

	bridge, bridgeSide := sockets.Create(), sockets.Create()
	bridgeUp, bridgeDown := sockets.Create(), sockets.Create()
	bridgeStartIn, bridgeStartOut, bridgeStartDown := sockets.Create(), sockets.Create(), sockets.Create()

	propSide, propUp, propDown := sockets.Create(), sockets.Create(), sockets.Create()
	millSide := sockets.Create()
	millBaseUp, millBaseDown := sockets.Create(), sockets.Create()
	millCapUp, millCapDown := sockets.Create(), sockets.Create()

	models := tileset.NewModelSet()

	voidIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(void), XNeg: tileset.S(void),
		ZPos: tileset.S(void), ZNeg: tileset.S(void),
		YPos: tileset.S(voidUp), YNeg: tileset.S(voidDown),
	}.Template().Weight(10).Named("void"))

	// the floor: open water everywhere, sand banks on its north-east sides
	waterIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(water), XNeg: tileset.S(water, waterEdge),
		ZPos: tileset.S(water), ZNeg: tileset.S(water, waterEdge),
		YPos: tileset.S(waterUp), YNeg: tileset.S(waterDown),
	}.Template().AllRotations().Weight(20).Named("water"))
	sandIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(sand), XNeg: tileset.S(sand, sandEdge),
		ZPos: tileset.S(sand), ZNeg: tileset.S(sand, sandEdge),
		YPos: tileset.S(sandUp), YNeg: tileset.S(sandDown),
	}.Template().Weight(5).Named("sand"))

	// mesa rims: a ground course facing the floor, rock courses above it
	groundCornerIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(groundRim), XNeg: tileset.S(groundRimPrev),
		ZPos: tileset.S(groundRim), ZNeg: tileset.S(groundRimNext),
		YPos: tileset.S(groundRimUp), YNeg: tileset.S(groundRimDown),
	}.Template().AllRotations().Weight(0.5).Named("ground_rock_corner"))
	groundSideIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(groundRim), XNeg: tileset.S(rock),
		ZPos: tileset.S(groundRimPrev), ZNeg: tileset.S(groundRimNext),
		YPos: tileset.S(groundRimUp), YNeg: tileset.S(groundRimDown),
	}.Template().AllRotations().Weight(0.5).Named("ground_rock_side"))
	rockCornerIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(rockRim), XNeg: tileset.S(rockRimPrev),
		ZPos: tileset.S(rockRim), ZNeg: tileset.S(rockRimNext),
		YPos: tileset.S(rockRimUp), YNeg: tileset.S(rockRimDown),
	}.Template().AllRotations().Weight(0.05).Named("rock_corner"))
	rockSideIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(rockRim), XNeg: tileset.S(rock),
		ZPos: tileset.S(rockRimPrev), ZNeg: tileset.S(rockRimNext),
		YPos: tileset.S(rockRimUp), YNeg: tileset.S(rockRimDown),
	}.Template().AllRotations().Weight(0.05).Named("rock_side"))
	rockIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(rock), XNeg: tileset.S(rock),
		ZPos: tileset.S(rock), ZNeg: tileset.S(rock),
		YPos: tileset.S(rockUp), YNeg: tileset.S(rockDown),
	}.Template().Weight(0.05).Named("rock"))

	bridgeStartIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(bridgeSide), XNeg: tileset.S(bridgeSide),
		ZPos: tileset.S(bridgeStartOut), ZNeg: tileset.S(bridgeStartIn),
		YPos: tileset.S(bridgeUp), YNeg: tileset.S(bridgeStartDown),
	}.Template().AllRotations().Weight(0.05).Named("bridge_start"))
	bridgeIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(bridgeSide), XNeg: tileset.S(bridgeSide),
		ZPos: tileset.S(bridge), ZNeg: tileset.S(bridge),
		YPos: tileset.S(bridgeUp), YNeg: tileset.S(bridgeDown),
	}.Template().AllRotations().Weight(0.05).Named("bridge"))

	prop := tileset.Sides3D{
		XPos: tileset.S(propSide), XNeg: tileset.S(propSide),
		ZPos: tileset.S(propSide), ZNeg: tileset.S(propSide),
		YPos: tileset.S(propUp), YNeg: tileset.S(propDown),
	}
	cactusIdx := models.Add(prop.Template().Weight(0.25).Named("cactus"))
	smallRockIdx := models.Add(prop.Template().Weight(0.4).Named("small_rock"))

	windmillBaseIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(millSide), XNeg: tileset.S(millSide),
		ZPos: tileset.S(millSide), ZNeg: tileset.S(millSide),
		YPos: tileset.S(millBaseUp), YNeg: tileset.S(millBaseDown),
	}.Template().Weight(0.005).Named("windmill_base"))
	windmillCapIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(millSide), XNeg: tileset.S(millSide),
		ZPos: tileset.S(millSide), ZNeg: tileset.S(millSide),
		YPos: tileset.S(millCapUp), YNeg: tileset.S(millCapDown),
	}.Template().Weight(0.005).Named("windmill_cap"))

	sockets.AddConnections(
		tileset.S(void, void),
		tileset.S(water, water),
		tileset.S(sand, sand),
		tileset.S(sandEdge, waterEdge),
		tileset.S(groundRim, water, sand),
		tileset.S(groundRimNext, groundRimPrev),
		tileset.S(rock, rock),
		tileset.S(rockRim, void),
		tileset.S(rockRimNext, rockRimPrev),
		tileset.S(bridge, bridge),
		tileset.S(bridgeSide, void, rockRim),
		tileset.S(bridgeStartOut, void, rockRim),
		tileset.S(bridgeStartIn, bridge),
		tileset.S(propSide, void, rockRim, bridgeSide),
		tileset.S(millSide, void, rockRim, bridgeSide),
	)

	// waterDown, sandDown and groundRimDown stay unconnected: the floor
	// course never hangs mid-air
	sockets.
		AddRotatedConnection(voidDown, voidUp).
		AddRotatedConnection(waterUp, voidDown).
		AddRotatedConnection(sandUp, voidDown).
		AddRotatedConnection(groundRimUp, voidDown, rockRimDown).
		AddRotatedConnection(rockRimUp, voidDown, rockRimDown).
		AddRotatedConnection(rockUp, rockDown, rockRimDown, voidDown).
		AddRotatedConnection(bridgeUp, voidDown, bridgeDown).
		AddRotatedConnection(bridgeDown, voidUp, sandUp, waterUp).
		AddRotatedConnection(propDown, sandUp).
		AddRotatedConnection(propUp, voidDown, bridgeDown).
		AddRotatedConnection(millBaseDown, rockUp).
		AddRotatedConnection(millBaseUp, millCapDown).
		AddRotatedConnection(millCapUp, voidDown)

	// a bridge start seats on a rim only in the rotations that point its
	// deck out over the gap
	sockets.AddConstrainedRotatedConnection(
		bridgeStartDown,
		[]tileset.Rotation{tileset.Rot90, tileset.Rot180},
		rockRimUp, groundRimUp,
	)

	rules, err := tileset.NewRules3D(models, sockets, grid.YPos)
	if err != nil {
		return nil, err
	}

	assets := scene.AssetMap{
		waterIdx: {{
			Glyph: "≈≈", Fallback: "~~", FG: waterGlint, BG: waterDeep,
			Variants: []string{"≈≈", "~≈", "≈~"},
		}},
		sandIdx: {{
			Glyph: "░░", Fallback: "..", FG: sandPale, BG: sandTan,
			Variants: []string{"░░", "▒░", "░▒"},
		}},
		groundCornerIdx: {{
			Glyph: "▀ ", Fallback: "//", FG: rockLow, BG: sandTan,
			Directional: rimCornerGlyphs,
		}},
		groundSideIdx: {{
			Glyph: "█ ", Fallback: "//", FG: rockLow, BG: sandTan,
			Directional: rimSideGlyphs,
		}},
		rockCornerIdx: {{
			Glyph: "▀ ", Fallback: "%%", FG: rockHigh,
			Directional: rimCornerGlyphs,
		}},
		rockSideIdx: {{
			Glyph: "█ ", Fallback: "%%", FG: rockHigh,
			Directional: rimSideGlyphs,
		}},
		rockIdx: {{
			Glyph: "██", Fallback: "##", FG: rockHigh,
			Variants: []string{"██", "█▓", "▓█"},
		}},
		bridgeStartIdx: {{
			Glyph: "▄▄", Fallback: "==", FG: plankBrown, BG: rockHigh,
			Directional: rampGlyphs,
		}},
		bridgeIdx: {{
			Glyph: "║║", Fallback: "||", FG: plankBrown,
			Directional: deckGlyphs,
		}},
		cactusIdx: {{
			Glyph: "ψ ", Fallback: "Y ", FG: cactusGreen, BG: sandTan,
			Offset:   grid.Delta{DY: -1},
			Variants: []string{"ψ ", "Ψ ", "¥ "},
		}},
		smallRockIdx: {{
			Glyph: "● ", Fallback: "o ", FG: stoneWarm, BG: sandTan,
			Offset:   grid.Delta{DY: -1},
			Variants: []string{"● ", "◆ ", "▪ "},
		}},
		windmillBaseIdx: {{Glyph: "▓▓", Fallback: "##", FG: plankBrown, BG: rockHigh}},
		windmillCapIdx: {{
			Glyph: "✛ ", Fallback: "x ", FG: canvasPale, BG: plankBrown,
			Animation: &scene.FrameAnimation{
				Frames:   []string{"✛ ", "╳ "},
				Interval: 180 * time.Millisecond,
			},
		}},
	}

	return &terrain{
		rules:        rules,
		assets:       assets,
		void:         voidIdx,
		water:        waterIdx,
		sand:         sandIdx,
		groundCorner: groundCornerIdx,
		groundSide:   groundSideIdx,
		rockCorner:   rockCornerIdx,
		rockSide:     rockSideIdx,
		rock:         rockIdx,
		bridgeStart:  bridgeStartIdx,
		bridge:       bridgeIdx,
		cactus:       cactusIdx,
		smallRock:    smallRockIdx,
		windmillBase: windmillBaseIdx,
		windmillCap:  windmillCapIdx,
	}, nil
}

// palette leans orange-red for the desert ambient.
func palette() scene.Palette {
	p := scene.DefaultPalette()
	p.Background = lipgloss.Color("#1c130d")
	p.Void = lipgloss.Color("#27190f")
	p.HUDAccent = lipgloss.Color("#e08a4a")
	return p
}
