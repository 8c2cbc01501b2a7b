package tilelayers

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/scene"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// Transition glyphs per spawn rotation. Rot0 keeps the full side toward the
// top of the screen; the quarter turns follow the grid's rotation cycle
// (x+ -> y+ -> x- -> y-).
var (
	cornerOutGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   " ▀",
		tileset.Rot90:  " ▄",
		tileset.Rot180: "▄ ",
		tileset.Rot270: "▀ ",
	}
	cornerInGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "█▄",
		tileset.Rot90:  "█▀",
		tileset.Rot180: "▀█",
		tileset.Rot270: "▄█",
	}
	sideGlyphs = map[tileset.Rotation]string{
		tileset.Rot0:   "▀▀",
		tileset.Rot90:  " █",
		tileset.Rot180: "▄▄",
		tileset.Rot270: "█ ",
	}
)

var (
	dirtBrown   = lipgloss.Color("#7a4f2b")
	grassGreen  = lipgloss.Color("#4f9e4f")
	canopyGreen = lipgloss.Color("#2f7f3f")
	plantGreen  = lipgloss.Color("#63b863")
	yellowGold  = lipgloss.Color("#c9b44a")
	deepBlue    = lipgloss.Color("#2f5f8f")
	waveBlue    = lipgloss.Color("#7fb2e5")
	trunkBrown  = lipgloss.Color("#7a5230")
	rockGray    = lipgloss.Color("#8d8d93")
	petalPink   = lipgloss.Color("#d978a8")
)

// tilemap bundles the compiled five-layer rule set with its glyph assets.
type tilemap struct {
	rules  *tileset.Rules
	assets scene.AssetMap
	// voids lists the per-layer void templates, bottom to top.
	voids []int

	dirt       int
	grass      int
	greenSide  int
	yellow     int
	yellowSide int
	water      int
	waterOut   int
	tree       int
}

// newTilemap declares the layered map vocabulary. Each z layer carries its
// own material: a dirt base, green grass with transition edges, yellow
// grass patches pinned onto green grass, water pools with shores, and a
// sparse prop layer. Up/down layer sockets keep every model on its own
// layer; in-plane sockets shape the blobs and their edges.
func newTilemap() (*tilemap, error) {
	sockets := tileset.NewSocketCollection()

	void := sockets.Create()
	dirt := sockets.Create()
	layer0Down, layer0Up := sockets.Create(), sockets.Create()

	grass := sockets.Create()
	voidAndGrass, grassAndVoid := sockets.Create(), sockets.Create()
	layer1Down, layer1Up, grassUp := sockets.Create(), sockets.Create(), sockets.Create()

	yellowGrassDown := sockets.Create()
	layer2Down, layer2Up := sockets.Create(), sockets.Create()

	water := sockets.Create()
	voidAndWater, waterAndVoid := sockets.Create(), sockets.Create()
	layer3Down, layer3Up, groundUp := sockets.Create(), sockets.Create(), sockets.Create()

	layer4Down, layer4Up, propsDown := sockets.Create(), sockets.Create(), sockets.Create()

	// edge builds the transition trio of a material blob: an outer corner,
	// an inner corner and a straight side, each spawnable in all rotations.
	edge := func(blob, voidAndBlob, blobAndVoid, up, down tileset.Socket) (cornerOut, cornerIn, side *tileset.ModelTemplate) {
		cornerOut = tileset.Sides3D{
			XPos: tileset.S(voidAndBlob), XNeg: tileset.S(void),
			YPos: tileset.S(void), YNeg: tileset.S(blobAndVoid),
			ZPos: tileset.S(up), ZNeg: tileset.S(down),
		}.Template().AllRotations()
		cornerIn = tileset.Sides3D{
			XPos: tileset.S(blobAndVoid), XNeg: tileset.S(blob),
			YPos: tileset.S(blob), YNeg: tileset.S(voidAndBlob),
			ZPos: tileset.S(up), ZNeg: tileset.S(down),
		}.Template().AllRotations()
		side = tileset.Sides3D{
			XPos: tileset.S(voidAndBlob), XNeg: tileset.S(blobAndVoid),
			YPos: tileset.S(void), YNeg: tileset.S(blob),
			ZPos: tileset.S(up), ZNeg: tileset.S(down),
		}.Template().AllRotations()
		return cornerOut, cornerIn, side
	}

	layerVoid := func(up, down tileset.Socket) *tileset.ModelTemplate {
		return tileset.Sides3D{
			XPos: tileset.S(void), XNeg: tileset.S(void),
			YPos: tileset.S(void), YNeg: tileset.S(void),
			ZPos: tileset.S(up), ZNeg: tileset.S(down),
		}.Template().Named("void")
	}

	prop := func(weight float64) *tileset.ModelTemplate {
		return tileset.Sides3D{
			XPos: tileset.S(void), XNeg: tileset.S(void),
			YPos: tileset.S(void), YNeg: tileset.S(void),
			ZPos: tileset.S(layer4Up), ZNeg: tileset.S(propsDown),
		}.Template().Weight(weight)
	}

	models := tileset.NewModelSet()

	// layer 0: solid dirt base
	dirtIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(dirt), XNeg: tileset.S(dirt),
		YPos: tileset.S(dirt), YNeg: tileset.S(dirt),
		ZPos: tileset.S(layer0Up), ZNeg: tileset.S(layer0Down),
	}.Template().Weight(20).Named("dirt"))

	// layer 1: green grass blobs over the dirt
	voidL1 := models.Add(layerVoid(layer1Up, layer1Down))
	grassIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(grass), XNeg: tileset.S(grass),
		YPos: tileset.S(grass), YNeg: tileset.S(grass),
		ZPos: tileset.S(layer1Up, grassUp), ZNeg: tileset.S(layer1Down),
	}.Template().Weight(5).Named("green_grass"))

	greenOut, greenIn, greenSide := edge(grass, voidAndGrass, grassAndVoid, layer1Up, layer1Down)
	greenOutIdx := models.Add(greenOut.Named("green_grass_corner_out"))
	greenInIdx := models.Add(greenIn.Named("green_grass_corner_in"))
	greenSideIdx := models.Add(greenSide.Named("green_grass_side"))

	// layer 2: yellow grass patches, edges pinned onto green grass
	voidL2 := models.Add(layerVoid(layer2Up, layer2Down))
	yellowIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(grass), XNeg: tileset.S(grass),
		YPos: tileset.S(grass), YNeg: tileset.S(grass),
		ZPos: tileset.S(layer2Up), ZNeg: tileset.S(layer2Down),
	}.Template().Weight(1).Named("yellow_grass"))

	yellowOut, yellowIn, yellowSide := edge(grass, voidAndGrass, grassAndVoid, layer2Up, yellowGrassDown)
	yellowOutIdx := models.Add(yellowOut.Named("yellow_grass_corner_out"))
	yellowInIdx := models.Add(yellowIn.Named("yellow_grass_corner_in"))
	yellowSideIdx := models.Add(yellowSide.Named("yellow_grass_side"))

	// layer 3: water pools with shore transitions
	voidL3 := models.Add(tileset.Sides3D{
		XPos: tileset.S(void), XNeg: tileset.S(void),
		YPos: tileset.S(void), YNeg: tileset.S(void),
		ZPos: tileset.S(layer3Up, groundUp), ZNeg: tileset.S(layer3Down),
	}.Template().Named("void"))
	waterIdx := models.Add(tileset.Sides3D{
		XPos: tileset.S(water), XNeg: tileset.S(water),
		YPos: tileset.S(water), YNeg: tileset.S(water),
		ZPos: tileset.S(layer3Up), ZNeg: tileset.S(layer3Down),
	}.Template().Weight(0.2).Named("water"))

	waterOut, waterIn, waterSide := edge(water, voidAndWater, waterAndVoid, layer3Up, layer3Down)
	waterOutIdx := models.Add(waterOut.Weight(0.02).Named("water_corner_out"))
	waterInIdx := models.Add(waterIn.Weight(0.02).Named("water_corner_in"))
	waterSideIdx := models.Add(waterSide.Weight(0.02).Named("water_side"))

	// layer 4: sparse props, only above open ground
	voidL4 := models.Add(layerVoid(layer4Up, layer4Down))
	treeIdx := models.Add(prop(0.025).Named("small_tree"))
	stumpIdx := models.Add(prop(0.012).Named("tree_stump"))
	rockIdx := models.Add(prop(0.008).Named("rock"))
	plantIdx := models.Add(prop(0.025).Named("plant"))
	flowerIdx := models.Add(prop(0.025).Named("flower"))

	sockets.AddConnections(
		tileset.S(dirt, dirt),
		tileset.S(void, void),
		tileset.S(grass, grass),
		tileset.S(voidAndGrass, grassAndVoid),
		tileset.S(water, water),
		tileset.S(waterAndVoid, voidAndWater),
	)
	sockets.
		AddRotatedConnection(layer0Up, layer1Down).
		AddRotatedConnection(layer1Up, layer2Down).
		AddRotatedConnection(layer2Up, layer3Down).
		AddRotatedConnection(layer3Up, layer4Down).
		AddRotatedConnection(yellowGrassDown, grassUp).
		AddRotatedConnection(propsDown, groundUp)

	rules, err := tileset.NewRules3D(models, sockets, grid.ZPos)
	if err != nil {
		return nil, err
	}

	assets := scene.AssetMap{
		dirtIdx:  {{Glyph: "██", Fallback: "##", FG: dirtBrown}},
		grassIdx: {{Glyph: "██", Fallback: "::", FG: grassGreen}},
		greenOutIdx: {{
			Glyph: "██", Fallback: "::", FG: grassGreen, BG: dirtBrown,
			Directional: cornerOutGlyphs,
		}},
		greenInIdx: {{
			Glyph: "██", Fallback: "::", FG: grassGreen, BG: dirtBrown,
			Directional: cornerInGlyphs,
		}},
		greenSideIdx: {{
			Glyph: "██", Fallback: "::", FG: grassGreen, BG: dirtBrown,
			Directional: sideGlyphs,
		}},
		yellowIdx: {{Glyph: "██", Fallback: ";;", FG: yellowGold}},
		yellowOutIdx: {{
			Glyph: "██", Fallback: ";;", FG: yellowGold, BG: grassGreen,
			Directional: cornerOutGlyphs,
		}},
		yellowInIdx: {{
			Glyph: "██", Fallback: ";;", FG: yellowGold, BG: grassGreen,
			Directional: cornerInGlyphs,
		}},
		yellowSideIdx: {{
			Glyph: "██", Fallback: ";;", FG: yellowGold, BG: grassGreen,
			Directional: sideGlyphs,
		}},
		waterIdx: {{Glyph: "≈≈", Fallback: "~~", FG: waveBlue, BG: deepBlue}},
		waterOutIdx: {{
			Glyph: "██", Fallback: "~~", FG: deepBlue, BG: grassGreen,
			Directional: cornerOutGlyphs,
		}},
		waterInIdx: {{
			Glyph: "██", Fallback: "~~", FG: deepBlue, BG: grassGreen,
			Directional: cornerInGlyphs,
		}},
		waterSideIdx: {{
			Glyph: "██", Fallback: "~~", FG: deepBlue, BG: grassGreen,
			Directional: sideGlyphs,
		}},
		treeIdx: {
			{Glyph: "┃ ", Fallback: "| ", FG: trunkBrown, BG: grassGreen},
			{Glyph: "▓▓", Fallback: "^^", FG: canopyGreen, Offset: grid.Delta{DY: -1}},
		},
		stumpIdx: {{Glyph: "▄ ", Fallback: "n ", FG: trunkBrown, BG: grassGreen}},
		rockIdx: {{
			Glyph: "● ", Fallback: "o ", FG: rockGray, BG: grassGreen,
			Variants: []string{"● ", "◆ ", "▲ "},
		}},
		plantIdx: {{
			Glyph: "⚘ ", Fallback: ", ", FG: plantGreen, BG: grassGreen,
			Variants: []string{"⚘ ", "⁂ ", "∗ "},
		}},
		flowerIdx: {{
			Glyph: "✿ ", Fallback: "* ", FG: petalPink, BG: grassGreen,
			Variants: []string{"✿ ", "❀ ", "✱ "},
		}},
	}

	return &tilemap{
		rules:      rules,
		assets:     assets,
		voids:      []int{voidL1, voidL2, voidL3, voidL4},
		dirt:       dirtIdx,
		grass:      grassIdx,
		greenSide:  greenSideIdx,
		yellow:     yellowIdx,
		yellowSide: yellowSideIdx,
		water:      waterIdx,
		waterOut:   waterOutIdx,
		tree:       treeIdx,
	}, nil
}

// palette leans green to match the map.
func palette() scene.Palette {
	p := scene.DefaultPalette()
	p.Background = lipgloss.Color("#161a16")
	p.Void = lipgloss.Color("#1e241e")
	p.HUDAccent = lipgloss.Color("#6fbf6f")
	return p
}
