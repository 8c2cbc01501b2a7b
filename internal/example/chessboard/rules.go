package chessboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/scene"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// board bundles the compiled rule set with the glyphs that draw it.
type board struct {
	rules  *tileset.Rules
	assets scene.AssetMap
	white  int
	black  int
}

// newBoard declares the two-colour vocabulary: a white and a black square,
// each connecting only to the other, so every neighbour pair alternates.
func newBoard() (*board, error) {
	sockets := tileset.NewSocketCollection()
	white := sockets.Create()
	black := sockets.Create()
	sockets.AddConnection(white, black)

	models := tileset.NewModelSet()
	whiteIdx := models.Add(tileset.Mono2D(white).Named("white"))
	blackIdx := models.Add(tileset.Mono2D(black).Named("black"))

	rules, err := tileset.NewRules2D(models, sockets)
	if err != nil {
		return nil, err
	}

	assets := scene.AssetMap{
		whiteIdx: {{Glyph: "██", Fallback: "##", FG: lipgloss.Color("#f0d9b5")}},
		blackIdx: {{Glyph: "██", Fallback: "::", FG: lipgloss.Color("#8a5a3c")}},
	}

	return &board{rules: rules, assets: assets, white: whiteIdx, black: blackIdx}, nil
}

// palette keeps the board warm and the chrome out of the way.
func palette() scene.Palette {
	p := scene.DefaultPalette()
	p.Background = lipgloss.Color("#241e16")
	p.Void = lipgloss.Color("#2c261e")
	p.HUDAccent = lipgloss.Color("#d9b380")
	return p
}
