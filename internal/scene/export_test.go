package scene

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/grid"
)

// TestRenderer_Export_WritesDecodableImage tests the PNG snapshot
func TestRenderer_Export_WritesDecodableImage(t *testing.T) {
	def, err := grid.NewCartesian2D(4, 4, false)
	require.NoError(t, err)

	assets := AssetMap{0: {{Glyph: "██", FG: lipgloss.Color("#ff0000")}}}
	r, err := NewRenderer(def, assets, DefaultPalette(), Options{})
	require.NoError(t, err)

	r.SpawnCell(0, Cell{Template: 0})

	path := filepath.Join(t.TempDir(), "snapshot.png")
	require.NoError(t, r.Export(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4*cellPx, img.Bounds().Dx())
	assert.Equal(t, 4*cellPx, img.Bounds().Dy())

	// node 0 renders its asset colour, an unspawned cell renders void
	pr, pg, pb, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), pr)
	assert.Equal(t, uint32(0), pg)
	assert.Equal(t, uint32(0), pb)

	vr, vg, vb := parseHex(DefaultPalette().Void)
	er, eg, eb, _ := img.At(3*cellPx+1, 3*cellPx+1).RGBA()
	assert.Equal(t, uint32(vr)*0x101, er)
	assert.Equal(t, uint32(vg)*0x101, eg)
	assert.Equal(t, uint32(vb)*0x101, eb)
}
