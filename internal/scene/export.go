package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// cellPx is the exported pixel block per grid cell. The last row and column
// of each block keep the background colour so cells read as a grid.
const cellPx = 8

// Export writes the visible plane as a PNG, one coloured block per cell.
func (r *Renderer) Export(path string) error {
	planeW, planeH := r.planeSize()
	img := image.NewRGBA(image.Rect(0, 0, planeW*cellPx, planeH*cellPx))

	br, bg, bb := parseHex(r.palette.Background)
	vr, vg, vb := parseHex(r.palette.Void)
	background := color.RGBA{br, bg, bb, 255}
	void := color.RGBA{vr, vg, vb, 255}

	visible := r.composeVisible(r.paintLayers())
	for py := 0; py < planeH; py++ {
		for px := 0; px < planeW; px++ {
			block := void
			if p := visible[py*planeW+px]; p.ok {
				fr, fg, fb := parseHex(p.fg)
				block = color.RGBA{fr, fg, fb, 255}
			}
			fillCell(img, px, py, block, background)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func fillCell(img *image.RGBA, px, py int, block, background color.RGBA) {
	for y := 0; y < cellPx; y++ {
		for x := 0; x < cellPx; x++ {
			c := block
			if x == cellPx-1 || y == cellPx-1 {
				c = background
			}
			img.SetRGBA(px*cellPx+x, py*cellPx+y, c)
		}
	}
}
