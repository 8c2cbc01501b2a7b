package scene

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessera-labs/tessera/internal/feature"
)

const gutterWidth = 4

// paint is one resolved tile ready to draw.
type paint struct {
	glyph string
	fg    lipgloss.Color
	bg    lipgloss.Color
	node  int
	ok    bool
}

// View renders the scene area plus HUD at the given size.
func (r *Renderer) View(width, height int) string {
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}

	visible := r.composeVisible(r.paintLayers())

	var parts []string
	if r.showGrid {
		parts = append(parts, r.renderRuler())
	}
	parts = append(parts, r.renderRows(visible)...)
	if hud := r.renderHUD(); hud != "" {
		parts = append(parts, hud)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// paintLayers resolves every spawned cell's assets into per-layer paint
// buffers, applying offsets, rotation overrides, animation and fade.
func (r *Renderer) paintLayers() [][]paint {
	planeW, planeH := r.planeSize()
	layers := r.layerCount()
	buf := make([][]paint, layers)
	for l := range buf {
		buf[l] = make([]paint, planeW*planeH)
	}

	for _, node := range r.sortedCellNodes() {
		cell := r.cells[node]
		px, py, layer := r.planeOf(r.def.Position(node))
		for _, asset := range r.assets[cell.Template] {
			dx, dy, dl := r.deltaOf(asset.Offset)
			tx, ty, tl := px+dx, py+dy, layer+dl
			if tx < 0 || tx >= planeW || ty < 0 || ty >= planeH || tl < 0 || tl >= layers {
				continue
			}
			bg := asset.BG
			if bg == "" {
				bg = r.palette.Background
			}
			buf[tl][ty*planeW+tx] = paint{
				glyph: r.resolveGlyph(asset, cell, node),
				fg:    r.fadeColor(asset.FG, cell.SpawnedAt),
				bg:    bg,
				node:  node,
				ok:    true,
			}
		}
	}
	return buf
}

// composeVisible flattens the layer buffers into the visible plane: the
// current slice, or in composite mode the topmost painted cell per column.
func (r *Renderer) composeVisible(buf [][]paint) []paint {
	if !r.composite {
		return buf[r.layer]
	}
	planeW, planeH := r.planeSize()
	out := make([]paint, planeW*planeH)
	for i := range out {
		for l := len(buf) - 1; l >= 0; l-- {
			if buf[l][i].ok {
				out[i] = buf[l][i]
				break
			}
		}
	}
	return out
}

func (r *Renderer) resolveGlyph(asset Asset, cell Cell, node int) string {
	glyph := asset.Glyph
	if override, ok := asset.Directional[cell.Rotation]; ok {
		glyph = override
	}
	if len(asset.Variants) > 0 {
		glyph = asset.Variants[variantIndex(node, r.info.Seed, len(asset.Variants))]
	}
	if anim := asset.Animation; anim != nil && len(anim.Frames) > 0 && !r.now.IsZero() {
		interval := anim.Interval
		if interval <= 0 {
			interval = 250 * time.Millisecond
		}
		glyph = anim.Frames[int(r.now.UnixMilli()/interval.Milliseconds())%len(anim.Frames)]
	}
	if !r.useGlyphs && asset.Fallback != "" {
		glyph = asset.Fallback
	}
	return padGlyph(glyph)
}

// padGlyph fits a glyph into the two-column cell budget.
func padGlyph(glyph string) string {
	w := runewidth.StringWidth(glyph)
	if w > 2 {
		glyph = runewidth.Truncate(glyph, 2, "")
		w = runewidth.StringWidth(glyph)
	}
	if w < 2 {
		glyph += strings.Repeat(" ", 2-w)
	}
	return glyph
}

func (r *Renderer) fadeColor(fg lipgloss.Color, spawnedAt time.Time) lipgloss.Color {
	if spawnedAt.IsZero() || r.now.IsZero() {
		return fg
	}
	age := r.now.Sub(spawnedAt)
	if age >= spawnFadeWindow {
		return fg
	}
	t := easeInCubic(float64(age) / float64(spawnFadeWindow))
	return blend(r.palette.Void, fg, t)
}

// variantIndex picks a stable glyph variant per node and seed.
func variantIndex(node int, seed uint64, n int) int {
	x := (uint64(node) ^ seed) + 0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return int(x % uint64(n))
}

func (r *Renderer) renderRows(visible []paint) []string {
	planeW, _ := r.planeSize()
	camX, camY := r.clampedCamera()
	cols, rows := r.viewSize()
	overlays := r.overlayColors(planeW)

	gutterStyle := lipgloss.NewStyle().Foreground(r.palette.GridLine)
	voidStyle := lipgloss.NewStyle().Foreground(r.palette.Void).Background(r.palette.Background)

	out := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		py := camY + row
		var b strings.Builder
		if r.showGrid {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%3d ", py)))
		}
		for col := 0; col < cols; col++ {
			px := camX + col
			idx := py*planeW + px
			p := visible[idx]

			style := voidStyle
			glyph := "  "
			if p.ok {
				style = lipgloss.NewStyle().Foreground(p.fg).Background(p.bg)
				glyph = p.glyph
			}
			if c, marked := overlays[idx]; marked {
				style = style.Background(c)
			}
			b.WriteString(style.Render(glyph))
		}
		out = append(out, b.String())
	}
	return out
}

// overlayColors projects markers and the hover cursor onto the visible
// plane. Markers show through composite view; in slice view only the
// current layer's markers show. Hover paints over markers.
func (r *Renderer) overlayColors(planeW int) map[int]lipgloss.Color {
	overlays := make(map[int]lipgloss.Color)
	place := func(node int, c lipgloss.Color) {
		px, py, layer := r.planeOf(r.def.Position(node))
		if !r.def.Is2D() && !r.composite && layer != r.layer {
			return
		}
		overlays[py*planeW+px] = c
	}
	for node, kind := range r.markers {
		c := r.palette.Selection
		if kind == MarkerFailed {
			c = r.palette.Failure
		}
		place(node, c)
	}
	if r.hover != nil {
		place(*r.hover, r.palette.Hover)
	}
	return overlays
}

func (r *Renderer) renderRuler() string {
	camX, _ := r.clampedCamera()
	cols, _ := r.viewSize()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for col := 0; col < cols; col++ {
		px := camX + col
		if px%4 == 0 {
			b.WriteString(fmt.Sprintf("%-2d", px%100))
		} else {
			b.WriteString("· ")
		}
	}
	return lipgloss.NewStyle().Foreground(r.palette.GridLine).Render(b.String())
}

func (r *Renderer) renderHUD() string {
	if !r.caps.Has(feature.HUD) {
		return ""
	}

	accent := lipgloss.NewStyle().Bold(true).Foreground(r.palette.HUDAccent)
	text := lipgloss.NewStyle().Foreground(r.palette.HUDText)
	line := lipgloss.NewStyle().Foreground(r.palette.GridLine)

	width := r.width
	if width <= 0 {
		width = 40
	}
	divider := line.Render(strings.Repeat("─", width))

	marker := "* "
	if r.useGlyphs {
		marker = "⬢ "
	}
	status := lipgloss.JoinHorizontal(lipgloss.Left,
		accent.Render(marker+r.name),
		text.Render(fmt.Sprintf(" · seed %d · %s · attempt %d · %d/%d",
			r.info.Seed, r.info.Status, r.info.Attempt, r.info.Generated, r.info.Total)),
	)

	cursor := r.cursorInfo
	if cursor == "" {
		cursor = "—"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		divider,
		status,
		text.Render("pointer: "+cursor),
		text.Render("Controls: "+strings.Join(r.helpEntries(), " | ")),
	)
}

func (r *Renderer) helpEntries() []string {
	entries := []string{"[hjkl/arrows] pan"}
	if !r.def.Is2D() {
		entries = append(entries, "[[/]] layer", "[t] composite")
	}
	if r.caps.Has(feature.DebugGrid) {
		entries = append(entries, "[g] grid")
	}
	if r.caps.Has(feature.PNG) {
		entries = append(entries, "[s] snapshot")
	}
	if r.helpExtra != "" {
		entries = append(entries, r.helpExtra)
	}
	return append(entries, "[q] quit")
}
