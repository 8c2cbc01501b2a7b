package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/grid"
)

// spawnFadeWindow is how long a freshly spawned tile takes to reach full
// colour.
const spawnFadeWindow = 450 * time.Millisecond

// Options tune a renderer for its example.
type Options struct {
	// Axis is the layer axis for 3D grids: grid.YPos for y-up worlds,
	// grid.ZPos for z-stacked tile maps. Ignored for 2D.
	Axis grid.Direction
	// StartLayer is the initial slice layer, clamped to the grid.
	StartLayer int
	// Composite starts in composited view instead of a single slice.
	Composite bool
	// HelpExtra is appended to the key help footer.
	HelpExtra string
}

// Renderer draws the scene and HUD. It implements the engine plugin
// contract; the generation and picking plugins feed it state.
type Renderer struct {
	def     grid.Definition
	axis    grid.Direction
	assets  AssetMap
	palette Palette

	name      string
	caps      feature.Set
	log       *slog.Logger
	useGlyphs bool

	cells   map[int]Cell
	markers map[int]MarkerKind
	hover   *int

	camX      int
	camY      int
	layer     int
	composite bool
	showGrid  bool

	width  int
	height int
	now    time.Time

	info       GenInfo
	cursorInfo string
	helpExtra  string
}

// NewRenderer builds a renderer for one grid. The asset map must cover the
// templates the example spawns; 3D grids need a valid layer axis.
func NewRenderer(def grid.Definition, assets AssetMap, palette Palette, opts Options) (*Renderer, error) {
	if len(assets) == 0 {
		return nil, errors.New("scene: empty asset map")
	}
	axis := opts.Axis
	if def.Is2D() {
		axis = grid.ZPos
	} else if axis != grid.YPos && axis != grid.ZPos {
		return nil, fmt.Errorf("scene: unsupported layer axis %s", axis)
	}

	r := &Renderer{
		def:       def,
		axis:      axis,
		assets:    assets,
		palette:   palette,
		cells:     make(map[int]Cell),
		markers:   make(map[int]MarkerKind),
		composite: opts.Composite && !def.Is2D(),
		helpExtra: opts.HelpExtra,
		log:       slog.Default(),
	}
	r.layer = clamp(opts.StartLayer, 0, r.layerCount()-1)
	return r, nil
}

// Name implements the engine plugin contract.
func (r *Renderer) Name() string { return "scene" }

// Init captures the app's capability set and logger.
func (r *Renderer) Init(app *engine.App) error {
	r.name = app.Name()
	r.caps = app.Caps()
	r.log = app.Logger()
	r.useGlyphs = r.caps.Has(feature.UnicodeTiles)
	r.width, r.height = app.Size()
	return nil
}

// Update handles camera, slicing and overlay keys plus the animation clock.
func (r *Renderer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case engine.TickMsg:
		r.now = time.Time(msg)

	case tea.KeyMsg:
		r.handleKey(msg)
	}
	return nil
}

func (r *Renderer) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "h":
		r.camX--
	case "right", "l":
		r.camX++
	case "up", "k":
		r.camY--
	case "down", "j":
		r.camY++
	case "[":
		if !r.def.Is2D() {
			r.composite = false
			r.layer = clamp(r.layer-1, 0, r.layerCount()-1)
		}
	case "]":
		if !r.def.Is2D() {
			r.composite = false
			r.layer = clamp(r.layer+1, 0, r.layerCount()-1)
		}
	case "t":
		if !r.def.Is2D() {
			r.composite = !r.composite
		}
	case "g":
		if r.caps.Has(feature.DebugGrid) {
			r.showGrid = !r.showGrid
		}
	case "s":
		if r.caps.Has(feature.PNG) {
			path := fmt.Sprintf("%s-%d.png", r.name, r.info.Seed)
			if err := r.Export(path); err != nil {
				r.log.Error("snapshot failed", "path", path, "error", err)
			} else {
				r.log.Info("snapshot written", "path", path)
			}
		}
	}
	r.clampCamera()
}

// SpawnCell records a generated tile. SpawnedAt in the cell drives the
// fade-in; a zero time renders fully lit.
func (r *Renderer) SpawnCell(node int, c Cell) {
	r.cells[node] = c
}

// ClearCells wipes all spawned tiles, markers and hover state, for
// generation restarts.
func (r *Renderer) ClearCells() {
	r.cells = make(map[int]Cell)
	r.markers = make(map[int]MarkerKind)
	r.hover = nil
}

// CellAt reports the spawned cell for a node.
func (r *Renderer) CellAt(node int) (Cell, bool) {
	c, ok := r.cells[node]
	return c, ok
}

// SetMarker places a marker on a node. A node holds one marker; failure
// markers are not displaced by selections.
func (r *Renderer) SetMarker(node int, kind MarkerKind) {
	if existing, ok := r.markers[node]; ok && existing == MarkerFailed && kind != MarkerFailed {
		return
	}
	r.markers[node] = kind
}

// ClearMarker removes the marker on a node.
func (r *Renderer) ClearMarker(node int) {
	delete(r.markers, node)
}

// ClearMarkers removes every marker.
func (r *Renderer) ClearMarkers() {
	r.markers = make(map[int]MarkerKind)
}

// MarkerAt reports the marker on a node.
func (r *Renderer) MarkerAt(node int) (MarkerKind, bool) {
	kind, ok := r.markers[node]
	return kind, ok
}

// SetHover moves the hover cursor to a node.
func (r *Renderer) SetHover(node int) {
	n := node
	r.hover = &n
}

// ClearHover removes the hover cursor.
func (r *Renderer) ClearHover() {
	r.hover = nil
}

// SetGenInfo updates the HUD status line.
func (r *Renderer) SetGenInfo(info GenInfo) {
	r.info = info
}

// SetCursorInfo updates the HUD cursor line.
func (r *Renderer) SetCursorInfo(text string) {
	r.cursorInfo = text
}

// Grid returns the grid the renderer draws.
func (r *Renderer) Grid() grid.Definition { return r.def }

// VisibleLayer returns the current slice layer.
func (r *Renderer) VisibleLayer() int { return r.layer }

// IsComposite reports whether layers are composited top-down.
func (r *Renderer) IsComposite() bool { return r.composite }

// NodeAt maps a screen position to the node the pointer sees, honouring the
// camera, the grid overlay gutter and the layer mode. In composite view the
// topmost spawned cell wins and empty columns miss; in slice view the
// slice's node is hit whether or not it has content.
func (r *Renderer) NodeAt(screenX, screenY int) (int, bool) {
	originX, originY := r.sceneOrigin()
	col := (screenX - originX) / 2
	row := screenY - originY
	if screenX < originX || row < 0 {
		return 0, false
	}

	camX, camY := r.clampedCamera()
	px := camX + col
	py := camY + row
	planeW, planeH := r.planeSize()
	if px < 0 || px >= planeW || py < 0 || py >= planeH {
		return 0, false
	}

	if r.composite {
		for layer := r.layerCount() - 1; layer >= 0; layer-- {
			node, ok := r.nodeAtPlane(px, py, layer)
			if !ok {
				continue
			}
			if _, spawned := r.cells[node]; spawned {
				return node, true
			}
		}
		return 0, false
	}
	return r.nodeAtPlane(px, py, r.layer)
}

// planeSize is the render plane in grid cells.
func (r *Renderer) planeSize() (w, h int) {
	if r.def.Is2D() || r.axis == grid.ZPos {
		return r.def.SizeX(), r.def.SizeY()
	}
	return r.def.SizeX(), r.def.SizeZ()
}

func (r *Renderer) layerCount() int {
	if r.def.Is2D() {
		return 1
	}
	if r.axis == grid.YPos {
		return r.def.SizeY()
	}
	return r.def.SizeZ()
}

func (r *Renderer) planeOf(p grid.Position) (px, py, layer int) {
	if r.def.Is2D() {
		return p.X, p.Y, 0
	}
	if r.axis == grid.YPos {
		return p.X, p.Z, p.Y
	}
	return p.X, p.Y, p.Z
}

func (r *Renderer) deltaOf(d grid.Delta) (dx, dy, dlayer int) {
	if r.def.Is2D() {
		return d.DX, d.DY, 0
	}
	if r.axis == grid.YPos {
		return d.DX, d.DZ, d.DY
	}
	return d.DX, d.DY, d.DZ
}

func (r *Renderer) nodeAtPlane(px, py, layer int) (int, bool) {
	var p grid.Position
	switch {
	case r.def.Is2D():
		p = grid.Position{X: px, Y: py}
	case r.axis == grid.YPos:
		p = grid.Position{X: px, Y: layer, Z: py}
	default:
		p = grid.Position{X: px, Y: py, Z: layer}
	}
	if !r.def.Contains(p) {
		return 0, false
	}
	return r.def.Index(p), true
}

// sceneOrigin is where the tile area starts on screen, after the grid
// overlay's ruler row and row-number gutter.
func (r *Renderer) sceneOrigin() (x, y int) {
	if r.showGrid {
		return gutterWidth, 1
	}
	return 0, 0
}

// viewSize is the visible plane area in cells.
func (r *Renderer) viewSize() (cols, rows int) {
	originX, originY := r.sceneOrigin()
	w := r.width - originX
	h := r.height - originY - r.hudHeight()
	cols = w / 2
	rows = h
	planeW, planeH := r.planeSize()
	if cols <= 0 || cols > planeW {
		cols = planeW
	}
	if rows <= 0 || rows > planeH {
		rows = planeH
	}
	return cols, rows
}

func (r *Renderer) hudHeight() int {
	if !r.caps.Has(feature.HUD) {
		return 0
	}
	return 4
}

func (r *Renderer) clampedCamera() (x, y int) {
	cols, rows := r.viewSize()
	planeW, planeH := r.planeSize()
	return clamp(r.camX, 0, max(0, planeW-cols)), clamp(r.camY, 0, max(0, planeH-rows))
}

func (r *Renderer) clampCamera() {
	r.camX, r.camY = r.clampedCamera()
}

// sortedCellNodes keeps asset painting order stable across frames.
func (r *Renderer) sortedCellNodes() []int {
	nodes := make([]int, 0, len(r.cells))
	for n := range r.cells {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
