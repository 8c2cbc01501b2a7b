package tilelayers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/logging"
	"github.com/tessera-labs/tessera/internal/procgen"
	"github.com/tessera-labs/tessera/internal/tileset"
)

func expanded(t *testing.T, tm *tilemap, template int) int {
	t.Helper()
	idx, ok := tm.rules.ExpandedIndex(template, tileset.Rot0)
	require.True(t, ok)
	return idx
}

// TestNewTilemap_Vocabulary tests the compiled rule set shape
func TestNewTilemap_Vocabulary(t *testing.T) {
	tm, err := newTilemap()
	require.NoError(t, err)

	// 1 dirt + 14 green layer + 14 yellow layer + 14 water layer + 6 props
	assert.Equal(t, 49, tm.rules.ModelCount())
	assert.Len(t, tm.rules.ExpandedOf(tm.greenSide), 4, "Transition sides spawn in all four rotations")
	assert.Len(t, tm.rules.ExpandedOf(tm.dirt), 1, "Dirt has a single fixed rotation")
	assert.Len(t, tm.voids, 4)
}

// TestNewTilemap_LayerChain tests that the up/down sockets pin each model to
// its own layer.
func TestNewTilemap_LayerChain(t *testing.T) {
	tm, err := newTilemap()
	require.NoError(t, err)

	dirt := expanded(t, tm, tm.dirt)
	grass := expanded(t, tm, tm.grass)
	voidL1 := expanded(t, tm, tm.voids[0])
	voidL3 := expanded(t, tm, tm.voids[2])
	tree := expanded(t, tm, tm.tree)

	assert.Empty(t, tm.rules.Allowed(dirt, grid.ZNeg), "Nothing goes below the dirt base")

	aboveDirt := tm.rules.Allowed(dirt, grid.ZPos)
	assert.Contains(t, aboveDirt, grass)
	assert.Contains(t, aboveDirt, voidL1)
	assert.NotContains(t, aboveDirt, dirt, "Dirt never stacks on dirt")

	assert.Equal(t, []int{voidL3}, tm.rules.Allowed(tree, grid.ZNeg),
		"Props stand only above open ground, never over water")
}

// TestNewTilemap_YellowGrassPinnedToGreen tests the yellow patch edges
func TestNewTilemap_YellowGrassPinnedToGreen(t *testing.T) {
	tm, err := newTilemap()
	require.NoError(t, err)

	grass := expanded(t, tm, tm.grass)
	yellow := expanded(t, tm, tm.yellow)
	yellowSide := expanded(t, tm, tm.yellowSide)

	assert.Equal(t, []int{grass}, tm.rules.Allowed(yellowSide, grid.ZNeg),
		"Yellow patch edges sit on green grass only")
	assert.Greater(t, len(tm.rules.Allowed(yellow, grid.ZNeg)), 1,
		"Plain yellow grass rides the layer chain, not the grass pin")
}

// TestNewTilemap_InPlaneAdjacency tests blob interiors and edges
func TestNewTilemap_InPlaneAdjacency(t *testing.T) {
	tm, err := newTilemap()
	require.NoError(t, err)

	grass := expanded(t, tm, tm.grass)
	voidL1 := expanded(t, tm, tm.voids[0])
	water := expanded(t, tm, tm.water)

	assert.Contains(t, tm.rules.Allowed(grass, grid.XPos), grass, "Grass tiles blob together")
	assert.NotContains(t, tm.rules.Allowed(grass, grid.XPos), voidL1,
		"Bare void never touches a grass interior; a transition edge sits between them")
	assert.Contains(t, tm.rules.Allowed(water, grid.YPos), water)

	assert.InDelta(t, 0.2, tm.rules.Weight(water), 1e-9)
	assert.InDelta(t, 0.02, tm.rules.Weight(expanded(t, tm, tm.waterOut)), 1e-9)
}

// TestTileLayers_GenerationContract generates the real map and checks the
// layer discipline of the result. Contradictions consume the retry budget;
// exhausting it is reported as a generation error, which is the documented
// failure mode for vocabulary this constrained.
func TestTileLayers_GenerationContract(t *testing.T) {
	tm, err := newTilemap()
	require.NoError(t, err)
	def, err := grid.NewCartesian3D(20, 20, 5, false, false, false)
	require.NoError(t, err)

	generator, err := gen.NewBuilder().
		WithRules(tm.rules).
		WithGrid(def).
		WithRng(gen.Seeded(99)).
		WithMaxRetries(200).
		Build()
	require.NoError(t, err)

	nodes, err := generator.Generate()
	if err != nil {
		var genErr gen.GenerationError
		require.ErrorAs(t, err, &genErr, "Generation only fails by exhausting its retry budget")
		t.Skipf("seed 99 exhausted the retry budget at node %d", genErr.NodeIndex)
	}

	require.Len(t, nodes, def.NodeCount())
	require.Equal(t, gen.StatusDone, generator.Status())

	for _, n := range nodes {
		if def.Position(n.NodeIndex).Z == 0 {
			assert.Equal(t, tm.dirt, n.Model.Template, "The bottom layer is solid dirt")
		}
	}
}

// TestTileLayers_CatalogEntry tests the descriptor surface
func TestTileLayers_CatalogEntry(t *testing.T) {
	d := New()
	assert.Equal(t, "tile-layers", d.Name())
	assert.NotEmpty(t, d.Synopsis())
}

// TestTileLayers_Build tests the plugin wiring
func TestTileLayers_Build(t *testing.T) {
	caps, err := feature.Resolve(feature.Default(), nil)
	require.NoError(t, err)
	app := engine.New(name, caps, engine.Config{TickMS: 10}, logging.Discard())

	_, err = build(app, engine.RunOptions{ViewOverride: "cinematic"})
	assert.Error(t, err, "An unknown view mode aborts the bootstrap")

	plugins, err := build(app, engine.RunOptions{})
	require.NoError(t, err)
	assert.Len(t, plugins, 3)
}

// TestTileLayers_HeadlessRun runs the full bootstrap without a terminal
func TestTileLayers_HeadlessRun(t *testing.T) {
	caps, err := feature.Resolve(feature.Default(), nil)
	require.NoError(t, err)
	app := engine.New(name, caps, engine.Config{TickMS: 10}, logging.Discard())
	var buf bytes.Buffer
	app.SetOutput(&buf)

	seed := uint64(11)
	plugins, err := build(app, engine.RunOptions{Seed: &seed, Headless: true})
	require.NoError(t, err)

	if err := app.Register(plugins...); err != nil {
		var initErr engine.PluginInitError
		require.ErrorAs(t, err, &initErr, "Registration only fails through a plugin init error")
		var genErr gen.GenerationError
		require.ErrorAs(t, err, &genErr, "And only when generation exhausts its retries")
		t.Skipf("seed 11 exhausted the retry budget: %v", err)
	}

	require.NoError(t, app.RunHeadless(context.Background(), ""))
	assert.NotEmpty(t, buf.String())

	generation, ok := plugins[1].(*procgen.Plugin)
	require.True(t, ok)
	snapshot := generation.Snapshot()
	assert.Len(t, snapshot.Nodes, 2000, "Every node of the 20x20x5 grid is assigned")
	assert.Equal(t, uint64(11), snapshot.Seed)
}
