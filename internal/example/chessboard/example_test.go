package chessboard

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/logging"
	"github.com/tessera-labs/tessera/internal/procgen"
)

// TestNewBoard_RulesAlternate tests the two-colour vocabulary
func TestNewBoard_RulesAlternate(t *testing.T) {
	b, err := newBoard()
	require.NoError(t, err)

	require.Equal(t, 2, b.rules.ModelCount(), "Two fixed-rotation models compile to two entries")
	assert.Equal(t, "white", b.rules.Name(b.white))
	assert.Equal(t, "black", b.rules.Name(b.black))

	for _, d := range b.rules.Directions() {
		assert.Equal(t, []int{b.black}, b.rules.Allowed(b.white, d), "White only neighbours black")
		assert.Equal(t, []int{b.white}, b.rules.Allowed(b.black, d), "Black only neighbours white")
	}

	assert.Equal(t, b.rules.Weight(b.white), b.rules.Weight(b.black), "Both colours spawn with equal weight")
}

// TestChessboard_CatalogEntry tests the descriptor surface
func TestChessboard_CatalogEntry(t *testing.T) {
	d := New()
	assert.Equal(t, "chessboard", d.Name())
	assert.NotEmpty(t, d.Synopsis())
}

// TestChessboard_HeadlessRun generates a full board and checks the result
// really alternates.
func TestChessboard_HeadlessRun(t *testing.T) {
	caps, err := feature.Resolve(feature.Default(), nil)
	require.NoError(t, err)

	app := engine.New(name, caps, engine.Config{TickMS: 10}, logging.Discard())
	var buf bytes.Buffer
	app.SetOutput(&buf)

	seed := uint64(7)
	plugins, err := build(app, engine.RunOptions{Seed: &seed, Headless: true})
	require.NoError(t, err)
	require.NoError(t, app.Register(plugins...))
	require.NoError(t, app.RunHeadless(context.Background(), ""))

	assert.Contains(t, buf.String(), "██", "The final frame shows the board glyphs")

	generation, ok := plugins[1].(*procgen.Plugin)
	require.True(t, ok)
	snapshot := generation.Snapshot()
	require.Len(t, snapshot.Nodes, 64, "Every cell of the 8x8 board is assigned")
	assert.Equal(t, uint64(7), snapshot.Seed)

	def, err := grid.NewCartesian2D(8, 8, false)
	require.NoError(t, err)
	byNode := make(map[int]int, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		byNode[n.NodeIndex] = n.Model.Template
	}
	for _, n := range snapshot.Nodes {
		for _, d := range []grid.Direction{grid.XPos, grid.YPos} {
			neighbour, ok := def.Neighbour(n.NodeIndex, d)
			if !ok {
				continue
			}
			assert.NotEqual(t, byNode[n.NodeIndex], byNode[neighbour],
				"Adjacent squares keep opposite colours")
		}
	}
}

// TestChessboard_ViewOverride tests that a bad --view choice surfaces before
// anything is registered.
func TestChessboard_ViewOverride(t *testing.T) {
	caps, err := feature.Resolve(feature.Default(), nil)
	require.NoError(t, err)
	app := engine.New(name, caps, engine.Config{TickMS: 10}, logging.Discard())

	_, err = build(app, engine.RunOptions{ViewOverride: "cinematic"})
	assert.Error(t, err)

	plugins, err := build(app, engine.RunOptions{ViewOverride: "manual"})
	require.NoError(t, err)
	assert.Len(t, plugins, 3)
}
