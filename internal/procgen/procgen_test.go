package procgen

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/logging"
	"github.com/tessera-labs/tessera/internal/scene"
	"github.com/tessera-labs/tessera/internal/tileset"
)

type fixture struct {
	app      *engine.App
	renderer *scene.Renderer
	gen      gen.Generator
	def      grid.Definition
}

func checkerRules(t *testing.T) *tileset.Rules {
	t.Helper()
	sockets := tileset.NewSocketCollection()
	dark := sockets.Create()
	light := sockets.Create()
	sockets.AddConnection(dark, light)

	models := tileset.NewModelSet()
	models.Add(tileset.Mono2D(dark).Named("dark"))
	models.Add(tileset.Mono2D(light).Named("light"))

	rules, err := tileset.NewRules2D(models, sockets)
	require.NoError(t, err)
	return rules
}

func voidOnlyRules(t *testing.T) *tileset.Rules {
	t.Helper()
	sockets := tileset.NewSocketCollection()
	open := sockets.Create()
	sockets.AddConnection(open, open)

	models := tileset.NewModelSet()
	models.Add(tileset.Mono2D(open).Named("void"))

	rules, err := tileset.NewRules2D(models, sockets)
	require.NoError(t, err)
	return rules
}

func stuckRules(t *testing.T) *tileset.Rules {
	t.Helper()
	sockets := tileset.NewSocketCollection()
	dead := sockets.Create()
	side := sockets.Create()
	sockets.AddConnection(side, side)

	models := tileset.NewModelSet()
	models.Add(tileset.Sides2D{
		XPos: tileset.S(dead), XNeg: tileset.S(dead),
		YPos: tileset.S(side), YNeg: tileset.S(side),
	}.Template().Named("stuck"))

	rules, err := tileset.NewRules2D(models, sockets)
	require.NoError(t, err)
	return rules
}

func newFixture(t *testing.T, rules *tileset.Rules, w, h, maxRetries int) fixture {
	t.Helper()
	def, err := grid.NewCartesian2D(w, h, false)
	require.NoError(t, err)

	generator, err := gen.NewBuilder().
		WithRules(rules).
		WithGrid(def).
		WithRng(gen.Seeded(21)).
		WithMaxRetries(maxRetries).
		Build()
	require.NoError(t, err)

	assets := scene.AssetMap{
		0: {{Glyph: "██", FG: lipgloss.Color("#e0e0e0")}},
		1: {{Glyph: "░░", FG: lipgloss.Color("#404040")}},
	}
	renderer, err := scene.NewRenderer(def, assets, scene.DefaultPalette(), scene.Options{})
	require.NoError(t, err)

	app := engine.New("procgen-test", feature.NewSet(), engine.Config{TickMS: 10}, logging.Discard())
	return fixture{app: app, renderer: renderer, gen: generator, def: def}
}

func tick(p *Plugin, at time.Time) {
	p.Update(engine.TickMsg(at))
}

func key(p *Plugin, k string) {
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func spaceKey(p *Plugin) {
	p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
}

// TestPlugin_Init_Validation tests that a badly wired plugin fails
// registration with a plugin init error.
func TestPlugin_Init_Validation(t *testing.T) {
	f := newFixture(t, checkerRules(t), 4, 4, 2)

	tests := []struct {
		name   string
		plugin *Plugin
	}{
		{name: "NilGenerator", plugin: New(nil, f.renderer, Config{Mode: Final()})},
		{name: "NilRenderer", plugin: New(f.gen, nil, Config{Mode: Final()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := engine.New("procgen-test", feature.NewSet(), engine.Config{TickMS: 10}, logging.Discard())
			err := app.Register(tt.plugin)
			require.Error(t, err)

			var initErr engine.PluginInitError
			require.ErrorAs(t, err, &initErr)
			assert.Equal(t, "procgen", initErr.Plugin)
		})
	}
}

// TestPlugin_FinalMode_GeneratesDuringInit tests the final view mode
func TestPlugin_FinalMode_GeneratesDuringInit(t *testing.T) {
	f := newFixture(t, checkerRules(t), 4, 4, 2)
	plugin := New(f.gen, f.renderer, Config{Mode: Final()})

	require.NoError(t, f.app.Register(plugin))

	assert.True(t, plugin.Done())
	snap := plugin.Snapshot()
	assert.Equal(t, gen.StatusDone, snap.Status)
	require.Len(t, snap.Nodes, f.def.NodeCount())

	for i, n := range snap.Nodes {
		assert.Equal(t, i, n.NodeIndex, "Snapshot nodes come sorted by index")
		cell, ok := f.renderer.CellAt(n.NodeIndex)
		require.True(t, ok, "Every generated node reached the scene")
		assert.True(t, cell.SpawnedAt.IsZero(), "Final mode spawns fully lit")
	}
}

// TestPlugin_StepMode_AdvancesOnInterval tests timed stepping
func TestPlugin_StepMode_AdvancesOnInterval(t *testing.T) {
	f := newFixture(t, checkerRules(t), 4, 4, 2)
	plugin := New(f.gen, f.renderer, Config{Mode: StepByStep(3, 50*time.Millisecond)})
	require.NoError(t, f.app.Register(plugin))

	assert.Empty(t, plugin.Snapshot().Nodes, "Step mode generates nothing during Init")

	t0 := time.Now()
	tick(plugin, t0)
	assert.Len(t, plugin.Snapshot().Nodes, 3, "The first tick steps")

	tick(plugin, t0.Add(10*time.Millisecond))
	assert.Len(t, plugin.Snapshot().Nodes, 3, "Within the interval nothing advances")

	tick(plugin, t0.Add(60*time.Millisecond))
	assert.Len(t, plugin.Snapshot().Nodes, 6, "The next interval steps again")
}

// TestPlugin_ManualMode_StepsOnKeys tests the paused-by-default mode
func TestPlugin_ManualMode_StepsOnKeys(t *testing.T) {
	f := newFixture(t, checkerRules(t), 4, 4, 2)
	plugin := New(f.gen, f.renderer, Config{Mode: Manual()})
	require.NoError(t, f.app.Register(plugin))

	t0 := time.Now()
	tick(plugin, t0)
	assert.Empty(t, plugin.Snapshot().Nodes, "Manual mode starts paused")

	key(plugin, "n")
	assert.Len(t, plugin.Snapshot().Nodes, 1, "The step key advances one node")

	spaceKey(plugin)
	tick(plugin, t0.Add(10*time.Millisecond))
	assert.Len(t, plugin.Snapshot().Nodes, 2, "Unpausing advances per tick")

	spaceKey(plugin)
	tick(plugin, t0.Add(20*time.Millisecond))
	assert.Len(t, plugin.Snapshot().Nodes, 2, "Pausing stops ticking")
}

// TestPlugin_SkipVoidNodes_FastForwards tests void fast-forwarding
func TestPlugin_SkipVoidNodes_FastForwards(t *testing.T) {
	f := newFixture(t, voidOnlyRules(t), 5, 5, 2)
	plugin := New(f.gen, f.renderer, Config{
		Mode:       StepByStep(1, 0),
		Control:    Control{PauseWhenDone: true, SkipVoidNodes: true},
		VoidModels: []int{0},
	})
	require.NoError(t, f.app.Register(plugin))

	tick(plugin, time.Now())

	assert.True(t, plugin.Done(), "Void-only steps fast-forward to completion")
	snap := plugin.Snapshot()
	assert.Len(t, snap.Nodes, f.def.NodeCount())
	assert.Empty(t, snap.SpawnTimes, "Void nodes never reach the scene")
	for node := 0; node < f.def.NodeCount(); node++ {
		_, ok := f.renderer.CellAt(node)
		assert.False(t, ok)
	}
}

// TestPlugin_Failure_MarksContradictionNode tests the failure surface
func TestPlugin_Failure_MarksContradictionNode(t *testing.T) {
	f := newFixture(t, stuckRules(t), 2, 1, 1)
	plugin := New(f.gen, f.renderer, Config{
		Mode:    StepByStep(1, 0),
		Control: Control{PauseOnError: true},
	})
	require.NoError(t, f.app.Register(plugin))

	t0 := time.Now()
	for i := 0; i < 20 && !plugin.Done(); i++ {
		tick(plugin, t0.Add(time.Duration(i)*time.Millisecond))
	}

	require.True(t, plugin.Done(), "Retry exhaustion ends generation")
	assert.NotEqual(t, gen.StatusDone, plugin.Snapshot().Status)

	var marked bool
	for node := 0; node < f.def.NodeCount(); node++ {
		if kind, ok := f.renderer.MarkerAt(node); ok {
			marked = true
			assert.Equal(t, scene.MarkerFailed, kind)
		}
	}
	assert.True(t, marked, "The contradicting node carries a failure marker")
}

// TestPlugin_RestartKey_ClearsScene tests the manual restart
func TestPlugin_RestartKey_ClearsScene(t *testing.T) {
	f := newFixture(t, checkerRules(t), 4, 4, 2)
	plugin := New(f.gen, f.renderer, Config{Mode: StepByStep(4, 0)})
	require.NoError(t, f.app.Register(plugin))

	tick(plugin, time.Now())
	require.Len(t, plugin.Snapshot().Nodes, 4)

	key(plugin, "r")
	snap := plugin.Snapshot()
	assert.Empty(t, snap.Nodes, "Restart clears the assignment record")
	assert.Equal(t, 2, snap.Attempt)
	for node := 0; node < f.def.NodeCount(); node++ {
		_, ok := f.renderer.CellAt(node)
		assert.False(t, ok, "Restart clears the scene")
	}
}

// TestPlugin_RegeneratesWhenNotPausedOnDone tests the continuous showcase
// cycle.
func TestPlugin_RegeneratesWhenNotPausedOnDone(t *testing.T) {
	f := newFixture(t, checkerRules(t), 2, 2, 2)
	plugin := New(f.gen, f.renderer, Config{
		Mode:    StepByStep(8, 0),
		Control: Control{PauseWhenDone: false},
	})
	require.NoError(t, f.app.Register(plugin))

	t0 := time.Now()
	tick(plugin, t0)
	require.True(t, plugin.Done(), "A big step budget finishes the small grid")
	require.Equal(t, 1, plugin.Snapshot().Attempt)

	tick(plugin, t0.Add(10*time.Millisecond))
	snap := plugin.Snapshot()
	assert.Equal(t, 2, snap.Attempt, "The finished map gives way to a fresh one")
	assert.Equal(t, gen.StatusOngoing, snap.Status)
	assert.Empty(t, snap.Nodes)
}

// TestViewMode_Override tests the --view flag mapping
func TestViewMode_Override(t *testing.T) {
	base := StepByStep(4, 100*time.Millisecond)

	tests := []struct {
		name        string
		choice      string
		wantKind    ViewKind
		expectError bool
	}{
		{name: "EmptyKeepsDefault", choice: "", wantKind: ViewStepByStep},
		{name: "AutoKeepsDefault", choice: "auto", wantKind: ViewStepByStep},
		{name: "Final", choice: "final", wantKind: ViewFinal},
		{name: "Manual", choice: "manual", wantKind: ViewManual},
		{name: "Unknown", choice: "cinematic", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := base.Override(tt.choice)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, mode.Kind)
		})
	}
}

// TestViewMode_Help tests the footer hint
func TestViewMode_Help(t *testing.T) {
	assert.Empty(t, Final().Help())
	assert.NotEmpty(t, Manual().Help())
	assert.NotEmpty(t, StepByStep(1, 0).Help())
}
