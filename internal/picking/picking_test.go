package picking

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/logging"
	"github.com/tessera-labs/tessera/internal/scene"
)

func newTestRenderer(t *testing.T) *scene.Renderer {
	t.Helper()
	def, err := grid.NewCartesian2D(8, 8, false)
	require.NoError(t, err)

	assets := scene.AssetMap{
		0: {{Glyph: "██", FG: lipgloss.Color("#f0f0f0")}},
		1: {{Glyph: "░░", FG: lipgloss.Color("#101010")}},
	}
	renderer, err := scene.NewRenderer(def, assets, scene.DefaultPalette(), scene.Options{})
	require.NoError(t, err)
	return renderer
}

func newMouseApp() *engine.App {
	caps := feature.NewSet(feature.Mouse, feature.MouseCellMotion)
	return engine.New("picking-test", caps, engine.Config{TickMS: 10}, logging.Discard())
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func leftPress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// TestPlugin_Init_RequiresMouseAndBackends tests the init contract
func TestPlugin_Init_RequiresMouseAndBackends(t *testing.T) {
	tests := []struct {
		name        string
		caps        feature.Set
		plugin      *Plugin
		expectError bool
		description string
	}{
		{
			name:        "MouseAndBackend_ShouldSucceed",
			caps:        feature.NewSet(feature.Mouse),
			plugin:      New(newTestRenderer(t), BackendSprite),
			expectError: false,
			description: "The mouse capability plus one backend suffices",
		},
		{
			name:        "NoBackends_ShouldFail",
			caps:        feature.NewSet(feature.Mouse),
			plugin:      New(newTestRenderer(t)),
			expectError: true,
			description: "An empty backend list cannot pick anything",
		},
		{
			name:        "NoMouseCapability_ShouldFail",
			caps:        feature.NewSet(),
			plugin:      New(newTestRenderer(t), BackendRaycast),
			expectError: true,
			description: "Picking needs pointer input",
		},
		{
			name:        "NoRenderer_ShouldFail",
			caps:        feature.NewSet(feature.Mouse),
			plugin:      New(nil, BackendRaycast),
			expectError: true,
			description: "Picking needs the scene layout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := engine.New("picking-test", tt.caps, engine.Config{TickMS: 10}, logging.Discard())
			err := app.Register(tt.plugin)
			if !tt.expectError {
				assert.NoError(t, err, tt.description)
				return
			}
			require.Error(t, err, tt.description)
			var initErr engine.PluginInitError
			require.ErrorAs(t, err, &initErr)
			assert.Equal(t, "picking", initErr.Plugin)
		})
	}
}

// TestPlugin_Hover_EmitsNodeOver tests pointer motion events
func TestPlugin_Hover_EmitsNodeOver(t *testing.T) {
	renderer := newTestRenderer(t)
	renderer.SpawnCell(0, scene.Cell{Template: 0, Name: "dark"})
	plugin := New(renderer, BackendSprite)
	require.NoError(t, newMouseApp().Register(plugin))

	cmd := plugin.Update(motion(0, 0))
	require.NotNil(t, cmd)
	over, ok := cmd().(NodeOverMsg)
	require.True(t, ok)
	assert.Equal(t, 0, over.NodeIndex)
	assert.Equal(t, grid.Position{}, over.Position)

	assert.Nil(t, plugin.Update(motion(1, 0)), "Hovering within the same cell stays quiet")

	cmd = plugin.Update(motion(2, 0))
	require.NotNil(t, cmd)
	over, ok = cmd().(NodeOverMsg)
	require.True(t, ok)
	assert.Equal(t, 1, over.NodeIndex, "The neighbouring cell starts two columns over")
}

// TestPlugin_PointerLeavesGrid_Deselects tests the leave event
func TestPlugin_PointerLeavesGrid_Deselects(t *testing.T) {
	renderer := newTestRenderer(t)
	plugin := New(renderer, BackendSprite)
	require.NoError(t, newMouseApp().Register(plugin))

	require.NotNil(t, plugin.Update(motion(0, 0)))

	cmd := plugin.Update(motion(500, 500))
	require.NotNil(t, cmd)
	assert.IsType(t, NodeDeselectedMsg{}, cmd())

	assert.Nil(t, plugin.Update(motion(500, 501)), "Leaving twice stays quiet")
}

// TestPlugin_Click_SelectsAndMarks tests selection
func TestPlugin_Click_SelectsAndMarks(t *testing.T) {
	renderer := newTestRenderer(t)
	renderer.SpawnCell(0, scene.Cell{Template: 0, Name: "dark"})
	plugin := New(renderer, BackendSprite)
	require.NoError(t, newMouseApp().Register(plugin))

	cmd := plugin.Update(leftPress(0, 0))
	require.NotNil(t, cmd)
	selected, ok := cmd().(NodeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, 0, selected.NodeIndex)

	kind, marked := renderer.MarkerAt(0)
	require.True(t, marked)
	assert.Equal(t, scene.MarkerSelected, kind)

	// clicking elsewhere moves the marker
	cmd = plugin.Update(leftPress(4, 0))
	require.NotNil(t, cmd)
	_, marked = renderer.MarkerAt(0)
	assert.False(t, marked, "The old selection marker moves with the click")
	_, marked = renderer.MarkerAt(2)
	assert.True(t, marked)
}

// TestPlugin_UIBackend_ReportsHits tests the HUD hit rows
func TestPlugin_UIBackend_ReportsHits(t *testing.T) {
	renderer := newTestRenderer(t)
	renderer.SpawnCell(0, scene.Cell{Template: 0, Name: "dark"})
	plugin := New(renderer, BackendRaycast, BackendUI)
	require.NoError(t, newMouseApp().Register(plugin))

	assert.Empty(t, plugin.View(80, 24), "No hits, no rows")

	plugin.Update(leftPress(0, 0))
	view := plugin.View(80, 24)
	assert.Contains(t, view, "hit:")
	assert.Contains(t, view, "dark")

	for i := 0; i < 5; i++ {
		plugin.Update(leftPress(i*2, 2))
	}
	assert.Len(t, plugin.history, historySize, "The hit list stays bounded")
}

// TestPlugin_WithoutUIBackend_DrawsNothing tests that only the UI backend
// contributes rows.
func TestPlugin_WithoutUIBackend_DrawsNothing(t *testing.T) {
	renderer := newTestRenderer(t)
	plugin := New(renderer, BackendSprite)
	require.NoError(t, newMouseApp().Register(plugin))

	plugin.Update(leftPress(0, 0))
	assert.Empty(t, plugin.View(80, 24))
}

// TestPlugin_Describe_VoidCells tests the cursor line for empty cells
func TestPlugin_Describe_VoidCells(t *testing.T) {
	renderer := newTestRenderer(t)
	plugin := New(renderer, BackendSprite)
	require.NoError(t, newMouseApp().Register(plugin))

	assert.Contains(t, plugin.describe(5), "void")

	renderer.SpawnCell(5, scene.Cell{Template: 1, Name: "light"})
	assert.Contains(t, plugin.describe(5), "light")
}
