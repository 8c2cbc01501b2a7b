// Package picking turns pointer input into grid picking events. It is an
// engine plugin: mouse messages from the run loop go through the scene's
// screen-to-node hit test, and hover, selection and deselection come back
// out as messages every plugin can observe.
package picking

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/scene"
)

// Backend is a picking capability an example declares.
type Backend uint8

const (
	// BackendRaycast projects the pointer through the column and hits the
	// topmost spawned node.
	BackendRaycast Backend = iota
	// BackendSprite hits the visible layer's cell only.
	BackendSprite
	// BackendUI adds HUD rows reporting recent hits.
	BackendUI
)

func (b Backend) String() string {
	switch b {
	case BackendRaycast:
		return "raycast"
	case BackendSprite:
		return "sprite"
	case BackendUI:
		return "ui"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// NodeOverMsg reports the pointer moving onto a node.
type NodeOverMsg struct {
	NodeIndex int
	Position  grid.Position
}

// NodeSelectedMsg reports a primary click on a node.
type NodeSelectedMsg struct {
	NodeIndex int
	Position  grid.Position
}

// NodeDeselectedMsg reports the pointer leaving the grid.
type NodeDeselectedMsg struct{}

// historySize bounds the UI backend's hit list.
const historySize = 3

// Plugin is the picking plugin. It needs the mouse capability and at least
// one backend.
type Plugin struct {
	renderer *scene.Renderer
	backends []Backend
	log      *slog.Logger

	hover    *int
	selected *int
	history  []string
}

// New builds the picking plugin over the scene's layout.
func New(renderer *scene.Renderer, backends ...Backend) *Plugin {
	return &Plugin{
		renderer: renderer,
		backends: backends,
		log:      slog.Default(),
	}
}

// Name implements the engine plugin contract.
func (p *Plugin) Name() string { return "picking" }

// Init fails when the engine capability set lacks the mouse capability or
// no backend was declared.
func (p *Plugin) Init(app *engine.App) error {
	if p.renderer == nil {
		return errors.New("no scene renderer attached")
	}
	if len(p.backends) == 0 {
		return errors.New("no picking backends configured")
	}
	if !app.Caps().Has(feature.Mouse) {
		return fmt.Errorf("capability %s required", feature.Mouse)
	}
	p.log = app.Logger()

	names := make([]string, len(p.backends))
	for i, b := range p.backends {
		names[i] = b.String()
	}
	p.log.Info("picking ready", "backends", strings.Join(names, ","))
	return nil
}

// Update translates mouse messages into picking events.
func (p *Plugin) Update(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}

	switch mouse.Action {
	case tea.MouseActionMotion:
		return p.pointerMoved(mouse.X, mouse.Y)
	case tea.MouseActionPress:
		if mouse.Button == tea.MouseButtonLeft {
			return p.pointerPressed(mouse.X, mouse.Y)
		}
	}
	return nil
}

func (p *Plugin) pointerMoved(x, y int) tea.Cmd {
	node, hit := p.renderer.NodeAt(x, y)
	if !hit {
		if p.hover == nil {
			return nil
		}
		p.hover = nil
		p.renderer.ClearHover()
		p.renderer.SetCursorInfo("")
		return func() tea.Msg { return NodeDeselectedMsg{} }
	}

	if p.hover != nil && *p.hover == node {
		return nil
	}
	n := node
	p.hover = &n
	p.renderer.SetHover(node)
	p.renderer.SetCursorInfo(p.describe(node))

	pos := p.renderer.Grid().Position(node)
	return func() tea.Msg { return NodeOverMsg{NodeIndex: node, Position: pos} }
}

func (p *Plugin) pointerPressed(x, y int) tea.Cmd {
	node, hit := p.renderer.NodeAt(x, y)
	if !hit {
		return nil
	}

	if p.selected != nil {
		p.renderer.ClearMarker(*p.selected)
	}
	n := node
	p.selected = &n
	p.renderer.SetMarker(node, scene.MarkerSelected)

	desc := p.describe(node)
	p.renderer.SetCursorInfo(desc)
	if p.hasBackend(BackendUI) {
		p.history = append(p.history, desc)
		if len(p.history) > historySize {
			p.history = p.history[len(p.history)-historySize:]
		}
	}
	p.log.Debug("node selected", "node", node)

	pos := p.renderer.Grid().Position(node)
	return func() tea.Msg { return NodeSelectedMsg{NodeIndex: node, Position: pos} }
}

// View contributes the UI backend's hit rows; other backends draw nothing
// of their own.
func (p *Plugin) View(width, height int) string {
	if !p.hasBackend(BackendUI) || len(p.history) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	rows := make([]string, 0, len(p.history))
	for i := len(p.history) - 1; i >= 0; i-- {
		rows = append(rows, style.Render("hit: "+p.history[i]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// describe formats the HUD cursor line for a node.
func (p *Plugin) describe(node int) string {
	pos := p.renderer.Grid().Position(node)
	where := fmt.Sprintf("node %d (%d,%d,%d)", node, pos.X, pos.Y, pos.Z)
	if cell, ok := p.renderer.CellAt(node); ok {
		return where + " " + cell.Name
	}
	return where + " void"
}

func (p *Plugin) hasBackend(b Backend) bool {
	for _, have := range p.backends {
		if have == b {
			return true
		}
	}
	return false
}
