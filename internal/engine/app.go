// Package engine runs an example as a terminal program: a thin plugin host
// on top of a Bubble Tea run loop, configured from a resolved capability set.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/tessera-labs/tessera/internal/feature"
)

// TickMsg drives timed stepping and animation. The app re-arms the tick on
// every receipt, at the configured interval.
type TickMsg time.Time

// headlessStepLimit bounds a headless run whose completers never finish.
const headlessStepLimit = 100000

// App hosts the registered plugins and implements tea.Model. Construct with
// New, add plugins with Register, then call Run or RunHeadless.
type App struct {
	name string
	caps feature.Set
	cfg  Config
	log  *slog.Logger

	plugins  []Plugin
	updaters []Updater
	viewers  []Viewer

	width  int
	height int
	stdout io.Writer
}

// New creates an app for the named example with its resolved capability set.
func New(name string, caps feature.Set, cfg Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		name:   name,
		caps:   caps,
		cfg:    cfg,
		log:    logger,
		stdout: os.Stdout,
	}
}

// Name returns the example name the app was created for.
func (a *App) Name() string { return a.name }

// Caps returns the resolved capability set.
func (a *App) Caps() feature.Set { return a.caps }

// Config returns the engine configuration.
func (a *App) Config() Config { return a.cfg }

// Logger returns the app logger for plugins to use.
func (a *App) Logger() *slog.Logger { return a.log }

// Size returns the current window size. Zero until the first
// tea.WindowSizeMsg arrives (or a headless run starts).
func (a *App) Size() (width, height int) { return a.width, a.height }

// SetOutput redirects where headless runs print the final frame.
func (a *App) SetOutput(w io.Writer) { a.stdout = w }

// Register initialises plugins in order. The first Init failure stops
// registration and is returned as a PluginInitError; plugins after it are
// not touched.
func (a *App) Register(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := p.Init(a); err != nil {
			return PluginInitError{Plugin: p.Name(), Err: err}
		}
		a.plugins = append(a.plugins, p)
		if u, ok := p.(Updater); ok {
			a.updaters = append(a.updaters, u)
		}
		if v, ok := p.(Viewer); ok {
			a.viewers = append(a.viewers, v)
		}
	}
	return nil
}

// Run enters the interactive run loop and blocks until quit or a fatal
// program error.
func (a *App) Run(ctx context.Context) error {
	lipgloss.SetColorProfile(a.colorProfile())
	a.log.Info("starting run loop",
		"example", a.name,
		"capabilities", a.caps.String(),
		"tick", a.cfg.Tick(),
	)

	program := tea.NewProgram(a, a.programOptions(ctx)...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run %s: %w", a.name, err)
	}
	return nil
}

// RunHeadless ticks the plugins without a terminal until every completer is
// done, prints the final frame to the configured output, and asks exporters
// to write their snapshot when exportPath is set.
func (a *App) RunHeadless(ctx context.Context, exportPath string) error {
	lipgloss.SetColorProfile(a.colorProfile())
	a.width, a.height = 120, 40
	for _, u := range a.updaters {
		u.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}

	for step := 0; !a.completersDone(); step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step >= headlessStepLimit {
			return fmt.Errorf("headless run of %s did not finish within %d steps", a.name, headlessStepLimit)
		}
		for _, u := range a.updaters {
			u.Update(TickMsg(time.Now()))
		}
	}

	fmt.Fprintln(a.stdout, a.View())

	if exportPath != "" {
		if !a.caps.Has(feature.PNG) {
			return fmt.Errorf("export to %s requires the png capability", exportPath)
		}
		for _, p := range a.plugins {
			e, ok := p.(Exporter)
			if !ok {
				continue
			}
			if err := e.Export(exportPath); err != nil {
				return fmt.Errorf("export %s: %w", exportPath, err)
			}
			a.log.Info("snapshot exported", "example", a.name, "path", exportPath)
		}
	}
	return nil
}

func (a *App) completersDone() bool {
	for _, p := range a.plugins {
		if c, ok := p.(Completer); ok && !c.Done() {
			return false
		}
	}
	return true
}

// programOptions maps the capability set onto Bubble Tea program options.
// Alt-screen needs both the capability and a real terminal; otherwise the
// program renders inline.
func (a *App) programOptions(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.caps.Has(feature.AltScreen) && isatty.IsTerminal(os.Stdout.Fd()) {
		opts = append(opts, tea.WithAltScreen())
	}
	switch {
	case a.caps.Has(feature.MouseAllMotion):
		opts = append(opts, tea.WithMouseAllMotion())
	case a.caps.Has(feature.MouseCellMotion):
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

// colorProfile derives the renderer ceiling from the capability set rather
// than terminal detection, so a run renders the same everywhere.
func (a *App) colorProfile() termenv.Profile {
	switch {
	case a.caps.Has(feature.TrueColor):
		return termenv.TrueColor
	case a.caps.Has(feature.Color256):
		return termenv.ANSI256
	case a.caps.Has(feature.Color):
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.tickCmd()
}

// Update implements tea.Model. The app handles window size, quit keys and
// tick re-arming itself; every message also fans out to plugin updaters.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		}

	case TickMsg:
		cmds = append(cmds, a.tickCmd())
	}

	for _, u := range a.updaters {
		if cmd := u.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

// View implements tea.Model by stacking plugin frames.
func (a *App) View() string {
	if len(a.viewers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a.viewers))
	for _, v := range a.viewers {
		if frame := v.View(a.width, a.height); frame != "" {
			parts = append(parts, frame)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.Tick(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
