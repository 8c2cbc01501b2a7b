package engine

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Plugin is the registration contract. Init runs once during Register, in
// registration order, and may read the app's capability set, configuration
// and logger. An Init error aborts the bootstrap.
type Plugin interface {
	Name() string
	Init(app *App) error
}

// Updater is implemented by plugins that want run-loop messages. Every
// message the app receives fans out to all updaters in registration order.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// Viewer is implemented by plugins that contribute to the frame. Outputs are
// stacked vertically in registration order.
type Viewer interface {
	View(width, height int) string
}

// Completer is implemented by plugins whose work can finish; headless runs
// tick until every completer reports done.
type Completer interface {
	Done() bool
}

// Exporter is implemented by plugins that can write a snapshot of their
// output to a file.
type Exporter interface {
	Export(path string) error
}

// PluginInitError reports the first plugin whose Init failed. Registration
// stops there; later plugins are not initialised.
type PluginInitError struct {
	Plugin string
	Err    error
}

func (e PluginInitError) Error() string {
	return fmt.Sprintf("plugin %q failed to initialize: %v", e.Plugin, e.Err)
}

func (e PluginInitError) Unwrap() error {
	return e.Err
}
