// Package procgen is the generation plugin: it owns a generator, advances it
// according to the example's view mode, and feeds the outcome to the scene
// as cells, markers and status.
package procgen

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/scene"
)

// ViewKind selects how generation is presented.
type ViewKind uint8

const (
	// ViewFinal generates everything during Init and shows the finished map.
	ViewFinal ViewKind = iota
	// ViewStepByStep advances a few nodes per interval while the scene runs.
	ViewStepByStep
	// ViewManual starts paused and advances on the step and unpause keys.
	ViewManual
)

func (k ViewKind) String() string {
	switch k {
	case ViewFinal:
		return "final"
	case ViewStepByStep:
		return "step-by-step"
	case ViewManual:
		return "manual"
	default:
		return fmt.Sprintf("ViewKind(%d)", uint8(k))
	}
}

// ViewMode is a view kind with its stepping cadence.
type ViewMode struct {
	Kind         ViewKind
	StepsPerTick int
	Interval     time.Duration
}

// Final generates up front and presents the finished map.
func Final() ViewMode {
	return ViewMode{Kind: ViewFinal}
}

// StepByStep generates stepsPerTick nodes every interval.
func StepByStep(stepsPerTick int, interval time.Duration) ViewMode {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return ViewMode{Kind: ViewStepByStep, StepsPerTick: stepsPerTick, Interval: interval}
}

// Manual starts paused; unpausing steps one node per tick.
func Manual() ViewMode {
	return ViewMode{Kind: ViewManual, StepsPerTick: 1}
}

// Override applies a --view choice on top of the example's default mode.
// "auto" and the empty string keep the default.
func (m ViewMode) Override(choice string) (ViewMode, error) {
	switch choice {
	case "", "auto":
		return m, nil
	case "final":
		return Final(), nil
	case "manual":
		return Manual(), nil
	default:
		return ViewMode{}, fmt.Errorf("unknown view mode %q (want final, auto or manual)", choice)
	}
}

// Help describes the mode's keys for the HUD footer.
func (m ViewMode) Help() string {
	if m.Kind == ViewFinal {
		return ""
	}
	return "[space] pause | [n] step | [r] restart"
}

// Control tunes how generation reacts to progress and trouble.
type Control struct {
	// PauseWhenDone keeps the finished map; otherwise a fresh map starts
	// generating on the next interval.
	PauseWhenDone bool
	// PauseOnError pauses stepping when a contradiction is reported.
	PauseOnError bool
	// SkipVoidNodes keeps stepping past nodes that only produced void
	// models, so timed stepping shows visible progress.
	SkipVoidNodes bool
}

// Config wires a plugin for one example.
type Config struct {
	Mode    ViewMode
	Control Control
	// VoidModels lists template indices that render as nothing.
	VoidModels []int
}

// Snapshot is the generated content as scene data: every assigned node with
// its model instance, plus when each visible node spawned.
type Snapshot struct {
	Nodes      []gen.GridNode
	SpawnTimes map[int]time.Time
	Status     gen.GenerationStatus
	Attempt    int
	Seed       uint64
}

// Plugin drives a generator inside the engine run loop.
type Plugin struct {
	gen      gen.Generator
	renderer *scene.Renderer
	mode     ViewMode
	control  Control
	void     map[int]bool
	log      *slog.Logger

	paused     bool
	clock      time.Time
	lastStep   time.Time
	assigned   map[int]gen.GridNode
	spawnTimes map[int]time.Time
	genErr     error
}

// New builds the generation plugin. The generator and renderer are wired by
// the example's bootstrap.
func New(g gen.Generator, r *scene.Renderer, cfg Config) *Plugin {
	void := make(map[int]bool, len(cfg.VoidModels))
	for _, template := range cfg.VoidModels {
		void[template] = true
	}
	return &Plugin{
		gen:        g,
		renderer:   r,
		mode:       cfg.Mode,
		control:    cfg.Control,
		void:       void,
		log:        slog.Default(),
		assigned:   make(map[int]gen.GridNode),
		spawnTimes: make(map[int]time.Time),
	}
}

// Name implements the engine plugin contract.
func (p *Plugin) Name() string { return "procgen" }

// Init validates the wiring, logs the reproduction seed, and in final view
// mode generates the whole grid before the first frame.
func (p *Plugin) Init(app *engine.App) error {
	if p.gen == nil {
		return errors.New("no generator configured")
	}
	if p.renderer == nil {
		return errors.New("no scene renderer attached")
	}
	p.log = app.Logger()
	p.paused = p.mode.Kind == ViewManual

	p.log.Info("generator ready",
		"seed", p.gen.Seed(),
		"nodes", p.gen.Grid().NodeCount(),
		"models", p.gen.Rules().ModelCount(),
		"view", p.mode.Kind,
	)

	if p.mode.Kind == ViewFinal {
		if _, err := p.gen.Generate(); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}
	p.drainUpdates()
	p.publishInfo()
	return nil
}

// Update advances generation on ticks and handles the stepping keys.
func (p *Plugin) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case engine.TickMsg:
		p.clock = time.Time(msg)
		if p.mode.Kind == ViewFinal || p.paused {
			return nil
		}
		if !p.active() {
			if p.readyToCycle() {
				p.restart()
			}
			return nil
		}
		if p.intervalElapsed() {
			p.stepN(p.mode.StepsPerTick)
			p.lastStep = p.clock
		}

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			if p.mode.Kind != ViewFinal {
				p.paused = !p.paused
				p.publishInfo()
			}
		case "n":
			if p.mode.Kind != ViewFinal && p.active() {
				p.stepN(1)
			}
		case "r":
			p.restart()
		}
	}
	return nil
}

// Done reports whether generation reached a terminal state. Headless runs
// tick until this is true.
func (p *Plugin) Done() bool {
	return p.genErr != nil || p.gen.Status() == gen.StatusDone
}

// Snapshot returns the generated content, sorted by node index.
func (p *Plugin) Snapshot() Snapshot {
	nodes := make([]gen.GridNode, 0, len(p.assigned))
	for _, n := range p.assigned {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeIndex < nodes[j].NodeIndex })

	times := make(map[int]time.Time, len(p.spawnTimes))
	for node, at := range p.spawnTimes {
		times[node] = at
	}
	return Snapshot{
		Nodes:      nodes,
		SpawnTimes: times,
		Status:     p.gen.Status(),
		Attempt:    p.gen.Attempt(),
		Seed:       p.gen.Seed(),
	}
}

func (p *Plugin) active() bool {
	return p.genErr == nil && p.gen.Status() == gen.StatusOngoing
}

// readyToCycle reports whether a finished map should give way to a fresh
// one: timed stepping without PauseWhenDone regenerates continuously.
func (p *Plugin) readyToCycle() bool {
	return p.genErr == nil &&
		p.gen.Status() == gen.StatusDone &&
		p.mode.Kind == ViewStepByStep &&
		!p.control.PauseWhenDone &&
		p.intervalElapsed()
}

func (p *Plugin) intervalElapsed() bool {
	if p.mode.Interval <= 0 || p.lastStep.IsZero() {
		return true
	}
	return p.clock.Sub(p.lastStep) >= p.mode.Interval
}

// stepN performs n generation steps. With SkipVoidNodes, steps that only
// produced void models do not count towards n.
func (p *Plugin) stepN(n int) {
	performed := 0
	for performed < n && p.active() {
		nodes, err := p.gen.Step()
		if err != nil {
			p.genErr = err
			p.log.Error("generation failed", "error", err)
			break
		}
		visible := false
		for _, node := range nodes {
			if !p.void[node.Model.Template] {
				visible = true
			}
		}
		if visible || !p.control.SkipVoidNodes {
			performed++
		}
	}
	p.drainUpdates()
	p.publishInfo()
}

func (p *Plugin) restart() {
	p.genErr = nil
	p.gen.Reinitialize()
	p.paused = p.mode.Kind == ViewManual
	p.lastStep = p.clock
	p.drainUpdates()
	p.publishInfo()
}

func (p *Plugin) drainUpdates() {
	for _, u := range p.gen.DequeueUpdates() {
		switch u := u.(type) {
		case gen.UpdateGenerated:
			node := u.Node
			p.assigned[node.NodeIndex] = node
			if p.void[node.Model.Template] {
				continue
			}
			p.spawnTimes[node.NodeIndex] = p.clock
			p.renderer.SpawnCell(node.NodeIndex, scene.Cell{
				Template:  node.Model.Template,
				Rotation:  node.Model.Rotation,
				Name:      p.gen.Rules().Name(node.Expanded),
				SpawnedAt: p.clock,
			})

		case gen.UpdateReinitialized:
			p.assigned = make(map[int]gen.GridNode)
			p.spawnTimes = make(map[int]time.Time)
			p.renderer.ClearCells()
			p.log.Info("generation restarted", "attempt", u.Attempt, "seed", u.Seed)

		case gen.UpdateFailed:
			p.renderer.SetMarker(u.NodeIndex, scene.MarkerFailed)
			if p.control.PauseOnError {
				p.paused = true
			}
			p.log.Warn("contradiction", "node", u.NodeIndex, "attempt", p.gen.Attempt())
		}
	}
}

func (p *Plugin) publishInfo() {
	status := p.gen.Status().String()
	switch {
	case p.genErr != nil:
		status = "failed"
	case p.paused && p.gen.Status() == gen.StatusOngoing:
		status = "paused"
	}
	p.renderer.SetGenInfo(scene.GenInfo{
		Seed:      p.gen.Seed(),
		Status:    status,
		Attempt:   p.gen.Attempt(),
		Generated: len(p.assigned),
		Total:     p.gen.Grid().NodeCount(),
	})
}
