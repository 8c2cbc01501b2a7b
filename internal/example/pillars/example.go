// Package pillars generates a field of freestanding stone pillars: a
// ground plane on the bottom layer, bases that only ever stand on ground,
// sections stacked to varied heights and a cap wherever a column ends
// short of the ceiling. The run starts paused and is stepped by hand.
package pillars

import (
	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/example"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/picking"
	"github.com/tessera-labs/tessera/internal/procgen"
	"github.com/tessera-labs/tessera/internal/scene"
)

const name = "pillars"

// New returns the pillars catalog entry.
func New() example.Descriptor {
	return example.NewEntry(name, "freestanding stone pillars over a ground plane, stepped by hand", build)
}

func build(app *engine.App, opts engine.RunOptions) ([]engine.Plugin, error) {
	f, err := newField()
	if err != nil {
		return nil, err
	}
	def, err := grid.NewCartesian3D(12, 8, 12, false, false, false)
	if err != nil {
		return nil, err
	}

	mode, err := procgen.Manual().Override(opts.ViewOverride)
	if err != nil {
		return nil, err
	}
	if opts.Headless {
		mode = procgen.Final()
	}

	rng := gen.RandomSeed()
	if seed, ok := opts.EffectiveSeed(app.Config()); ok {
		rng = gen.Seeded(seed)
	}
	// index order walks columns bottom-up, so every support lands before
	// the cell that rests on it
	generator, err := gen.NewBuilder().
		WithRules(f.rules).
		WithGrid(def).
		WithRng(rng).
		WithNodeHeuristic(gen.OrderedNode).
		Build()
	if err != nil {
		return nil, err
	}

	renderer, err := scene.NewRenderer(def, f.assets, palette(), scene.Options{
		Axis:      grid.YPos,
		Composite: true,
		HelpExtra: mode.Help(),
	})
	if err != nil {
		return nil, err
	}

	generation := procgen.New(generator, renderer, procgen.Config{
		Mode:       mode,
		Control:    procgen.Control{PauseWhenDone: true, SkipVoidNodes: true},
		VoidModels: []int{f.void},
	})
	picker := picking.New(renderer, picking.BackendRaycast, picking.BackendUI)

	return []engine.Plugin{renderer, generation, picker}, nil
}
