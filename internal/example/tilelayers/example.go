// Package tilelayers is the layered tile-map example: a 20x20 map of five
// z-stacked layers (dirt, green grass, yellow grass, water, props) generated
// step by step and composited bottom-to-top in the terminal.
package tilelayers

import (
	"time"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/example"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/picking"
	"github.com/tessera-labs/tessera/internal/procgen"
	"github.com/tessera-labs/tessera/internal/scene"
)

const name = "tile-layers"

// New returns the tile-layers catalog entry.
func New() example.Descriptor {
	return example.NewEntry(name, "a layered terrain map: grass, water and props over a dirt base", build)
}

func build(app *engine.App, opts engine.RunOptions) ([]engine.Plugin, error) {
	tm, err := newTilemap()
	if err != nil {
		return nil, err
	}
	def, err := grid.NewCartesian3D(20, 20, 5, false, false, false)
	if err != nil {
		return nil, err
	}

	mode, err := procgen.StepByStep(3, 100*time.Millisecond).Override(opts.ViewOverride)
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
	generator, err := gen.NewBuilder().
		WithRules(tm.rules).
		WithGrid(def).
		WithRng(rng).
		Build()
	if err != nil {
		return nil, err
	}

	renderer, err := scene.NewRenderer(def, tm.assets, palette(), scene.Options{
		Axis:      grid.ZPos,
		Composite: true,
		HelpExtra: mode.Help(),
	})
	if err != nil {
		return nil, err
	}

	generation := procgen.New(generator, renderer, procgen.Config{
		Mode: mode,
		Control: procgen.Control{
			PauseWhenDone: true,
			PauseOnError:  true,
			SkipVoidNodes: true,
		},
		VoidModels: tm.voids,
	})
	picker := picking.New(renderer, picking.BackendSprite)

	return []engine.Plugin{renderer, generation, picker}, nil
}
