// Package canyon generates a desert canyon on a wide 36x5x36 grid: water
// and sand at the floor, rimmed rock mesas rising from it, plank bridges
// spanning the gaps and sparse cactuses, small rocks and windmills.
package canyon

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

const name = "canyon"

// New returns the canyon catalog entry.
func New() example.Descriptor {
	return example.NewEntry(name, "a desert canyon: water, mesas, bridges and windmills", build)
}

func build(app *engine.App, opts engine.RunOptions) ([]engine.Plugin, error) {
	tr, err := newTerrain()
	if err != nil {
		return nil, err
	}
	def, err := grid.NewCartesian3D(36, 5, 36, false, false, false)
	if err != nil {
		return nil, err
	}

	// a big grid wants big steps, or the build drags
	mode, err := procgen.StepByStep(30, 50*time.Millisecond).Override(opts.ViewOverride)
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
	// rim and bridge chains contradict now and then; the deep retry
	// budget absorbs it
	generator, err := gen.NewBuilder().
		WithRules(tr.rules).
		WithGrid(def).
		WithRng(rng).
		WithMaxRetries(250).
		Build()
	if err != nil {
		return nil, err
	}

	renderer, err := scene.NewRenderer(def, tr.assets, palette(), scene.Options{
		Axis:      grid.YPos,
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
		VoidModels: []int{tr.void},
	})
	picker := picking.New(renderer, picking.BackendRaycast)

	return []engine.Plugin{renderer, generation, picker}, nil
}
