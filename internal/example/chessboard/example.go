// Package chessboard is the minimal example: an 8x8 board of two colours
// where every square only neighbours the other colour. It generates the
// whole board up front and leaves the run loop for viewing and picking.
package chessboard

import (
	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/example"
	"github.com/tessera-labs/tessera/internal/gen"
	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/picking"
	"github.com/tessera-labs/tessera/internal/procgen"
	"github.com/tessera-labs/tessera/internal/scene"
)

const name = "chessboard"

// New returns the chessboard catalog entry.
func New() example.Descriptor {
	return example.NewEntry(name, "an 8x8 two-colour board, generated up front", build)
}

func build(app *engine.App, opts engine.RunOptions) ([]engine.Plugin, error) {
	b, err := newBoard()
	if err != nil {
		return nil, err
	}
	def, err := grid.NewCartesian2D(8, 8, false)
	if err != nil {
		return nil, err
	}

	mode, err := procgen.Final().Override(opts.ViewOverride)
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
		WithRules(b.rules).
		WithGrid(def).
		WithRng(rng).
		Build()
	if err != nil {
		return nil, err
	}

	renderer, err := scene.NewRenderer(def, b.assets, palette(), scene.Options{HelpExtra: mode.Help()})
	if err != nil {
		return nil, err
	}

	generation := procgen.New(generator, renderer, procgen.Config{
		Mode:    mode,
		Control: procgen.Control{PauseWhenDone: true},
	})
	picker := picking.New(renderer, picking.BackendSprite)

	return []engine.Plugin{renderer, generation, picker}, nil
}
