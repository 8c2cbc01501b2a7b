package example

import (
	"context"
	"fmt"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/feature"
	"github.com/tessera-labs/tessera/internal/logging"
)

// BuildFunc constructs one example's plugins once the engine app exists. The
// returned plugins are registered in order: scene renderer first, then
// generation, then picking, so later plugins can hold the earlier ones.
type BuildFunc func(app *engine.App, opts engine.RunOptions) ([]engine.Plugin, error)

// NewEntry wraps a plugin builder in the shared bootstrap sequence and
// returns its catalog entry. It panics on a bad name or nil builder: entries
// are package-level wiring, so a bad one is a programming error, not input.
func NewEntry(name, synopsis string, build BuildFunc) Descriptor {
	if build == nil {
		panic(fmt.Sprintf("example %q has no builder", name))
	}
	d, err := NewDescriptor(name, synopsis, func(ctx context.Context, opts engine.RunOptions) error {
		return launch(ctx, name, build, opts)
	})
	if err != nil {
		panic(fmt.Sprintf("bad catalog entry %q: %v", name, err))
	}
	return d
}

// launch is the bootstrap sequence every example runs: resolve capability
// flags, construct the engine, build and register the plugins, hand over to
// the run loop. Resolution failures abort before the engine exists; the
// first plugin init failure aborts the whole bootstrap.
func launch(ctx context.Context, name string, build BuildFunc, opts engine.RunOptions) error {
	requested, err := feature.ParseFlags(opts.Features)
	if err != nil {
		return err
	}
	manifest := feature.Default()
	if opts.ManifestPath != "" {
		manifest, err = feature.LoadManifest(opts.ManifestPath)
		if err != nil {
			return err
		}
	}
	caps, err := feature.Resolve(manifest, requested)
	if err != nil {
		return err
	}

	cfg, err := engine.LoadConfig()
	if err != nil {
		return err
	}
	sink, closer, err := cfg.OpenLogSink(opts.Headless)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, sink)
	log.Info("bootstrapping example", "example", name, "capabilities", caps.String())

	app := engine.New(name, caps, cfg, log)
	plugins, err := build(app, opts)
	if err != nil {
		return fmt.Errorf("set up %s: %w", name, err)
	}
	if err := app.Register(plugins...); err != nil {
		return err
	}

	if opts.Headless {
		return app.RunHeadless(ctx, opts.ExportPath)
	}
	return app.Run(ctx)
}
