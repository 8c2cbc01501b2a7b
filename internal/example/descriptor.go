// Package example holds the catalog of runnable examples. A Descriptor names
// one example and knows how to configure and run the engine for it; a
// Registry is the immutable catalog the CLI dispatches against. Registration
// is explicit: main assembles the registry from package constructors, nothing
// self-registers at import time.
package example

import (
	"context"
	"errors"
	"fmt"

	"github.com/tessera-labs/tessera/internal/engine"
)

// RunFunc configures the engine for one example and runs it to completion.
type RunFunc func(ctx context.Context, opts engine.RunOptions) error

// Descriptor is one immutable catalog entry.
type Descriptor struct {
	name     string
	synopsis string
	run      RunFunc
}

// NewDescriptor creates a Descriptor with validation.
func NewDescriptor(name, synopsis string, run RunFunc) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, errors.New("example name cannot be empty")
	}
	if run == nil {
		return Descriptor{}, fmt.Errorf("example %q has no run function", name)
	}
	return Descriptor{name: name, synopsis: synopsis, run: run}, nil
}

// Name returns the unique example name
func (d Descriptor) Name() string {
	return d.name
}

// Synopsis returns the one-line description shown by list
func (d Descriptor) Synopsis() string {
	return d.synopsis
}

// Run starts the example and blocks until it finishes
func (d Descriptor) Run(ctx context.Context, opts engine.RunOptions) error {
	return d.run(ctx, opts)
}

// IsZero reports whether the descriptor is the uninitialized zero value
func (d Descriptor) IsZero() bool {
	return d.name == ""
}
