package gen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// NodeSelectionHeuristic picks which unassigned node generates next
type NodeSelectionHeuristic uint8

const (
	// MinimumRemainingValue picks a node with the fewest feasible models,
	// breaking ties randomly.
	MinimumRemainingValue NodeSelectionHeuristic = iota
	// RandomNode picks any unassigned node uniformly
	RandomNode
	// OrderedNode assigns nodes in grid index order, so lower layers
	// complete before the cells that rest on them. Suits vocabularies whose
	// models need support from below.
	OrderedNode
)

// ModelSelectionHeuristic picks which feasible model a node receives
type ModelSelectionHeuristic uint8

const (
	// WeightedProbability draws proportionally to model weights
	WeightedProbability ModelSelectionHeuristic = iota
	// UniformModel draws uniformly across feasible models
	UniformModel
)

// RngMode selects how the generator is seeded
type RngMode struct {
	seeded bool
	seed   uint64
}

// RandomSeed draws a fresh seed from the OS entropy source at build time.
// The chosen seed is still exposed via Seed so the run can be replayed.
func RandomSeed() RngMode {
	return RngMode{}
}

// Seeded fixes the seed for reproducible generation
func Seeded(seed uint64) RngMode {
	return RngMode{seeded: true, seed: seed}
}

// DefaultMaxRetries bounds how many times a generation restarts after
// contradictions before giving up.
const DefaultMaxRetries = 50

// Builder assembles a Generator
type Builder struct {
	rules          *tileset.Rules
	gridDef        grid.Definition
	gridSet        bool
	maxRetries     int
	rng            RngMode
	nodeHeuristic  NodeSelectionHeuristic
	modelHeuristic ModelSelectionHeuristic
}

// NewBuilder creates a builder with default retry budget and heuristics
// (minimum remaining value, weighted probability, random seed).
func NewBuilder() *Builder {
	return &Builder{maxRetries: DefaultMaxRetries}
}

// WithRules sets the compiled rule set (required)
func (b *Builder) WithRules(r *tileset.Rules) *Builder {
	b.rules = r
	return b
}

// WithGrid sets the grid to generate (required)
func (b *Builder) WithGrid(g grid.Definition) *Builder {
	b.gridDef = g
	b.gridSet = true
	return b
}

// WithMaxRetries sets the contradiction retry budget
func (b *Builder) WithMaxRetries(n int) *Builder {
	b.maxRetries = n
	return b
}

// WithRng sets the seeding mode
func (b *Builder) WithRng(m RngMode) *Builder {
	b.rng = m
	return b
}

// WithNodeHeuristic sets the node selection heuristic
func (b *Builder) WithNodeHeuristic(h NodeSelectionHeuristic) *Builder {
	b.nodeHeuristic = h
	return b
}

// WithModelHeuristic sets the model selection heuristic
func (b *Builder) WithModelHeuristic(h ModelSelectionHeuristic) *Builder {
	b.modelHeuristic = h
	return b
}

// Build validates the configuration and creates the generator
func (b *Builder) Build() (Generator, error) {
	if b.rules == nil {
		return nil, fmt.Errorf("generator requires compiled rules")
	}
	if !b.gridSet {
		return nil, fmt.Errorf("generator requires a grid definition")
	}
	if b.maxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative, got %d", b.maxRetries)
	}
	if len(b.rules.Directions()) == 4 && !b.gridDef.Is2D() {
		return nil, fmt.Errorf("rules compiled for a flat grid cannot generate a %s grid", b.gridDef)
	}
	if len(b.rules.Directions()) == 6 && b.gridDef.Is2D() {
		return nil, fmt.Errorf("rules compiled for a volumetric grid cannot generate a %s grid", b.gridDef)
	}

	seed := b.rng.seed
	if !b.rng.seeded {
		seed = entropySeed()
	}

	return newAssigner(b, seed), nil
}

func entropySeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// extremely unlikely; a zero seed still generates, just fixedly
		return 0
	}
	return binary.LittleEndian.Uint64(buf[:])
}
