// Package gen drives procedural generation over a grid: a builder wires a
// compiled rule set, a grid definition, rng and heuristics into a Generator;
// the generator assigns one model per node and streams observer updates the
// engine plugin drains once per frame.
package gen

import (
	"fmt"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// GenerationStatus is the lifecycle state of a generation run
type GenerationStatus uint8

const (
	// StatusOngoing means nodes remain to generate
	StatusOngoing GenerationStatus = iota
	// StatusDone means every node holds a model
	StatusDone
)

// String implements the Stringer interface
func (s GenerationStatus) String() string {
	if s == StatusDone {
		return "done"
	}
	return "ongoing"
}

// GridNode is one generated node: where it is and which model instance it
// received.
type GridNode struct {
	NodeIndex int
	Model     tileset.ModelInstance
	// Expanded is the model's index in the compiled rules
	Expanded int
}

// GenerationError is returned when generation keeps contradicting itself
// after the whole retry budget. NodeIndex is the node that had no
// compatible model left on the final attempt.
type GenerationError struct {
	NodeIndex int
}

func (e GenerationError) Error() string {
	return fmt.Sprintf("generation failed: no compatible model for node %d after exhausting retries", e.NodeIndex)
}

// Update is one observer event. Updates are queued by the generator and
// drained with DequeueUpdates.
type Update interface {
	isUpdate()
}

// UpdateGenerated reports a node that received its model
type UpdateGenerated struct {
	Node GridNode
}

// UpdateReinitialized reports that the generator hit a contradiction,
// cleared the grid and started attempt Attempt with the same seed.
type UpdateReinitialized struct {
	Attempt int
	Seed    uint64
}

// UpdateFailed reports the node a contradiction occurred at. When the retry
// budget is spent it precedes a GenerationError from Step or Generate.
type UpdateFailed struct {
	NodeIndex int
}

func (UpdateGenerated) isUpdate()     {}
func (UpdateReinitialized) isUpdate() {}
func (UpdateFailed) isUpdate()        {}

// Generator produces models for every node of a grid. Implementations are
// deterministic for a given seed and not safe for concurrent use.
type Generator interface {
	// Grid returns the grid being generated
	Grid() grid.Definition
	// Rules returns the compiled rule set driving generation
	Rules() *tileset.Rules
	// Seed returns the effective seed, logged so runs can be reproduced
	Seed() uint64
	// Status returns the current lifecycle state
	Status() GenerationStatus
	// Attempt returns the current attempt number, starting at 1
	Attempt() int
	// Step generates one node. It returns the nodes produced by this step
	// (empty when the step only handled a contradiction) and a
	// GenerationError once the retry budget is exhausted.
	Step() ([]GridNode, error)
	// Generate runs to completion and returns every node in assignment
	// order.
	Generate() ([]GridNode, error)
	// Reinitialize clears all assignments and starts a fresh attempt
	Reinitialize()
	// DequeueUpdates returns the queued observer updates and clears the
	// queue.
	DequeueUpdates() []Update
}
