package gen

import (
	"math/rand/v2"
	"sort"

	"github.com/tessera-labs/tessera/internal/grid"
	"github.com/tessera-labs/tessera/internal/tileset"
)

// assigner is the built-in generator: a greedy seeded assignment that
// honours the compiled adjacency table. Each step picks an unassigned node
// per the node heuristic and gives it a model compatible with every
// already-assigned neighbour; a model whose face mates with nothing is
// rejected wherever that face has a neighbour at all. Contradictions clear
// the grid and consume the retry budget. It trades the full
// constraint-propagation machinery for predictability, which is all the
// examples need.
type assigner struct {
	rules          *tileset.Rules
	gridDef        grid.Definition
	rng            *rand.Rand
	seed           uint64
	maxRetries     int
	nodeHeuristic  NodeSelectionHeuristic
	modelHeuristic ModelSelectionHeuristic

	assigned []int // node index -> expanded model, -1 while empty
	counts   []int // cached feasible counts for the MRV scan, -1 when stale
	order    []GridNode
	attempt  int
	status   GenerationStatus
	updates  []Update
}

func newAssigner(b *Builder, seed uint64) *assigner {
	a := &assigner{
		rules:          b.rules,
		gridDef:        b.gridDef,
		rng:            rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed:           seed,
		maxRetries:     b.maxRetries,
		nodeHeuristic:  b.nodeHeuristic,
		modelHeuristic: b.modelHeuristic,
		assigned:       make([]int, b.gridDef.NodeCount()),
		counts:         make([]int, b.gridDef.NodeCount()),
		attempt:        1,
	}
	for i := range a.assigned {
		a.assigned[i] = -1
		a.counts[i] = -1
	}
	return a
}

func (a *assigner) Grid() grid.Definition {
	return a.gridDef
}

func (a *assigner) Rules() *tileset.Rules {
	return a.rules
}

func (a *assigner) Seed() uint64 {
	return a.seed
}

func (a *assigner) Status() GenerationStatus {
	return a.status
}

func (a *assigner) Attempt() int {
	return a.attempt
}

func (a *assigner) DequeueUpdates() []Update {
	out := a.updates
	a.updates = nil
	return out
}

func (a *assigner) Reinitialize() {
	for i := range a.assigned {
		a.assigned[i] = -1
		a.counts[i] = -1
	}
	a.order = a.order[:0]
	a.attempt++
	a.status = StatusOngoing
	a.updates = append(a.updates, UpdateReinitialized{Attempt: a.attempt, Seed: a.seed})
}

func (a *assigner) Step() ([]GridNode, error) {
	if a.status == StatusDone {
		return nil, nil
	}

	node := a.selectNode()
	candidates := a.feasibleModels(node)
	if len(candidates) == 0 {
		a.updates = append(a.updates, UpdateFailed{NodeIndex: node})
		if a.attempt > a.maxRetries {
			return nil, GenerationError{NodeIndex: node}
		}
		a.Reinitialize()
		return nil, nil
	}

	model := a.chooseModel(candidates)
	a.assign(node, model)
	generated := GridNode{
		NodeIndex: node,
		Model:     a.rules.Instance(model),
		Expanded:  model,
	}
	a.order = append(a.order, generated)
	a.updates = append(a.updates, UpdateGenerated{Node: generated})

	if len(a.order) == a.gridDef.NodeCount() {
		a.status = StatusDone
	}
	return []GridNode{generated}, nil
}

func (a *assigner) Generate() ([]GridNode, error) {
	for a.status != StatusDone {
		if _, err := a.Step(); err != nil {
			return nil, err
		}
	}
	out := make([]GridNode, len(a.order))
	copy(out, a.order)
	return out, nil
}

// assign records the model and stales the cached counts around the node.
func (a *assigner) assign(node, model int) {
	a.assigned[node] = model
	a.counts[node] = -1
	for _, d := range a.rules.Directions() {
		if neighbour, ok := a.gridDef.Neighbour(node, d); ok {
			a.counts[neighbour] = -1
		}
	}
}

// selectNode picks the next node to generate. MRV scans feasible counts
// against assigned neighbours and breaks ties through the rng so equal
// grids still vary between seeds. A node's count only moves when a
// neighbour is assigned, so fresh cache entries are reused as-is.
func (a *assigner) selectNode() int {
	switch a.nodeHeuristic {
	case RandomNode:
		pick := a.rng.IntN(a.gridDef.NodeCount() - len(a.order))
		for node, model := range a.assigned {
			if model >= 0 {
				continue
			}
			if pick == 0 {
				return node
			}
			pick--
		}
	case OrderedNode:
		for node, model := range a.assigned {
			if model < 0 {
				return node
			}
		}
	default:
		best := -1
		bestCount := -1
		ties := 0
		for node, model := range a.assigned {
			if model >= 0 {
				continue
			}
			count := a.counts[node]
			if count < 0 {
				count = a.feasibleCount(node)
				a.counts[node] = count
			}
			switch {
			case best < 0 || count < bestCount:
				best, bestCount, ties = node, count, 1
			case count == bestCount:
				// reservoir-style tiebreak keeps a single pass
				ties++
				if a.rng.IntN(ties) == 0 {
					best = node
				}
			}
		}
		return best
	}
	return 0
}

// feasibleCount is feasibleModels without the allocation, for the MRV scan.
func (a *assigner) feasibleCount(node int) int {
	n := 0
	for model := 0; model < a.rules.ModelCount(); model++ {
		if a.modelFits(node, model) {
			n++
		}
	}
	return n
}

// feasibleModels lists the expanded models compatible with every assigned
// neighbour of the node.
func (a *assigner) feasibleModels(node int) []int {
	var out []int
	for model := 0; model < a.rules.ModelCount(); model++ {
		if a.modelFits(node, model) {
			out = append(out, model)
		}
	}
	return out
}

func (a *assigner) modelFits(node, model int) bool {
	for _, d := range a.rules.Directions() {
		neighbour, ok := a.gridDef.Neighbour(node, d)
		if !ok {
			continue
		}
		// a face that mates with nothing can never satisfy this neighbour
		if len(a.rules.Allowed(model, d)) == 0 {
			return false
		}
		assigned := a.assigned[neighbour]
		if assigned < 0 {
			continue
		}
		// the neighbour sees this node in the opposite direction
		if !containsSorted(a.rules.Allowed(assigned, d.Opposite()), model) {
			return false
		}
	}
	return true
}

func (a *assigner) chooseModel(candidates []int) int {
	if len(candidates) == 1 {
		return candidates[0]
	}
	if a.modelHeuristic == UniformModel {
		return candidates[a.rng.IntN(len(candidates))]
	}

	total := 0.0
	for _, m := range candidates {
		total += a.rules.Weight(m)
	}
	draw := a.rng.Float64() * total
	for _, m := range candidates {
		draw -= a.rules.Weight(m)
		if draw <= 0 {
			return m
		}
	}
	return candidates[len(candidates)-1]
}

func containsSorted(list []int, v int) bool {
	i := sort.SearchInts(list, v)
	return i < len(list) && list[i] == v
}
