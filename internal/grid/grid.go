// Package grid defines the Cartesian grids generation runs on: sizes,
// index/position math and looping-aware neighbour lookup. A 2D grid is the
// z=1 special case so generators and renderers handle both uniformly.
package grid

import "fmt"

// Direction identifies one face of a grid node
type Direction uint8

const (
	XPos Direction = iota
	XNeg
	YPos
	YNeg
	ZPos
	ZNeg
)

// DirectionCount is the number of distinct directions in a 3D grid
const DirectionCount = 6

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	switch d {
	case XPos:
		return XNeg
	case XNeg:
		return XPos
	case YPos:
		return YNeg
	case YNeg:
		return YPos
	case ZPos:
		return ZNeg
	default:
		return ZPos
	}
}

// String implements the Stringer interface
func (d Direction) String() string {
	switch d {
	case XPos:
		return "x+"
	case XNeg:
		return "x-"
	case YPos:
		return "y+"
	case YNeg:
		return "y-"
	case ZPos:
		return "z+"
	case ZNeg:
		return "z-"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// quarter-turn cycles around each positive axis, right-hand rule
var rotationCycles = map[Direction][4]Direction{
	XPos: {YPos, ZPos, YNeg, ZNeg},
	YPos: {XPos, ZNeg, XNeg, ZPos},
	ZPos: {XPos, YPos, XNeg, YNeg},
}

// RotatedAround returns d after `steps` quarter turns around the given axis.
// Directions parallel to the axis are unchanged. Negative axes rotate the
// other way.
func (d Direction) RotatedAround(axis Direction, steps int) Direction {
	cycleAxis := axis
	switch axis {
	case XNeg, YNeg, ZNeg:
		cycleAxis = axis.Opposite()
		steps = -steps
	}
	cycle, ok := rotationCycles[cycleAxis]
	if !ok {
		return d
	}
	pos := -1
	for i, c := range cycle {
		if c == d {
			pos = i
			break
		}
	}
	if pos < 0 {
		// parallel to the axis
		return d
	}
	steps = ((steps % 4) + 4) % 4
	return cycle[(pos+steps)%4]
}

// Position is a node location in grid space
type Position struct {
	X, Y, Z int
}

// Delta is a signed offset between grid positions, used for multi-cell
// asset placement.
type Delta struct {
	DX, DY, DZ int
}

// Apply offsets p by the delta
func (d Delta) Apply(p Position) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY, Z: p.Z + d.DZ}
}

// Definition describes one Cartesian grid
type Definition struct {
	sizeX, sizeY, sizeZ int
	loopX, loopY, loopZ bool
	twoDee              bool
}

// NewCartesian2D creates a 2D grid definition of w by h nodes. Looping
// applies to both axes.
func NewCartesian2D(w, h int, looping bool) (Definition, error) {
	if w < 1 || h < 1 {
		return Definition{}, fmt.Errorf("grid size must be at least 1x1, got %dx%d", w, h)
	}
	return Definition{
		sizeX: w, sizeY: h, sizeZ: 1,
		loopX: looping, loopY: looping,
		twoDee: true,
	}, nil
}

// NewCartesian3D creates a 3D grid definition with per-axis looping
func NewCartesian3D(x, y, z int, loopX, loopY, loopZ bool) (Definition, error) {
	if x < 1 || y < 1 || z < 1 {
		return Definition{}, fmt.Errorf("grid size must be at least 1x1x1, got %dx%dx%d", x, y, z)
	}
	return Definition{
		sizeX: x, sizeY: y, sizeZ: z,
		loopX: loopX, loopY: loopY, loopZ: loopZ,
	}, nil
}

// SizeX returns the grid width
func (g Definition) SizeX() int { return g.sizeX }

// SizeY returns the grid height
func (g Definition) SizeY() int { return g.sizeY }

// SizeZ returns the grid depth, 1 for 2D grids
func (g Definition) SizeZ() int { return g.sizeZ }

// Is2D reports whether the grid was defined as two-dimensional
func (g Definition) Is2D() bool { return g.twoDee }

// NodeCount returns the total number of nodes
func (g Definition) NodeCount() int {
	return g.sizeX * g.sizeY * g.sizeZ
}

// Directions returns the directions a node can have neighbours in
func (g Definition) Directions() []Direction {
	if g.twoDee {
		return []Direction{XPos, XNeg, YPos, YNeg}
	}
	return []Direction{XPos, XNeg, YPos, YNeg, ZPos, ZNeg}
}

// Contains reports whether p lies inside the grid bounds
func (g Definition) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.sizeX &&
		p.Y >= 0 && p.Y < g.sizeY &&
		p.Z >= 0 && p.Z < g.sizeZ
}

// Index converts a position to its node index
func (g Definition) Index(p Position) int {
	return p.X + p.Y*g.sizeX + p.Z*g.sizeX*g.sizeY
}

// Position converts a node index back to its position
func (g Definition) Position(index int) Position {
	plane := g.sizeX * g.sizeY
	z := index / plane
	rem := index % plane
	return Position{X: rem % g.sizeX, Y: rem / g.sizeX, Z: z}
}

// Neighbour returns the index of the node adjacent to `index` in direction
// d, resolving looping axes. ok is false when the neighbour falls outside a
// non-looping edge.
func (g Definition) Neighbour(index int, d Direction) (int, bool) {
	p := g.Position(index)
	switch d {
	case XPos:
		p.X++
	case XNeg:
		p.X--
	case YPos:
		p.Y++
	case YNeg:
		p.Y--
	case ZPos:
		p.Z++
	case ZNeg:
		p.Z--
	}

	if p.X < 0 || p.X >= g.sizeX {
		if !g.loopX {
			return 0, false
		}
		p.X = ((p.X % g.sizeX) + g.sizeX) % g.sizeX
	}
	if p.Y < 0 || p.Y >= g.sizeY {
		if !g.loopY {
			return 0, false
		}
		p.Y = ((p.Y % g.sizeY) + g.sizeY) % g.sizeY
	}
	if p.Z < 0 || p.Z >= g.sizeZ {
		if !g.loopZ {
			return 0, false
		}
		p.Z = ((p.Z % g.sizeZ) + g.sizeZ) % g.sizeZ
	}
	return g.Index(p), true
}

// String implements the Stringer interface
func (g Definition) String() string {
	if g.twoDee {
		return fmt.Sprintf("%dx%d", g.sizeX, g.sizeY)
	}
	return fmt.Sprintf("%dx%dx%d", g.sizeX, g.sizeY, g.sizeZ)
}
