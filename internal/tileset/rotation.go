// Package tileset declares the vocabulary a generator builds worlds from:
// sockets and their connections, weighted model templates with allowed
// rotations, and the compiled adjacency rules derived from them.
package tileset

import "fmt"

// Rotation is a model rotation around the tileset's rotation axis, in
// quarter turns.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// RotationCount is the number of distinct rotations
const RotationCount = 4

// AllRotations lists every rotation including Rot0
var AllRotations = []Rotation{Rot0, Rot90, Rot180, Rot270}

// RotationsExcept0 lists the non-identity rotations
var RotationsExcept0 = []Rotation{Rot90, Rot180, Rot270}

// Steps returns the rotation as a number of quarter turns
func (r Rotation) Steps() int {
	return int(r % RotationCount)
}

// Degrees returns the rotation in degrees
func (r Rotation) Degrees() int {
	return r.Steps() * 90
}

// Minus returns the relative rotation from o to r
func (r Rotation) Minus(o Rotation) Rotation {
	return Rotation((int(r) - int(o) + RotationCount) % RotationCount)
}

// Plus composes two rotations
func (r Rotation) Plus(o Rotation) Rotation {
	return Rotation((int(r) + int(o)) % RotationCount)
}

// String implements the Stringer interface
func (r Rotation) String() string {
	return fmt.Sprintf("r%d", r.Degrees())
}
