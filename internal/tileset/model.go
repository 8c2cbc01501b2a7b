package tileset

import "github.com/tessera-labs/tessera/internal/grid"

// S builds a socket list for one face
func S(sockets ...Socket) []Socket {
	return sockets
}

// ModelTemplate is one declared model: sockets per face, a spawn weight and
// the rotations the model may be generated in. Templates are built with the
// Sides2D/Sides3D literals or the Mono helpers and refined with the fluent
// setters.
type ModelTemplate struct {
	faces     [grid.DirectionCount][]Socket
	weight    float64
	rotations []Rotation
	name      string
}

func newTemplate() *ModelTemplate {
	return &ModelTemplate{
		weight:    1.0,
		rotations: []Rotation{Rot0},
	}
}

// Sides2D lists the sockets of each face of a flat model
type Sides2D struct {
	XPos, XNeg, YPos, YNeg []Socket
}

// Template builds a model template from the sides
func (s Sides2D) Template() *ModelTemplate {
	t := newTemplate()
	t.faces[grid.XPos] = s.XPos
	t.faces[grid.XNeg] = s.XNeg
	t.faces[grid.YPos] = s.YPos
	t.faces[grid.YNeg] = s.YNeg
	return t
}

// Sides3D lists the sockets of each face of a volumetric model
type Sides3D struct {
	XPos, XNeg, YPos, YNeg, ZPos, ZNeg []Socket
}

// Template builds a model template from the sides
func (s Sides3D) Template() *ModelTemplate {
	t := newTemplate()
	t.faces[grid.XPos] = s.XPos
	t.faces[grid.XNeg] = s.XNeg
	t.faces[grid.YPos] = s.YPos
	t.faces[grid.YNeg] = s.YNeg
	t.faces[grid.ZPos] = s.ZPos
	t.faces[grid.ZNeg] = s.ZNeg
	return t
}

// Mono2D builds a flat template with the same socket on all four faces
func Mono2D(s Socket) *ModelTemplate {
	return Sides2D{XPos: S(s), XNeg: S(s), YPos: S(s), YNeg: S(s)}.Template()
}

// Mono3D builds a volumetric template with the same socket on all six faces
func Mono3D(s Socket) *ModelTemplate {
	return Sides3D{XPos: S(s), XNeg: S(s), YPos: S(s), YNeg: S(s), ZPos: S(s), ZNeg: S(s)}.Template()
}

// Weight sets the model's spawn weight (must be positive at compile time)
func (t *ModelTemplate) Weight(w float64) *ModelTemplate {
	t.weight = w
	return t
}

// AllRotations allows the model to spawn in every rotation
func (t *ModelTemplate) AllRotations() *ModelTemplate {
	t.rotations = append([]Rotation(nil), AllRotations...)
	return t
}

// Rotations sets the exact rotations the model may spawn in
func (t *ModelTemplate) Rotations(rs ...Rotation) *ModelTemplate {
	t.rotations = append([]Rotation(nil), rs...)
	return t
}

// Named sets the model's display name
func (t *ModelTemplate) Named(name string) *ModelTemplate {
	t.name = name
	return t
}

// ModelSet is an ordered collection of model templates
type ModelSet struct {
	templates []*ModelTemplate
}

// NewModelSet creates an empty model set
func NewModelSet() *ModelSet {
	return &ModelSet{}
}

// Add appends a template and returns its model index
func (ms *ModelSet) Add(t *ModelTemplate) int {
	ms.templates = append(ms.templates, t)
	return len(ms.templates) - 1
}

// Count returns the number of templates
func (ms *ModelSet) Count() int {
	return len(ms.templates)
}

// ModelInstance identifies one generated model: a template index plus the
// rotation it spawned in.
type ModelInstance struct {
	Template int
	Rotation Rotation
}
