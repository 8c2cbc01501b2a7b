package tileset

import (
	"fmt"

	"github.com/tessera-labs/tessera/internal/grid"
)

// Rules is the compiled adjacency table a generator consumes. Each declared
// template is expanded into one model per allowed rotation; the table then
// answers which expanded models may sit next to which, per direction.
// Immutable once compiled.
type Rules struct {
	instances  []ModelInstance
	names      []string
	weights    []float64
	allowed    [][]int // [model*DirectionCount + direction] -> sorted model indices
	byTemplate [][]int
	expanded   map[ModelInstance]int
	directions []grid.Direction
	axis       grid.Direction
}

// NewRules2D compiles rules for a flat grid. The rotation axis is the
// implicit z+ axis, so all four neighbour directions use plain socket
// connections.
func NewRules2D(models *ModelSet, sockets *SocketCollection) (*Rules, error) {
	return compile(models, sockets, []grid.Direction{grid.XPos, grid.XNeg, grid.YPos, grid.YNeg}, grid.ZPos)
}

// NewRules3D compiles rules for a volumetric grid rotating around the given
// axis. Connections along the axis use the rotated socket registrations;
// the four side directions use plain ones.
func NewRules3D(models *ModelSet, sockets *SocketCollection, axis grid.Direction) (*Rules, error) {
	switch axis {
	case grid.YPos, grid.ZPos:
	default:
		return nil, fmt.Errorf("unsupported rotation axis %s, expected y+ or z+", axis)
	}
	all := []grid.Direction{grid.XPos, grid.XNeg, grid.YPos, grid.YNeg, grid.ZPos, grid.ZNeg}
	return compile(models, sockets, all, axis)
}

func compile(models *ModelSet, sockets *SocketCollection, directions []grid.Direction, axis grid.Direction) (*Rules, error) {
	if models == nil || models.Count() == 0 {
		return nil, fmt.Errorf("cannot compile rules from an empty model set")
	}
	if sockets == nil {
		return nil, fmt.Errorf("cannot compile rules without a socket collection")
	}

	r := &Rules{
		byTemplate: make([][]int, models.Count()),
		expanded:   make(map[ModelInstance]int),
		directions: directions,
		axis:       axis,
	}

	// expansion pass: one model per template per allowed rotation
	for ti, tpl := range models.templates {
		if tpl.weight <= 0 {
			return nil, fmt.Errorf("model %s has non-positive weight %v", templateName(tpl, ti), tpl.weight)
		}
		if len(tpl.rotations) == 0 {
			return nil, fmt.Errorf("model %s allows no rotations", templateName(tpl, ti))
		}
		hasSocket := false
		for _, face := range tpl.faces {
			if len(face) > 0 {
				hasSocket = true
				break
			}
		}
		if !hasSocket {
			return nil, fmt.Errorf("model %s declares no sockets", templateName(tpl, ti))
		}

		seen := make(map[Rotation]bool, len(tpl.rotations))
		for _, rot := range tpl.rotations {
			if seen[rot] {
				continue
			}
			seen[rot] = true
			inst := ModelInstance{Template: ti, Rotation: rot}
			index := len(r.instances)
			r.instances = append(r.instances, inst)
			r.weights = append(r.weights, tpl.weight)
			r.names = append(r.names, instanceName(tpl, ti, rot))
			r.byTemplate[ti] = append(r.byTemplate[ti], index)
			r.expanded[inst] = index
		}
	}

	r.allowed = make([][]int, len(r.instances)*grid.DirectionCount)
	for _, d := range directions {
		switch d {
		case grid.XPos, grid.YPos, grid.ZPos:
			r.compileDirection(models, sockets, d)
		}
	}

	return r, nil
}

// compileDirection fills the adjacency lists for one positive direction and
// mirrors them onto the opposite one.
func (r *Rules) compileDirection(models *ModelSet, sockets *SocketCollection, d grid.Direction) {
	opp := d.Opposite()
	for a, instA := range r.instances {
		facesA := r.faceSockets(models, instA, d)
		if len(facesA) == 0 {
			continue
		}
		for b, instB := range r.instances {
			facesB := r.faceSockets(models, instB, opp)
			if len(facesB) == 0 {
				continue
			}
			if !r.facesCompatible(sockets, instA, instB, facesA, facesB, d) {
				continue
			}
			r.allowed[a*grid.DirectionCount+int(d)] = append(r.allowed[a*grid.DirectionCount+int(d)], b)
			r.allowed[b*grid.DirectionCount+int(opp)] = append(r.allowed[b*grid.DirectionCount+int(opp)], a)
		}
	}
}

// faceSockets returns the sockets showing on face d of a rotated model:
// side faces shift around the axis with the rotation, axis faces keep their
// template sockets.
func (r *Rules) faceSockets(models *ModelSet, inst ModelInstance, d grid.Direction) []Socket {
	source := d.RotatedAround(r.axis, -inst.Rotation.Steps())
	return models.templates[inst.Template].faces[source]
}

// facesCompatible reports whether any socket pair across the shared face is
// registered compatible. Directions along the rotation axis use the rotated
// registrations with B's rotation taken relative to A's.
func (r *Rules) facesCompatible(sockets *SocketCollection, instA, instB ModelInstance, facesA, facesB []Socket, d grid.Direction) bool {
	alongAxis := d == r.axis || d == r.axis.Opposite()
	for _, sa := range facesA {
		for _, sb := range facesB {
			if alongAxis {
				from, to := sa, sb
				relative := instB.Rotation.Minus(instA.Rotation)
				if d == r.axis.Opposite() {
					// B sits below A, so B is the `from` side
					from, to = sb, sa
					relative = instA.Rotation.Minus(instB.Rotation)
				}
				if sockets.compatibleRotated(from, to, relative) {
					return true
				}
			} else if sockets.compatible(sa, sb) {
				return true
			}
		}
	}
	return false
}

func templateName(tpl *ModelTemplate, index int) string {
	if tpl.name != "" {
		return tpl.name
	}
	return fmt.Sprintf("model-%d", index)
}

func instanceName(tpl *ModelTemplate, index int, rot Rotation) string {
	base := templateName(tpl, index)
	if rot == Rot0 {
		return base
	}
	return fmt.Sprintf("%s-%s", base, rot)
}

// ModelCount returns the number of expanded models
func (r *Rules) ModelCount() int {
	return len(r.instances)
}

// Allowed returns the expanded models that may sit adjacent to `model` in
// direction d. The returned slice must not be mutated.
func (r *Rules) Allowed(model int, d grid.Direction) []int {
	return r.allowed[model*grid.DirectionCount+int(d)]
}

// Weight returns the spawn weight of an expanded model
func (r *Rules) Weight(model int) float64 {
	return r.weights[model]
}

// Name returns the display name of an expanded model
func (r *Rules) Name(model int) string {
	return r.names[model]
}

// Instance maps an expanded model index back to its template and rotation
func (r *Rules) Instance(model int) ModelInstance {
	return r.instances[model]
}

// ExpandedIndex returns the expanded model index for a template/rotation
// pair, if that rotation is allowed.
func (r *Rules) ExpandedIndex(template int, rot Rotation) (int, bool) {
	index, ok := r.expanded[ModelInstance{Template: template, Rotation: rot}]
	return index, ok
}

// ExpandedOf returns every expanded model derived from a template
func (r *Rules) ExpandedOf(template int) []int {
	if template < 0 || template >= len(r.byTemplate) {
		return nil
	}
	return r.byTemplate[template]
}

// Directions returns the neighbour directions these rules cover
func (r *Rules) Directions() []grid.Direction {
	return r.directions
}

// Axis returns the rotation axis the rules were compiled around
func (r *Rules) Axis() grid.Direction {
	return r.axis
}
