package tileset

// Socket is an opaque connector on one face of a model. Two models can sit
// next to each other only when the sockets on their touching faces are
// registered as compatible.
type Socket struct {
	id uint32
}

// IsZero reports whether the socket was minted by a collection
func (s Socket) IsZero() bool {
	return s.id == 0
}

type socketPair struct {
	a, b uint32
}

// unordered key for symmetric connections
func pairOf(a, b Socket) socketPair {
	if a.id > b.id {
		a, b = b, a
	}
	return socketPair{a: a.id, b: b.id}
}

type rotationMask uint8

func (m rotationMask) has(r Rotation) bool {
	return m&(1<<r.Steps()) != 0
}

const allRotationsMask rotationMask = 1<<RotationCount - 1

// SocketCollection mints sockets and records which pairs are compatible.
// Connections on faces perpendicular to the rotation axis are plain
// symmetric pairs; connections along the axis also constrain the relative
// rotation between the two models.
type SocketCollection struct {
	next    uint32
	flat    map[socketPair]struct{}
	rotated map[socketPair]rotationMask
}

// NewSocketCollection creates an empty socket collection
func NewSocketCollection() *SocketCollection {
	return &SocketCollection{
		next:    1,
		flat:    make(map[socketPair]struct{}),
		rotated: make(map[socketPair]rotationMask),
	}
}

// Create mints a new socket
func (c *SocketCollection) Create() Socket {
	s := Socket{id: c.next}
	c.next++
	return s
}

// CreateMany mints n sockets at once
func (c *SocketCollection) CreateMany(n int) []Socket {
	out := make([]Socket, n)
	for i := range out {
		out[i] = c.Create()
	}
	return out
}

// AddConnection registers the symmetric compatibility of s with each given
// socket, for faces perpendicular to the rotation axis. A socket may be
// connected to itself.
func (c *SocketCollection) AddConnection(s Socket, compatibles ...Socket) *SocketCollection {
	for _, o := range compatibles {
		c.flat[pairOf(s, o)] = struct{}{}
	}
	return c
}

// AddConnections registers several connections at once, keyed by the first
// socket of each group.
func (c *SocketCollection) AddConnections(groups ...[]Socket) *SocketCollection {
	for _, g := range groups {
		if len(g) > 1 {
			c.AddConnection(g[0], g[1:]...)
		}
	}
	return c
}

// AddRotatedConnection registers compatibility between `from` and each `to`
// along the rotation axis, valid for every relative rotation between the
// two models.
func (c *SocketCollection) AddRotatedConnection(from Socket, to ...Socket) *SocketCollection {
	return c.AddConstrainedRotatedConnection(from, AllRotations, to...)
}

// AddConstrainedRotatedConnection registers compatibility between `from`
// and each `to` along the rotation axis, valid only when the rotation of
// the `to` model relative to the `from` model is one of allowedRelative.
func (c *SocketCollection) AddConstrainedRotatedConnection(from Socket, allowedRelative []Rotation, to ...Socket) *SocketCollection {
	var mask rotationMask
	for _, r := range allowedRelative {
		mask |= 1 << r.Steps()
	}
	for _, o := range to {
		key := pairOf(from, o)
		m := mask
		switch {
		case from.id == o.id:
			// either model may be the rotated one, so both signs apply
			m = mask | invertMask(mask)
		case key.a != from.id:
			// relative rotation flips sign when the pair key reorders
			m = invertMask(mask)
		}
		c.rotated[key] |= m
	}
	return c
}

func invertMask(m rotationMask) rotationMask {
	var out rotationMask
	for _, r := range AllRotations {
		if m.has(r) {
			inv := Rotation((RotationCount - r.Steps()) % RotationCount)
			out |= 1 << inv.Steps()
		}
	}
	return out
}

// compatible reports plain compatibility for faces perpendicular to the
// rotation axis.
func (c *SocketCollection) compatible(a, b Socket) bool {
	_, ok := c.flat[pairOf(a, b)]
	return ok
}

// compatibleRotated reports compatibility along the rotation axis, with
// `from` on the lower model and `to` on the upper one, given the upper
// model's rotation relative to the lower's.
func (c *SocketCollection) compatibleRotated(from, to Socket, relative Rotation) bool {
	key := pairOf(from, to)
	mask, ok := c.rotated[key]
	if !ok {
		return false
	}
	rel := relative
	if key.a != from.id && from.id != to.id {
		rel = Rotation((RotationCount - relative.Steps()) % RotationCount)
	}
	return mask.has(rel)
}
