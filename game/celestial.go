package game

// Resources enumerates what a celestial body offers to a landed or orbiting stack.
type Resources int

const (
	ResourcesNone Resources = iota
	ResourcesMiningBoth
	ResourcesMiningWater
	ResourcesMiningOre
	ResourcesSkimming
)

// Celestial is an immutable (after initialization) body on the board.
type Celestial struct {
	Position      HexVec
	Name          string
	OrbitGravity  bool
	SurfaceGravity float32 // m/s^2; 1 m/s^2 = 0.5 hex/turn^2
	Resources     Resources
	Radius        float32 // hex major radii, Cartesian units
	Colour        string
	IsMinor       bool
}

// CanLand reports whether a stack may land on this body (it has to be a
// mining site; skimming and gravity-only bodies cannot be landed on).
func (c *Celestial) CanLand() bool {
	switch c.Resources {
	case ResourcesMiningBoth, ResourcesMiningWater, ResourcesMiningOre:
		return true
	default:
		return false
	}
}

// OrbitSlot is one of the six orbital positions around a gravity body,
// paired with the tangential velocity a stack parked there must have.
type OrbitSlot struct {
	Position HexVec
	Velocity HexVec
}

// OrbitParameters returns the six orbital slots around this body for the
// given rotation sense. The caller must ensure OrbitGravity is true.
//
// For clockwise orbits the tangential velocity at a neighbour hex is the
// unit direction two steps ahead (in the clockwise direction enumeration);
// for counter-clockwise orbits it is four steps ahead (equivalently the
// reverse of the clockwise velocity at the preceding slot).
func (c *Celestial) OrbitParameters(clockwise bool) [6]OrbitSlot {
	if !c.OrbitGravity {
		panic("game: OrbitParameters called on a body with no gravity")
	}
	neighbours := c.Position.Neighbours()
	offset := 2
	if !clockwise {
		offset = 4
	}
	var slots [6]OrbitSlot
	for i := 0; i < 6; i++ {
		vel := ClockwiseDirections[(i+offset)%6]
		slots[i] = OrbitSlot{Position: neighbours[i], Velocity: vel}
	}
	return slots
}

// OrbitSlotFor finds the orbital slot (in either rotation sense) matching a
// given position and velocity, if the stack is indeed orbiting this body.
func (c *Celestial) OrbitSlotFor(position, velocity HexVec) (slot OrbitSlot, ok bool) {
	if !c.OrbitGravity || !position.IsNeighbourOf(c.Position) {
		return OrbitSlot{}, false
	}
	for _, cw := range [2]bool{true, false} {
		for _, s := range c.OrbitParameters(cw) {
			if s.Position == position && s.Velocity == velocity {
				return s, true
			}
		}
	}
	return OrbitSlot{}, false
}

// SlotForDestination returns the orbital slot that targets a given
// neighbour position in a given rotation sense. ok is false if position is
// not one of this body's six neighbours.
func (c *Celestial) SlotForDestination(position HexVec, clockwise bool) (slot OrbitSlot, ok bool) {
	for _, s := range c.OrbitParameters(clockwise) {
		if s.Position == position {
			return s, true
		}
	}
	return OrbitSlot{}, false
}
