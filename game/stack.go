package game

import "sort"

// Stack is a collection of modules sharing one position and velocity.
type Stack struct {
	Position HexVec
	Velocity HexVec
	Owner    PlayerId
	Name     string
	Modules  map[ModuleId]Module
}

// NewStack constructs a stack with an empty Modules map; callers should
// populate it before the stack is considered valid (a stack with zero
// modules is deleted as a state-based effect, never produced directly).
func NewStack(position, velocity HexVec, owner PlayerId, name string) *Stack {
	return &Stack{Position: position, Velocity: velocity, Owner: owner, Name: name, Modules: map[ModuleId]Module{}}
}

// Clone deep-copies a stack and its modules. The resolver clones the whole
// board at the start of every Apply so mutating this turn's stacks never
// reaches back into the previous turn's GameState.
func (s *Stack) Clone() *Stack {
	modules := make(map[ModuleId]Module, len(s.Modules))
	for id, m := range s.Modules {
		modules[id] = m.Clone()
	}
	return &Stack{Position: s.Position, Velocity: s.Velocity, Owner: s.Owner, Name: s.Name, Modules: modules}
}

// CloneStacks deep-copies an entire stack map.
func CloneStacks(stacks map[StackId]*Stack) map[StackId]*Stack {
	out := make(map[StackId]*Stack, len(stacks))
	for id, s := range stacks {
		out[id] = s.Clone()
	}
	return out
}

// SortedModuleIDs returns a stack's module ids in ascending numeric order.
// Iteration order is observable in several places (habitat tie-breaks, RNG
// draw ordering for damage); every such place goes through this helper
// rather than ranging over the map directly.
func SortedModuleIDs(modules map[ModuleId]Module) []ModuleId {
	ids := make([]ModuleId, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Mass is the stack's current total mass in tonnes: dry mass plus the
// resources its Intact cargo holds and tanks currently carry (0.1 t units,
// so divided by 10 to get tonnes). Contents of non-Intact modules are not
// counted.
func (s *Stack) Mass() float64 {
	return s.DryMass() + s.cargoMassTonnes()
}

// DryMass is the sum of module masses, ignoring held resources.
func (s *Stack) DryMass() float64 {
	var total float64
	for _, m := range s.Modules {
		total += float64(m.Mass())
	}
	return total
}

func (s *Stack) cargoMassTonnes() float64 {
	var units float64
	for _, m := range s.Modules {
		if m.Health != Intact {
			continue
		}
		if m.Details.CargoHold != nil {
			units += float64(m.Details.CargoHold.Ore) + float64(m.Details.CargoHold.Materials)
		}
		if m.Details.Tank != nil {
			units += float64(m.Details.Tank.Water) + float64(m.Details.Tank.Fuel)
		}
	}
	return units / 10.0
}

// FullMass is the stack's mass if every cargo hold and tank were topped up
// to capacity. Used for dv-budget display, not for validation.
func (s *Stack) FullMass() float64 {
	var capacityUnits float64
	for _, m := range s.Modules {
		if m.Health != Intact {
			continue
		}
		switch m.Details.Kind() {
		case KindCargoHold:
			capacityUnits += CargoHoldCapacity
		case KindTank:
			capacityUnits += TankCapacity
		}
	}
	return s.DryMass() + capacityUnits/10.0
}

// EngineCount returns the number of Intact engines.
func (s *Stack) EngineCount() int {
	n := 0
	for _, m := range s.Modules {
		if m.Health == Intact && m.Details.Engine != nil {
			n++
		}
	}
	return n
}

// TotalFuel returns the sum of fuel held across all Intact tanks, in 0.1 t units.
func (s *Stack) TotalFuel() uint32 {
	var total uint32
	for _, m := range s.Modules {
		if m.Health == Intact && m.Details.Tank != nil {
			total += uint32(m.Details.Tank.Fuel)
		}
	}
	return total
}

// Acceleration is the stack's current thrust-to-mass ratio in m/s^2: sum of
// Intact engine thrust divided by current mass. kN/tonne already equals
// m/s^2, so no further unit conversion is needed once thrust is in kN.
func (s *Stack) Acceleration() float64 {
	mass := s.Mass()
	if mass <= 0 {
		return 0
	}
	thrustKN := float64(s.EngineCount()) * EngineThrust * ThrustUnitKN
	return thrustKN / mass
}

// MaxDv is the maximum delta-v, in hexes/turn, available from current fuel,
// via the propellant-mass relation, solved for delta_v.
func (s *Stack) MaxDv() float64 {
	mass := s.Mass()
	if mass <= 0 {
		return 0
	}
	fuel := float64(s.TotalFuel())
	return fuel * EngineSpecificImpulse / mass
}

// Landed reports whether the stack sits at rest on celestial c's hex,
// irrespective of whether c has gravity.
func (s *Stack) Landed(c *Celestial) bool {
	return s.Position == c.Position && s.Velocity == Zero
}

// LandedWithGravity reports Landed plus c having orbit gravity (required
// for TakeOff, and the condition under which a Burn is refused).
func (s *Stack) LandedWithGravity(c *Celestial) bool {
	return s.Landed(c) && c.OrbitGravity
}

// Orbiting reports whether the stack currently occupies one of c's six
// orbital slots (either rotation sense).
func (s *Stack) Orbiting(c *Celestial) bool {
	_, ok := c.OrbitSlotFor(s.Position, s.Velocity)
	return ok
}

// RendezvousedWith reports whether two stacks share position and velocity,
// the prerequisite for module/resource transfer and boarding.
func (s *Stack) RendezvousedWith(other *Stack) bool {
	return s.Position == other.Position && s.Velocity == other.Velocity
}
