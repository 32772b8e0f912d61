package game

import "sort"

// Phase is one of the three turn phases, cycling Logistics -> Combat ->
// Movement -> Logistics.
type Phase int

const (
	PhaseLogistics Phase = iota
	PhaseCombat
	PhaseMovement
)

// Next advances to the following phase.
func (p Phase) Next() Phase {
	switch p {
	case PhaseLogistics:
		return PhaseCombat
	case PhaseCombat:
		return PhaseMovement
	case PhaseMovement:
		return PhaseLogistics
	default:
		panic("game: invalid phase")
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseLogistics:
		return "Logistics"
	case PhaseCombat:
		return "Combat"
	case PhaseMovement:
		return "Movement"
	default:
		return "Unknown"
	}
}

// GameState is the full authoritative state of one game.
type GameState struct {
	Phase      Phase
	Turn       uint64
	Players    map[PlayerId]string
	Celestials map[CelestialId]*Celestial
	Earth      CelestialId
	Stacks     map[StackId]*Stack
}

// GameStateDelta replaces Stacks wholesale and advances Phase/Turn;
// Celestials never change after initialization so they are not part of
// the delta.
type GameStateDelta struct {
	Phase  Phase
	Turn   uint64
	Stacks map[StackId]*Stack
	Orders map[PlayerId][]Order
	Errors map[PlayerId][]*OrderError
}

// Apply replaces gs's mutable fields with the delta's.
func (gs *GameState) Apply(delta *GameStateDelta) {
	gs.Phase = delta.Phase
	gs.Turn = delta.Turn
	gs.Stacks = delta.Stacks
}

// CelestialByPosition returns the celestial occupying a hex, if any.
// Celestial positions are unique by invariant.
func (gs *GameState) CelestialByPosition(pos HexVec) (CelestialId, *Celestial, bool) {
	for id, c := range gs.Celestials {
		if c.Position == pos {
			return id, c, true
		}
	}
	return 0, nil, false
}

// GravityBodies returns the set of celestials with OrbitGravity set.
func (gs *GameState) GravityBodies() []*Celestial {
	var out []*Celestial
	for _, id := range SortedCelestialIDs(gs.Celestials) {
		c := gs.Celestials[id]
		if c.OrbitGravity {
			out = append(out, c)
		}
	}
	return out
}

// Majors returns the non-minor celestials (planets and moons, not
// asteroid/Kuiper belt objects), in ascending id order for deterministic
// display.
func (gs *GameState) Majors() []CelestialId {
	var out []CelestialId
	for _, id := range SortedCelestialIDs(gs.Celestials) {
		if !gs.Celestials[id].IsMinor {
			out = append(out, id)
		}
	}
	return out
}

// SortedCelestialIDs returns celestial ids in ascending order.
func SortedCelestialIDs(celestials map[CelestialId]*Celestial) []CelestialId {
	ids := make([]CelestialId, 0, len(celestials))
	for id := range celestials {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedStackIDs returns stack ids in ascending order, for deterministic
// per-turn iteration (e.g. RNG draw ordering during combat resolution).
func SortedStackIDs(stacks map[StackId]*Stack) []StackId {
	ids := make([]StackId, 0, len(stacks))
	for id := range stacks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedPlayerIDs returns player ids in ascending order.
func SortedPlayerIDs(m map[PlayerId][]Order) []PlayerId {
	ids := make([]PlayerId, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
