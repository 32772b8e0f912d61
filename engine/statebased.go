package engine

import "github.com/solardawn/solar-dawn-server/game"

// RunStateBasedEffects advances a resolved set of stacks through the
// effects that aren't driven by any order. Collisions and
// warhead detonation only happen at the end of Movement, in that order,
// followed immediately by position advance; the remaining three run at the
// end of every phase. gs.Phase is the phase that was just resolved, not
// yet advanced.
func RunStateBasedEffects(gs *game.GameState, stacks map[game.StackId]*game.Stack, rng game.Rng) map[game.StackId]*game.Stack {
	if gs.Phase == game.PhaseMovement {
		stacks = applyCollisions(gs, stacks)
		stacks = applyWarheadDetonation(stacks, rng)
		advancePositions(stacks)
	}
	stacks = removeEmptyStacks(stacks)
	reassignHabitatOwnership(stacks)
	disarmStrandedWarheads(stacks)
	return stacks
}

// applyCollisions removes any stack whose position->position+velocity
// segment intersects a gravity body's disk. This is the solid-circle,
// either-endpoint rule (Celestial.Collides), deliberately looser than the
// both-endpoints line-of-sight rule used for shooting.
func applyCollisions(gs *game.GameState, stacks map[game.StackId]*game.Stack) map[game.StackId]*game.Stack {
	bodies := gs.GravityBodies()
	out := make(map[game.StackId]*game.Stack, len(stacks))
	for _, id := range game.SortedStackIDs(stacks) {
		s := stacks[id]
		start := s.Position.Cartesian()
		end := s.Position.Add(s.Velocity).Cartesian()
		hit := false
		for _, c := range bodies {
			if c.Collides(start, end) {
				hit = true
				break
			}
		}
		if !hit {
			out[id] = s
		}
	}
	return out
}

// applyWarheadDetonation finds, for every stack carrying at least one armed
// Intact warhead, the earliest time some other-owned stack comes within
// one hex of it, then damages every stack (any owner) in range at that
// instant. A stack that detonates is removed afterward regardless of
// whether the damage pass actually touched anything.
func applyWarheadDetonation(stacks map[game.StackId]*game.Stack, rng game.Rng) map[game.StackId]*game.Stack {
	ids := game.SortedStackIDs(stacks)

	damaged := map[game.StackId]uint32{}
	detonatedSet := map[game.StackId]bool{}

	for _, missileID := range ids {
		missile := stacks[missileID]
		warheadCount := armedIntactWarheadCount(missile)
		if warheadCount == 0 {
			continue
		}

		var intercept float64
		found := false
		for _, otherID := range ids {
			if otherID == missileID {
				continue
			}
			other := stacks[otherID]
			if other.Owner == missile.Owner {
				continue
			}
			t := game.ClosestApproach(missile.Position.Cartesian(), missile.Velocity.Cartesian(), other.Position.Cartesian(), other.Velocity.Cartesian())
			if inDetonationRange(missile, other, t) && (!found || t < intercept) {
				intercept = t
				found = true
			}
		}
		if !found {
			continue
		}

		for _, victimID := range ids {
			victim := stacks[victimID]
			if inDetonationRange(missile, victim, intercept) {
				damaged[victimID] += warheadCount
			}
		}
		detonatedSet[missileID] = true
	}

	for _, victimID := range ids {
		hits, ok := damaged[victimID]
		if !ok {
			continue
		}
		victim := stacks[victimID]
		moduleCount := uint32(len(victim.Modules))
		game.DoDamage(victim, game.CeilDivU32(moduleCount, game.WarheadDamageFraction)*hits, rng)
	}

	out := make(map[game.StackId]*game.Stack, len(stacks))
	for _, id := range ids {
		if !detonatedSet[id] {
			out[id] = stacks[id]
		}
	}
	return out
}

func inDetonationRange(a, b *game.Stack, t float64) bool {
	d := game.DistanceAtTime(a.Position.Cartesian(), a.Velocity.Cartesian(), b.Position.Cartesian(), b.Velocity.Cartesian(), t)
	return d <= game.OneHexCartesianDistSq
}

func armedIntactWarheadCount(s *game.Stack) uint32 {
	var n uint32
	for _, m := range s.Modules {
		if m.Health == game.Intact && m.Details.Warhead != nil && m.Details.Warhead.Armed {
			n++
		}
	}
	return n
}

func advancePositions(stacks map[game.StackId]*game.Stack) {
	for _, s := range stacks {
		s.Position = s.Position.Add(s.Velocity)
	}
}

func removeEmptyStacks(stacks map[game.StackId]*game.Stack) map[game.StackId]*game.Stack {
	out := make(map[game.StackId]*game.Stack, len(stacks))
	for id, s := range stacks {
		if len(s.Modules) > 0 {
			out[id] = s
		}
	}
	return out
}

// reassignHabitatOwnership gives a stack to whichever Intact Habitat has
// the lowest module id, then disarms every warhead aboard (a stack under
// active habitat control is no longer a bare missile).
func reassignHabitatOwnership(stacks map[game.StackId]*game.Stack) {
	for _, s := range stacks {
		owner, ok := lowestHabitatOwner(s)
		if !ok {
			continue
		}
		s.Owner = owner
		for _, m := range s.Modules {
			if m.Details.Warhead != nil {
				m.Details.Warhead.Armed = false
			}
		}
	}
}

func lowestHabitatOwner(s *game.Stack) (game.PlayerId, bool) {
	for _, id := range game.SortedModuleIDs(s.Modules) {
		m := s.Modules[id]
		if m.Health == game.Intact && m.Details.Habitat != nil {
			return m.Details.Habitat.Owner, true
		}
	}
	return 0, false
}

// disarmStrandedWarheads disarms any Damaged or Destroyed warhead aboard a
// stack that has no Intact or Damaged habitat to keep it crewed.
func disarmStrandedWarheads(stacks map[game.StackId]*game.Stack) {
	for _, s := range stacks {
		if hasLiveHabitat(s) {
			continue
		}
		for _, m := range s.Modules {
			if m.Details.Warhead != nil && m.Health != game.Intact {
				m.Details.Warhead.Armed = false
			}
		}
	}
}

func hasLiveHabitat(s *game.Stack) bool {
	for _, m := range s.Modules {
		if m.Details.Habitat != nil && (m.Health == game.Intact || m.Health == game.Damaged) {
			return true
		}
	}
	return false
}
