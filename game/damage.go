package game

// DoDamage distributes `hits` damage events across a stack's modules.
// Armour plates absorb hits first (one step of health loss each, Intact ->
// Damaged -> Destroyed) before any other module takes damage; once all
// armour plates are Destroyed, remaining hits escalate a uniformly random
// surviving (non-Destroyed) module's health by one step. Each hit is drawn
// independently, so a module already hit this call can be hit again.
func DoDamage(stack *Stack, hits uint32, rng Rng) {
	for i := uint32(0); i < hits; i++ {
		if !absorbWithArmour(stack, rng) {
			escalateRandomModule(stack, rng)
		}
	}
}

// absorbWithArmour knocks down one step of health on a random non-Destroyed
// armour plate, if any exist, and reports whether it did so.
func absorbWithArmour(stack *Stack, rng Rng) bool {
	candidates := survivingModulesOfKind(stack, KindArmourPlate)
	if len(candidates) == 0 {
		return false
	}
	target := candidates[rng.IntN(len(candidates))]
	m := stack.Modules[target]
	m.Health = nextHealth(m.Health)
	stack.Modules[target] = m
	return true
}

// escalateRandomModule knocks down one step of health on a uniformly
// random non-Destroyed module (any kind).
func escalateRandomModule(stack *Stack, rng Rng) {
	var candidates []ModuleId
	for _, id := range SortedModuleIDs(stack.Modules) {
		if stack.Modules[id].Health != Destroyed {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}
	target := candidates[rng.IntN(len(candidates))]
	m := stack.Modules[target]
	m.Health = nextHealth(m.Health)
	stack.Modules[target] = m
}

func survivingModulesOfKind(stack *Stack, kind ModuleKind) []ModuleId {
	var out []ModuleId
	for _, id := range SortedModuleIDs(stack.Modules) {
		m := stack.Modules[id]
		if m.Details.Kind() == kind && m.Health != Destroyed {
			out = append(out, id)
		}
	}
	return out
}

func nextHealth(h Health) Health {
	switch h {
	case Intact:
		return Damaged
	default:
		return Destroyed
	}
}
