package engine

import (
	"sort"

	"github.com/solardawn/solar-dawn-server/game"
)

// orderSlot tracks one submitted order through both validation passes. err
// starts nil and is only ever set, never cleared: once an order fails any
// check it is excluded from every later aggregate check that assumes a
// valid order (mirroring "already Err, skip" throughout the aggregate pass).
type orderSlot struct {
	order game.Order
	err   *game.OrderError
}

type playerSlot struct {
	player game.PlayerId
	slot   *orderSlot
}

type moduleKey struct {
	Stack  game.StackId
	Module game.ModuleId
}

// Validate runs both validation passes over every player's submitted
// orders for the current phase and returns the surviving orders alongside
// a same-shape/same-length error slice per player. The
// validator is total: a bad order never drops any of that player's other
// orders, except where the aggregate rules explicitly cascade a failure
// (boarding interruption, module-transfer conflicts, resource-pool
// residuals).
func Validate(gs *game.GameState, orders map[game.PlayerId][]game.Order) (map[game.PlayerId][]game.Order, map[game.PlayerId][]*game.OrderError) {
	slots := make(map[game.PlayerId][]*orderSlot, len(orders))
	for player, list := range orders {
		s := make([]*orderSlot, len(list))
		for i, o := range list {
			s[i] = &orderSlot{order: o}
		}
		slots[player] = s
	}

	for _, player := range sortedSlotPlayers(slots) {
		for _, slot := range slots[player] {
			slot.err = ValidateSingle(gs, player, slot.order)
		}
	}

	all := flattenSlots(slots)
	validateNamingUniqueness(all)

	switch gs.Phase {
	case game.PhaseLogistics:
		validateLogisticsAggregate(gs, all)
	case game.PhaseCombat:
		validateCombatAggregate(gs, all)
	case game.PhaseMovement:
		validateMovementAggregate(all)
	}

	survivors := make(map[game.PlayerId][]game.Order, len(slots))
	errs := make(map[game.PlayerId][]*game.OrderError, len(slots))
	for player, s := range slots {
		for _, slot := range s {
			errs[player] = append(errs[player], slot.err)
			if slot.err == nil {
				survivors[player] = append(survivors[player], slot.order)
			}
		}
	}
	return survivors, errs
}

func sortedSlotPlayers(slots map[game.PlayerId][]*orderSlot) []game.PlayerId {
	ids := make([]game.PlayerId, 0, len(slots))
	for id := range slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func flattenSlots(slots map[game.PlayerId][]*orderSlot) []playerSlot {
	var all []playerSlot
	for _, player := range sortedSlotPlayers(slots) {
		for _, slot := range slots[player] {
			all = append(all, playerSlot{player: player, slot: slot})
		}
	}
	return all
}

// validateNamingUniqueness fails every NameStack order for a stack that
// received more than one this turn.
func validateNamingUniqueness(all []playerSlot) {
	byStack := map[game.StackId][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		if o, ok := ps.slot.order.(game.NameStackOrder); ok {
			byStack[o.Stack] = append(byStack[o.Stack], ps.slot)
		}
	}
	for _, group := range byStack {
		if len(group) > 1 {
			for _, slot := range group {
				slot.err = game.NewError(game.ErrMultipleNamingOrders)
			}
		}
	}
}

// otherLogisticsStack reports whether o is one of the logistics orders
// that keep a stack "busy" for boarding-contention purposes (everything
// except NameStack and Board itself), and if so, which stack issued it.
func otherLogisticsStack(o game.Order) (game.StackId, bool) {
	switch t := o.(type) {
	case game.ModuleTransferOrder:
		return t.Stack, true
	case game.IsruOrder:
		return t.Stack, true
	case game.ResourceTransferOrder:
		return t.Stack, true
	case game.RepairOrder:
		return t.Stack, true
	case game.RefineOrder:
		return t.Stack, true
	case game.BuildOrder:
		return t.Stack, true
	case game.SalvageOrder:
		return t.Stack, true
	default:
		return 0, false
	}
}

func validateLogisticsAggregate(gs *game.GameState, all []playerSlot) {
	validateBoarding(all)
	validateModuleTransferConflicts(all)
	validateNewStackCoherence(gs, all)
	validateCapacityCounts(gs, all)
	validateResourcePools(gs, all)
}

// validateBoarding enforces: a stack that issues a boarding attempt may
// issue no other logistics order this turn (TooBusyToBoard); a target
// boarded by more than one stack resists all of them (ContestedBoarding);
// a successfully boarded target's other logistics orders are interrupted
// (Boarded).
func validateBoarding(all []playerSlot) {
	boardingByStack := map[game.StackId][]*orderSlot{}
	otherByStack := map[game.StackId][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		if o, ok := ps.slot.order.(game.BoardOrder); ok {
			boardingByStack[o.Stack] = append(boardingByStack[o.Stack], ps.slot)
			continue
		}
		if stack, ok := otherLogisticsStack(ps.slot.order); ok {
			otherByStack[stack] = append(otherByStack[stack], ps.slot)
		}
	}

	for stack, attempts := range boardingByStack {
		if len(attempts) > 1 || otherByStack[stack] != nil {
			for _, a := range attempts {
				a.err = game.NewError(game.ErrTooBusyToBoard)
			}
		}
	}

	boardedBy := map[game.StackId][]*orderSlot{}
	for _, attempts := range boardingByStack {
		if len(attempts) != 1 {
			continue
		}
		slot := attempts[0]
		if slot.err != nil {
			continue
		}
		bo := slot.order.(game.BoardOrder)
		boardedBy[bo.Target] = append(boardedBy[bo.Target], slot)
	}
	for target, boarders := range boardedBy {
		if len(boarders) > 1 {
			for _, b := range boarders {
				b.err = game.NewError(game.ErrContestedBoarding)
			}
		} else if others, ok := otherByStack[target]; ok {
			for _, o := range others {
				o.err = game.NewError(game.ErrBoarded)
			}
		}
	}
}

// validateModuleTransferConflicts fails any pair of ModuleTransfer orders
// naming the same module, and any other logistics order that touches a
// module simultaneously being transferred.
func validateModuleTransferConflicts(all []playerSlot) {
	moduleMoves := map[moduleKey][]*orderSlot{}
	otherModuleOrders := map[moduleKey][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		switch o := ps.slot.order.(type) {
		case game.ModuleTransferOrder:
			k := moduleKey{o.Stack, o.Module}
			moduleMoves[k] = append(moduleMoves[k], ps.slot)
		case game.ResourceTransferOrder:
			if o.From != nil {
				k := moduleKey{o.Stack, *o.From}
				otherModuleOrders[k] = append(otherModuleOrders[k], ps.slot)
			} else if o.To.Module != nil {
				k := moduleKey{o.Stack, *o.To.Module}
				otherModuleOrders[k] = append(otherModuleOrders[k], ps.slot)
			}
		case game.RepairOrder:
			k := moduleKey{o.TargetStack, o.TargetModule}
			otherModuleOrders[k] = append(otherModuleOrders[k], ps.slot)
		case game.SalvageOrder:
			k := moduleKey{o.Stack, o.Salvaged}
			otherModuleOrders[k] = append(otherModuleOrders[k], ps.slot)
		}
	}
	for k, moves := range moduleMoves {
		if len(moves) > 1 {
			for _, m := range moves {
				m.err = game.NewError(game.ErrModuleTransferConflict)
			}
		} else if others, ok := otherModuleOrders[k]; ok {
			for _, o := range others {
				o.err = game.NewError(game.ErrModuleTransferConflict)
			}
		}
	}
}

// validateNewStackCoherence requires every ModuleTransfer targeting the
// same per-player "new stack #n" tag to originate from stacks sharing one
// (position, velocity), since they coalesce into a single fresh stack
//.
func validateNewStackCoherence(gs *game.GameState, all []playerSlot) {
	type tagKey struct {
		Player game.PlayerId
		Tag    uint32
	}
	groups := map[tagKey][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		o, ok := ps.slot.order.(game.ModuleTransferOrder)
		if !ok || o.To.NewStackTag == nil {
			continue
		}
		groups[tagKey{ps.player, *o.To.NewStackTag}] = append(groups[tagKey{ps.player, *o.To.NewStackTag}], ps.slot)
	}
	for _, moves := range groups {
		first := moves[0].order.(game.ModuleTransferOrder)
		firstStack := gs.Stacks[first.Stack]
		conflict := false
		for _, m := range moves[1:] {
			o := m.order.(game.ModuleTransferOrder)
			s := gs.Stacks[o.Stack]
			if s.Position != firstStack.Position || s.Velocity != firstStack.Velocity {
				conflict = true
				break
			}
		}
		if conflict {
			for _, m := range moves {
				m.err = game.NewError(game.ErrNewStackStateConflict)
			}
		}
	}
}

// validateCapacityCounts enforces that every stack has enough Intact,
// not-simultaneously-transferred-or-salvaged modules of the relevant kind
// to cover what its orders ask for this turn.
func validateCapacityCounts(gs *game.GameState, all []playerSlot) {
	disabled := map[moduleKey]bool{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		switch o := ps.slot.order.(type) {
		case game.ModuleTransferOrder:
			disabled[moduleKey{o.Stack, o.Module}] = true
		case game.SalvageOrder:
			disabled[moduleKey{o.Stack, o.Salvaged}] = true
		}
	}

	count := func(stack game.StackId, match func(game.Module) bool) int {
		n := 0
		for id, m := range gs.Stacks[stack].Modules {
			if disabled[moduleKey{stack, id}] {
				continue
			}
			if m.Health == game.Intact && match(m) {
				n++
			}
		}
		return n
	}

	minerUsed := map[game.StackId]uint32{}
	minerOrders := map[game.StackId][]*orderSlot{}
	skimmerUsed := map[game.StackId]uint32{}
	skimmerOrders := map[game.StackId][]*orderSlot{}
	refineryUsed := map[game.StackId]uint32{}
	refineryOrders := map[game.StackId][]*orderSlot{}
	habFactoryOrders := map[game.StackId][]*orderSlot{}
	factoryOnlyOrders := map[game.StackId][]*orderSlot{}

	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		switch o := ps.slot.order.(type) {
		case game.IsruOrder:
			minerUsed[o.Stack] += o.Ore + o.Water
			skimmerUsed[o.Stack] += o.Fuel
			if o.Ore > 0 || o.Water > 0 {
				minerOrders[o.Stack] = append(minerOrders[o.Stack], ps.slot)
			} else if o.Fuel > 0 {
				skimmerOrders[o.Stack] = append(skimmerOrders[o.Stack], ps.slot)
			}
		case game.RefineOrder:
			refineryUsed[o.Stack] += uint32(o.Materials) + uint32(o.Fuel)
			refineryOrders[o.Stack] = append(refineryOrders[o.Stack], ps.slot)
		case game.RepairOrder:
			habFactoryOrders[o.Stack] = append(habFactoryOrders[o.Stack], ps.slot)
		case game.BuildOrder:
			factoryOnlyOrders[o.Stack] = append(factoryOnlyOrders[o.Stack], ps.slot)
		case game.SalvageOrder:
			factoryOnlyOrders[o.Stack] = append(factoryOnlyOrders[o.Stack], ps.slot)
		}
	}

	fail := func(slots []*orderSlot) {
		for _, s := range slots {
			s.err = game.NewError(game.ErrNotEnoughModules)
		}
	}

	for stack, os := range minerOrders {
		c := count(stack, func(m game.Module) bool { return m.Details.Miner != nil })
		if int(game.CeilDivU32(minerUsed[stack], game.MinerProductionRate)) > c {
			fail(os)
		}
	}
	for stack, os := range skimmerOrders {
		c := count(stack, func(m game.Module) bool { return m.Details.FuelSkimmer != nil })
		if int(game.CeilDivU32(skimmerUsed[stack], game.FuelSkimmerProductionRate)) > c {
			fail(os)
		}
	}
	for stack, os := range refineryOrders {
		c := count(stack, func(m game.Module) bool { return m.Details.Refinery != nil })
		if int(game.CeilDivU32(refineryUsed[stack], game.RefineryCapacity)) > c {
			fail(os)
		}
	}
	for stack, os := range habFactoryOrders {
		c := count(stack, func(m game.Module) bool { return m.Details.Habitat != nil || m.Details.Factory != nil })
		if len(os)+len(factoryOnlyOrders[stack]) > c {
			fail(os)
		}
	}
	for stack, os := range factoryOnlyOrders {
		c := count(stack, func(m game.Module) bool { return m.Details.Factory != nil })
		if len(os) > c {
			fail(os)
		}
	}
}

type resAmounts struct {
	Ore, Materials, Water, Fuel int32
}

func (r *resAmounts) empty() bool {
	return r.Ore == 0 && r.Materials == 0 && r.Water == 0 && r.Fuel == 0
}

type stackOwnerKey struct {
	Player game.PlayerId
	Stack  game.StackId
}

type moduleOwnerKey struct {
	Player game.PlayerId
	Stack  game.StackId
	Module game.ModuleId
}

// validateResourcePools enforces that every player's per-stack floating
// pool of {ore, materials, water, fuel} nets to exactly zero by the end of
// the logistics phase, and that every module's resulting storage stays
// within [0, capacity].
func validateResourcePools(gs *game.GameState, all []playerSlot) {
	pools := map[stackOwnerKey]*resAmounts{}
	deltas := map[moduleOwnerKey]*resAmounts{}
	ordersByPlayer := map[game.PlayerId][]*orderSlot{}

	pool := func(player game.PlayerId, stack game.StackId) *resAmounts {
		k := stackOwnerKey{player, stack}
		if p, ok := pools[k]; ok {
			return p
		}
		p := &resAmounts{}
		pools[k] = p
		return p
	}
	delta := func(player game.PlayerId, stack game.StackId, module game.ModuleId) *resAmounts {
		k := moduleOwnerKey{player, stack, module}
		if d, ok := deltas[k]; ok {
			return d
		}
		d := &resAmounts{}
		deltas[k] = d
		return d
	}

	for _, ps := range all {
		player, slot := ps.player, ps.slot
		if slot.err != nil {
			continue
		}
		switch o := slot.order.(type) {
		case game.IsruOrder:
			p := pool(player, o.Stack)
			p.Ore += int32(o.Ore)
			p.Water += int32(o.Water)
			p.Fuel += int32(o.Fuel)
			ordersByPlayer[player] = append(ordersByPlayer[player], slot)

		case game.ResourceTransferOrder:
			switch {
			case o.From != nil && o.To.FloatingPool:
				p := pool(player, o.Stack)
				p.Ore += int32(o.Ore)
				p.Materials += int32(o.Materials)
				p.Water += int32(o.Water)
				p.Fuel += int32(o.Fuel)
				d := delta(player, o.Stack, *o.From)
				d.Ore -= int32(o.Ore)
				d.Materials -= int32(o.Materials)
				d.Water -= int32(o.Water)
				d.Fuel -= int32(o.Fuel)
				ordersByPlayer[player] = append(ordersByPlayer[player], slot)
			case o.From == nil && o.To.Module != nil:
				p := pool(player, o.Stack)
				p.Ore -= int32(o.Ore)
				p.Materials -= int32(o.Materials)
				p.Water -= int32(o.Water)
				p.Fuel -= int32(o.Fuel)
				d := delta(player, o.Stack, *o.To.Module)
				d.Ore += int32(o.Ore)
				d.Materials += int32(o.Materials)
				d.Water += int32(o.Water)
				d.Fuel += int32(o.Fuel)
				ordersByPlayer[player] = append(ordersByPlayer[player], slot)
			case o.From == nil && o.To.Stack != nil:
				p := pool(player, o.Stack)
				p.Ore -= int32(o.Ore)
				p.Materials -= int32(o.Materials)
				p.Water -= int32(o.Water)
				p.Fuel -= int32(o.Fuel)
				toPool := pool(player, *o.To.Stack)
				toPool.Ore += int32(o.Ore)
				toPool.Materials += int32(o.Materials)
				toPool.Water += int32(o.Water)
				toPool.Fuel += int32(o.Fuel)
				ordersByPlayer[player] = append(ordersByPlayer[player], slot)
			case o.From == nil && o.To.Jettison:
				p := pool(player, o.Stack)
				p.Ore -= int32(o.Ore)
				p.Materials -= int32(o.Materials)
				p.Water -= int32(o.Water)
				p.Fuel -= int32(o.Fuel)
				ordersByPlayer[player] = append(ordersByPlayer[player], slot)
			}

		case game.RepairOrder:
			target := gs.Stacks[o.TargetStack].Modules[o.TargetModule]
			p := pool(player, o.Stack)
			p.Materials -= int32(target.RepairCost())
			ordersByPlayer[player] = append(ordersByPlayer[player], slot)

		case game.RefineOrder:
			p := pool(player, o.Stack)
			p.Ore -= int32(o.Materials) * game.RefineryOrePerMaterial
			p.Materials += int32(o.Materials)
			p.Water -= int32(o.Fuel) * game.RefineryWaterPerFuel
			p.Fuel += int32(o.Fuel)
			ordersByPlayer[player] = append(ordersByPlayer[player], slot)

		case game.BuildOrder:
			p := pool(player, o.Stack)
			p.Materials -= int32(game.BuildCost(o.Module))
			ordersByPlayer[player] = append(ordersByPlayer[player], slot)

		case game.SalvageOrder:
			salvaged := gs.Stacks[o.Stack].Modules[o.Salvaged]
			p := pool(player, o.Stack)
			p.Materials += int32(salvaged.SalvageYield())
			ordersByPlayer[player] = append(ordersByPlayer[player], slot)
		}
	}

	for k, amt := range pools {
		if !amt.empty() {
			for _, s := range ordersByPlayer[k.Player] {
				s.err = game.NewStackError(game.ErrResourcePoolResidual, k.Stack)
			}
		}
	}

	for k, d := range deltas {
		moduleRef := gs.Stacks[k.Stack].Modules[k.Module]
		var problem *game.OrderError
		switch {
		case moduleRef.Details.CargoHold != nil:
			ore := int32(moduleRef.Details.CargoHold.Ore) + d.Ore
			materials := int32(moduleRef.Details.CargoHold.Materials) + d.Materials
			if ore+materials > game.CargoHoldCapacity {
				problem = game.NewStackModuleError(game.ErrNotEnoughCapacity, k.Stack, k.Module)
			} else if ore < 0 || materials < 0 {
				problem = game.NewStackModuleError(game.ErrNotEnoughResources, k.Stack, k.Module)
			}
		case moduleRef.Details.Tank != nil:
			water := int32(moduleRef.Details.Tank.Water) + d.Water
			fuel := int32(moduleRef.Details.Tank.Fuel) + d.Fuel
			if water+fuel > game.TankCapacity {
				problem = game.NewStackModuleError(game.ErrNotEnoughCapacity, k.Stack, k.Module)
			} else if water < 0 || fuel < 0 {
				problem = game.NewStackModuleError(game.ErrNotEnoughResources, k.Stack, k.Module)
			}
		}
		if problem != nil {
			for _, s := range ordersByPlayer[k.Player] {
				s.err = problem
			}
		}
	}
}

// validateCombatAggregate fails every Shoot order from a stack whose total
// requested shots this turn exceed its Intact gun count.
func validateCombatAggregate(gs *game.GameState, all []playerSlot) {
	byStack := map[game.StackId][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		if o, ok := ps.slot.order.(game.ShootOrder); ok {
			byStack[o.Stack] = append(byStack[o.Stack], ps.slot)
		}
	}
	for stack, os := range byStack {
		var totalShots uint32
		for _, s := range os {
			totalShots += s.order.(game.ShootOrder).Shots
		}
		guns := 0
		for _, m := range gs.Stacks[stack].Modules {
			if m.Health == game.Intact && m.Details.Gun != nil {
				guns++
			}
		}
		if int(totalShots) > guns {
			for _, s := range os {
				s.err = game.NewError(game.ErrNotEnoughModules)
			}
		}
	}
}

// validateMovementAggregate fails every movement order for a stack that
// issued more than one this turn: a stack may Burn, adjust
// orbit, land, or take off, but only once.
func validateMovementAggregate(all []playerSlot) {
	byStack := map[game.StackId][]*orderSlot{}
	for _, ps := range all {
		if ps.slot.err != nil {
			continue
		}
		switch ps.slot.order.(type) {
		case game.BurnOrder, game.OrbitAdjustOrder, game.LandOrder, game.TakeOffOrder:
			stack := ps.slot.order.OrderStack()
			byStack[stack] = append(byStack[stack], ps.slot)
		}
	}
	for _, os := range byStack {
		if len(os) > 1 {
			for _, s := range os {
				s.err = game.NewError(game.ErrMultipleMoves)
			}
		}
	}
}
