package engine

import (
	"fmt"
	"sort"

	"github.com/solardawn/solar-dawn-server/game"
)

type newStackKey struct {
	Player game.PlayerId
	Tag    uint32
}

// Apply produces the next turn's stacks from a batch of already-validated
// orders. Logistics orders run in three waves so dependencies
// resolve correctly: Board first (it empties the boarded stack before
// anything else can touch it), then ModuleTransfer (minting a new stack
// the first time a given (player, tag) is seen), then every remaining
// logistics order, whose relative order doesn't matter because pass 2
// validated them all against one shared floating pool. Combat and
// Movement orders may run in any order; Shoot draws its RNG in
// (player, stack, target) order, each shot in turn.
func Apply(gs *game.GameState, orders map[game.PlayerId][]game.Order, stackIds *game.IdGenerator[game.StackId], moduleIds *game.IdGenerator[game.ModuleId], rng game.Rng) map[game.StackId]*game.Stack {
	stacks := game.CloneStacks(gs.Stacks)
	players := game.SortedPlayerIDs(orders)

	applyNamingOrders(stacks, orders, players)

	switch gs.Phase {
	case game.PhaseLogistics:
		for _, player := range players {
			for _, o := range orders[player] {
				if bo, ok := o.(game.BoardOrder); ok {
					applyBoard(stacks, bo)
				}
			}
		}
		newStackIDs := map[newStackKey]game.StackId{}
		for _, player := range players {
			for _, o := range orders[player] {
				if mt, ok := o.(game.ModuleTransferOrder); ok {
					applyModuleTransfer(stacks, player, mt, newStackIDs, stackIds)
				}
			}
		}
		for _, player := range players {
			for _, o := range orders[player] {
				switch t := o.(type) {
				case game.ResourceTransferOrder:
					applyResourceTransfer(stacks, t)
				case game.RepairOrder:
					applyRepair(stacks, t)
				case game.BuildOrder:
					applyBuild(stacks, t, moduleIds)
				case game.SalvageOrder:
					applySalvage(stacks, t)
				}
			}
		}

	case game.PhaseCombat:
		for _, player := range players {
			var shoots []game.ShootOrder
			for _, o := range orders[player] {
				switch t := o.(type) {
				case game.ShootOrder:
					shoots = append(shoots, t)
				case game.ArmOrder:
					applyArm(stacks, t)
				}
			}
			sort.SliceStable(shoots, func(i, j int) bool {
				if shoots[i].Stack != shoots[j].Stack {
					return shoots[i].Stack < shoots[j].Stack
				}
				return shoots[i].Target < shoots[j].Target
			})
			for _, t := range shoots {
				applyShoot(stacks, t, rng)
			}
		}

	case game.PhaseMovement:
		for _, player := range players {
			for _, o := range orders[player] {
				switch t := o.(type) {
				case game.BurnOrder:
					applyBurn(stacks, t)
				case game.OrbitAdjustOrder:
					applyOrbitAdjust(stacks, gs, t)
				case game.LandOrder:
					applyLand(stacks, gs, t)
				case game.TakeOffOrder:
					applyTakeOff(stacks, gs, t)
				}
			}
		}
	}

	return stacks
}

// applyNamingOrders handles NameStack, which is legal (and so may appear)
// in every phase's order batch.
func applyNamingOrders(stacks map[game.StackId]*game.Stack, orders map[game.PlayerId][]game.Order, players []game.PlayerId) {
	for _, player := range players {
		for _, o := range orders[player] {
			if ns, ok := o.(game.NameStackOrder); ok {
				stacks[ns.Stack].Name = ns.Name
			}
		}
	}
}

func applyBoard(stacks map[game.StackId]*game.Stack, o game.BoardOrder) {
	target := stacks[o.Target]
	transferred := target.Modules
	target.Modules = map[game.ModuleId]game.Module{}
	dest := stacks[o.Stack]
	for id, m := range transferred {
		dest.Modules[id] = m
	}
}

func applyModuleTransfer(stacks map[game.StackId]*game.Stack, player game.PlayerId, o game.ModuleTransferOrder, newStackIDs map[newStackKey]game.StackId, stackIds *game.IdGenerator[game.StackId]) {
	src := stacks[o.Stack]
	m := src.Modules[o.Module]
	delete(src.Modules, o.Module)

	switch {
	case o.To.ExistingStack != nil:
		stacks[*o.To.ExistingStack].Modules[o.Module] = m

	case o.To.NewStackTag != nil:
		key := newStackKey{player, *o.To.NewStackTag}
		id, ok := newStackIDs[key]
		if !ok {
			id = stackIds.Next()
			newStackIDs[key] = id
		}
		dest, ok := stacks[id]
		if !ok {
			dest = game.NewStack(src.Position, src.Velocity, src.Owner, fmt.Sprintf("New Stack #%d", *o.To.NewStackTag))
			stacks[id] = dest
		}
		dest.Modules[o.Module] = m
	}
}

func applyResourceTransfer(stacks map[game.StackId]*game.Stack, o game.ResourceTransferOrder) {
	stack := stacks[o.Stack]
	switch {
	case o.From != nil && o.To.FloatingPool:
		m := stack.Modules[*o.From]
		switch {
		case m.Details.CargoHold != nil:
			m.Details.CargoHold.Ore -= o.Ore
			m.Details.CargoHold.Materials -= o.Materials
		case m.Details.Tank != nil:
			m.Details.Tank.Water -= o.Water
			m.Details.Tank.Fuel -= o.Fuel
		}
	case o.From == nil && o.To.Module != nil:
		m := stack.Modules[*o.To.Module]
		switch {
		case m.Details.CargoHold != nil:
			m.Details.CargoHold.Ore += o.Ore
			m.Details.CargoHold.Materials += o.Materials
		case m.Details.Tank != nil:
			m.Details.Tank.Water += o.Water
			m.Details.Tank.Fuel += o.Fuel
		}
	default:
		// Stack and Jettison targets only move the floating pool, which
		// isn't part of persisted state; nothing to mutate here.
	}
}

func applyRepair(stacks map[game.StackId]*game.Stack, o game.RepairOrder) {
	target := stacks[o.TargetStack]
	m := target.Modules[o.TargetModule]
	m.Health = game.Intact
	target.Modules[o.TargetModule] = m
}

func applyBuild(stacks map[game.StackId]*game.Stack, o game.BuildOrder, moduleIds *game.IdGenerator[game.ModuleId]) {
	stack := stacks[o.Stack]
	id := moduleIds.Next()
	stack.Modules[id] = newModuleOfKind(o.Module, stack.Owner)
}

func newModuleOfKind(kind game.ModuleKind, owner game.PlayerId) game.Module {
	switch kind {
	case game.KindMiner:
		return game.NewModule(game.MinerDetails())
	case game.KindFuelSkimmer:
		return game.NewModule(game.FuelSkimmerDetails())
	case game.KindCargoHold:
		return game.NewModule(game.CargoHold(0, 0))
	case game.KindTank:
		return game.NewModule(game.NewTank(0, 0))
	case game.KindEngine:
		return game.NewModule(game.EngineDetails())
	case game.KindWarhead:
		return game.NewModule(game.Warhead(false))
	case game.KindGun:
		return game.NewModule(game.GunDetails())
	case game.KindHabitat:
		return game.NewModule(game.Habitat(owner))
	case game.KindRefinery:
		return game.NewModule(game.RefineryDetails())
	case game.KindFactory:
		return game.NewModule(game.FactoryDetails())
	case game.KindArmourPlate:
		return game.NewModule(game.ArmourPlateDetails())
	default:
		panic("engine: unknown module kind in Build")
	}
}

func applySalvage(stacks map[game.StackId]*game.Stack, o game.SalvageOrder) {
	delete(stacks[o.Stack].Modules, o.Salvaged)
}

func applyShoot(stacks map[game.StackId]*game.Stack, o game.ShootOrder, rng game.Rng) {
	start := stacks[o.Stack].Position
	target := stacks[o.Target]
	chance := game.HitChance(game.Distance(target.Position, start))

	var hits uint32
	for i := uint32(0); i < o.Shots; i++ {
		if rng.Float64() < chance {
			hits++
		}
	}
	game.DoDamage(target, hits, rng)
}

func applyArm(stacks map[game.StackId]*game.Stack, o game.ArmOrder) {
	stacks[o.Stack].Modules[o.Warhead].Details.Warhead.Armed = o.Armed
}

func applyBurn(stacks map[game.StackId]*game.Stack, o game.BurnOrder) {
	stack := stacks[o.Stack]
	stack.Velocity = stack.Velocity.Add(o.DeltaV)
	drainFuel(stack, o.FuelFrom)
}

func applyOrbitAdjust(stacks map[game.StackId]*game.Stack, gs *game.GameState, o game.OrbitAdjustOrder) {
	stack := stacks[o.Stack]
	orbited := gs.Celestials[o.Around]
	slot, _ := orbited.SlotForDestination(o.TargetPosition, o.Clockwise)
	stack.Position = slot.Position
	stack.Velocity = slot.Velocity
	drainFuel(stack, o.FuelFrom)
}

func applyLand(stacks map[game.StackId]*game.Stack, gs *game.GameState, o game.LandOrder) {
	stack := stacks[o.Stack]
	on := gs.Celestials[o.On]
	stack.Position = on.Position
	stack.Velocity = game.Zero
	drainFuel(stack, o.FuelFrom)
}

func applyTakeOff(stacks map[game.StackId]*game.Stack, gs *game.GameState, o game.TakeOffOrder) {
	stack := stacks[o.Stack]
	from := gs.Celestials[o.From]
	slot, _ := from.SlotForDestination(o.Destination, o.Clockwise)
	stack.Position = slot.Position
	stack.Velocity = slot.Velocity
	drainFuel(stack, o.FuelFrom)
}

// drainFuel subtracts each named tank's drawn fuel. Orders are validated
// before apply runs, so every (module, amount) names an Intact tank with
// enough fuel.
func drainFuel(stack *game.Stack, fuelFrom []game.FuelDraw) {
	for _, draw := range fuelFrom {
		stack.Modules[draw.Module].Details.Tank.Fuel -= draw.Amount
	}
}
