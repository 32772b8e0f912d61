package engine

import "github.com/solardawn/solar-dawn-server/game"

// ValidateSingle checks one order against the game state and the player who
// issued it, in isolation from every other order submitted this turn. This
// is pass 1 of the two-pass validator; pass 2 (ValidateAggregate) runs only
// on orders that survive this pass.
func ValidateSingle(gs *game.GameState, player game.PlayerId, order game.Order) *game.OrderError {
	switch o := order.(type) {
	case game.NameStackOrder:
		_, err := validateStack(gs, player, o.Stack)
		return err

	case game.ModuleTransferOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		stackRef, _, err := validateModule(gs, player, o.Stack, o.Module)
		if err != nil {
			return err
		}
		if o.To.ExistingStack != nil {
			target := *o.To.ExistingStack
			targetRef, err := validateStack(gs, player, target)
			if err != nil {
				return err
			}
			if o.Stack == target {
				return game.NewError(game.ErrInvalidTarget)
			}
			if !stackRef.RendezvousedWith(targetRef) {
				return game.NewStackPairError(game.ErrNotRendezvoused, o.Stack, target)
			}
		}
		return nil

	case game.BoardOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		if !hasIntactHabitat(stackRef) {
			return game.NewError(game.ErrNoHab)
		}
		targetRef, ok := gs.Stacks[o.Target]
		if !ok {
			return game.NewStackError(game.ErrInvalidStackId, o.Target)
		}
		if targetRef.Owner == player {
			return game.NewStackError(game.ErrBadOwnership, o.Target)
		}
		if !stackRef.RendezvousedWith(targetRef) {
			return game.NewStackPairError(game.ErrNotRendezvoused, o.Stack, o.Target)
		}
		if hasIntactHabitat(targetRef) {
			return game.NewError(game.ErrContestedBoarding)
		}
		return nil

	case game.IsruOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		_, celestial, hasCelestial := gs.CelestialByPosition(stackRef.Position)
		if o.Ore > 0 {
			if !hasCelestial || !stackRef.Landed(celestial) ||
				!(celestial.Resources == game.ResourcesMiningBoth || celestial.Resources == game.ResourcesMiningOre) {
				return game.NewError(game.ErrNoResourceAccess)
			}
		}
		if o.Water > 0 {
			if !hasCelestial || !stackRef.Landed(celestial) ||
				!(celestial.Resources == game.ResourcesMiningBoth || celestial.Resources == game.ResourcesMiningWater) {
				return game.NewError(game.ErrNoResourceAccess)
			}
		}
		if o.Fuel > 0 {
			ok := false
			for _, c := range gs.GravityBodies() {
				if stackRef.Orbiting(c) && c.Resources == game.ResourcesSkimming {
					ok = true
					break
				}
			}
			if !ok {
				return game.NewError(game.ErrNoResourceAccess)
			}
		}
		return nil

	case game.ResourceTransferOrder:
		return validateResourceTransfer(gs, player, o)

	case game.RepairOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		targetStackRef, moduleRef, err := validateModule(gs, player, o.TargetStack, o.TargetModule)
		if err != nil {
			return err
		}
		if !stackRef.RendezvousedWith(targetStackRef) {
			return game.NewStackPairError(game.ErrNotRendezvoused, o.Stack, o.TargetStack)
		}
		if moduleRef.Health != game.Damaged {
			return game.NewError(game.ErrNotDamaged)
		}
		return nil

	case game.RefineOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		_, err := validateStack(gs, player, o.Stack)
		return err

	case game.BuildOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		if o.Module == game.KindHabitat {
			earth := gs.Celestials[gs.Earth]
			if !stackRef.Orbiting(earth) {
				return game.NewError(game.ErrNotInEarthOrbit)
			}
		}
		return nil

	case game.SalvageOrder:
		if err := validatePhase(gs, game.PhaseLogistics); err != nil {
			return err
		}
		_, _, err := validateModule(gs, player, o.Stack, o.Salvaged)
		return err

	case game.ShootOrder:
		if err := validatePhase(gs, game.PhaseCombat); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		targetRef, ok := gs.Stacks[o.Target]
		if !ok {
			return game.NewStackError(game.ErrInvalidStackId, o.Target)
		}
		if o.Stack == o.Target {
			return game.NewError(game.ErrInvalidTarget)
		}
		if !game.LineOfSight(gs.Celestials, stackRef.Position, targetRef.Position) {
			return game.NewError(game.ErrNoLineOfSight)
		}
		return nil

	case game.ArmOrder:
		if err := validatePhase(gs, game.PhaseCombat); err != nil {
			return err
		}
		stackRef, moduleRef, err := validateModule(gs, player, o.Stack, o.Warhead)
		if err != nil {
			return err
		}
		for _, m := range stackRef.Modules {
			if m.Details.Habitat != nil && m.Health != game.Destroyed {
				return game.NewError(game.ErrHabOnStack)
			}
		}
		if moduleRef.Health != game.Intact || moduleRef.Details.Warhead == nil {
			return game.NewStackModuleError(game.ErrInvalidModuleType, o.Stack, o.Warhead)
		}
		return nil

	case game.BurnOrder:
		if err := validatePhase(gs, game.PhaseMovement); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		deltaV := uint32(o.DeltaV.Norm())
		if err := validateBurn(o.Stack, stackRef, deltaV, o.FuelFrom, 0); err != nil {
			return err
		}
		for _, c := range gs.GravityBodies() {
			if stackRef.LandedWithGravity(c) {
				return game.NewError(game.ErrBurnWhileLanded)
			}
		}
		return nil

	case game.OrbitAdjustOrder:
		if err := validatePhase(gs, game.PhaseMovement); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		if err := validateBurn(o.Stack, stackRef, 1, o.FuelFrom, 0); err != nil {
			return err
		}
		orbited, err := validateCelestial(gs, o.Around)
		if err != nil {
			return err
		}
		if !stackRef.Orbiting(orbited) {
			return game.NewError(game.ErrNotInOrbit)
		}
		if game.Distance(o.TargetPosition, orbited.Position) != 1 {
			return game.NewError(game.ErrDestinationTooFar)
		}
		return nil

	case game.LandOrder:
		if err := validatePhase(gs, game.PhaseMovement); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		celestial, err := validateCelestial(gs, o.On)
		if err != nil {
			return err
		}
		if !celestial.OrbitGravity {
			return game.NewError(game.ErrNotLandable)
		}
		if err := validateBurn(o.Stack, stackRef, 1, o.FuelFrom, float64(celestial.SurfaceGravity)); err != nil {
			return err
		}
		if !stackRef.Orbiting(celestial) {
			return game.NewError(game.ErrNotInOrbit)
		}
		if !celestial.CanLand() {
			return game.NewError(game.ErrNotLandable)
		}
		return nil

	case game.TakeOffOrder:
		if err := validatePhase(gs, game.PhaseMovement); err != nil {
			return err
		}
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		celestial, err := validateCelestial(gs, o.From)
		if err != nil {
			return err
		}
		if err := validateBurn(o.Stack, stackRef, 1, o.FuelFrom, float64(celestial.SurfaceGravity)); err != nil {
			return err
		}
		if !stackRef.LandedWithGravity(celestial) {
			return game.NewError(game.ErrNotLanded)
		}
		if game.Distance(o.Destination, celestial.Position) != 1 {
			return game.NewError(game.ErrDestinationTooFar)
		}
		return nil

	default:
		panic("engine: unhandled order type in ValidateSingle")
	}
}

func validateResourceTransfer(gs *game.GameState, player game.PlayerId, o game.ResourceTransferOrder) *game.OrderError {
	if err := validatePhase(gs, game.PhaseLogistics); err != nil {
		return err
	}
	solids := o.Ore != 0 || o.Materials != 0
	liquids := o.Water != 0 || o.Fuel != 0

	switch {
	case o.From != nil && o.To.FloatingPool:
		return validateTransferModule(gs, player, o.Stack, *o.From, solids, liquids)
	case o.From == nil && o.To.Module != nil:
		return validateTransferModule(gs, player, o.Stack, *o.To.Module, solids, liquids)
	case o.From == nil && o.To.Stack != nil:
		stackRef, err := validateStack(gs, player, o.Stack)
		if err != nil {
			return err
		}
		to := *o.To.Stack
		toRef, err := validateStack(gs, player, to)
		if err != nil {
			return err
		}
		if o.Stack == to {
			return game.NewError(game.ErrInvalidTarget)
		}
		if !stackRef.RendezvousedWith(toRef) {
			return game.NewStackPairError(game.ErrNotRendezvoused, o.Stack, to)
		}
		return nil
	case o.From == nil && o.To.Jettison:
		_, err := validateStack(gs, player, o.Stack)
		return err
	default:
		return game.NewError(game.ErrInvalidTransfer)
	}
}

// validateTransferModule checks the module endpoint of a ResourceTransfer:
// it must be Intact, and must be a CargoHold if moving solids, a Tank if
// moving liquids, and either if moving nothing (a no-op transfer still
// names a real storage module).
func validateTransferModule(gs *game.GameState, player game.PlayerId, stack game.StackId, module game.ModuleId, solids, liquids bool) *game.OrderError {
	_, moduleRef, err := validateModule(gs, player, stack, module)
	if err != nil {
		return err
	}
	if solids && liquids {
		return game.NewStackModuleError(game.ErrInvalidModuleType, stack, module)
	}
	if moduleRef.Health != game.Intact {
		return game.NewStackModuleError(game.ErrInvalidModuleType, stack, module)
	}
	switch {
	case solids:
		if moduleRef.Details.CargoHold == nil {
			return game.NewStackModuleError(game.ErrInvalidModuleType, stack, module)
		}
	case liquids:
		if moduleRef.Details.Tank == nil {
			return game.NewStackModuleError(game.ErrInvalidModuleType, stack, module)
		}
	default:
		if moduleRef.Details.CargoHold == nil && moduleRef.Details.Tank == nil {
			return game.NewStackModuleError(game.ErrInvalidModuleType, stack, module)
		}
	}
	return nil
}

func hasIntactHabitat(s *game.Stack) bool {
	for _, m := range s.Modules {
		if m.Details.Habitat != nil && m.Health == game.Intact {
			return true
		}
	}
	return false
}

func validateStack(gs *game.GameState, player game.PlayerId, stack game.StackId) (*game.Stack, *game.OrderError) {
	stackRef, ok := gs.Stacks[stack]
	if !ok {
		return nil, game.NewStackError(game.ErrInvalidStackId, stack)
	}
	if stackRef.Owner != player {
		return nil, game.NewStackError(game.ErrBadOwnership, stack)
	}
	return stackRef, nil
}

func validateModule(gs *game.GameState, player game.PlayerId, stack game.StackId, module game.ModuleId) (*game.Stack, *game.Module, *game.OrderError) {
	stackRef, err := validateStack(gs, player, stack)
	if err != nil {
		return nil, nil, err
	}
	moduleRef, ok := stackRef.Modules[module]
	if !ok {
		return nil, nil, game.NewStackModuleError(game.ErrInvalidModuleId, stack, module)
	}
	return stackRef, &moduleRef, nil
}

func validatePhase(gs *game.GameState, want game.Phase) *game.OrderError {
	if gs.Phase != want {
		return game.NewError(game.ErrWrongPhase)
	}
	return nil
}

func validateCelestial(gs *game.GameState, id game.CelestialId) (*game.Celestial, *game.OrderError) {
	c, ok := gs.Celestials[id]
	if !ok {
		return nil, game.NewError(game.ErrInvalidCelestialId)
	}
	return c, nil
}

// validateBurn checks that a stack has enough acceleration and exactly the
// right propellant mass for a maneuver costing deltaV hexes/turn of
// velocity change, drawn from fuelFrom. gravityMinAccel is the extra
// acceleration floor imposed by a body's surface gravity (0 away from a
// landing/takeoff maneuver).
func validateBurn(stack game.StackId, stackRef *game.Stack, deltaV uint32, fuelFrom []game.FuelDraw, gravityMinAccel float64) *game.OrderError {
	minAccel := float64(deltaV) * 2.0
	if gravityMinAccel > minAccel {
		minAccel = gravityMinAccel
	}
	if stackRef.Acceleration() < minAccel {
		return game.NewError(game.ErrNotEnoughThrust)
	}

	var totalPropellant uint32
	for _, draw := range fuelFrom {
		moduleRef, ok := stackRef.Modules[draw.Module]
		if !ok {
			return game.NewStackModuleError(game.ErrInvalidModuleId, stack, draw.Module)
		}
		if moduleRef.Health != game.Intact || moduleRef.Details.Tank == nil {
			return game.NewStackModuleError(game.ErrInvalidModuleType, stack, draw.Module)
		}
		if draw.Amount > moduleRef.Details.Tank.Fuel {
			return game.NewStackModuleError(game.ErrNotEnoughResources, stack, draw.Module)
		}
		totalPropellant += uint32(draw.Amount)
	}

	deltaP := stackRef.Mass() * float64(deltaV)
	requiredPropellant := game.CeilU32(deltaP / game.EngineSpecificImpulse)
	if totalPropellant != requiredPropellant {
		return game.NewError(game.ErrIncorrectPropellantMass)
	}
	return nil
}
