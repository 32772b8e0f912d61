package game

// Constants from the Solar Dawn ruleset. Resource quantities are always in
// units of 0.1 t unless noted otherwise.
const (
	// MinerProductionRate is how many resource units a miner produces per turn.
	MinerProductionRate = 10
	// FuelSkimmerProductionRate is how much fuel a skimmer produces per turn.
	FuelSkimmerProductionRate = 10

	// CargoHoldCapacity is the maximum ore+materials a cargo hold can carry.
	CargoHoldCapacity = 200
	// TankCapacity is the maximum water+fuel a tank can carry.
	TankCapacity = 200

	// EngineThrust is the thrust rating of one Intact engine, in thrust units.
	EngineThrust = 2
	// ThrustUnitKN converts a thrust unit to kN: 1 unit = 10 kN, chosen so
	// that kN/tonne lands directly in m/s^2 with no further conversion.
	ThrustUnitKN = 10
	// EngineSpecificImpulse converts a Burn order's mass*delta-v into required propellant units.
	EngineSpecificImpulse = 2

	// RefineryCapacity is how many output units (materials plus fuel) a
	// refinery can produce per turn.
	RefineryCapacity = 5
	// RefineryOrePerMaterial is the ore cost of one unit of materials.
	RefineryOrePerMaterial = 2
	// RefineryWaterPerFuel is the water cost of one unit of fuel.
	RefineryWaterPerFuel = 2

	// GunRangeOneHitChance is the probability a single shot hits at one hex range.
	GunRangeOneHitChance = 0.5

	// RepairFraction divides a module's rebuild cost to get its repair cost.
	RepairFraction = 4
	// SalvageFraction divides a module's rebuild cost to get its salvage yield.
	SalvageFraction = 2
	// WarheadDamageFraction divides a victim's module count to get hits per armed warhead.
	WarheadDamageFraction = 2

	// OneHexCartesianDistSq is the squared Cartesian distance between any two
	// neighbouring hex centers under HexVec.Cartesian's scaling (exactly 3,
	// since every unit direction maps to a vector of magnitude sqrt(3)). Used
	// as the "within one hex" detonation-range threshold so the check is a
	// plain squared-distance compare.
	OneHexCartesianDistSq = 3.0
)

// ModuleMass is the dry mass, in whole tonnes, of one unit of each module kind.
var ModuleMass = map[ModuleKind]uint32{
	KindMiner:       10,
	KindFuelSkimmer: 10,
	KindCargoHold:   1,
	KindTank:        1,
	KindEngine:      1,
	KindWarhead:     1,
	KindGun:         2,
	KindHabitat:     10,
	KindRefinery:    20,
	KindFactory:     50,
	KindArmourPlate: 1,
}

// BuildCost returns the materials cost, in 0.1 t units, of building one module of kind k.
func BuildCost(k ModuleKind) uint32 {
	return ModuleMass[k] * 10
}
