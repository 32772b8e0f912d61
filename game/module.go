package game

// Health is the closed set of module conditions.
type Health int

const (
	Intact Health = iota
	Damaged
	Destroyed
)

// ModuleKind is the closed enum of module types, used wherever a type tag
// alone is needed (build orders, capacity counting) without a full
// ModuleDetails payload.
type ModuleKind int

const (
	KindMiner ModuleKind = iota
	KindFuelSkimmer
	KindCargoHold
	KindTank
	KindEngine
	KindWarhead
	KindGun
	KindHabitat
	KindRefinery
	KindFactory
	KindArmourPlate
)

// ModuleDetails is a closed tagged union of module payloads. Exactly one of
// the embedded pointers is non-nil for any given module; Kind() exposes the
// discriminant without a type switch at every call site.
type ModuleDetails struct {
	Miner       *struct{}
	FuelSkimmer *struct{}
	CargoHold   *CargoHoldDetails
	Tank        *TankDetails
	Engine      *struct{}
	Warhead     *WarheadDetails
	Gun         *struct{}
	Habitat     *HabitatDetails
	Refinery    *struct{}
	Factory     *struct{}
	ArmourPlate *struct{}
}

// CargoHoldDetails holds solid resources, in 0.1 t units.
type CargoHoldDetails struct {
	Ore       uint8
	Materials uint8
}

// TankDetails holds fluid resources, in 0.1 t units.
type TankDetails struct {
	Water uint8
	Fuel  uint8
}

// WarheadDetails tracks whether a warhead is armed.
type WarheadDetails struct {
	Armed bool
}

// HabitatDetails names the player who controls any stack this habitat is
// aboard, as long as it stays Intact.
type HabitatDetails struct {
	Owner PlayerId
}

func MinerDetails() ModuleDetails       { return ModuleDetails{Miner: &struct{}{}} }
func FuelSkimmerDetails() ModuleDetails { return ModuleDetails{FuelSkimmer: &struct{}{}} }
func EngineDetails() ModuleDetails      { return ModuleDetails{Engine: &struct{}{}} }
func GunDetails() ModuleDetails         { return ModuleDetails{Gun: &struct{}{}} }
func RefineryDetails() ModuleDetails    { return ModuleDetails{Refinery: &struct{}{}} }
func FactoryDetails() ModuleDetails     { return ModuleDetails{Factory: &struct{}{}} }
func ArmourPlateDetails() ModuleDetails { return ModuleDetails{ArmourPlate: &struct{}{}} }

func CargoHold(ore, materials uint8) ModuleDetails {
	return ModuleDetails{CargoHold: &CargoHoldDetails{Ore: ore, Materials: materials}}
}
func NewTank(water, fuel uint8) ModuleDetails {
	return ModuleDetails{Tank: &TankDetails{Water: water, Fuel: fuel}}
}
func Warhead(armed bool) ModuleDetails {
	return ModuleDetails{Warhead: &WarheadDetails{Armed: armed}}
}
func Habitat(owner PlayerId) ModuleDetails {
	return ModuleDetails{Habitat: &HabitatDetails{Owner: owner}}
}

// Kind returns the discriminant of d.
func (d ModuleDetails) Kind() ModuleKind {
	switch {
	case d.Miner != nil:
		return KindMiner
	case d.FuelSkimmer != nil:
		return KindFuelSkimmer
	case d.CargoHold != nil:
		return KindCargoHold
	case d.Tank != nil:
		return KindTank
	case d.Engine != nil:
		return KindEngine
	case d.Warhead != nil:
		return KindWarhead
	case d.Gun != nil:
		return KindGun
	case d.Habitat != nil:
		return KindHabitat
	case d.Refinery != nil:
		return KindRefinery
	case d.Factory != nil:
		return KindFactory
	case d.ArmourPlate != nil:
		return KindArmourPlate
	default:
		panic("game: empty ModuleDetails")
	}
}

// Module is owned exclusively by exactly one stack.
type Module struct {
	Health  Health
	Details ModuleDetails
}

// NewModule constructs a fresh, Intact module with the given details.
func NewModule(details ModuleDetails) Module {
	return Module{Health: Intact, Details: details}
}

// Mass returns this module's dry mass in whole tonnes, regardless of health
// or cargo contents.
func (m Module) Mass() uint32 {
	return ModuleMass[m.Details.Kind()]
}

// RepairCost is the materials (0.1 t units) needed to bring a Damaged
// module back to Intact.
func (m Module) RepairCost() uint32 {
	return CeilDivU32(m.Mass()*10, RepairFraction)
}

// SalvageYield is the materials (0.1 t units) recovered by salvaging this
// module, regardless of its current health.
func (m Module) SalvageYield() uint32 {
	return CeilDivU32(m.Mass()*10, SalvageFraction)
}

// Clone deep-copies a module's payload so mutating the clone never affects
// the state it was copied from (needed because ModuleDetails embeds
// pointers to the mutable payload structs).
func (m Module) Clone() Module {
	out := m
	switch {
	case m.Details.CargoHold != nil:
		v := *m.Details.CargoHold
		out.Details.CargoHold = &v
	case m.Details.Tank != nil:
		v := *m.Details.Tank
		out.Details.Tank = &v
	case m.Details.Warhead != nil:
		v := *m.Details.Warhead
		out.Details.Warhead = &v
	case m.Details.Habitat != nil:
		v := *m.Details.Habitat
		out.Details.Habitat = &v
	}
	return out
}
