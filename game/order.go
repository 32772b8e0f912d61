package game

import "fmt"

// Order is the closed set of commands a player may submit. Each concrete
// type below is the whole of one tagged-union variant; Phase() reports
// which turn phase accepts it (NameStack is accepted in every phase).
type Order interface {
	// Phase reports which phase this order is legal in, or phaseAny for
	// orders legal in every phase.
	Phase() (p Phase, any bool)
	// OrderStack returns the stack id this order is issued on behalf of.
	OrderStack() StackId
	fmt.Stringer
}

// ModuleTransferTarget is where a ModuleTransfer order sends its module:
// either an existing stack the player owns, or a new stack identified by a
// small per-player tag n (all transfers sharing a tag this phase must
// originate from stacks sharing one (position, velocity), and they coalesce
// into a single freshly minted stack).
type ModuleTransferTarget struct {
	ExistingStack *StackId
	NewStackTag   *uint32
}

func ToExistingStack(id StackId) ModuleTransferTarget { return ModuleTransferTarget{ExistingStack: &id} }
func ToNewStack(tag uint32) ModuleTransferTarget       { return ModuleTransferTarget{NewStackTag: &tag} }

// ResourceTransferTarget is where a ResourceTransfer order sends resources.
type ResourceTransferTarget struct {
	FloatingPool bool
	Jettison     bool
	Module       *ModuleId
	Stack        *StackId
}

func ToFloatingPool() ResourceTransferTarget    { return ResourceTransferTarget{FloatingPool: true} }
func ToJettison() ResourceTransferTarget        { return ResourceTransferTarget{Jettison: true} }
func ToModule(id ModuleId) ResourceTransferTarget { return ResourceTransferTarget{Module: &id} }
func ToStack(id StackId) ResourceTransferTarget   { return ResourceTransferTarget{Stack: &id} }

// phaseAny marks an order legal in every phase (only NameStack).
func phaseAny() (Phase, bool) { return 0, true }

// ---- Logistics-or-anytime ----

// NameStackOrder renames a stack. Always legal, in any phase.
type NameStackOrder struct {
	Stack StackId
	Name  string
}

func (o NameStackOrder) Phase() (Phase, bool) { return phaseAny() }
func (o NameStackOrder) OrderStack() StackId  { return o.Stack }
func (o NameStackOrder) String() string       { return fmt.Sprintf("NameStack(%d -> %q)", o.Stack, o.Name) }

// ---- Logistics orders ----

// ModuleTransferOrder moves one module to another (possibly new) stack.
type ModuleTransferOrder struct {
	Stack  StackId
	Module ModuleId
	To     ModuleTransferTarget
}

func (o ModuleTransferOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o ModuleTransferOrder) OrderStack() StackId  { return o.Stack }
func (o ModuleTransferOrder) String() string {
	return fmt.Sprintf("ModuleTransfer(%d: module %d)", o.Stack, o.Module)
}

// BoardOrder forcibly docks the issuing stack to the target, interrupting
// any other logistics orders the target gave this phase.
type BoardOrder struct {
	Stack  StackId
	Target StackId
}

func (o BoardOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o BoardOrder) OrderStack() StackId  { return o.Stack }
func (o BoardOrder) String() string       { return fmt.Sprintf("Board(%d -> %d)", o.Stack, o.Target) }

// IsruOrder activates miners/skimmers, adding to the floating pool.
type IsruOrder struct {
	Stack StackId
	Ore   uint32
	Water uint32
	Fuel  uint32
}

func (o IsruOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o IsruOrder) OrderStack() StackId  { return o.Stack }
func (o IsruOrder) String() string {
	return fmt.Sprintf("Isru(%d: ore=%d water=%d fuel=%d)", o.Stack, o.Ore, o.Water, o.Fuel)
}

// ResourceTransferOrder moves resources between the floating pool, a
// module, a stack, or jettison.
type ResourceTransferOrder struct {
	Stack     StackId
	From      *ModuleId // nil means the floating pool
	To        ResourceTransferTarget
	Ore       uint8
	Materials uint8
	Water     uint8
	Fuel      uint8
}

func (o ResourceTransferOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o ResourceTransferOrder) OrderStack() StackId  { return o.Stack }
func (o ResourceTransferOrder) String() string {
	return fmt.Sprintf("ResourceTransfer(%d: ore=%d materials=%d water=%d fuel=%d)",
		o.Stack, o.Ore, o.Materials, o.Water, o.Fuel)
}

// RepairOrder repairs a Damaged module on target_stack, using materials
// from the issuing stack's pool; requires a Habitat or Factory.
type RepairOrder struct {
	Stack        StackId
	TargetStack  StackId
	TargetModule ModuleId
}

func (o RepairOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o RepairOrder) OrderStack() StackId  { return o.Stack }
func (o RepairOrder) String() string {
	return fmt.Sprintf("Repair(%d: stack %d module %d)", o.Stack, o.TargetStack, o.TargetModule)
}

// RefineOrder converts ore/water into materials/fuel at a refinery.
type RefineOrder struct {
	Stack     StackId
	Materials uint8
	Fuel      uint8
}

func (o RefineOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o RefineOrder) OrderStack() StackId  { return o.Stack }
func (o RefineOrder) String() string {
	return fmt.Sprintf("Refine(%d: materials=%d fuel=%d)", o.Stack, o.Materials, o.Fuel)
}

// BuildOrder constructs a new module from materials, at a factory.
type BuildOrder struct {
	Stack  StackId
	Module ModuleKind
}

func (o BuildOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o BuildOrder) OrderStack() StackId  { return o.Stack }
func (o BuildOrder) String() string       { return fmt.Sprintf("Build(%d: %v)", o.Stack, o.Module) }

// SalvageOrder breaks down a module of any health for half its build cost
// in materials, at a factory.
type SalvageOrder struct {
	Stack    StackId
	Salvaged ModuleId
}

func (o SalvageOrder) Phase() (Phase, bool) { return PhaseLogistics, false }
func (o SalvageOrder) OrderStack() StackId  { return o.Stack }
func (o SalvageOrder) String() string       { return fmt.Sprintf("Salvage(%d: module %d)", o.Stack, o.Salvaged) }

// ---- Combat orders ----

// ShootOrder fires a number of shots from this stack's guns at a target.
type ShootOrder struct {
	Stack  StackId
	Target StackId
	Shots  uint32
}

func (o ShootOrder) Phase() (Phase, bool) { return PhaseCombat, false }
func (o ShootOrder) OrderStack() StackId  { return o.Stack }
func (o ShootOrder) String() string {
	return fmt.Sprintf("Shoot(%d -> %d x%d)", o.Stack, o.Target, o.Shots)
}

// ArmOrder arms or disarms a warhead module.
type ArmOrder struct {
	Stack   StackId
	Warhead ModuleId
	Armed   bool
}

func (o ArmOrder) Phase() (Phase, bool) { return PhaseCombat, false }
func (o ArmOrder) OrderStack() StackId  { return o.Stack }
func (o ArmOrder) String() string {
	return fmt.Sprintf("Arm(%d: module %d armed=%v)", o.Stack, o.Warhead, o.Armed)
}

// ---- Movement orders ----

// FuelDraw names a tank and the amount of fuel (0.1 t units) to burn from it.
type FuelDraw struct {
	Module ModuleId
	Amount uint8
}

// BurnOrder adds delta_v to the stack's velocity, burning the named fuel.
type BurnOrder struct {
	Stack    StackId
	DeltaV   HexVec
	FuelFrom []FuelDraw
}

func (o BurnOrder) Phase() (Phase, bool) { return PhaseMovement, false }
func (o BurnOrder) OrderStack() StackId  { return o.Stack }
func (o BurnOrder) String() string       { return fmt.Sprintf("Burn(%d: dv=%v)", o.Stack, o.DeltaV) }

// OrbitAdjustOrder moves a stack from one orbital slot to another around the
// same gravity body.
type OrbitAdjustOrder struct {
	Stack          StackId
	Around         CelestialId
	TargetPosition HexVec
	Clockwise      bool
	FuelFrom       []FuelDraw
}

func (o OrbitAdjustOrder) Phase() (Phase, bool) { return PhaseMovement, false }
func (o OrbitAdjustOrder) OrderStack() StackId  { return o.Stack }
func (o OrbitAdjustOrder) String() string {
	return fmt.Sprintf("OrbitAdjust(%d around %d -> %v)", o.Stack, o.Around, o.TargetPosition)
}

// LandOrder snaps an orbiting stack down onto a landable celestial.
type LandOrder struct {
	Stack    StackId
	On       CelestialId
	FuelFrom []FuelDraw
}

func (o LandOrder) Phase() (Phase, bool) { return PhaseMovement, false }
func (o LandOrder) OrderStack() StackId  { return o.Stack }
func (o LandOrder) String() string       { return fmt.Sprintf("Land(%d on %d)", o.Stack, o.On) }

// TakeOffOrder is the inverse of Land: lifts off into an orbital slot.
type TakeOffOrder struct {
	Stack       StackId
	From        CelestialId
	Destination HexVec
	Clockwise   bool
	FuelFrom    []FuelDraw
}

func (o TakeOffOrder) Phase() (Phase, bool) { return PhaseMovement, false }
func (o TakeOffOrder) OrderStack() StackId  { return o.Stack }
func (o TakeOffOrder) String() string {
	return fmt.Sprintf("TakeOff(%d from %d -> %v)", o.Stack, o.From, o.Destination)
}
