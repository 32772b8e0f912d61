package game

import "fmt"

// OrderErrorKind is the closed taxonomy of reasons an order can fail
// validation. It is never used to signal an engine bug — those
// are panics.
type OrderErrorKind int

const (
	// Reference errors.
	ErrInvalidStackId OrderErrorKind = iota
	ErrInvalidModuleId
	ErrInvalidCelestialId
	ErrInvalidModuleType
	ErrBadOwnership

	// Precondition errors.
	ErrWrongPhase
	ErrNotRendezvoused
	ErrNotInOrbit
	ErrNotLanded
	ErrNotLandable
	ErrNotInEarthOrbit
	ErrNotDamaged
	ErrNoLineOfSight
	ErrNoResourceAccess
	ErrHabOnStack
	ErrNoHab
	ErrBurnWhileLanded
	ErrDestinationTooFar
	ErrInvalidTarget
	ErrInvalidTransfer

	// Resource/capacity errors.
	ErrNotEnoughResources
	ErrNotEnoughCapacity
	ErrNotEnoughThrust
	ErrIncorrectPropellantMass

	// Aggregate errors.
	ErrMultipleNamingOrders
	ErrTooBusyToBoard
	ErrContestedBoarding
	ErrBoarded
	ErrModuleTransferConflict
	ErrNewStackStateConflict
	ErrNotEnoughModules
	ErrResourcePoolResidual
	ErrMultipleMoves
)

var orderErrorNames = map[OrderErrorKind]string{
	ErrInvalidStackId:          "InvalidStackId",
	ErrInvalidModuleId:         "InvalidModuleId",
	ErrInvalidCelestialId:      "InvalidCelestialId",
	ErrInvalidModuleType:       "InvalidModuleType",
	ErrBadOwnership:            "BadOwnership",
	ErrWrongPhase:              "WrongPhase",
	ErrNotRendezvoused:         "NotRendezvoused",
	ErrNotInOrbit:              "NotInOrbit",
	ErrNotLanded:               "NotLanded",
	ErrNotLandable:             "NotLandable",
	ErrNotInEarthOrbit:         "NotInEarthOrbit",
	ErrNotDamaged:              "NotDamaged",
	ErrNoLineOfSight:           "NoLineOfSight",
	ErrNoResourceAccess:        "NoResourceAccess",
	ErrHabOnStack:              "HabOnStack",
	ErrNoHab:                   "NoHab",
	ErrBurnWhileLanded:         "BurnWhileLanded",
	ErrDestinationTooFar:       "DestinationTooFar",
	ErrInvalidTarget:           "InvalidTarget",
	ErrInvalidTransfer:         "InvalidTransfer",
	ErrNotEnoughResources:      "NotEnoughResources",
	ErrNotEnoughCapacity:       "NotEnoughCapacity",
	ErrNotEnoughThrust:         "NotEnoughThrust",
	ErrIncorrectPropellantMass: "IncorrectPropellantMass",
	ErrMultipleNamingOrders:    "MultipleNamingOrders",
	ErrTooBusyToBoard:          "TooBusyToBoard",
	ErrContestedBoarding:       "ContestedBoarding",
	ErrBoarded:                 "Boarded",
	ErrModuleTransferConflict:  "ModuleTransferConflict",
	ErrNewStackStateConflict:   "NewStackStateConflict",
	ErrNotEnoughModules:        "NotEnoughModules",
	ErrResourcePoolResidual:    "ResourcePoolResidual",
	ErrMultipleMoves:           "MultipleMoves",
}

func (k OrderErrorKind) String() string {
	if name, ok := orderErrorNames[k]; ok {
		return name
	}
	return "Unknown"
}

// OrderError reports why one order failed validation. Stack/Module/Other are
// populated only for the kinds that carry a payload (e.g.
// NotEnoughResources(s,m), ResourcePoolResidual(stack),
// NotRendezvoused(stack,other)); zero values otherwise.
type OrderError struct {
	Kind   OrderErrorKind
	Stack  *StackId
	Module *ModuleId
	Other  *StackId
}

func (e *OrderError) Error() string {
	switch {
	case e.Stack != nil && e.Module != nil:
		return fmt.Sprintf("%s(stack=%d, module=%d)", e.Kind, *e.Stack, *e.Module)
	case e.Stack != nil && e.Other != nil:
		return fmt.Sprintf("%s(stack=%d, other=%d)", e.Kind, *e.Stack, *e.Other)
	case e.Stack != nil:
		return fmt.Sprintf("%s(stack=%d)", e.Kind, *e.Stack)
	default:
		return e.Kind.String()
	}
}

// Is reports equality by kind and payload, the comparison tests use.
func (e *OrderError) Is(other *OrderError) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	if (e.Stack == nil) != (other.Stack == nil) {
		return false
	}
	if e.Stack != nil && *e.Stack != *other.Stack {
		return false
	}
	if (e.Module == nil) != (other.Module == nil) {
		return false
	}
	if e.Module != nil && *e.Module != *other.Module {
		return false
	}
	if (e.Other == nil) != (other.Other == nil) {
		return false
	}
	if e.Other != nil && *e.Other != *other.Other {
		return false
	}
	return true
}

// NewError builds a payload-free OrderError.
func NewError(kind OrderErrorKind) *OrderError { return &OrderError{Kind: kind} }

// NewStackError builds an OrderError carrying a stack id payload.
func NewStackError(kind OrderErrorKind, stack StackId) *OrderError {
	return &OrderError{Kind: kind, Stack: &stack}
}

// NewStackModuleError builds an OrderError carrying (stack, module) payload.
func NewStackModuleError(kind OrderErrorKind, stack StackId, module ModuleId) *OrderError {
	return &OrderError{Kind: kind, Stack: &stack, Module: &module}
}

// NewStackPairError builds an OrderError carrying (stack, other) payload,
// for errors about a relationship between two stacks (e.g. NotRendezvoused).
func NewStackPairError(kind OrderErrorKind, stack, other StackId) *OrderError {
	return &OrderError{Kind: kind, Stack: &stack, Other: &other}
}
