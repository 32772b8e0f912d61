// Package transport carries game state and orders across the wire and to
// disk: a websocket frame protocol on top of CBOR, and a compressed CBOR
// save file.
package transport

import (
	"fmt"

	"github.com/solardawn/solar-dawn-server/game"
)

// orderKind discriminates the flattened wire encoding of game.Order. CBOR
// has no native support for marshalling a Go interface polymorphically, so
// every variant's payload is folded into one envelope struct instead of
// registering per-type decoders.
type orderKind uint8

const (
	kindNameStack orderKind = iota
	kindModuleTransfer
	kindBoard
	kindIsru
	kindResourceTransfer
	kindRepair
	kindRefine
	kindBuild
	kindSalvage
	kindShoot
	kindArm
	kindBurn
	kindOrbitAdjust
	kindLand
	kindTakeOff
)

// wireModuleTransferTarget is the flattened form of game.ModuleTransferTarget.
type wireModuleTransferTarget struct {
	ExistingStack *game.StackId `cbor:"1,keyasint,omitempty"`
	NewStackTag   *uint32       `cbor:"2,keyasint,omitempty"`
}

func fromModuleTransferTarget(t game.ModuleTransferTarget) wireModuleTransferTarget {
	return wireModuleTransferTarget{ExistingStack: t.ExistingStack, NewStackTag: t.NewStackTag}
}

func (t wireModuleTransferTarget) toTarget() game.ModuleTransferTarget {
	return game.ModuleTransferTarget{ExistingStack: t.ExistingStack, NewStackTag: t.NewStackTag}
}

// wireResourceTransferTarget is the flattened form of game.ResourceTransferTarget.
type wireResourceTransferTarget struct {
	FloatingPool bool           `cbor:"1,keyasint,omitempty"`
	Jettison     bool           `cbor:"2,keyasint,omitempty"`
	Module       *game.ModuleId `cbor:"3,keyasint,omitempty"`
	Stack        *game.StackId  `cbor:"4,keyasint,omitempty"`
}

func fromResourceTransferTarget(t game.ResourceTransferTarget) wireResourceTransferTarget {
	return wireResourceTransferTarget{
		FloatingPool: t.FloatingPool,
		Jettison:     t.Jettison,
		Module:       t.Module,
		Stack:        t.Stack,
	}
}

func (t wireResourceTransferTarget) toTarget() game.ResourceTransferTarget {
	return game.ResourceTransferTarget{
		FloatingPool: t.FloatingPool,
		Jettison:     t.Jettison,
		Module:       t.Module,
		Stack:        t.Stack,
	}
}

// WireOrder is the on-the-wire form of game.Order: every variant's fields,
// present or zero depending on Kind. Build one with FromOrder, recover the
// concrete game.Order with ToOrder.
type WireOrder struct {
	Kind orderKind `cbor:"0,keyasint"`

	Stack  game.StackId  `cbor:"1,keyasint,omitempty"`
	Module game.ModuleId `cbor:"2,keyasint,omitempty"`
	Target game.StackId  `cbor:"3,keyasint,omitempty"`

	Name string `cbor:"4,keyasint,omitempty"`

	TransferTo wireModuleTransferTarget `cbor:"5,keyasint,omitempty"`

	Ore       uint32 `cbor:"6,keyasint,omitempty"`
	Water     uint32 `cbor:"7,keyasint,omitempty"`
	Fuel      uint32 `cbor:"8,keyasint,omitempty"`
	Materials uint32 `cbor:"9,keyasint,omitempty"`

	From       *game.ModuleId             `cbor:"10,keyasint,omitempty"`
	ResourceTo wireResourceTransferTarget `cbor:"11,keyasint,omitempty"`

	TargetStack  game.StackId  `cbor:"12,keyasint,omitempty"`
	TargetModule game.ModuleId `cbor:"13,keyasint,omitempty"`

	ModuleKind game.ModuleKind `cbor:"14,keyasint,omitempty"`
	Salvaged   game.ModuleId   `cbor:"15,keyasint,omitempty"`

	Shots uint32 `cbor:"16,keyasint,omitempty"`
	Armed bool   `cbor:"17,keyasint,omitempty"`

	DeltaV       game.HexVec      `cbor:"18,keyasint,omitempty"`
	FuelFrom     []game.FuelDraw  `cbor:"19,keyasint,omitempty"`
	Around       game.CelestialId `cbor:"20,keyasint,omitempty"`
	TargetPos    game.HexVec      `cbor:"21,keyasint,omitempty"`
	Clockwise    bool             `cbor:"22,keyasint,omitempty"`
	On           game.CelestialId `cbor:"23,keyasint,omitempty"`
	TakeoffFrom  game.CelestialId `cbor:"24,keyasint,omitempty"`
	Dest         game.HexVec      `cbor:"25,keyasint,omitempty"`
}

// FromOrder flattens a concrete game.Order into its wire form.
func FromOrder(o game.Order) WireOrder {
	switch v := o.(type) {
	case game.NameStackOrder:
		return WireOrder{Kind: kindNameStack, Stack: v.Stack, Name: v.Name}
	case game.ModuleTransferOrder:
		return WireOrder{Kind: kindModuleTransfer, Stack: v.Stack, Module: v.Module, TransferTo: fromModuleTransferTarget(v.To)}
	case game.BoardOrder:
		return WireOrder{Kind: kindBoard, Stack: v.Stack, Target: v.Target}
	case game.IsruOrder:
		return WireOrder{Kind: kindIsru, Stack: v.Stack, Ore: v.Ore, Water: v.Water, Fuel: v.Fuel}
	case game.ResourceTransferOrder:
		return WireOrder{
			Kind: kindResourceTransfer, Stack: v.Stack, From: v.From, ResourceTo: fromResourceTransferTarget(v.To),
			Ore: uint32(v.Ore), Materials: uint32(v.Materials), Water: uint32(v.Water), Fuel: uint32(v.Fuel),
		}
	case game.RepairOrder:
		return WireOrder{Kind: kindRepair, Stack: v.Stack, TargetStack: v.TargetStack, TargetModule: v.TargetModule}
	case game.RefineOrder:
		return WireOrder{Kind: kindRefine, Stack: v.Stack, Materials: uint32(v.Materials), Fuel: uint32(v.Fuel)}
	case game.BuildOrder:
		return WireOrder{Kind: kindBuild, Stack: v.Stack, ModuleKind: v.Module}
	case game.SalvageOrder:
		return WireOrder{Kind: kindSalvage, Stack: v.Stack, Salvaged: v.Salvaged}
	case game.ShootOrder:
		return WireOrder{Kind: kindShoot, Stack: v.Stack, Target: v.Target, Shots: v.Shots}
	case game.ArmOrder:
		return WireOrder{Kind: kindArm, Stack: v.Stack, Module: v.Warhead, Armed: v.Armed}
	case game.BurnOrder:
		return WireOrder{Kind: kindBurn, Stack: v.Stack, DeltaV: v.DeltaV, FuelFrom: v.FuelFrom}
	case game.OrbitAdjustOrder:
		return WireOrder{
			Kind: kindOrbitAdjust, Stack: v.Stack, Around: v.Around, TargetPos: v.TargetPosition,
			Clockwise: v.Clockwise, FuelFrom: v.FuelFrom,
		}
	case game.LandOrder:
		return WireOrder{Kind: kindLand, Stack: v.Stack, On: v.On, FuelFrom: v.FuelFrom}
	case game.TakeOffOrder:
		return WireOrder{
			Kind: kindTakeOff, Stack: v.Stack, TakeoffFrom: v.From, Dest: v.Destination,
			Clockwise: v.Clockwise, FuelFrom: v.FuelFrom,
		}
	default:
		panic(fmt.Sprintf("transport: unknown order type %T", o))
	}
}

// ToOrder recovers the concrete game.Order a WireOrder was built from.
func (w WireOrder) ToOrder() (game.Order, error) {
	switch w.Kind {
	case kindNameStack:
		return game.NameStackOrder{Stack: w.Stack, Name: w.Name}, nil
	case kindModuleTransfer:
		return game.ModuleTransferOrder{Stack: w.Stack, Module: w.Module, To: w.TransferTo.toTarget()}, nil
	case kindBoard:
		return game.BoardOrder{Stack: w.Stack, Target: w.Target}, nil
	case kindIsru:
		return game.IsruOrder{Stack: w.Stack, Ore: w.Ore, Water: w.Water, Fuel: w.Fuel}, nil
	case kindResourceTransfer:
		return game.ResourceTransferOrder{
			Stack: w.Stack, From: w.From, To: w.ResourceTo.toTarget(),
			Ore: uint8(w.Ore), Materials: uint8(w.Materials), Water: uint8(w.Water), Fuel: uint8(w.Fuel),
		}, nil
	case kindRepair:
		return game.RepairOrder{Stack: w.Stack, TargetStack: w.TargetStack, TargetModule: w.TargetModule}, nil
	case kindRefine:
		return game.RefineOrder{Stack: w.Stack, Materials: uint8(w.Materials), Fuel: uint8(w.Fuel)}, nil
	case kindBuild:
		return game.BuildOrder{Stack: w.Stack, Module: w.ModuleKind}, nil
	case kindSalvage:
		return game.SalvageOrder{Stack: w.Stack, Salvaged: w.Salvaged}, nil
	case kindShoot:
		return game.ShootOrder{Stack: w.Stack, Target: w.Target, Shots: w.Shots}, nil
	case kindArm:
		return game.ArmOrder{Stack: w.Stack, Warhead: w.Module, Armed: w.Armed}, nil
	case kindBurn:
		return game.BurnOrder{Stack: w.Stack, DeltaV: w.DeltaV, FuelFrom: w.FuelFrom}, nil
	case kindOrbitAdjust:
		return game.OrbitAdjustOrder{
			Stack: w.Stack, Around: w.Around, TargetPosition: w.TargetPos,
			Clockwise: w.Clockwise, FuelFrom: w.FuelFrom,
		}, nil
	case kindLand:
		return game.LandOrder{Stack: w.Stack, On: w.On, FuelFrom: w.FuelFrom}, nil
	case kindTakeOff:
		return game.TakeOffOrder{
			Stack: w.Stack, From: w.TakeoffFrom, Destination: w.Dest,
			Clockwise: w.Clockwise, FuelFrom: w.FuelFrom,
		}, nil
	default:
		return nil, fmt.Errorf("transport: unknown wire order kind %d", w.Kind)
	}
}

// FromOrders flattens an order batch for upload.
func FromOrders(orders []game.Order) []WireOrder {
	out := make([]WireOrder, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}

// ToOrders recovers an order batch, failing the whole batch on the first
// malformed entry (a frame that doesn't even parse is dropped, not
// partially applied).
func ToOrders(wire []WireOrder) ([]game.Order, error) {
	out := make([]game.Order, len(wire))
	for i, w := range wire {
		o, err := w.ToOrder()
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// WireDelta is the on-the-wire form of game.GameStateDelta: Orders is
// flattened the same way a single upload frame is, and Errors is already
// trimmed down to one recipient's own errors by FromDelta before encoding.
type WireDelta struct {
	Phase  game.Phase                    `cbor:"0,keyasint"`
	Turn   uint64                        `cbor:"1,keyasint"`
	Stacks map[game.StackId]*game.Stack  `cbor:"2,keyasint"`
	Orders map[game.PlayerId][]WireOrder `cbor:"3,keyasint"`
	Errors []*game.OrderError            `cbor:"4,keyasint,omitempty"`
}

// FromDelta builds the frame sent to one player: the full resolved state
// plus only that player's own rejected orders, so a connection never sees
// another player's order errors.
func FromDelta(delta *game.GameStateDelta, recipient game.PlayerId) WireDelta {
	orders := make(map[game.PlayerId][]WireOrder, len(delta.Orders))
	for p, os := range delta.Orders {
		orders[p] = FromOrders(os)
	}
	return WireDelta{
		Phase:  delta.Phase,
		Turn:   delta.Turn,
		Stacks: delta.Stacks,
		Orders: orders,
		Errors: delta.Errors[recipient],
	}
}
