package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solardawn/solar-dawn-server/game"
)

var allOrderKinds = []game.Order{
	game.NameStackOrder{Stack: 1, Name: "Scout"},
	game.ModuleTransferOrder{Stack: 1, Module: 2, To: game.ToExistingStack(3)},
	game.ModuleTransferOrder{Stack: 1, Module: 2, To: game.ToNewStack(7)},
	game.BoardOrder{Stack: 1, Target: 2},
	game.IsruOrder{Stack: 1, Ore: 5, Water: 3, Fuel: 1},
	game.ResourceTransferOrder{Stack: 1, To: game.ToFloatingPool(), Ore: 1, Materials: 2, Water: 3, Fuel: 4},
	game.ResourceTransferOrder{Stack: 1, To: game.ToModule(9), Fuel: 5},
	game.ResourceTransferOrder{Stack: 1, To: game.ToStack(4), Ore: 2},
	game.ResourceTransferOrder{Stack: 1, To: game.ToJettison(), Materials: 1},
	game.RepairOrder{Stack: 1, TargetStack: 2, TargetModule: 3},
	game.RefineOrder{Stack: 1, Materials: 2, Fuel: 3},
	game.BuildOrder{Stack: 1, Module: game.KindGun},
	game.SalvageOrder{Stack: 1, Salvaged: 4},
	game.ShootOrder{Stack: 1, Target: 2, Shots: 6},
	game.ArmOrder{Stack: 1, Warhead: 3, Armed: true},
	game.BurnOrder{Stack: 1, DeltaV: game.HexVec{Q: 1, R: -1}, FuelFrom: []game.FuelDraw{{Module: 2, Amount: 5}}},
	game.OrbitAdjustOrder{Stack: 1, Around: 9, TargetPosition: game.HexVec{Q: 2, R: 0}, Clockwise: true},
	game.LandOrder{Stack: 1, On: 9, FuelFrom: []game.FuelDraw{{Module: 2, Amount: 1}}},
	game.TakeOffOrder{Stack: 1, From: 9, Destination: game.HexVec{Q: 3, R: -3}, Clockwise: false},
}

func TestWireOrderRoundTrip(t *testing.T) {
	for _, want := range allOrderKinds {
		got, err := FromOrder(want).ToOrder()
		require.NoError(t, err)
		assert.Equal(t, want, got, "round trip for %v", want)
	}
}

func TestResourceTransferFromModuleRoundTrip(t *testing.T) {
	from := game.ModuleId(1)
	want := game.ResourceTransferOrder{Stack: 1, From: &from, To: game.ToFloatingPool(), Water: 4}
	got, err := FromOrder(want).ToOrder()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestToOrdersFailsWholeBatchOnUnknownKind(t *testing.T) {
	bad := WireOrder{Kind: orderKind(255)}
	_, err := ToOrders([]WireOrder{FromOrder(allOrderKinds[0]), bad})
	assert.Error(t, err)
}

func TestFromDeltaTrimsErrorsToRecipient(t *testing.T) {
	delta := &game.GameStateDelta{
		Phase:  game.PhaseCombat,
		Turn:   3,
		Stacks: map[game.StackId]*game.Stack{1: game.NewStack(game.Zero, game.Zero, 1, "s")},
		Orders: map[game.PlayerId][]game.Order{1: {allOrderKinds[0]}},
		Errors: map[game.PlayerId][]*game.OrderError{
			1: {game.NewError(game.ErrWrongPhase)},
			2: {game.NewError(game.ErrBadOwnership)},
		},
	}

	wire := FromDelta(delta, 1)
	require.Len(t, wire.Errors, 1)
	assert.Equal(t, game.ErrWrongPhase, wire.Errors[0].Kind)
	assert.Equal(t, uint64(3), wire.Turn)
	require.Len(t, wire.Orders[1], 1)
}
