package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solardawn/solar-dawn-server/game"
)

func newStackIds() *game.IdGenerator[game.StackId]   { return game.NewIdGenerator[game.StackId]() }
func newModuleIds() *game.IdGenerator[game.ModuleId] { return game.NewIdGenerator[game.ModuleId]() }

// S1 — a refinery converts pooled water into fuel and the fuel lands back
// in a tank, with the pool netting to exactly zero.
func TestRefineFuelS1(t *testing.T) {
	s := game.NewStack(game.Zero, game.Zero, 1, "refiner")
	s.Modules[0] = game.NewModule(game.RefineryDetails())
	s.Modules[1] = game.NewModule(game.NewTank(10, 0))
	s.Modules[2] = game.NewModule(game.NewTank(0, 0))

	gs := &game.GameState{
		Phase:      game.PhaseLogistics,
		Players:    map[game.PlayerId]string{1: "alice"},
		Celestials: map[game.CelestialId]*game.Celestial{},
		Stacks:     map[game.StackId]*game.Stack{100: s},
	}

	t1 := game.ModuleId(1)
	t2 := game.ModuleId(2)
	orders := map[game.PlayerId][]game.Order{
		1: {
			game.ResourceTransferOrder{Stack: 100, From: &t1, To: game.ToFloatingPool(), Water: 10},
			game.RefineOrder{Stack: 100, Fuel: 5},
			game.ResourceTransferOrder{Stack: 100, To: game.ToModule(t2), Fuel: 5},
		},
	}

	validated, errs := Validate(gs, orders)
	for _, e := range errs[1] {
		assert.Nil(t, e, "S1 orders must all validate cleanly")
	}

	stacks := Apply(gs, validated, newStackIds(), newModuleIds(), fixedRng{})
	out := stacks[100]
	assert.Equal(t, uint8(0), out.Modules[t1].Details.Tank.Water, "T1 water fully drained to the pool")
	assert.Equal(t, uint8(5), out.Modules[t2].Details.Tank.Fuel, "T2 receives the refined fuel")
}

// S2 — one intact miner can supply at most MinerProductionRate units per
// turn; asking for more fails NotEnoughModules.
func TestInsufficientMinerS2(t *testing.T) {
	mining := &game.Celestial{Position: game.Zero, Resources: game.ResourcesMiningBoth}
	s := game.NewStack(game.Zero, game.Zero, 1, "miner")
	s.Modules[0] = game.NewModule(game.MinerDetails())

	gs := &game.GameState{
		Phase:      game.PhaseLogistics,
		Players:    map[game.PlayerId]string{1: "alice"},
		Celestials: map[game.CelestialId]*game.Celestial{1: mining},
		Stacks:     map[game.StackId]*game.Stack{100: s},
	}

	orders := map[game.PlayerId][]game.Order{
		1: {game.IsruOrder{Stack: 100, Ore: 11}},
	}

	_, errs := Validate(gs, orders)
	require.Len(t, errs[1], 1)
	require.NotNil(t, errs[1][0])
	assert.Equal(t, game.ErrNotEnoughModules, errs[1][0].Kind)
}

// S3 — two stacks both rendezvoused with an undefended target both attempt
// to board it in the same turn: both attempts fail ContestedBoarding and
// the target is left untouched.
func TestContestedBoardingS3(t *testing.T) {
	a := game.NewStack(game.Zero, game.Zero, 1, "A")
	a.Modules[0] = game.NewModule(game.Habitat(1))
	b := game.NewStack(game.Zero, game.Zero, 2, "B")
	b.Modules[0] = game.NewModule(game.Habitat(2))
	c := game.NewStack(game.Zero, game.Zero, 3, "C")
	c.Modules[0] = game.NewModule(game.EngineDetails())

	gs := &game.GameState{
		Phase:      game.PhaseLogistics,
		Players:    map[game.PlayerId]string{1: "alice", 2: "bob", 3: "carol"},
		Celestials: map[game.CelestialId]*game.Celestial{},
		Stacks:     map[game.StackId]*game.Stack{10: a, 20: b, 30: c},
	}

	orders := map[game.PlayerId][]game.Order{
		1: {game.BoardOrder{Stack: 10, Target: 30}},
		2: {game.BoardOrder{Stack: 20, Target: 30}},
	}

	validated, errs := Validate(gs, orders)
	require.NotNil(t, errs[1][0])
	require.NotNil(t, errs[2][0])
	assert.Equal(t, game.ErrContestedBoarding, errs[1][0].Kind)
	assert.Equal(t, game.ErrContestedBoarding, errs[2][0].Kind)
	assert.Empty(t, validated[1])
	assert.Empty(t, validated[2])

	stacks := Apply(gs, validated, newStackIds(), newModuleIds(), fixedRng{})
	assert.Len(t, stacks[30].Modules, 1, "C keeps its own module, untouched by the contested boards")
}
