package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solardawn/solar-dawn-server/game"
)

// fixedRng never draws randomly; DoDamage's module pick and armour-plate
// scan are order-independent enough for a single-module victim that this
// still exercises the real damage path deterministically.
type fixedRng struct{}

func (fixedRng) IntN(n int) int      { return 0 }
func (fixedRng) Float64() float64    { return 0 }

func habitatStack(owner game.PlayerId, pos, vel game.HexVec) *game.Stack {
	s := game.NewStack(pos, vel, owner, "hab")
	s.Modules[0] = game.NewModule(game.Habitat(owner))
	return s
}

// S6 — a warhead-armed missile at (0,0) moving (1,0) detonates against an
// enemy stack parked at (1,0): the missile is removed and the victim takes
// ceil(len(modules)/WARHEAD_DAMAGE_FRACTION) damage events.
func TestWarheadDetonationS6(t *testing.T) {
	gs := &game.GameState{Phase: game.PhaseMovement, Celestials: map[game.CelestialId]*game.Celestial{}}

	w := game.NewStack(game.HexVec{Q: 0, R: 0}, game.HexVec{Q: 1, R: 0}, 1, "W")
	w.Modules[0] = game.NewModule(game.Warhead(true))

	v := habitatStack(2, game.HexVec{Q: 1, R: 0}, game.Zero)
	v.Modules[1] = game.NewModule(game.ArmourPlateDetails())

	stacks := map[game.StackId]*game.Stack{10: w, 20: v}

	out := RunStateBasedEffects(gs, stacks, fixedRng{})

	_, missileSurvived := out[10]
	assert.False(t, missileSurvived, "detonated missile must be removed")

	victim, ok := out[20]
	require.True(t, ok, "victim stack must survive (only 1 hit, 2 modules)")

	wantHits := game.CeilDivU32(uint32(len(v.Modules)), game.WarheadDamageFraction)
	damagedCount := 0
	for _, m := range victim.Modules {
		if m.Health != game.Intact {
			damagedCount++
		}
	}
	assert.Equal(t, int(wantHits), damagedCount, "exactly the computed hit count should have escalated a module")
}

func TestCollisionRemovesStackOnSolidBody(t *testing.T) {
	sun := &game.Celestial{Position: game.Zero, OrbitGravity: true, Radius: 2.0}
	gs := &game.GameState{Phase: game.PhaseMovement, Celestials: map[game.CelestialId]*game.Celestial{1: sun}}

	doomed := game.NewStack(game.HexVec{Q: -5, R: 0}, game.HexVec{Q: 10, R: 0}, 1, "doomed")
	doomed.Modules[0] = game.NewModule(game.EngineDetails())

	stacks := map[game.StackId]*game.Stack{1: doomed}
	out := RunStateBasedEffects(gs, stacks, fixedRng{})

	assert.Empty(t, out, "a stack whose movement segment crosses a gravity body's disk must be destroyed")
}

func TestPositionAdvanceOnlyDuringMovement(t *testing.T) {
	gs := &game.GameState{Phase: game.PhaseCombat, Celestials: map[game.CelestialId]*game.Celestial{}}
	s := game.NewStack(game.HexVec{Q: 3, R: 3}, game.HexVec{Q: 1, R: 0}, 1, "s")
	s.Modules[0] = game.NewModule(game.EngineDetails())

	out := RunStateBasedEffects(gs, map[game.StackId]*game.Stack{1: s}, fixedRng{})
	assert.Equal(t, game.HexVec{Q: 3, R: 3}, out[1].Position, "position must not advance outside Movement")
}

func TestHabitatOwnershipReassignmentDisarmsWarheads(t *testing.T) {
	gs := &game.GameState{Phase: game.PhaseLogistics, Celestials: map[game.CelestialId]*game.Celestial{}}

	s := game.NewStack(game.Zero, game.Zero, 1, "captured")
	s.Modules[5] = game.NewModule(game.Habitat(2))
	s.Modules[1] = game.NewModule(game.Warhead(true))

	out := RunStateBasedEffects(gs, map[game.StackId]*game.Stack{1: s}, fixedRng{})
	got := out[1]
	assert.Equal(t, game.PlayerId(2), got.Owner)
	assert.False(t, got.Modules[1].Details.Warhead.Armed, "a stack under habitat control must have no armed warheads")
}

func TestStrandedWarheadsDisarmed(t *testing.T) {
	gs := &game.GameState{Phase: game.PhaseLogistics, Celestials: map[game.CelestialId]*game.Celestial{}}

	s := game.NewStack(game.Zero, game.Zero, 1, "stranded")
	s.Modules[0] = game.Module{Health: game.Destroyed, Details: game.Habitat(1)}
	s.Modules[1] = game.Module{Health: game.Damaged, Details: game.Warhead(true)}

	out := RunStateBasedEffects(gs, map[game.StackId]*game.Stack{1: s}, fixedRng{})
	assert.False(t, out[1].Modules[1].Details.Warhead.Armed)
}

func TestEmptyStacksRemoved(t *testing.T) {
	gs := &game.GameState{Phase: game.PhaseLogistics, Celestials: map[game.CelestialId]*game.Celestial{}}
	empty := game.NewStack(game.Zero, game.Zero, 1, "empty")
	out := RunStateBasedEffects(gs, map[game.StackId]*game.Stack{1: empty}, fixedRng{})
	assert.Empty(t, out)
}
