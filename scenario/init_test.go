package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solardawn/solar-dawn-server/game"
)

func TestGenerateBalancedIsDeterministic(t *testing.T) {
	players := map[game.PlayerId]string{1: "alice", 2: "bob", 3: "carol"}

	gs1, _, _, _ := GenerateBalanced(7, players)
	gs2, _, _, _ := GenerateBalanced(7, players)

	assert.Equal(t, len(gs1.Celestials), len(gs2.Celestials), "same seed must scatter the same belts")
	assert.Equal(t, gs1.Celestials[gs1.Earth].Position, gs2.Celestials[gs2.Earth].Position)
}

func TestGenerateBalancedSeatsOnePlayerPerEarthSlot(t *testing.T) {
	players := map[game.PlayerId]string{1: "alice", 2: "bob", 5: "carol"}
	gs, _, _, _ := GenerateBalanced(1, players)

	require.NotZero(t, gs.Earth)
	earth, ok := gs.Celestials[gs.Earth]
	require.True(t, ok)
	assert.Equal(t, "Earth", earth.Name)

	require.Len(t, gs.Stacks, len(players))

	owners := map[game.PlayerId]bool{}
	seen := map[game.HexVec]bool{}
	for _, s := range gs.Stacks {
		owners[s.Owner] = true
		assert.False(t, seen[s.Position], "each starter stack must occupy a distinct orbital slot")
		seen[s.Position] = true
		assert.True(t, s.Orbiting(earth), "starter stacks must begin in an orbital slot around Earth")

		habitats, engines := 0, 0
		for _, m := range s.Modules {
			if m.Details.Habitat != nil {
				habitats++
			}
			if m.Details.Engine != nil {
				engines++
			}
		}
		assert.Equal(t, 2, habitats, "a starter stack must survive losing one habitat")
		assert.Equal(t, 4, engines)
	}
	for p := range players {
		assert.True(t, owners[p], "every player must receive a starter stack")
	}
}

func TestGenerateBalancedTruncatesBeyondSixPlayers(t *testing.T) {
	players := map[game.PlayerId]string{1: "a", 2: "b", 3: "c", 4: "d", 5: "e", 6: "f", 7: "g"}
	gs, _, _, _ := GenerateBalanced(1, players)
	assert.Len(t, gs.Stacks, 6, "only six distinct Earth orbital slots exist")
}
