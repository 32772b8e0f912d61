package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solardawn/solar-dawn-server/game"
)

func TestHexVecCartesianRoundTrip(t *testing.T) {
	for q := int32(-1000); q <= 1000; q += 97 {
		for r := int32(-1000); r <= 1000; r += 101 {
			v := game.HexVec{Q: q, R: r}
			c := v.Cartesian()
			got := game.FromCartesian(c.X, c.Y)
			assert.Equal(t, v, got, "round trip for q=%d r=%d", q, r)
		}
	}
}

func TestHexVecNeighboursAreMutual(t *testing.T) {
	origin := game.Zero
	for _, n := range origin.Neighbours() {
		assert.True(t, n.IsNeighbourOf(origin))
		assert.True(t, origin.IsNeighbourOf(n))
		assert.Equal(t, int32(1), game.Distance(origin, n))
	}
}

func TestHexVecNorm(t *testing.T) {
	assert.Equal(t, int32(0), game.Zero.Norm())
	assert.Equal(t, int32(1), game.UnitUp.Norm())
	assert.Equal(t, int32(2), game.UnitUp.Add(game.UnitUp).Norm())
	assert.Equal(t, int32(3), game.HexVec{Q: 2, R: 1}.Norm())
}
