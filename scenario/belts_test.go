package scenario

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solardawn/solar-dawn-server/game"
)

func TestSampleResourceStaysWithinTable(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seenOre, seenWater := false, false
	for i := 0; i < 500; i++ {
		r := sampleResource(rng, asteroidBeltResources)
		switch r {
		case game.ResourcesMiningOre:
			seenOre = true
		case game.ResourcesMiningWater:
			seenWater = true
		case game.ResourcesMiningBoth:
		default:
			t.Fatalf("sampleResource returned an entry outside the table: %v", r)
		}
	}
	assert.True(t, seenOre, "0.8-weight ore entry should dominate 500 draws")
	assert.True(t, seenWater, "small-weight entries should still occasionally hit")
}

func TestGenerateBeltProducesUniqueMiningOnlyPositions(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	numbers := newMinorBodyNumbers(rng, totalMinorBodyNumbers)
	ids := game.NewIdGenerator[game.CelestialId]()
	out := map[game.CelestialId]*game.Celestial{}

	generateBelt(asteroidBelt, rng, numbers, ids, out)

	require := assert.New(t)
	require.NotEmpty(out, "a belt this wide should scatter at least one body")

	seen := map[game.HexVec]bool{}
	for _, c := range out {
		require.False(seen[c.Position], "belt generation must not place two bodies on one hex")
		seen[c.Position] = true
		require.True(c.IsMinor)
		require.False(c.OrbitGravity)
		switch c.Resources {
		case game.ResourcesMiningOre, game.ResourcesMiningBoth, game.ResourcesMiningWater:
		default:
			t.Fatalf("asteroid belt body rolled resource outside its table: %v", c.Resources)
		}
	}
}
