package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/solardawn/solar-dawn-server/game"
)

// weightedResource is one entry in a belt's resource-mix table.
type weightedResource struct {
	weight    float64
	resources game.Resources
}

var asteroidBeltResources = []weightedResource{
	{0.8, game.ResourcesMiningOre},
	{0.1, game.ResourcesMiningBoth},
	{0.1, game.ResourcesMiningWater},
}

var kuiperBeltResources = []weightedResource{
	{0.9, game.ResourcesMiningWater},
	{0.05, game.ResourcesMiningBoth},
	{0.05, game.ResourcesMiningOre},
}

// beltRing is one annulus of minor bodies: a radius range (in hexes from
// the sun), an angular candidate-scan density, and the resource mix its
// bodies are drawn from.
type beltRing struct {
	namePrefix string
	start, end int32
	angleSteps float64
	resources  []weightedResource
}

var asteroidBelt = beltRing{namePrefix: "MBO", start: 21, end: 32, angleSteps: 201, resources: asteroidBeltResources}
var kuiperBelt = beltRing{namePrefix: "KBO", start: 395, end: 487, angleSteps: 3047, resources: kuiperBeltResources}

// minorBodyNumbers hands out a shuffled permutation of catalogue numbers so
// minor bodies get realistic-looking, non-sequential designations.
type minorBodyNumbers struct {
	pool []uint32
	next int
}

func newMinorBodyNumbers(rng *rand.Rand, max uint32) *minorBodyNumbers {
	pool := make([]uint32, max)
	for i := range pool {
		pool[i] = uint32(i) + 1
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return &minorBodyNumbers{pool: pool, next: len(pool) - 1}
}

func (m *minorBodyNumbers) take() uint32 {
	n := m.pool[m.next]
	m.next--
	return n
}

func sampleResource(rng *rand.Rand, table []weightedResource) game.Resources {
	var total float64
	for _, w := range table {
		total += w.weight
	}
	x := rng.Float64() * total
	for _, w := range table {
		if x < w.weight {
			return w.resources
		}
		x -= w.weight
	}
	return table[len(table)-1].resources
}

func minorBodyColour(r game.Resources) string {
	switch r {
	case game.ResourcesMiningBoth:
		return "#888888"
	case game.ResourcesMiningWater:
		return "#aaaaaa"
	case game.ResourcesMiningOre:
		return "#666666"
	default:
		panic("scenario: minor body rolled a non-mining resource")
	}
}

// generateBelt scatters minor bodies across one ring using a semicircular
// radial density profile: zero at the ring's inner and outer edge, peaking
// at 0.5 probability at its midpoint, so a belt thins out naturally
// instead of ending in a hard wall. Candidate hexes are deduplicated since
// adjacent angular steps can round to the same hex near the ring's inner
// edge.
func generateBelt(ring beltRing, rng *rand.Rand, numbers *minorBodyNumbers, ids *game.IdGenerator[game.CelestialId], out map[game.CelestialId]*game.Celestial) {
	seen := map[game.HexVec]bool{}
	width := float64(ring.end - ring.start)
	thetaCount := int(math.Ceil(float64(ring.end) * 2 * math.Pi))

	for r := ring.start; r <= ring.end; r++ {
		for theta := 0; theta < thetaCount; theta++ {
			angle := float64(theta) / ring.angleSteps * 2 * math.Pi
			pos := game.FromPolar(float64(r), angle)
			if seen[pos] {
				continue
			}
			seen[pos] = true

			normalizedR := 2 * float64(r-ring.start) / width
			semicircle := math.Sqrt(math.Max(0, 1-(normalizedR-1)*(normalizedR-1)))
			probability := semicircle * 0.5
			if rng.Float64() >= probability {
				continue
			}

			resources := sampleResource(rng, ring.resources)
			out[ids.Next()] = &game.Celestial{
				Position:     pos,
				Name:         fmt.Sprintf("%s %d", ring.namePrefix, numbers.take()),
				OrbitGravity: false,
				Resources:    resources,
				Radius:       0.1,
				Colour:       minorBodyColour(resources),
				IsMinor:      true,
			}
		}
	}
}
