// Package scenario builds the starting GameState for a fresh game: the
// curated solar-system bodies, a procedurally scattered asteroid and
// Kuiper belt, and one starter stack per player parked in Earth orbit.
package scenario

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/solardawn/solar-dawn-server/game"
)

// totalMinorBodyNumbers bounds the shuffled catalogue-number pool; real
// minor-planet catalogues run into the hundreds of thousands, which is
// comfortably more than any belt generated below will ever draw from.
const totalMinorBodyNumbers = 875150

// majorBody is one curated, named solar-system body: a polar position
// (hexes from the Sun, degrees) optionally nudged by a short chain of hex
// offsets for moons parked near their primary.
type majorBody struct {
	name           string
	radiusHex      float64
	thetaDeg       float64
	offsets        []game.HexVec
	orbitGravity   bool
	surfaceGravity float32
	resources      game.Resources
	bodyRadius     float32
	colour         string
}

func dirs(ds ...game.HexVec) []game.HexVec { return ds }

var majors = []majorBody{
	{name: "The Sun", radiusHex: 0, thetaDeg: 0, orbitGravity: true, surfaceGravity: 274.0, resources: game.ResourcesNone, bodyRadius: 0.85, colour: "#ffff00"},
	{name: "Mercury", radiusHex: 3.5, thetaDeg: 170, orbitGravity: true, surfaceGravity: 3.7, resources: game.ResourcesMiningOre, bodyRadius: 0.15, colour: "#888888"},
	{name: "Venus", radiusHex: 7.2, thetaDeg: 70, orbitGravity: true, surfaceGravity: 8.9, resources: game.ResourcesMiningOre, bodyRadius: 0.25, colour: "#ffee99"},
	{name: "Earth", radiusHex: 10.0, thetaDeg: 0, orbitGravity: true, surfaceGravity: 9.8, resources: game.ResourcesNone, bodyRadius: 0.25, colour: "#0000ff"},
	{name: "The Moon", radiusHex: 10.0, thetaDeg: 0, offsets: dirs(game.UnitUp, game.UnitUpRight, game.UnitUpRight), orbitGravity: true, surfaceGravity: 1.6, resources: game.ResourcesMiningBoth, bodyRadius: 0.15, colour: "#888888"},
	{name: "Mars", radiusHex: 14.8, thetaDeg: 280, orbitGravity: true, surfaceGravity: 3.7, resources: game.ResourcesMiningBoth, bodyRadius: 0.20, colour: "#cc5151"},
	{name: "Phobos", radiusHex: 14.8, thetaDeg: 280, offsets: dirs(game.UnitUpLeft, game.UnitUpLeft), orbitGravity: false, resources: game.ResourcesMiningOre, bodyRadius: 0.10, colour: "#888888"},
	{name: "Deimos", radiusHex: 14.8, thetaDeg: 280, offsets: dirs(game.UnitDown, game.UnitDown, game.UnitDown, game.UnitDown), orbitGravity: false, resources: game.ResourcesMiningOre, bodyRadius: 0.10, colour: "#666666"},
	{name: "Jupiter", radiusHex: 54.3, thetaDeg: 45, orbitGravity: true, surfaceGravity: 24.8, resources: game.ResourcesSkimming, bodyRadius: 0.75, colour: "#ffee99"},
	{name: "Io", radiusHex: 54.3, thetaDeg: 45, offsets: dirs(game.UnitDownLeft, game.UnitDownLeft, game.UnitDownLeft), orbitGravity: true, surfaceGravity: 1.8, resources: game.ResourcesMiningOre, bodyRadius: 0.15, colour: "#ffff00"},
	{name: "Europa", radiusHex: 54.3, thetaDeg: 45, offsets: dirs(game.UnitUpRight, game.UnitUpRight, game.UnitUpRight, game.UnitUpRight), orbitGravity: true, surfaceGravity: 1.3, resources: game.ResourcesMiningWater, bodyRadius: 0.15, colour: "#88bbdd"},
	{name: "Ganymede", radiusHex: 54.3, thetaDeg: 45, offsets: dirs(game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUp), orbitGravity: true, surfaceGravity: 1.4, resources: game.ResourcesMiningBoth, bodyRadius: 0.15, colour: "#888888"},
	{name: "Callisto", radiusHex: 54.3, thetaDeg: 45, offsets: dirs(game.UnitDown, game.UnitDown, game.UnitDown, game.UnitDown, game.UnitDown, game.UnitDown), orbitGravity: true, surfaceGravity: 1.2, resources: game.ResourcesMiningBoth, bodyRadius: 0.15, colour: "#666666"},
	{name: "Saturn", radiusHex: 100.4, thetaDeg: 125, orbitGravity: true, surfaceGravity: 10.4, resources: game.ResourcesSkimming, bodyRadius: 0.70, colour: "#ddcc77"},
	{name: "Tethys", radiusHex: 100.4, thetaDeg: 125, offsets: dirs(game.UnitDownLeft, game.UnitDownLeft), orbitGravity: false, surfaceGravity: 0.1, resources: game.ResourcesMiningWater, bodyRadius: 0.1, colour: "#888888"},
	{name: "Dione", radiusHex: 100.4, thetaDeg: 125, offsets: dirs(game.UnitDownRight, game.UnitDown, game.UnitDown), orbitGravity: false, surfaceGravity: 0.2, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#888888"},
	{name: "Rhea", radiusHex: 100.4, thetaDeg: 125, offsets: dirs(game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUp), orbitGravity: false, surfaceGravity: 0.3, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#888888"},
	{name: "Titan", radiusHex: 100.4, thetaDeg: 125, offsets: dirs(game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUp, game.UnitUpRight, game.UnitUpRight), orbitGravity: true, surfaceGravity: 1.4, resources: game.ResourcesMiningBoth, bodyRadius: 0.15, colour: "#ddcc77"},
	{name: "Iapetus", radiusHex: 100.4, thetaDeg: 125, offsets: dirs(game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft), orbitGravity: false, surfaceGravity: 0.2, resources: game.ResourcesMiningWater, bodyRadius: 0.1, colour: "#444444"},
	{name: "Uranus", radiusHex: 194.7, thetaDeg: 305, orbitGravity: true, surfaceGravity: 8.9, resources: game.ResourcesSkimming, bodyRadius: 0.45, colour: "#00cccc"},
	{name: "Miranda", radiusHex: 194.7, thetaDeg: 305, offsets: dirs(game.UnitUp, game.UnitUp), orbitGravity: false, surfaceGravity: 0.1, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#aaaaaa"},
	{name: "Ariel", radiusHex: 194.7, thetaDeg: 305, offsets: dirs(game.UnitDown, game.UnitDown), orbitGravity: false, surfaceGravity: 0.2, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#666666"},
	{name: "Umbriel", radiusHex: 194.7, thetaDeg: 305, offsets: dirs(game.UnitDownRight, game.UnitDownRight, game.UnitDownRight), orbitGravity: false, surfaceGravity: 0.2, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#666666"},
	{name: "Titania", radiusHex: 194.7, thetaDeg: 305, offsets: dirs(game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft, game.UnitUpLeft), orbitGravity: false, surfaceGravity: 0.4, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#888888"},
	{name: "Oberon", radiusHex: 194.7, thetaDeg: 305, offsets: dirs(game.UnitUpRight, game.UnitUpRight, game.UnitUpRight, game.UnitUpRight, game.UnitUpRight), orbitGravity: false, surfaceGravity: 0.4, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#888888"},
	{name: "Neptune", radiusHex: 299.7, thetaDeg: 235, orbitGravity: true, surfaceGravity: 11.1, resources: game.ResourcesSkimming, bodyRadius: 0.50, colour: "#0055cc"},
	{name: "Triton", radiusHex: 299.7, thetaDeg: 235, offsets: dirs(game.UnitUpRight, game.UnitUpRight, game.UnitUpRight, game.UnitUpRight, game.UnitUpRight), orbitGravity: false, surfaceGravity: 0.8, resources: game.ResourcesMiningBoth, bodyRadius: 0.1, colour: "#888888"},
}

func majorBodies(ids *game.IdGenerator[game.CelestialId]) (map[game.CelestialId]*game.Celestial, game.CelestialId) {
	out := make(map[game.CelestialId]*game.Celestial, len(majors))
	var earth game.CelestialId
	for _, b := range majors {
		pos := game.FromPolar(b.radiusHex, b.thetaDeg*math.Pi/180)
		for _, d := range b.offsets {
			pos = pos.Add(d)
		}
		id := ids.Next()
		out[id] = &game.Celestial{
			Position:       pos,
			Name:           b.name,
			OrbitGravity:   b.orbitGravity,
			SurfaceGravity: b.surfaceGravity,
			Resources:      b.resources,
			Radius:         b.bodyRadius,
			Colour:         b.colour,
			IsMinor:        false,
		}
		if b.name == "Earth" {
			earth = id
		}
	}
	return out, earth
}

// GenerateBalanced builds a fresh scenario: the curated major bodies plus
// procedurally scattered minor bodies, and one starter stack per player
// parked in a distinct Earth orbital slot (so at most six players can be
// seated this way). seed is the caller's responsibility to persist
// so a reload can regenerate an identical minor-body layout
// without storing it.
func GenerateBalanced(seed uint64, players map[game.PlayerId]string) (*game.GameState, *game.IdGenerator[game.CelestialId], *game.IdGenerator[game.StackId], *game.IdGenerator[game.ModuleId]) {
	rng := rand.New(rand.NewPCG(seed, seed>>32|seed<<32))

	celestialIds := game.NewIdGenerator[game.CelestialId]()
	stackIds := game.NewIdGenerator[game.StackId]()
	moduleIds := game.NewIdGenerator[game.ModuleId]()

	celestials, earth := majorBodies(celestialIds)

	numbers := newMinorBodyNumbers(rng, totalMinorBodyNumbers)
	generateBelt(asteroidBelt, rng, numbers, celestialIds, celestials)
	generateBelt(kuiperBelt, rng, numbers, celestialIds, celestials)

	earthRef := celestials[earth]
	slots := earthRef.OrbitParameters(true)
	playerIDs := sortedPlayerIDs(players)

	stacks := map[game.StackId]*game.Stack{}
	for i, p := range playerIDs {
		if i >= len(slots) {
			break
		}
		slot := slots[i]
		stacks[stackIds.Next()] = starterStack(p, slot.Position, slot.Velocity, p.StartingStackName(), moduleIds)
	}

	gs := &game.GameState{
		Phase:      game.PhaseLogistics,
		Turn:       0,
		Players:    players,
		Celestials: celestials,
		Earth:      earth,
		Stacks:     stacks,
	}
	return gs, celestialIds, stackIds, moduleIds
}

func sortedPlayerIDs(players map[game.PlayerId]string) []game.PlayerId {
	ids := make([]game.PlayerId, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// starterStack builds a player's initial stack: two habitats (so the stack
// survives losing one to combat without changing hands), a factory,
// refinery, and miner for a self-sufficient economy, an empty cargo hold,
// a topped-up fuel tank, and four engines.
func starterStack(owner game.PlayerId, position, velocity game.HexVec, name string, moduleIds *game.IdGenerator[game.ModuleId]) *game.Stack {
	s := game.NewStack(position, velocity, owner, name)
	s.Modules[moduleIds.Next()] = game.NewModule(game.Habitat(owner))
	s.Modules[moduleIds.Next()] = game.NewModule(game.Habitat(owner))
	s.Modules[moduleIds.Next()] = game.NewModule(game.FactoryDetails())
	s.Modules[moduleIds.Next()] = game.NewModule(game.RefineryDetails())
	s.Modules[moduleIds.Next()] = game.NewModule(game.MinerDetails())
	s.Modules[moduleIds.Next()] = game.NewModule(game.CargoHold(0, 0))
	s.Modules[moduleIds.Next()] = game.NewModule(game.NewTank(0, game.TankCapacity))
	for i := 0; i < 4; i++ {
		s.Modules[moduleIds.Next()] = game.NewModule(game.EngineDetails())
	}
	return s
}
