package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solardawn/solar-dawn-server/game"
)

// Six clockwise orbital steps around the same body return to the starting
// (position, velocity) pair, for every starting slot.
func TestOrbitClosureClockwise(t *testing.T) {
	body := &game.Celestial{Position: game.HexVec{Q: 10, R: 0}, OrbitGravity: true}
	slots := body.OrbitParameters(true)

	for start := 0; start < 6; start++ {
		pos, vel := slots[start].Position, slots[start].Velocity
		for step := 0; step < 6; step++ {
			slot, ok := body.SlotForDestination(pos.Add(vel), true)
			assert.True(t, ok)
			pos, vel = slot.Position, slot.Velocity
		}
		assert.Equal(t, slots[start].Position, pos, "start slot %d position", start)
		assert.Equal(t, slots[start].Velocity, vel, "start slot %d velocity", start)
	}
}

func TestOrbitSlotForRoundTrips(t *testing.T) {
	body := &game.Celestial{Position: game.Zero, OrbitGravity: true}
	for _, cw := range []bool{true, false} {
		for _, s := range body.OrbitParameters(cw) {
			got, ok := body.OrbitSlotFor(s.Position, s.Velocity)
			assert.True(t, ok)
			assert.Equal(t, s, got)
		}
	}
}
