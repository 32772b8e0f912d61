// Package engine implements the validator, resolver, and turn driver that
// turn a GameState and a batch of per-player orders into the next
// GameState, deterministically.
package engine

import (
	"math/rand/v2"

	"github.com/solardawn/solar-dawn-server/game"
)

// NewSeededRng returns a PCG-family generator seeded deterministically from
// a single server-controlled seed. *rand.Rand already
// implements game.Rng (IntN, Float64), so no adapter type is needed.
func NewSeededRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// NewStepRng derives the generator for one phase resolution from the
// game's master seed, the turn counter, and the phase being resolved, so a
// reloaded save re-deriving the same (seed, turn, phase) always redraws the
// same sequence without needing to persist any generator state.
func NewStepRng(masterSeed uint64, turn uint64, phase game.Phase) *rand.Rand {
	return rand.New(rand.NewPCG(masterSeed, turn<<8|uint64(phase)))
}

var _ game.Rng = (*rand.Rand)(nil)
