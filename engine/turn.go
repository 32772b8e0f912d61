package engine

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/solardawn/solar-dawn-server/game"
)

// DisconnectGrace is how long a coordinator waits for a missing player's
// orders, measured from the last frame seen from that player's connection,
// before treating the phase as resolved on their behalf with no orders.
const DisconnectGrace = 30 * time.Second

// SubmitRateLimit bounds how often a single player's connection may
// overwrite its pending orders, defending the coordinator goroutine
// against a buggy or hostile client flooding resubmissions.
const SubmitRateLimit = rate.Limit(5)

// Coordinator drives one game's turn loop: collecting orders, resolving a
// step under its lock, and reporting the result. It never talks to a
// network connection directly — transport wires Submit/Step to websocket
// frames so this package stays transport-free and unit-testable.
type Coordinator struct {
	mu sync.Mutex

	state     *game.GameState
	stackIds  *game.IdGenerator[game.StackId]
	moduleIds *game.IdGenerator[game.ModuleId]
	seed      uint64

	players   []game.PlayerId
	pending   map[game.PlayerId][]game.Order
	submitted map[game.PlayerId]bool
	lastSeen  map[game.PlayerId]time.Time
	limiters  map[game.PlayerId]*rate.Limiter
}

// NewCoordinator builds a coordinator for an in-progress game. players is
// the fixed roster for the session; seed is the master RNG seed for this
// game (persisted and restored by the caller across saves):
// each Step derives a fresh generator from (seed, turn, phase) rather than
// carrying a continuous stream, so reloading never needs to persist
// generator state.
func NewCoordinator(state *game.GameState, stackIds *game.IdGenerator[game.StackId], moduleIds *game.IdGenerator[game.ModuleId], seed uint64, players []game.PlayerId) *Coordinator {
	c := &Coordinator{
		state:     state,
		stackIds:  stackIds,
		moduleIds: moduleIds,
		seed:      seed,
		players:   players,
		pending:   map[game.PlayerId][]game.Order{},
		submitted: map[game.PlayerId]bool{},
		lastSeen:  map[game.PlayerId]time.Time{},
		limiters:  map[game.PlayerId]*rate.Limiter{},
	}
	now := time.Now()
	for _, p := range players {
		c.lastSeen[p] = now
		c.limiters[p] = rate.NewLimiter(SubmitRateLimit, 1)
	}
	return c
}

// Submit records player's latest orders for the phase currently in
// progress, overwriting whatever it submitted before.
// It reports false if the player's upload rate limiter rejected the
// frame, in which case transport should drop the frame rather than queue
// it.
func (c *Coordinator) Submit(player game.PlayerId, orders []game.Order) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lim, ok := c.limiters[player]; ok && !lim.Allow() {
		return false
	}
	c.pending[player] = orders
	c.submitted[player] = true
	c.lastSeen[player] = time.Now()
	return true
}

// Touch records that a connection is still alive without submitting
// orders (a keep-alive frame), so Ready doesn't time the player out.
func (c *Coordinator) Touch(player game.PlayerId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen[player] = time.Now()
}

// Disconnect immediately treats player as having submitted no orders for
// every phase until it reconnects (Touch or Submit marks it live again).
func (c *Coordinator) Disconnect(player game.PlayerId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lastSeen, player)
}

// Ready reports whether the coordinator should run Step now: either every
// live connection has submitted for the current phase, or a connected but
// silent player has exceeded the disconnect grace window and is being
// treated as having submitted nothing.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyLocked()
}

func (c *Coordinator) readyLocked() bool {
	now := time.Now()
	for _, p := range c.players {
		if c.submitted[p] {
			continue
		}
		seen, connected := c.lastSeen[p]
		if !connected {
			continue // already disconnected, counts as submitted-nothing
		}
		if now.Sub(seen) < DisconnectGrace {
			return false
		}
	}
	return true
}

// Step validates and applies the current phase's pending orders, runs
// state-based effects, advances the phase (and turn counter on leaving
// Movement), and returns the broadcastable delta. Callers must only call
// Step when Ready reports true; Step does not check it itself so tests can
// force a step past the grace window.
func (c *Coordinator) Step() *game.GameStateDelta {
	c.mu.Lock()
	defer c.mu.Unlock()

	orders := c.pending
	c.pending = map[game.PlayerId][]game.Order{}
	for _, p := range c.players {
		c.submitted[p] = false
	}

	phase := c.state.Phase
	rng := NewStepRng(c.seed, c.state.Turn, phase)
	validated, errs := Validate(c.state, orders)
	stacks := Apply(c.state, validated, c.stackIds, c.moduleIds, rng)
	stacks = RunStateBasedEffects(c.state, stacks, rng)

	nextPhase := phase.Next()
	turn := c.state.Turn
	if phase == game.PhaseMovement {
		turn++
	}

	delta := &game.GameStateDelta{
		Phase:  nextPhase,
		Turn:   turn,
		Stacks: stacks,
		Orders: orders,
		Errors: errs,
	}
	c.state.Apply(delta)
	return delta
}

// State returns the coordinator's current, already-resolved game state.
// Callers must treat the result as read-only; only Step ever mutates it.
func (c *Coordinator) State() *game.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Seed returns the master RNG seed, for persistence.
func (c *Coordinator) Seed() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed
}

// NextStackId and NextModuleId report the id generators' current watermark,
// for persistence; the generators themselves remain coordinator-owned so
// every allocation stays serialized through Step.
func (c *Coordinator) NextStackId() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stackIds.Peek()
}

func (c *Coordinator) NextModuleId() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moduleIds.Peek()
}
