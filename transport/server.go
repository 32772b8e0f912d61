package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/solardawn/solar-dawn-server/engine"
	"github.com/solardawn/solar-dawn-server/game"
)

const keepAlivePing = "KEEP_ALIVE_PING"

// writeTimeout bounds how long Hub.broadcast waits on any one slow
// connection before giving up on it for this delta.
const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// connection is one player's live websocket link to the game.
type connection struct {
	player   game.PlayerId
	conn     *websocket.Conn
	send     chan []byte
	lastSeen time.Time
}

// Hub owns one game's coordinator and its connected players' sockets. It
// never mutates GameState directly — every state change goes through
// coordinator.Step, triggered by the turn loop once Ready reports true.
type Hub struct {
	mu sync.Mutex

	sessionID   uuid.UUID
	coordinator *engine.Coordinator
	state       *GameServerState
	savePath    string

	conns             map[game.PlayerId]*connection
	keepAliveInterval time.Duration

	log zerolog.Logger
}

// NewHub wires a coordinator to a fresh connection registry.
func NewHub(sessionID uuid.UUID, coordinator *engine.Coordinator, state *GameServerState, savePath string, keepAliveInterval time.Duration, log zerolog.Logger) *Hub {
	return &Hub{
		sessionID:         sessionID,
		coordinator:       coordinator,
		state:             state,
		savePath:          savePath,
		conns:             map[game.PlayerId]*connection{},
		keepAliveInterval: keepAliveInterval,
		log:               log.With().Str("session", sessionID.String()).Logger(),
	}
}

// Run drives the turn loop until ctx is cancelled: polling Ready, stepping
// the coordinator, broadcasting the resulting delta, and periodically
// reaping connections silent past 2x the keep-alive interval.
func (h *Hub) Run(ctx context.Context) {
	pollTick := time.NewTicker(200 * time.Millisecond)
	reapTick := time.NewTicker(h.keepAliveInterval)
	defer pollTick.Stop()
	defer reapTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reapTick.C:
			h.reapStale()
		case <-pollTick.C:
			if h.coordinator.Ready() {
				delta := h.coordinator.Step()
				h.log.Info().Uint64("turn", delta.Turn).Str("phase", delta.Phase.String()).Msg("turn resolved")
				h.broadcast(delta)
				if err := h.persist(); err != nil {
					h.log.Error().Err(err).Msg("autosave failed")
				}
			}
		}
	}
}

func (h *Hub) persist() error {
	h.mu.Lock()
	state := *h.state
	h.mu.Unlock()
	state.TurnSeed = h.coordinator.Seed()
	state.NextStack = h.coordinator.NextStackId()
	state.NextModule = h.coordinator.NextModuleId()
	state.State = h.coordinator.State()
	return Save(h.savePath, &state)
}

// broadcast fans the delta out to every connection concurrently, bounding
// the wait on any single slow write so one bad connection can't stall the
// turn loop.
func (h *Hub) broadcast(delta *game.GameStateDelta) {
	h.mu.Lock()
	targets := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	g, _ := errgroup.WithContext(context.Background())
	for _, c := range targets {
		c := c
		g.Go(func() error {
			wire := FromDelta(delta, c.player)
			data, err := cbor.Marshal(wire)
			if err != nil {
				return fmt.Errorf("encoding delta for player %d: %w", c.player, err)
			}
			select {
			case c.send <- data:
				return nil
			case <-time.After(writeTimeout):
				return fmt.Errorf("player %d send buffer full", c.player)
			}
		})
	}
	if err := g.Wait(); err != nil {
		h.log.Warn().Err(err).Msg("broadcast incomplete")
	}
}

func (h *Hub) reapStale() {
	cutoff := 2 * h.keepAliveInterval
	h.mu.Lock()
	defer h.mu.Unlock()
	for p, c := range h.conns {
		if time.Since(c.lastSeen) > cutoff {
			h.log.Info().Uint8("player", uint8(p)).Msg("reaping stale connection")
			close(c.send)
			delete(h.conns, p)
			h.coordinator.Disconnect(p)
		}
	}
}

// ServeHTTP upgrades the request and runs the join handshake: the client's
// first text frame must be "{session_id} {player_id}".
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	player, err := h.handshake(conn)
	if err != nil {
		h.log.Warn().Err(err).Msg("join handshake failed")
		conn.Close()
		return
	}

	c := &connection{player: player, conn: conn, send: make(chan []byte, 32), lastSeen: time.Now()}
	h.mu.Lock()
	h.conns[player] = c
	h.mu.Unlock()
	h.coordinator.Touch(player)
	h.log.Info().Uint8("player", uint8(player)).Msg("player joined")

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) handshake(conn *websocket.Conn) (game.PlayerId, error) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("reading join frame: %w", err)
	}
	fields := strings.Fields(string(msg))
	if len(fields) != 2 {
		return 0, fmt.Errorf("malformed join frame %q", msg)
	}
	sessionID, err := uuid.Parse(fields[0])
	if err != nil || sessionID != h.sessionID {
		return 0, fmt.Errorf("join frame names a different session: %q", fields[0])
	}
	n, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid player id %q: %w", fields[1], err)
	}
	player := game.PlayerId(n)

	data, err := cbor.Marshal(h.coordinator.State())
	if err != nil {
		return 0, fmt.Errorf("encoding initial state: %w", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return 0, fmt.Errorf("sending initial state: %w", err)
	}
	return player, nil
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, c.player)
		h.mu.Unlock()
		h.coordinator.Disconnect(c.player)
		c.conn.Close()
	}()

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.lastSeen = time.Now()

		switch msgType {
		case websocket.TextMessage:
			if string(data) == keepAlivePing {
				h.coordinator.Touch(c.player)
			}
		case websocket.BinaryMessage:
			h.handleOrders(c, data)
		}
	}
}

func (h *Hub) handleOrders(c *connection, data []byte) {
	var wire []WireOrder
	if err := cbor.Unmarshal(data, &wire); err != nil {
		h.log.Warn().Err(err).Uint8("player", uint8(c.player)).Msg("dropping malformed orders frame")
		return
	}
	orders, err := ToOrders(wire)
	if err != nil {
		h.log.Warn().Err(err).Uint8("player", uint8(c.player)).Msg("dropping malformed orders frame")
		return
	}
	if !h.coordinator.Submit(c.player, orders) {
		h.log.Warn().Uint8("player", uint8(c.player)).Msg("rate-limited orders frame dropped")
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(h.keepAliveInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(keepAlivePing)); err != nil {
				return
			}
		}
	}
}
