// Package gateway serves the realtime side of a draft: WebSocket connections
// grouped per draft, fed from the broadcast bus.
package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kmartin31/fastbreak/go/internal/broadcast"
	"github.com/kmartin31/fastbreak/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

// ConnectionManager holds one connection pool per draft. The first connection
// for a draft starts a pump that subscribes to that draft's bus topic; the
// pump stops and unsubscribes when the pool empties.
type ConnectionManager struct {
	bus    *broadcast.Bus
	config ConnectionConfig

	mu    sync.RWMutex
	pools map[uuid.UUID]*draftPool

	upgrader websocket.Upgrader
}

type draftPool struct {
	connections map[*Connection]bool
	sub         *broadcast.Subscription
}

// Connection is a single WebSocket client watching one draft.
type Connection struct {
	ID      string
	DraftID uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds WebSocket tunables.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the production defaults.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a manager fed from the given bus.
func NewConnectionManager(bus *broadcast.Bus, config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		bus:    bus,
		config: config,
		pools:  make(map[uuid.UUID]*draftPool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
}

// UpgradeConnection upgrades an HTTP request to a WebSocket connection
// watching the given draft.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, draftID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return err
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		DraftID:     draftID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("draft_id", draftID.String()).
		Msg("WebSocket connection established")
	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pool, ok := cm.pools[conn.DraftID]
	if !ok {
		pool = &draftPool{
			connections: make(map[*Connection]bool),
			sub:         cm.bus.Subscribe(events.Topic(conn.DraftID)),
		}
		cm.pools[conn.DraftID] = pool
		go cm.pump(conn.DraftID, pool.sub)
	}
	pool.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("draft_id", conn.DraftID.String()).
		Int("total_connections", len(pool.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pool, ok := cm.pools[conn.DraftID]
	if !ok || !pool.connections[conn] {
		return
	}
	delete(pool.connections, conn)
	close(conn.Send)

	// Last watcher gone: stop the pump and drop the pool.
	if len(pool.connections) == 0 {
		pool.sub.Close()
		delete(cm.pools, conn.DraftID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("draft_id", conn.DraftID.String()).
		Msg("connection unregistered")
}

// pump forwards bus messages for one draft to every connection in its pool.
// It exits when the subscription closes.
func (cm *ConnectionManager) pump(draftID uuid.UUID, sub *broadcast.Subscription) {
	for message := range sub.C() {
		// Sends stay under the read lock: unregisterConnection closes Send
		// under the write lock, so a channel in the pool cannot be closed
		// mid-send. The sends are non-blocking, so the lock is never held
		// on a full buffer.
		cm.mu.RLock()
		pool, ok := cm.pools[draftID]
		if !ok {
			cm.mu.RUnlock()
			continue
		}
		var slow []*Connection
		for conn := range pool.connections {
			select {
			case conn.Send <- message:
			default:
				slow = append(slow, conn)
			}
		}
		cm.mu.RUnlock()

		for _, conn := range slow {
			log.Warn().
				Str("connection_id", conn.ID).
				Str("draft_id", draftID.String()).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}
}

// Stats summarizes active connections per draft.
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftConnections map[string]int `json:"draft_connections"`
}

// GetStats returns a snapshot of active connections.
func (cm *ConnectionManager) GetStats() Stats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := Stats{DraftConnections: make(map[string]int, len(cm.pools))}
	for draftID, pool := range cm.pools {
		n := len(pool.connections)
		stats.TotalConnections += n
		stats.DraftConnections[draftID.String()] = n
	}
	stats.ActiveDrafts = len(cm.pools)
	return stats
}

// writePump drains the Send channel to the socket and keeps the connection
// alive with periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes client frames. Clients only watch; inbound payloads are
// logged and dropped.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		log.Debug().
			Str("connection_id", c.ID).
			RawJSON("message", message).
			Msg("received client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
