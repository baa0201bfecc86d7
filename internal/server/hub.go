package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/templegold/server/internal/game"
	"github.com/templegold/server/internal/roomcode"
)

// SnapshotSource resolves a room's current snapshot so a fresh subscriber
// gets state immediately instead of waiting for the next mutation. The
// registry satisfies it.
type SnapshotSource interface {
	GetRoom(code string) (*game.RoomSnapshot, error)
}

// Hub is the realtime push side of the server: it upgrades websocket
// connections, tracks which room each one watches, and implements the
// engine's Notifier by broadcasting every published snapshot to that room's
// subscribers. Delivery is best-effort; the hub never reports back to the
// engine.
type Hub struct {
	upgrader   websocket.Upgrader
	logger     *log.Logger
	mu         sync.RWMutex
	conns      map[*Connection]bool
	register   chan *Connection
	unregister chan *Connection
	ctx        context.Context
	cancel     context.CancelFunc
	source     SnapshotSource
}

// NewHub creates a hub. Call SetSnapshotSource before serving if subscribers
// should receive current state on subscribe.
func NewHub(logger *log.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The API carries no credentials; snapshots are public to
				// anyone holding the room code.
				return true
			},
		},
		logger:     logger.WithPrefix("hub"),
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetSnapshotSource wires the hub to the registry. Split from NewHub because
// the registry itself needs the hub as its notifier.
func (h *Hub) SetSnapshotSource(source SnapshotSource) {
	h.source = source
}

// Run processes connection lifecycle events until Stop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			total := len(h.conns)
			h.mu.Unlock()
			h.logger.Info("client connected", "total", total)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				_ = conn.Close()
			}
			total := len(h.conns)
			h.mu.Unlock()
			h.logger.Info("client disconnected", "total", total)

		case <-h.ctx.Done():
			return
		}
	}
}

// Stop closes every connection and halts the run loop.
func (h *Hub) Stop() {
	h.cancel()
	h.mu.Lock()
	for conn := range h.conns {
		_ = conn.Close()
	}
	h.conns = make(map[*Connection]bool)
	h.mu.Unlock()
}

// HandleWebSocket upgrades an HTTP request into a subscriber connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "error", err)
		return
	}

	client := newConnection(conn, h, h.logger)
	h.register <- client
	client.start()
}

// subscribe points a connection at a room and pushes the room's current
// snapshot when a source is wired.
func (h *Hub) subscribe(c *Connection, code string) {
	code = roomcode.Normalize(code)
	if err := roomcode.Validate(code); err != nil {
		c.sendError("bad_room_code", err.Error())
		return
	}

	if h.source != nil {
		snap, err := h.source.GetRoom(code)
		if err != nil {
			c.sendError("room_not_found", "no room with code "+code)
			return
		}
		c.setRoom(code)
		if msg, err := NewMessage(MessageTypeSubscribed, SubscribedData{RoomCode: code}); err == nil {
			_ = c.SendMessage(msg)
		}
		if msg, err := NewMessage(MessageTypeRoomUpdate, snap); err == nil {
			_ = c.SendMessage(msg)
		}
		return
	}

	c.setRoom(code)
	if msg, err := NewMessage(MessageTypeSubscribed, SubscribedData{RoomCode: code}); err == nil {
		_ = c.SendMessage(msg)
	}
}

// Publish implements game.Notifier: fan the snapshot out to every connection
// watching the room. Slow clients are dropped by SendMessage rather than
// blocking the caller.
func (h *Hub) Publish(roomCode string, snapshot *game.RoomSnapshot) {
	msg, err := NewMessage(MessageTypeRoomUpdate, snapshot)
	if err != nil {
		h.logger.Error("failed to encode snapshot", "error", err, "room", roomCode)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for conn := range h.conns {
		if conn.Room() == roomCode {
			if err := conn.SendMessage(msg); err == nil {
				count++
			}
		}
	}
	h.logger.Debug("published snapshot", "room", roomCode, "recipients", count)
}
