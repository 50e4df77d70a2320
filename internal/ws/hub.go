package ws

import (
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// PersonalRoom returns the deterministic room name addressing all of a
// user's live connections. Every component goes through this function so a
// typo cannot create a silently unreachable room.
func PersonalRoom(userID int) string {
	return "user_" + strconv.Itoa(userID)
}

// ChatRoom returns the room name for an ad hoc shared chat context.
func ChatRoom(chatID string) string {
	return "chat_" + chatID
}

// Hub maintains named broadcast groups of live connections. Rooms have no
// persistence; they exist only while connections are joined. Delivery is
// best-effort per connection, one delivery per physical channel.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]bool
	// membership per connection, for O(rooms-of-conn) teardown
	joined map[*Conn]map[string]bool

	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Conn]bool),
		joined: make(map[*Conn]map[string]bool),
		logger: logger.With(zap.String("component", "hub")),
	}
}

// Join adds the connection to a room. Joining twice is a no-op.
func (h *Hub) Join(conn *Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Conn]bool)
	}
	h.rooms[room][conn] = true

	if _, ok := h.joined[conn]; !ok {
		h.joined[conn] = make(map[string]bool)
	}
	h.joined[conn][room] = true
}

// Leave removes the connection from a room. Leaving a room the connection
// never joined is a no-op, not an error.
func (h *Hub) Leave(conn *Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(conn, room)
}

// RemoveConn removes the connection from every room it joined. Part of
// connection teardown; calling it twice leaves the same state as once.
func (h *Hub) RemoveConn(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.joined[conn] {
		h.leaveLocked(conn, room)
	}
}

func (h *Hub) leaveLocked(conn *Conn, room string) {
	if conns, ok := h.rooms[room]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.joined[conn]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(h.joined, conn)
		}
	}
}

// Broadcast delivers an event to every connection in the room, skipping
// except when non-nil. Broadcasting to an absent room delivers to nobody;
// an offline recipient is expected steady-state, not a failure.
func (h *Hub) Broadcast(room, event string, payload any, except *Conn) {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		if conn != except {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Send(event, payload)
	}
}

// BroadcastAll delivers an event to every live connection except the given
// one. Used for the online/offline presence broadcasts, where the subject
// should not receive their own echo.
func (h *Hub) BroadcastAll(event string, payload any, except *Conn) {
	h.mu.RLock()
	seen := make(map[*Conn]bool)
	for _, conns := range h.rooms {
		for conn := range conns {
			if conn != except {
				seen[conn] = true
			}
		}
	}
	h.mu.RUnlock()

	for conn := range seen {
		conn.Send(event, payload)
	}
}

// PushToUser delivers an event to all of a user's live connections. Exposed
// for the REST layer to push without owning a socket. Reports whether at
// least one connection was addressed.
func (h *Hub) PushToUser(userID int, event string, payload any) bool {
	room := PersonalRoom(userID)

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Send(event, payload)
	}
	return len(conns) > 0
}

// RoomSize reports the number of connections currently in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
