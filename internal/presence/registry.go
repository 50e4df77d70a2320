package presence

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"realtime-service/internal/models"
	"realtime-service/internal/observability"
)

// Entry is the presence state of one user.
type Entry struct {
	User     models.UserIdentity
	ConnIDs  map[string]struct{}
	LastSeen time.Time
}

// Snapshot is an exported view of one online user, used by the REST layer.
type Snapshot struct {
	User     models.UserIdentity `json:"user"`
	Devices  int                 `json:"devices"`
	LastSeen time.Time           `json:"last_seen"`
}

// Registry maps user ids to their live connections. An entry exists iff the
// user has at least one live connection. All mutations run under one lock;
// nothing here blocks on I/O.
type Registry struct {
	mu      sync.Mutex
	entries map[int]*Entry
	logger  *zap.Logger
	clock   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		entries: make(map[int]*Entry),
		logger:  logger.With(zap.String("component", "presence")),
		clock:   time.Now,
	}
}

// Register adds a connection for the user. It reports whether this was the
// user's first connection, i.e. the 0→1 online transition; the caller owns
// the resulting online broadcast.
func (r *Registry) Register(user models.UserIdentity, connID string) (becameOnline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[user.ID]
	if !ok {
		entry = &Entry{User: user, ConnIDs: make(map[string]struct{})}
		r.entries[user.ID] = entry
		becameOnline = true
	}
	entry.ConnIDs[connID] = struct{}{}
	entry.LastSeen = r.clock()

	observability.SetOnlineUsers(len(r.entries))
	r.logger.Debug("connection registered",
		zap.Int("user_id", user.ID),
		zap.String("conn_id", connID),
		zap.Int("connections", len(entry.ConnIDs)))
	return becameOnline
}

// Deregister removes a connection for the user. It reports whether the user
// has no connections left, i.e. the 1→0 offline transition. Deregistering an
// unknown connection is a no-op, which makes connection teardown idempotent.
func (r *Registry) Deregister(userID int, connID string) (wentOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok {
		return false
	}
	if _, ok := entry.ConnIDs[connID]; !ok {
		return false
	}
	delete(entry.ConnIDs, connID)
	entry.LastSeen = r.clock()
	if len(entry.ConnIDs) == 0 {
		delete(r.entries, userID)
		wentOffline = true
	}

	observability.SetOnlineUsers(len(r.entries))
	r.logger.Debug("connection deregistered",
		zap.Int("user_id", userID),
		zap.String("conn_id", connID),
		zap.Bool("went_offline", wentOffline))
	return wentOffline
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[userID]
	return ok
}

// ActiveConnections returns the connection ids of the user.
func (r *Registry) ActiveConnections(userID int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(entry.ConnIDs))
	for id := range entry.ConnIDs {
		ids = append(ids, id)
	}
	return ids
}

// OnlineUsers returns a snapshot of every online user.
func (r *Registry) OnlineUsers() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make([]Snapshot, 0, len(r.entries))
	for _, entry := range r.entries {
		snapshots = append(snapshots, Snapshot{
			User:     entry.User,
			Devices:  len(entry.ConnIDs),
			LastSeen: entry.LastSeen,
		})
	}
	return snapshots
}
