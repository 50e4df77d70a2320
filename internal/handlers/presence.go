package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/presence"
)

// PresenceHandler exposes the connected-users snapshot to the REST layer.
type PresenceHandler struct {
	registry *presence.Registry
}

// NewPresenceHandler builds a PresenceHandler.
func NewPresenceHandler(registry *presence.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

// OnlineUsers returns every user with at least one live connection.
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	snapshots := h.registry.OnlineUsers()
	c.JSON(http.StatusOK, gin.H{
		"users": snapshots,
		"count": len(snapshots),
	})
}
