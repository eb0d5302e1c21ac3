package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nova-sync-backend/internal/action"
	"nova-sync-backend/internal/feed"
)

// GetFeed handles GET /api/feed/:key.
func (h *Handler) GetFeed(c *gin.Context) {
	key, err := feed.ParseKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.hub.Snapshot(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap.Data())
}

// StreamFeed handles GET /api/feed/:key/stream. The first event carries the
// current snapshot; one event follows per tick. Frames are dropped when the
// client falls more than streamBuffer frames behind.
func (h *Handler) StreamFeed(c *gin.Context) {
	key, err := feed.ParseKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	frames := make(chan feed.Snapshot, h.streamBuffer)
	unsubscribe, err := h.hub.Subscribe(key, func(s feed.Snapshot) {
		select {
		case frames <- s:
		default:
			h.logger.Debug("stream client behind, dropping frame", zap.String("key", string(key)))
		}
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.done:
			return false
		case s := <-frames:
			c.SSEvent(string(s.Key), s.Data())
			return true
		}
	})
}

// GetPresence handles GET /api/presence.
func (h *Handler) GetPresence(c *gin.Context) {
	users, err := h.hub.Snapshot(feed.KeyUsers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status, err := h.hub.Snapshot(feed.KeyStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, action.Presence(users.Users, *status.Status))
}
