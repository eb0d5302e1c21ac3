package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nova-sync-backend/internal/model"
)

// GetLogHistory handles GET /api/history/logs?before=RFC3339&limit=n.
func (h *Handler) GetLogHistory(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'before' timestamp format. Use RFC3339."})
			return
		}
		before = t
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit', expected a non-negative integer."})
			return
		}
		limit = n
	}

	logs, err := h.store.ListArchivedLogs(c.Request.Context(), before, limit)
	if err != nil {
		h.logger.Error("failed to list archived logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve archived logs"})
		return
	}
	if logs == nil {
		logs = []model.LogArchive{}
	}
	c.JSON(http.StatusOK, logs)
}

// GetCommandHistory handles GET /api/history/commands/:id.
func (h *Handler) GetCommandHistory(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	id := c.Param("id")
	transitions, err := h.store.ListTransitions(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to list command transitions", zap.String("command_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve command history"})
		return
	}
	if transitions == nil {
		transitions = []model.CommandTransition{}
	}
	c.JSON(http.StatusOK, transitions)
}
