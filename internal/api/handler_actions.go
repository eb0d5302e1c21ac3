package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nova-sync-backend/internal/feed"
	"nova-sync-backend/internal/model"
)

// actionRequest carries the logs to analyze. A missing logs field means the
// current feed window.
type actionRequest struct {
	Logs *[]model.SystemLog `json:"logs"`
}

// bindLogs resolves the logs for an action request. It answers 400 and
// returns false on a malformed body.
func (h *Handler) bindLogs(c *gin.Context) ([]model.SystemLog, bool) {
	var req actionRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
	}
	if req.Logs != nil {
		return *req.Logs, true
	}

	snap, err := h.hub.Snapshot(feed.KeyLogs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return snap.Logs, true
}

// PostOnboardingTips handles POST /api/actions/onboarding-tips.
func (h *Handler) PostOnboardingTips(c *gin.Context) {
	logs, ok := h.bindLogs(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.actions.GetOnboardingTips(c.Request.Context(), logs))
}

// PostActivitySummary handles POST /api/actions/activity-summary.
func (h *Handler) PostActivitySummary(c *gin.Context) {
	logs, ok := h.bindLogs(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.actions.GetSystemActivitySummary(c.Request.Context(), logs))
}
