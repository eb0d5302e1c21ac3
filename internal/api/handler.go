package api

import (
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nova-sync-backend/config"
	"nova-sync-backend/internal/action"
	"nova-sync-backend/internal/feed"
	"nova-sync-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	hub          *feed.Hub
	actions      *action.Actions
	store        store.Store // nil when the archive is disabled
	webpush      *webpush.Options
	client       config.ClientConfig
	streamBuffer int
	logger       *zap.Logger

	done      chan struct{} // closed by CloseStreams
	closeOnce sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithStore enables the history and subscription endpoints.
func WithStore(s store.Store) Option {
	return func(h *Handler) { h.store = s }
}

// WithWebPush exposes the VAPID public key.
func WithWebPush(o *webpush.Options) Option {
	return func(h *Handler) { h.webpush = o }
}

// WithClientConfig sets the credentials served on /client_config.
func WithClientConfig(c config.ClientConfig) Option {
	return func(h *Handler) { h.client = c }
}

// WithStreamBuffer sets how many frames a slow stream client may fall behind.
func WithStreamBuffer(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.streamBuffer = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a new API handler.
func NewHandler(hub *feed.Hub, actions *action.Actions, opts ...Option) *Handler {
	h := &Handler{
		hub:          hub,
		actions:      actions,
		streamBuffer: 8,
		logger:       zap.NewNop(),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CloseStreams ends every open feed stream. Register it with
// http.Server.RegisterOnShutdown; Shutdown does not cancel request contexts.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.done) })
}

// requireStore answers 503 and returns false when there is no archive.
func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "archive database is not configured"})
		return false
	}
	return true
}
