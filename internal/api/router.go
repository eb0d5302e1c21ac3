package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"nova-sync-backend/config"
	"nova-sync-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. ctx bounds the
// background sweep of idle rate limiter entries.
func NewRouter(ctx context.Context, handler *Handler, cfg *config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(logger))

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	go limiter.RunSweeper(ctx, time.Minute, 10*time.Minute)

	caching := mw.Cache(mw.NewCacheStore(cfg.CacheTTL), cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter))
	{
		api.GET("/feed/:key", handler.GetFeed)
		api.GET("/feed/:key/stream", handler.StreamFeed)
		api.GET("/presence", handler.GetPresence)

		api.POST("/actions/onboarding-tips", handler.PostOnboardingTips)
		api.POST("/actions/activity-summary", handler.PostActivitySummary)

		api.GET("/history/logs", caching, handler.GetLogHistory)
		api.GET("/history/commands/:id", caching, handler.GetCommandHistory)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
		api.GET("/client_config", handler.GetClientConfig)
	}

	return r
}
