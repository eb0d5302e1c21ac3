package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"nova-sync-backend/config"
	"nova-sync-backend/internal/action"
	"nova-sync-backend/internal/ai"
	"nova-sync-backend/internal/api"
	"nova-sync-backend/internal/db"
	"nova-sync-backend/internal/feed"
	"nova-sync-backend/internal/notification"
	"nova-sync-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "novasyncd",
		Short:        "Nova Sync dashboard backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or "+defaultConfigPath+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newAskCmd(opts))
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// resolveConfigPath picks the flag, then CONFIG_PATH, then the default path.
// explicit is false only for the default path.
func resolveConfigPath(flag string, getenv func(string) string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := getenv("CONFIG_PATH"); env != "" {
		return env, true
	}
	return defaultConfigPath, false
}

// loadConfig falls back to built-in defaults only when the default path is missing.
func loadConfig(flag string, logger *zap.Logger) (*config.Config, error) {
	path, explicit := resolveConfigPath(flag, os.Getenv)
	cfg, err := config.Load(path)
	if err == nil {
		logger.Info("configuration loaded", zap.String("path", path))
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		logger.Info("no configuration file, using defaults", zap.String("path", path))
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
}

func newHub(cfg *config.Config, logger *zap.Logger) *feed.Hub {
	seed := cfg.Simulator.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return feed.NewHub(feed.SeedDataset(time.Now()),
		feed.WithInterval(cfg.Simulator.Interval),
		feed.WithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		feed.WithLogger(logger))
}

func newActions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*action.Actions, error) {
	loc, err := cfg.AI.Location()
	if err != nil {
		return nil, err
	}

	var model ai.Model = ai.UnavailableModel{}
	if cfg.AI.APIKey == "" {
		logger.Warn("no AI API key configured, actions will report failures")
	} else {
		gm, err := ai.NewGeminiModel(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			return nil, err
		}
		logger.Info("AI model ready", zap.String("model", gm.Name()))
		model = gm
	}

	return action.New(ai.NewFlows(model, cfg.AI.Timeout, logger), loc, logger), nil
}

func runServer(parent context.Context, opts *rootOptions) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfig(opts.configPath, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	if !opts.verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := newHub(cfg, logger)
	actions, err := newActions(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}

	handlerOpts := []api.Option{
		api.WithClientConfig(cfg.Client),
		api.WithStreamBuffer(cfg.Server.StreamBuffer),
		api.WithLogger(logger),
	}

	var gormDB *gorm.DB
	if cfg.Database.DSN != "" {
		gormDB, err = db.Init(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to initialize database", zap.Error(err))
			return err
		}
		appStore := store.NewGormStore(gormDB)
		hub.OnChange(store.NewArchiver(appStore, logger).HandleChange)
		handlerOpts = append(handlerOpts, api.WithStore(appStore))
	} else {
		logger.Warn("no database configured, history and push subscriptions are disabled")
	}

	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		handlerOpts = append(handlerOpts, api.WithWebPush(webpushOptions))

		if gormDB != nil {
			pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, gormDB, webpushOptions, logger)
			pool.Start(ctx)
			hub.OnChange(pool.HandleChange)
			logger.Info("push notifications enabled", zap.Int("workers", cfg.WorkerPool.Size))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	handler := api.NewHandler(hub, actions, handlerOpts...)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(gctx, handler, &cfg.Server, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(handler.CloseStreams)

	g.Go(func() error {
		logger.Info("feed hub starting", zap.Duration("interval", hub.Interval()))
		return hub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, stopping services")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
