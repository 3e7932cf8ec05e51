package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agreetime-api/core/cache"
	"agreetime-api/core/config"
	"agreetime-api/core/constants"
	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/core/middleware"
	"agreetime-api/core/queue"
	"agreetime-api/core/storage"
	"agreetime-api/modules/approval"
	"agreetime-api/modules/attachment"
	"agreetime-api/modules/availability"
	"agreetime-api/modules/calendar"
	"agreetime-api/modules/comment"
	"agreetime-api/modules/event"
	"agreetime-api/modules/history"
	"agreetime-api/modules/notification"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
)

// Run boots every subsystem and blocks until shutdown: HTTP API, asynq
// worker, and the availability reconciler cron.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return err
	}

	if _, err := cache.InitCache(cache.CacheConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); err != nil {
		return err
	}

	queueCfg := queue.QueueConfig{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	}
	client := queue.InitClient(queueCfg)
	defer client.Close()

	if _, err := storage.InitStorage(cfg); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	middleware.Setup(e)
	mw := middleware.NewMiddleware(cache.GetCache())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	event.Init(e, db, mw)
	approval.Init(e, db, mw)
	availability.Init(e, db, mw)
	calendar.Init(e, db, mw)
	comment.Init(e, db, mw)
	attachment.Init(e, db, mw)
	history.Init(e, db, mw)
	notification.Init(e, db, mw)

	// Worker: transition notifications fan out into participant inboxes.
	worker, mux := queue.NewServer(queueCfg)
	notification.RegisterTasks(mux, db)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("asynq worker stopped", err)
		}
	}()

	// The reconciler rebuilds the availability index from confirmed events,
	// repairing any drift left by partial failures.
	availabilitySvc := availability.NewService(db)
	c := cron.New()
	if _, err := c.AddFunc(constants.CronAvailabilityReconcile, func() {
		if err := availabilitySvc.Reconcile(context.Background()); err != nil {
			logger.Error("availability reconcile failed", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule reconciler: %w", err)
	}
	c.Start()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Port, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	worker.Shutdown()
	cronCtx := c.Stop()
	<-cronCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
