package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studypulse/studypulse/internal/api"
	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/config"
	"github.com/studypulse/studypulse/internal/db"
	"github.com/studypulse/studypulse/internal/jobs"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/notify"
	"github.com/studypulse/studypulse/internal/projector"
	"github.com/studypulse/studypulse/internal/repository/sqlite"
	"github.com/studypulse/studypulse/internal/services"
	"github.com/studypulse/studypulse/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyPulse Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("notification_batch_size=%d", cfg.NotificationBatchSize)
	log.Debug("notification_tick_interval=%s", cfg.NotificationTickInterval)
	log.Debug("projection_interval=%s", cfg.ProjectionInterval)
	log.Debug("overdue_scan_interval=%s", cfg.OverdueScanInterval)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	clk := clock.System{}

	// Repositories
	scheduleRepo := sqlite.NewScheduleRepository(database.DB)
	eventRepo := sqlite.NewEventRepository(database.DB)
	recordRepo := sqlite.NewStudyRecordRepository(database.DB)
	notificationRepo := sqlite.NewNotificationRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	// Notification subsystem
	notifScheduler := notify.NewScheduler(notificationRepo, clk)
	processor := notify.NewQueueProcessor(notificationRepo, settingsRepo, notify.LogSender{}, clk, cfg.SendTimeout)

	// Services
	reviewQueue := services.NewReviewQueueService(scheduleRepo, recordRepo, notifScheduler, clk)
	scheduleService := services.NewScheduleService(scheduleRepo, recordRepo, clk)
	difficultyService := services.NewDifficultyService(scheduleRepo, recordRepo)
	proj := projector.New(eventRepo, recordRepo)

	// Background jobs
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	jobQueue := jobs.NewWorkerQueue(pool, proj, processor, reviewQueue, notifScheduler, scheduleRepo, clk, cfg.MaxConcurrentScan)

	srv := &api.Server{
		DB:                      database.DB,
		ReviewQueue:             reviewQueue,
		Schedules:               scheduleService,
		Difficulty:              difficultyService,
		Processor:               processor,
		NotificationRepo:        notificationRepo,
		JobQueue:                jobQueue,
		NotificationBatchSize:   cfg.NotificationBatchSize,
		NotificationBatchBudget: cfg.NotificationBatchBudget,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	// Periodic tickers feed the worker pool.
	go runTicker(ctx, cfg.ProjectionInterval, func() error {
		return jobQueue.EnqueueProjection(cfg.ProjectionBatchLimit)
	})
	go runTicker(ctx, cfg.NotificationTickInterval, func() error {
		return jobQueue.EnqueueNotificationTick(notify.BatchOptions{
			BatchSize:         cfg.NotificationBatchSize,
			MaxProcessingTime: cfg.NotificationBatchBudget,
		})
	})
	go runTicker(ctx, cfg.OverdueScanInterval, jobQueue.EnqueueOverdueScan)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping tickers and workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	pool.Stop()

	log.Info("===========================================")
	log.Info("StudyPulse Server Stopped")
	log.Info("===========================================")
}

// runTicker enqueues a job on every tick until the context ends. A full
// queue only logs; the next tick tries again.
func runTicker(ctx context.Context, interval time.Duration, enqueue func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := enqueue(); err != nil {
				logger.Default().Warn("failed to enqueue periodic job: %v", err)
			}
		}
	}
}
