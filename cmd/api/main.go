package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabrica-vision/presenca/internal/api"
	"github.com/fabrica-vision/presenca/internal/attendance"
	"github.com/fabrica-vision/presenca/internal/config"
	"github.com/fabrica-vision/presenca/internal/database"
	"github.com/fabrica-vision/presenca/internal/face"
	"github.com/fabrica-vision/presenca/internal/metrics"
	"github.com/fabrica-vision/presenca/internal/recognizer"
	"github.com/fabrica-vision/presenca/internal/repository"
	"github.com/fabrica-vision/presenca/internal/service"
	"github.com/fabrica-vision/presenca/internal/session"
	"github.com/fabrica-vision/presenca/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Presenca API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		logger.Info("applying pending migrations")
		if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	encoder, err := face.NewFaceEncoder(cfg)
	if err != nil {
		return fmt.Errorf("create face encoder: %w", err)
	}

	m := metrics.New()

	studentRepo := repository.NewStudentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	faceCache := recognizer.NewKnownFaceCache(studentRepo, cfg.CacheMaxAge(), logger)
	matcher := recognizer.NewMatcher(cfg.MatchTolerance)
	guard := attendance.NewGuard(attendanceRepo, logger)
	controller := session.NewController(faceCache, matcher, encoder, guard, m, logger)
	frameBuffer := session.NewFrameBuffer()

	webhookService := webhook.NewService(pool, logger)
	studentService := service.NewStudentService(studentRepo, encoder, faceCache)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo)

	router := api.NewRouter(logger, &api.Dependencies{
		StudentService:    studentService,
		AttendanceService: attendanceService,
		Controller:        controller,
		FrameBuffer:       frameBuffer,
		WebhookService:    webhookService,
		Metrics:           m,
		DB:                pool,
	})
	router.Setup()

	runner := session.NewRunner(
		controller,
		frameBuffer,
		router.Hub(),
		webhookService,
		cfg.TickInterval(),
		logger,
	)
	go runner.Run(ctx)

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
