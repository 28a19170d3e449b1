package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/config"
	appHTTP "github.com/fieldvolt/workforce-backend-go/internal/handler/http"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/auditlog"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/cron"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/database"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/joblock"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/jwt"
	"github.com/fieldvolt/workforce-backend-go/internal/repository/postgresql"
	reconciliationService "github.com/fieldvolt/workforce-backend-go/internal/service/reconciliation"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	rosterRepo := postgresql.NewRosterRepository(db)
	reconciliationRepo := postgresql.NewReconciliationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	lock := joblock.NewRedisLock(rdb)
	audit := auditlog.New(cfg.Reconciliation.AuditLogPath)

	reconciliationSvc := reconciliationService.NewReconciliationService(
		rosterRepo,
		reconciliationRepo,
		lock,
		audit,
		cfg.Reconciliation,
	)

	reconciliationHandler := appHTTP.NewReconciliationHandler(reconciliationSvc)

	router := appHTTP.NewRouter(
		JWTService,
		reconciliationHandler,
		cfg.App.InternalSecret,
		cfg.App.Env,
	)

	scheduler := cron.NewScheduler()
	cron.NewReconciliationJobs(reconciliationSvc, cfg.Reconciliation).RegisterJobs(scheduler)
	scheduler.Start()

	srv := &http.Server{
		Addr:     fmt.Sprintf(":%d", cfg.App.Port),
		Handler:  router,
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	<-quit
	slog.Info("Shutting down...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
