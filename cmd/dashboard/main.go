package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cert-dashboard/internal/config"
	"cert-dashboard/internal/service/compliance"
	generate_excel "cert-dashboard/internal/service/generate-excel"
	"cert-dashboard/internal/storage"
	"cert-dashboard/internal/storage/excel"
	"cert-dashboard/internal/storage/mysql"
)

func main() {
	cfg := config.MustConfig()

	log, closeLog := setupLogger(cfg.Env, "errors.log")
	defer closeLog()

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		log.Error("failed to open snapshot repository", slog.String("source", cfg.Source), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	complianceService := compliance.NewService(repo, compliance.NewClassifier(cfg.WarningThresholdDays))
	reportService := generate_excel.NewGenerateService(complianceService)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, complianceService, reportService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.FetchTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("source", cfg.Source),
		slog.Int("warning_threshold_days", cfg.WarningThresholdDays),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

func openRepository(cfg *config.Config) (storage.SnapshotRepository, func(), error) {
	switch cfg.Source {
	case config.SourceMySQL:
		db, err := mysql.New(*cfg)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		repo, err := excel.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
