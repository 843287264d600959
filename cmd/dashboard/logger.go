package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// dualHandler writes everything to the core handler and mirrors errors to a second one.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var coreErr, fileErr error

	if h.coreHandler.Enabled(ctx, r.Level) {
		coreErr = h.coreHandler.Handle(ctx, r)
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		fileErr = h.errorHandler.Handle(ctx, r.Clone())
	}

	return errors.Join(coreErr, fileErr)
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func coreHandler(env string) slog.Handler {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if env == envDev {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.NewTextHandler(os.Stdout, opts)
}

// setupLogger returns the logger and a func closing the error file, if one was opened.
func setupLogger(env, errorLogPath string) (*slog.Logger, func()) {
	core := coreHandler(env)

	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(core)
		logger.Warn("cannot open error log file, continuing without it", slog.String("error", err.Error()))
		return logger, func() {}
	}

	handler := &dualHandler{
		coreHandler:  core,
		errorHandler: slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	return slog.New(handler), func() { errorFile.Close() }
}
