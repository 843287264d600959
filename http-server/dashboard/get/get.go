package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cert-dashboard/http-server/response"
	"cert-dashboard/internal/service/compliance"
)

type DashboardProvider interface {
	Dashboard(ctx context.Context) (compliance.Dashboard, error)
	Attention(ctx context.Context) ([]compliance.ClassifiedEmployee, error)
}

// GetFranchiseSummary returns the franchise roll-up with the store summaries behind it.
func GetFranchiseSummary(log *slog.Logger, provider DashboardProvider, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.GetFranchiseSummary"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		dashboard, err := provider.Dashboard(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to build franchise summary")
			http.Error(w, "Summary unavailable", response.StatusFor(err))
			return
		}

		render.JSON(w, r, dashboard)
	}
}

// GetAttention lists expired and never-certified employees across every store.
func GetAttention(log *slog.Logger, provider DashboardProvider, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.GetAttention"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		employees, err := provider.Attention(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to build attention list")
			http.Error(w, "Attention list unavailable", response.StatusFor(err))
			return
		}

		if employees == nil {
			employees = []compliance.ClassifiedEmployee{}
		}

		render.JSON(w, r, employees)
	}
}
