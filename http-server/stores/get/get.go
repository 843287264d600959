package get

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cert-dashboard/http-server/response"
	"cert-dashboard/internal/service/compliance"
)

type StoreProvider interface {
	Dashboard(ctx context.Context) (compliance.Dashboard, error)
	StoreSummary(ctx context.Context, storeID string) (compliance.StoreSummary, error)
	StoreEmployees(ctx context.Context, storeID string) ([]compliance.ClassifiedEmployee, error)
}

func GetStores(log *slog.Logger, provider StoreProvider, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stores.get.GetStores"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		dashboard, err := provider.Dashboard(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to summarize stores")
			http.Error(w, "Store summaries unavailable", response.StatusFor(err))
			return
		}

		stores := dashboard.Stores
		if stores == nil {
			stores = []compliance.StoreSummary{}
		}

		render.JSON(w, r, stores)
	}
}

func GetStoreSummary(log *slog.Logger, provider StoreProvider, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stores.get.GetStoreSummary"

		storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
		if storeID == "" {
			http.Error(w, "store id is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		summary, err := provider.StoreSummary(ctx, storeID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("store_id", storeID), slog.String("error", err.Error())).Error("failed to summarize store")
			http.Error(w, "Store summary unavailable", response.StatusFor(err))
			return
		}

		render.JSON(w, r, summary)
	}
}

func GetStoreEmployees(log *slog.Logger, provider StoreProvider, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stores.get.GetStoreEmployees"

		storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
		if storeID == "" {
			http.Error(w, "store id is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		employees, err := provider.StoreEmployees(ctx, storeID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("store_id", storeID), slog.String("error", err.Error())).Error("failed to load store employees")
			http.Error(w, "Store employees unavailable", response.StatusFor(err))
			return
		}

		if employees == nil {
			employees = []compliance.ClassifiedEmployee{}
		}

		render.JSON(w, r, employees)
	}
}
