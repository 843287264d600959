package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	getdashboard "cert-dashboard/http-server/dashboard/get"
	generate_excel "cert-dashboard/http-server/generate-report/generate-excel"
	getstores "cert-dashboard/http-server/stores/get"
	"cert-dashboard/internal/config"
	"cert-dashboard/internal/middleware/auth"
	"cert-dashboard/internal/service/compliance"
)

func routes(cfg config.Config, log *slog.Logger, service *compliance.Service, report generate_excel.GenerateExcelHandler) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	timeout := cfg.FetchTimeout

	router.Get("/api/franchise/summary", getdashboard.GetFranchiseSummary(log, service, timeout))
	router.Get("/api/attention", getdashboard.GetAttention(log, service, timeout))

	router.Get("/api/stores", getstores.GetStores(log, service, timeout))
	router.Get("/api/stores/{storeID}/summary", getstores.GetStoreSummary(log, service, timeout))
	router.Get("/api/stores/{storeID}/employees", getstores.GetStoreEmployees(log, service, timeout))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Get("/report/excel", generate_excel.GenerateReportExcel(log, report, 2*timeout))
	router.Mount("/api/admin", adminRouter)

	router.Handle("/metrics", promhttp.Handler())

	return router
}
