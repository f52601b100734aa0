package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avanderwijk/lotkeeper/internal/api/handlers"
	custommiddleware "github.com/avanderwijk/lotkeeper/internal/api/middleware"
	"github.com/avanderwijk/lotkeeper/internal/config"
	"github.com/avanderwijk/lotkeeper/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	ledgerService *service.LedgerService,
	reportingService *service.ReportingService,
	priceService *service.PriceService,
	assetService *service.AssetService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace, no owner required
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Put("/settings/{key}", systemHandler.UpdateSetting)
		})

		// Ledger routes, scoped to the owner identified by the request
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireOwner)

			r.Route("/transaction", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(ledgerService)
				r.Post("/", transactionHandler.CreateTransaction)
				r.Get("/", transactionHandler.AllTransactions)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
				})
			})

			reportHandler := handlers.NewReportHandler(reportingService, priceService)
			r.Get("/lot", reportHandler.TaxLots)
			r.Route("/report", func(r chi.Router) {
				r.Get("/cost-basis", reportHandler.CostBasis)
				r.Get("/unrealized", reportHandler.UnrealizedGains)
				r.Get("/tax-summary", reportHandler.TaxSummary)
			})

			assetHandler := handlers.NewAssetHandler(assetService)
			r.Get("/asset", assetHandler.AllAssets)
		})
	})

	return r
}
