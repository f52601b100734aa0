package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avanderwijk/lotkeeper/internal/api"
	"github.com/avanderwijk/lotkeeper/internal/config"
	"github.com/avanderwijk/lotkeeper/internal/database"
	"github.com/avanderwijk/lotkeeper/internal/pricefeed"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/avanderwijk/lotkeeper/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	taxLotRepo := repository.NewTaxLotRepository(db)
	realizedGainRepo := repository.NewRealizedGainRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	systemService, err := service.NewSystemService(db, settingRepo, cfg.Security.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create system service: %v", err)
	}
	assetService := service.NewAssetService(assetRepo)
	ledgerService := service.NewLedgerService(
		db,
		assetService,
		transactionRepo,
		taxLotRepo,
		realizedGainRepo,
	)
	reportingService := service.NewReportingService(
		taxLotRepo,
		realizedGainRepo,
	)
	priceService := service.NewPriceService(
		assetRepo,
		priceRepo,
		pricefeed.NewFinanceClient(cfg.PriceFeed.QuoteBaseURL),
	)

	// Schedule the background price-cache refresh when configured
	scheduler := cron.New()
	if cfg.PriceFeed.RefreshSchedule != "" {
		_, err := scheduler.AddFunc(cfg.PriceFeed.RefreshSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := priceService.RefreshAll(ctx); err != nil {
				log.Printf("Price refresh failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid price refresh schedule %q: %v", cfg.PriceFeed.RefreshSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("Scheduled price refresh: %s", cfg.PriceFeed.RefreshSchedule)
	}

	// Create router
	router := api.NewRouter(systemService, ledgerService, reportingService, priceService, assetService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
