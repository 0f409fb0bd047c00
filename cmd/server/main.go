package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/compliance"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/config"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/database"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/logger"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/notify"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/report"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Wire the compliance core
	ruleStore := store.NewRuleStore(db)
	violationStore := store.NewViolationStore(db)
	tradeStore := store.NewTradeStore(db)
	reporter := report.NewReporter(violationStore)

	var notifier compliance.Notifier
	if wn := notify.NewWebhookNotifier(&cfg.Webhook, log); wn != nil {
		log.Info("Violation webhook enabled", zap.String("url", cfg.Webhook.URL))
		notifier = wn
	}
	engine := compliance.NewEngine(log, ruleStore, violationStore, notifier)

	// Setup HTTP server
	apiHandler := NewAPIHandler(log, db, ruleStore, violationStore, tradeStore, engine, reporter)
	mux := http.NewServeMux()
	apiHandler.Register(mux)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting web server", zap.String("address", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Web server failed", zap.Error(err))
	}

	log.Info("Server has been shut down.")
}
