package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/config"
	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/executor"
	"github.com/dukaan-ai/salesbot/internal/handlers"
	"github.com/dukaan-ai/salesbot/internal/providers"
	"github.com/dukaan-ai/salesbot/internal/schema"
	"github.com/dukaan-ai/salesbot/internal/services"
	"github.com/dukaan-ai/salesbot/internal/tenant"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Relational store (also backs preferences and the SQL resolver).
	dbService, err := services.NewDatabaseService(cfg.GetDatabaseURL())
	if err != nil {
		logger.Fatal("failed to initialize database service", zap.Error(err))
	}
	defer dbService.Close()

	if cfg.GetDatabaseURL() != "" {
		if err := dbService.Migrate(); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		if cfg.SeedDemoData {
			if err := dbService.SeedDemoData(context.Background(), "919999000001"); err != nil {
				logger.Warn("failed to seed demo data", zap.Error(err))
			}
		}
		logger.Info("connected to postgres")
	} else {
		logger.Info("DATABASE_URL not set, running without the relational store")
	}

	catalog := schema.Load(cfg.SchemaPath)
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	// Query backend: the REST planner by default, the direct engine when
	// configured and a database is available.
	var (
		exec     domain.QueryExecutor
		resolver domain.TenantResolver
	)
	switch {
	case cfg.QueryBackend == "engine" && dbService.DB() != nil:
		exec = executor.NewEngine(dbService.DB())
		resolver = tenant.NewSQLResolver(dbService.DB())
		logger.Info("using direct engine backend")
	default:
		if cfg.SupabaseURL == "" {
			logger.Fatal("SUPABASE_URL is required for the rest backend")
		}
		tables := executor.NewRESTClient(cfg.SupabaseURL+"/rest/v1", cfg.SupabaseKey, httpClient)
		exec = executor.NewRESTPlanner(tables, catalog, logger)
		resolver = tenant.NewRESTResolver(tables)
		logger.Info("using rest planner backend", zap.String("url", cfg.SupabaseURL))
	}

	// Provider cascade: configured primaries in order, Gemini as the one
	// designated fallback.
	var primaries []domain.ModelProvider
	for _, d := range cfg.Providers {
		switch d.Shape {
		case "chat":
			primaries = append(primaries, providers.NewChatProvider(d.Name, d.Endpoint, d.APIKey, d.Model, httpClient))
		default:
			primaries = append(primaries, providers.NewInferenceProvider(d.Name, d.Endpoint, d.APIKey, httpClient))
		}
	}
	var fallback domain.ModelProvider
	if cfg.GeminiAPIKey != "" {
		fallback = providers.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if len(primaries) == 0 && fallback == nil {
		logger.Warn("no model providers configured, every query will fail")
	}
	cascade := providers.NewCascade(primaries, fallback, catalog, cfg.ExpiryAlertDays, logger)
	cascade.SetAttemptTimeout(cfg.ProviderTimeout)

	var prefs domain.PreferenceStore
	if dbService.DB() != nil {
		prefs = services.NewSQLPreferenceStore(dbService.DB())
	} else {
		prefs = services.NewMemoryPreferenceStore()
	}

	queryService := services.NewQueryService(cascade, exec, resolver, logger)

	// WhatsApp transport.
	var whatsapp domain.WhatsAppService
	if cfg.WhatsAppEnabled {
		wa, err := services.NewWhatsAppService(cfg.GetWhatsAppStorePath(), logger)
		if err != nil {
			logger.Fatal("failed to initialize whatsapp service", zap.Error(err))
		}
		whatsapp = wa
		botHandler := handlers.NewBotHandler(queryService, prefs, whatsapp, logger)
		wa.AddEventHandler(botHandler.HandleMessage)
		defer wa.Disconnect()
		logger.Info("whatsapp bot running")
	} else {
		logger.Info("whatsapp transport disabled")
	}

	if cfg.GetAPIKey() == "" {
		logger.Warn("API_KEY is empty, protected endpoints will reject requests")
	}

	queryHandler := handlers.NewQueryHandler(queryService, prefs, cfg, logger)
	messageHandler := handlers.NewMessageHandler(whatsapp, cfg)

	server := &http.Server{
		Addr:    cfg.GetHTTPAddr(),
		Handler: handlers.NewRouter(queryHandler, messageHandler),
	}
	go func() {
		logger.Info("http api listening", zap.String("addr", cfg.GetHTTPAddr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
