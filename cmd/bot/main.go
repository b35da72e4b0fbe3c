package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/browser/chrome"
	memorycache "github.com/kitbuilder587/pricehunt-bot/internal/cache/memory"
	"github.com/kitbuilder587/pricehunt-bot/internal/config"
	"github.com/kitbuilder587/pricehunt-bot/internal/extract"
	"github.com/kitbuilder587/pricehunt-bot/internal/llm"
	llmmock "github.com/kitbuilder587/pricehunt-bot/internal/llm/mock"
	"github.com/kitbuilder587/pricehunt-bot/internal/llm/openrouter"
	"github.com/kitbuilder587/pricehunt-bot/internal/metrics"
	"github.com/kitbuilder587/pricehunt-bot/internal/platform"
	"github.com/kitbuilder587/pricehunt-bot/internal/repository/postgres"
	"github.com/kitbuilder587/pricehunt-bot/internal/search"
	"github.com/kitbuilder587/pricehunt-bot/internal/service"
	"github.com/kitbuilder587/pricehunt-bot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := postgres.NewSessionRepo(db)
	historyRepo := postgres.NewHistoryRepo(db)

	m := metrics.New()

	var llmClient llm.Client
	switch cfg.LLM.Provider {
	case "openrouter":
		llmClient = openrouter.New(openrouter.Config{
			APIKey:  cfg.LLM.OpenRouter.APIKey,
			Model:   cfg.LLM.OpenRouter.Model,
			BaseURL: cfg.LLM.OpenRouter.BaseURL,
			Timeout: cfg.LLM.OpenRouter.Timeout,
		}, logger)
	case "mock":
		logger.Warn("using mock LLM client, extraction will return no products")
		llmClient = llmmock.New()
	default:
		logger.Fatal("unknown LLM provider", zap.String("provider", cfg.LLM.Provider))
	}

	fetcher := chrome.New(chrome.Config{
		Headless:   cfg.Browser.Headless,
		Slots:      cfg.Browser.Slots,
		NavTimeout: cfg.Browser.NavTimeout,
	}, logger)

	extractor := extract.NewLLMExtractor(llmClient, extract.LLMConfig{Metrics: m}, logger)

	registry := platform.NewAllWorkers(fetcher, extractor, logger)

	dispatcher := search.NewDispatcher(registry, search.DispatcherConfig{
		WorkerTimeout: cfg.Search.WorkerTimeout,
	}, logger, m)

	resultCache := memorycache.NewWithContext(ctx)

	searchSvc := service.NewSearchService(service.SearchServiceDeps{
		Dispatcher: dispatcher,
		Sessions:   sessionRepo,
		History:    historyRepo,
		Cache:      resultCache,
		Logger:     logger,
		Metrics:    m,
		Config: service.SearchConfig{
			TopDeals: cfg.Search.TopDeals,
			CacheTTL: cfg.Search.CacheTTL,
		},
	})
	sessionSvc := service.NewSessionService(sessionRepo, historyRepo, logger)

	metricsServer := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: metrics.Handler(),
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	bot, err := telegram.New(telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		Debug:             cfg.Telegram.Debug,
		SearchesPerMinute: cfg.RateLimit.SearchesPerMinute,
		Platforms:         cfg.Search.Platforms,
		MaxPerPlatform:    cfg.Search.MaxPerPlatform,
		DefaultMode:       cfg.Search.Mode,
	}, searchSvc, sessionSvc, logger, m)
	if err != nil {
		logger.Fatal("failed to create telegram bot", zap.Error(err))
	}

	logger.Info("pricehunt bot starting",
		zap.Strings("platforms", cfg.Search.Platforms),
		zap.String("mode", cfg.Search.Mode.String()),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", zap.Error(err))
	}

	logger.Info("bot stopped")
}
