package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/config"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/gemini"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/knowledge"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/ollama"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/parser"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/storage"
	"github.com/yourusername/prana-whatsapp-bot/internal/usecase"
)

// app ishga tushirilgan komponentlar
type app struct {
	history    repository.HistoryRepository
	menuRepo   repository.MenuRepository
	store      repository.KnowledgeStore
	dispatcher usecase.Dispatcher
	importer   usecase.MenuImporter
	closers    []io.Closer
}

// openStores bilimlar fayllari va (sozlangan bo'lsa) SQLite menyu bazasi
func openStores(cfg *config.Config) (*app, error) {
	a := &app{store: knowledge.NewFileStore(cfg.DataDir)}

	if cfg.MenuDBPath != "" {
		menuRepo, err := storage.NewSQLiteMenuRepository(cfg.MenuDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open menu database: %w", err)
		}
		a.menuRepo = menuRepo
		a.closers = append(a.closers, menuRepo)
	}

	a.importer = usecase.NewMenuImporter(parser.NewMenuExcelParser(logger), a.menuRepo, a.store, logger)
	return a, nil
}

// buildApp to'liq dispatcher bilan ilovani yig'ish
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a, err := openStores(cfg)
	if err != nil {
		return nil, err
	}

	kb, err := usecase.LoadKnowledgeBase(ctx, a.store, a.menuRepo)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load knowledge base from %s: %w", cfg.DataDir, err)
	}
	logger.Info("Bilimlar bazasi yuklandi",
		zap.Int("items", len(kb.Items)),
		zap.Int("categories", len(kb.Sections)))

	responder, err := newResponder(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := responder.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	var opts []usecase.DispatcherOption
	if responder != nil {
		opts = append(opts, usecase.WithGenerative(
			usecase.NewGenerativeResponder(ctx, responder, cfg.LLMTimeout, logger)))
	}

	a.history = storage.NewMemoryHistoryRepository(cfg.MaxHistorySize)
	a.dispatcher, err = usecase.NewDispatcher(kb, a.history, logger, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// newResponder LLM_PROVIDER bo'yicha generativ provayder. Bo'sh bo'lsa nil.
func newResponder(ctx context.Context, cfg *config.Config) (repository.Responder, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return ollama.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, &http.Client{Timeout: cfg.LLMTimeout}), nil
	case config.ProviderGemini:
		r, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return r, nil
	default:
		return nil, nil
	}
}

// Close ochilgan resurslarni yopish
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}
}
