package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"trading-journal/internal/httpapi"
	"trading-journal/internal/insights"
	"trading-journal/internal/llm"
	"trading-journal/internal/logger"
	"trading-journal/internal/narrative"
	"trading-journal/internal/repository/memory"
	"trading-journal/internal/store"
	"trading-journal/internal/tradeinput"
	"trading-journal/internal/tradelog"
	"trading-journal/internal/types"
)

// initializeSystem loads .env and starts logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	decimal.MarshalJSONWithoutQuotes = true
	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs gzips journal files past the retention window
func compressOldLogs(ctx context.Context, cfg *store.Config, j *tradelog.Journal) {
	if cfg.Journal.RetentionDays <= 0 {
		return
	}
	n, err := j.CompressOlder(cfg.Journal.RetentionDays)
	if err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
		return
	}
	if n > 0 {
		logger.Info(ctx, "Compressed old journal logs", "files", n)
	}
}

// initializeRepositories creates the stores and seeds sample trades when enabled
func initializeRepositories(ctx context.Context, cfg *store.Config) (*memory.TradeStore, *memory.SuggestionStore, error) {
	trades := memory.NewTradeStore()
	if cfg.Journal.SeedSamples {
		if err := trades.Seed(ctx, memory.SampleTrades()); err != nil {
			return nil, nil, fmt.Errorf("failed to seed sample trades: %w", err)
		}
		logger.Info(ctx, "Seeded sample trades")
	}
	return trades, memory.NewSuggestionStore(), nil
}

// initializeServer wires the generator, insights service and HTTP router
func initializeServer(ctx context.Context, cfg *store.Config) (*httpapi.Server, error) {
	gen, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	journal := tradelog.New(cfg.Journal.LogDir)
	compressOldLogs(ctx, cfg, journal)

	trades, suggestions, err := initializeRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := insights.NewService(gen, narrative.NewHistory(cfg.Chat.MaxTurns), insights.WithJournal(journal))
	return httpapi.NewServer(httpapi.Deps{
		Trades:      trades,
		Suggestions: suggestions,
		Insights:    svc,
		Journal:     journal,
		Logger:      logger.AccessLogger(),
	}, cfg.Server.CORSOrigin), nil
}

// readTrades loads a JSON array of loosely keyed trades from path
func readTrades(path string) ([]types.Trade, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raws []map[string]any
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tradeinput.NormalizeAll(raws)
}
