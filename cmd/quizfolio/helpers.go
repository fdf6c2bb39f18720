package main

import (
	"fmt"

	"github.com/hmatsuda/quizfolio/internal/config"
	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/portfolio"
	"github.com/hmatsuda/quizfolio/internal/question"
	"github.com/hmatsuda/quizfolio/internal/storage"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the store and the services built on top of it. Every command
// opens its own app and closes it when done.
type app struct {
	store   *storage.SQLStore
	repo    *question.Repository
	answers *history.Log
	scores  *portfolio.Aggregator
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := storage.Open(cfg.Store.Path, int(cfg.Store.QuotaBytes))
	if err != nil {
		return nil, fmt.Errorf("storage.Open(%s) > %w", cfg.Store.Path, err)
	}
	repo, err := question.NewRepository(store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("question.NewRepository() > %w", err)
	}
	return &app{
		store:   store,
		repo:    repo,
		answers: history.NewLog(store),
		scores:  portfolio.NewAggregator(store),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
