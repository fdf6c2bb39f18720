// Package portfolio maintains the per-keyword "investment" score and the
// per-keyword wrong-answer heatmap counters. Every answered question adjusts
// the credit of each keyword attached to it by a fixed multiplicative rule:
// the score compounds without a floor or ceiling.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hmatsuda/quizfolio/internal/storage"
)

const (
	// PortfolioKey is the store key holding the per-keyword credit map.
	PortfolioKey = "portfolio"
	// StatsKey is the store key holding the per-keyword/day wrong-answer counts.
	StatsKey = "keyword-stats"

	// InitialCredit is assigned the first time a keyword is seen.
	InitialCredit = 100.0
	// CorrectMultiplier compounds credit on a correct answer.
	CorrectMultiplier = 1.05
	// IncorrectMultiplier compounds credit on an incorrect answer.
	IncorrectMultiplier = 0.95

	dayFormat = "2006-01-02"
)

// Entry is the state of a single keyword's score.
type Entry struct {
	Credit      float64   `json:"credit"`
	Growth      float64   `json:"growth"`
	LastUpdated time.Time `json:"last_updated"`
}

// Portfolio maps keyword to its score entry.
type Portfolio map[string]Entry

// KeywordStats maps keyword to day (YYYY-MM-DD) to wrong-answer count.
type KeywordStats map[string]map[string]int

// Aggregator applies the credit rule and persists the full maps after each
// update. Both maps are re-serialized whole on every answer, matching the
// storage layout of the original data.
type Aggregator struct {
	store storage.Store
	now   func() time.Time
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store storage.Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Record applies the credit rule for every keyword of an answered question
// and, on incorrect answers, increments the day-bucketed wrong counters.
// A question with three keywords updates three entries identically.
func (a *Aggregator) Record(ctx context.Context, keywords []string, isCorrect bool) error {
	if len(keywords) == 0 {
		return nil
	}

	portfolio, err := a.Portfolio(ctx)
	if err != nil {
		return err
	}

	now := a.now()
	multiplier := IncorrectMultiplier
	if isCorrect {
		multiplier = CorrectMultiplier
	}

	for _, keyword := range keywords {
		entry, ok := portfolio[keyword]
		if !ok {
			entry = Entry{Credit: InitialCredit}
		}
		oldCredit := entry.Credit
		entry.Credit = oldCredit * multiplier
		entry.Growth = (entry.Credit - oldCredit) / oldCredit * 100
		entry.LastUpdated = now
		portfolio[keyword] = entry
	}

	if err := a.saveJSON(ctx, PortfolioKey, portfolio); err != nil {
		return err
	}

	if isCorrect {
		return nil
	}

	stats, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	day := now.Format(dayFormat)
	for _, keyword := range keywords {
		if stats[keyword] == nil {
			stats[keyword] = map[string]int{}
		}
		stats[keyword][day]++
	}
	return a.saveJSON(ctx, StatsKey, stats)
}

// Portfolio loads the credit map, which is empty rather than nil when the
// store has no entry yet.
func (a *Aggregator) Portfolio(ctx context.Context) (Portfolio, error) {
	portfolio := Portfolio{}
	if err := a.loadJSON(ctx, PortfolioKey, &portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Stats loads the wrong-answer counters.
func (a *Aggregator) Stats(ctx context.Context) (KeywordStats, error) {
	stats := KeywordStats{}
	if err := a.loadJSON(ctx, StatsKey, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Replace overwrites both maps. Used by state import.
func (a *Aggregator) Replace(ctx context.Context, portfolio Portfolio, stats KeywordStats) error {
	if err := a.saveJSON(ctx, PortfolioKey, portfolio); err != nil {
		return err
	}
	return a.saveJSON(ctx, StatsKey, stats)
}

// Clear removes both maps. This is the only operation that resets credit.
func (a *Aggregator) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, PortfolioKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", PortfolioKey, err)
	}
	if err := a.store.Delete(ctx, StatsKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", StatsKey, err)
	}
	return nil
}

func (a *Aggregator) loadJSON(ctx context.Context, key string, target any) error {
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("store.Get(%s) > %w", key, err)
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", key, err)
	}
	return nil
}

func (a *Aggregator) saveJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := a.store.Set(ctx, key, string(raw)); err != nil {
		slog.Error("failed to persist keyword scores", "key", key, "error", err)
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}
