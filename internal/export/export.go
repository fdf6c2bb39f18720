// Package export serializes the whole study state to one JSON document and
// restores it into a fresh store. Exporting and re-importing reproduces an
// equivalent question table, answer history, portfolio, and heatmap.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/portfolio"
	"github.com/hmatsuda/quizfolio/internal/question"
)

// Snapshot is the exported document shape.
type Snapshot struct {
	ExportedAt   time.Time              `json:"exported_at"`
	Questions    []question.Question    `json:"questions"`
	Batches      []question.ImportBatch `json:"import_batches"`
	Answers      []history.UserAnswer   `json:"answers"`
	Portfolio    portfolio.Portfolio    `json:"portfolio"`
	KeywordStats portfolio.KeywordStats `json:"keyword_stats"`
}

// Service reads and writes snapshots through the domain components so the
// persisted layout stays their concern.
type Service struct {
	repo *question.Repository
	log  *history.Log
	agg  *portfolio.Aggregator
}

// NewService creates an export service.
func NewService(repo *question.Repository, log *history.Log, agg *portfolio.Aggregator) *Service {
	return &Service{repo: repo, log: log, agg: agg}
}

// Export collects the current state into one JSON document.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ListAll() > %w", err)
	}
	batches, err := s.repo.ListBatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ListBatches() > %w", err)
	}
	answers, err := s.log.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("log.All() > %w", err)
	}
	scores, err := s.agg.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("agg.Portfolio() > %w", err)
	}
	stats, err := s.agg.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("agg.Stats() > %w", err)
	}

	snapshot := Snapshot{
		ExportedAt:   time.Now(),
		Questions:    questions,
		Batches:      batches,
		Answers:      answers,
		Portfolio:    scores,
		KeywordStats: stats,
	}
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent() > %w", err)
	}
	return raw, nil
}

// Import restores a snapshot, replacing whatever state the store holds.
func (s *Service) Import(ctx context.Context, data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("json.Unmarshal(snapshot) > %w", err)
	}

	if err := s.repo.Replace(ctx, snapshot.Questions, snapshot.Batches); err != nil {
		return fmt.Errorf("repo.Replace() > %w", err)
	}
	if err := s.log.Replace(ctx, snapshot.Answers); err != nil {
		return fmt.Errorf("log.Replace() > %w", err)
	}
	if snapshot.Portfolio == nil {
		snapshot.Portfolio = portfolio.Portfolio{}
	}
	if snapshot.KeywordStats == nil {
		snapshot.KeywordStats = portfolio.KeywordStats{}
	}
	if err := s.agg.Replace(ctx, snapshot.Portfolio, snapshot.KeywordStats); err != nil {
		return fmt.Errorf("agg.Replace() > %w", err)
	}
	return nil
}
