package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hmatsuda/quizfolio/internal/storage"
)

// StorageKey is the store key holding the question table and batch records.
const StorageKey = "questions"

// InsertResult reports per-record accounting for one import.
type InsertResult struct {
	BatchID string
	Total   int
	Success int
	Failed  int
	// Failures holds one translated message list per rejected record,
	// keyed by the record's position in the input.
	Failures map[int][]string
}

// Repository owns the authoritative list of questions. Every operation reads
// the whole table from the store, mutates it in memory, and writes it back.
type Repository struct {
	store     storage.Store
	validator *Validator
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) (*Repository, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("NewValidator() > %w", err)
	}
	return &Repository{store: store, validator: v}, nil
}

func (r *Repository) load(ctx context.Context) (tables, error) {
	var db tables
	raw, found, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return db, fmt.Errorf("store.Get(%s) > %w", StorageKey, err)
	}
	if !found {
		return db, nil
	}
	if err := json.Unmarshal([]byte(raw), &db); err != nil {
		return db, fmt.Errorf("json.Unmarshal(%s) > %w", StorageKey, err)
	}
	return db, nil
}

func (r *Repository) save(ctx context.Context, db tables) error {
	raw, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", StorageKey, err)
	}
	if err := r.store.Set(ctx, StorageKey, string(raw)); err != nil {
		slog.Error("failed to persist question table", "error", err)
		return fmt.Errorf("store.Set(%s) > %w", StorageKey, err)
	}
	return nil
}

// Insert validates and appends questions as one import batch. Records failing
// validation are counted and reported but never persisted; there is no
// rollback of the records that passed.
func (r *Repository) Insert(ctx context.Context, questions []Question, meta BatchMeta) (InsertResult, error) {
	db, err := r.load(ctx)
	if err != nil {
		return InsertResult{}, err
	}

	now := time.Now()
	batchID := fmt.Sprintf("batch_%d", now.UnixMilli())
	result := InsertResult{
		BatchID:  batchID,
		Total:    len(questions),
		Failures: map[int][]string{},
	}

	taken := make(map[int64]bool, len(db.Questions))
	for _, q := range db.Questions {
		taken[q.ID] = true
	}

	for i, q := range questions {
		if q.Difficulty == "" {
			q.Difficulty = DifficultyIntermediate
		}
		if q.Status == "" {
			q.Status = StatusActive
		}
		if messages := r.validator.Validate(q); len(messages) > 0 {
			result.Failed++
			result.Failures[i] = messages
			continue
		}

		q.ID = newID(taken)
		taken[q.ID] = true
		q.CreatedAt = now
		q.UpdatedAt = now
		q.ImportBatchID = batchID
		db.Questions = append(db.Questions, q)
		result.Success++
	}

	db.ImportBatches = append(db.ImportBatches, ImportBatch{
		ID:             batchID,
		Filename:       meta.Filename,
		TotalQuestions: result.Total,
		SuccessCount:   result.Success,
		FailedCount:    result.Failed,
		ImportDate:     now,
		FileSize:       meta.FileSize,
		FileType:       meta.FileType,
	})

	if err := r.save(ctx, db); err != nil {
		return InsertResult{}, err
	}
	return result, nil
}

// Update replaces the stored record matching the question's ID and refreshes
// updated_at. It returns false when the ID is unknown.
func (r *Repository) Update(ctx context.Context, q Question) (bool, error) {
	db, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range db.Questions {
		if db.Questions[i].ID != q.ID {
			continue
		}
		q.CreatedAt = db.Questions[i].CreatedAt
		q.ImportBatchID = db.Questions[i].ImportBatchID
		q.UpdatedAt = time.Now()
		db.Questions[i] = q
		if err := r.save(ctx, db); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Delete removes the record with the given ID. It returns false when nothing
// was removed. Historical answers referencing the ID are left untouched.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	db, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	kept := db.Questions[:0]
	for _, q := range db.Questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(db.Questions) {
		return false, nil
	}
	db.Questions = kept

	if err := r.save(ctx, db); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteBatch removes every question tagged with batchID together with the
// batch record. The removal is one serialize-and-overwrite of the table, so
// there is no partial state to roll back.
func (r *Repository) DeleteBatch(ctx context.Context, batchID string) error {
	db, err := r.load(ctx)
	if err != nil {
		return err
	}

	questions := db.Questions[:0]
	for _, q := range db.Questions {
		if q.ImportBatchID != batchID {
			questions = append(questions, q)
		}
	}
	db.Questions = questions

	batches := db.ImportBatches[:0]
	for _, b := range db.ImportBatches {
		if b.ID != batchID {
			batches = append(batches, b)
		}
	}
	db.ImportBatches = batches

	return r.save(ctx, db)
}

// ListAll returns every question, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Question, error) {
	db, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(db.Questions, func(i, j int) bool {
		return db.Questions[i].CreatedAt.After(db.Questions[j].CreatedAt)
	})
	return db.Questions, nil
}

// ListActive returns the questions eligible for new quiz sessions.
func (r *Repository) ListActive(ctx context.Context) ([]Question, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Question, 0, len(all))
	for _, q := range all {
		if q.Status == StatusActive {
			active = append(active, q)
		}
	}
	return active, nil
}

// ListByBatch returns the questions tagged with batchID.
func (r *Repository) ListByBatch(ctx context.Context, batchID string) ([]Question, error) {
	db, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Question
	for _, q := range db.Questions {
		if q.ImportBatchID == batchID {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

// ListBatches returns all import batches, newest first.
func (r *Repository) ListBatches(ctx context.Context) ([]ImportBatch, error) {
	db, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(db.ImportBatches, func(i, j int) bool {
		return db.ImportBatches[i].ImportDate.After(db.ImportBatches[j].ImportDate)
	})
	return db.ImportBatches, nil
}

// Stats summarizes the table.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	db, err := r.load(ctx)
	if err != nil {
		return Stats{}, err
	}

	topics := map[string]struct{}{}
	stats := Stats{
		TotalQuestions: len(db.Questions),
		TotalBatches:   len(db.ImportBatches),
	}
	for _, q := range db.Questions {
		if q.Status == StatusActive {
			stats.ActiveQuestions++
		}
		topics[q.Topic] = struct{}{}
	}
	stats.Topics = len(topics)
	return stats, nil
}

// Replace overwrites the whole table. Used by state import and by ClearAll;
// records are taken as-is without validation.
func (r *Repository) Replace(ctx context.Context, questions []Question, batches []ImportBatch) error {
	if questions == nil {
		questions = []Question{}
	}
	if batches == nil {
		batches = []ImportBatch{}
	}
	return r.save(ctx, tables{Questions: questions, ImportBatches: batches})
}

// ClearAll replaces the table with an empty one.
func (r *Repository) ClearAll(ctx context.Context) error {
	return r.Replace(ctx, nil, nil)
}
