// Package history keeps the append-only record of every answered question.
// Answers are point-in-time facts: they reference a question ID but do not
// require the question to still exist.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hmatsuda/quizfolio/internal/storage"
)

// StorageKey is the store key holding the answer history blob.
const StorageKey = "answers"

// UserAnswer is one answered question, frozen at submission time.
type UserAnswer struct {
	QuestionID     int64     `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Timestamp      time.Time `json:"timestamp"`
}

// Log is the append-only answer history backed by the store.
type Log struct {
	store storage.Store
}

// NewLog creates an answer history over the given store.
func NewLog(store storage.Store) *Log {
	return &Log{store: store}
}

// All returns the full history in submission order.
func (l *Log) All(ctx context.Context) ([]UserAnswer, error) {
	raw, found, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", StorageKey, err)
	}
	if !found {
		return nil, nil
	}
	var answers []UserAnswer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(%s) > %w", StorageKey, err)
	}
	return answers, nil
}

// Append adds one answer to the end of the history and persists the whole
// sequence.
func (l *Log) Append(ctx context.Context, answer UserAnswer) error {
	answers, err := l.All(ctx)
	if err != nil {
		return err
	}
	answers = append(answers, answer)
	return l.write(ctx, answers)
}

// Replace overwrites the whole history. Used by state import.
func (l *Log) Replace(ctx context.Context, answers []UserAnswer) error {
	return l.write(ctx, answers)
}

// Clear removes the history.
func (l *Log) Clear(ctx context.Context) error {
	if err := l.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", StorageKey, err)
	}
	return nil
}

func (l *Log) write(ctx context.Context, answers []UserAnswer) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", StorageKey, err)
	}
	if err := l.store.Set(ctx, StorageKey, string(raw)); err != nil {
		slog.Error("failed to persist answer history", "error", err)
		return fmt.Errorf("store.Set(%s) > %w", StorageKey, err)
	}
	return nil
}
