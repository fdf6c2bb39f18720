// Package question owns the question table and its import-batch bookkeeping.
// The whole table is persisted as one JSON blob in the key-value store and
// rewritten on every mutation.
package question

import (
	"math/rand"
	"time"
)

// Difficulty is the coarse difficulty label of a question.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Status controls whether a question participates in new quiz sessions.
// Inactive and draft questions stay in the table but are excluded.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// Question is one exam question. ID is immutable once created; every other
// field may be edited.
type Question struct {
	ID            int64      `json:"id" yaml:"id"`
	Topic         string     `json:"topic" yaml:"topic"`
	Text          string     `json:"text" yaml:"text" validate:"required"`
	Options       []string   `json:"options" yaml:"options" validate:"min=2,dive,required"`
	CorrectAnswer string     `json:"correct_answer" yaml:"correct_answer" validate:"required"`
	Explanation   string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Keywords      []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	Status        Status     `json:"status" yaml:"status"`
	CreatedAt     time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"updated_at"`
	ImportBatchID string     `json:"import_batch_id,omitempty" yaml:"import_batch_id,omitempty"`
}

// ImportBatch summarizes one import operation for later bulk management.
type ImportBatch struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	TotalQuestions int       `json:"total_questions"`
	SuccessCount   int       `json:"success_count"`
	FailedCount    int       `json:"failed_count"`
	ImportDate     time.Time `json:"import_date"`
	FileSize       int64     `json:"file_size"`
	FileType       string    `json:"file_type"`
}

// BatchMeta is the caller-supplied description of an import source.
type BatchMeta struct {
	Filename string
	FileSize int64
	FileType string
}

// Stats summarizes the state of the question table.
type Stats struct {
	TotalQuestions  int `json:"total_questions"`
	ActiveQuestions int `json:"active_questions"`
	TotalBatches    int `json:"total_batches"`
	Topics          int `json:"topics"`
}

// tables is the persisted shape of the question store blob.
type tables struct {
	Questions     []Question    `json:"questions"`
	ImportBatches []ImportBatch `json:"import_batches"`
}

// newID generates a unique question identifier from the current time plus a
// small random component, matching how the table was originally keyed.
func newID(taken map[int64]bool) int64 {
	for {
		id := time.Now().UnixMilli() + rand.Int63n(1000)
		if !taken[id] {
			return id
		}
	}
}
