// Package testutil provides shared test helpers for creating config files
// and seeded question stores.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hmatsuda/quizfolio/internal/question"
	"github.com/hmatsuda/quizfolio/internal/storage"
)

// SetupTestConfig creates a minimal config file and the directories it
// references for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "reports"), 0755))

	configContent := fmt.Sprintf(`store:
  path: %s
quiz:
  question_count: 10
import:
  retry_attempts: 3
reports:
  directory: %s
`,
		filepath.Join(tmpDir, "quizfolio.db"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SeedQuestions inserts fixture questions into a fresh repository backed by
// the given store.
func SeedQuestions(t *testing.T, store storage.Store, questions []question.Question) *question.Repository {
	t.Helper()

	repo, err := question.NewRepository(store)
	require.NoError(t, err)
	result, err := repo.Insert(context.Background(), questions, question.BatchMeta{
		Filename: "fixture.json",
		FileType: "json",
	})
	require.NoError(t, err)
	require.Equal(t, len(questions), result.Success)
	return repo
}

// SampleQuestions returns a small fixture set covering two topics.
func SampleQuestions() []question.Question {
	return []question.Question{
		{
			Topic:         "Compute",
			Text:          "Which service runs containers without managing servers?",
			Options:       []string{"Cloud Run", "Compute Engine", "Bare Metal"},
			CorrectAnswer: "Cloud Run",
			Explanation:   "Cloud Run runs containers on a fully managed platform.",
			Keywords:      []string{"cloud-run", "serverless"},
			Difficulty:    question.DifficultyBeginner,
		},
		{
			Topic:         "Storage",
			Text:          "Which service stores unstructured objects?",
			Options:       []string{"Cloud SQL", "Cloud Storage", "Memorystore"},
			CorrectAnswer: "Cloud Storage",
			Explanation:   "Cloud Storage holds objects in buckets.",
			Keywords:      []string{"gcs", "objects"},
			Difficulty:    question.DifficultyIntermediate,
		},
	}
}
