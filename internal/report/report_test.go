package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/portfolio"
	"github.com/hmatsuda/quizfolio/internal/storage"
)

func TestBuilder_Markdown(t *testing.T) {
	ctx := context.Background()

	t.Run("empty state renders placeholders", func(t *testing.T) {
		store := storage.NewMemoryStore(0)
		builder := NewBuilder(portfolio.NewAggregator(store), history.NewLog(store))

		md, err := builder.Markdown(ctx)
		require.NoError(t, err)
		assert.Contains(t, md, "# Study report")
		assert.Contains(t, md, "No questions answered yet.")
		assert.Contains(t, md, "No keyword scores yet.")
		assert.Contains(t, md, "No wrong answers recorded.")
	})

	t.Run("portfolio rows sorted by credit with heatmap buckets", func(t *testing.T) {
		store := storage.NewMemoryStore(0)
		agg := portfolio.NewAggregator(store)
		log := history.NewLog(store)

		require.NoError(t, agg.Record(ctx, []string{"iam"}, true))
		require.NoError(t, agg.Record(ctx, []string{"vpc"}, false))
		require.NoError(t, log.Append(ctx, history.UserAnswer{
			QuestionID: 1, SelectedAnswer: "Role", IsCorrect: true, Timestamp: time.Now(),
		}))
		require.NoError(t, log.Append(ctx, history.UserAnswer{
			QuestionID: 2, SelectedAnswer: "Peering", IsCorrect: false, Timestamp: time.Now(),
		}))

		md, err := builder(t, store).Markdown(ctx)
		require.NoError(t, err)

		assert.Contains(t, md, "- Questions answered: 2")
		assert.Contains(t, md, "- Correct: 1 (50.0%)")
		assert.Contains(t, md, "| iam | 105.00 | +5.00% |")
		assert.Contains(t, md, "| vpc | 95.00 | -5.00% |")
		// iam compounds above vpc, so it lists first
		assert.Less(t, strings.Index(md, "| iam |"), strings.Index(md, "| vpc |"))

		today := time.Now().Format("2006-01-02")
		assert.Contains(t, md, "### vpc")
		assert.Contains(t, md, "- "+today+": 1")
	})
}

func builder(t *testing.T, store storage.Store) *Builder {
	t.Helper()
	return NewBuilder(portfolio.NewAggregator(store), history.NewLog(store))
}
