package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmatsuda/quizfolio/internal/storage"
)

func newTestAggregator(now time.Time) *Aggregator {
	agg := NewAggregator(storage.NewMemoryStore(0))
	agg.now = func() time.Time { return now }
	return agg
}

func TestAggregator_Record(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)

	t.Run("first correct answer initializes then compounds", func(t *testing.T) {
		agg := newTestAggregator(now)

		require.NoError(t, agg.Record(ctx, []string{"iam"}, true))

		portfolio, err := agg.Portfolio(ctx)
		require.NoError(t, err)
		entry := portfolio["iam"]
		assert.InDelta(t, 105.0, entry.Credit, 1e-9)
		assert.InDelta(t, 5.0, entry.Growth, 1e-9)
		assert.Equal(t, now, entry.LastUpdated)

		// correct answers leave the heatmap untouched
		stats, err := agg.Stats(ctx)
		require.NoError(t, err)
		assert.Empty(t, stats)
	})

	t.Run("incorrect answer multiplies by 0.95 and increments the day bucket", func(t *testing.T) {
		agg := newTestAggregator(now)

		require.NoError(t, agg.Record(ctx, []string{"iam", "security"}, false))

		portfolio, err := agg.Portfolio(ctx)
		require.NoError(t, err)
		for _, keyword := range []string{"iam", "security"} {
			entry := portfolio[keyword]
			assert.InDelta(t, 95.0, entry.Credit, 1e-9, keyword)
			assert.InDelta(t, -5.0, entry.Growth, 1e-9, keyword)
		}

		stats, err := agg.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats["iam"]["2025-08-15"])
		assert.Equal(t, 1, stats["security"]["2025-08-15"])
	})

	t.Run("credit compounds without a floor or ceiling", func(t *testing.T) {
		agg := newTestAggregator(now)

		for i := 0; i < 30; i++ {
			require.NoError(t, agg.Record(ctx, []string{"gke"}, true))
		}
		portfolio, err := agg.Portfolio(ctx)
		require.NoError(t, err)
		want := 100.0
		for i := 0; i < 30; i++ {
			want *= CorrectMultiplier
		}
		assert.InDelta(t, want, portfolio["gke"].Credit, 1e-6)
		assert.Greater(t, portfolio["gke"].Credit, 400.0)

		for i := 0; i < 60; i++ {
			require.NoError(t, agg.Record(ctx, []string{"gke"}, false))
		}
		portfolio, err = agg.Portfolio(ctx)
		require.NoError(t, err)
		assert.Less(t, portfolio["gke"].Credit, 25.0)
		assert.Greater(t, portfolio["gke"].Credit, 0.0)
	})

	t.Run("growth reflects only the last step", func(t *testing.T) {
		agg := newTestAggregator(now)

		require.NoError(t, agg.Record(ctx, []string{"vpc"}, true))
		require.NoError(t, agg.Record(ctx, []string{"vpc"}, false))

		portfolio, err := agg.Portfolio(ctx)
		require.NoError(t, err)
		assert.InDelta(t, -5.0, portfolio["vpc"].Growth, 1e-9)
	})

	t.Run("wrong answers on the same day accumulate", func(t *testing.T) {
		agg := newTestAggregator(now)

		require.NoError(t, agg.Record(ctx, []string{"iam"}, false))
		require.NoError(t, agg.Record(ctx, []string{"iam"}, false))
		agg.now = func() time.Time { return now.Add(24 * time.Hour) }
		require.NoError(t, agg.Record(ctx, []string{"iam"}, false))

		stats, err := agg.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats["iam"]["2025-08-15"])
		assert.Equal(t, 1, stats["iam"]["2025-08-16"])
	})

	t.Run("no keywords is a no-op", func(t *testing.T) {
		agg := newTestAggregator(now)

		require.NoError(t, agg.Record(ctx, nil, false))

		portfolio, err := agg.Portfolio(ctx)
		require.NoError(t, err)
		assert.Empty(t, portfolio)
	})
}

func TestAggregator_Clear(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(time.Now())

	require.NoError(t, agg.Record(ctx, []string{"iam"}, false))
	require.NoError(t, agg.Clear(ctx))

	portfolio, err := agg.Portfolio(ctx)
	require.NoError(t, err)
	assert.Empty(t, portfolio)

	stats, err := agg.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
