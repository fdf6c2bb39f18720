package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get round trip", func(t *testing.T) {
		store := NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, "portfolio", `{"iam":{"credit":100}}`))

		got, found, err := store.Get(ctx, "portfolio")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"iam":{"credit":100}}`, got)
	})

	t.Run("missing key reports not found", func(t *testing.T) {
		store := NewMemoryStore(0)
		_, found, err := store.Get(ctx, "answers")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete removes key", func(t *testing.T) {
		store := NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, "answers", "[]"))
		require.NoError(t, store.Delete(ctx, "answers"))

		_, found, err := store.Get(ctx, "answers")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("quota is enforced per value", func(t *testing.T) {
		store := NewMemoryStore(8)
		require.NoError(t, store.Set(ctx, "small", "12345678"))
		assert.ErrorIs(t, store.Set(ctx, "large", strings.Repeat("x", 9)), ErrQuotaExceeded)

		// the failed write must not leave a partial value behind
		_, found, err := store.Get(ctx, "large")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		store := NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, "questions", "{}"))
		require.NoError(t, store.Set(ctx, "answers", "[]"))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"answers", "questions"}, keys)
	})
}
