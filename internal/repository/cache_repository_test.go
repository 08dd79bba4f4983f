package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

func TestMemoryCacheRoundTripAndPattern(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCacheRepository()

	require.NoError(t, repo.Set(ctx, "attendance:summary:2024-06-03", map[string]int{"absent": 2}, time.Minute))
	require.NoError(t, repo.Set(ctx, "other:key", "keep", 0))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "attendance:summary:2024-06-03", &got))
	assert.Equal(t, 2, got["absent"])

	require.NoError(t, repo.DeleteByPattern(ctx, "attendance:*"))
	assert.ErrorIs(t, repo.Get(ctx, "attendance:summary:2024-06-03", &got), appErrors.ErrCacheMiss)

	var kept string
	require.NoError(t, repo.Get(ctx, "other:key", &kept))
	assert.Equal(t, "keep", kept)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCacheRepository()
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Set(ctx, "k", 1, time.Minute))
	now = now.Add(2 * time.Minute)

	var v int
	assert.ErrorIs(t, repo.Get(ctx, "k", &v), appErrors.ErrCacheMiss)
}

func TestRedisCacheWithoutClientIsAMiss(t *testing.T) {
	repo := NewCacheRepository(nil)
	var v int
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &v), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
}
