package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingEmbedderReusesVectors(t *testing.T) {
	inner := &fakeEmbedder{}
	cached, err := NewCachingEmbedder(inner, t.TempDir())
	require.NoError(t, err)

	first, err := cached.Embed(context.Background(), "informed consent")
	require.NoError(t, err)
	second, err := cached.Embed(context.Background(), "informed consent")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.batchCalls, "second call must be served from the cache")
}

func TestCachingEmbedderBatchOnlyEmbedsMisses(t *testing.T) {
	inner := &fakeEmbedder{}
	cached, err := NewCachingEmbedder(inner, t.TempDir())
	require.NoError(t, err)

	_, err = cached.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)

	vectors, err := cached.EmbedBatch(context.Background(), []string{"beta", "gamma"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, inner.embedded, "only the miss goes to the backend")
}

func TestCachingEmbedderAllHitsSkipBackend(t *testing.T) {
	inner := &fakeEmbedder{}
	cached, err := NewCachingEmbedder(inner, t.TempDir())
	require.NoError(t, err)

	_, err = cached.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	calls := inner.batchCalls

	_, err = cached.EmbedBatch(context.Background(), []string{"beta", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, calls, inner.batchCalls)
}

func TestHashContentIsStable(t *testing.T) {
	assert.Equal(t, HashContent("abc"), HashContent("abc"))
	assert.NotEqual(t, HashContent("abc"), HashContent("abd"))
	assert.Len(t, HashContent(""), 64)
}
