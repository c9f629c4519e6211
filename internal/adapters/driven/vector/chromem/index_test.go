package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

func TestIndex_SimilarOrdersByCosine(t *testing.T) {
	idx, err := NewIndex("")
	require.NoError(t, err)

	ctx := context.Background()
	kind := domain.SourceInternalKB
	require.NoError(t, idx.Add(ctx, kind, "match", []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, kind, "near", []float32{1, 1, 0}))
	require.NoError(t, idx.Add(ctx, kind, "far", []float32{0, 0, 1}))

	hits, err := idx.Similar(ctx, kind, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "match", hits[0].RecordID)
	assert.Equal(t, "near", hits[1].RecordID)
	assert.Equal(t, "far", hits[2].RecordID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.001)
}

func TestIndex_SimilarClampsToCollectionSize(t *testing.T) {
	idx, err := NewIndex("")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, domain.SourceInternalKB, "only", []float32{1, 0}))

	hits, err := idx.Similar(ctx, domain.SourceInternalKB, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_SimilarEmptyIndex(t *testing.T) {
	idx, err := NewIndex("")
	require.NoError(t, err)

	hits, err := idx.Similar(context.Background(), domain.SourceInternalKB, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Delete(t *testing.T) {
	idx, err := NewIndex("")
	require.NoError(t, err)

	ctx := context.Background()
	kind := domain.SourceInternalKB
	require.NoError(t, idx.Add(ctx, kind, "a", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, kind, "b", []float32{0, 1}))
	require.NoError(t, idx.Delete(ctx, kind, "a"))

	hits, err := idx.Similar(ctx, kind, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].RecordID)
}

func TestIndex_KindsArePartitioned(t *testing.T) {
	idx, err := NewIndex("")
	require.NoError(t, err)

	ctx := context.Background()
	// Same record ID in two kinds; neither overwrites the other.
	require.NoError(t, idx.Add(ctx, domain.SourceInternalKB, "shared-id", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, domain.SourceKnowledgeItems, "shared-id", []float32{0, 1}))

	hits, err := idx.Similar(ctx, domain.SourceInternalKB, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.001)

	hits, err = idx.Similar(ctx, domain.SourceKnowledgeItems, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.0, hits[0].Similarity, 0.001)
}

func TestIndex_Persistence(t *testing.T) {
	dir := t.TempDir()

	idx, err := NewIndex(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, domain.SourceInternalKB, "kept", []float32{1, 0}))
	require.NoError(t, idx.Close())

	reopened, err := NewIndex(dir)
	require.NoError(t, err)

	hits, err := reopened.Similar(ctx, domain.SourceInternalKB, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kept", hits[0].RecordID)
}
