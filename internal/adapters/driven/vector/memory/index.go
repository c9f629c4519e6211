// Package memory provides an in-memory vector index with exact cosine
// similarity. Suitable for tests and small deployments; the chromem
// package provides the persistent implementation.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
// Vectors live in per-kind partitions; record IDs are only unique
// within a kind.
type Index struct {
	mu         sync.RWMutex
	partitions map[domain.SourceKind]map[string][]float32
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{partitions: make(map[domain.SourceKind]map[string][]float32)}
}

// Add inserts a vector for the given record within its kind's partition.
func (i *Index) Add(_ context.Context, kind domain.SourceKind, recordID string, embedding []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	part, ok := i.partitions[kind]
	if !ok {
		part = make(map[string][]float32)
		i.partitions[kind] = part
	}
	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	part[recordID] = vec
	return nil
}

// Delete removes a vector from the kind's partition.
func (i *Index) Delete(_ context.Context, kind domain.SourceKind, recordID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.partitions[kind], recordID)
	return nil
}

// Similar finds the k nearest neighbours within the kind's partition
// by exact cosine similarity.
func (i *Index) Similar(_ context.Context, kind domain.SourceKind, query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	part := i.partitions[kind]
	hits := make([]driven.VectorHit, 0, len(part))
	for id, vec := range part {
		hits = append(hits, driven.VectorHit{
			RecordID:   id,
			Similarity: cosine(query, vec),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].RecordID < hits[b].RecordID
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close is a no-op for the in-memory index.
func (i *Index) Close() error {
	return nil
}

// cosine computes cosine similarity in [-1,1]. Mismatched or zero-norm
// vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
