// Package chromem provides a vector index backed by chromem-go, an
// embeddable vector database with optional on-disk persistence.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a chromem-go backed implementation of driven.VectorIndex.
// Each source kind gets its own collection, so record IDs (unique only
// within a kind) cannot collide across kinds and one kind's entries
// never dilute another's neighbour search. Embeddings are supplied
// externally (see the embedding adapters), so the collections' own
// embedding function is never used.
type Index struct {
	db *chromemgo.DB

	mu   sync.Mutex
	cols map[domain.SourceKind]*chromemgo.Collection
}

// NewIndex creates an index persisted under dir. An empty dir keeps the
// index in memory only.
func NewIndex(dir string) (*Index, error) {
	var db *chromemgo.DB
	var err error

	if dir == "" {
		db = chromemgo.NewDB()
	} else {
		db, err = chromemgo.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("opening chromem db: %w", err)
		}
	}

	return &Index{db: db, cols: make(map[domain.SourceKind]*chromemgo.Collection)}, nil
}

// noEmbedding guards against accidental internal embedding generation.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embeddings must be provided explicitly")
}

// collection returns the kind's collection, creating it on first use.
func (i *Index) collection(kind domain.SourceKind) (*chromemgo.Collection, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if col, ok := i.cols[kind]; ok {
		return col, nil
	}
	col, err := i.db.GetOrCreateCollection(string(kind), nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", kind, err)
	}
	i.cols[kind] = col
	return col, nil
}

// Add inserts a vector for the given record within its kind's partition.
func (i *Index) Add(ctx context.Context, kind domain.SourceKind, recordID string, embedding []float32) error {
	col, err := i.collection(kind)
	if err != nil {
		return err
	}
	err = col.AddDocument(ctx, chromemgo.Document{
		ID:        recordID,
		Embedding: embedding,
	})
	if err != nil {
		return fmt.Errorf("adding vector %s/%s: %w", kind, recordID, err)
	}
	return nil
}

// Delete removes a vector from the kind's partition.
func (i *Index) Delete(ctx context.Context, kind domain.SourceKind, recordID string) error {
	col, err := i.collection(kind)
	if err != nil {
		return err
	}
	if err := col.Delete(ctx, nil, nil, recordID); err != nil {
		return fmt.Errorf("deleting vector %s/%s: %w", kind, recordID, err)
	}
	return nil
}

// Similar finds the k nearest neighbours within the kind's partition.
func (i *Index) Similar(ctx context.Context, kind domain.SourceKind, query []float32, k int) ([]driven.VectorHit, error) {
	col, err := i.collection(kind)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults greater than the collection size.
	if count := col.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for n, r := range results {
		hits[n] = driven.VectorHit{
			RecordID:   r.ID,
			Similarity: float64(r.Similarity),
		}
	}
	return hits, nil
}

// Close is a no-op; chromem persists incrementally.
func (i *Index) Close() error {
	return nil
}
