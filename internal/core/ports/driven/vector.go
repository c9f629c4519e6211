package driven

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// VectorIndex provides semantic similarity search operations over
// pre-computed record embeddings. Vectors are partitioned by source
// kind: record IDs are only unique within a kind, so one kind's
// entries must never shadow or dilute another's.
type VectorIndex interface {
	// Add inserts a vector for the given record within its kind's
	// partition.
	Add(ctx context.Context, kind domain.SourceKind, recordID string, embedding []float32) error

	// Delete removes a vector from the kind's partition.
	Delete(ctx context.Context, kind domain.SourceKind, recordID string) error

	// Similar finds the k nearest neighbours to the query vector,
	// searching only the kind's partition.
	Similar(ctx context.Context, kind domain.SourceKind, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// RecordID is the matched record.
	RecordID string

	// Similarity is the raw cosine similarity in [-1,1].
	// Normalisation to [0,1] is the scorer's job, not the index's.
	Similarity float64
}
