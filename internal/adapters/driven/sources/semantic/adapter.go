// Package semantic implements the embedding-based source adapters for
// knowledge base content. When the semantic path is unavailable the
// adapter degrades to lexical matching over the same record store, so
// a broken embedding endpoint never takes a source offline.
package semantic

import (
	"context"
	"errors"
	"fmt"

	"github.com/aldrinstellus/worksearch/internal/adapters/driven/sources/lexical"
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter retrieves records of one kind by vector similarity.
type Adapter struct {
	kind     domain.SourceKind
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	store    driven.RecordStore
	fallback *lexical.Adapter
}

// New creates a semantic adapter for a knowledge base kind. The
// embedder and index may be nil, in which case every query takes the
// lexical path.
func New(kind domain.SourceKind, embedder driven.EmbeddingService,
	index driven.VectorIndex, store driven.RecordStore) *Adapter {
	return &Adapter{
		kind:     kind,
		embedder: embedder,
		index:    index,
		store:    store,
		fallback: lexical.New(kind, store, lexical.Options{}),
	}
}

// NewInternalKB creates the adapter for knowledge base documents.
func NewInternalKB(embedder driven.EmbeddingService, index driven.VectorIndex,
	store driven.RecordStore) *Adapter {
	return New(domain.SourceInternalKB, embedder, index, store)
}

// NewKnowledgeItems creates the adapter for curated knowledge items.
func NewKnowledgeItems(embedder driven.EmbeddingService, index driven.VectorIndex,
	store driven.RecordStore) *Adapter {
	return New(domain.SourceKnowledgeItems, embedder, index, store)
}

// Kind returns the source kind this adapter serves.
func (a *Adapter) Kind() domain.SourceKind {
	return a.kind
}

// Search embeds the query text and retrieves the nearest records, or
// degrades to lexical matching when the query did not ask for semantic
// retrieval or the embedding path fails.
func (a *Adapter) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Candidate, error) {
	if !query.SemanticSearch || a.embedder == nil || a.index == nil {
		return a.fallback.Search(ctx, query)
	}

	vec, err := a.embedder.Embed(ctx, query.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("source %s: embedding unavailable, degrading to lexical search: %v", a.kind, err)
		return a.fallback.Search(ctx, query)
	}

	hits, err := a.index.Similar(ctx, a.kind, vec, domain.FetchCap)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("source %s: vector index unavailable, degrading to lexical search: %v", a.kind, err)
		return a.fallback.Search(ctx, query)
	}

	return a.resolve(ctx, hits, query)
}

// resolve maps vector hits back to records, dropping hits the caller is
// not allowed to see and hits whose record has since been deleted.
func (a *Adapter) resolve(ctx context.Context, hits []driven.VectorHit,
	query domain.SearchQuery) ([]domain.Candidate, error) {

	candidates := make([]domain.Candidate, 0, len(hits))
	for rank, hit := range hits {
		rec, err := a.store.Get(ctx, a.kind, hit.RecordID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// index entry outlived its record
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, a.kind, err)
		}
		if !rec.VisibleTo(query.Scope) || !rec.MatchesContentType(query.ContentTypes) {
			continue
		}

		candidates = append(candidates, domain.Candidate{
			SourceID:    rec.ID,
			SourceKind:  a.kind,
			Title:       rec.Title,
			Excerpt:     leadExcerpt(rec.Body),
			ContentType: rec.ContentType,
			RawScore:    hit.Similarity,
			NativeRank:  rank,
			Semantic:    true,
			Metadata:    copyMetadata(rec.Metadata),
		})
	}
	return candidates, nil
}

// leadExcerpt returns the opening of the body. Semantic hits have no
// match position to centre on.
func leadExcerpt(body string) string {
	const max = 160
	if len(body) <= max {
		return body
	}
	end := max
	for end > 0 && body[end]&0xC0 == 0x80 {
		end--
	}
	return body[:end] + "…"
}

func copyMetadata(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
