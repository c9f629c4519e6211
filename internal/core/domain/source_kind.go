package domain

import "fmt"

// SourceKind identifies one queryable origin of searchable content.
// Each kind maps to exactly one source adapter.
type SourceKind string

const (
	// SourceInternalKB is the internal knowledge base, scoped by KB spaces.
	SourceInternalKB SourceKind = "internal_kb"
	// SourceArticles is the published articles store.
	SourceArticles SourceKind = "articles"
	// SourceConnectors proxies external federated systems.
	SourceConnectors SourceKind = "connectors"
	// SourceKnowledgeItems is the curated knowledge item store.
	SourceKnowledgeItems SourceKind = "knowledge_items"
	// SourceNews is the company news feed.
	SourceNews SourceKind = "news"
	// SourceEmployees is the employee directory.
	SourceEmployees SourceKind = "employees"
)

// AllSourceKinds returns every known kind in priority order.
func AllSourceKinds() []SourceKind {
	return []SourceKind{
		SourceInternalKB,
		SourceKnowledgeItems,
		SourceArticles,
		SourceNews,
		SourceEmployees,
		SourceConnectors,
	}
}

// DefaultSources returns the kinds queried when a request does not
// specify any.
func DefaultSources() []SourceKind {
	return []SourceKind{SourceArticles, SourceKnowledgeItems, SourceNews}
}

// ParseSourceKind validates a raw source string.
// Returns ErrInvalidSource for unknown values.
func ParseSourceKind(raw string) (SourceKind, error) {
	k := SourceKind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return k, nil
}

// Valid reports whether the kind is one of the known variants.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceInternalKB, SourceArticles, SourceConnectors,
		SourceKnowledgeItems, SourceNews, SourceEmployees:
		return true
	}
	return false
}

// Priority returns the tie-break rank of the kind; lower wins.
// Knowledge base sources outrank articles, then news, then the
// employee directory, with external connectors last.
func (k SourceKind) Priority() int {
	switch k {
	case SourceInternalKB, SourceKnowledgeItems:
		return 0
	case SourceArticles:
		return 1
	case SourceNews:
		return 2
	case SourceEmployees:
		return 3
	case SourceConnectors:
		return 4
	}
	return 5
}

// String implements fmt.Stringer.
func (k SourceKind) String() string {
	return string(k)
}
