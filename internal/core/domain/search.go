package domain

// MinQueryLength is the minimum number of characters (after trimming)
// a query must have before it is dispatched to any source.
const MinQueryLength = 2

// ScoreTolerance is the floating-point tolerance used when comparing
// relevance scores. Scores closer than this are considered equal and
// the source-priority tie-break applies.
const ScoreTolerance = 1e-6

// DefaultLimit is the page size used when the caller does not specify one.
const DefaultLimit = 20

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// FetchCap is the per-source candidate cap. Each adapter returns at most
// this many candidates regardless of the caller's page size, so the merger
// can rank globally instead of truncating per source.
const FetchCap = 50

// TenantScope restricts a search to the caller's tenancy.
// Zero values mean "no restriction" for that dimension.
type TenantScope struct {
	// UserID scopes results to records visible to a specific user.
	UserID string `json:"userId,omitempty"`

	// OrganizationID scopes results to a single organisation.
	OrganizationID string `json:"organizationId,omitempty"`

	// KBSpaceIDs scopes knowledge base results to specific spaces.
	KBSpaceIDs []string `json:"kbSpaceIds,omitempty"`
}

// SearchQuery is a validated, immutable search request.
type SearchQuery struct {
	// Text is the query text. Must be at least MinQueryLength characters
	// after trimming.
	Text string `json:"query"`

	// Sources lists the source kinds to query.
	// Empty means DefaultSources().
	Sources []SourceKind `json:"sources,omitempty"`

	// ContentTypes filters candidates to specific content types.
	ContentTypes []string `json:"contentTypes,omitempty"`

	// Limit is the page size. Defaults to DefaultLimit, capped at MaxLimit.
	Limit int `json:"limit,omitempty"`

	// Offset is the number of ranked results to skip.
	Offset int `json:"offset,omitempty"`

	// MinScore drops candidates scoring below this value, in [0,1].
	MinScore float64 `json:"minScore,omitempty"`

	// SemanticSearch enables the embedding-based retrieval path for
	// knowledge base sources.
	SemanticSearch bool `json:"semanticSearch,omitempty"`

	// IncludeConnectors enables querying external federated connectors.
	IncludeConnectors bool `json:"includeConnectors,omitempty"`

	// Highlight enables query-term marking on the final page.
	Highlight bool `json:"highlight,omitempty"`

	// Scope restricts results to the caller's tenancy.
	Scope TenantScope `json:"tenantScope,omitempty"`
}

// Candidate is the raw output of a single source adapter, before scoring.
// Candidates are produced fresh per query and never persisted.
type Candidate struct {
	// SourceID identifies the record within its source.
	SourceID string

	// SourceKind identifies the adapter that produced this candidate.
	SourceKind SourceKind

	// Title is the human-readable title of the matched record.
	Title string

	// Excerpt is a short text fragment, if the source provides one.
	Excerpt string

	// ContentType classifies the record (e.g. "article", "person", "file").
	ContentType string

	// RawScore is the adapter-native relevance. Lexical adapters emit
	// values already in [0,1]; semantic adapters emit cosine similarity
	// in [-1,1]. The scorer normalises both.
	RawScore float64

	// NativeRank is the 0-based position in the source's own ordering,
	// or -1 when the source does not rank.
	NativeRank int

	// Semantic marks candidates whose RawScore is a cosine similarity.
	Semantic bool

	// Metadata carries source-specific fields (URLs, authors, boosts).
	Metadata map[string]any
}

// ID returns the composite identifier used for deduplication across sources.
func (c Candidate) ID() string {
	return string(c.SourceKind) + ":" + c.SourceID
}

// Highlight holds marked-up copies of a result's text fields.
type Highlight struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// RankedResult is a scored, deduplicated search hit.
type RankedResult struct {
	// ID is unique within a single response: SourceKind + ":" + SourceID.
	ID string `json:"id"`

	// SourceKind identifies the origin of the hit.
	SourceKind SourceKind `json:"sourceKind"`

	// Title is the record title.
	Title string `json:"title"`

	// Excerpt is a short text fragment, if available.
	Excerpt string `json:"excerpt,omitempty"`

	// Score is the normalised relevance in [0,1].
	Score float64 `json:"score"`

	// ContentType classifies the record.
	ContentType string `json:"contentType"`

	// Highlight contains marked-up text fields when highlighting was requested.
	Highlight *Highlight `json:"highlight,omitempty"`

	// Metadata carries source-specific fields through to the caller.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FederatedSearchResult is the unified response for one query.
// Constructed once per request and discarded; nothing is persisted.
type FederatedSearchResult struct {
	// Results is ordered by descending score, ties broken by source
	// priority then title.
	Results []RankedResult `json:"results"`

	// TotalMatched counts all ranked results before pagination.
	TotalMatched int `json:"totalMatched"`

	// SourcesQueried lists the kinds that were dispatched.
	SourcesQueried []SourceKind `json:"sourcesQueried"`

	// SourcesFailed lists the kinds that failed or timed out.
	// A failed source contributes zero candidates but never fails the request.
	SourcesFailed []SourceKind `json:"sourcesFailed"`

	// TookMs is the wall-clock duration of the whole request.
	TookMs int64 `json:"tookMs"`
}
