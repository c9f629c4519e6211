package domain

import "time"

// Record is the canonical read model for internally stored content:
// articles, news posts, knowledge items, KB documents and employee
// directory entries. The search subsystem only ever reads records;
// ownership of the data lives elsewhere.
type Record struct {
	// ID is the unique identifier within the record's kind.
	ID string

	// Kind is the source kind this record belongs to.
	Kind SourceKind

	// OrganizationID is the owning tenant. Empty means globally visible.
	OrganizationID string

	// OwnerID restricts visibility to a single user when set.
	OwnerID string

	// SpaceID is the KB space for knowledge base records.
	SpaceID string

	// Title is the display title. For employees this is the full name.
	Title string

	// Body is the searchable text content. For employees this holds
	// role, department and contact details.
	Body string

	// ContentType classifies the record (e.g. "article", "faq", "person").
	ContentType string

	// Tags are free-form labels.
	Tags []string

	// Metadata contains arbitrary key-value pairs surfaced to callers.
	Metadata map[string]any

	// PublishedAt is when the record became visible.
	PublishedAt time.Time

	// UpdatedAt is when the record last changed.
	UpdatedAt time.Time
}

// VisibleTo reports whether the record is visible within the given scope.
// Organisation and owner restrictions always apply; the KB space
// restriction only applies to knowledge base kinds.
func (r Record) VisibleTo(scope TenantScope) bool {
	if r.OrganizationID != "" && scope.OrganizationID != "" && r.OrganizationID != scope.OrganizationID {
		return false
	}
	if r.OwnerID != "" && r.OwnerID != scope.UserID {
		return false
	}
	if r.Kind == SourceInternalKB && len(scope.KBSpaceIDs) > 0 {
		for _, id := range scope.KBSpaceIDs {
			if r.SpaceID == id {
				return true
			}
		}
		return false
	}
	return true
}

// MatchesContentType reports whether the record passes the content type
// filter. An empty filter matches everything.
func (r Record) MatchesContentType(contentTypes []string) bool {
	if len(contentTypes) == 0 {
		return true
	}
	for _, ct := range contentTypes {
		if r.ContentType == ct {
			return true
		}
	}
	return false
}
