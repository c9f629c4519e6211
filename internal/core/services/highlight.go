package services

import (
	"strings"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// Highlight markers wrapped around matched query terms.
const (
	markStart = "<em>"
	markEnd   = "</em>"
)

// Highlighter marks matched query terms in result text fields.
// It is a presentation concern applied after ranking, only to the final
// paginated slice, so its cost is O(page size), not O(totalMatched).
type Highlighter struct{}

// NewHighlighter creates a highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Apply attaches highlights to every result on the page, in place.
func (h *Highlighter) Apply(results []domain.RankedResult, queryText string) {
	terms := strings.Fields(strings.ToLower(queryText))
	if len(terms) == 0 {
		return
	}

	for i := range results {
		hl := domain.Highlight{
			Title:   h.Mark(results[i].Title, terms),
			Content: h.Mark(results[i].Excerpt, terms),
		}
		results[i].Highlight = &hl
	}
}

// Mark wraps each case-insensitive occurrence of the terms in the text
// with emphasis markers, preserving the original casing of the matched
// text and leaving everything else untouched.
func (h *Highlighter) Mark(text string, terms []string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case folding changed byte offsets; skip marking rather than
		// corrupt the text.
		return text
	}
	var b strings.Builder
	pos := 0

	for pos < len(text) {
		matchAt, matchLen := -1, 0
		for _, term := range terms {
			if term == "" {
				continue
			}
			idx := strings.Index(lower[pos:], term)
			if idx < 0 {
				continue
			}
			if matchAt < 0 || pos+idx < matchAt || (pos+idx == matchAt && len(term) > matchLen) {
				matchAt = pos + idx
				matchLen = len(term)
			}
		}
		if matchAt < 0 {
			b.WriteString(text[pos:])
			break
		}
		b.WriteString(text[pos:matchAt])
		b.WriteString(markStart)
		b.WriteString(text[matchAt : matchAt+matchLen])
		b.WriteString(markEnd)
		pos = matchAt + matchLen
	}

	return b.String()
}
