package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// stubSearch records the query it received and returns a canned result.
type stubSearch struct {
	got    domain.SearchQuery
	result *domain.FederatedSearchResult
	err    error
}

func (s *stubSearch) Search(_ context.Context, q domain.SearchQuery) (*domain.FederatedSearchResult, error) {
	s.got = q
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func okResult() *domain.FederatedSearchResult {
	return &domain.FederatedSearchResult{
		Results: []domain.RankedResult{
			{ID: "articles:a-1", SourceKind: domain.SourceArticles,
				Title: "Expense policy", Score: 0.9, ContentType: "article"},
		},
		TotalMatched:   1,
		SourcesQueried: domain.DefaultSources(),
	}
}

func TestSearch_GetParams(t *testing.T) {
	stub := &stubSearch{result: okResult()}
	mux := NewMux(stub)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/search?q=expense&sources=articles,news&limit=5&offset=10&min_score=0.2"+
			"&semantic=true&connectors=true&highlight=1&org_id=org-1&user_id=u-1&kb_spaces=s1,s2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "expense", stub.got.Text)
	assert.Equal(t, []domain.SourceKind{domain.SourceArticles, domain.SourceNews}, stub.got.Sources)
	assert.Equal(t, 5, stub.got.Limit)
	assert.Equal(t, 10, stub.got.Offset)
	assert.InDelta(t, 0.2, stub.got.MinScore, 0.001)
	assert.True(t, stub.got.SemanticSearch)
	assert.True(t, stub.got.IncludeConnectors)
	assert.True(t, stub.got.Highlight)
	assert.Equal(t, "org-1", stub.got.Scope.OrganizationID)
	assert.Equal(t, "u-1", stub.got.Scope.UserID)
	assert.Equal(t, []string{"s1", "s2"}, stub.got.Scope.KBSpaceIDs)

	var result domain.FederatedSearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.TotalMatched)
}

func TestSearch_PostBody(t *testing.T) {
	stub := &stubSearch{result: okResult()}
	mux := NewMux(stub)

	body := `{"query": "expense policy", "sources": ["articles"], "limit": 3,
		"tenantScope": {"organizationId": "org-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expense policy", stub.got.Text)
	assert.Equal(t, []domain.SourceKind{domain.SourceArticles}, stub.got.Sources)
	assert.Equal(t, "org-1", stub.got.Scope.OrganizationID)
}

func TestSearch_QueryFallbackParam(t *testing.T) {
	stub := &stubSearch{result: okResult()}
	mux := NewMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=expense", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expense", stub.got.Text)
}

func TestSearch_InvalidQueryIs400(t *testing.T) {
	stub := &stubSearch{err: domain.ErrInvalidQuery}
	mux := NewMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestSearch_UnknownSourceIs400(t *testing.T) {
	stub := &stubSearch{result: okResult()}
	mux := NewMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=expense&sources=wiki", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_InternalErrorIsGeneric500(t *testing.T) {
	stub := &stubSearch{err: errors.New("store exploded: password=hunter2")}
	mux := NewMux(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=expense", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestSearch_MalformedBodyIs400(t *testing.T) {
	mux := NewMux(&stubSearch{result: okResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	mux := NewMux(&stubSearch{result: okResult()})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestHealthz(t *testing.T) {
	mux := NewMux(&stubSearch{result: okResult()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
