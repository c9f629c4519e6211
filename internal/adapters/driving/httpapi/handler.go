// Package httpapi exposes federated search over HTTP. It is the
// platform-facing surface: other services call it, so request parsing
// is liberal (query string or JSON body) and error bodies are stable.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driving"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// maxBodySize bounds POST bodies.
const maxBodySize = 1 << 20

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// NewMux builds the HTTP routes over the search service.
func NewMux(search driving.FederatedSearch) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/search", searchHandler(search))
	mux.HandleFunc("/healthz", healthHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func searchHandler(search driving.FederatedSearch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			query domain.SearchQuery
			err   error
		)

		switch r.Method {
		case http.MethodGet:
			query, err = queryFromParams(r)
		case http.MethodPost:
			query, err = queryFromBody(r)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := search.Search(r.Context(), query)
		if err != nil {
			writeSearchError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error("encoding search response: %v", err)
		}
	}
}

// queryFromBody decodes a JSON SearchQuery from a POST body.
func queryFromBody(r *http.Request) (domain.SearchQuery, error) {
	var query domain.SearchQuery
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&query); err != nil {
		return domain.SearchQuery{}, errors.New("malformed request body")
	}
	return query, nil
}

// queryFromParams builds a SearchQuery from the query string. Accepted
// parameters: q (or query), sources, types, limit, offset, min_score,
// semantic, connectors, highlight, user_id, org_id, kb_spaces.
func queryFromParams(r *http.Request) (domain.SearchQuery, error) {
	params := r.URL.Query()

	query := domain.SearchQuery{
		Text: params.Get("q"),
		Scope: domain.TenantScope{
			UserID:         params.Get("user_id"),
			OrganizationID: params.Get("org_id"),
			KBSpaceIDs:     splitCSV(params.Get("kb_spaces")),
		},
	}
	if query.Text == "" {
		query.Text = params.Get("query")
	}
	query.ContentTypes = splitCSV(params.Get("types"))

	for _, source := range splitCSV(params.Get("sources")) {
		kind, err := domain.ParseSourceKind(source)
		if err != nil {
			return domain.SearchQuery{}, err
		}
		query.Sources = append(query.Sources, kind)
	}

	var err error
	if query.Limit, err = intParam(params.Get("limit")); err != nil {
		return domain.SearchQuery{}, errors.New("limit must be an integer")
	}
	if query.Offset, err = intParam(params.Get("offset")); err != nil {
		return domain.SearchQuery{}, errors.New("offset must be an integer")
	}
	if raw := params.Get("min_score"); raw != "" {
		if query.MinScore, err = strconv.ParseFloat(raw, 64); err != nil {
			return domain.SearchQuery{}, errors.New("min_score must be a number")
		}
	}
	query.SemanticSearch = boolParam(params.Get("semantic"))
	query.IncludeConnectors = boolParam(params.Get("connectors"))
	query.Highlight = boolParam(params.Get("highlight"))

	return query, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func boolParam(raw string) bool {
	return raw == "true" || raw == "1"
}

// writeSearchError maps domain errors to status codes. Validation
// failures are the caller's fault; everything else is reported as a
// generic 500 with the detail kept in the server log.
func writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidSource):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "search timed out")
	default:
		logger.Error("search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
