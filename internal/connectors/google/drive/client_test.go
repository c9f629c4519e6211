package drive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestSearchExpression_EscapesQuotes(t *testing.T) {
	assert.Equal(t,
		`fullText contains 'quarterly report' and trashed = false`,
		searchExpression("quarterly report"))
	assert.Equal(t,
		`fullText contains 'o\'brien' and trashed = false`,
		searchExpression("o'brien"))
}

func TestRankScore(t *testing.T) {
	assert.InDelta(t, 1.0, rankScore(0, 2), 0.001)
	assert.InDelta(t, 0.5, rankScore(1, 2), 0.001)
	assert.Equal(t, 0.0, rankScore(0, 0))
}

func TestClient_QueryConvertsFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "fullText contains 'budget'")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"files": [
				{"id": "f-1", "name": "Budget 2026", "mimeType": "application/vnd.google-apps.spreadsheet",
				 "webViewLink": "https://docs.google.com/f-1", "modifiedTime": "2026-02-01T00:00:00Z"},
				{"id": "folder-1", "name": "Budgets", "mimeType": "application/vnd.google-apps.folder"},
				{"id": "f-2", "name": "Budget notes", "mimeType": "text/plain",
				 "description": "Draft notes"}
			]
		}`)
	}))
	defer ts.Close()

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(ts.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	client := newClientWithService(svc)
	defer client.Close()

	candidates, err := client.Query(context.Background(), "budget", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2) // folder filtered out

	assert.Equal(t, "f-1", candidates[0].SourceID)
	assert.Equal(t, "Budget 2026", candidates[0].Title)
	assert.Equal(t, "file", candidates[0].ContentType)
	assert.Equal(t, "https://docs.google.com/f-1", candidates[0].Metadata["url"])

	assert.Equal(t, "f-2", candidates[1].SourceID)
	assert.Equal(t, "Draft notes", candidates[1].Excerpt)
	assert.Greater(t, candidates[0].RawScore, candidates[1].RawScore)
}
