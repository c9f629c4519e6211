package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery_Qualifiers(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "no qualifier",
			cfg:  Config{Token: "t"},
			want: "deploy in:title,body",
		},
		{
			name: "org qualifier",
			cfg:  Config{Token: "t", Org: "acme"},
			want: "deploy in:title,body org:acme",
		},
		{
			name: "repo qualifier wins over org",
			cfg:  Config{Token: "t", Org: "acme", Repo: "acme/infra"},
			want: "deploy in:title,body repo:acme/infra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.searchQuery("deploy"))
		})
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestRankScore(t *testing.T) {
	assert.InDelta(t, 1.0, rankScore(0, 4), 0.001)
	assert.InDelta(t, 0.25, rankScore(3, 4), 0.001)
	assert.Equal(t, 0.0, rankScore(0, 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 160))
	assert.Equal(t, "aaaaa…", truncate("aaaaabbbbb", 5))
}

func TestClient_QueryConvertsIssues(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-v3/search/issues", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "deploy")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total_count": 2,
			"incomplete_results": false,
			"items": [
				{"id": 101, "title": "Deploy pipeline broken", "body": "The deploy fails.",
				 "state": "open", "html_url": "https://github.com/acme/infra/issues/7"},
				{"id": 102, "title": "Document deploy steps", "body": "",
				 "state": "closed", "html_url": "https://github.com/acme/infra/pull/8",
				 "pull_request": {"url": "https://api.github.com/repos/acme/infra/pulls/8"}}
			]
		}`)
	}))
	defer ts.Close()

	client, err := NewClient(context.Background(), Config{Token: "t"})
	require.NoError(t, err)

	base, err := url.Parse(ts.URL + "/api-v3/")
	require.NoError(t, err)
	client.gh.BaseURL = base

	candidates, err := client.Query(context.Background(), "deploy", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "101", candidates[0].SourceID)
	assert.Equal(t, "issue", candidates[0].ContentType)
	assert.Equal(t, "https://github.com/acme/infra/issues/7", candidates[0].Metadata["url"])
	assert.InDelta(t, 1.0, candidates[0].RawScore, 0.001)

	assert.Equal(t, "pull_request", candidates[1].ContentType)
	assert.Equal(t, 1, candidates[1].NativeRank)
	assert.Greater(t, candidates[0].RawScore, candidates[1].RawScore)
}
