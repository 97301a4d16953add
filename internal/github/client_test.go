package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuesPayload = `[
	{
		"number": 1,
		"title": "Auth service",
		"state": "open",
		"body": "Needed first.\n\nBlocks #2",
		"assignee": {"login": "octocat"},
		"labels": [{"name": "team: Identity"}, {"name": "points: 5"}],
		"milestone": {"due_on": "2026-12-01T08:00:00Z"}
	},
	{
		"number": 2,
		"title": "Login page",
		"state": "open",
		"body": "Depends on #1 and blocked by #9",
		"labels": [{"name": "blocked"}, {"name": "sp: 3"}]
	},
	{
		"number": 3,
		"title": "Bump deps",
		"state": "open",
		"pull_request": {"url": "https://api.github.com/repos/o/r/pulls/3"}
	},
	{
		"number": 4,
		"title": "Old spike",
		"state": "closed",
		"body": ""
	}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := newClient(server.Client(), server.URL+"/", analysis.DefaultFieldMapping())
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresToken(t *testing.T) {
	client, err := NewClient(&config.Config{})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}

func TestNewClientEnterpriseDomain(t *testing.T) {
	client, err := NewClient(&config.Config{
		GitHub: config.GitHubConfig{Token: "ghp_test", Domain: "github.example.com"},
		Jira:   config.JiraConfig{TeamField: "customfield_1", StoryPointsField: "customfield_2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.example.com/api/v3/", client.client.BaseURL.String())
	assert.Equal(t, "customfield_1", client.fields.Team)
}

func TestFetchIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/shop/issues", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "initiative", r.URL.Query().Get("labels"))
		fmt.Fprint(w, issuesPayload)
	})

	issues, err := client.FetchIssues(context.Background(), "acme/shop", []string{"initiative"})
	require.NoError(t, err)
	require.Len(t, issues, 3)

	graph := analysis.BuildGraph(issues)
	assert.Equal(t, []string{"#1", "#2", "#4"}, graph.Order)

	auth := graph.Nodes["#1"]
	assert.Equal(t, "Auth service", auth.Summary)
	assert.Equal(t, "In Progress", auth.Status)
	assert.Equal(t, "octocat", auth.Owner)
	assert.Equal(t, "Identity", auth.Team)
	assert.Equal(t, 5.0, auth.Weight)
	require.NotNil(t, auth.DueDate)
	assert.Equal(t, "2026-12-01", auth.DueDate.Format("2006-01-02"))

	login := graph.Nodes["#2"]
	assert.Equal(t, "Blocked", login.Status)
	assert.Equal(t, 3.0, login.Weight)
	assert.Equal(t, analysis.UnassignedOwner, login.Owner)

	assert.Equal(t, "Closed", graph.Nodes["#4"].Status)
	assert.True(t, graph.Nodes["#4"].Finished())

	assert.Equal(t, []models.DependencyEdge{
		{From: "#1", To: "#2", Type: "Blocks"},
		{From: "#1", To: "#2", Type: "Blocks"},
	}, graph.Edges)
	assert.Equal(t, []models.DependencyEdge{
		{From: "#9", To: "#2", Type: "Blocks"},
	}, graph.Dangling)
}

func TestFetchIssuesInvalidRepository(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	for _, repository := range []string{"", "acme", "acme/shop/extra", "/shop"} {
		_, err := client.FetchIssues(context.Background(), repository, nil)
		assert.ErrorContains(t, err, "invalid repository format")
	}
}

func TestFetchIssuesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	_, err := client.FetchIssues(context.Background(), "acme/missing", nil)
	assert.ErrorContains(t, err, "failed to fetch GitHub issues")
}

func TestPostComment(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/acme/shop/issues/12/comments", r.URL.Path)
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})

	require.NoError(t, client.PostComment(context.Background(), "acme/shop", "#12", "Risk: LOW"))
	assert.Equal(t, "Risk: LOW", body["body"])

	err := client.PostComment(context.Background(), "acme/shop", "PROJ-1", "x")
	assert.ErrorContains(t, err, "invalid github issue key")
}

func TestParseIssueLinks(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected []any
	}{
		{
			name:     "No references",
			body:     "Just a description mentioning #5",
			expected: []any{},
		},
		{
			name: "Outward and inward",
			body: "Blocks #3\nblocked by #7",
			expected: []any{
				map[string]any{"type": map[string]any{"name": "Blocks"}, "outwardIssue": map[string]any{"key": "#3"}},
				map[string]any{"type": map[string]any{"name": "Blocks"}, "inwardIssue": map[string]any{"key": "#7"}},
			},
		},
		{
			name: "Depends on",
			body: "This depends on #11.",
			expected: []any{
				map[string]any{"type": map[string]any{"name": "Blocks"}, "inwardIssue": map[string]any{"key": "#11"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseIssueLinks(tc.body))
		})
	}
}
