// Package github provides functionality for reading issues from the GitHub API
// in the same raw form the JIRA source produces.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
)

const (
	blockedLabel = "blocked"
	linkType     = "Blocks"
)

var (
	linkPattern   = regexp.MustCompile(`(?i)\b(blocks|blocked by|depends on)\s+#(\d+)\b`)
	teamPattern   = regexp.MustCompile(`(?i)^team:\s*(.+)$`)
	pointsPattern = regexp.MustCompile(`(?i)^(?:points|sp):\s*(\d+(?:\.\d+)?)$`)
)

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
	fields analysis.FieldMapping
}

// NewClient creates a GitHub API client from configuration. Domains other
// than github.com are treated as GitHub Enterprise instances.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return nil, err
	}

	domain := cfg.GitHub.Domain
	if domain == "" {
		domain = "github.com"
	}

	apiURL := "https://api.github.com/"
	if domain != "github.com" {
		apiURL = fmt.Sprintf("https://%s/api/v3/", domain)
	}

	logging.Info("github configuration",
		"domain", domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(cfg.GitHub.Token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.GitHub.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return newClient(tc, apiURL, cfg.FieldMapping())
}

func newClient(httpClient *http.Client, apiURL string, fields analysis.FieldMapping) (*Client, error) {
	client := github.NewClient(httpClient)

	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url: %w", err)
	}
	client.BaseURL = parsedURL
	client.UploadURL = parsedURL

	return &Client{client: client, fields: fields}, nil
}

func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// FetchIssues retrieves open and closed issues of a repository carrying all of
// the given labels, skipping pull requests, and converts them into raw records
// keyed "#<number>".
func (c *Client) FetchIssues(ctx context.Context, repository string, labels []string) ([]models.RawIssue, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:  "all",
		Labels: labels,
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var allIssues []*github.Issue
	for {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			logging.Error("failed to fetch github issues", "repository", repository, "error", err)
			return nil, fmt.Errorf("failed to fetch GitHub issues: %w", err)
		}

		allIssues = append(allIssues, issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	result := make([]models.RawIssue, 0, len(allIssues))
	for _, issue := range allIssues {
		// Skip pull requests (they're also returned by the Issues API)
		if issue.PullRequestLinks != nil {
			continue
		}
		result = append(result, c.toRawIssue(issue))
	}

	logging.Info("fetched github issues",
		"repository", repository,
		"labels", labels,
		"count", len(result))

	return result, nil
}

// PostComment adds a comment to the issue identified by key ("#42" or "42").
func (c *Client) PostComment(ctx context.Context, repository string, key string, body string) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	number, err := strconv.Atoi(strings.TrimPrefix(key, "#"))
	if err != nil {
		return fmt.Errorf("invalid github issue key %q: %w", key, err)
	}

	_, _, err = c.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("failed to comment on %s#%d: %w", repo, number, err)
	}

	logging.Info("posted github comment", "repository", repository, "issue_number", number)
	return nil
}

func (c *Client) toRawIssue(issue *github.Issue) models.RawIssue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	fields := map[string]any{
		"summary":    issue.GetTitle(),
		"status":     map[string]any{"name": issueStatus(issue, labels)},
		"issuelinks": parseIssueLinks(issue.GetBody()),
	}

	if login := issue.GetAssignee().GetLogin(); login != "" {
		fields["assignee"] = map[string]any{"displayName": login}
	}
	if due := issue.GetMilestone().GetDueOn(); !due.IsZero() {
		fields["duedate"] = due.Format("2006-01-02")
	}

	for _, label := range labels {
		if m := teamPattern.FindStringSubmatch(label); m != nil {
			fields[c.fields.Team] = strings.TrimSpace(m[1])
		}
		if m := pointsPattern.FindStringSubmatch(label); m != nil {
			fields[c.fields.StoryPoints] = m[1]
		}
	}

	return models.RawIssue{
		Key:    fmt.Sprintf("#%d", issue.GetNumber()),
		Fields: fields,
	}
}

// issueStatus maps GitHub state and labels onto tracker-style status names.
func issueStatus(issue *github.Issue, labels []string) string {
	if issue.GetState() == "closed" {
		return "Closed"
	}
	for _, label := range labels {
		if strings.EqualFold(label, blockedLabel) {
			return "Blocked"
		}
	}
	if issue.GetAssignee() != nil {
		return "In Progress"
	}
	return "Open"
}

// parseIssueLinks extracts dependency references from an issue body.
// "blocks #N" declares an outward link; "blocked by #N" and "depends on #N"
// declare inward links.
func parseIssueLinks(body string) []any {
	links := []any{}
	for _, match := range linkPattern.FindAllStringSubmatch(body, -1) {
		direction := "inwardIssue"
		if strings.EqualFold(match[1], "blocks") {
			direction = "outwardIssue"
		}
		links = append(links, map[string]any{
			"type":    map[string]any{"name": linkType},
			direction: map[string]any{"key": "#" + match[2]},
		})
	}

	if len(links) > 0 {
		logging.Debug("parsed issue links", "count", len(links))
	}
	return links
}
