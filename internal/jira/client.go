// Package jira provides functionality for reading issues from the JIRA API.
package jira

import (
	"context"
	"fmt"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
)

const searchPageSize = 100

// Client handles interactions with the JIRA API
type Client struct {
	client *jira.Client
	fields analysis.FieldMapping
}

// NewClient creates a JIRA client authenticated with basic auth. It returns
// an error naming the missing variables when credentials are not configured.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}

	tp := jira.BasicAuthTransport{
		Username: cfg.Jira.Username,
		Password: cfg.Jira.Token,
	}

	client, err := jira.NewClient(tp.Client(), cfg.Jira.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	logging.Debug("jira configuration",
		"url", cfg.Jira.URL,
		"username", cfg.Jira.Username,
		"token", logging.MaskSensitive(cfg.Jira.Token))

	return &Client{
		client: client,
		fields: cfg.FieldMapping(),
	}, nil
}

// requestedFields lists the issue fields the analysis reads.
func (c *Client) requestedFields() []string {
	return []string{
		"summary",
		"status",
		"assignee",
		"duedate",
		"issuelinks",
		c.fields.Team,
		c.fields.StoryPoints,
	}
}

// SearchIssues runs a JQL query and returns every matching issue, following
// pagination until the result set is exhausted.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]models.RawIssue, error) {
	if c.client == nil {
		return nil, fmt.Errorf("JIRA client not initialized")
	}

	opts := &jira.SearchOptions{
		MaxResults: searchPageSize,
		Fields:     c.requestedFields(),
	}

	var result []models.RawIssue
	for {
		issues, resp, err := c.client.Issue.SearchWithContext(ctx, jql, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search jira issues: %w", err)
		}

		for _, issue := range issues {
			result = append(result, c.toRawIssue(issue))
		}

		opts.StartAt += len(issues)
		if len(issues) == 0 || resp == nil || opts.StartAt >= resp.Total {
			break
		}
	}

	logging.Info("fetched jira issues",
		"jql", jql,
		"count", len(result))

	return result, nil
}

// SprintIssues returns all issues of the given sprint.
func (c *Client) SprintIssues(ctx context.Context, sprintID int) ([]models.RawIssue, error) {
	if c.client == nil {
		return nil, fmt.Errorf("JIRA client not initialized")
	}

	issues, _, err := c.client.Sprint.GetIssuesForSprintWithContext(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues for sprint %d: %w", sprintID, err)
	}

	result := make([]models.RawIssue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, c.toRawIssue(issue))
	}

	logging.Info("fetched sprint issues",
		"sprint", sprintID,
		"count", len(result))

	return result, nil
}

// PostComment adds a comment to the given issue.
func (c *Client) PostComment(ctx context.Context, key string, body string) error {
	if c.client == nil {
		return fmt.Errorf("JIRA client not initialized")
	}

	_, _, err := c.client.Issue.AddCommentWithContext(ctx, key, &jira.Comment{Body: body})
	if err != nil {
		return fmt.Errorf("failed to comment on %s: %w", key, err)
	}

	logging.Info("posted jira comment", "issue", key)
	return nil
}

// toRawIssue converts a go-jira issue back into the REST field layout the
// normalizer reads.
func (c *Client) toRawIssue(issue jira.Issue) models.RawIssue {
	fields := map[string]any{}
	raw := models.RawIssue{Key: issue.Key, Fields: fields}

	f := issue.Fields
	if f == nil {
		return raw
	}

	fields["summary"] = f.Summary
	if f.Status != nil {
		fields["status"] = map[string]any{"name": f.Status.Name}
	}
	if f.Assignee != nil {
		fields["assignee"] = map[string]any{"displayName": f.Assignee.DisplayName}
	}
	if due := time.Time(f.Duedate); !due.IsZero() {
		fields["duedate"] = due.Format("2006-01-02")
	}

	links := make([]any, 0, len(f.IssueLinks))
	for _, link := range f.IssueLinks {
		if link == nil {
			continue
		}
		entry := map[string]any{"type": map[string]any{"name": link.Type.Name}}
		if link.OutwardIssue != nil {
			entry["outwardIssue"] = map[string]any{"key": link.OutwardIssue.Key}
		}
		if link.InwardIssue != nil {
			entry["inwardIssue"] = map[string]any{"key": link.InwardIssue.Key}
		}
		links = append(links, entry)
	}
	fields["issuelinks"] = links

	for _, name := range []string{c.fields.Team, c.fields.StoryPoints} {
		if value, ok := f.Unknowns[name]; ok {
			fields[name] = value
		}
	}

	return raw
}
