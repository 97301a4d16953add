package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/danielolaszy/poagent/internal/github"
	"github.com/danielolaszy/poagent/internal/jira"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
	"github.com/spf13/cobra"
)

// issueSource describes where a command reads its issues from.
type issueSource struct {
	input      string
	jql        string
	repository string
	labels     []string
}

// addSourceFlags registers the flags selecting an issue source.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Read issues from a JSON file ('-' for stdin)")
	cmd.Flags().StringP("jql", "q", "", "Read issues from JIRA matching a JQL query")
	cmd.Flags().StringP("repository", "r", "", "Read issues from a GitHub repository (e.g., 'owner/repo')")
	cmd.Flags().StringArrayP("label", "l", []string{}, "Only read GitHub issues with this label (can be specified multiple times)")
}

func sourceFromFlags(cmd *cobra.Command) (issueSource, error) {
	var src issueSource
	var err error

	if src.input, err = cmd.Flags().GetString("input"); err != nil {
		return src, err
	}
	if src.jql, err = cmd.Flags().GetString("jql"); err != nil {
		return src, err
	}
	if src.repository, err = cmd.Flags().GetString("repository"); err != nil {
		return src, err
	}
	if src.labels, err = cmd.Flags().GetStringArray("label"); err != nil {
		return src, err
	}

	set := 0
	for _, value := range []string{src.input, src.jql, src.repository} {
		if value != "" {
			set++
		}
	}
	if set != 1 {
		return src, fmt.Errorf("exactly one of --input, --jql or --repository must be specified")
	}

	return src, nil
}

// tracker names the tracker comments go back to.
func (s issueSource) tracker() string {
	switch {
	case s.repository != "":
		return "github"
	case s.jql != "":
		return "jira"
	default:
		return ""
	}
}

// load reads the raw issues from the selected source.
func (s issueSource) load(ctx context.Context, cfg *config.Config, stdin io.Reader) ([]models.RawIssue, error) {
	switch {
	case s.input != "":
		return readIssueFile(s.input, stdin)

	case s.jql != "":
		client, err := jira.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize jira client: %w", err)
		}
		return client.SearchIssues(ctx, s.jql)

	default:
		client, err := github.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize github client: %w", err)
		}
		return client.FetchIssues(ctx, s.repository, s.labels)
	}
}

// readIssueFile decodes issues from path, or from stdin when path is "-".
func readIssueFile(path string, stdin io.Reader) ([]models.RawIssue, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read issues from %s: %w", path, err)
	}

	issues, err := analysis.DecodeIssues(data)
	if err != nil {
		return nil, err
	}

	logging.Debug("read issues from file", "path", path, "count", len(issues))
	return issues, nil
}

// loadConfig loads configuration honouring the persistent --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// postComment sends body as a comment on key in the tracker the issues came from.
func postComment(ctx context.Context, cfg *config.Config, src issueSource, key, body string) error {
	switch src.tracker() {
	case "jira":
		client, err := jira.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize jira client: %w", err)
		}
		return client.PostComment(ctx, key, body)

	case "github":
		client, err := github.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize github client: %w", err)
		}
		return client.PostComment(ctx, src.repository, key, body)

	default:
		return fmt.Errorf("--comment-on requires issues read with --jql or --repository")
	}
}
