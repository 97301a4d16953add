// Package config provides centralized configuration management for the application.
//
// Configuration is loaded once by the command layer and passed by value to the
// components that need it; nothing in this package is global.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/spf13/viper"
)

const (
	defaultTeamField        = "customfield_10004"
	defaultStoryPointsField = "customfield_10016"
	defaultGitHubDomain     = "github.com"
	defaultReportDir        = "./reports"
	defaultChartDir         = "./charts"
	defaultWeeklyVelocity   = 5.0
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub GitHubConfig
	Jira   JiraConfig
	Output OutputConfig
	Risk   RiskConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL      string
	Username string
	Token    string

	// TeamField is the custom field carrying the team assignment
	TeamField string

	// StoryPointsField is the custom field carrying the effort weight
	StoryPointsField string
}

// OutputConfig holds the directories generated files are written to.
type OutputConfig struct {
	ReportDir string
	ChartDir  string
}

// RiskConfig holds the timeline risk heuristic parameters.
type RiskConfig struct {
	WeeklyVelocity float64
}

// LoadConfig loads configuration from environment variables and, when path is
// non-empty, from the given config file. Environment variables take precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("jira.team_field", defaultTeamField)
	v.SetDefault("jira.story_points_field", defaultStoryPointsField)
	v.SetDefault("github.domain", defaultGitHubDomain)
	v.SetDefault("output.report_dir", defaultReportDir)
	v.SetDefault("output.chart_dir", defaultChartDir)
	v.SetDefault("risk.weekly_velocity", defaultWeeklyVelocity)

	// Map specific environment variables
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("jira.team_field", "JIRA_FIELD_TEAM_ASSIGNMENT")
	v.BindEnv("jira.story_points_field", "JIRA_FIELD_STORY_POINTS")
	v.BindEnv("output.report_dir", "REPORT_OUTPUT_DIR")
	v.BindEnv("output.chart_dir", "CHART_OUTPUT_DIR")
	v.BindEnv("risk.weekly_velocity", "RISK_WEEKLY_VELOCITY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	config := &Config{
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
		},
		Jira: JiraConfig{
			URL:              v.GetString("jira.url"),
			Username:         v.GetString("jira.username"),
			Token:            v.GetString("jira.token"),
			TeamField:        v.GetString("jira.team_field"),
			StoryPointsField: v.GetString("jira.story_points_field"),
		},
		Output: OutputConfig{
			ReportDir: v.GetString("output.report_dir"),
			ChartDir:  v.GetString("output.chart_dir"),
		},
		Risk: RiskConfig{
			WeeklyVelocity: v.GetFloat64("risk.weekly_velocity"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig checks the values every command depends on. Credentials are
// checked per source by ValidateJiraConfig and ValidateGitHubConfig.
func validateConfig(config *Config) error {
	if config.GitHub.Domain == "" {
		config.GitHub.Domain = defaultGitHubDomain
	}
	if config.Jira.TeamField == "" || config.Jira.StoryPointsField == "" {
		return fmt.Errorf("jira custom field names must not be empty")
	}
	if config.Risk.WeeklyVelocity <= 0 {
		return fmt.Errorf("risk weekly velocity must be positive, got %v", config.Risk.WeeklyVelocity)
	}
	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Username == "" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// ValidateGitHubConfig validates GitHub-specific configuration.
func ValidateGitHubConfig(config *Config) error {
	if config.GitHub.Token == "" {
		return fmt.Errorf("missing required environment variables: [GITHUB_TOKEN]")
	}
	return nil
}

// FieldMapping returns the normalizer's custom field mapping.
func (c *Config) FieldMapping() analysis.FieldMapping {
	return analysis.FieldMapping{
		Team:        c.Jira.TeamField,
		StoryPoints: c.Jira.StoryPointsField,
	}
}

// EnsureOutputDirs creates the report and chart directories if needed.
func (c *Config) EnsureOutputDirs() error {
	for _, dir := range []string{c.Output.ReportDir, c.Output.ChartDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}
