package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", name)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "md"
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode as %q", format)
	}
}

// WriteSprintSummary writes the sprint progress overview.
func WriteSprintSummary(w io.Writer, metrics models.SprintMetrics) error {
	s := newStyles(w)
	var b strings.Builder

	b.WriteString(s.header.Render("Sprint Metrics") + "\n")
	fmt.Fprintf(&b, "- Total Issues: %d\n", metrics.TotalIssues)
	fmt.Fprintf(&b, "- Completed: %d %s\n", len(metrics.Completed), keyList(metrics.Completed))
	fmt.Fprintf(&b, "- In Progress: %d %s\n", len(metrics.InProgress), keyList(metrics.InProgress))
	fmt.Fprintf(&b, "- Blocked: %d %s\n", len(metrics.Blocked), keyList(metrics.Blocked))
	fmt.Fprintf(&b, "- Not Started: %d %s\n", len(metrics.NotStarted), keyList(metrics.NotStarted))
	fmt.Fprintf(&b, "- Completion Rate: %.1f%%\n", metrics.CompletionRate)
	fmt.Fprintf(&b, "- Story Points: %s planned, %s completed\n",
		formatPoints(metrics.TotalPoints), formatPoints(metrics.CompletedPoints))
	fmt.Fprintf(&b, "- Velocity: %s\n", formatPoints(metrics.Velocity))

	_, err := io.WriteString(w, b.String())
	return err
}

func keyList(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return "(" + strings.Join(keys, ", ") + ")"
}

// filenameReplacer keeps saved files inside their output directory.
var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// Save writes content to dir as <name>_<YYYYMMDD_HHMMSS>.<ext> and returns
// the path. Spaces and path separators in name become underscores.
func Save(dir, name, ext string, content []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	filename := fmt.Sprintf("%s_%s.%s",
		filenameReplacer.Replace(name), now.Format("20060102_150405"), ext)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info("saved output", "path", path)
	return path, nil
}
