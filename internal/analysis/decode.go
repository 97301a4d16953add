package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/danielolaszy/poagent/pkg/models"
)

// DecodeIssues parses a JSON document of raw issues. It accepts either a bare
// array of {"key", "fields"} records or a Jira search response whose records
// sit under "issues".
func DecodeIssues(data []byte) ([]models.RawIssue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty issue document: %w", ErrInvalidInput)
	}

	var issues []models.RawIssue
	if data[0] == '[' {
		if err := json.Unmarshal(data, &issues); err != nil {
			return nil, fmt.Errorf("failed to parse issues: %v: %w", err, ErrInvalidInput)
		}
		return issues, nil
	}

	var envelope struct {
		Issues []models.RawIssue `json:"issues"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse issues: %v: %w", err, ErrInvalidInput)
	}
	if envelope.Issues == nil {
		return nil, fmt.Errorf("issue document has no \"issues\" array: %w", ErrInvalidInput)
	}
	return envelope.Issues, nil
}
