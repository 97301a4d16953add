package analysis

import (
	"github.com/danielolaszy/poagent/pkg/models"
)

func outward(linkType, key string) map[string]any {
	return map[string]any{
		"type":         map[string]any{"name": linkType},
		"outwardIssue": map[string]any{"key": key},
	}
}

func inward(linkType, key string) map[string]any {
	return map[string]any{
		"type":        map[string]any{"name": linkType},
		"inwardIssue": map[string]any{"key": key},
	}
}

// rawIssue builds a Jira-shaped record using the default field mapping.
func rawIssue(key, status string, points any, links ...map[string]any) models.RawIssue {
	fields := map[string]any{
		"summary": "Summary of " + key,
		"status":  map[string]any{"name": status},
	}
	if points != nil {
		fields["customfield_10016"] = points
	}
	if len(links) > 0 {
		list := make([]any, 0, len(links))
		for _, link := range links {
			list = append(list, link)
		}
		fields["issuelinks"] = list
	}
	return models.RawIssue{Key: key, Fields: fields}
}

// chain returns A blocks B blocks C with weights 3, 5 and 2.
func chain(statusA, statusB, statusC string) []models.RawIssue {
	return []models.RawIssue{
		rawIssue("A", statusA, 3, outward("Blocks", "B")),
		rawIssue("B", statusB, 5, outward("Blocks", "C")),
		rawIssue("C", statusC, 2),
	}
}
