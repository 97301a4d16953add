package analysis

import (
	"fmt"

	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/pkg/models"
)

// BuildGraph normalizes the issues and derives "blocks" edges from their
// link lists. An outward link means the issue blocks the named issue; an
// inward link means the named issue blocks it. Edges are not deduplicated,
// so a relationship listed on both sides appears twice.
//
// Records without a key are skipped. A malformed link stops link extraction
// for that record only. Edges naming an issue outside the batch are moved to
// Dangling.
func (n *Normalizer) BuildGraph(issues []models.RawIssue) *models.DependencyGraph {
	graph := models.NewDependencyGraph()
	var declared []models.DependencyEdge

	for _, issue := range issues {
		if issue.Key == "" {
			logging.Debug("skipping issue without key")
			continue
		}

		if _, exists := graph.Nodes[issue.Key]; !exists {
			graph.Order = append(graph.Order, issue.Key)
		}
		graph.Nodes[issue.Key] = n.Normalize(issue)

		edges, err := linkEdges(issue)
		if err != nil {
			logging.Warn("skipping remaining issue links",
				"issue", issue.Key,
				"error", err)
		}
		declared = append(declared, edges...)
	}

	for _, edge := range declared {
		_, fromKnown := graph.Nodes[edge.From]
		_, toKnown := graph.Nodes[edge.To]
		if fromKnown && toKnown {
			graph.Edges = append(graph.Edges, edge)
		} else {
			graph.Dangling = append(graph.Dangling, edge)
		}
	}

	logging.Debug("dependency graph built",
		"nodes", len(graph.Nodes),
		"edges", len(graph.Edges),
		"dangling", len(graph.Dangling))

	return graph
}

// BuildGraph is a convenience wrapper using the default field mapping.
func BuildGraph(issues []models.RawIssue) *models.DependencyGraph {
	return NewNormalizer(DefaultFieldMapping()).BuildGraph(issues)
}

// linkEdges extracts the edges declared by one issue. On a malformed link
// it returns the edges gathered so far together with an error.
func linkEdges(issue models.RawIssue) ([]models.DependencyEdge, error) {
	raw, ok := issue.Fields["issuelinks"]
	if !ok || raw == nil {
		return nil, nil
	}

	var links []map[string]any
	switch v := raw.(type) {
	case []map[string]any:
		links = v
	case []any:
		for i, item := range v {
			link, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("link %d is %T, not an object", i, item)
			}
			links = append(links, link)
		}
	default:
		return nil, fmt.Errorf("issuelinks is %T, not a list", raw)
	}

	var edges []models.DependencyEdge
	for i, link := range links {
		linkType := stringAt(link, "type", "name")

		var target string
		var outward bool
		if related, ok := link["outwardIssue"]; ok {
			target, outward = relatedKey(related), true
		} else if related, ok := link["inwardIssue"]; ok {
			target = relatedKey(related)
		} else {
			continue
		}
		if target == "" {
			return edges, fmt.Errorf("link %d has no related issue key", i)
		}

		edge := models.DependencyEdge{From: target, To: issue.Key, Type: linkType}
		if outward {
			edge = models.DependencyEdge{From: issue.Key, To: target, Type: linkType}
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

func relatedKey(related any) string {
	m, ok := related.(map[string]any)
	if !ok {
		return ""
	}
	return stringAt(m, "key")
}
