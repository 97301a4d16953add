package analysis

import (
	"sort"

	"github.com/danielolaszy/poagent/pkg/models"
)

// FindBlockers returns every unfinished issue that blocks at least one other
// unfinished issue, most blocking first. Issues blocking the same number of
// others keep their insertion order.
//
// A blocked issue is counted once per blocker even when the relationship was
// declared on both sides.
func FindBlockers(graph *models.DependencyGraph) []models.BlockerRecord {
	if graph == nil {
		return nil
	}

	blocks := make(map[string][]string)
	for _, edge := range graph.Edges {
		blocks[edge.From] = append(blocks[edge.From], edge.To)
	}

	blockers := []models.BlockerRecord{}
	for _, key := range graph.Order {
		node := graph.Nodes[key]
		if node.Finished() {
			continue
		}

		seen := make(map[string]bool)
		var waiting []string
		for _, target := range blocks[key] {
			blocked, ok := graph.Nodes[target]
			if !ok || blocked.Finished() || seen[target] {
				continue
			}
			seen[target] = true
			waiting = append(waiting, target)
		}
		if len(waiting) == 0 {
			continue
		}

		blockers = append(blockers, models.BlockerRecord{
			Key:           key,
			Summary:       node.Summary,
			Status:        node.Status,
			BlocksCount:   len(waiting),
			BlockedIssues: waiting,
			Owner:         node.Owner,
			Team:          node.Team,
		})
	}

	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].BlocksCount > blockers[j].BlocksCount
	})

	return blockers
}
