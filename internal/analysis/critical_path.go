package analysis

import (
	"errors"
	"fmt"

	"github.com/danielolaszy/poagent/pkg/models"
)

// ErrInvalidInput is returned when an analysis precondition is not met.
var ErrInvalidInput = errors.New("invalid input")

// CriticalPath finds the longest chain of blocking dependencies, weighted by
// effort, using Kahn-style topological processing. The distance of a node is
// the heaviest cumulative weight of any chain ending in it.
//
// Ties between equally heavy endpoints go to the node inserted first. Nodes on
// a cycle never reach in-degree zero and are not propagated through; cycles
// are not rejected here (see FindCycles).
func CriticalPath(graph *models.DependencyGraph) (models.CriticalPath, error) {
	if graph == nil || len(graph.Order) == 0 {
		return models.CriticalPath{}, fmt.Errorf("critical path of an empty graph: %w", ErrInvalidInput)
	}
	nodes := graph.Nodes

	adjacency := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	for _, edge := range graph.Edges {
		if _, ok := nodes[edge.From]; !ok {
			continue
		}
		if _, ok := nodes[edge.To]; !ok {
			continue
		}
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
		inDegree[edge.To]++
	}

	distance := make(map[string]float64, len(nodes))
	predecessor := make(map[string]string, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, key := range graph.Order {
		distance[key] = nodes[key].Weight
		if inDegree[key] == 0 {
			queue = append(queue, key)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range adjacency[current] {
			candidate := distance[current] + nodes[neighbor].Weight
			if candidate > distance[neighbor] {
				distance[neighbor] = candidate
				predecessor[neighbor] = current
			}

			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	end := graph.Order[0]
	for _, key := range graph.Order[1:] {
		if distance[key] > distance[end] {
			end = key
		}
	}

	var path []string
	for current, ok := end, true; ok; current, ok = predecessor[current] {
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return models.CriticalPath{Keys: path, Weight: distance[end]}, nil
}
