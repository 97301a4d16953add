package analysis

import (
	"github.com/danielolaszy/poagent/pkg/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// FindCycles reports the dependency cycles in the graph: one entry per
// strongly connected component with more than one member, plus one per
// self-blocking issue. Members are listed in insertion order, and components
// are ordered by their first member.
func FindCycles(graph *models.DependencyGraph) [][]string {
	if graph == nil || len(graph.Order) == 0 {
		return nil
	}

	position := make(map[string]int64, len(graph.Order))
	for i, key := range graph.Order {
		position[key] = int64(i)
	}

	g := simple.NewDirectedGraph()
	for i := range graph.Order {
		g.AddNode(simple.Node(int64(i)))
	}

	selfLoops := make(map[int64]bool)
	for _, edge := range graph.Edges {
		from, okFrom := position[edge.From]
		to, okTo := position[edge.To]
		if !okFrom || !okTo {
			continue
		}
		if from == to {
			selfLoops[from] = true
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	inCycle := make(map[int64]int)
	var components [][]int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) == 1 && !selfLoops[scc[0].ID()] {
			continue
		}
		members := make([]int64, 0, len(scc))
		for _, n := range scc {
			members = append(members, n.ID())
		}
		components = append(components, members)
	}
	for idx, members := range components {
		for _, id := range members {
			inCycle[id] = idx
		}
	}

	// Walk positions in order so both members and components come out sorted.
	var cycles [][]string
	emitted := make(map[int]int)
	for i, key := range graph.Order {
		idx, ok := inCycle[int64(i)]
		if !ok {
			continue
		}
		slot, seen := emitted[idx]
		if !seen {
			slot = len(cycles)
			emitted[idx] = slot
			cycles = append(cycles, nil)
		}
		cycles[slot] = append(cycles[slot], key)
	}

	return cycles
}
