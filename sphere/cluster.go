package sphere

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// ClusterPoints builds a k-nearest-neighbour graph over the table's 3D
// coordinates and partitions it with modularity community detection at the
// given resolution. Edge weights are 1/(1+d) so near neighbours bind more
// strongly.
//
// Returns a new table with Cluster set on every row, plus the number of
// communities found. Cluster ids are dense, ordered by each community's
// lowest member index so a fixed seed yields a stable labeling.
func ClusterPoints(t Table, k int, resolution float64, seed int64) (Table, int, error) {
	n := t.Len()
	if n == 0 {
		return Table{}, 0, fmt.Errorf("cannot cluster an empty table")
	}
	if resolution <= 0 {
		return Table{}, 0, fmt.Errorf("resolution must be > 0, got %g", resolution)
	}

	neighbors, err := NearestNeighbors(t.Coords3D(), k)
	if err != nil {
		return Table{}, 0, err
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i, row := range neighbors {
		for _, nb := range row {
			if i == nb.Index {
				continue
			}
			w := 1 / (1 + nb.Dist)
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(nb.Index), w))
		}
	}

	src := rand.NewPCG(uint64(seed), uint64(seed))
	reduced := community.Modularize(g, resolution, src)
	communities := reduced.Communities()

	// Order communities by their lowest member id for a stable labeling.
	sort.Slice(communities, func(a, b int) bool {
		return minNodeID(communities[a]) < minNodeID(communities[b])
	})

	out := t.Clone()
	for id, comm := range communities {
		for _, node := range comm {
			out.Points[node.ID()].Cluster = id
		}
	}

	for i := range out.Points {
		if out.Points[i].Cluster < 0 {
			return Table{}, 0, fmt.Errorf("point %d received no cluster", i)
		}
	}

	return out, len(communities), nil
}

func minNodeID(nodes []graph.Node) int64 {
	min := nodes[0].ID()
	for _, n := range nodes[1:] {
		if n.ID() < min {
			min = n.ID()
		}
	}
	return min
}
