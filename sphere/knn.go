package sphere

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/vptree"
)

// Neighbor is one entry of a point's nearest-neighbour list.
type Neighbor struct {
	Index int
	Dist  float64
}

// spacePoint adapts a 3D coordinate to vptree.Comparable.
type spacePoint struct {
	idx     int
	x, y, z float64
}

// Distance implements vptree.Comparable.
func (p spacePoint) Distance(c vptree.Comparable) float64 {
	q := c.(spacePoint)
	dx := p.x - q.x
	dy := p.y - q.y
	dz := p.z - q.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NearestNeighbors returns, for every input point, its k nearest neighbours
// by Euclidean distance (the point itself excluded), sorted nearest first.
func NearestNeighbors(coords [][3]float64, k int) ([][]Neighbor, error) {
	n := len(coords)
	if k < 1 {
		return nil, fmt.Errorf("neighbour count must be >= 1, got %d", k)
	}
	if k >= n {
		return nil, fmt.Errorf("neighbour count %d must be < point count %d", k, n)
	}

	comparables := make([]vptree.Comparable, n)
	for i, c := range coords {
		comparables[i] = spacePoint{idx: i, x: c[0], y: c[1], z: c[2]}
	}

	tree, err := vptree.New(comparables, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("building vantage point tree: %w", err)
	}

	result := make([][]Neighbor, n)
	for i := range comparables {
		// k+1 because the query point itself is in the tree.
		keep := vptree.NewNKeeper(k + 1)
		tree.NearestSet(keep, comparables[i])

		neighbors := make([]Neighbor, 0, k)
		for _, cd := range keep.Heap {
			if cd.Comparable == nil {
				continue
			}
			sp := cd.Comparable.(spacePoint)
			if sp.idx == i {
				continue
			}
			neighbors = append(neighbors, Neighbor{Index: sp.idx, Dist: cd.Dist})
		}

		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].Dist != neighbors[b].Dist {
				return neighbors[a].Dist < neighbors[b].Dist
			}
			return neighbors[a].Index < neighbors[b].Index
		})
		if len(neighbors) > k {
			neighbors = neighbors[:k]
		}
		result[i] = neighbors
	}

	return result, nil
}
