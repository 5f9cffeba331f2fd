package sphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// polarCaps builds a table with two tight point caps on opposite poles of a
// unit sphere. The kNN graph over it is disconnected, so any community
// detection must find at least two clusters.
func polarCaps(perCap int) Table {
	table := Table{Radius: 1}
	id := 0
	for i := 0; i < perCap; i++ {
		jitter := float64(i) * 0.001
		table.Points = append(table.Points, PointRecord{
			ID: id, X: jitter, Y: jitter, Z: 1 - jitter, Cluster: -1,
		})
		id++
	}
	for i := 0; i < perCap; i++ {
		jitter := float64(i) * 0.001
		table.Points = append(table.Points, PointRecord{
			ID: id, X: -jitter, Y: jitter, Z: -1 + jitter, Cluster: -1,
		})
		id++
	}
	return table
}

func TestClusterPoints_SeparatedCaps(t *testing.T) {
	table := polarCaps(30)

	out, nClusters, err := ClusterPoints(table, 6, 1.0, 29)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, nClusters, 2, "disconnected caps must split into at least two clusters")

	// The two caps must never share a cluster id.
	northIDs := map[int]bool{}
	for _, p := range out.Points[:30] {
		northIDs[p.Cluster] = true
	}
	for _, p := range out.Points[30:] {
		assert.False(t, northIDs[p.Cluster],
			"point %d in the south cap shares cluster %d with the north cap", p.ID, p.Cluster)
	}
}

func TestClusterPoints_EveryPointAssigned(t *testing.T) {
	table, err := SamplePoints(150, 17)
	require.NoError(t, err)
	table = ProjectToCartesian(table, 6371)

	out, nClusters, err := ClusterPoints(table, 10, 1.0, 29)
	require.NoError(t, err)
	require.Equal(t, 150, out.Len())
	assert.LessOrEqual(t, nClusters, 150)

	// Dense ids: every id in [0, nClusters) appears, nothing outside it.
	seen := make([]bool, nClusters)
	for _, p := range out.Points {
		require.GreaterOrEqual(t, p.Cluster, 0, "point %d unassigned", p.ID)
		require.Less(t, p.Cluster, nClusters, "point %d has out-of-range cluster", p.ID)
		seen[p.Cluster] = true
	}
	for id, ok := range seen {
		assert.True(t, ok, "cluster id %d is empty", id)
	}

	// Input stays untouched.
	assert.Equal(t, -1, table.Points[0].Cluster)
}

func TestClusterPoints_Deterministic(t *testing.T) {
	table, err := SamplePoints(120, 23)
	require.NoError(t, err)
	table = ProjectToCartesian(table, 6371)

	a, na, err := ClusterPoints(table, 8, 1.0, 29)
	require.NoError(t, err)
	b, nb, err := ClusterPoints(table, 8, 1.0, 29)
	require.NoError(t, err)

	require.Equal(t, na, nb)
	for i := range a.Points {
		assert.Equal(t, a.Points[i].Cluster, b.Points[i].Cluster, "point %d", i)
	}
}

func TestClusterPoints_InvalidInput(t *testing.T) {
	_, _, err := ClusterPoints(Table{}, 5, 1.0, 1)
	assert.Error(t, err, "empty table")

	table := polarCaps(5)
	_, _, err = ClusterPoints(table, 5, 0, 1)
	assert.Error(t, err, "zero resolution")

	_, _, err = ClusterPoints(table, 10, 1.0, 1)
	assert.Error(t, err, "k >= n")
}
