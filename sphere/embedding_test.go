package sphere

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunEmbeddingGrid_FullPipeline runs the reference scenario end to end:
// 100 points, seed 29, Earth radius, a 3x3 hyperparameter grid. It must
// produce 9 embeddings of 100 rows each, 900 rows total, all finite.
func TestRunEmbeddingGrid_FullPipeline(t *testing.T) {
	cfg := DefaultConfig()

	table, err := SamplePoints(cfg.Points, cfg.Seed)
	require.NoError(t, err)
	table = ProjectToCartesian(table, cfg.RadiusKM)

	grid := cfg.Grid()
	require.Len(t, grid, 9)

	embeddings, err := RunEmbeddingGrid(table, grid, cfg.UMAP)
	require.NoError(t, err)
	require.Len(t, embeddings, 9)

	rows := 0
	for ei, e := range embeddings {
		assert.Equal(t, grid[ei], e.Params)
		require.Len(t, e.Coords, cfg.Points, "embedding %d", ei)
		for i, c := range e.Coords {
			for d := 0; d < 2; d++ {
				require.False(t, math.IsNaN(c[d]) || math.IsInf(c[d], 0),
					"embedding %d row %d dim %d not finite: %g", ei, i, d, c[d])
			}
		}
		rows += len(e.Coords)
	}
	assert.Equal(t, 900, rows)
}

func TestRunEmbeddingGrid_GridOrder(t *testing.T) {
	cfg := &Config{
		Spreads:  []float64{1, 2},
		MinDists: []float64{0.1, 0.3},
	}
	grid := cfg.Grid()

	want := []UMAPParams{
		{Spread: 1, MinDist: 0.1},
		{Spread: 1, MinDist: 0.3},
		{Spread: 2, MinDist: 0.1},
		{Spread: 2, MinDist: 0.3},
	}
	assert.Equal(t, want, grid)
}

func TestRunEmbeddingGrid_EmptyGrid(t *testing.T) {
	table, err := SamplePoints(50, 1)
	require.NoError(t, err)
	table = ProjectToCartesian(table, 6371)

	_, err = RunEmbeddingGrid(table, nil, DefaultConfig().UMAP)
	assert.Error(t, err)
}

func TestRunEmbeddingGrid_BadCell(t *testing.T) {
	table, err := SamplePoints(50, 1)
	require.NoError(t, err)
	table = ProjectToCartesian(table, 6371)

	cfg := DefaultConfig().UMAP
	_, err = RunEmbeddingGrid(table, []UMAPParams{{Spread: 0, MinDist: 0}}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spread=0")
}
