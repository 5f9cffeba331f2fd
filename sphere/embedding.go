package sphere

import "fmt"

// RunEmbeddingGrid computes one 2D embedding of the table's 3D coordinates
// per hyperparameter set, in grid order. Every embedding has exactly one row
// per table row.
//
// Each grid cell starts from the same seeded state, so the grid is fully
// reproducible for a fixed configuration.
func RunEmbeddingGrid(t Table, grid []UMAPParams, cfg UMAPConfig) ([]Embedding, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("hyperparameter grid is empty")
	}

	coords := t.Coords3D()
	embeddings := make([]Embedding, 0, len(grid))
	for _, params := range grid {
		layout, err := UMAPEmbed(coords, params, cfg)
		if err != nil {
			return nil, fmt.Errorf("embedding spread=%g minDist=%g: %w", params.Spread, params.MinDist, err)
		}
		embeddings = append(embeddings, Embedding{Params: params, Coords: layout})
	}

	return embeddings, nil
}
