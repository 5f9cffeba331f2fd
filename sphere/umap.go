package sphere

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/optimize"
)

// umapEdge is one directed edge of the symmetrized fuzzy graph. Both
// directions of every undirected edge are present, matching the sparse
// matrix layout the layout optimizer expects.
type umapEdge struct {
	from, to int
	weight   float64
}

// FitABParams fits the (a, b) coefficients of the UMAP output weight curve
// 1/(1+a*d^(2b)) to the target curve defined by spread and minDist:
// exactly 1 below minDist, exp(-(d-minDist)/spread) beyond it.
//
// The fit is a Nelder-Mead least squares over distances sampled up to three
// spreads out.
func FitABParams(spread, minDist float64) (float64, float64, error) {
	if spread <= 0 {
		return 0, 0, fmt.Errorf("spread must be > 0, got %g", spread)
	}
	if minDist < 0 || minDist > spread {
		return 0, 0, fmt.Errorf("minDist must be in [0, spread], got %g", minDist)
	}

	const samples = 300
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := 0; i < samples; i++ {
		x := 3 * spread * float64(i+1) / samples
		xs[i] = x
		if x < minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}

	// Optimize in log space so a and b stay positive.
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			a := math.Exp(p[0])
			b := math.Exp(p[1])
			var sum float64
			for i, x := range xs {
				fit := 1 / (1 + a*math.Pow(x, 2*b))
				diff := fit - ys[i]
				sum += diff * diff
			}
			return sum
		},
	}

	result, err := optimize.Minimize(problem, []float64{0, 0}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, 0, fmt.Errorf("fitting a/b curve: %w", err)
	}

	return math.Exp(result.X[0]), math.Exp(result.X[1]), nil
}

// smoothKNNCalibration computes rho (distance to the nearest neighbour) and
// sigma (the smooth bandwidth) for one point's sorted neighbour distances,
// so that the summed membership strengths equal log2(k).
func smoothKNNCalibration(dists []float64) (rho, sigma float64) {
	for _, d := range dists {
		if d > 0 {
			rho = d
			break
		}
	}

	target := math.Log2(float64(len(dists)))
	lo, hi := 0.0, math.Inf(1)
	sigma = 1.0

	for iter := 0; iter < 64; iter++ {
		var sum float64
		for _, d := range dists {
			if d > rho {
				sum += math.Exp(-(d - rho) / sigma)
			} else {
				sum += 1
			}
		}

		if math.Abs(sum-target) < 1e-5 {
			break
		}
		if sum > target {
			hi = sigma
			sigma = (lo + hi) / 2
		} else {
			lo = sigma
			if math.IsInf(hi, 1) {
				sigma *= 2
			} else {
				sigma = (lo + hi) / 2
			}
		}
	}

	if sigma < 1e-12 {
		sigma = 1e-12
	}
	return rho, sigma
}

// buildFuzzyGraph converts per-point neighbour lists into the symmetrized
// fuzzy simplicial set: directional memberships exp(-(d-rho)/sigma)
// combined with w = wa + wb - wa*wb. The returned edge list is sorted and
// contains both directions of every edge.
func buildFuzzyGraph(neighbors [][]Neighbor) []umapEdge {
	n := len(neighbors)

	directional := make([]map[int]float64, n)
	for i, row := range neighbors {
		dists := make([]float64, len(row))
		for j, nb := range row {
			dists[j] = nb.Dist
		}
		rho, sigma := smoothKNNCalibration(dists)

		directional[i] = make(map[int]float64, len(row))
		for _, nb := range row {
			var w float64
			if nb.Dist <= rho {
				w = 1
			} else {
				w = math.Exp(-(nb.Dist - rho) / sigma)
			}
			directional[i][nb.Index] = w
		}
	}

	type key struct{ a, b int }
	merged := make(map[key]float64)
	for i, row := range directional {
		for j, wij := range row {
			a, b := i, j
			if a > b {
				a, b = b, a
			}
			k := key{a, b}
			wji := directional[j][i]
			// Probabilistic union; computing it from both directions gives
			// the same value, so overwriting is safe.
			merged[k] = wij + wji - wij*wji
		}
	}

	edges := make([]umapEdge, 0, 2*len(merged))
	for k, w := range merged {
		if w <= 0 {
			continue
		}
		edges = append(edges, umapEdge{from: k.a, to: k.b, weight: w})
		edges = append(edges, umapEdge{from: k.b, to: k.a, weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	return edges
}

// UMAPEmbed computes a 2D UMAP embedding of the given 3D points for one
// (spread, minDist) parameter set. The run is single-threaded and seeded, so
// identical inputs and configuration reproduce the output bit for bit.
func UMAPEmbed(coords [][3]float64, params UMAPParams, cfg UMAPConfig) ([][2]float64, error) {
	n := len(coords)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 points to embed, got %d", n)
	}

	neighbors, err := NearestNeighbors(coords, cfg.NNeighbors)
	if err != nil {
		return nil, err
	}

	a, b, err := FitABParams(params.Spread, params.MinDist)
	if err != nil {
		return nil, err
	}

	edges := buildFuzzyGraph(neighbors)
	if len(edges) == 0 {
		return nil, fmt.Errorf("fuzzy graph is empty")
	}

	maxW := 0.0
	for _, e := range edges {
		if e.weight > maxW {
			maxW = e.weight
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Random init in [-10, 10].
	layout := make([][2]float64, n)
	for i := range layout {
		layout[i][0] = rng.Float64()*20 - 10
		layout[i][1] = rng.Float64()*20 - 10
	}

	nEpochs := cfg.NEpochs
	epochsPerSample := make([]float64, len(edges))
	epochOfNext := make([]float64, len(edges))
	epochsPerNeg := make([]float64, len(edges))
	epochOfNextNeg := make([]float64, len(edges))
	negRate := float64(cfg.NegativeSampleRate)
	for i, e := range edges {
		epochsPerSample[i] = maxW / e.weight
		epochOfNext[i] = epochsPerSample[i]
		if negRate > 0 {
			epochsPerNeg[i] = epochsPerSample[i] / negRate
		} else {
			epochsPerNeg[i] = math.Inf(1)
		}
		epochOfNextNeg[i] = epochsPerNeg[i]
	}

	clip := func(v float64) float64 {
		if v > 4 {
			return 4
		}
		if v < -4 {
			return -4
		}
		return v
	}

	for epoch := 0; epoch < nEpochs; epoch++ {
		alpha := cfg.LearningRate * (1 - float64(epoch)/float64(nEpochs))

		for ei, e := range edges {
			if epochOfNext[ei] > float64(epoch) {
				continue
			}

			head := &layout[e.from]
			tail := &layout[e.to]

			dx := head[0] - tail[0]
			dy := head[1] - tail[1]
			d2 := dx*dx + dy*dy

			if d2 > 0 {
				gradCoeff := -2 * a * b * math.Pow(d2, b-1) / (a*math.Pow(d2, b) + 1)
				gx := clip(gradCoeff * dx)
				gy := clip(gradCoeff * dy)
				head[0] += alpha * gx
				head[1] += alpha * gy
				tail[0] -= alpha * gx
				tail[1] -= alpha * gy
			}

			epochOfNext[ei] += epochsPerSample[ei]

			if negRate <= 0 {
				continue
			}
			nNeg := int((float64(epoch) - epochOfNextNeg[ei]) / epochsPerNeg[ei])
			if nNeg < 0 {
				nNeg = 0
			}
			for s := 0; s < nNeg; s++ {
				other := rng.Intn(n)
				if other == e.from {
					continue
				}
				o := &layout[other]
				dx := head[0] - o[0]
				dy := head[1] - o[1]
				d2 := dx*dx + dy*dy

				var gx, gy float64
				if d2 > 0 {
					gradCoeff := 2 * b / ((0.001 + d2) * (a*math.Pow(d2, b) + 1))
					gx = clip(gradCoeff * dx)
					gy = clip(gradCoeff * dy)
				} else {
					gx, gy = 4, 4
				}
				head[0] += alpha * gx
				head[1] += alpha * gy
			}
			epochOfNextNeg[ei] += float64(nNeg) * epochsPerNeg[ei]
		}
	}

	for i := range layout {
		if math.IsNaN(layout[i][0]) || math.IsInf(layout[i][0], 0) ||
			math.IsNaN(layout[i][1]) || math.IsInf(layout[i][1], 0) {
			return nil, fmt.Errorf("layout diverged at point %d", i)
		}
	}

	return layout, nil
}
