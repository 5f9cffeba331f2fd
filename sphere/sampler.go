package sphere

import (
	"fmt"
	"math"
	"math/rand"
)

// SamplePoints draws n points with an area-uniform distribution on the unit
// sphere surface and returns them as a table with Lon/Lat filled in.
//
// Longitude is uniform in [-180, 180). Latitude is asin(2u-1): sampling the
// sine of the latitude uniformly is what makes the distribution uniform in
// surface area rather than clustered at the poles.
//
// The same seed always produces the same table.
func SamplePoints(n int, seed int64) (Table, error) {
	if n <= 0 {
		return Table{}, fmt.Errorf("point count must be > 0, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	points := make([]PointRecord, n)
	for i := range points {
		lon := rng.Float64()*360 - 180
		lat := math.Asin(2*rng.Float64()-1) * 180 / math.Pi
		points[i] = PointRecord{
			ID:      i,
			Lon:     lon,
			Lat:     lat,
			Cluster: -1,
		}
	}

	return Table{Points: points}, nil
}
