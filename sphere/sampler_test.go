package sphere

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestSamplePoints_InvalidCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "zero", n: 0},
		{name: "negative", n: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SamplePoints(tt.n, 1); err == nil {
				t.Fatalf("SamplePoints(%d) expected error, got nil", tt.n)
			}
		})
	}
}

func TestSamplePoints_Ranges(t *testing.T) {
	table, err := SamplePoints(5000, 7)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}
	if table.Len() != 5000 {
		t.Fatalf("Len = %d, want 5000", table.Len())
	}

	for _, p := range table.Points {
		if p.Lon < -180 || p.Lon > 180 {
			t.Fatalf("point %d: lon %g out of [-180, 180]", p.ID, p.Lon)
		}
		if p.Lat < -90 || p.Lat > 90 {
			t.Fatalf("point %d: lat %g out of [-90, 90]", p.ID, p.Lat)
		}
	}
}

func TestSamplePoints_Deterministic(t *testing.T) {
	a, err := SamplePoints(200, 29)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}
	b, err := SamplePoints(200, 29)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}

	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("point %d differs across runs with the same seed: %+v vs %+v",
				i, a.Points[i], b.Points[i])
		}
	}
}

// TestSamplePoints_AreaUniform bins points by sin(latitude), which divides
// the sphere into equal-area latitude bands. A naive lon/lat-uniform sampler
// piles points at the poles and fails this test by a wide margin.
func TestSamplePoints_AreaUniform(t *testing.T) {
	const (
		n    = 24000
		bins = 12
	)

	table, err := SamplePoints(n, 42)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}

	counts := make([]int, bins)
	for _, p := range table.Points {
		s := math.Sin(p.Lat * math.Pi / 180) // in [-1, 1]
		bin := int((s + 1) / 2 * bins)
		if bin == bins {
			bin = bins - 1
		}
		counts[bin]++
	}

	expected := float64(n) / bins
	var chi2 float64
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}

	threshold := distuv.ChiSquared{K: bins - 1}.Quantile(0.999)
	if chi2 > threshold {
		t.Fatalf("latitude-band chi-square = %.2f exceeds %.2f; counts %v", chi2, threshold, counts)
	}
}
