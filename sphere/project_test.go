package sphere

import (
	"math"
	"testing"
)

func TestProjectToCartesian_KnownPoints(t *testing.T) {
	const r = 6371.0

	tests := []struct {
		name     string
		lon, lat float64
		want     [3]float64
	}{
		{name: "equator prime meridian", lon: 0, lat: 0, want: [3]float64{r, 0, 0}},
		{name: "equator 90E", lon: 90, lat: 0, want: [3]float64{0, r, 0}},
		{name: "north pole", lon: 0, lat: 90, want: [3]float64{0, 0, r}},
		{name: "south pole", lon: 45, lat: -90, want: [3]float64{0, 0, -r}},
		{name: "equator 180", lon: 180, lat: 0, want: [3]float64{-r, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Table{Points: []PointRecord{{Lon: tt.lon, Lat: tt.lat}}}
			out := ProjectToCartesian(table, r)
			p := out.Points[0]

			const tol = 1e-6
			if math.Abs(p.X-tt.want[0]) > tol || math.Abs(p.Y-tt.want[1]) > tol || math.Abs(p.Z-tt.want[2]) > tol {
				t.Fatalf("got (%g, %g, %g), want %v", p.X, p.Y, p.Z, tt.want)
			}
		})
	}
}

func TestProjectToCartesian_RadiusInvariant(t *testing.T) {
	const r = 6371.0

	table, err := SamplePoints(1000, 3)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}
	out := ProjectToCartesian(table, r)

	if out.Radius != r {
		t.Fatalf("Radius = %g, want %g", out.Radius, r)
	}

	for _, p := range out.Points {
		got := p.X*p.X + p.Y*p.Y + p.Z*p.Z
		if math.Abs(got-r*r)/(r*r) > 1e-12 {
			t.Fatalf("point %d: x^2+y^2+z^2 = %g, want %g", p.ID, got, r*r)
		}
	}
}

func TestProjectToCartesian_DoesNotMutateInput(t *testing.T) {
	table := Table{Points: []PointRecord{{Lon: 10, Lat: 20}}}
	_ = ProjectToCartesian(table, 100)

	if table.Points[0].X != 0 || table.Radius != 0 {
		t.Fatal("ProjectToCartesian mutated its input table")
	}
}
