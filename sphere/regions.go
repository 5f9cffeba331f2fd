package sphere

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ContinentRegion is one named continent with its polygon geometry in
// lon/lat degrees.
type ContinentRegion struct {
	Name     string
	Geometry orb.MultiPolygon
}

// ContinentSet holds the validated continent polygons used by the spatial
// join.
type ContinentSet struct {
	Regions []ContinentRegion
}

// ContinentNames returns the region names in load order, without the
// synthetic "oceans" category.
func (cs *ContinentSet) ContinentNames() []string {
	names := make([]string, len(cs.Regions))
	for i, r := range cs.Regions {
		names[i] = r.Name
	}
	return names
}

// Categories returns all continent labels the join can produce, including
// "oceans".
func (cs *ContinentSet) Categories() []string {
	return append(cs.ContinentNames(), Oceans)
}

// Locate returns the continent containing the given lon/lat point, or
// "oceans" when no polygon contains it. Regions are checked in load order;
// the first containing polygon wins.
func (cs *ContinentSet) Locate(lon, lat float64) string {
	p := orb.Point{lon, lat}
	for _, r := range cs.Regions {
		if planar.MultiPolygonContains(r.Geometry, p) {
			return r.Name
		}
	}
	return Oceans
}

// Join annotates every point in the table with its continent label. Returns
// a new table; every row gets exactly one label.
func (cs *ContinentSet) Join(t Table) Table {
	out := t.Clone()
	for i := range out.Points {
		out.Points[i].Continent = cs.Locate(out.Points[i].Lon, out.Points[i].Lat)
	}
	return out
}

// LoadContinents loads continent polygons from a GeoJSON FeatureCollection.
// Each feature must carry a "continent" string property and Polygon or
// MultiPolygon geometry. An empty path returns the built-in simplified
// continent set.
//
// All geometry is validated on load; an invalid polygon (unclosed ring,
// too few positions, self-intersection, zero area) is a fatal input error.
func LoadContinents(path string) (*ContinentSet, error) {
	if path == "" {
		return builtinContinents()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading continents file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing continents GeoJSON: %w", err)
	}

	cs := &ContinentSet{}
	for i, f := range fc.Features {
		name, _ := f.Properties["continent"].(string)
		if name == "" {
			return nil, fmt.Errorf("feature %d: missing continent property", i)
		}

		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			return nil, fmt.Errorf("feature %d (%s): unsupported geometry type %T", i, name, f.Geometry)
		}

		if err := validateMultiPolygon(mp); err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, name, err)
		}

		cs.Regions = append(cs.Regions, ContinentRegion{Name: name, Geometry: mp})
	}

	if len(cs.Regions) == 0 {
		return nil, fmt.Errorf("continents file contains no usable features")
	}

	return cs, nil
}

// validateMultiPolygon checks every ring of every polygon for closure,
// minimum size, non-zero area, and self-intersection.
func validateMultiPolygon(mp orb.MultiPolygon) error {
	for pi, poly := range mp {
		for ri, ring := range poly {
			if len(ring) < 4 {
				return fmt.Errorf("polygon %d ring %d: need at least 4 positions, got %d", pi, ri, len(ring))
			}
			if !ring.Closed() {
				return fmt.Errorf("polygon %d ring %d: ring is not closed", pi, ri)
			}
			if math.Abs(planar.Area(ring)) == 0 {
				return fmt.Errorf("polygon %d ring %d: ring has zero area", pi, ri)
			}
			if i, j, found := ringSelfIntersection(ring); found {
				return fmt.Errorf("polygon %d ring %d: segments %d and %d intersect", pi, ri, i, j)
			}
		}
	}
	return nil
}

// ringSelfIntersection reports the first pair of non-adjacent ring segments
// that cross. The closing segment is treated as adjacent to the first.
func ringSelfIntersection(ring orb.Ring) (int, int, bool) {
	n := len(ring) - 1 // last position repeats the first
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip the pair of segments sharing the ring's start/end vertex.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// segmentsCross reports whether segments ab and cd properly intersect.
func segmentsCross(a, b, c, d orb.Point) bool {
	cross := func(o, p, q orb.Point) float64 {
		return (p[0]-o[0])*(q[1]-o[1]) - (p[1]-o[1])*(q[0]-o[0])
	}
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// builtinContinents returns the simplified continent polygon set compiled
// into the binary. The outlines are deliberately coarse: the pipeline only
// needs a categorical land/ocean assignment, not cartographic accuracy.
func builtinContinents() (*ContinentSet, error) {
	mk := func(name string, rings ...[][2]float64) ContinentRegion {
		mp := make(orb.MultiPolygon, len(rings))
		for i, coords := range rings {
			ring := make(orb.Ring, 0, len(coords)+1)
			for _, c := range coords {
				ring = append(ring, orb.Point{c[0], c[1]})
			}
			if !ring.Closed() {
				ring = append(ring, ring[0])
			}
			mp[i] = orb.Polygon{ring}
		}
		return ContinentRegion{Name: name, Geometry: mp}
	}

	cs := &ContinentSet{
		Regions: []ContinentRegion{
			mk("Africa", [][2]float64{
				{-17, 35}, {12, 38}, {34, 30}, {44, 12}, {40, -5},
				{35, -25}, {20, -35}, {12, -18}, {8, 5}, {-10, 5}, {-17, 15},
			}),
			mk("Europe", [][2]float64{
				{-10, 36}, {0, 36}, {15, 38}, {28, 41}, {40, 47},
				{45, 55}, {40, 68}, {25, 71}, {5, 62}, {-10, 54},
			}),
			mk("Asia", [][2]float64{
				{45, 68}, {70, 75}, {110, 77}, {140, 73}, {178, 64},
				{160, 58}, {142, 50}, {128, 34}, {122, 22}, {108, 8},
				{98, 8}, {80, 6}, {68, 20}, {56, 24}, {46, 28}, {42, 40},
			}),
			mk("North America", [][2]float64{
				{-168, 66}, {-130, 70}, {-95, 72}, {-70, 62}, {-55, 48},
				{-75, 34}, {-80, 24}, {-88, 15}, {-83, 8}, {-92, 14},
				{-105, 20}, {-118, 32}, {-125, 42}, {-150, 60},
			}),
			mk("South America", [][2]float64{
				{-78, 8}, {-62, 10}, {-50, 0}, {-35, -8}, {-40, -22},
				{-58, -35}, {-65, -48}, {-70, -54}, {-74, -46}, {-72, -30},
				{-78, -12}, {-81, 0},
			}),
			mk("Oceania", [][2]float64{
				{113, -22}, {122, -14}, {132, -11}, {142, -11}, {148, -18},
				{153, -28}, {150, -38}, {140, -39}, {131, -32}, {124, -33},
				{114, -35},
			}),
			mk("Antarctica", [][2]float64{
				{-179, -62}, {179, -62}, {179, -89}, {-179, -89},
			}),
		},
	}

	for _, r := range cs.Regions {
		if err := validateMultiPolygon(r.Geometry); err != nil {
			return nil, fmt.Errorf("builtin continent %s: %w", r.Name, err)
		}
	}

	return cs, nil
}
