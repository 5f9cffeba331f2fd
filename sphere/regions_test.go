package sphere

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGeoJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "continents.geojson")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write geojson fixture: %v", err)
	}
	return path
}

func TestLoadContinents_Builtin(t *testing.T) {
	cs, err := LoadContinents("")
	if err != nil {
		t.Fatalf("LoadContinents: %v", err)
	}
	if len(cs.Regions) != 7 {
		t.Fatalf("got %d regions, want 7", len(cs.Regions))
	}

	categories := cs.Categories()
	if categories[len(categories)-1] != Oceans {
		t.Fatalf("last category = %q, want %q", categories[len(categories)-1], Oceans)
	}
}

func TestContinentSet_Locate(t *testing.T) {
	cs, err := LoadContinents("")
	if err != nil {
		t.Fatalf("LoadContinents: %v", err)
	}

	tests := []struct {
		name     string
		lon, lat float64
		want     string
	}{
		{name: "sahara", lon: 20, lat: 15, want: "Africa"},
		{name: "central europe", lon: 10, lat: 50, want: "Europe"},
		{name: "gobi", lon: 100, lat: 42, want: "Asia"},
		{name: "great plains", lon: -100, lat: 40, want: "North America"},
		{name: "amazon", lon: -60, lat: -10, want: "South America"},
		{name: "outback", lon: 135, lat: -25, want: "Oceania"},
		{name: "south pole region", lon: 0, lat: -85, want: "Antarctica"},
		{name: "south pacific", lon: -150, lat: -40, want: Oceans},
		{name: "south atlantic", lon: -20, lat: -30, want: Oceans},
		{name: "north pole", lon: 0, lat: 89, want: Oceans},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cs.Locate(tt.lon, tt.lat)
			if got != tt.want {
				t.Errorf("Locate(%g, %g) = %q, want %q", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestContinentSet_Join(t *testing.T) {
	cs, err := LoadContinents("")
	if err != nil {
		t.Fatalf("LoadContinents: %v", err)
	}

	table, err := SamplePoints(500, 11)
	if err != nil {
		t.Fatalf("SamplePoints: %v", err)
	}
	joined := cs.Join(table)

	names := map[string]bool{Oceans: true}
	for _, n := range cs.ContinentNames() {
		names[n] = true
	}

	for _, p := range joined.Points {
		if !names[p.Continent] {
			t.Fatalf("point %d: unknown continent label %q", p.ID, p.Continent)
		}
		// Oceans iff no polygon contains the point.
		if (p.Continent == Oceans) != (cs.Locate(p.Lon, p.Lat) == Oceans) {
			t.Fatalf("point %d: label %q inconsistent with Locate", p.ID, p.Continent)
		}
	}

	// Input must not be touched.
	if table.Points[0].Continent != "" {
		t.Fatal("Join mutated its input table")
	}
}

func TestLoadContinents_ValidFile(t *testing.T) {
	path := writeGeoJSON(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"continent": "Testland"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]]]
      }
    }
  ]
}`)

	cs, err := LoadContinents(path)
	if err != nil {
		t.Fatalf("LoadContinents: %v", err)
	}
	if got := cs.Locate(5, 5); got != "Testland" {
		t.Errorf("Locate(5, 5) = %q, want Testland", got)
	}
	if got := cs.Locate(20, 20); got != Oceans {
		t.Errorf("Locate(20, 20) = %q, want %q", got, Oceans)
	}
}

func TestLoadContinents_SelfIntersectingPolygon(t *testing.T) {
	// Bowtie: the edges (0,0)-(10,10) and (10,0)-(0,6) cross.
	path := writeGeoJSON(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"continent": "Bowtie"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [10, 10], [10, 0], [0, 6], [0, 0]]]
      }
    }
  ]
}`)

	_, err := LoadContinents(path)
	if err == nil {
		t.Fatal("expected error for self-intersecting polygon, got nil")
	}
	if !strings.Contains(err.Error(), "intersect") {
		t.Errorf("error %q does not mention intersection", err)
	}
}

func TestLoadContinents_TooFewPositions(t *testing.T) {
	path := writeGeoJSON(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"continent": "Sliver"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [10, 0], [0, 0]]]
      }
    }
  ]
}`)

	if _, err := LoadContinents(path); err == nil {
		t.Fatal("expected error for degenerate ring, got nil")
	}
}

func TestLoadContinents_MissingProperty(t *testing.T) {
	path := writeGeoJSON(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]]]
      }
    }
  ]
}`)

	if _, err := LoadContinents(path); err == nil {
		t.Fatal("expected error for missing continent property, got nil")
	}
}

func TestLoadContinents_MissingFile(t *testing.T) {
	if _, err := LoadContinents(filepath.Join(t.TempDir(), "nope.geojson")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
