package sphere

import "math"

// ProjectToCartesian converts each point's lon/lat (degrees) to Cartesian
// coordinates on a sphere of the given radius:
//
//	x = r * cos(lat) * cos(lon)
//	y = r * cos(lat) * sin(lon)
//	z = r * sin(lat)
//
// Returns a new table with X/Y/Z set and Radius recorded. Deterministic, no
// failure modes.
func ProjectToCartesian(t Table, radius float64) Table {
	out := t.Clone()
	out.Radius = radius
	for i := range out.Points {
		lon := out.Points[i].Lon * math.Pi / 180
		lat := out.Points[i].Lat * math.Pi / 180
		out.Points[i].X = radius * math.Cos(lat) * math.Cos(lon)
		out.Points[i].Y = radius * math.Cos(lat) * math.Sin(lon)
		out.Points[i].Z = radius * math.Sin(lat)
	}
	return out
}
