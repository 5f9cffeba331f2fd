package sphere

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Color-by fields accepted by the renderers.
const (
	ColorByContinent = "continent"
	ColorByCluster   = "cluster"
)

// continentColors maps the built-in continent categories to display colors.
// Unknown categories fall back to a slot from clusterPalette.
var continentColors = map[string]color.NRGBA{
	"Africa":        {230, 159, 0, 255},   // Orange
	"Antarctica":    {86, 180, 233, 255},  // Sky blue
	"Asia":          {0, 158, 115, 255},   // Teal green
	"Europe":        {240, 228, 66, 255},  // Yellow
	"North America": {0, 114, 178, 255},   // Blue
	"Oceania":       {213, 94, 0, 255},    // Vermillion
	"South America": {204, 121, 167, 255}, // Pink
	Oceans:          {160, 174, 192, 255}, // Slate grey
}

// clusterPalette provides distinct colors cycled by cluster id.
var clusterPalette = []color.NRGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
	{127, 127, 127, 255},
	{188, 189, 34, 255},
	{23, 190, 207, 255},
	{174, 199, 232, 255},
	{255, 187, 120, 255},
}

var backgroundGrey = color.NRGBA{245, 245, 245, 255}

// ContinentColor returns the display color for a continent label.
func ContinentColor(name string) color.NRGBA {
	if c, ok := continentColors[name]; ok {
		return c
	}
	return clusterPalette[hashString(name)%len(clusterPalette)]
}

// ClusterColor returns the display color for a cluster id.
func ClusterColor(id int) color.NRGBA {
	if id < 0 {
		return color.NRGBA{0, 0, 0, 255}
	}
	return clusterPalette[id%len(clusterPalette)]
}

func hashString(s string) int {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// pointColor resolves a record's display color for the given color-by field.
func pointColor(p PointRecord, colorBy string) color.NRGBA {
	if colorBy == ColorByCluster {
		return ClusterColor(p.Cluster)
	}
	return ContinentColor(p.Continent)
}

// MapRenderer draws raster scatter views of the point table.
type MapRenderer struct {
	Width   int
	Height  int
	Dot     int // point radius in pixels
	Legend  bool
	ColorBy string
}

// NewMapRenderer creates a raster renderer with default settings.
func NewMapRenderer(colorBy string) *MapRenderer {
	return &MapRenderer{
		Width:   900,
		Height:  480,
		Dot:     3,
		Legend:  true,
		ColorBy: colorBy,
	}
}

// RenderWorld draws the table as an equirectangular lon/lat scatter.
func (r *MapRenderer) RenderWorld(t Table) *image.RGBA {
	img := newFilledImage(r.Width, r.Height, backgroundGrey)

	for _, p := range t.Points {
		x := int((p.Lon + 180) / 360 * float64(r.Width))
		y := int((90 - p.Lat) / 180 * float64(r.Height))
		drawDot(img, x, y, r.Dot, pointColor(p, r.ColorBy))
	}

	if r.Legend {
		r.drawLegend(img, t)
	}
	return img
}

// RenderEmbedding draws one 2D embedding as a scatter. The bounds parameter
// fixes the coordinate window so successive animation frames share a scale;
// pass EmbeddingBounds of the coords for a single static plot.
func (r *MapRenderer) RenderEmbedding(coords [][2]float64, t Table, bounds [4]float64) *image.RGBA {
	img := newFilledImage(r.Width, r.Height, backgroundGrey)

	minX, minY, maxX, maxY := bounds[0], bounds[1], bounds[2], bounds[3]
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	pad := 20.0
	for i, c := range coords {
		if i >= len(t.Points) {
			break
		}
		x := int(pad + (c[0]-minX)/spanX*(float64(r.Width)-2*pad))
		y := int(pad + (maxY-c[1])/spanY*(float64(r.Height)-2*pad))
		drawDot(img, x, y, r.Dot, pointColor(t.Points[i], r.ColorBy))
	}

	if r.Legend {
		r.drawLegend(img, t)
	}
	return img
}

// Render3D draws an orthographic projection of the 3D coordinates viewed
// from the given azimuth and elevation (degrees). Points are depth-sorted
// and drawn back to front, far points dimmed for depth cueing.
func (r *MapRenderer) Render3D(t Table, azimuthDeg, elevationDeg float64) *image.RGBA {
	size := r.Height
	img := newFilledImage(size, size, backgroundGrey)
	if t.Len() == 0 {
		return img
	}

	az := azimuthDeg * math.Pi / 180
	el := elevationDeg * math.Pi / 180
	cosAz, sinAz := math.Cos(az), math.Sin(az)
	cosEl, sinEl := math.Cos(el), math.Sin(el)

	type projected struct {
		sx, sy int
		depth  float64
		rec    PointRecord
	}

	radius := t.Radius
	if radius <= 0 {
		for _, p := range t.Points {
			d := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
			if d > radius {
				radius = d
			}
		}
	}
	scale := float64(size) * 0.42 / radius

	pts := make([]projected, 0, t.Len())
	for _, p := range t.Points {
		// Rotate about z by azimuth, then about x by elevation.
		rx := p.X*cosAz + p.Y*sinAz
		ry := -p.X*sinAz + p.Y*cosAz
		rz := p.Z

		depth := ry*cosEl - rz*sinEl
		vy := ry*sinEl + rz*cosEl

		sx := size/2 + int(rx*scale)
		sy := size/2 - int(vy*scale)
		pts = append(pts, projected{sx: sx, sy: sy, depth: depth, rec: p})
	}

	// Far points first so near points draw over them.
	sort.Slice(pts, func(i, j int) bool { return pts[i].depth > pts[j].depth })

	for _, pp := range pts {
		c := pointColor(pp.rec, r.ColorBy)
		if pp.depth > 0 {
			// Back hemisphere: dim toward the background.
			c = dimColor(c, 0.45)
		}
		drawDot(img, pp.sx, pp.sy, r.Dot, c)
	}

	if r.Legend {
		r.drawLegend(img, t)
	}
	return img
}

// EmbeddingBounds returns [minX, minY, maxX, maxY] over one or more
// embeddings, so animation frames can share a coordinate window.
func EmbeddingBounds(embeddings ...Embedding) [4]float64 {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, e := range embeddings {
		for _, c := range e.Coords {
			if c[0] < minX {
				minX = c[0]
			}
			if c[1] < minY {
				minY = c[1]
			}
			if c[0] > maxX {
				maxX = c[0]
			}
			if c[1] > maxY {
				maxY = c[1]
			}
		}
	}
	return [4]float64{minX, minY, maxX, maxY}
}

// drawLegend lists the categories present in the table with color swatches.
func (r *MapRenderer) drawLegend(img *image.RGBA, t Table) {
	type entry struct {
		label string
		c     color.NRGBA
	}

	var entries []entry
	if r.ColorBy == ColorByCluster {
		seen := map[int]bool{}
		for _, p := range t.Points {
			if !seen[p.Cluster] {
				seen[p.Cluster] = true
			}
		}
		ids := make([]int, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			entries = append(entries, entry{label: fmt.Sprintf("cluster %d", id), c: ClusterColor(id)})
		}
	} else {
		seen := map[string]bool{}
		for _, p := range t.Points {
			if !seen[p.Continent] {
				seen[p.Continent] = true
			}
		}
		labels := make([]string, 0, len(seen))
		for l := range seen {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			entries = append(entries, entry{label: l, c: ContinentColor(l)})
		}
	}

	y := 15
	for _, e := range entries {
		for dy := 0; dy < 10; dy++ {
			for dx := 0; dx < 10; dx++ {
				img.Set(8+dx, y+dy-5, e.c)
			}
		}
		drawText(img, 24, y+4, e.label, color.RGBA{0, 0, 0, 255})
		y += 16
	}
}

// SavePNG writes an image to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return png.Encode(f, img)
}

// newFilledImage creates an RGBA image filled with the given color.
func newFilledImage(width, height int, c color.NRGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// drawDot draws a filled circle clipped to the image bounds.
func drawDot(img *image.RGBA, cx, cy, radius int, c color.NRGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				x, y := cx+dx, cy+dy
				if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
					img.Set(x, y, c)
				}
			}
		}
	}
}

// dimColor blends a color toward the background by the given factor.
func dimColor(c color.NRGBA, factor float64) color.NRGBA {
	blend := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*factor + float64(bg)*(1-factor))
	}
	return color.NRGBA{
		R: blend(c.R, backgroundGrey.R),
		G: blend(c.G, backgroundGrey.G),
		B: blend(c.B, backgroundGrey.B),
		A: 255,
	}
}

// drawText renders text onto an image at the specified position.
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
