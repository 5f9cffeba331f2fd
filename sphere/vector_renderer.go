package sphere

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA converts color.NRGBA to color.RGBA by premultiplying alpha.
// The canvas library expects premultiplied RGBA.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// VectorPlot renders the world scatter as vector graphics, with the
// continent outlines drawn beneath the points.
type VectorPlot struct {
	Table      Table
	Continents *ContinentSet
	ColorBy    string
	DotRadius  float64           // point radius in world degrees
	Padding    float64           // padding in world degrees
	Resolution canvas.Resolution // resolution for PNG output
}

// NewVectorPlot creates a vector plot with default settings.
func NewVectorPlot(t Table, cs *ContinentSet, colorBy string) *VectorPlot {
	return &VectorPlot{
		Table:      t,
		Continents: cs,
		ColorBy:    colorBy,
		DotRadius:  1.2,
		Padding:    8.0,
		Resolution: canvas.DPI(300),
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the plot as an SVG to the provided writer.
func (v *VectorPlot) RenderToSVG(w io.Writer) error {
	width := 360 + 2*v.Padding
	height := 180 + 2*v.Padding

	svgRenderer := svg.New(w, width, height, nil)
	v.renderToCanvas(svgRenderer, width, height)

	return svgRenderer.Close()
}

// RenderToPNG writes the plot as a rasterized PNG to the provided writer.
func (v *VectorPlot) RenderToPNG(w io.Writer) error {
	width := 360 + 2*v.Padding
	height := 180 + 2*v.Padding

	rast := rasterizer.New(width, height, v.Resolution, canvas.DefaultColorSpace)
	v.renderToCanvas(rast, width, height)

	return png.Encode(w, rast)
}

// renderToCanvas renders the plot to a canvas renderer (shared logic for
// SVG and PNG).
func (v *VectorPlot) renderToCanvas(renderer canvasRenderer, width, height float64) {
	// White background
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	// Helper to transform lon/lat to canvas coordinates (y grows upward)
	toCanvas := func(lon, lat float64) (float64, float64) {
		return lon + 180 + v.Padding, lat + 90 + v.Padding
	}

	// Continent outlines (stroked, light grey fill)
	if v.Continents != nil {
		outlineStyle := canvas.DefaultStyle
		outlineStyle.Fill = canvas.Paint{Color: color.RGBA{235, 235, 235, 255}}
		outlineStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		outlineStyle.StrokeWidth = 0.4

		for _, region := range v.Continents.Regions {
			for _, poly := range region.Geometry {
				for _, ring := range poly {
					cp := &canvas.Path{}
					for i, pt := range ring {
						cx, cy := toCanvas(pt[0], pt[1])
						if i == 0 {
							cp.MoveTo(cx, cy)
						} else {
							cp.LineTo(cx, cy)
						}
					}
					cp.Close()
					renderer.RenderPath(cp, outlineStyle, canvas.Identity)
				}
			}
		}
	}

	// Points (filled circles colored by the selected field)
	for _, p := range v.Table.Points {
		cx, cy := toCanvas(p.Lon, p.Lat)

		dotStyle := canvas.DefaultStyle
		dotStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(pointColor(p, v.ColorBy))}
		dotStyle.Stroke = canvas.Paint{Color: canvas.Transparent}

		dotPath := canvas.Circle(v.DotRadius)
		dotPath = dotPath.Translate(cx, cy)
		renderer.RenderPath(dotPath, dotStyle, canvas.Identity)
	}
}
