package sphere

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// EncodeGIF quantizes the frames to the Plan9 palette and writes them as an
// animated GIF with the given per-frame delay (100ths of a second).
func EncodeGIF(path string, frames []*image.RGBA, delayCS int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	anim := &gif.GIF{}
	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.Draw(paletted, frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delayCS)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return gif.EncodeAll(f, anim)
}

// AnimateEmbeddingGrid renders the embedding grid as an animated transition:
// each grid cell's layout morphs linearly into the next, with the parameter
// set stamped on every frame. All frames share one coordinate window so
// motion between cells is comparable.
func AnimateEmbeddingGrid(path string, t Table, embeddings []Embedding, colorBy string, framesPerTransition, delayCS int) error {
	if len(embeddings) == 0 {
		return fmt.Errorf("no embeddings to animate")
	}
	if framesPerTransition < 1 {
		framesPerTransition = 1
	}

	r := NewMapRenderer(colorBy)
	bounds := EmbeddingBounds(embeddings...)

	var frames []*image.RGBA

	label := func(img *image.RGBA, p UMAPParams) {
		text := fmt.Sprintf("spread=%g minDist=%g", p.Spread, p.MinDist)
		drawText(img, 8, r.Height-8, text, color.RGBA{0, 0, 0, 255})
	}

	// Hold the first cell for one transition's worth of frames.
	first := r.RenderEmbedding(embeddings[0].Coords, t, bounds)
	label(first, embeddings[0].Params)
	for i := 0; i < framesPerTransition; i++ {
		frames = append(frames, first)
	}

	for ci := 1; ci < len(embeddings); ci++ {
		from := embeddings[ci-1]
		to := embeddings[ci]

		for step := 1; step <= framesPerTransition; step++ {
			alpha := float64(step) / float64(framesPerTransition)
			coords := interpolateCoords(from.Coords, to.Coords, alpha)
			img := r.RenderEmbedding(coords, t, bounds)
			if alpha < 1 {
				label(img, from.Params)
			} else {
				label(img, to.Params)
			}
			frames = append(frames, img)
		}
	}

	return EncodeGIF(path, frames, delayCS)
}

// AnimateSphere renders a full rotation of the 3D point cloud as a GIF.
func AnimateSphere(path string, t Table, colorBy string, nFrames, delayCS int) error {
	if nFrames < 2 {
		return fmt.Errorf("need at least 2 frames, got %d", nFrames)
	}

	r := NewMapRenderer(colorBy)

	frames := make([]*image.RGBA, 0, nFrames)
	for i := 0; i < nFrames; i++ {
		azimuth := 360 * float64(i) / float64(nFrames)
		frames = append(frames, r.Render3D(t, azimuth, 25))
	}

	return EncodeGIF(path, frames, delayCS)
}

// LandOnly filters a table and its embeddings down to non-ocean rows,
// keeping row correspondence intact.
func LandOnly(t Table, embeddings []Embedding) (Table, []Embedding) {
	var keep []int
	for i, p := range t.Points {
		if p.Continent != Oceans {
			keep = append(keep, i)
		}
	}

	filtered := Table{Radius: t.Radius, Points: make([]PointRecord, len(keep))}
	for i, idx := range keep {
		filtered.Points[i] = t.Points[idx]
	}

	out := make([]Embedding, len(embeddings))
	for ei, e := range embeddings {
		coords := make([][2]float64, len(keep))
		for i, idx := range keep {
			coords[i] = e.Coords[idx]
		}
		out[ei] = Embedding{Params: e.Params, Coords: coords}
	}

	return filtered, out
}

// interpolateCoords linearly blends two equally sized coordinate sets.
func interpolateCoords(from, to [][2]float64, alpha float64) [][2]float64 {
	coords := make([][2]float64, len(from))
	for i := range from {
		coords[i][0] = from[i][0]*(1-alpha) + to[i][0]*alpha
		coords[i][1] = from[i][1]*(1-alpha) + to[i][1]*alpha
	}
	return coords
}
