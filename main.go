package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kwv/spheremap/sphere"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "", "Path to configuration file (default: built-in settings)")
	points     = flag.Int("points", 0, "Override point count from config")
	seed       = flag.Int64("seed", -1, "Override random seed from config (-1 keeps config value)")
	outputDir  = flag.String("output-dir", "", "Override output directory from config")
	format     = flag.String("format", "both", "Static plot format: raster, vector, or both")
	sampleOnly = flag.Bool("sample-only", false, "Sample, join, project, and cluster, then print a summary and exit")
	noAnimate  = flag.Bool("no-animate", false, "Skip GIF animation output")
)

func main() {
	flag.Parse()
	fmt.Printf("spheremap version: %s\n", Version)

	config, err := sphere.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if *points > 0 {
		config.Points = *points
	}
	if *seed >= 0 {
		config.Seed = *seed
		config.UMAP.Seed = *seed
	}
	if *outputDir != "" {
		config.OutputDir = *outputDir
	}
	if err := sphere.ValidateConfig(config); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	out := func(name string) string { return filepath.Join(config.OutputDir, name) }

	// Stage 1: sample points uniformly on the sphere.
	table, err := sphere.SamplePoints(config.Points, config.Seed)
	if err != nil {
		log.Fatalf("Error sampling points: %v", err)
	}
	log.Printf("Sampled %d points (seed %d)", table.Len(), config.Seed)

	// Stage 2: spatial join against the continent polygons.
	continents, err := sphere.LoadContinents(config.ContinentsFile)
	if err != nil {
		log.Fatalf("Error loading continents: %v", err)
	}
	table = continents.Join(table)
	logContinentCounts(table)

	// Stage 3: project to Cartesian coordinates.
	table = sphere.ProjectToCartesian(table, config.RadiusKM)
	log.Printf("Projected to sphere of radius %g km", config.RadiusKM)

	// Stage 4: kNN graph community detection.
	table, nClusters, err := sphere.ClusterPoints(table, config.KNearest, config.Resolution, config.Seed)
	if err != nil {
		log.Fatalf("Error clustering points: %v", err)
	}
	log.Printf("Community detection found %d clusters (k=%d, resolution=%g)",
		nClusters, config.KNearest, config.Resolution)

	if *sampleOnly {
		printSummary(table, nClusters)
		return
	}

	// Stage 5: embedding grid.
	grid := config.Grid()
	log.Printf("Running %d UMAP embeddings (%d spreads x %d minDists)",
		len(grid), len(config.Spreads), len(config.MinDists))
	embeddings, err := sphere.RunEmbeddingGrid(table, grid, config.UMAP)
	if err != nil {
		log.Fatalf("Error running embedding grid: %v", err)
	}

	// Stage 6: static plots.
	if *format == "raster" || *format == "both" {
		renderRaster(table, embeddings, out)
	}
	if *format == "vector" || *format == "both" {
		renderVector(table, continents, out)
	}

	// Stage 7: animations.
	if !*noAnimate {
		renderAnimations(table, embeddings, config, out)
	}

	log.Printf("Done; output written to %s", config.OutputDir)
}

func logContinentCounts(t sphere.Table) {
	counts := map[string]int{}
	for _, p := range t.Points {
		counts[p.Continent]++
	}
	log.Printf("Continent join: %d points across %d categories", t.Len(), len(counts))
	for name, n := range counts {
		log.Printf("  %-14s %d", name, n)
	}
}

func printSummary(t sphere.Table, nClusters int) {
	fmt.Printf("points: %d\nclusters: %d\n", t.Len(), nClusters)
	limit := t.Len()
	if limit > 10 {
		limit = 10
	}
	for _, p := range t.Points[:limit] {
		fmt.Printf("  #%d lon=%.2f lat=%.2f %s cluster=%d\n",
			p.ID, p.Lon, p.Lat, p.Continent, p.Cluster)
	}
}

func renderRaster(table sphere.Table, embeddings []sphere.Embedding, out func(string) string) {
	worldByContinent := sphere.NewMapRenderer(sphere.ColorByContinent)
	if err := sphere.SavePNG(out("world-continents.png"), worldByContinent.RenderWorld(table)); err != nil {
		log.Fatalf("Error writing world-continents.png: %v", err)
	}

	worldByCluster := sphere.NewMapRenderer(sphere.ColorByCluster)
	if err := sphere.SavePNG(out("world-clusters.png"), worldByCluster.RenderWorld(table)); err != nil {
		log.Fatalf("Error writing world-clusters.png: %v", err)
	}

	if err := sphere.SavePNG(out("sphere-view.png"), worldByCluster.Render3D(table, 30, 25)); err != nil {
		log.Fatalf("Error writing sphere-view.png: %v", err)
	}

	for _, e := range embeddings {
		name := fmt.Sprintf("embedding-s%g-m%g.png", e.Params.Spread, e.Params.MinDist)
		img := worldByContinent.RenderEmbedding(e.Coords, table, sphere.EmbeddingBounds(e))
		if err := sphere.SavePNG(out(name), img); err != nil {
			log.Fatalf("Error writing %s: %v", name, err)
		}
	}
	log.Printf("Wrote raster plots (%d embedding cells)", len(embeddings))
}

func renderVector(table sphere.Table, continents *sphere.ContinentSet, out func(string) string) {
	plot := sphere.NewVectorPlot(table, continents, sphere.ColorByContinent)

	svgFile, err := os.Create(out("world-map.svg"))
	if err != nil {
		log.Fatalf("Error creating world-map.svg: %v", err)
	}
	if err := plot.RenderToSVG(svgFile); err != nil {
		log.Fatalf("Error rendering world-map.svg: %v", err)
	}
	if err := svgFile.Close(); err != nil {
		log.Fatalf("Error closing world-map.svg: %v", err)
	}

	pngFile, err := os.Create(out("world-map.png"))
	if err != nil {
		log.Fatalf("Error creating world-map.png: %v", err)
	}
	if err := plot.RenderToPNG(pngFile); err != nil {
		log.Fatalf("Error rendering world-map.png: %v", err)
	}
	if err := pngFile.Close(); err != nil {
		log.Fatalf("Error closing world-map.png: %v", err)
	}
	log.Printf("Wrote vector plots")
}

func renderAnimations(table sphere.Table, embeddings []sphere.Embedding, config *sphere.Config, out func(string) string) {
	frames := config.AnimationFrames
	delay := config.FrameDelayCS

	if err := sphere.AnimateEmbeddingGrid(out("world-projection.gif"),
		table, embeddings, sphere.ColorByContinent, frames, delay); err != nil {
		log.Fatalf("Error writing world-projection.gif: %v", err)
	}

	if err := sphere.AnimateEmbeddingGrid(out("cluster-transitions.gif"),
		table, embeddings, sphere.ColorByCluster, frames, delay); err != nil {
		log.Fatalf("Error writing cluster-transitions.gif: %v", err)
	}

	if err := sphere.AnimateSphere(out("sphere-rotation.gif"),
		table, sphere.ColorByContinent, 36, delay); err != nil {
		log.Fatalf("Error writing sphere-rotation.gif: %v", err)
	}

	landTable, landEmbeddings := sphere.LandOnly(table, embeddings)
	if landTable.Len() > 0 {
		if err := sphere.AnimateEmbeddingGrid(out("world-projection-land.gif"),
			landTable, landEmbeddings, sphere.ColorByContinent, frames, delay); err != nil {
			log.Fatalf("Error writing world-projection-land.gif: %v", err)
		}
	}
	log.Printf("Wrote animations")
}
