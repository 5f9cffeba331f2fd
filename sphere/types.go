package sphere

// Oceans is the synthetic continent category assigned to points that fall
// outside every continent polygon.
const Oceans = "oceans"

// PointRecord is one row of the pipeline table. Columns are filled in
// progressively: the sampler sets Lon/Lat, the joiner sets Continent, the
// projector sets X/Y/Z, and the clusterer sets Cluster.
type PointRecord struct {
	ID        int     `json:"id"`
	Lon       float64 `json:"lon"` // degrees, [-180, 180)
	Lat       float64 `json:"lat"` // degrees, [-90, 90]
	Continent string  `json:"continent,omitempty"`
	X         float64 `json:"x"` // km
	Y         float64 `json:"y"` // km
	Z         float64 `json:"z"` // km
	Cluster   int     `json:"cluster"` // -1 until assigned
}

// Table is the evolving point table. Stages return a new or extended table;
// no stage mutates its input.
type Table struct {
	Points []PointRecord
	Radius float64 // km, set by ProjectToCartesian
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Points) }

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	points := make([]PointRecord, len(t.Points))
	copy(points, t.Points)
	return Table{Points: points, Radius: t.Radius}
}

// LandOnly returns a copy of the table containing only points with a
// non-ocean continent label.
func (t Table) LandOnly() Table {
	var points []PointRecord
	for _, p := range t.Points {
		if p.Continent != Oceans {
			points = append(points, p)
		}
	}
	return Table{Points: points, Radius: t.Radius}
}

// Coords3D returns the Cartesian coordinates as a dense slice, row i
// matching table row i.
func (t Table) Coords3D() [][3]float64 {
	coords := make([][3]float64, len(t.Points))
	for i, p := range t.Points {
		coords[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return coords
}

// UMAPParams is one cell of the embedding hyperparameter grid.
type UMAPParams struct {
	Spread  float64 `yaml:"spread" json:"spread"`
	MinDist float64 `yaml:"minDist" json:"minDist"`
}

// Embedding is the 2D layout produced for one parameter set. Row i
// corresponds to table row i.
type Embedding struct {
	Params UMAPParams
	Coords [][2]float64
}

// UMAPConfig holds the embedding hyperparameters shared across grid cells.
type UMAPConfig struct {
	NNeighbors         int     `yaml:"nNeighbors" json:"nNeighbors"`
	NEpochs            int     `yaml:"nEpochs" json:"nEpochs"`
	LearningRate       float64 `yaml:"learningRate" json:"learningRate"`
	NegativeSampleRate int     `yaml:"negativeSampleRate" json:"negativeSampleRate"`
	Seed               int64   `yaml:"seed" json:"seed"`
}

// Config represents the full configuration file.
type Config struct {
	Points          int        `yaml:"points" json:"points"`
	Seed            int64      `yaml:"seed" json:"seed"`
	RadiusKM        float64    `yaml:"radiusKm" json:"radiusKm"`
	KNearest        int        `yaml:"kNearest" json:"kNearest"`
	Resolution      float64    `yaml:"resolution" json:"resolution"`
	Spreads         []float64  `yaml:"spreads" json:"spreads"`
	MinDists        []float64  `yaml:"minDists" json:"minDists"`
	UMAP            UMAPConfig `yaml:"umap" json:"umap"`
	ContinentsFile  string     `yaml:"continentsFile,omitempty" json:"continentsFile,omitempty"`
	OutputDir       string     `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`
	AnimationFrames int        `yaml:"animationFrames,omitempty" json:"animationFrames,omitempty"`
	FrameDelayCS    int        `yaml:"frameDelay,omitempty" json:"frameDelay,omitempty"` // 100ths of a second per frame
}

// Grid expands the spread and minDist axes into the full parameter grid,
// spreads outer, minDists inner.
func (c *Config) Grid() []UMAPParams {
	grid := make([]UMAPParams, 0, len(c.Spreads)*len(c.MinDists))
	for _, s := range c.Spreads {
		for _, m := range c.MinDists {
			grid = append(grid, UMAPParams{Spread: s, MinDist: m})
		}
	}
	return grid
}
