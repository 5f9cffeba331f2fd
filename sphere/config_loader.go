package sphere

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the built-in pipeline configuration: 100 points,
// seed 29, Earth-radius sphere, a 3x3 spread/minDist grid, and GIF output in
// the working directory.
func DefaultConfig() *Config {
	return &Config{
		Points:     100,
		Seed:       29,
		RadiusKM:   6371,
		KNearest:   10,
		Resolution: 1.0,
		Spreads:    []float64{1.0, 2.0, 3.0},
		MinDists:   []float64{0.05, 0.25, 0.5},
		UMAP: UMAPConfig{
			NNeighbors:         15,
			NEpochs:            200,
			LearningRate:       1.0,
			NegativeSampleRate: 5,
			Seed:               29,
		},
		OutputDir:       ".",
		AnimationFrames: 12,
		FrameDelayCS:    8,
	}
}

// LoadConfig loads the pipeline configuration from a YAML file. An empty
// path returns DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ValidateConfig checks the configuration for values the pipeline cannot
// run with.
func ValidateConfig(c *Config) error {
	if c.Points <= 0 {
		return fmt.Errorf("points must be > 0, got %d", c.Points)
	}
	if c.RadiusKM <= 0 {
		return fmt.Errorf("radiusKm must be > 0, got %g", c.RadiusKM)
	}
	if c.KNearest < 1 {
		return fmt.Errorf("kNearest must be >= 1, got %d", c.KNearest)
	}
	if c.KNearest >= c.Points {
		return fmt.Errorf("kNearest (%d) must be < points (%d)", c.KNearest, c.Points)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be > 0, got %g", c.Resolution)
	}
	if len(c.Spreads) == 0 || len(c.MinDists) == 0 {
		return fmt.Errorf("spreads and minDists must each have at least one value")
	}
	for _, s := range c.Spreads {
		if s <= 0 {
			return fmt.Errorf("spread must be > 0, got %g", s)
		}
		for _, m := range c.MinDists {
			if m < 0 {
				return fmt.Errorf("minDist must be >= 0, got %g", m)
			}
			if m > s {
				return fmt.Errorf("minDist %g exceeds spread %g", m, s)
			}
		}
	}
	if c.UMAP.NNeighbors < 2 {
		return fmt.Errorf("umap.nNeighbors must be >= 2, got %d", c.UMAP.NNeighbors)
	}
	if c.UMAP.NNeighbors >= c.Points {
		return fmt.Errorf("umap.nNeighbors (%d) must be < points (%d)", c.UMAP.NNeighbors, c.Points)
	}
	if c.UMAP.NEpochs <= 0 {
		return fmt.Errorf("umap.nEpochs must be > 0, got %d", c.UMAP.NEpochs)
	}
	if c.UMAP.LearningRate <= 0 {
		return fmt.Errorf("umap.learningRate must be > 0, got %g", c.UMAP.LearningRate)
	}
	if c.UMAP.NegativeSampleRate < 0 {
		return fmt.Errorf("umap.negativeSampleRate must be >= 0, got %d", c.UMAP.NegativeSampleRate)
	}
	if c.AnimationFrames < 1 {
		return fmt.Errorf("animationFrames must be >= 1, got %d", c.AnimationFrames)
	}
	return nil
}
