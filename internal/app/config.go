package app

import (
	"errors"

	"github.com/born-ml/gradgraph/internal/viz"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath  string  // hcl file
	Output     string  // Overrides the file's output when set
	DOTPath    string  // Graphviz output; "-" for stdout, empty to skip
	RenderPath string  // Rendered image; format from the extension, empty to skip
	Check      bool    // Run the gradient check over every leaf
	Tolerance  float64 // Gradient check tolerance

	LogFormat string
	LogLevel  string
}

// DefaultTolerance is the gradient check tolerance when none is given.
const DefaultTolerance = 1e-4

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.RenderPath != "" {
		if _, err := viz.FormatFromPath(cfg.RenderPath); err != nil {
			return nil, err
		}
	}
	if cfg.Tolerance < 0 {
		return nil, errors.New("tolerance must not be negative")
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	return &cfg, nil
}
