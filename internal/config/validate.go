package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ScannerConfig) Validate() error {
	if c.API.RestURL == "" {
		return errors.New("api.rest_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.RateLimit < 1 {
		return errors.New("api.rate_limit must be >= 1")
	}
	if c.API.MaxInFlight < 1 {
		return errors.New("api.max_in_flight must be >= 1")
	}

	if c.Surface.TopBooks < 0 {
		return fmt.Errorf("surface.top_books must be >= 0, got %d", c.Surface.TopBooks)
	}

	if c.Output.SurfacePath == "" {
		return errors.New("output.surface_path is required")
	}
	if c.Output.ContradictionsPath == "" {
		return errors.New("output.contradictions_path is required")
	}

	if c.Depth.Top < 1 {
		return errors.New("depth.top must be >= 1")
	}
	if c.Depth.Concurrency < 1 {
		return errors.New("depth.concurrency must be >= 1")
	}

	return nil
}
