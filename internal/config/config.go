package config

import "time"

// ScannerConfig is the root configuration for a scanner run.
type ScannerConfig struct {
	API     APIConfig     `yaml:"api"`
	Surface SurfaceConfig `yaml:"surface"`
	Output  OutputConfig  `yaml:"output"`
	Depth   DepthConfig   `yaml:"depth"`
}

// APIConfig holds Kalshi API settings.
type APIConfig struct {
	RestURL        string        `yaml:"rest_url"`
	APIKey         string        `yaml:"api_key"`          // API key ID (for KALSHI-ACCESS-KEY header)
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	Timeout        time.Duration `yaml:"timeout"`
	RateLimit      int           `yaml:"rate_limit"`    // requests per second
	MaxInFlight    int           `yaml:"max_in_flight"` // concurrent requests
}

// SurfaceConfig holds discovery settings.
type SurfaceConfig struct {
	// TopBooks is how many of the highest-volume markets get their
	// orderbook attached during discovery.
	TopBooks int `yaml:"top_books"`
}

// OutputConfig holds artifact paths.
type OutputConfig struct {
	SurfacePath        string `yaml:"surface_path"`
	ContradictionsPath string `yaml:"contradictions_path"`
}

// DepthConfig holds depth-check settings.
type DepthConfig struct {
	Top         int `yaml:"top"`         // inversions reported after ranking
	Concurrency int `yaml:"concurrency"` // concurrent orderbook fetches
}
