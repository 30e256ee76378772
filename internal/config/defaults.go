package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL            = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultAPITimeout         = 15 * time.Second
	DefaultRateLimit          = 8 // basic tier is 10/s; leave headroom
	DefaultMaxInFlight        = 10
	DefaultTopBooks           = 25
	DefaultSurfacePath        = "market_surface.json"
	DefaultContradictionsPath = "contradictions.json"
	DefaultDepthTop           = 10
	DefaultDepthConcurrency   = 8
)

func (c *ScannerConfig) applyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = DefaultRateLimit
	}
	if c.API.MaxInFlight == 0 {
		c.API.MaxInFlight = DefaultMaxInFlight
	}

	// Surface defaults
	if c.Surface.TopBooks == 0 {
		c.Surface.TopBooks = DefaultTopBooks
	}

	// Output defaults
	if c.Output.SurfacePath == "" {
		c.Output.SurfacePath = DefaultSurfacePath
	}
	if c.Output.ContradictionsPath == "" {
		c.Output.ContradictionsPath = DefaultContradictionsPath
	}

	// Depth defaults
	if c.Depth.Top == 0 {
		c.Depth.Top = DefaultDepthTop
	}
	if c.Depth.Concurrency == 0 {
		c.Depth.Concurrency = DefaultDepthConcurrency
	}
}
