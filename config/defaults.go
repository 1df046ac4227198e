package config

import (
	"runtime"
	"time"
)

const (
	defaultProbeRadius       = 1.4
	defaultSampleCount       = 400
	defaultExposureThreshold = 0.5

	defaultHTTPTimeout   = 120 * time.Second
	defaultHTTPUserAgent = "exposure (+https://github.com/tikz/exposure)"

	defaultCachePath = "data/cache.db"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		ProbeRadius:       defaultProbeRadius,
		SampleCount:       defaultSampleCount,
		ExposureThreshold: defaultExposureThreshold,
		Workers:           runtime.NumCPU(),
		HTTP: HTTPConfig{
			Timeout:   defaultHTTPTimeout,
			UserAgent: defaultHTTPUserAgent,
		},
		Cache: CacheConfig{
			Path: defaultCachePath,
		},
	}
}
