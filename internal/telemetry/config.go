package telemetry

import "slices"

// ServiceName identifies vfsmount in trace and profile backends.
const ServiceName = "vfsmount"

// Collector defaults for a local development stack.
const (
	DefaultEndpoint          = "localhost:4317"
	DefaultProfilingEndpoint = "http://localhost:4040"
)

// DefaultProfileTypes are collected when profiling is enabled without an
// explicit list. Mount lookups are short-lived, so allocations matter more
// than heap residency.
var DefaultProfileTypes = []string{"cpu", "alloc_objects", "inuse_space", "goroutines"}

// Config selects where mount registry spans are exported.
type Config struct {
	Enabled bool

	// ServiceVersion is reported as service.version; empty means "dev"
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector (host:port)
	Endpoint string

	// Insecure disables TLS towards the collector
	Insecure bool

	// SampleRate is the fraction of root spans kept, clamped to [0, 1]
	SampleRate float64
}

// ProfilingConfig selects the Pyroscope server and profiles to collect.
type ProfilingConfig struct {
	Enabled        bool
	ServiceVersion string

	// Endpoint is the Pyroscope server URL
	Endpoint string

	// ProfileTypes are keys of the profile type table in profiling.go
	ProfileTypes []string
}

// DefaultConfig returns tracing disabled, pointed at a local collector.
func DefaultConfig() Config {
	return Config{
		ServiceVersion: "dev",
		Endpoint:       DefaultEndpoint,
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// DefaultProfilingConfig returns profiling disabled, pointed at a local server.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		ServiceVersion: "dev",
		Endpoint:       DefaultProfilingEndpoint,
		ProfileTypes:   slices.Clone(DefaultProfileTypes),
	}
}

func (c Config) withDefaults() Config {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	c.SampleRate = min(max(c.SampleRate, 0), 1)
	return c
}

func (c ProfilingConfig) withDefaults() ProfilingConfig {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultProfilingEndpoint
	}
	if len(c.ProfileTypes) == 0 {
		c.ProfileTypes = slices.Clone(DefaultProfileTypes)
	}
	return c
}
