package config

// PipelineConfig controls the build-and-verify retry loop.
type PipelineConfig struct {
	// MaxAttempts bounds the verification attempts per configuration.
	MaxAttempts int `yaml:"max_attempts"`

	// FailHard makes the process exit non-zero on terminal failure
	// instead of (only) recording the failure marker. Default false:
	// CI cleanup and packaging conditionals still get to run, and the
	// marker carries the failure signal.
	FailHard bool `yaml:"fail_hard"`

	// WriteMarker persists the .busted marker on terminal failure so a
	// separate packaging invocation can branch on it.
	WriteMarker *bool `yaml:"write_marker,omitempty"`

	// Backoff delays retries. Disabled by default: a cache clear, not
	// elapsed time, is the recovery mechanism.
	Backoff BackoffConfig `yaml:"backoff,omitempty"`
}

// BackoffConfig holds retry delay settings. Durations use Go syntax
// ("500ms", "10s").
type BackoffConfig struct {
	Mode    string `yaml:"mode,omitempty"` // fixed|linear|exponential
	Initial string `yaml:"initial,omitempty"`
	Max     string `yaml:"max,omitempty"`
}

// DefaultPipelineConfig matches the observed CI behavior: three attempts,
// marker file instead of hard exit, no backoff.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxAttempts: 3,
	}
}

// MarkerEnabled resolves the WriteMarker tri-state (default true).
func (p PipelineConfig) MarkerEnabled() bool {
	return p.WriteMarker == nil || *p.WriteMarker
}
