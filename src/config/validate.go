package config

import (
	"fmt"
	"time"
)

// Validate checks cross-field constraints that YAML decoding can't.
func (c *Config) Validate() error {
	if c.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("pipeline.max_attempts must be at least 1, got %d", c.Pipeline.MaxAttempts)
	}
	if c.Package.Level < 0 || c.Package.Level > 22 {
		return fmt.Errorf("package.level must be within 1..22, got %d", c.Package.Level)
	}
	if c.Package.Concurrency < 0 {
		return fmt.Errorf("package.concurrency cannot be negative")
	}
	if c.Verify.Command == "" {
		return fmt.Errorf("verify.command is required")
	}

	switch c.Pipeline.Backoff.Mode {
	case "", "fixed", "linear", "exponential":
	default:
		return fmt.Errorf("pipeline.backoff.mode must be fixed, linear, or exponential, got %q",
			c.Pipeline.Backoff.Mode)
	}
	if _, _, err := c.Pipeline.Backoff.Durations(); err != nil {
		return err
	}
	return nil
}

// Durations parses the backoff duration strings. Empty strings yield zero.
func (b BackoffConfig) Durations() (initial, max time.Duration, err error) {
	if b.Initial != "" {
		initial, err = time.ParseDuration(b.Initial)
		if err != nil {
			return 0, 0, fmt.Errorf("pipeline.backoff.initial: %w", err)
		}
	}
	if b.Max != "" {
		max, err = time.ParseDuration(b.Max)
		if err != nil {
			return 0, 0, fmt.Errorf("pipeline.backoff.max: %w", err)
		}
	}
	return initial, max, nil
}
