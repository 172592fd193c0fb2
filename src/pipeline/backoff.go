package pipeline

import "time"

// Backoff modes.
const (
	BackoffFixed       = "fixed"
	BackoffLinear      = "linear"
	BackoffExponential = "exponential"
)

// Backoff controls the delay between failed attempts. The zero value
// disables delays entirely, which matches the observed CI behavior of
// retrying immediately after a cache clear.
type Backoff struct {
	Mode    string        // fixed|linear|exponential
	Initial time.Duration // base delay; zero disables backoff
	Max     time.Duration // cap for growth; zero means uncapped
}

// Delay returns the backoff delay before the given retry (1-based: the
// delay taken after the first failure is Delay(1)).
func (b Backoff) Delay(retry int) time.Duration {
	if b.Initial <= 0 || retry <= 0 {
		return 0
	}
	var d time.Duration
	switch b.Mode {
	case BackoffFixed:
		d = b.Initial
	case BackoffExponential:
		d = b.Initial * (1 << (retry - 1))
	default: // linear
		d = time.Duration(retry) * b.Initial
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}
