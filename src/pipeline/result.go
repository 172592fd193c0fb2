package pipeline

import "time"

// State is the terminal state of a pipeline run.
type State string

const (
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Attempt captures the outcome of a single verification attempt.
type Attempt struct {
	Number       int
	Err          error         // nil on success
	Duration     time.Duration
	ClearedCache bool          // cache was cleared after this attempt
}

// Result is the typed outcome of a pipeline run. Terminal build failure is
// reported here, not as a Run error; the persisted marker is only an
// adapter for cross-process consumers.
type Result struct {
	State       State
	Name        string // cache entry name the run owned
	Attempts    []Attempt
	CacheClears int
	Reason      error // last attempt's failure, nil when succeeded
	Duration    time.Duration
}

// Succeeded reports whether the run reached the Succeeded state.
func (r *Result) Succeeded() bool {
	return r.State == StateSucceeded
}
