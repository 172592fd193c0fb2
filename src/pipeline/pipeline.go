// Package pipeline drives the build-and-verify retry loop: up to a bounded
// number of verification attempts per shell configuration, with a full
// cache clear between failed attempts and a persisted failure marker once
// all attempts are exhausted.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/perigean/shellwright/src/cache"
	"github.com/perigean/shellwright/src/shellspec"
	"github.com/perigean/shellwright/src/verify"
)

// DefaultMaxAttempts bounds the retry loop. Three attempts is the point of
// diminishing returns for cache-staleness failures.
const DefaultMaxAttempts = 3

// Pipeline runs the verification step with blunt retry: every failure,
// whatever the cause, triggers the same clear-and-retry policy. The failure
// reason is logged per attempt so infra flakes can be told apart from real
// defects after the fact.
type Pipeline struct {
	Verifier    verify.Verifier
	Cache       *cache.Cache
	MaxAttempts int
	Backoff     Backoff
	WriteMarker bool // persist the .busted marker on terminal failure
	Log         *slog.Logger

	sleep func(time.Duration) // injectable for tests
}

// New creates a pipeline with default attempt bound and marker persistence.
func New(v verify.Verifier, c *cache.Cache) *Pipeline {
	return &Pipeline{
		Verifier:    v,
		Cache:       c,
		MaxAttempts: DefaultMaxAttempts,
		WriteMarker: true,
		Log:         slog.Default(),
		sleep:       time.Sleep,
	}
}

// Run executes the retry loop for one spec. The cache entry is named after
// the spec variant plus revision and is exclusively owned for the duration
// of the run.
//
// Terminal build failure is not a Run error: it is reported in the Result
// (and via the marker file when enabled). A non-nil error means the
// pipeline itself could not proceed: cache or marker I/O failed, or the
// context was canceled.
func (p *Pipeline) Run(ctx context.Context, spec shellspec.Spec, name string) (*Result, error) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Log == nil {
		p.Log = slog.Default()
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}

	result := &Result{Name: name}
	start := time.Now()

	// A fresh run begins with the marker absent.
	if err := p.Cache.ClearMarker(name); err != nil {
		return nil, err
	}

	for n := 1; n <= p.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cacheDir, err := p.Cache.Ensure(name)
		if err != nil {
			return nil, err
		}

		p.Log.Info("verification attempt starting",
			"name", name, "attempt", n, "max_attempts", p.MaxAttempts, "options", spec.Raw)

		attemptStart := time.Now()
		verr := p.Verifier.Verify(ctx, spec, cacheDir)
		attempt := Attempt{Number: n, Err: verr, Duration: time.Since(attemptStart)}

		if verr == nil {
			result.Attempts = append(result.Attempts, attempt)
			result.State = StateSucceeded
			result.Reason = nil
			result.Duration = time.Since(start)
			p.Log.Info("verification succeeded", "name", name, "attempt", n)
			return result, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.Log.Warn("verification failed",
			"name", name, "attempt", n, "error", verr)

		if n < p.MaxAttempts {
			// Stale partial outputs are assumed to cause deterministic
			// re-failure, so the whole entry goes.
			if err := p.Cache.Clear(name); err != nil {
				return nil, err
			}
			attempt.ClearedCache = true
			result.CacheClears++
			p.Log.Info("cache cleared before retry", "name", name, "attempt", n)

			if d := p.Backoff.Delay(n); d > 0 {
				p.sleep(d)
			}
		}
		result.Attempts = append(result.Attempts, attempt)
		result.Reason = verr
	}

	result.State = StateFailed
	result.Duration = time.Since(start)
	p.Log.Error("all verification attempts exhausted",
		"name", name, "attempts", p.MaxAttempts, "last_error", result.Reason)

	if p.WriteMarker {
		if err := p.Cache.WriteMarker(name, result.Reason); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ErrVerificationFailed wraps a terminal failure for callers that want the
// run surfaced as a hard error (fail_hard mode).
func ErrVerificationFailed(r *Result) error {
	return fmt.Errorf("verification failed after %d attempt(s): %w", len(r.Attempts), r.Reason)
}
