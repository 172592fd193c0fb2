// Package verify runs the external build-and-test step for a shell
// configuration. The step is opaque: it populates the cache entry with
// build outputs and reports success or failure, nothing more.
package verify

import (
	"context"

	"github.com/perigean/shellwright/src/shellspec"
)

// Verifier is the build-and-verify collaborator invoked once per attempt.
// Any returned error is uniform failure; the pipeline never inspects why.
type Verifier interface {
	Verify(ctx context.Context, spec shellspec.Spec, cacheDir string) error
}

// Func adapts a plain function to the Verifier interface.
type Func func(ctx context.Context, spec shellspec.Spec, cacheDir string) error

func (f Func) Verify(ctx context.Context, spec shellspec.Spec, cacheDir string) error {
	return f(ctx, spec, cacheDir)
}
