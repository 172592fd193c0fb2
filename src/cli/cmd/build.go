package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perigean/shellwright/src/cache"
	"github.com/perigean/shellwright/src/output"
	"github.com/perigean/shellwright/src/pipeline"
	"github.com/perigean/shellwright/src/shellspec"
	"github.com/perigean/shellwright/src/source"
	"github.com/perigean/shellwright/src/toolchain"
	"github.com/perigean/shellwright/src/verify"
)

var (
	buildOpts     string
	buildRandom   bool
	buildRev      string
	buildCacheDir string
	buildAttempts int
	buildFailHard bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and verify a shell configuration",
	Long: `Build and verify one shell configuration.

Runs the external verification step up to the configured number of attempts,
clearing the build cache between failures. Terminal failure is recorded as a
.busted marker beside the cache entry unless --fail-hard is set, in which
case the command also exits non-zero.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts, "build-opts", "b", "", "build option string, forwarded to the verification step")
	buildCmd.Flags().BoolVar(&buildRandom, "random", false, "choose sensible random build options")
	buildCmd.Flags().StringVar(&buildRev, "rev", "", "source revision (default: tree HEAD)")
	buildCmd.Flags().StringVar(&buildCacheDir, "cache-dir", "", "override cache directory")
	buildCmd.Flags().IntVar(&buildAttempts, "max-attempts", 0, "override max verification attempts")
	buildCmd.Flags().BoolVar(&buildFailHard, "fail-hard", false, "exit non-zero when all attempts fail")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := os.Stdout
	color := output.UseColor()

	spec, err := resolveSpec()
	if err != nil {
		return err
	}

	output.ContextBlock(w, output.ContextKV())

	result, _, err := runPipeline(ctx, w, color, spec)
	if err != nil {
		return err
	}

	if !result.Succeeded() && (buildFailHard || cfg.Pipeline.FailHard) {
		return pipeline.ErrVerificationFailed(result)
	}
	return nil
}

// resolveSpec builds the Spec from flags, warning (not failing) on
// untested option combinations the way the original harness does.
func resolveSpec() (shellspec.Spec, error) {
	var spec shellspec.Spec
	if buildRandom {
		if buildOpts != "" {
			return spec, fmt.Errorf("--random and --build-opts are mutually exclusive")
		}
		spec = shellspec.Random(rand.New(rand.NewSource(time.Now().UnixNano())))
		return spec, nil
	}

	spec = shellspec.Parse(buildOpts)
	if err := spec.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: this set of build options is not tested well: %v\n", err)
	}
	return spec, nil
}

// resolveRev picks the revision component for cache entry naming: explicit
// flag, then config, then the source tree's HEAD, then "local".
func resolveRev() string {
	if buildRev != "" {
		return buildRev
	}
	if cfg.Source.Rev != "" {
		return cfg.Source.Rev
	}
	tree := &source.Tree{URL: cfg.Source.URL, Dir: cfg.Source.Dir}
	if rev, err := tree.Rev(); err == nil {
		return rev
	}
	return "local"
}

// runPipeline executes the build-and-verify loop with section-formatted
// output, returning the result and the cache handle for downstream stages.
func runPipeline(ctx context.Context, w *os.File, color bool, spec shellspec.Spec) (*pipeline.Result, *cache.Cache, error) {
	cacheDir := buildCacheDir
	if cacheDir == "" {
		cacheDir = cfg.Cache.Dir
	}
	c, err := cache.New(cacheDir)
	if err != nil {
		return nil, nil, err
	}

	name := spec.Name(resolveRev())

	// Preflight: surface a missing or stale rust toolchain before any
	// attempt is burned on it.
	if err := toolchain.CheckRust(ctx, cfg.Source.Dir); err != nil {
		return nil, nil, fmt.Errorf("toolchain preflight: %w", err)
	}

	verifier := verify.NewCommand(cfg.Verify.Command, cfg.Verify.Args, verbose)
	verifier.Env = cfg.Verify.Env

	pl := pipeline.New(verifier, c)
	pl.WriteMarker = cfg.Pipeline.MarkerEnabled()
	if buildAttempts > 0 {
		pl.MaxAttempts = buildAttempts
	} else if cfg.Pipeline.MaxAttempts > 0 {
		pl.MaxAttempts = cfg.Pipeline.MaxAttempts
	}
	initial, max, err := cfg.Pipeline.Backoff.Durations()
	if err != nil {
		return nil, nil, err
	}
	pl.Backoff = pipeline.Backoff{Mode: cfg.Pipeline.Backoff.Mode, Initial: initial, Max: max}

	output.SectionStart(w, "sw_build", "Build")
	start := time.Now()
	result, err := pl.Run(ctx, spec, name)
	elapsed := time.Since(start)
	if err != nil {
		output.SectionEnd(w, "sw_build")
		return nil, nil, err
	}

	sec := output.NewSection(w, "Build", elapsed, color)
	sec.Row("%-16s%s", "variant", spec.Variant())
	sec.Row("%-16s%s", "options", displayOpts(spec))
	sec.Row("%-16s%s", "cache", output.Dimmed(c.EntryDir(name), color))
	sec.Separator()
	renderAttempts(sec, result, color)
	sec.Close()
	output.SectionEnd(w, "sw_build")

	return result, c, nil
}

func renderAttempts(sec *output.Section, result *pipeline.Result, color bool) {
	for _, a := range result.Attempts {
		status := "success"
		detail := "verified"
		if a.Err != nil {
			status = "failed"
			detail = a.Err.Error()
			if a.ClearedCache {
				detail += " (cache cleared)"
			}
		}
		sec.Row("attempt %d  %s  %-38s %s",
			a.Number, output.StatusIcon(status, color), detail,
			output.Dimmed(a.Duration.Round(time.Millisecond).String(), color))
	}
	if result.Succeeded() {
		sec.Row("%-16s%s", "state", "succeeded")
	} else {
		sec.Row("%-16s%s (marker: %s)", "state", "failed", result.Name+".busted")
	}
}

func displayOpts(spec shellspec.Spec) string {
	if spec.Raw == "" {
		return "(defaults)"
	}
	return spec.Raw
}
