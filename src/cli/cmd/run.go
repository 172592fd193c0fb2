package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perigean/shellwright/src/artifact"
	"github.com/perigean/shellwright/src/output"
	"github.com/perigean/shellwright/src/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build, verify, and package in one pass",
	Long: `Run the full pipeline for one shell configuration: build and verify
with retries, then package the resulting binaries. Packaging is skipped
when verification exhausted all attempts.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&buildOpts, "build-opts", "b", "", "build option string, forwarded to the verification step")
	runCmd.Flags().BoolVar(&buildRandom, "random", false, "choose sensible random build options")
	runCmd.Flags().StringVar(&buildRev, "rev", "", "source revision (default: tree HEAD)")
	runCmd.Flags().StringVar(&buildCacheDir, "cache-dir", "", "override cache directory")
	runCmd.Flags().IntVar(&buildAttempts, "max-attempts", 0, "override max verification attempts")
	runCmd.Flags().BoolVar(&buildFailHard, "fail-hard", false, "exit non-zero when all attempts fail")
	runCmd.Flags().StringVar(&pkgOutDir, "out-dir", "", "output directory (default: dist)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := os.Stdout
	color := output.UseColor()
	pipelineStart := time.Now()

	spec, err := resolveSpec()
	if err != nil {
		return err
	}

	output.ContextBlock(w, output.ContextKV())

	result, c, err := runPipeline(ctx, w, color, spec)
	if err != nil {
		return err
	}

	// Packaging is gated on the run's own result, not the marker file:
	// the marker can be disabled, but a failed build must never be
	// packaged. The marker guard stays in runPackager for the separate
	// package command, which has no result to consult.
	output.SectionStartCollapsed(w, "sw_package", "Package")
	var (
		artifacts  []artifact.Artifact
		pkgElapsed time.Duration
	)
	if result.Succeeded() {
		artifacts, pkgElapsed, err = runPackager(ctx, c, result.Name)
		if err != nil {
			output.SectionEnd(w, "sw_package")
			return err
		}
	}
	pkgSec := output.NewSection(w, "Package", pkgElapsed, color)
	switch {
	case !result.Succeeded():
		pkgSec.Row("skipped: verification failed for %s", result.Name)
	case len(artifacts) == 0:
		pkgSec.Row("no matching cache entries")
	default:
		renderArtifacts(pkgSec, artifacts)
	}
	pkgSec.Close()
	output.SectionEnd(w, "sw_package")

	// Summary
	totalElapsed := time.Since(pipelineStart)
	buildStatus := "success"
	if !result.Succeeded() {
		buildStatus = "failed"
	}
	pkgStatus := "success"
	pkgDetail := pluralPairs(len(artifacts))
	if !result.Succeeded() {
		pkgStatus = "skipped"
		pkgDetail = "verification failed"
	}

	sumSec := output.NewSection(w, "Summary", 0, color)
	output.SummaryRow(w, "build", buildStatus, attemptsDetail(result), color)
	output.SummaryRow(w, "package", pkgStatus, pkgDetail, color)
	sumSec.Separator()
	output.SummaryTotal(w, totalElapsed, buildStatus, color)
	sumSec.Close()

	if !result.Succeeded() && (buildFailHard || cfg.Pipeline.FailHard) {
		return pipeline.ErrVerificationFailed(result)
	}
	return nil
}

func attemptsDetail(r *pipeline.Result) string {
	detail := fmt.Sprintf("%d attempt(s)", len(r.Attempts))
	if r.CacheClears > 0 {
		detail += fmt.Sprintf(", %d cache clear(s)", r.CacheClears)
	}
	return detail
}

func pluralPairs(n int) string {
	return fmt.Sprintf("%d archive/checksum pair(s)", n)
}
