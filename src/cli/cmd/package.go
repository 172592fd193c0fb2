package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perigean/shellwright/src/artifact"
	"github.com/perigean/shellwright/src/cache"
	"github.com/perigean/shellwright/src/output"
)

var (
	pkgOutDir   string
	pkgCacheDir string
	pkgPrefix   string
	pkgPatterns []string
	pkgGuard    string
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Package verified shells for distribution",
	Long: `Package verified shells from the build cache.

Each selected cache entry becomes a <name>.tar.zst archive with a
<name>.tar.zst.sha256 checksum sidecar. If --guard names a configuration
whose failure marker is present, nothing is packaged and the command exits
cleanly: that is the contract with the build stage, not an error.`,
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().StringVar(&pkgOutDir, "out-dir", "", "output directory (default: dist)")
	packageCmd.Flags().StringVar(&pkgCacheDir, "cache-dir", "", "override cache directory")
	packageCmd.Flags().StringVar(&pkgPrefix, "prefix", "", "entry name prefix filter (default: js-)")
	packageCmd.Flags().StringSliceVar(&pkgPatterns, "pattern", nil, "additional regex filters; prefix with ! to negate")
	packageCmd.Flags().StringVar(&pkgGuard, "guard", "", "skip packaging if this configuration's failure marker exists")

	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := os.Stdout
	color := output.UseColor()

	cacheDir := pkgCacheDir
	if cacheDir == "" {
		cacheDir = cfg.Cache.Dir
	}
	c, err := cache.New(cacheDir)
	if err != nil {
		return err
	}

	artifacts, elapsed, err := runPackager(ctx, c, pkgGuard)
	if err != nil {
		return err
	}

	sec := output.NewSection(w, "Package", elapsed, color)
	if len(artifacts) == 0 {
		if pkgGuard != "" && c.MarkerPresent(pkgGuard) {
			sec.Row("skipped: failure marker present for %s", pkgGuard)
		} else {
			sec.Row("no matching cache entries")
		}
		sec.Close()
		return nil
	}
	renderArtifacts(sec, artifacts)
	sec.Close()
	return nil
}

// runPackager assembles a Packager from config plus flag overrides and
// runs it against the given cache.
func runPackager(ctx context.Context, c *cache.Cache, guard string) ([]artifact.Artifact, time.Duration, error) {
	prefix := pkgPrefix
	if prefix == "" {
		prefix = cfg.Package.Prefix
	}
	patterns := pkgPatterns
	if len(patterns) == 0 {
		patterns = cfg.Package.Patterns
	}
	pred, err := artifact.NewPredicate(prefix, patterns)
	if err != nil {
		return nil, 0, err
	}

	outDir := pkgOutDir
	if outDir == "" {
		outDir = cfg.Package.OutDir
	}

	p := &artifact.Packager{
		Cache:       c,
		OutDir:      outDir,
		Predicate:   pred,
		Level:       cfg.Package.Level,
		Concurrency: cfg.Package.Concurrency,
	}

	start := time.Now()
	artifacts, err := p.Package(ctx, guard)
	return artifacts, time.Since(start), err
}

func renderArtifacts(sec *output.Section, artifacts []artifact.Artifact) {
	for _, a := range artifacts {
		sec.Row("%-44s %8s", a.ArchivePath, formatSize(a.Size))
		sec.Row("  sha256 %s", a.Digest)
	}
	sec.Separator()
	sec.Row("%d archive/checksum pair(s)", len(artifacts))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fGiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
