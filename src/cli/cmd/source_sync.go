package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perigean/shellwright/src/output"
	"github.com/perigean/shellwright/src/source"
)

var syncRev string

var sourceSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone or update the engine source tree",
	Long: `Clone the engine repository if it is missing, fetch the latest refs
otherwise, and optionally force-checkout a specific revision.`,
	RunE: runSourceSync,
}

func init() {
	sourceSyncCmd.Flags().StringVar(&syncRev, "rev", "", "revision to check out (default: leave HEAD untouched)")
	sourceCmd.AddCommand(sourceSyncCmd)
}

func runSourceSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := os.Stdout
	color := output.UseColor()

	rev := syncRev
	if rev == "" {
		rev = cfg.Source.Rev
	}

	tree := &source.Tree{URL: cfg.Source.URL, Dir: cfg.Source.Dir}

	start := time.Now()
	if err := tree.Sync(ctx, rev); err != nil {
		return err
	}
	elapsed := time.Since(start)

	head, err := tree.Rev()
	if err != nil {
		return err
	}

	sec := output.NewSection(w, "Source", elapsed, color)
	sec.Row("%-16s%s", "dir", tree.Dir)
	if tree.URL != "" {
		sec.Row("%-16s%s", "origin", tree.URL)
	}
	sec.Row("%-16s%s", "rev", head)
	sec.Close()
	return nil
}
