package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perigean/shellwright/src/config"
	"github.com/perigean/shellwright/src/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shellwright",
	Short: "JS shell build-and-verify automation",
	Long: "Shellwright builds and verifies JS engine shells across build\n" +
		"configurations, retrying with cache invalidation, and packages the\n" +
		"binaries for distribution.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(nil, verbose)
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .shellwright.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
