package cmd

import "github.com/spf13/cobra"

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the engine source tree",
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}
