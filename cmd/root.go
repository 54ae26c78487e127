package cmd

import (
	"github.com/spf13/cobra"

	"infosight-worker/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(reprocess(config))
	return rootCmd
}
