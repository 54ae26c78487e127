package cmd

import (
	"github.com/spf13/cobra"

	"infosight-worker/config"
	server2 "infosight-worker/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server and submission consumer",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
