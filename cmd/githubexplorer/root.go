package main

import (
	"github.com/spf13/cobra"
)

const appName = "githubexplorer"

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   appName,
		Short: "Search GitHub repositories and keep the ones you find",
		Long: `GitHub Explorer looks repositories up by owner/name and keeps every
repository found in a persisted list, browsable from a web dashboard,
a JSON API or this command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(&configFile),
		newAddCmd(&configFile),
		newListCmd(&configFile),
	)
	return root
}
