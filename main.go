package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd serves MCP over stdio when called without a subcommand
var rootCmd = &cobra.Command{
	Use:           "publisher-mcp [command] [flags]",
	Short:         "MCP tool server for publishing articles to a content management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStdio,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
