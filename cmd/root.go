package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "insurag",
	Short: "Retrieval-augmented query service for insurance product research",
	Long: `Insurag indexes two insurance corpora — existing and competitor
products, and the new product design — into separate vector
collections, routes questions to the right corpus by keyword, and
answers them with retrieval-grounded generation over HTTP, MCP, or
the command line.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".insurag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
