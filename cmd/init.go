package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ymaeda-ai/insurag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize insurag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure insurag and generates a .insurag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
