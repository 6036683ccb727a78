package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dennischat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the chat widget and backend and writes a .dennischat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
