package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dennischat",
	Short: "Multilingual chat widget and the backend it talks to",
	Long: `dennischat runs a small multilingual chat assistant. The chat command
opens the widget in your terminal: it localizes itself from language
dictionaries, tags each message with its detected language and types
replies out as they arrive. The serve command runs the backend that
answers those messages with an LLM or canned replies and serves the
language files.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
