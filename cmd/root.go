// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ninox",
	Short: "Ninox - SNMP application-layer traffic inspector",
	Long: `Ninox inspects SNMP traffic inside a network analysis pipeline.
It detects SNMP flows by probing message envelopes, decodes v1/v2c/v3
messages, tracks one transaction per observed message with protocol
anomaly events, and exposes transactions to detection engines through
a resumable iterator.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults apply when empty)")

	rootCmd.AddCommand(analyzeCmd)
}
