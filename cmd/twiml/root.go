package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twiml",
	Short: "twiml renders and serves Twilio voice flows",
	Long: `twiml compiles declarative YAML call flows into TwiML documents and can
host them behind Twilio-compatible webhook routes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flows", "flows", "Directory containing flow definitions")
	rootCmd.PersistentFlags().String("pattern", "**/*.{yaml,yml}", "Glob selecting flow files under the flows directory")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
