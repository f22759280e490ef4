package main

import (
	"fmt"
	"strings"

	"github.com/mulesoft-labs/twiml"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of twiml",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("twiml version %s\n", strings.TrimSpace(twiml.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
