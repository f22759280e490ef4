package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mulesoft-labs/twiml/internal/flow"
	"github.com/mulesoft-labs/twiml/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the flow graph visualization",
	Long: `Loads the flow set and outputs a Mermaid diagram (graph TD) of the flows
and the callback targets connecting them.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("flows")
		if !cmd.Flags().Changed("flows") && len(args) > 0 {
			dir = args[0]
		}
		pattern, _ := cmd.Flags().GetString("pattern")

		set, err := flow.LoadDir(dir, pattern)
		if err != nil {
			fmt.Printf("Error loading flows: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(set)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
