package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	graphOut     string
	graphIslands bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the contiguity graph of census units",
	Long: `Graph merges population and votes onto projected boundary geometry,
detects queen adjacency between units, applies the vintage's custom edges
and writes the result as NetworkX adjacency_data JSON.`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphOut, "out", "",
		"Write the adjacency JSON to this file instead of stdout")
	graphCmd.Flags().BoolVar(&graphIslands, "islands", false,
		"List units with no neighbors instead of writing the graph")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, _ []string) error {
	cultivator, err := newCultivator()
	if err != nil {
		return err
	}
	defer func() { _ = cultivator.Cleanup() }()

	graph, err := cultivator.Graphify(cmd.Context())
	if err != nil {
		return err
	}

	if graphIslands {
		islands := graph.Islands()
		if len(islands) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No islands")
			return nil
		}
		for _, id := range islands {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}

	if graphOut == "" {
		return graph.WriteJSON(cmd.OutOrStdout())
	}
	f, err := os.Create(graphOut)
	if err != nil {
		return err
	}
	if err := graph.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
