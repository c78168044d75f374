package cmd

import (
	"github.com/spf13/cobra"
)

var harvestDir string

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch the configured datasets and store them locally",
	Long: `Harvest downloads the vote, crosswalk, population and boundary
datasets for the configured vintage and writes them into the output
directory: the tabular inputs as CSV and the boundaries as GeoJSON.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVarP(&harvestDir, "dir", "d", "data",
		"Directory to store the harvested datasets in")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	cultivator, err := newCultivator()
	if err != nil {
		return err
	}
	defer func() { _ = cultivator.Cleanup() }()

	return cultivator.Store(cmd.Context(), harvestDir)
}
