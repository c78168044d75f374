package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/censusalign/censusalign/pkg/geo"
)

var blockifyOut string

var blockifyCmd = &cobra.Command{
	Use:   "blockify",
	Short: "Disaggregate precinct votes onto census units",
	Long: `Blockify distributes the configured election's precinct votes onto
census blocks, weighted by block-level voter registration, and rolls them
up to the configured level. Per-precinct vote totals are conserved.`,
	RunE: runBlockify,
}

func init() {
	blockifyCmd.Flags().StringVar(&blockifyOut, "out", "",
		"Write the rollup CSV to this file instead of stdout")
	rootCmd.AddCommand(blockifyCmd)
}

func runBlockify(cmd *cobra.Command, _ []string) error {
	cultivator, err := newCultivator()
	if err != nil {
		return err
	}
	defer func() { _ = cultivator.Cleanup() }()

	level, err := geo.ParseLevel(viper.GetString("level"))
	if err != nil {
		return err
	}
	rollup, err := cultivator.Blockify(cmd.Context(), level)
	if err != nil {
		return err
	}

	if blockifyOut == "" {
		return rollup.WriteCSV(cmd.OutOrStdout())
	}
	f, err := os.Create(blockifyOut)
	if err != nil {
		return err
	}
	if err := rollup.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
