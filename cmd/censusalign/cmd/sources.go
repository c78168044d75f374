package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/censusalign/censusalign/internal/cmd/output"
	vintages "github.com/censusalign/censusalign/internal/config"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show the configured datasets for the vintage",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// datasetInfo is one row of the sources listing.
type datasetInfo struct {
	Dataset string `json:"dataset"`
	URL     string `json:"url"`
}

func runSources(cmd *cobra.Command, _ []string) error {
	vintage, err := vintages.Load(viper.GetString("state"), viper.GetInt("year"))
	if err != nil {
		return err
	}

	rows := []datasetInfo{
		{Dataset: "vote", URL: vintage.Datasets.Vote.URL},
		{Dataset: "conversion", URL: vintage.Datasets.Conversion.URL},
		{Dataset: "census", URL: vintage.Datasets.Census.URL},
		{Dataset: "shapefile", URL: vintage.Datasets.Shapefile.URL},
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	if format == output.FormatJSON || format == output.FormatYAML {
		return formatter.Format(cmd.OutOrStdout(), rows)
	}

	data := output.Data{Headers: []string{output.Header("dataset"), output.Header("url")}}
	for _, row := range rows {
		data.Rows = append(data.Rows, []string{row.Dataset, row.URL})
	}
	return formatter.Format(cmd.OutOrStdout(), data)
}
