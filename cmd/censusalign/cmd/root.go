package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/censusalign/censusalign"
	"github.com/censusalign/censusalign/internal/cmd/globals"
	"github.com/censusalign/censusalign/internal/cmd/output"
	"github.com/censusalign/censusalign/pkg/geo"
	"github.com/censusalign/censusalign/pkg/logging"
)

var (
	configFile  string
	globalFlags *globals.Flags

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "censusalign",
	Short: "Align census data with electoral precincts",
	Long: `Censusalign aligns census demographic data with Statewide Database
election data on a common set of census units.

It harvests election results, the precinct-to-block crosswalk, citizen
voting age population and TIGER/Line boundaries, disaggregates precinct
votes onto census blocks, and builds the contiguity graph districting
analysis starts from.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.censusalign.yaml)")
	rootCmd.PersistentFlags().String("state", "CA", "Two-letter state code")
	rootCmd.PersistentFlags().Int("year", 2022, "Dataset vintage year")
	rootCmd.PersistentFlags().String("election", "governor", "Election contest to disaggregate")
	rootCmd.PersistentFlags().String("level", "blockgroup",
		"Census aggregation level: block, blockgroup, tract, county")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for downloaded datasets")
	globalFlags = globals.AddFlags(rootCmd)

	for _, flag := range []string{"state", "year", "election", "level", "cache-dir", "verbose", "quiet"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", flag, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".censusalign")
	}

	// .env files load before Viper env binding.
	loadEnvFiles()

	viper.SetEnvPrefix("censusalign")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil && globalFlags != nil && globalFlags.Verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	if globalFlags.Output == "" {
		globalFlags.Output = string(output.DetectFormat(""))
	}
	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if globalFlags != nil && globalFlags.Verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if globalFlags != nil && globalFlags.Quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}
	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files, .env.local
// overriding .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil {
			if globalFlags != nil && globalFlags.Verbose {
				fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
			}
		}
	}
}

// newCultivator builds a Cultivator from the persistent flags.
func newCultivator() (censusalign.Cultivator, error) {
	level, err := geo.ParseLevel(viper.GetString("level"))
	if err != nil {
		return nil, err
	}

	opts := []censusalign.Option{
		censusalign.WithState(viper.GetString("state")),
		censusalign.WithYear(viper.GetInt("year")),
		censusalign.WithElection(viper.GetString("election")),
		censusalign.WithLevel(level),
		censusalign.WithLogger(logging.Default()),
	}
	if dir := viper.GetString("cache-dir"); dir != "" {
		opts = append(opts, censusalign.WithCacheDir(dir))
	}
	return censusalign.New(opts...)
}
