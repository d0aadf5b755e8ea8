package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	batchSize  int
	sampleRows int
)

var rootCmd = &cobra.Command{
	Use:   "kobosync",
	Short: "KoboToolbox CSV to PostgreSQL loader",
	Long: `A CLI tool that pulls a survey export from the KoboToolbox API
and loads it into a PostgreSQL feedback table.

Each run replaces the destination table in full:
  1. Fetch the semicolon-delimited CSV export over HTTP basic auth
  2. Rename and type-convert the survey columns
  3. Drop and recreate the destination table
  4. Bulk insert all rows in a single transaction
  5. Verify the load with a row count and sample`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "kobosync.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Load overrides
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0,
		"Override batch size (rows per INSERT statement)")
	rootCmd.PersistentFlags().IntVar(&sampleRows, "sample-rows", 0,
		"Override number of rows sampled during verification")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel   string
	LogFormat  string
	BatchSize  int
	SampleRows int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		BatchSize:  batchSize,
		SampleRows: sampleRows,
	}
}
