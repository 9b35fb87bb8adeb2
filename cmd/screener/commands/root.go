package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	provider    string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "S&P 500 safety / potential stock screener",
	Long: `Stock Screener CLI

Fetches market data for a symbol universe, scores every security on
safety, potential and analyst consensus, and prints the ranked table.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener rank
  go run ./cmd/screener rank --limit 20 --profile config/screen/default.yaml
  go run ./cmd/screener sectors
  go run ./cmd/screener serve
  go run ./cmd/screener check-config`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "screen profile YAML (default is SCREEN_PROFILE or built-in)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "market data provider (yahoo|eodhd), overrides PROVIDER")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
