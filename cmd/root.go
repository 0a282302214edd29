package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wasper/research-api/pkg/config"
	"github.com/wasper/research-api/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "research-api",
	Short: "Research console scrape API server",
	Long: `Research API - backend for the research console

Starts Google Maps scrape runs on Apify, tracks them until they finish
and returns the scraped places and reviews as normalized result rows.

Features:
  • Synchronous and asynchronous (start then poll) run modes
  • Review filtering by rating and age
  • Structured JSON errors for every failure`,
	SilenceUsage:     true,
	PersistentPreRun: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs the global logger from flags and config.
// Flags win over the config file.
func setupLogging(cmd *cobra.Command, args []string) {
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	if !jsonLogs {
		jsonLogs = viper.GetString("logging.format") == "json"
	}

	logging.Setup(logging.Options{
		Level:  viper.GetString("logging.level"),
		JSON:   jsonLogs,
		Output: cmd.ErrOrStderr(),
	})
}
