// Package cmd defines the command-line interface for draftkit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Billy-Davies-2/draftkit/internal/config"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/outwriter"
)

// All linker flags will be set at build time.
var (
	version = "dev"
	commit  = "none"
)

// cfg holds the validated configuration once a command's PreRunE has run.
var cfg *config.Config

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:           "draftkit",
	Short:         "Snake draft assistant: tiers, recommendations, keepers and grades.",
	Long:          `draftkit runs the draft service and answers draft questions from the command line.`,
	Version:       version + " (" + commit + ")",
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(keepersCmd)
	rootCmd.AddCommand(gradeCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file (default .draftkit.yaml in . or $HOME)")
	rootCmd.PersistentFlags().String("environment", "development", "development uses embedded NATS and mock auth")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("db-driver", "memory", "Draft store: memory or sqlite or postgres")
	rootCmd.PersistentFlags().String("sqlite-file", "draftkit.sqlite", "SQLite database file")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().StringP("output", "o", string(outwriter.FormatTable), "Output format: table or json")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// initConfig wires the config file and environment into viper.
func initConfig() {
	config.Prepare(viper.GetViper(), viper.GetString("config"))
}

// loadConfig resolves and validates configuration and sets up logging.
// Logs go to stderr so table and JSON output stay clean on stdout.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Name() == "serve" {
		logger.Init(cfg.LogLevel)
	} else {
		logger.InitWriter(os.Stderr, cfg.LogLevel)
	}
	return nil
}

// outputFormat reads the --output flag
func outputFormat() (outwriter.Format, error) {
	return outwriter.ParseFormat(viper.GetString("output"))
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
