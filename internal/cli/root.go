// Package cli wires the command-line surface of stampede.
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "stampede",
	Short:   "Weighted, ramped HTTP load testing with threshold evaluation",
	Version: version,
	Long: `Stampede benchmarks an HTTP service by synthesizing ramped, weighted,
concurrent traffic against its routes, aggregating per-request latency and
outcome, and evaluating the summary against configurable thresholds.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func configureLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging and extra detail in summaries")
	RootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	RootCmd.AddCommand(runCmd)
}
