// Package cmd provides the command-line interface for snapsim.
package cmd

import (
	"log/slog"
	"os"

	"github.com/sarchlab/snapsim/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	envFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snapsim",
	Short: "snapsim runs SNAP action jobs on a simulated card.",
	Long: `snapsim runs SNAP action jobs on a simulated card. Jobs are ` +
		`described in YAML files; the host buffers live in a simulated ` +
		`host memory and the action is dispatched through the action registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		env, err := config.LoadEnv(envFile)
		if err != nil {
			return err
		}

		settings = env

		level := env.LogLevel
		if cmd.Flags().Changed("log-level") {
			level, err = config.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))

		return nil
	},
}

var settings config.Env

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"File to load environment settings from.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level: trace, debug, info, warn or error.")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
