// Sunrise controls a sunrise-simulation alarm light over its HTTP API.
//
// Running without a command opens the interactive dashboard when stdout is
// a terminal, and prints the device status once otherwise. Individual
// commands (on, start, stop, set-alarm, ...) make a single request and exit.
//
// Usage:
//
//	sunrise [command] [flags]
//
// See 'sunrise --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/sunrise/internal/logging"
	"github.com/muurk/sunrise/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sunrise",
	Short: "Sunrise alarm light controller",
	Long: `Control a sunrise-simulation alarm light from the terminal.

With no command, an interactive dashboard opens when running in a terminal:
pick a light color, start or stop a ramp, and edit the alarm schedule while
the device status refreshes in the background.

Outside a terminal the current device status is printed once instead.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeWithFile(logLevel, logFile)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device host or IP, or the name of a configured device (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 0, "Device HTTP port (default 80)")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "http-timeout", 0, "Timeout for each device request (default 10s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr; defaults to $"+logging.LogFileEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sunrise %s\n", version.Full())
	},
}
