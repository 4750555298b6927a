package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gyuu/internal/config"
	"gyuu/internal/logging"
)

var (
	envFile  string
	logLevel string
	logFile  string

	cfg    *config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "gyuu",
	Short: "gyuu - compress and resize images in batches",
	Long:  "gyuu compresses, resizes and re-encodes JPEG, PNG and WebP images, keeping the original whenever re-encoding would not make it smaller.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
		}

		zl, err := logging.New(loaded.LogLevel, loaded.LogFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = zl.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file with GYUU_* settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
