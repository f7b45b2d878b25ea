package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "whisperdump",
	Short: "Inspect and mutate whisper time-series database files",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(updateCmd)
}

func newLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Development = false
	if err := cfg.Level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", logLevel, err)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}
