// Package main provides the entry point for the chart API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/bayes-bet/internal/app"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	inMemory   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&inMemory, "memory", false, "Keep prediction runs in memory instead of Postgres")
}

var rootCmd = &cobra.Command{
	Use:     "chart-api",
	Short:   "Serve BayesBet prediction charts",
	Long:    `Serves the chart payloads, the live score websocket and the health endpoints, and runs the scheduled prediction sync and social posts.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := app.Bootstrap(ctx, configFile)
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, logger, app.Options{InMemory: inMemory, Version: Version, Commit: GitCommit})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Serve(ctx); err != nil {
			return err
		}
		logger.Info("Chart API shut down")
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
