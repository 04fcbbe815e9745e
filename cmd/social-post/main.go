// Package main publishes the daily prediction card.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/bayes-bet/internal/app"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "social-post",
	Short: "Post the daily prediction card to Telegram",
	Long:  `Checks that today's prediction run is ready, screenshots the prediction card and posts it to the configured Telegram chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := app.Bootstrap(ctx, configFile)
		if err != nil {
			return err
		}
		if !cfg.Social.Enabled {
			return fmt.Errorf("social publishing is disabled in %s", configFile)
		}

		// readiness over HTTP needs no database connection
		a, err := app.New(ctx, cfg, logger, app.Options{InMemory: cfg.Social.ReadinessURL != ""})
		if err != nil {
			return err
		}
		defer a.Close()

		publisher, err := a.NewPublisher()
		if err != nil {
			return err
		}
		return publisher.Publish(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
