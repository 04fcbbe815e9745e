// Package main provides a one-off prediction run sync.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bayes-bet/internal/app"
	"github.com/yourusername/bayes-bet/internal/models"
)

var (
	configFile string
	date       string
	days       int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&date, "date", "", "Last prediction date to sync (YYYY-MM-DD); defaults to the current prediction day")
	rootCmd.Flags().IntVar(&days, "days", 2, "Number of prediction dates to sync, counting back from --date")
}

var rootCmd = &cobra.Command{
	Use:   "prediction-sync",
	Short: "Copy prediction runs from the model backend",
	Long:  `Fetches prediction runs from the model backend and stores new runs and final scores.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if days < 1 {
			return fmt.Errorf("--days must be at least 1")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := app.Bootstrap(ctx, configFile)
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, logger, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		end := a.Charts.PredictionDay(time.Now())
		if date != "" {
			end, err = time.Parse(models.DateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}
		}

		failed := 0
		for i := days - 1; i >= 0; i-- {
			d := end.AddDate(0, 0, -i)
			result, err := a.Sync.Sync(ctx, d)
			if err != nil {
				failed++
				continue
			}
			logger.WithFields(logrus.Fields{
				"prediction_date": result.PredictionDate,
				"outcome":         result.Outcome,
				"score_updates":   len(result.ScoreUpdates),
			}).Info("Sync finished")
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d dates failed to sync", failed, days)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
