package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/repository"
)

// fixedNow falls on the 2024-01-15 prediction day with a 9 hour offset.
var fixedNow = time.Date(2024, 1, 16, 5, 0, 0, 0, time.UTC)

const predictionDayOffset = 9 * time.Hour

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func final(home, away int) chart.Score {
	return chart.Score{Home: chart.KnownGoals(home), Away: chart.KnownGoals(away)}
}

func pending() chart.Score {
	return chart.Score{Home: chart.PendingGoals(), Away: chart.PendingGoals()}
}

func game(pk int64, home, away string, wp [6]float64, score chart.Score) models.GamePrediction {
	return models.GamePrediction{
		GamePk:         pk,
		HomeTeam:       home,
		AwayTeam:       away,
		WinPercentages: wp,
		ScoreProbabilities: models.ScoreProbabilities{
			Home: []float64{0.2, 0.5, 0.3},
			Away: []float64{0.4, 0.6},
		},
		Score: score,
	}
}

func runOn(date string, games ...models.GamePrediction) *models.PredictionRun {
	return &models.PredictionRun{
		League:         "nhl",
		PredictionDate: date,
		Games:          games,
		ModelVariables: models.ModelVariables{Teams: map[string]models.TeamVariables{
			"Toronto Maple Leafs": {O: []float64{0.1, 0.05, 0.15}, D: []float64{-0.2, -0.3, -0.1}},
			"Boston Bruins":       {O: []float64{0.3}, D: []float64{0.1}},
		}},
	}
}

// seededRepository holds a finished run on the 14th and a partly finished
// run on the 15th.
func seededRepository(t *testing.T) *repository.MemoryPredictionRunRepository {
	t.Helper()
	repo := repository.NewMemoryPredictionRunRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, runOn("2024-01-14",
		game(2023020701, "Boston Bruins", "Toronto Maple Leafs", [6]float64{0.45, 0.06, 0.04, 0.35, 0.06, 0.04}, final(3, 1)),
	)))
	require.NoError(t, repo.Upsert(ctx, runOn("2024-01-15",
		game(2023020710, "Toronto Maple Leafs", "Montréal Canadiens", [6]float64{0.30, 0.06, 0.04, 0.50, 0.06, 0.04}, final(2, 1)),
		game(2023020711, "Unknown Skaters", "Boston Bruins", [6]float64{0.40, 0.05, 0.05, 0.40, 0.05, 0.05}, pending()),
		game(2023020712, "Boston Bruins", "Toronto Maple Leafs", [6]float64{0.50, 0.05, 0.05, 0.30, 0.05, 0.05}, pending()),
	)))
	return repo
}
