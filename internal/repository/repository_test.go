package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/database"
	"github.com/yourusername/bayes-bet/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRun(date string, gamePks ...int64) *models.PredictionRun {
	run := &models.PredictionRun{
		League:         "nhl",
		PredictionDate: date,
		ModelVariables: models.ModelVariables{Teams: map[string]models.TeamVariables{
			"Boston Bruins": {O: []float64{0.1, 0.05, 0.15}, D: []float64{-0.05, -0.1, 0}},
		}},
	}
	for _, pk := range gamePks {
		run.Games = append(run.Games, models.GamePrediction{
			GamePk:         pk,
			HomeTeam:       "Boston Bruins",
			AwayTeam:       "Montréal Canadiens",
			WinPercentages: [6]float64{0.45, 0.05, 0.02, 0.40, 0.05, 0.03},
			Score:          chart.Score{Home: chart.PendingGoals(), Away: chart.PendingGoals()},
		})
	}
	return run
}

// exercise runs the shared contract against any implementation
func exercise(t *testing.T, repo PredictionRunRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, run := range []*models.PredictionRun{
		testRun("2024-01-03", 3),
		testRun("2024-01-01", 1),
		testRun("2024-01-05", 5, 6),
	} {
		require.NoError(t, repo.Upsert(ctx, run))
		assert.False(t, run.UpdatedAt.IsZero())
	}

	got, err := repo.GetByDate(ctx, "nhl", day("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", got.PredictionDate)
	require.Len(t, got.Games, 2)
	assert.Equal(t, 0.45, got.Games[0].WinPercentages[0])
	assert.Equal(t, []float64{0.1, 0.05, 0.15}, got.ModelVariables.Teams["Boston Bruins"].O)

	_, err = repo.GetByDate(ctx, "nhl", day("2024-01-04"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	latest, err := repo.GetLatestOnOrBefore(ctx, "nhl", day("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", latest.PredictionDate)

	_, err = repo.GetLatestOnOrBefore(ctx, "nhl", day("2023-12-31"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	runs, err := repo.ListBetween(ctx, "nhl", day("2024-01-01"), day("2024-01-03"))
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "2024-01-01", runs[0].PredictionDate)
	assert.Equal(t, "2024-01-03", runs[1].PredictionDate)

	final := chart.Score{Home: chart.KnownGoals(4), Away: chart.KnownGoals(2)}
	require.NoError(t, repo.UpdateScores(ctx, "nhl", day("2024-01-05"), map[int64]chart.Score{6: final}))
	got, err = repo.GetByDate(ctx, "nhl", day("2024-01-05"))
	require.NoError(t, err)
	game, err := got.FindGame(6)
	require.NoError(t, err)
	assert.Equal(t, final, game.Score)

	err = repo.UpdateScores(ctx, "nhl", day("2024-01-05"), map[int64]chart.Score{99: final})
	assert.ErrorIs(t, err, models.ErrGameNotFound)
	err = repo.UpdateScores(ctx, "nhl", day("2024-02-01"), map[int64]chart.Score{6: final})
	assert.ErrorIs(t, err, models.ErrNotFound)

	replaced := testRun("2024-01-05", 7)
	require.NoError(t, repo.Upsert(ctx, replaced))
	got, err = repo.GetByDate(ctx, "nhl", day("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, got.Games, 1)
	assert.Equal(t, int64(7), got.Games[0].GamePk)
}

func TestMemoryPredictionRunRepository(t *testing.T) {
	exercise(t, NewMemoryPredictionRunRepository())
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPredictionRunRepository()
	run := testRun("2024-01-01", 1)
	require.NoError(t, repo.Upsert(ctx, run))

	run.Games[0].HomeTeam = "changed"
	got, err := repo.GetByDate(ctx, "nhl", day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "Boston Bruins", got.Games[0].HomeTeam)

	got.Games[0].AwayTeam = "changed"
	again, err := repo.GetByDate(ctx, "nhl", day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "Montréal Canadiens", again.Games[0].AwayTeam)
}

func TestMemoryRepositoryRejectsBadDate(t *testing.T) {
	err := NewMemoryPredictionRunRepository().Upsert(context.Background(), &models.PredictionRun{League: "nhl", PredictionDate: "01/02/2024"})
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestMemoryRepositoryLeaguesAreSeparate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPredictionRunRepository()
	require.NoError(t, repo.Upsert(ctx, testRun("2024-01-01", 1)))

	_, err := repo.GetByDate(ctx, "ahl", day("2024-01-01"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.NotNil(t, NewMemoryRepositories().PredictionRun)
}

func TestPostgresPredictionRunRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	exercise(t, repos.PredictionRun)
}
