package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/database"
	"github.com/yourusername/bayes-bet/internal/models"
)

const (
	errScanRun    = "failed to scan prediction run: %w"
	runColumns    = "league, prediction_date, game_predictions, model_variables, updated_at"
	dateParamType = "::date"
)

// PostgresPredictionRunRepository implements PredictionRunRepository for PostgreSQL.
// Games and model variables are stored as JSONB documents.
type PostgresPredictionRunRepository struct {
	db *database.DB
}

// NewPostgresPredictionRunRepository creates a new prediction run repository
func NewPostgresPredictionRunRepository(db *database.DB) PredictionRunRepository {
	return &PostgresPredictionRunRepository{db: db}
}

// Upsert inserts a run or replaces the stored run for the same league and date
func (r *PostgresPredictionRunRepository) Upsert(ctx context.Context, run *models.PredictionRun) error {
	games, err := json.Marshal(run.Games)
	if err != nil {
		return fmt.Errorf("failed to encode game predictions: %w", err)
	}
	variables, err := json.Marshal(run.ModelVariables)
	if err != nil {
		return fmt.Errorf("failed to encode model variables: %w", err)
	}

	query := `
		INSERT INTO prediction_runs (league, prediction_date, game_predictions, model_variables)
		VALUES ($1, $2` + dateParamType + `, $3, $4)
		ON CONFLICT (league, prediction_date) DO UPDATE
		SET game_predictions = EXCLUDED.game_predictions,
		    model_variables = EXCLUDED.model_variables,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query, run.League, run.PredictionDate, games, variables).Scan(&run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction run: %w", err)
	}

	return nil
}

// GetByDate retrieves the run for an exact prediction date
func (r *PostgresPredictionRunRepository) GetByDate(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error) {
	query := `SELECT ` + runColumns + ` FROM prediction_runs WHERE league = $1 AND prediction_date = $2` + dateParamType

	run, err := scanRun(r.db.QueryRow(ctx, query, league, dateKey(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction run: %w", err)
	}

	return run, nil
}

// GetLatestOnOrBefore retrieves the most recent run dated on or before date
func (r *PostgresPredictionRunRepository) GetLatestOnOrBefore(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM prediction_runs
		WHERE league = $1 AND prediction_date <= $2` + dateParamType + `
		ORDER BY prediction_date DESC
		LIMIT 1
	`

	run, err := scanRun(r.db.QueryRow(ctx, query, league, dateKey(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prediction run: %w", err)
	}

	return run, nil
}

// ListBetween retrieves runs dated within [start, end], oldest first
func (r *PostgresPredictionRunRepository) ListBetween(ctx context.Context, league string, start, end time.Time) ([]*models.PredictionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM prediction_runs
		WHERE league = $1 AND prediction_date >= $2` + dateParamType + ` AND prediction_date <= $3` + dateParamType + `
		ORDER BY prediction_date ASC
	`

	rows, err := r.db.Query(ctx, query, league, dateKey(start), dateKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PredictionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRun, err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// UpdateScores rewrites the scores of the given games in one transaction
func (r *PostgresPredictionRunRepository) UpdateScores(ctx context.Context, league string, date time.Time, scores map[int64]chart.Score) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		query := `SELECT ` + runColumns + ` FROM prediction_runs WHERE league = $1 AND prediction_date = $2` + dateParamType + ` FOR UPDATE`

		run, err := scanRun(r.db.QueryRow(txCtx, query, league, dateKey(date)))
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock prediction run: %w", err)
		}

		if err := applyScores(run, scores); err != nil {
			return err
		}

		games, err := json.Marshal(run.Games)
		if err != nil {
			return fmt.Errorf("failed to encode game predictions: %w", err)
		}

		_, err = r.db.Exec(txCtx, `
			UPDATE prediction_runs
			SET game_predictions = $3, updated_at = NOW()
			WHERE league = $1 AND prediction_date = $2`+dateParamType,
			league, dateKey(date), games,
		)
		if err != nil {
			return fmt.Errorf("failed to update scores: %w", err)
		}
		return nil
	})
}

func scanRun(row pgx.Row) (*models.PredictionRun, error) {
	var (
		run       models.PredictionRun
		date      time.Time
		games     []byte
		variables []byte
	)
	if err := row.Scan(&run.League, &date, &games, &variables, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.PredictionDate = date.Format(models.DateLayout)

	if err := json.Unmarshal(games, &run.Games); err != nil {
		return nil, fmt.Errorf("failed to decode game predictions: %w", err)
	}
	if err := json.Unmarshal(variables, &run.ModelVariables); err != nil {
		return nil, fmt.Errorf("failed to decode model variables: %w", err)
	}

	return &run, nil
}

// applyScores sets the score of each listed game. Every game must exist.
func applyScores(run *models.PredictionRun, scores map[int64]chart.Score) error {
	for gamePk, score := range scores {
		game, err := run.FindGame(gamePk)
		if err != nil {
			return err
		}
		game.Score = score
	}
	return nil
}
