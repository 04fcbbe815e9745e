package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/models"
)

// MemoryPredictionRunRepository keeps prediction runs in process memory.
// Stored runs are copied on the way in and out.
type MemoryPredictionRunRepository struct {
	mu   sync.RWMutex
	runs map[string]map[string]*models.PredictionRun
	now  func() time.Time
}

// NewMemoryPredictionRunRepository creates an empty in-memory repository
func NewMemoryPredictionRunRepository() *MemoryPredictionRunRepository {
	return &MemoryPredictionRunRepository{
		runs: make(map[string]map[string]*models.PredictionRun),
		now:  time.Now,
	}
}

// Upsert stores a copy of run
func (r *MemoryPredictionRunRepository) Upsert(ctx context.Context, run *models.PredictionRun) error {
	date, err := run.Date()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byDate, ok := r.runs[run.League]
	if !ok {
		byDate = make(map[string]*models.PredictionRun)
		r.runs[run.League] = byDate
	}
	run.UpdatedAt = r.now().UTC()
	byDate[dateKey(date)] = cloneRun(run)
	return nil
}

// GetByDate retrieves the run for an exact prediction date
func (r *MemoryPredictionRunRepository) GetByDate(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[league][dateKey(date)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneRun(run), nil
}

// GetLatestOnOrBefore retrieves the most recent run dated on or before date
func (r *MemoryPredictionRunRepository) GetLatestOnOrBefore(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := dateKey(date)
	var latest string
	for key := range r.runs[league] {
		if key <= limit && key > latest {
			latest = key
		}
	}
	if latest == "" {
		return nil, models.ErrNotFound
	}
	return cloneRun(r.runs[league][latest]), nil
}

// ListBetween retrieves runs dated within [start, end], oldest first
func (r *MemoryPredictionRunRepository) ListBetween(ctx context.Context, league string, start, end time.Time) ([]*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := dateKey(start), dateKey(end)
	keys := make([]string, 0, len(r.runs[league]))
	for key := range r.runs[league] {
		if key >= lo && key <= hi {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	runs := make([]*models.PredictionRun, 0, len(keys))
	for _, key := range keys {
		runs = append(runs, cloneRun(r.runs[league][key]))
	}
	return runs, nil
}

// UpdateScores rewrites the scores of the given games. Nothing changes
// when any game is missing.
func (r *MemoryPredictionRunRepository) UpdateScores(ctx context.Context, league string, date time.Time, scores map[int64]chart.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.runs[league][dateKey(date)]
	if !ok {
		return models.ErrNotFound
	}

	updated := cloneRun(stored)
	if err := applyScores(updated, scores); err != nil {
		return err
	}
	updated.UpdatedAt = r.now().UTC()
	r.runs[league][dateKey(date)] = updated
	return nil
}

func cloneRun(run *models.PredictionRun) *models.PredictionRun {
	out := *run
	out.Games = append([]models.GamePrediction(nil), run.Games...)
	if run.ModelVariables.Teams != nil {
		out.ModelVariables.Teams = make(map[string]models.TeamVariables, len(run.ModelVariables.Teams))
		for name, v := range run.ModelVariables.Teams {
			out.ModelVariables.Teams[name] = v
		}
	}
	return &out
}
