package repository

import (
	"fmt"
	"time"

	"github.com/yourusername/bayes-bet/internal/database"
	"github.com/yourusername/bayes-bet/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	PredictionRun PredictionRunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		PredictionRun: NewPostgresPredictionRunRepository(db),
	}, nil
}

// NewMemoryRepositories returns repositories backed by process memory
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		PredictionRun: NewMemoryPredictionRunRepository(),
	}
}

func dateKey(t time.Time) string {
	return t.Format(models.DateLayout)
}
