package service

import (
	"errors"

	"github.com/yourusername/bayes-bet/internal/datasource"
	"github.com/yourusername/bayes-bet/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

func isSourceNotFound(err error) bool {
	var srcErr datasource.SourceError
	if errors.As(err, &srcErr) && srcErr.Code == datasource.ErrCodeNotFound {
		return true
	}
	return errors.Is(err, models.ErrNotFound)
}
