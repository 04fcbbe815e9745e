package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrGameNotFound   = errors.New("game not found in prediction run")
	ErrInvalidDate    = errors.New("invalid prediction date")
	ErrInvalidGamePk  = errors.New("invalid game id")
	ErrInvalidRun     = errors.New("invalid prediction run")
	ErrSourceRejected = errors.New("prediction source rejected request")
)
