package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/models"
)

const (
	backendSourceName = "model_backend"
	maxBodyBytes      = 16 << 20
)

// BackendSource reads prediction runs from the model backend HTTP API:
// GET {base}/v1/{league}/predictions/{date}
type BackendSource struct {
	baseURL  string
	client   *RateLimitedHTTPClient
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewBackendSource creates a prediction source for baseURL
func NewBackendSource(baseURL string, client *RateLimitedHTTPClient, logger *logrus.Logger) *BackendSource {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &BackendSource{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		validate: validator.New(),
		logger:   logger.WithField("source", backendSourceName),
	}
}

// Name returns the name of the data source
func (s *BackendSource) Name() string {
	return backendSourceName
}

// Client returns the underlying HTTP client, whose circuit state feeds
// the health checks
func (s *BackendSource) Client() *RateLimitedHTTPClient {
	return s.client
}

// RunURL returns the endpoint for one league and date
func (s *BackendSource) RunURL(league string, date time.Time) string {
	return fmt.Sprintf("%s/v1/%s/predictions/%s",
		s.baseURL, url.PathEscape(league), date.Format(models.DateLayout))
}

// FetchRun retrieves and validates the run for one league and prediction date
func (s *BackendSource) FetchRun(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error) {
	endpoint := s.RunURL(league, date)
	start := time.Now()

	resp, err := s.client.Get(ctx, endpoint)
	if err != nil {
		code := ErrCodeNetworkError
		if errors.Is(err, ErrCircuitOpen) {
			code = ErrCodeServerError
		}
		return nil, NewSourceError(s.Name(), code, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNetworkError, "failed to read response", err)
	}

	if err := s.checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var run models.PredictionRun
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "malformed prediction run", fmt.Errorf("%w: %v", models.ErrInvalidRun, err))
	}

	if run.League == "" {
		run.League = league
	}
	want := date.Format(models.DateLayout)
	if run.PredictionDate == "" {
		run.PredictionDate = want
	}
	if err := s.check(&run, league, want); err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "invalid prediction run", err)
	}

	s.logger.WithFields(logrus.Fields{
		"league":          league,
		"prediction_date": want,
		"games":           len(run.Games),
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Debug("Fetched prediction run")

	return &run, nil
}

func (s *BackendSource) checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return NewSourceError(s.Name(), ErrCodeNotFound, "prediction run not published", models.ErrNotFound)
	case status == http.StatusTooManyRequests:
		return NewSourceError(s.Name(), ErrCodeRateLimitExceeded, "backend rate limit exceeded", models.ErrSourceRejected)
	case status >= 500:
		return NewSourceError(s.Name(), ErrCodeServerError, fmt.Sprintf("status %d", status), ErrServerError)
	default:
		return NewSourceError(s.Name(), ErrCodeRejected, fmt.Sprintf("status %d: %s", status, snippet(body)), models.ErrSourceRejected)
	}
}

func (s *BackendSource) check(run *models.PredictionRun, league, date string) error {
	if err := s.validate.Struct(run); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidRun, err)
	}
	if run.League != league || run.PredictionDate != date {
		return fmt.Errorf("%w: asked for %s %s, got %s %s", models.ErrInvalidRun, league, date, run.League, run.PredictionDate)
	}
	return nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
