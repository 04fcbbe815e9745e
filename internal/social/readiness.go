package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yourusername/bayes-bet/internal/datasource"
	"github.com/yourusername/bayes-bet/internal/models"
)

// ReadinessChecker reports whether the current prediction run can be
// posted.
type ReadinessChecker interface {
	Readiness(ctx context.Context, now time.Time) (models.Readiness, error)
}

// HTTPReadiness polls the chart API's /ready endpoint.
type HTTPReadiness struct {
	client *datasource.RateLimitedHTTPClient
	url    string
}

// NewHTTPReadiness creates a checker for url.
func NewHTTPReadiness(client *datasource.RateLimitedHTTPClient, url string) *HTTPReadiness {
	return &HTTPReadiness{client: client, url: url}
}

// Readiness fetches and decodes the readiness document. now is decided by
// the chart API.
func (h *HTTPReadiness) Readiness(ctx context.Context, _ time.Time) (models.Readiness, error) {
	var readiness models.Readiness

	resp, err := h.client.Get(ctx, h.url)
	if err != nil {
		return readiness, fmt.Errorf("failed to fetch readiness: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readiness, fmt.Errorf("readiness check returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&readiness); err != nil {
		return readiness, fmt.Errorf("failed to decode readiness: %w", err)
	}
	return readiness, nil
}
