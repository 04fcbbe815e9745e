package social

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bayes-bet/internal/datasource"
	"github.com/yourusername/bayes-bet/internal/models"
)

func testClient() *datasource.RateLimitedHTTPClient {
	cfg := datasource.DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 100
	return datasource.NewRateLimitedHTTPClient(cfg, nil)
}

func TestHTTPReadiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ready", r.URL.Path)
		_, _ = io.WriteString(w, `{"ready_to_post":true,"prediction_date":"2024-01-16"}`)
	}))
	defer srv.Close()

	readiness, err := NewHTTPReadiness(testClient(), srv.URL+"/ready").Readiness(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.Readiness{ReadyToPost: true, PredictionDate: "2024-01-16"}, readiness)
}

func TestHTTPReadinessErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			_, _ = io.WriteString(w, `{"ready_to_post":`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPReadiness(testClient(), srv.URL+"/missing").Readiness(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = NewHTTPReadiness(testClient(), srv.URL+"/broken").Readiness(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
