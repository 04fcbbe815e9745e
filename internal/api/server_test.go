package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/service"
)

// MockCharts mocks the chart service
type MockCharts struct {
	mock.Mock
}

func (m *MockCharts) Games(ctx context.Context, date string) (*service.GamesPayload, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GamesPayload), args.Error(1)
}

func (m *MockCharts) GameOutcome(ctx context.Context, version string, gamePk int64, date string) (*service.GameOutcomePayload, error) {
	args := m.Called(ctx, version, gamePk, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GameOutcomePayload), args.Error(1)
}

func (m *MockCharts) GoalDistribution(ctx context.Context, gamePk int64, date string) (*service.GoalDistributionPayload, error) {
	args := m.Called(ctx, gamePk, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GoalDistributionPayload), args.Error(1)
}

func (m *MockCharts) Teams(ctx context.Context, date string) (*service.TeamsPayload, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TeamsPayload), args.Error(1)
}

func (m *MockCharts) ModelPerformance(ctx context.Context, start, end string, window int) (*service.PerformancePayload, error) {
	args := m.Called(ctx, start, end, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PerformancePayload), args.Error(1)
}

func (m *MockCharts) SocialCard(ctx context.Context, date string) (*service.SocialCard, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SocialCard), args.Error(1)
}

func (m *MockCharts) Readiness(ctx context.Context, now time.Time) (models.Readiness, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(models.Readiness), args.Error(1)
}

func newTestServer(charts Charts) *Server {
	return NewServer(charts, nil, Config{MetricsEnabled: true}, nil)
}

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGamesRoutes(t *testing.T) {
	charts := new(MockCharts)
	charts.On("Games", mock.Anything, "").Return(&service.GamesPayload{PredictionDate: "2024-01-15"}, nil)
	charts.On("Games", mock.Anything, "2024-01-14").Return(&service.GamesPayload{PredictionDate: "2024-01-14"}, nil)
	s := newTestServer(charts)

	for path, want := range map[string]string{
		"/api/v1/games":            "2024-01-15",
		"/api/v2/games/2024-01-14": "2024-01-14",
	} {
		rec := serve(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

		var payload service.GamesPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, want, payload.PredictionDate, path)
	}
	charts.AssertExpectations(t)
}

func TestGameOutcomePassesVersion(t *testing.T) {
	charts := new(MockCharts)
	charts.On("GameOutcome", mock.Anything, "v2", int64(2023020710), "2024-01-15").
		Return(&service.GameOutcomePayload{PredictionDate: "2024-01-15", Chart: chart.GameOutcome{GamePk: 2023020710}}, nil)
	s := newTestServer(charts)

	rec := serve(t, s, "/api/v2/gameoutcome/2023020710/2024-01-15")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"game_pk":2023020710`)
	charts.AssertExpectations(t)
}

func TestInvalidGamePk(t *testing.T) {
	s := newTestServer(new(MockCharts))

	for _, path := range []string{"/api/v1/gameoutcome/123", "/api/v1/goaldist/20230207100", "/api/v1/goaldist/abcdefghij/2024-01-15"} {
		rec := serve(t, s, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, decodeError(t, rec), "invalid game id")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	charts := new(MockCharts)
	charts.On("Teams", mock.Anything, "2024-13-40").Return(nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, "2024-13-40"))
	charts.On("Teams", mock.Anything, "2020-01-01").Return(nil, models.ErrNotFound)
	charts.On("GoalDistribution", mock.Anything, int64(2023029999), "").Return(nil, models.ErrGameNotFound)
	charts.On("SocialCard", mock.Anything, "").Return(nil, errors.New("connection reset"))
	s := newTestServer(charts)

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/api/v1/teams/2024-13-40", status: http.StatusBadRequest, message: "invalid prediction date"},
		{path: "/api/v1/teams/2020-01-01", status: http.StatusNotFound, message: "record not found"},
		{path: "/api/v1/goaldist/2023029999", status: http.StatusNotFound, message: "game not found"},
		{path: "/api/v1/socialpreds", status: http.StatusInternalServerError, message: "internal server error"},
		{path: "/api/v3/games", status: http.StatusNotFound, message: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, s, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.message)
		})
	}
}

func TestPerformanceQuery(t *testing.T) {
	charts := new(MockCharts)
	charts.On("ModelPerformance", mock.Anything, "2023-10-01", "", 7).Return(&service.PerformancePayload{Window: 7}, nil)
	s := newTestServer(charts)

	rec := serve(t, s, "/api/v1/performance?start=2023-10-01&window=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"window":7`)

	rec = serve(t, s, "/api/v1/performance?window=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(t, s, "/api/v1/performance?window=-2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	charts.AssertExpectations(t)
}

func TestPerformanceWindowDefaults(t *testing.T) {
	charts := new(MockCharts)
	charts.On("ModelPerformance", mock.Anything, "", "", service.DefaultWindow).Return(&service.PerformancePayload{Window: 14}, nil)
	charts.On("ModelPerformance", mock.Anything, "", "", 0).Return(&service.PerformancePayload{Window: 0}, nil)
	s := newTestServer(charts)

	rec := serve(t, s, "/api/v1/performance")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"window":14`)

	rec = serve(t, s, "/api/v1/performance?window=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"window":0`)
	charts.AssertExpectations(t)
}

func TestReadyEndpoint(t *testing.T) {
	now := time.Date(2024, 1, 16, 5, 0, 0, 0, time.UTC)
	charts := new(MockCharts)
	charts.On("Readiness", mock.Anything, now).Return(models.Readiness{ReadyToPost: true, PredictionDate: "2024-01-15"}, nil)
	s := newTestServer(charts)
	s.now = func() time.Time { return now }

	rec := serve(t, s, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready_to_post":true,"prediction_date":"2024-01-15"}`, rec.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	charts := new(MockCharts)
	charts.On("Games", mock.Anything, "").Return(&service.GamesPayload{}, nil)
	s := newTestServer(charts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSAllowedOrigins(t *testing.T) {
	charts := new(MockCharts)
	charts.On("Games", mock.Anything, "").Return(&service.GamesPayload{}, nil)
	s := NewServer(charts, nil, Config{AllowedOrigins: []string{"https://bayesbet.io"}}, nil)

	for origin, want := range map[string]string{
		"https://bayesbet.io": "https://bayesbet.io",
		"https://example.com": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	charts := new(MockCharts)
	charts.On("Games", mock.Anything, "").Return(&service.GamesPayload{}, nil)
	s := newTestServer(charts)

	serve(t, s, "/api/v1/games")
	rec := serve(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bayesbet_http_requests_total")
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"decimal": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
