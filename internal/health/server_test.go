package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubBreaker bool

func (b stubBreaker) IsOpen() bool { return bool(b) }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, ReadyResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "chart-api", Version: "1.2.3"})

	for _, path := range []string{"/health", "/live"} {
		rec, body := get(t, s.Handler(), path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "chart-api", body.Service)
	}
}

func TestReadyReflectsState(t *testing.T) {
	db := &mockPinger{}
	db.On("Ping", mock.Anything).Return(nil)
	s := NewServer(Config{ServiceName: "chart-api", DB: db, Backend: stubBreaker(false)})

	rec, body := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Checks["service"])

	s.SetReady(true)
	rec, body = get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["model_backend"])
}

func TestReadyFailsWhenDatabaseDown(t *testing.T) {
	db := &mockPinger{}
	db.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	s := NewServer(Config{DB: db})
	s.SetReady(true)

	rec, body := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error: connection refused", body.Checks["database"])
	db.AssertExpectations(t)
}

func TestReadyReportsOpenBreakerWithoutFailing(t *testing.T) {
	s := NewServer(Config{Backend: stubBreaker(true)})
	s.SetReady(true)

	rec, body := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "circuit_open", body.Checks["model_backend"])
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(Config{}).Shutdown())
}
