package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/service"
)

var gamePkPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	payload, err := s.charts.Games(r.Context(), mux.Vars(r)["date"])
	s.respond(w, r, payload, err)
}

func (s *Server) handleGameOutcome(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gamePk, err := parseGamePk(vars["gamePk"])
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	payload, err := s.charts.GameOutcome(r.Context(), vars["version"], gamePk, vars["date"])
	s.respond(w, r, payload, err)
}

func (s *Server) handleGoalDistribution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gamePk, err := parseGamePk(vars["gamePk"])
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	payload, err := s.charts.GoalDistribution(r.Context(), gamePk, vars["date"])
	s.respond(w, r, payload, err)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	payload, err := s.charts.Teams(r.Context(), mux.Vars(r)["date"])
	s.respond(w, r, payload, err)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window := service.DefaultWindow
	if raw := q.Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid window %q", raw))
			return
		}
		window = n
	}
	payload, err := s.charts.ModelPerformance(r.Context(), q.Get("start"), q.Get("end"), window)
	s.respond(w, r, payload, err)
}

func (s *Server) handleSocialCard(w http.ResponseWriter, r *http.Request) {
	payload, err := s.charts.SocialCard(r.Context(), mux.Vars(r)["date"])
	s.respond(w, r, payload, err)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	readiness, err := s.charts.Readiness(r.Context(), s.now())
	s.respond(w, r, readiness, err)
}

func parseGamePk(raw string) (int64, error) {
	if !gamePkPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidGamePk, raw)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// respond writes payload, or maps err to a status code.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload interface{}, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, payload)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": requestIDFrom(r.Context()),
		}).Error("Chart request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidDate), errors.Is(err, models.ErrInvalidGamePk):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrGameNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes body before writing the header so an unencodable
// payload becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Error: "internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
