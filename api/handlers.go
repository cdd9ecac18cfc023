package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"weather-dashboard/dashboard"
	"weather-dashboard/render"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// FavoritesResponse is returned by the favorites endpoints
type FavoritesResponse struct {
	Added     *bool    `json:"added,omitempty"`
	Favorites []string `json:"favorites"`
}

// RecentsResponse is returned by the recents endpoint
type RecentsResponse struct {
	Recents []string `json:"recents"`
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnw("Failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}

// sendDashboardError maps an orchestrator error to a status code. Rendered
// failures carry their user-facing message.
func (s *Server) sendDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	var viewErr *dashboard.ViewError
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		s.sendError(w, "a newer request replaced this one", http.StatusConflict)
	case errors.As(err, &viewErr):
		s.sendError(w, viewErr.Message, viewErrorStatus(viewErr))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.log.Infow("Request abandoned", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		s.sendError(w, "request canceled", http.StatusServiceUnavailable)
	default:
		s.log.Errorw("Request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		s.sendError(w, "internal error", http.StatusInternalServerError)
	}
}

func viewErrorStatus(e *dashboard.ViewError) int {
	switch e.Message {
	case dashboard.MsgCityNotFound:
		return http.StatusNotFound
	case dashboard.MsgGeoUnsupported:
		return http.StatusNotImplemented
	case dashboard.MsgLocationDenied:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

// handlePage renders the HTML dashboard; ?city= looks the city up first
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" {
		// failures are rendered into the page
		if err := s.dashboard.GetWeather(r.Context(), city); err != nil {
			s.log.Debugw("Page lookup failed", "city", city, "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, s.board.Snapshot()); err != nil {
		s.log.Errorw("Failed to render page", "error", err)
	}
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, s.board.Snapshot(), http.StatusOK)
}

func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(mux.Vars(r)["city"])
	if city == "" {
		s.sendError(w, "city not specified", http.StatusBadRequest)
		return
	}

	if err := s.dashboard.GetWeather(r.Context(), city); err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, s.board.Snapshot(), http.StatusOK)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.GetWeatherByLocation(r.Context()); err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, s.board.Snapshot(), http.StatusOK)
}

func (s *Server) handleToggleUnit(w http.ResponseWriter, r *http.Request) {
	if _, err := s.dashboard.ToggleUnit(r.Context()); err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, s.board.Snapshot(), http.StatusOK)
}

func (s *Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := s.dashboard.Favorites(r.Context())
	if err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, FavoritesResponse{Favorites: list}, http.StatusOK)
}

func (s *Server) handleAddCurrentFavorite(w http.ResponseWriter, r *http.Request) {
	added, err := s.dashboard.AddCurrentToFavorites(r.Context())
	if err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendFavorites(w, r, added)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(mux.Vars(r)["city"])
	if city == "" {
		s.sendError(w, "city not specified", http.StatusBadRequest)
		return
	}

	added, err := s.dashboard.ToggleFavorite(r.Context(), city)
	if err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendFavorites(w, r, added)
}

func (s *Server) sendFavorites(w http.ResponseWriter, r *http.Request, added bool) {
	list, err := s.dashboard.Favorites(r.Context())
	if err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, FavoritesResponse{Added: &added, Favorites: list}, http.StatusOK)
}

func (s *Server) handleGetRecents(w http.ResponseWriter, r *http.Request) {
	list, err := s.dashboard.Recents(r.Context())
	if err != nil {
		s.sendDashboardError(w, r, err)
		return
	}
	s.sendJSON(w, RecentsResponse{Recents: list}, http.StatusOK)
}
