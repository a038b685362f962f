// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Compare runs one hypothetical match.
	Compare(ctx context.Context, req compare.Request) (types.Comparison, error)

	// Suggest ranks roster names against a free-text query.
	Suggest(ctx context.Context, query string, limit int) ([]types.Candidate, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	compareHandler *CompareHandler
	playersHandler *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		compareHandler: NewCompareHandler(deps),
		playersHandler: NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/compare", RequestIDMiddleware(MetricsMiddleware(s.compareHandler.HandleCompare, "compare")))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleSuggest, "players"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Error: code, Message: msg})
}

// writeCompareError maps comparison failures to status codes. Unresolved
// players carry their suggestions so a client can offer a retry.
func writeCompareError(w http.ResponseWriter, err error) {
	var rerr *compare.ResolutionError
	switch {
	case errors.As(err, &rerr):
		body := types.ErrorResponse{
			Error:       "unresolved_player",
			Message:     err.Error(),
			Side:        string(rerr.Side),
			Query:       rerr.Query,
			Suggestions: make([]types.Candidate, len(rerr.Suggestions)),
		}
		for i, c := range rerr.Suggestions {
			body.Suggestions[i] = types.Candidate{Name: c.Name, Score: c.Score}
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, compare.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, compare.ErrDataUnavailable):
		writeError(w, http.StatusBadGateway, "data_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
