package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// PlayersHandler serves name suggestions for the form's autocomplete.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleSuggest handles GET /players?q=&limit= requests.
func (h *PlayersHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing q", ErrBadRequest))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = v
	}

	candidates, err := h.deps.Suggest(r.Context(), q, limit)
	if err != nil {
		writeCompareError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "candidates": candidates})
}
