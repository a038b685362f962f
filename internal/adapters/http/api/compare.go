package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/types"
)

const (
	defaultBestOf   = 3
	maxRequestBytes = 1 << 16
)

// CompareHandler handles comparison requests.
type CompareHandler struct {
	deps Dependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps Dependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompare handles GET /compare (query parameters) and POST /compare
// (JSON body) requests.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var (
		req compare.Request
		err error
	)
	switch r.Method {
	case http.MethodGet:
		req, err = fromQuery(r)
	case http.MethodPost:
		req, err = fromBody(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	res, err := h.deps.Compare(r.Context(), req)
	if err != nil {
		writeCompareError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func fromQuery(r *http.Request) (compare.Request, error) {
	q := r.URL.Query()
	req := compare.Request{
		PlayerA: strings.TrimSpace(q.Get("player_a")),
		PlayerB: strings.TrimSpace(q.Get("player_b")),
		Surface: strings.TrimSpace(q.Get("surface")),
		BestOf:  defaultBestOf,
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"year_a", &req.YearA},
		{"year_b", &req.YearB},
		{"best_of", &req.BestOf},
	} {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return compare.Request{}, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, f.name)
		}
		*f.dst = v
	}
	return req, nil
}

func fromBody(w http.ResponseWriter, r *http.Request) (compare.Request, error) {
	var body types.CompareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return compare.Request{}, fmt.Errorf("%w: invalid JSON: %w", ErrBadRequest, err)
	}
	if body.BestOf == 0 {
		body.BestOf = defaultBestOf
	}
	return compare.Request{
		PlayerA: strings.TrimSpace(body.PlayerA),
		YearA:   body.YearA,
		PlayerB: strings.TrimSpace(body.PlayerB),
		YearB:   body.YearB,
		Surface: strings.TrimSpace(body.Surface),
		BestOf:  body.BestOf,
	}, nil
}
