package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/resolve"
)

// Sentinel error kinds for comparisons. These allow errors.Is from callers.
var (
	ErrUnresolved      = errors.New("player not resolved")
	ErrInvalidRequest  = errors.New("invalid comparison request")
	ErrDataUnavailable = errors.New("match data unavailable")
)

// ResolutionError reports a player query that did not resolve with enough
// confidence. It aborts the whole comparison.
type ResolutionError struct {
	Side        Side
	Query       string
	Suggestions []resolve.Candidate
}

func (e *ResolutionError) Error() string {
	parts := make([]string, len(e.Suggestions))
	for i, c := range e.Suggestions {
		parts[i] = fmt.Sprintf("%s (%d)", c.Name, c.Score)
	}
	return fmt.Sprintf("could not resolve player %s: %q; suggestions: [%s]", e.Side, e.Query, strings.Join(parts, ", "))
}

// Is lets errors.Is(err, ErrUnresolved) match any ResolutionError.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}
