package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/types"
)

// Sentinel errors returned by Run.
var (
	ErrAborted      = errors.New("input ended before the comparison was complete")
	ErrMissingInput = errors.New("missing input")
)

// Comparer runs one comparison.
type Comparer interface {
	Compare(ctx context.Context, req compare.Request) (types.Comparison, error)
}

// Config holds pre-filled inputs and validation bounds. Zero values mean
// "ask for it".
type Config struct {
	PlayerA string
	YearA   int
	PlayerB string
	YearB   int
	Surface string // empty means Hard
	BestOf  int

	MinYear int
	MaxYear int

	// Interactive enables prompting. When false every missing input is an
	// error instead.
	Interactive bool

	// MaxAttempts bounds re-prompts per field and per name resolution.
	MaxAttempts int

	// Renderer prints the finished comparison. Defaults to Render.
	Renderer Renderer
}

// Renderer writes a finished comparison.
type Renderer func(w io.Writer, res types.Comparison)

func (c *Config) attempts() int {
	if c.MaxAttempts <= 0 {
		return defaultAttempts
	}
	return c.MaxAttempts
}

func (c *Config) renderer() Renderer {
	if c.Renderer == nil {
		return Render
	}
	return c.Renderer
}
