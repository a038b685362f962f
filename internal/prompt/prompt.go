// Package prompt implements the line-mode front end: it asks for whatever
// the command line did not supply, runs the comparison and prints a report.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/types"
	"github.com/okian/tennis-compare/pkg/logger"
)

const (
	defaultAttempts = 3
	defaultSurface  = "Hard"
	defaultBestOf   = 3
)

type session struct {
	cfg *Config
	in  *bufio.Scanner
	out io.Writer
}

// Run fills in missing inputs from in, runs the comparison through svc and
// renders the report to out. Unresolved names are re-asked with suggestions.
func Run(ctx context.Context, cfg *Config, in io.Reader, out io.Writer, svc Comparer) error {
	s := &session{cfg: cfg, in: bufio.NewScanner(in), out: out}

	req, err := s.collect()
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := svc.Compare(ctx, req)
		if err == nil {
			cfg.renderer()(out, res)
			return nil
		}

		var rerr *compare.ResolutionError
		if !errors.As(err, &rerr) || !cfg.Interactive || attempt >= cfg.attempts() {
			return err
		}
		logger.Get().Debug(ctx, "re-asking unresolved player",
			logger.String("side", string(rerr.Side)),
			logger.String("query", rerr.Query),
		)
		s.suggest(rerr)
		name, err := s.name(fmt.Sprintf("Player %s", rerr.Side))
		if err != nil {
			return err
		}
		if rerr.Side == compare.SideA {
			req.PlayerA = name
		} else {
			req.PlayerB = name
		}
	}
}

func (s *session) collect() (compare.Request, error) {
	var (
		req = compare.Request{
			PlayerA: strings.TrimSpace(s.cfg.PlayerA),
			YearA:   s.cfg.YearA,
			PlayerB: strings.TrimSpace(s.cfg.PlayerB),
			YearB:   s.cfg.YearB,
			Surface: strings.TrimSpace(s.cfg.Surface),
			BestOf:  s.cfg.BestOf,
		}
		err error
	)
	if req.PlayerA == "" {
		if req.PlayerA, err = s.name("Player A"); err != nil {
			return req, err
		}
	}
	if s.needsYear(req.YearA) {
		if req.YearA, err = s.year("Season for " + req.PlayerA); err != nil {
			return req, err
		}
	}
	if req.PlayerB == "" {
		if req.PlayerB, err = s.name("Player B"); err != nil {
			return req, err
		}
	}
	if s.needsYear(req.YearB) {
		if req.YearB, err = s.year("Season for " + req.PlayerB); err != nil {
			return req, err
		}
	}
	if req.Surface == "" {
		if req.Surface, err = s.surface(); err != nil {
			return req, err
		}
	}
	req.Surface = compare.NormalizeSurface(req.Surface)
	if s.needsBestOf(req.BestOf) {
		if req.BestOf, err = s.bestOf(); err != nil {
			return req, err
		}
	}
	return req, nil
}

// needsYear reports whether y must be asked for. Out-of-range values given
// up front are left for request validation when not interactive.
func (s *session) needsYear(y int) bool {
	if y == 0 {
		return true
	}
	return s.cfg.Interactive && !s.validYear(y)
}

func (s *session) needsBestOf(n int) bool {
	if n == 0 {
		return true
	}
	return s.cfg.Interactive && n != 3 && n != 5
}

// ask prints label and returns the next trimmed line.
func (s *session) ask(label string) (string, error) {
	if !s.cfg.Interactive {
		return "", fmt.Errorf("%w: %s", ErrMissingInput, strings.ToLower(label))
	}
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// retry re-asks label until parse accepts the answer or attempts run out.
func retry[T any](s *session, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	for i := 0; i < s.cfg.attempts(); i++ {
		line, err := s.ask(label)
		if err != nil {
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(s.out, "  %v\n", err)
	}
	return zero, fmt.Errorf("%w: no valid answer for %s", ErrAborted, strings.ToLower(label))
}

func (s *session) name(label string) (string, error) {
	return retry(s, label, func(line string) (string, error) {
		if line == "" {
			return "", errors.New("a name is required")
		}
		return line, nil
	})
}

func (s *session) validYear(y int) bool {
	return y >= s.cfg.MinYear && y <= s.cfg.MaxYear
}

func (s *session) year(label string) (int, error) {
	label = fmt.Sprintf("%s [%d-%d]", label, s.cfg.MinYear, s.cfg.MaxYear)
	return retry(s, label, func(line string) (int, error) {
		y, err := strconv.Atoi(line)
		if err != nil || !s.validYear(y) {
			return 0, fmt.Errorf("enter a year between %d and %d", s.cfg.MinYear, s.cfg.MaxYear)
		}
		return y, nil
	})
}

func (s *session) surface() (string, error) {
	if !s.cfg.Interactive {
		return defaultSurface, nil
	}
	line, err := s.ask("Surface (Hard/Clay/Grass/Carpet) [Hard]")
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultSurface, nil
	}
	return line, nil
}

func (s *session) bestOf() (int, error) {
	if !s.cfg.Interactive {
		return defaultBestOf, nil
	}
	return retry(s, "Best of (3/5) [3]", func(line string) (int, error) {
		switch line {
		case "", "3":
			return 3, nil
		case "5":
			return 5, nil
		}
		return 0, errors.New("best-of must be 3 or 5")
	})
}

func (s *session) suggest(rerr *compare.ResolutionError) {
	fmt.Fprintf(s.out, "Could not find a confident match for %q.\n", rerr.Query)
	if len(rerr.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(s.out, "Did you mean:")
	for _, c := range rerr.Suggestions {
		fmt.Fprintf(s.out, "  %s (%d)\n", c.Name, c.Score)
	}
}

// Confidence is the distance of p from a coin flip, scaled to 0..100.
func Confidence(p float64) float64 {
	d := p - 0.5
	if d < 0 {
		d = -d
	}
	return d * 200
}

// Render writes the human-readable report for res.
func Render(w io.Writer, res types.Comparison) {
	fmt.Fprintf(w, "\n%s (%d) vs %s (%d)\n", res.PlayerA, res.YearA, res.PlayerB, res.YearB)
	fmt.Fprintf(w, "Surface: %s | Best of %d\n\n", res.Surface, res.BestOf)

	fmt.Fprintln(w, "Win probability:")
	fmt.Fprintf(w, "  %s: %.1f%%\n", res.PlayerA, res.PAWins*100)
	fmt.Fprintf(w, "  %s: %.1f%%\n\n", res.PlayerB, (1-res.PAWins)*100)

	fmt.Fprintln(w, "Ratings:")
	fmt.Fprintf(w, "  %s: %s\n", res.PlayerA, ratingLine(res.RatingA, res.RatingMatchesA))
	fmt.Fprintf(w, "  %s: %s\n\n", res.PlayerB, ratingLine(res.RatingB, res.RatingMatchesB))

	fmt.Fprintln(w, "Season:")
	fmt.Fprintf(w, "  %s: %s\n", res.PlayerA, seasonLine(res.StatsA))
	fmt.Fprintf(w, "  %s: %s\n\n", res.PlayerB, seasonLine(res.StatsB))

	fmt.Fprintf(w, "Winner: %s (confidence %.0f%%)\n", res.Winner, Confidence(res.PAWins))

	if len(res.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, n := range res.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}
}

func ratingLine(r *float64, n *int) string {
	if r == nil {
		return "unavailable"
	}
	if n == nil {
		return fmt.Sprintf("%.1f", *r)
	}
	return fmt.Sprintf("%.1f (%d matches)", *r, *n)
}

func seasonLine(st *types.SeasonStats) string {
	if st == nil {
		return "unavailable"
	}
	line := fmt.Sprintf("%d-%d (%.1f%%)", st.Wins, st.Losses, st.WinPct*100)
	if st.Titles != nil && st.Finals != nil {
		line += fmt.Sprintf(", titles %d, finals %d", *st.Titles, *st.Finals)
	}
	return line
}
