package prompt_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/resolve"
	"github.com/okian/tennis-compare/internal/domain/types"
	"github.com/okian/tennis-compare/internal/prompt"
	"github.com/okian/tennis-compare/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type recordingComparer struct {
	requests []compare.Request
	// unresolved lists names that fail resolution.
	unresolved map[string]bool
	err        error
}

func (r *recordingComparer) Compare(_ context.Context, req compare.Request) (types.Comparison, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return types.Comparison{}, r.err
	}
	if r.unresolved[req.PlayerB] {
		return types.Comparison{}, &compare.ResolutionError{
			Side:        compare.SideB,
			Query:       req.PlayerB,
			Suggestions: []resolve.Candidate{{Name: "Rafael Nadal", Score: 72}},
		}
	}
	return types.Comparison{
		PlayerA: req.PlayerA, YearA: req.YearA,
		PlayerB: req.PlayerB, YearB: req.YearB,
		Surface: req.Surface, BestOf: req.BestOf,
		PAWins: 0.5, Winner: compare.TooCloseToCall,
	}, nil
}

func config(interactive bool) *prompt.Config {
	return &prompt.Config{MinYear: 1968, MaxYear: 2030, Interactive: interactive}
}

func TestRun_Prompts(t *testing.T) {
	Convey("Given an interactive session with nothing pre-filled", t, func() {
		svc := &recordingComparer{}
		var out bytes.Buffer

		Convey("When every answer is supplied", func() {
			in := strings.NewReader("Roger Federer\n2006\nRafael Nadal\n2008\nclay\n5\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then the request should carry the answers", func() {
				So(err, ShouldBeNil)
				So(svc.requests, ShouldHaveLength, 1)
				So(svc.requests[0], ShouldResemble, compare.Request{
					PlayerA: "Roger Federer", YearA: 2006,
					PlayerB: "Rafael Nadal", YearB: 2008,
					Surface: "Clay", BestOf: 5,
				})
				So(out.String(), ShouldContainSubstring, "Winner: too close to call")
			})
		})

		Convey("When surface and format are left blank", func() {
			in := strings.NewReader("A\n2006\nB\n2008\n\n\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then they should default to hard courts and best of 3", func() {
				So(err, ShouldBeNil)
				So(svc.requests[0].Surface, ShouldEqual, "Hard")
				So(svc.requests[0].BestOf, ShouldEqual, 3)
			})
		})

		Convey("When a year is out of range at first", func() {
			in := strings.NewReader("A\n1900\n2006\nB\n2008\n\n3\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then it should be asked again", func() {
				So(err, ShouldBeNil)
				So(svc.requests[0].YearA, ShouldEqual, 2006)
				So(out.String(), ShouldContainSubstring, "enter a year between 1968 and 2030")
			})
		})

		Convey("When a best-of answer is invalid", func() {
			in := strings.NewReader("A\n2006\nB\n2008\n\n4\n5\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then it should be asked again", func() {
				So(err, ShouldBeNil)
				So(svc.requests[0].BestOf, ShouldEqual, 5)
				So(out.String(), ShouldContainSubstring, "best-of must be 3 or 5")
			})
		})

		Convey("When input ends early", func() {
			in := strings.NewReader("Roger Federer\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then the session should be aborted", func() {
				So(errors.Is(err, prompt.ErrAborted), ShouldBeTrue)
				So(svc.requests, ShouldBeEmpty)
			})
		})

		Convey("When every year answer is wrong", func() {
			in := strings.NewReader("A\nx\ny\nz\n")
			err := prompt.Run(context.Background(), config(true), in, &out, svc)

			Convey("Then it should give up after the attempt limit", func() {
				So(errors.Is(err, prompt.ErrAborted), ShouldBeTrue)
			})
		})
	})
}

func TestRun_Prefilled(t *testing.T) {
	Convey("Given a non-interactive session", t, func() {
		svc := &recordingComparer{}
		var out bytes.Buffer

		Convey("When names and years are supplied", func() {
			cfg := config(false)
			cfg.PlayerA, cfg.YearA, cfg.PlayerB, cfg.YearB = "A", 2006, "B", 2008
			err := prompt.Run(context.Background(), cfg, strings.NewReader(""), &out, svc)

			Convey("Then defaults should fill the rest without prompting", func() {
				So(err, ShouldBeNil)
				So(svc.requests[0].Surface, ShouldEqual, "Hard")
				So(svc.requests[0].BestOf, ShouldEqual, 3)
				So(out.String(), ShouldNotContainSubstring, "Player A:")
			})
		})

		Convey("When a name is missing", func() {
			cfg := config(false)
			cfg.YearA, cfg.PlayerB, cfg.YearB = 2006, "B", 2008
			err := prompt.Run(context.Background(), cfg, strings.NewReader(""), &out, svc)

			Convey("Then it should fail without calling the service", func() {
				So(errors.Is(err, prompt.ErrMissingInput), ShouldBeTrue)
				So(svc.requests, ShouldBeEmpty)
			})
		})

		Convey("When the format is invalid", func() {
			cfg := config(false)
			cfg.PlayerA, cfg.YearA, cfg.PlayerB, cfg.YearB, cfg.BestOf = "A", 2006, "B", 2008, 4
			svc.err = fmt.Errorf("%w: best-of must be 3 or 5", compare.ErrInvalidRequest)
			err := prompt.Run(context.Background(), cfg, strings.NewReader(""), &out, svc)

			Convey("Then validation should be left to the service", func() {
				So(errors.Is(err, compare.ErrInvalidRequest), ShouldBeTrue)
				So(svc.requests[0].BestOf, ShouldEqual, 4)
			})
		})
	})
}

func TestRun_Unresolved(t *testing.T) {
	Convey("Given a player B name that does not resolve", t, func() {
		svc := &recordingComparer{unresolved: map[string]bool{"Nadl": true}}
		var out bytes.Buffer
		cfg := config(true)
		cfg.PlayerA, cfg.YearA, cfg.PlayerB, cfg.YearB, cfg.BestOf = "Roger Federer", 2006, "Nadl", 2008, 3
		cfg.Surface = "Hard"

		Convey("When the user picks a suggestion", func() {
			err := prompt.Run(context.Background(), cfg, strings.NewReader("Rafael Nadal\n"), &out, svc)

			Convey("Then the comparison should be retried with the new name", func() {
				So(err, ShouldBeNil)
				So(svc.requests, ShouldHaveLength, 2)
				So(svc.requests[1].PlayerB, ShouldEqual, "Rafael Nadal")
				So(out.String(), ShouldContainSubstring, "Did you mean:")
				So(out.String(), ShouldContainSubstring, "Rafael Nadal (72)")
			})
		})

		Convey("When not interactive", func() {
			cfg.Interactive = false
			err := prompt.Run(context.Background(), cfg, strings.NewReader(""), &out, svc)

			Convey("Then the resolution error should be returned", func() {
				So(errors.Is(err, compare.ErrUnresolved), ShouldBeTrue)
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a full comparison", t, func() {
		ra, rb := 1650.3, 1580.0
		na, nb := 60, 55
		titles, finals := 3, 5
		res := types.Comparison{
			PlayerA: "Roger Federer", YearA: 2006,
			PlayerB: "Rafael Nadal", YearB: 2008,
			Surface: "Hard", BestOf: 3, PAWins: 0.64,
			RatingA: &ra, RatingB: &rb, RatingMatchesA: &na, RatingMatchesB: &nb,
			StatsA: &types.SeasonStats{Matches: 60, Wins: 45, Losses: 15, WinPct: 0.75, Titles: &titles, Finals: &finals},
			Notes:  []string{"Fallback: used Rafael Nadal (2008, Hard) without best-of filter."},
			Winner: "Roger Federer",
		}
		var out bytes.Buffer
		prompt.Render(&out, res)
		text := out.String()

		Convey("Then it should show both probabilities", func() {
			So(text, ShouldContainSubstring, "Roger Federer: 64.0%")
			So(text, ShouldContainSubstring, "Rafael Nadal: 36.0%")
		})

		Convey("And ratings with match counts", func() {
			So(text, ShouldContainSubstring, "1650.3 (60 matches)")
		})

		Convey("And season lines with titles when known", func() {
			So(text, ShouldContainSubstring, "45-15 (75.0%), titles 3, finals 5")
			So(text, ShouldContainSubstring, "Rafael Nadal: unavailable")
		})

		Convey("And the winner with its confidence", func() {
			So(text, ShouldContainSubstring, "Winner: Roger Federer (confidence 28%)")
		})

		Convey("And every note", func() {
			So(text, ShouldContainSubstring, "  - Fallback: used Rafael Nadal")
		})
	})
}

func TestConfidence(t *testing.T) {
	Convey("Confidence should be symmetric around a coin flip", t, func() {
		So(prompt.Confidence(0.5), ShouldEqual, 0)
		So(prompt.Confidence(1), ShouldEqual, 100)
		So(prompt.Confidence(0.25), ShouldAlmostEqual, prompt.Confidence(0.75))
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Help should mention the year range", t, func() {
		var out bytes.Buffer
		prompt.ShowHelp(&out, 1968, 2030)
		So(out.String(), ShouldContainSubstring, "1968-2030")
	})
}
