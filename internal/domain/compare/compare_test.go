package compare_test

import (
	"errors"
	"strings"
	"testing"

	compare "github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/internal/domain/probability"
	"github.com/okian/tennis-compare/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	federer = "Roger Federer"
	nadal   = "Rafael Nadal"
)

func request(a string, yearA int, b string, yearB int, surface string, bestOf int) compare.Request {
	return compare.Request{PlayerA: a, YearA: yearA, PlayerB: b, YearB: yearB, Surface: surface, BestOf: bestOf}
}

func notesMentioning(notes []string, name string) int {
	n := 0
	for _, s := range notes {
		if strings.Contains(s, name) {
			n++
		}
	}
	return n
}

func TestCompareEndToEnd(t *testing.T) {
	Convey("Given two players with plenty of best-of-3 hard matches", t, func() {
		setA := fixtures.NewSeason(2006).
			Repeat(45, federer, "Field", "Hard", 3).
			Losses(15, federer, "Rival", "Hard", 3).
			Build()
		setB := fixtures.NewSeason(2008).
			Repeat(30, nadal, "Field", "Hard", 3).
			Losses(30, nadal, "Rival", "Hard", 3).
			Build()
		c := compare.New()

		Convey("When comparing them", func() {
			res, err := c.Compare(fixtures.Roster(), request("federer", 2006, "rafael nadal", 2008, "hard", 3), setA, setB)

			Convey("Then every component is present", func() {
				So(err, ShouldBeNil)
				So(res.PlayerA, ShouldEqual, federer)
				So(res.PlayerB, ShouldEqual, nadal)
				So(res.Surface, ShouldEqual, "Hard")
				So(res.RatingA, ShouldNotBeNil)
				So(res.RatingB, ShouldNotBeNil)
				So(*res.RatingMatchesA, ShouldEqual, 60)
				So(*res.RatingMatchesB, ShouldEqual, 60)
				So(res.StatsA, ShouldNotBeNil)
				So(res.StatsB, ShouldNotBeNil)
				So(res.StatsA.Wins, ShouldEqual, 45)
				So(res.Notes, ShouldBeEmpty)
			})

			Convey("Then the probability is the format-adjusted rating probability", func() {
				p := probability.AdjustForFormat(probability.MatchProbability(*res.RatingA, *res.RatingB), 3)
				So(res.PAWins, ShouldEqual, p)
				So(res.PAWins, ShouldBeGreaterThan, 0)
				So(res.PAWins, ShouldBeLessThan, 1)
			})

			Convey("Then the winner follows the thresholds", func() {
				switch {
				case res.PAWins >= 0.60:
					So(res.Winner, ShouldEqual, federer)
				case res.PAWins <= 0.40:
					So(res.Winner, ShouldEqual, nadal)
				default:
					So(res.Winner, ShouldEqual, compare.TooCloseToCall)
				}
				So(res.Verdict, ShouldEqual, compare.Classify(res.PAWins, compare.DefaultThresholds()))
			})
		})
	})
}

func TestCompareSparseFormat(t *testing.T) {
	Convey("Given a season with only 10 best-of-5 matches among 200 on hard", t, func() {
		setA := fixtures.NewSeason(2010).
			Repeat(190, federer, "Field", "Hard", 3).
			Repeat(10, federer, "Slam", "Hard", 5).
			Build()
		setB := fixtures.NewSeason(2011).
			Repeat(40, nadal, "Field", "Hard", 5).
			Losses(20, nadal, "Rival", "Hard", 5).
			Build()

		Convey("When comparing at best-of-5", func() {
			res, err := compare.New().Compare(fixtures.Roster(), request(federer, 2010, nadal, 2011, "Hard", 5), setA, setB)

			Convey("Then all 200 rows are used for rating and stats", func() {
				So(err, ShouldBeNil)
				So(*res.RatingMatchesA, ShouldEqual, 200)
				So(res.StatsA.Matches, ShouldEqual, 200)
				So(*res.RatingMatchesB, ShouldEqual, 60)
			})

			Convey("Then exactly one caveat is recorded for that side", func() {
				So(res.Notes, ShouldHaveLength, 1)
				So(notesMentioning(res.Notes, federer), ShouldEqual, 1)
				So(res.Notes[0], ShouldContainSubstring, "only 10 BO5 matches")
				So(notesMentioning(res.Notes, nadal), ShouldEqual, 0)
			})
		})
	})
}

func TestCompareFallbacks(t *testing.T) {
	Convey("Given a player with only best-of-3 rows in a best-of-5 heavy season", t, func() {
		setA := fixtures.NewSeason(2009).
			Repeat(60, "Andy Murray", "Slam", "Hard", 5).
			Repeat(20, federer, "Field", "Hard", 3).
			Build()
		setB := fixtures.NewSeason(2009).
			Repeat(60, nadal, "Field", "Hard", 5).
			Build()

		Convey("When comparing at best-of-5", func() {
			res, err := compare.New().Compare(fixtures.Roster(), request(federer, 2009, nadal, 2009, "Hard", 5), setA, setB)

			Convey("Then the surface-only retry supplies the rating", func() {
				So(err, ShouldBeNil)
				So(res.RatingA, ShouldNotBeNil)
				So(*res.RatingMatchesA, ShouldEqual, 20)
				So(res.StatusA, ShouldEqual, compare.UsedWithRelaxedFilter)
				So(res.StatusB, ShouldEqual, compare.Used)
			})

			Convey("Then the failure, the fallback and the missing stats are noted in order", func() {
				So(res.Notes, ShouldHaveLength, 3)
				So(res.Notes[0], ShouldStartWith, "Not enough slice data for Roger Federer (2009, Hard, BO5)")
				So(res.Notes[1], ShouldStartWith, "Fallback: used Roger Federer (2009, Hard) without best-of filter")
				So(res.Notes[2], ShouldStartWith, "Season stats unavailable for Roger Federer in 2009 on Hard")
				So(res.StatsA, ShouldBeNil)
				So(res.StatsB, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a player absent from the season entirely", t, func() {
		setA := fixtures.NewSeason(2003).Repeat(60, "Andy Roddick", "Field", "Hard", 3).Build()
		setB := fixtures.NewSeason(2008).Repeat(60, nadal, "Field", "Hard", 3).Build()

		Convey("When comparing", func() {
			res, err := compare.New().Compare(fixtures.Roster(), request(federer, 2003, nadal, 2008, "Hard", 3), setA, setB)

			Convey("Then the probability falls back to exactly one half", func() {
				So(err, ShouldBeNil)
				So(res.RatingA, ShouldBeNil)
				So(res.RatingMatchesA, ShouldBeNil)
				So(res.StatusA, ShouldEqual, compare.Unavailable)
				So(res.StatusA.String(), ShouldEqual, "unavailable")
				So(res.RatingB, ShouldNotBeNil)
				So(res.PAWins, ShouldEqual, 0.5)
				So(res.Winner, ShouldEqual, compare.TooCloseToCall)
				So(res.Verdict, ShouldEqual, compare.VerdictTooClose)
			})

			Convey("Then the first failure is noted once, before the probability caveat", func() {
				So(res.Notes, ShouldHaveLength, 3)
				So(res.Notes[0], ShouldContainSubstring, "rating unavailable")
				So(res.Notes[1], ShouldStartWith, "Probability fallback")
				So(res.Notes[2], ShouldStartWith, "Season stats unavailable for Roger Federer")
			})
		})
	})

	Convey("Given seasons without a surface column", t, func() {
		cols := model.AllColumns()
		cols.Surface = false
		set := fixtures.NewSeason(1970).WithColumns(cols).Repeat(60, federer, "Field", "Hard", 3).Build()

		Convey("Then nothing is rated and the comparison still succeeds", func() {
			res, err := compare.New().Compare(fixtures.Roster(), request(federer, 1970, federer, 1970, "Hard", 3), set, set)
			So(err, ShouldBeNil)
			So(res.PAWins, ShouldEqual, 0.5)
			So(res.StatsA, ShouldBeNil)
			So(res.StatsB, ShouldBeNil)
		})
	})

	Convey("Given missing seasons", t, func() {
		res := compare.New().Evaluate(compare.Players{A: federer, B: nadal}, request(federer, 2006, nadal, 2006, "Clay", 3), nil, nil)

		Convey("Then the result degrades instead of failing", func() {
			So(res.PAWins, ShouldEqual, 0.5)
			So(res.Notes, ShouldNotBeEmpty)
		})
	})
}

func TestCompareResolution(t *testing.T) {
	Convey("Given an unresolvable player A", t, func() {
		_, err := compare.New().Compare(fixtures.Roster(), request("xyzzy", 2006, nadal, 2008, "Hard", 3), nil, nil)

		Convey("Then the comparison aborts with suggestions", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, compare.ErrUnresolved), ShouldBeTrue)

			var re *compare.ResolutionError
			So(errors.As(err, &re), ShouldBeTrue)
			So(re.Side, ShouldEqual, compare.SideA)
			So(re.Query, ShouldEqual, "xyzzy")
			So(re.Suggestions, ShouldNotBeEmpty)
			So(err.Error(), ShouldContainSubstring, `could not resolve player A: "xyzzy"`)
		})
	})

	Convey("Given an unresolvable player B", t, func() {
		_, err := compare.New().Compare(fixtures.Roster(), request(nadal, 2006, "qqqq", 2008, "Hard", 3), nil, nil)

		Convey("Then side B is reported", func() {
			var re *compare.ResolutionError
			So(errors.As(err, &re), ShouldBeTrue)
			So(re.Side, ShouldEqual, compare.SideB)
		})
	})
}

func TestRequestValidate(t *testing.T) {
	Convey("Given comparison requests", t, func() {
		valid := request(federer, 2006, nadal, 2008, "Hard", 3)

		Convey("Then a complete request is valid", func() {
			So(valid.Validate(1968, 2030), ShouldBeNil)
		})

		Convey("Then malformed requests are rejected as invalid", func() {
			bad := []compare.Request{
				request("", 2006, nadal, 2008, "Hard", 3),
				request(federer, 2006, " ", 2008, "Hard", 3),
				request(federer, 1900, nadal, 2008, "Hard", 3),
				request(federer, 2006, nadal, 2099, "Hard", 3),
				request(federer, 2006, nadal, 2008, "Hard", 4),
				request(federer, 2006, nadal, 2008, "", 3),
			}
			for _, r := range bad {
				So(errors.Is(r.Validate(1968, 2030), compare.ErrInvalidRequest), ShouldBeTrue)
			}
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := compare.DefaultThresholds()

		Convey("Then the band edges are inclusive", func() {
			So(compare.Classify(0.60, th), ShouldEqual, compare.VerdictPlayerA)
			So(compare.Classify(0.40, th), ShouldEqual, compare.VerdictPlayerB)
			So(compare.Classify(0.5999, th), ShouldEqual, compare.VerdictTooClose)
			So(compare.Classify(0.4001, th), ShouldEqual, compare.VerdictTooClose)
		})

		Convey("Then malformed bands are rejected", func() {
			So(compare.Thresholds{Win: 0.4, Loss: 0.6}.Valid(), ShouldBeFalse)
			So(th.Valid(), ShouldBeTrue)
		})
	})

	Convey("Given a narrower custom band", t, func() {
		setA := fixtures.NewSeason(2006).Repeat(60, federer, "Field", "Hard", 3).Build()
		setB := fixtures.NewSeason(2006).Repeat(60, nadal, "Field", "Hard", 3).Build()
		c := compare.New(compare.WithThresholds(compare.Thresholds{Win: 0.5, Loss: 0.49}))

		Convey("Then identical records at 0.50 pick player A", func() {
			res, err := c.Compare(fixtures.Roster(), request(federer, 2006, nadal, 2006, "Hard", 3), setA, setB)
			So(err, ShouldBeNil)
			So(res.PAWins, ShouldEqual, 0.5)
			So(res.Winner, ShouldEqual, federer)
		})
	})
}

func TestNormalizeSurface(t *testing.T) {
	Convey("Given surface names in any case", t, func() {
		Convey("Then known surfaces are normalized", func() {
			So(compare.NormalizeSurface("hard"), ShouldEqual, "Hard")
			So(compare.NormalizeSurface("CLAY"), ShouldEqual, "Clay")
			So(compare.NormalizeSurface("Grass"), ShouldEqual, "Grass")
			So(compare.NormalizeSurface("carpet"), ShouldEqual, "Carpet")
		})

		Convey("Then unknown surfaces pass through", func() {
			So(compare.NormalizeSurface("Acrylic"), ShouldEqual, "Acrylic")
		})
	})
}
