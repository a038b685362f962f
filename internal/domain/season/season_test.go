package season_test

import (
	"testing"

	"github.com/okian/tennis-compare/internal/domain/model"
	season "github.com/okian/tennis-compare/internal/domain/season"
	"github.com/okian/tennis-compare/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given a grass season with two tournaments", t, func() {
		set := fixtures.NewSeason(2008).
			Tourney("2008-500", 20080609).
			Match("Rafael Nadal", "Andy Murray", "Grass", 3, "SF").
			Match("Rafael Nadal", "Novak Djokovic", "Grass", 3, "F").
			Tourney("2008-540", 20080623).
			Match("Rafael Nadal", "Andy Murray", "Grass", 5, "QF").
			Match("Rafael Nadal", "Roger Federer", "Grass", 5, "F").
			Tourney("2008-999", 20080801).
			Match("Novak Djokovic", "Rafael Nadal", "Grass", 3, "F").
			Match("Rafael Nadal", "Andy Murray", "Hard", 3, "F").
			Build()
		agg := season.NewAggregator()

		Convey("When aggregating without a format filter", func() {
			st, ok := agg.Aggregate(set, "Rafael Nadal", "Grass", 0)

			Convey("Then wins, losses and finals are counted", func() {
				So(ok, ShouldBeTrue)
				So(st.Matches, ShouldEqual, 5)
				So(st.Wins, ShouldEqual, 4)
				So(st.Losses, ShouldEqual, 1)
				So(st.WinPct, ShouldAlmostEqual, 0.8, 1e-12)
				So(st.TitlesAvailable(), ShouldBeTrue)
				So(*st.Titles, ShouldEqual, 2)
				So(*st.Finals, ShouldEqual, 3)
			})
		})

		Convey("When the player reached no final", func() {
			st, ok := agg.Aggregate(set, "Andy Murray", "Grass", 0)

			Convey("Then titles and finals are zero, not unavailable", func() {
				So(ok, ShouldBeTrue)
				So(st.TitlesAvailable(), ShouldBeTrue)
				So(*st.Titles, ShouldEqual, 0)
				So(*st.Finals, ShouldEqual, 0)
			})
		})

		Convey("When the player has no rows on the surface", func() {
			_, ok := agg.Aggregate(set, "Roger Federer", "Clay", 0)

			Convey("Then no stats are produced", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a season without round and tourney_id columns", t, func() {
		cols := model.AllColumns()
		cols.Round = false
		cols.TourneyID = false
		set := fixtures.NewSeason(1980).WithColumns(cols).
			Match("Bjorn Borg", "John McEnroe", "Grass", 5, "F").
			Build()

		Convey("Then titles and finals are unavailable rather than zero", func() {
			st, ok := season.NewAggregator().Aggregate(set, "Bjorn Borg", "Grass", 5)
			So(ok, ShouldBeTrue)
			So(st.Wins, ShouldEqual, 1)
			So(st.Titles, ShouldBeNil)
			So(st.Finals, ShouldBeNil)
			So(st.TitlesAvailable(), ShouldBeFalse)
		})
	})

	Convey("Given a sparse best-of-5 subset", t, func() {
		set := fixtures.NewSeason(2010).
			Repeat(190, "Roger Federer", "Field", "Hard", 3).
			Repeat(10, "Roger Federer", "Slam", "Hard", 5).
			Build()

		Convey("Then the stats use every surface row", func() {
			st, ok := season.NewAggregator().Aggregate(set, "Roger Federer", "Hard", 5)
			So(ok, ShouldBeTrue)
			So(st.Matches, ShouldEqual, 200)
			So(st.FormatRelaxed, ShouldBeTrue)
			So(st.FormatRows, ShouldEqual, 10)
			So(st.SliceRows, ShouldEqual, 200)
		})

		Convey("Then a lower threshold keeps the format filter", func() {
			st, ok := season.NewAggregator(season.WithMinFormatRows(5)).Aggregate(set, "Roger Federer", "Hard", 5)
			So(ok, ShouldBeTrue)
			So(st.Matches, ShouldEqual, 10)
			So(st.FormatRelaxed, ShouldBeFalse)
		})
	})
}
