package resolve_test

import (
	"fmt"
	"sort"
	"testing"

	resolve "github.com/okian/tennis-compare/internal/domain/resolve"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	roster := []string{"Rafael Nadal", "Roger Federer"}

	Convey("Given a two-player roster", t, func() {
		r := resolve.New()

		Convey("When the query matches a name ignoring case", func() {
			name, alts := r.Resolve(roster, "rafael nadal")

			Convey("Then it resolves with no alternatives", func() {
				So(name, ShouldEqual, "Rafael Nadal")
				So(alts, ShouldNotBeNil)
				So(alts, ShouldBeEmpty)
			})
		})

		Convey("When the query is padded with whitespace", func() {
			name, _ := r.Resolve(roster, "  Roger Federer ")

			Convey("Then it still matches exactly", func() {
				So(name, ShouldEqual, "Roger Federer")
			})
		})

		Convey("When the query is unrelated", func() {
			name, alts := r.Resolve(roster, "xyzzy")

			Convey("Then nothing resolves and every suggestion is below the threshold", func() {
				So(name, ShouldBeEmpty)
				So(alts, ShouldNotBeEmpty)
				for _, c := range alts {
					So(c.Score, ShouldBeLessThan, 80)
				}
			})
		})

		Convey("When the query is a surname", func() {
			name, alts := r.Resolve(roster, "federer")

			Convey("Then the fuzzy match is accepted with ranked alternatives", func() {
				So(name, ShouldEqual, "Roger Federer")
				So(alts[0].Name, ShouldEqual, "Roger Federer")
				So(alts[0].Score, ShouldBeGreaterThanOrEqualTo, 80)
			})
		})

		Convey("When the query has a typo", func() {
			name, _ := r.Resolve(roster, "Rafa Nadal")

			Convey("Then it resolves to the closest name", func() {
				So(name, ShouldEqual, "Rafael Nadal")
			})
		})

		Convey("When the query is empty", func() {
			name, alts := r.Resolve(roster, "   ")

			Convey("Then nothing resolves and there are no suggestions", func() {
				So(name, ShouldBeEmpty)
				So(alts, ShouldBeEmpty)
			})
		})

		Convey("When the minimum score is raised to 100", func() {
			name, alts := resolve.New(resolve.WithMinScore(100)).Resolve(roster, "Rafa Nadal")

			Convey("Then the typo no longer resolves", func() {
				So(name, ShouldBeEmpty)
				So(alts[0].Name, ShouldEqual, "Rafael Nadal")
			})
		})
	})

	Convey("Given a roster with duplicate spellings", t, func() {
		dup := []string{"Juan Martin del Potro", "Juan Martin Del Potro"}

		Convey("Then the first exact match in roster order wins", func() {
			name, _ := resolve.New().Resolve(dup, "JUAN MARTIN DEL POTRO")
			So(name, ShouldEqual, "Juan Martin del Potro")
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given a roster with equally similar names", t, func() {
		roster := []string{"Andy Murray", "Jamie Murray", "Andy Roddick", "Andy Murray"}
		r := resolve.New(resolve.WithLimit(2))

		Convey("When ranking", func() {
			got := r.Rank(roster, "Andy Murray", 0)

			Convey("Then the limit applies and ties keep roster order", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0], ShouldResemble, resolve.Candidate{Name: "Andy Murray", Score: 100})
				So(got[1], ShouldResemble, resolve.Candidate{Name: "Andy Murray", Score: 100})
			})
		})

		Convey("When the roster is empty", func() {
			Convey("Then there are no candidates", func() {
				So(r.Rank(nil, "Andy", 5), ShouldBeEmpty)
			})
		})
	})
}

// fullRank scores every name and stable-sorts them, without any shortcuts.
func fullRank(roster []string, query string, limit int) []resolve.Candidate {
	out := make([]resolve.Candidate, len(roster))
	for i, name := range roster {
		out[i] = resolve.Candidate{Name: name, Score: resolve.WRatio(query, name)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func TestRank_LargeRoster(t *testing.T) {
	Convey("Given a roster mixing short, long and near-duplicate names", t, func() {
		roster := []string{
			"Roger Federer", "Rafael Nadal", "Novak Djokovic", "Andy Murray",
			"Jamie Murray", "Juan Martin del Potro", "Jo-Wilfried Tsonga", "Li Na",
			"Pablo Carreno Busta", "Roberto Bautista Agut", "Alejandro Davidovich Fokina",
			"Federico Delbonis", "Fernando Verdasco", "Feliciano Lopez", "Rafael Nadal Parera",
		}
		for i := 0; i < 300; i++ {
			roster = append(roster, fmt.Sprintf("Qualifier %03d", i), fmt.Sprintf("Ng %d", i))
		}
		queries := []string{"federer", "Rafa Nadal", "murray", "del potro", "Li", "nadal parera rafael", "xyzzy", "Qualifier 12"}

		Convey("When ranking with a small limit", func() {
			r := resolve.New()

			Convey("Then the result equals scoring the whole roster", func() {
				for _, q := range queries {
					for _, limit := range []int{1, 3, 5, 12} {
						So(r.Rank(roster, q, limit), ShouldResemble, fullRank(roster, q, limit))
					}
				}
			})
		})

		Convey("When the same roster is ranked repeatedly", func() {
			r := resolve.New()
			first := r.Rank(roster, "federer", 5)

			Convey("Then every call returns the same candidates", func() {
				for i := 0; i < 3; i++ {
					So(r.Rank(roster, "federer", 5), ShouldResemble, first)
				}
			})
		})

		Convey("When a different roster follows", func() {
			r := resolve.New()
			_ = r.Rank(roster, "federer", 5)
			other := []string{"Serena Williams", "Venus Williams"}

			Convey("Then the new names are used", func() {
				name, _ := r.Resolve(other, "serena williams")
				So(name, ShouldEqual, "Serena Williams")
				So(r.Rank(other, "venus", 1)[0].Name, ShouldEqual, "Venus Williams")
			})
		})
	})
}

func TestWRatio(t *testing.T) {
	Convey("Given pairs of names", t, func() {
		Convey("Then identical names score 100 regardless of case and punctuation", func() {
			So(resolve.WRatio("Jo-Wilfried Tsonga", "jo wilfried tsonga"), ShouldEqual, 100)
		})

		Convey("Then reordered tokens still score highly", func() {
			So(resolve.WRatio("Nadal Rafael", "Rafael Nadal"), ShouldBeGreaterThanOrEqualTo, 90)
		})

		Convey("Then a closer string scores at least as high", func() {
			So(resolve.WRatio("Novak Djokovich", "Novak Djokovic"), ShouldBeGreaterThan, resolve.WRatio("Novak Djokovich", "Andy Murray"))
		})

		Convey("Then empty input scores zero", func() {
			So(resolve.WRatio("", "Rafael Nadal"), ShouldEqual, 0)
			So(resolve.WRatio("!!!", "Rafael Nadal"), ShouldEqual, 0)
		})

		Convey("Then scores are bounded", func() {
			for _, q := range []string{"a", "federer", "xyzzy", "rafael nadal parera"} {
				s := resolve.WRatio(q, "Rafael Nadal")
				So(s, ShouldBeBetweenOrEqual, 0, 100)
			}
		})
	})
}
