package median_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	graph "github.com/okian/medgraph/internal/domain/graph"
	median "github.com/okian/medgraph/internal/domain/median"
	. "github.com/smartystreets/goconvey/convey"
)

// naiveMedian sorts the degree multiset and applies the textbook
// definition, mirroring the sort-based filters this tracker replaces.
func naiveMedian(degrees []int) (float64, bool) {
	if len(degrees) == 0 {
		return 0, false
	}
	sorted := make([]int, len(degrees))
	copy(sorted, degrees)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2]), true
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2, true
}

// harness couples a ledger to a tracker the way the window engine does.
type harness struct {
	ledger  *graph.Ledger
	tracker *median.Tracker
}

func newHarness() *harness {
	l := graph.NewLedger()
	return &harness{ledger: l, tracker: median.NewTracker(l.Histogram())}
}

func (h *harness) bump(vertex string, delta int) error {
	d, err := h.ledger.ApplyDelta(vertex, delta)
	if err != nil {
		return err
	}
	h.tracker.Apply(d)
	return nil
}

func (h *harness) degrees() []int {
	out := make([]int, 0, h.ledger.Vertices())
	for d, c := range h.ledger.Histogram().Buckets() {
		for i := 0; i < c; i++ {
			out = append(out, d)
		}
	}
	return out
}

func TestTrackerBasics(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		h := newHarness()

		Convey("When the population is empty", func() {
			m, ok := h.tracker.Median()

			Convey("Then the median should be the sentinel", func() {
				So(ok, ShouldBeFalse)
				So(m, ShouldEqual, 0)
				So(h.tracker.Population(), ShouldEqual, 0)
			})
		})

		Convey("When a single edge connects two vertices", func() {
			So(h.bump("a", +1), ShouldBeNil)
			So(h.bump("b", +1), ShouldBeNil)

			Convey("Then the median should be one", func() {
				m, ok := h.tracker.Median()
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, 1.0)
			})
		})

		Convey("When degrees form a triangle", func() {
			// (a,b), (b,c), (a,c): everyone ends at degree 2
			for _, v := range []string{"a", "b", "b", "c", "a", "c"} {
				So(h.bump(v, +1), ShouldBeNil)
			}

			Convey("Then the median should be two", func() {
				m, ok := h.tracker.Median()
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, 2.0)
			})
		})

		Convey("When the population is even with a split middle", func() {
			// degrees: a=1, b=1, c=2, d=2 -> median 1.5
			So(h.bump("a", +1), ShouldBeNil)
			So(h.bump("b", +1), ShouldBeNil)
			So(h.bump("c", +1), ShouldBeNil)
			So(h.bump("c", +1), ShouldBeNil)
			So(h.bump("d", +1), ShouldBeNil)
			So(h.bump("d", +1), ShouldBeNil)

			Convey("Then the median should average the two middles", func() {
				m, ok := h.tracker.Median()
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, 1.5)
			})
		})

		Convey("When the upper median sits in a distant bucket", func() {
			// degrees: a=1, b=3 (gap at 2) -> median 2.0
			So(h.bump("a", +1), ShouldBeNil)
			for i := 0; i < 3; i++ {
				So(h.bump("b", +1), ShouldBeNil)
			}

			Convey("Then the tracker should skip the empty bucket", func() {
				m, ok := h.tracker.Median()
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, 2.0)
			})
		})

		Convey("When the population drains back to empty", func() {
			So(h.bump("a", +1), ShouldBeNil)
			So(h.bump("b", +1), ShouldBeNil)
			So(h.bump("a", -1), ShouldBeNil)
			So(h.bump("b", -1), ShouldBeNil)

			Convey("Then the sentinel should come back", func() {
				_, ok := h.tracker.Median()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestTrackerMatchesNaiveMedian(t *testing.T) {
	Convey("Given a long randomized transition sequence", t, func() {
		rng := rand.New(rand.NewSource(1459202421))
		h := newHarness()

		// Small vertex pool forces vertices to climb and fall repeatedly.
		pool := make([]string, 12)
		for i := range pool {
			pool[i] = fmt.Sprintf("v%02d", i)
		}

		Convey("When applying 20000 random degree transitions", func() {
			mismatches := 0
			for i := 0; i < 20000; i++ {
				v := pool[rng.Intn(len(pool))]
				delta := +1
				if h.ledger.Degree(v) > 0 && rng.Intn(2) == 0 {
					delta = -1
				}
				So(h.bump(v, delta), ShouldBeNil)

				got, gotOK := h.tracker.Median()
				want, wantOK := naiveMedian(h.degrees())
				if got != want || gotOK != wantOK {
					mismatches++
				}
			}

			Convey("Then the tracker should agree with the naive median throughout", func() {
				So(mismatches, ShouldEqual, 0)
			})

			Convey("And the population should match the histogram", func() {
				So(h.tracker.Population(), ShouldEqual, h.ledger.Histogram().Population())
			})
		})
	})
}
