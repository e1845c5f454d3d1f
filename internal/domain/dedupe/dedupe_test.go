package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/medgraph/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When recording events", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the event is new", func() {
				seen := d.SeenAndRecord(context.Background(), "event-1")

				Convey("Then it should return false and record the event", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the event was already seen", func() {
				d.SeenAndRecord(context.Background(), "event-1")
				seen := d.SeenAndRecord(context.Background(), "event-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording events", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(context.Background(), "event-1")
			d.Unrecord(context.Background(), "event-1")

			Convey("Then the event should be retryable again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "event-1"), ShouldBeFalse)
			})

			Convey("And unrecording an unknown id should be a no-op", func() {
				d.Unrecord(context.Background(), "nonexistent")
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "event-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording the same id twice should be a no-op", func() {
				d.Unrecord(context.Background(), "event-1")
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the bounded capacity overflows", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(context.Background(), fmt.Sprintf("event-%d", i)), ShouldBeFalse)
			}

			Convey("Then the oldest ids should have been evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				// event-0 and event-1 evicted, so they read as unseen again.
				So(d.SeenAndRecord(context.Background(), "event-4"), ShouldBeTrue)
				So(d.SeenAndRecord(context.Background(), "event-0"), ShouldBeFalse)
			})
		})

		Convey("When ids are unrecorded before the ring wraps", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			d.SeenAndRecord(context.Background(), "a")
			d.SeenAndRecord(context.Background(), "b")
			d.Unrecord(context.Background(), "a")
			d.SeenAndRecord(context.Background(), "c")

			Convey("Then eviction should reclaim the unrecorded slot first", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(context.Background(), "b"), ShouldBeTrue)
				So(d.SeenAndRecord(context.Background(), "c"), ShouldBeTrue)
			})
		})

		Convey("When an id is retried after a backpressure rollback", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(4))
			So(d.SeenAndRecord(context.Background(), "event-x"), ShouldBeFalse)
			d.Unrecord(context.Background(), "event-x")
			So(d.SeenAndRecord(context.Background(), "event-x"), ShouldBeFalse)

			// Fill the remaining capacity so the retried id's original slot
			// reaches the eviction point.
			So(d.SeenAndRecord(context.Background(), "a"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "b"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "c"), ShouldBeFalse)

			Convey("Then the retried id should still read as a duplicate", func() {
				So(d.Size(), ShouldEqual, 4)
				So(d.SeenAndRecord(context.Background(), "event-x"), ShouldBeTrue)
			})

			Convey("And overflowing should evict the retried id before the fillers", func() {
				So(d.SeenAndRecord(context.Background(), "d"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 4)
				// event-x kept its original oldest slot, so it goes first;
				// re-admitting it then displaces the next-oldest filler.
				So(d.SeenAndRecord(context.Background(), "event-x"), ShouldBeFalse)
				So(d.SeenAndRecord(context.Background(), "b"), ShouldBeTrue)
			})
		})

		Convey("When used in unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(context.Background(), fmt.Sprintf("event-%d", i))
			}

			Convey("Then nothing should be evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})

		Convey("When accessed concurrently", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 500; i++ {
						d.SeenAndRecord(context.Background(), fmt.Sprintf("g%d-e%d", g, i))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every distinct id should be tracked once", func() {
				So(d.Size(), ShouldEqual, 4000)
			})
		})
	})
}
