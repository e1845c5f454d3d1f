package model_test

import (
	"testing"

	model "github.com/okian/medgraph/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		convey.Convey("When creating a new event", func() {
			event := model.Event{
				EventID: "event-123",
				Actor:   "Jordan-Gruber",
				Target:  "Jamie-Korn",
				TS:      1459202421,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(event.EventID, convey.ShouldEqual, "event-123")
				convey.So(event.Actor, convey.ShouldEqual, "Jordan-Gruber")
				convey.So(event.Target, convey.ShouldEqual, "Jamie-Korn")
				convey.So(event.TS, convey.ShouldEqual, 1459202421)
				convey.So(event.SelfLoop(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When actor and target are identical", func() {
			event := model.Event{Actor: "Maryann-Berry", Target: "Maryann-Berry", TS: 10}

			convey.Convey("Then it should report a self loop", func() {
				convey.So(event.SelfLoop(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPair(t *testing.T) {
	convey.Convey("Given the unordered Pair constructor", t, func() {
		convey.Convey("When building pairs from both orderings", func() {
			p := model.NewPair("alice", "bob")
			q := model.NewPair("bob", "alice")

			convey.Convey("Then both orderings should normalize to the same key", func() {
				convey.So(p, convey.ShouldResemble, q)
				convey.So(p.A, convey.ShouldEqual, "alice")
				convey.So(p.B, convey.ShouldEqual, "bob")
			})
		})

		convey.Convey("When the vertices are already ordered", func() {
			p := model.NewPair("a", "z")

			convey.Convey("Then the order should be preserved", func() {
				convey.So(p.A, convey.ShouldEqual, "a")
				convey.So(p.B, convey.ShouldEqual, "z")
			})
		})
	})
}

func TestChange(t *testing.T) {
	convey.Convey("Given edge change records", t, func() {
		convey.Convey("When constructing one per operation", func() {
			pair := model.NewPair("x", "y")
			changes := []model.Change{
				{Op: model.Created, Pair: pair, TS: 1},
				{Op: model.Refreshed, Pair: pair, TS: 2},
				{Op: model.Stale, Pair: pair, TS: 1},
				{Op: model.Removed, Pair: pair, TS: 2},
			}

			convey.Convey("Then the operations should be distinct", func() {
				seen := map[model.ChangeOp]bool{}
				for _, c := range changes {
					seen[c.Op] = true
				}
				convey.So(len(seen), convey.ShouldEqual, 4)
			})
		})
	})
}
