package queue_test

import (
	"context"
	"fmt"
	"testing"

	queue "github.com/okian/medgraph/internal/adapters/mq/queue"
	"github.com/okian/medgraph/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing and dequeuing events", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(8))
			ev := model.Event{EventID: "e1", Actor: "a", Target: "b", TS: 1}

			So(q.Enqueue(ctx, ev), ShouldBeNil)
			So(q.Len(ctx), ShouldEqual, 1)

			got := <-q.Dequeue(ctx)

			Convey("Then the event should round-trip intact", func() {
				So(got, ShouldResemble, ev)
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue reaches capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(q.Enqueue(ctx, model.Event{EventID: "e1"}), ShouldBeNil)
			So(q.Enqueue(ctx, model.Event{EventID: "e2"}), ShouldBeNil)

			Convey("Then further enqueues should be refused as full", func() {
				err := q.Enqueue(ctx, model.Event{EventID: "e3"})
				So(err, ShouldWrap, queue.ErrQueueFull)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			So(q.Enqueue(ctx, model.Event{EventID: "e1"}), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues should be refused but the backlog drains", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, model.Event{EventID: "e2"}), ShouldWrap, queue.ErrQueueClosed)

				ev, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(ev.EventID, ShouldEqual, "e1")

				_, ok = <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse) // channel closed after drain
			})

			Convey("And closing twice should report the closed state", func() {
				So(q.Close(), ShouldWrap, queue.ErrQueueClosed)
			})
		})

		Convey("When the caller's context is already canceled", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			canceled, cancel := context.WithCancel(context.Background())
			cancel()

			Convey("Then a full queue should surface the context error", func() {
				So(q.Enqueue(ctx, model.Event{EventID: "e1"}), ShouldBeNil)
				So(q.Enqueue(canceled, model.Event{EventID: "e2"}), ShouldNotBeNil)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When events are consumed in order", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(16))
			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, model.Event{EventID: fmt.Sprintf("e%d", i)}), ShouldBeNil)
			}
			So(q.Close(), ShouldBeNil)

			Convey("Then dequeue order should be FIFO", func() {
				i := 0
				for ev := range q.Dequeue(ctx) {
					So(ev.EventID, ShouldEqual, fmt.Sprintf("e%d", i))
					i++
				}
				So(i, ShouldEqual, 10)
			})
		})
	})
}
