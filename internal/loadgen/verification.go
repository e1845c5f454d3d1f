package loadgen

import (
	"fmt"
	"log"
	"sort"
)

// expectedMedian computes the median degree the service should report after
// all events land. The generator keeps every timestamp inside the window, so
// the final graph is simply the set of distinct participant pairs and the
// expected value is order-independent.
func expectedMedian(events []Event) float64 {
	type pair struct{ a, b string }

	edges := make(map[pair]struct{})
	for _, ev := range events {
		if ev.Actor == ev.Target {
			continue
		}
		a, b := ev.Actor, ev.Target
		if b < a {
			a, b = b, a
		}
		edges[pair{a, b}] = struct{}{}
	}

	degrees := make(map[string]int)
	for e := range edges {
		degrees[e.a]++
		degrees[e.b]++
	}
	if len(degrees) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(degrees))
	for _, d := range degrees {
		sorted = append(sorted, d)
	}
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// verifyResults compares the service's final median against the reference
// computed from the generated events, and sanity-checks the history.
func verifyResults(config *Config, events []Event, latest MedianSample, history []MedianSample, stats *Stats) error {
	log.Println("verifying results...")

	want := expectedMedian(events)
	if latest.Median != want {
		return fmt.Errorf("final median %.2f does not match expected %.2f", latest.Median, want)
	}
	log.Printf("final median verified: %.2f", want)

	// History must be newest-first with strictly decreasing sequence numbers.
	for i := 1; i < len(history); i++ {
		if history[i].Seq >= history[i-1].Seq {
			return fmt.Errorf("history out of order at index %d: seq %d after %d",
				i, history[i].Seq, history[i-1].Seq)
		}
	}
	if len(history) > 0 && history[0].Seq != latest.Seq {
		log.Printf("warning: history head seq %d behind latest %d (events still settling?)",
			history[0].Seq, latest.Seq)
	}

	stats.SamplesRetrieved = len(history)
	log.Println("result verification completed")
	return nil
}
