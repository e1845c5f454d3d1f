package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithPrometheusRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("suite"),
		WithHistogramBuckets([]float64{1, 5, 10}),
	)
	if m == nil {
		t.Fatal("manager is nil")
	}
	if m.namespace != "test" || m.subsystem != "suite" {
		t.Errorf("unexpected namespace/subsystem: %s/%s", m.namespace, m.subsystem)
	}
}

func TestGlobalHelpersDoNotPanic(t *testing.T) {
	RecordEventAccepted()
	RecordEventRejected()
	RecordEventSelfLoop()
	RecordEventDuplicate()
	RecordEdgeCreated()
	RecordEdgesEvicted(3)
	UpdateActiveEdges(5)
	UpdateActiveVertices(6)
	UpdateCurrentMedian(1.5)
	RecordProcessLatency(0.2)
	UpdateQueueSize(10)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.1)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	RecordSampleRecorded()
	UpdateRetainedSamples(7)
	UpdateSystemMemoryUsage(1024)
	UpdateSystemGoroutineCount(12)
	RecordSystemGCPauseTime(0.5)
	RecordHTTPRequest("events", "POST", "202")
	RecordHTTPRequestDuration("events", "POST", "202", 1.2)

	if GetRegistry() == nil {
		t.Fatal("registry is nil")
	}
	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}
