package loadgen

import "time"

// Config holds configuration for the load generator
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEvents  int           // Number of events to generate
	NumActors  int           // Size of the participant pool
	Span       int64         // Window span the target service runs with
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for events
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Event represents an event to be submitted
type Event struct {
	EventID     string `json:"event_id"`
	Actor       string `json:"actor"`
	Target      string `json:"target"`
	CreatedTime string `json:"created_time"`
}

// AckResponse represents the response from event submission
type AckResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// MedianSample represents one entry returned by /median and /medians
type MedianSample struct {
	Seq            int64   `json:"seq"`
	EventID        string  `json:"event_id"`
	Median         float64 `json:"median"`
	Accepted       bool    `json:"accepted"`
	ActiveEdges    int     `json:"active_edges"`
	ActiveVertices int     `json:"active_vertices"`
}

// Stats holds run statistics
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	SamplesRetrieved int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
