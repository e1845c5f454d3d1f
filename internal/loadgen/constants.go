package loadgen

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Runner configuration constants.
const (
	ProcessingWaitDelay  = 3 * time.Second
	PercentageMultiplier = 100
)
