package graph

import "errors"

// Sentinel kinds for graph bookkeeping errors.
var (
	// ErrDegreeUnderflow marks a -1 delta applied to a vertex already at
	// degree zero. It signals a defect in edge-store/ledger coordination and
	// must never occur in correct operation.
	ErrDegreeUnderflow = errors.New("degree underflow")

	// ErrInvalidDelta marks a degree delta other than +1 or -1.
	ErrInvalidDelta = errors.New("invalid degree delta")
)
