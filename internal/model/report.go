package model

// UnitSummary describes one packed unit in a layout report.
type UnitSummary struct {
	Index   int      `json:"index"`
	Status  string   `json:"status"`
	Size    int64    `json:"size"`
	Canary  string   `json:"canary,omitempty"`
	Classes []string `json:"classes"`
	// Oversized marks a unit holding a single class whose own weight
	// exceeds the configured ceiling.
	Oversized bool `json:"oversized,omitempty"`
}

// StoreLayout holds the packed layout of a single store.
type StoreLayout struct {
	Store string        `json:"store"`
	Units []UnitSummary `json:"units"`
}

// LayoutReport is the persisted result of one pack run: the per-store unit
// layout plus the pass metrics, viewable later without re-running the pass.
type LayoutReport struct {
	// Skipped records that the pass did not run because the upstream
	// reachability precondition was missing. A legitimate no-op, not an
	// error.
	Skipped bool             `json:"skipped,omitempty"`
	Stores  []StoreLayout    `json:"stores"`
	Metrics map[string]int64 `json:"metrics"`
}

// TotalUnits returns the number of units across all stores in the report.
func (r *LayoutReport) TotalUnits() int {
	total := 0
	for _, store := range r.Stores {
		total += len(store.Units)
	}

	return total
}
