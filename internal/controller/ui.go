// Package controller provides output adapters for displaying dex layout
// results.
package controller

import (
	m "github.com/newobj/dexpack/internal/model"
)

// UI defines the interface for displaying layout results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayLayout shows the per-unit layout of a pack run.
	DisplayLayout(report *m.LayoutReport) error
	// DisplayPlan shows the per-segment unit estimate of a dry run.
	DisplayPlan(report *m.LayoutReport) error
	// DisplaySkip reports that the pass was a legitimate no-op.
	DisplaySkip(reason string)
	// BrowseLayout opens a saved layout report for inspection.
	BrowseLayout(report *m.LayoutReport) error
}
