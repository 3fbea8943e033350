package domain

import (
	"fmt"

	"github.com/newobj/dexpack/internal/adapter"
	"github.com/newobj/dexpack/internal/controller"
	m "github.com/newobj/dexpack/internal/model"
)

// PackArgs drives a full pack run.
type PackArgs struct {
	// Manifest is the input store manifest.
	Manifest m.Path
	// Output receives the repacked manifest.
	Output m.Path
	// Reports is the directory the layout report is written to.
	Reports m.Path
}

// PlanArgs drives a dry run: classification and packing without writes.
type PlanArgs struct {
	Manifest m.Path
}

// ViewArgs selects a previously written layout report.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the CLI-facing layout operations.
type Workflow interface {
	Pack(args PackArgs) error
	Plan(args PlanArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	manifests adapter.ManifestStore
	layouts   adapter.LayoutStore
	ui        controller.UI
	orch      Orchestrator
}

// NewWorkflow creates a Workflow over the provided adapters and pass
// orchestrator.
func NewWorkflow(
	manifests adapter.ManifestStore,
	layouts adapter.LayoutStore,
	ui controller.UI,
	orch Orchestrator,
) Workflow {
	return &workflow{
		manifests: manifests,
		layouts:   layouts,
		ui:        ui,
		orch:      orch,
	}
}

// Pack runs the layout pass, writes the repacked manifest and the layout
// report, and prints the layout summary.
func (w *workflow) Pack(args PackArgs) error {
	manifest, err := w.manifests.Load(args.Manifest)
	if err != nil {
		return err
	}

	report, err := w.orch.RunPass(manifest)
	if err != nil {
		return err
	}

	if report.Skipped {
		w.ui.DisplaySkip("no reachability analysis in manifest, nothing to do")
		return nil
	}

	if err := w.manifests.Save(args.Output, manifest); err != nil {
		return err
	}

	if err := w.layouts.SaveLayout(args.Reports, report); err != nil {
		return fmt.Errorf("save layout report: %w", err)
	}

	return w.ui.DisplayLayout(report)
}

// Plan runs the same pipeline without persisting anything and prints the
// per-segment unit estimate.
func (w *workflow) Plan(args PlanArgs) error {
	manifest, err := w.manifests.Load(args.Manifest)
	if err != nil {
		return err
	}

	report, err := w.orch.RunPass(manifest)
	if err != nil {
		return err
	}

	if report.Skipped {
		w.ui.DisplaySkip("no reachability analysis in manifest, nothing to do")
		return nil
	}

	return w.ui.DisplayPlan(report)
}

// View loads a saved layout report and opens the layout browser.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.layouts.LoadLayout(args.Reports)
	if err != nil {
		return err
	}

	return w.ui.BrowseLayout(report)
}
