package domain

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/newobj/dexpack/internal/adapter"
	"github.com/newobj/dexpack/internal/config"
	"github.com/newobj/dexpack/internal/controller"
	"github.com/newobj/dexpack/internal/metrics"
	m "github.com/newobj/dexpack/internal/model"
)

type workflowFixture struct {
	workflow  Workflow
	manifests adapter.ManifestStore
	out       *bytes.Buffer
	dir       string
}

func newWorkflowFixture(t *testing.T, cfg *config.Config) *workflowFixture {
	t.Helper()

	cfg = validConfig(t, cfg)

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	manifests := adapter.NewLocalManifestStore()
	layouts := adapter.NewLocalLayoutStore()
	classifier := NewMixedModeClassifier(cfg, adapter.NewLocalClassListReader(), nil)
	packer := NewPacker(cfg, nil)
	orch := NewOrchestrator(cfg, classifier, packer, nil, metrics.NewSink(), nil)

	return &workflowFixture{
		workflow:  NewWorkflow(manifests, layouts, controller.NewSimpleUI(cmd), orch),
		manifests: manifests,
		out:       out,
		dir:       t.TempDir(),
	}
}

func (f *workflowFixture) writeManifest(t *testing.T, name string, manifest *m.Manifest) m.Path {
	t.Helper()

	path := m.Path(filepath.Join(f.dir, name))
	if err := f.manifests.Save(path, manifest); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	return path
}

func twoUnitManifest() *m.Manifest {
	return &m.Manifest{
		ReachabilityAnalyzed: true,
		Stores: []m.DexStore{{
			Name: "dex",
			Root: true,
			Dexen: []m.DexUnit{
				{Classes: []*m.DexClass{{Name: "La/Main;", Weight: 1}}},
				{Classes: []*m.DexClass{
					{Name: "La/One;", Weight: 1},
					{Name: "La/Two;", Weight: 1},
					{Name: "La/Three;", Weight: 1},
				}},
			},
		}},
	}
}

func TestWorkflow_Pack(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, &config.Config{LinearAllocLimit: 2, EmitCanaries: true})

	input := f.writeManifest(t, "in.json", twoUnitManifest())
	output := m.Path(filepath.Join(f.dir, "out.json"))
	reports := m.Path(filepath.Join(f.dir, "reports"))

	err := f.workflow.Pack(PackArgs{Manifest: input, Output: output, Reports: reports})
	if err != nil {
		t.Fatalf("Pack error = %v", err)
	}

	packed, err := f.manifests.Load(output)
	if err != nil {
		t.Fatalf("load packed manifest: %v", err)
	}

	// Primary plus two secondary units of ceiling 2 for three classes.
	if got := len(packed.Stores[0].Dexen); got != 3 {
		t.Fatalf("packed unit count = %d, want 3", got)
	}

	if packed.Stores[0].Dexen[1].Classes[0].Name != "Lsecondary/dex01/Canary;" {
		t.Fatalf("first secondary unit lacks its canary: %v",
			packed.Stores[0].Dexen[1].Classes[0].Name)
	}

	if _, err := os.Stat(filepath.Join(string(reports), "layout.yaml")); err != nil {
		t.Fatalf("layout report not written: %v", err)
	}

	// tablewriter upcases footer cells when rendering.
	rendered := f.out.String()
	if !strings.Contains(strings.ToUpper(rendered), "TOTAL UNITS 3") {
		t.Fatalf("layout summary not rendered:\n%s", rendered)
	}

	if !strings.Contains(rendered, metrics.ColdStartSetDexCount) {
		t.Fatalf("metrics missing from summary:\n%s", rendered)
	}
}

func TestWorkflow_Pack_SkippedWritesNothing(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, &config.Config{})

	manifest := twoUnitManifest()
	manifest.ReachabilityAnalyzed = false

	input := f.writeManifest(t, "in.json", manifest)
	output := m.Path(filepath.Join(f.dir, "out.json"))
	reports := m.Path(filepath.Join(f.dir, "reports"))

	err := f.workflow.Pack(PackArgs{Manifest: input, Output: output, Reports: reports})
	if err != nil {
		t.Fatalf("Pack error = %v", err)
	}

	if _, err := os.Stat(string(output)); !os.IsNotExist(err) {
		t.Fatalf("skipped pack wrote an output manifest")
	}

	if _, err := os.Stat(string(reports)); !os.IsNotExist(err) {
		t.Fatalf("skipped pack wrote a layout report")
	}

	if !strings.Contains(f.out.String(), "skipped") {
		t.Fatalf("skip not reported:\n%s", f.out.String())
	}
}

func TestWorkflow_Plan_IsReadOnly(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, &config.Config{LinearAllocLimit: 2})

	original := twoUnitManifest()
	input := f.writeManifest(t, "in.json", original)

	before, err := os.ReadFile(string(input))
	if err != nil {
		t.Fatalf("read input: %v", err)
	}

	if err := f.workflow.Plan(PlanArgs{Manifest: input}); err != nil {
		t.Fatalf("Plan error = %v", err)
	}

	after, err := os.ReadFile(string(input))
	if err != nil {
		t.Fatalf("re-read input: %v", err)
	}

	if !bytes.Equal(before, after) {
		t.Fatalf("plan modified the input manifest")
	}

	if !strings.Contains(strings.ToUpper(f.out.String()), "TOTAL UNITS") {
		t.Fatalf("plan summary not rendered:\n%s", f.out.String())
	}
}

func TestWorkflow_View(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, &config.Config{})

	reports := m.Path(filepath.Join(f.dir, "reports"))

	layouts := adapter.NewLocalLayoutStore()
	err := layouts.SaveLayout(reports, &m.LayoutReport{
		Stores: []m.StoreLayout{{
			Store: "dex",
			Units: []m.UnitSummary{{Index: 0, Status: "default", Size: 3}},
		}},
		Metrics: map[string]int64{metrics.ScrollSetDexCount: 0},
	})
	if err != nil {
		t.Fatalf("seed layout report: %v", err)
	}

	if err := f.workflow.View(ViewArgs{Reports: reports}); err != nil {
		t.Fatalf("View error = %v", err)
	}

	if !strings.Contains(strings.ToUpper(f.out.String()), "TOTAL UNITS 1") {
		t.Fatalf("view did not render the saved layout:\n%s", f.out.String())
	}
}

func TestWorkflow_View_MissingReport(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, &config.Config{})

	err := f.workflow.View(ViewArgs{Reports: m.Path(filepath.Join(f.dir, "nope"))})
	if err == nil {
		t.Fatalf("expected error for missing layout report")
	}
}
