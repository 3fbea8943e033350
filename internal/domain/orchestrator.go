package domain

import (
	"fmt"
	"io"

	"github.com/newobj/dexpack/internal/config"
	"github.com/newobj/dexpack/internal/metrics"
	m "github.com/newobj/dexpack/internal/model"
)

// Orchestrator drives one layout pass over a manifest: precondition check,
// plugin hooks, classification, packing and metrics publication.
type Orchestrator interface {
	RunPass(manifest *m.Manifest) (*m.LayoutReport, error)
}

type orchestrator struct {
	cfg        *config.Config
	classifier Classifier
	packer     Packer
	plugins    []Plugin
	sink       metrics.Sink
	diag       io.Writer
}

// NewOrchestrator wires the pass components together. The plugin slice is
// the invocation-ordered snapshot for this pass.
func NewOrchestrator(
	cfg *config.Config,
	classifier Classifier,
	packer Packer,
	plugins []Plugin,
	sink metrics.Sink,
	diag io.Writer,
) Orchestrator {
	if diag == nil {
		diag = io.Discard
	}

	return &orchestrator{
		cfg:        cfg,
		classifier: classifier,
		packer:     packer,
		plugins:    plugins,
		sink:       sink,
		diag:       diag,
	}
}

// RunPass repartitions every root store of the manifest in place and
// returns the layout report. Non-root stores pass through untouched. When
// the upstream reachability analysis has not run, the whole pass is a
// no-op and the returned report is marked skipped.
func (o *orchestrator) RunPass(manifest *m.Manifest) (*m.LayoutReport, error) {
	if !manifest.ReachabilityAnalyzed {
		fmt.Fprintln(o.diag, "layout pass not run: no reachability analysis was provided")

		return &m.LayoutReport{Skipped: true}, nil
	}

	scope, owner := o.buildScope(manifest)

	if err := configurePlugins(o.plugins, scope, o.cfg); err != nil {
		return nil, err
	}

	report := &m.LayoutReport{}

	var coldStartCount, scrollCount int64

	for i := range manifest.Stores {
		store := &manifest.Stores[i]
		if !store.Root {
			continue
		}

		result, err := o.runStore(store, scope, owner)
		if err != nil {
			return nil, err
		}

		coldStartCount += result.ColdStartDexCount
		scrollCount += result.ScrollDexCount

		report.Stores = append(report.Stores, o.storeLayout(store))
	}

	if err := cleanupPlugins(o.plugins, scope); err != nil {
		return nil, err
	}

	o.sink.Set(metrics.ColdStartSetDexCount, coldStartCount)
	o.sink.Set(metrics.ScrollSetDexCount, scrollCount)
	report.Metrics = o.sink.Snapshot()

	return report, nil
}

// buildScope flattens every store into the pass scope and records which
// store each class came from, so packing one store never captures classes
// owned by another.
func (o *orchestrator) buildScope(manifest *m.Manifest) (*m.Scope, map[string]int) {
	var classes []*m.DexClass

	owner := make(map[string]int)

	for i := range manifest.Stores {
		for _, cls := range manifest.Stores[i].Classes() {
			classes = append(classes, cls)
			owner[cls.Name] = i
		}
	}

	return m.NewScope(classes), owner
}

func (o *orchestrator) runStore(store *m.DexStore, scope *m.Scope, owner map[string]int) (*PackResult, error) {
	storeIndex := o.storeIndex(store, owner)

	var primary *m.DexUnit

	primaryClasses := make(map[string]struct{})

	if !o.cfg.NormalPrimaryDex && len(store.Dexen) > 0 {
		unit := store.Dexen[0]
		primary = &unit

		for _, cls := range unit.Classes {
			primaryClasses[cls.Name] = struct{}{}
		}
	}

	// Working set follows scope order, which preserves the original
	// compile order for this store's classes. Classes added to the scope
	// by plugins carry no owner and are packed here.
	var working []*m.DexClass

	for _, cls := range scope.Classes {
		if storeOf, ok := owner[cls.Name]; ok && storeOf != storeIndex {
			continue
		}

		if _, ok := primaryClasses[cls.Name]; ok {
			continue
		}

		working = append(working, cls)
		owner[cls.Name] = storeIndex
	}

	classification, err := o.classifier.Classify(scope, store)
	if err != nil {
		return nil, err
	}

	result := o.packer.Pack(primary, working, classification)
	store.Dexen = result.Dexen

	return result, nil
}

func (o *orchestrator) storeIndex(store *m.DexStore, owner map[string]int) int {
	for _, cls := range store.Classes() {
		if idx, ok := owner[cls.Name]; ok {
			return idx
		}
	}

	return -1
}

// storeLayout summarizes a repacked store for the layout report.
func (o *orchestrator) storeLayout(store *m.DexStore) m.StoreLayout {
	layout := m.StoreLayout{Store: store.Name}

	for i := range store.Dexen {
		unit := &store.Dexen[i]

		summary := m.UnitSummary{
			Index:     i,
			Status:    unit.Status.String(),
			Size:      unit.Size(),
			Oversized: unit.Size() > o.cfg.LinearAllocLimit,
		}

		for _, cls := range unit.Classes {
			if cls.Canary && summary.Canary == "" {
				summary.Canary = cls.Name
			}

			summary.Classes = append(summary.Classes, cls.Name)
		}

		layout.Units = append(layout.Units, summary)
	}

	return layout
}
