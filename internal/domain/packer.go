package domain

import (
	"fmt"
	"io"

	"github.com/newobj/dexpack/internal/config"
	m "github.com/newobj/dexpack/internal/model"
)

// packOrder is the fixed placement order of segments in the output.
var packOrder = []m.DexStatus{
	m.FirstColdStartDex,
	m.FirstExtendedDex,
	m.ScrollDex,
	m.DefaultDex,
}

// PackResult is the outcome of packing one store.
type PackResult struct {
	// Dexen is the new ordered unit sequence, primary first when one is
	// reserved.
	Dexen []m.DexUnit
	// ColdStartDexCount counts units serving the cold-start and extended
	// cold-start segments.
	ColdStartDexCount int64
	// ScrollDexCount counts units serving the scroll segment.
	ScrollDexCount int64
}

// Packer partitions an ordered class list into size-bounded dex units.
type Packer interface {
	// Pack repartitions working into units. primary, when non-nil, is the
	// reserved primary unit passed through ahead of all packed units; its
	// content follows the upstream contract and is not ceiling-checked.
	Pack(primary *m.DexUnit, working []*m.DexClass, classification *Classification) *PackResult
}

type packer struct {
	cfg  *config.Config
	diag io.Writer
}

// NewPacker constructs the greedy order-preserving packing engine.
func NewPacker(cfg *config.Config, diag io.Writer) Packer {
	if diag == nil {
		diag = io.Discard
	}

	return &packer{cfg: cfg, diag: diag}
}

func (p *packer) Pack(primary *m.DexUnit, working []*m.DexClass, classification *Classification) *PackResult {
	result := &PackResult{}

	if primary != nil {
		result.Dexen = append(result.Dexen, *primary)
	}

	if p.cfg.StaticPrune {
		working = p.prune(working, classification)
	}

	partitions := p.partition(working, classification)

	// Canary numbering is global across the store's secondary units.
	canaryIndex := 1

	for _, status := range packOrder {
		units := p.packSegment(status, partitions[status], &canaryIndex)

		switch status {
		case m.FirstColdStartDex, m.FirstExtendedDex:
			result.ColdStartDexCount += int64(len(units))
		case m.ScrollDex:
			result.ScrollDexCount += int64(len(units))
		case m.DefaultDex:
		}

		result.Dexen = append(result.Dexen, units...)
	}

	return result
}

// segmentFor places a class into its packing segment. With a status set the
// pre-existing per-class tags are authoritative, restricted to the statuses
// the set pre-allocates. With an explicit class set, listed classes move
// into the deepest cold-start segment the touch permissions allow; anything
// out of permission stays in the default segment.
func (p *packer) segmentFor(cls *m.DexClass, classification *Classification) m.DexStatus {
	if classification.IsStatusBased() {
		if classification.Statuses.Has(cls.Status) {
			return cls.Status
		}

		return m.DefaultDex
	}

	if classification.Contains(cls) {
		switch {
		case classification.CanTouchColdStart:
			return m.FirstColdStartDex
		case classification.CanTouchColdStartExtended:
			return m.FirstExtendedDex
		}
	}

	return m.DefaultDex
}

// prune drops classes the reachability oracle marked unreachable. Classes
// placed in a cold-start segment stay protected unless the corresponding
// touch permission was granted. Pruning is the only step that may remove a
// class; packing itself never drops one.
func (p *packer) prune(working []*m.DexClass, classification *Classification) []*m.DexClass {
	kept := make([]*m.DexClass, 0, len(working))

	for _, cls := range working {
		if !cls.Unreachable {
			kept = append(kept, cls)
			continue
		}

		if p.protected(cls, classification) {
			kept = append(kept, cls)
			continue
		}

		fmt.Fprintf(p.diag, "pruned unreachable class: %s\n", cls.Name)
	}

	return kept
}

func (p *packer) protected(cls *m.DexClass, classification *Classification) bool {
	switch p.segmentFor(cls, classification) {
	case m.FirstColdStartDex:
		return !p.cfg.CanTouchColdStartCls
	case m.FirstExtendedDex:
		return !p.cfg.CanTouchColdStartExtendedCls
	case m.ScrollDex, m.DefaultDex:
	}

	return false
}

// partition splits the working set by segment, preserving the original
// relative order inside every partition.
func (p *packer) partition(working []*m.DexClass, classification *Classification) map[m.DexStatus][]*m.DexClass {
	partitions := make(map[m.DexStatus][]*m.DexClass, len(packOrder))

	for _, cls := range working {
		status := p.segmentFor(cls, classification)
		partitions[status] = append(partitions[status], cls)
	}

	return partitions
}

// packSegment greedily fills units for one segment. A single class heavier
// than the ceiling is placed alone in its own oversized unit, never dropped
// and never split.
func (p *packer) packSegment(status m.DexStatus, classes []*m.DexClass, canaryIndex *int) []m.DexUnit {
	var units []m.DexUnit

	var current []*m.DexClass

	var currentSize int64

	flush := func() {
		if len(current) == 0 {
			return
		}

		units = append(units, p.finishUnit(status, current, canaryIndex))
		current = nil
		currentSize = 0
	}

	for _, cls := range classes {
		if cls.Weight > p.cfg.LinearAllocLimit {
			fmt.Fprintf(p.diag, "class %s (weight %d) exceeds linear alloc limit %d, emitting oversized unit\n",
				cls.Name, cls.Weight, p.cfg.LinearAllocLimit)

			flush()

			units = append(units, p.finishUnit(status, []*m.DexClass{cls}, canaryIndex))

			continue
		}

		if currentSize+cls.Weight > p.cfg.LinearAllocLimit {
			flush()
		}

		current = append(current, cls)
		currentSize += cls.Weight
	}

	flush()

	return units
}

func (p *packer) finishUnit(status m.DexStatus, classes []*m.DexClass, canaryIndex *int) m.DexUnit {
	if p.cfg.EmitCanaries {
		canary := m.NewCanaryClass(*canaryIndex)
		classes = append([]*m.DexClass{canary}, classes...)
	}

	*canaryIndex++

	return m.DexUnit{Status: status, Classes: classes}
}
