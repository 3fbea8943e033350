// Package domain contains the core dex layout pass: classification,
// packing, plugin hooks and orchestration.
package domain

import (
	"errors"
	"fmt"
	"io"

	"github.com/newobj/dexpack/internal/adapter"
	"github.com/newobj/dexpack/internal/config"
	m "github.com/newobj/dexpack/internal/model"
)

// ErrDuplicateClassEntry reports a class listed more than once in an
// explicit classification file. That is a configuration authoring error
// and aborts the whole run.
var ErrDuplicateClassEntry = errors.New("duplicate class in mixed mode list")

// Classification is the result consumed by the packer. Exactly one of the
// two forms is populated: a status set (pre-defined dexes take priority)
// or an explicit class set with its touch permissions.
type Classification struct {
	// Statuses is the pre-defined dex status set. When non-empty it is
	// authoritative and Classes is never consulted.
	Statuses m.StatusSet

	// Classes is the explicit mixed-mode class set.
	Classes map[*m.DexClass]struct{}

	// CanTouchColdStart and CanTouchColdStartExtended gate how far the
	// class set may reach into the cold-start segments.
	CanTouchColdStart         bool
	CanTouchColdStartExtended bool
}

// IsStatusBased reports whether the status-set form is in effect.
func (c *Classification) IsStatusBased() bool {
	return len(c.Statuses) > 0
}

// Contains reports whether the explicit class set holds the given class.
func (c *Classification) Contains(cls *m.DexClass) bool {
	_, ok := c.Classes[cls]
	return ok
}

// Classifier determines which classes belong to a non-default segment.
type Classifier interface {
	Classify(scope *m.Scope, store *m.DexStore) (*Classification, error)
}

type mixedModeClassifier struct {
	cfg       *config.Config
	classList adapter.ClassListReader
	diag      io.Writer
}

// NewMixedModeClassifier constructs the classifier over the validated
// configuration. Diagnostics for skipped entries go to diag.
func NewMixedModeClassifier(cfg *config.Config, classList adapter.ClassListReader, diag io.Writer) Classifier {
	if diag == nil {
		diag = io.Discard
	}

	return &mixedModeClassifier{
		cfg:       cfg,
		classList: classList,
		diag:      diag,
	}
}

// Classify picks the classification source in precedence order: the
// pre-defined status set, then the explicit class list file, then the
// per-class mixed-mode flag scan.
func (c *mixedModeClassifier) Classify(scope *m.Scope, store *m.DexStore) (*Classification, error) {
	if statuses := c.cfg.MixedModeStatuses(); len(statuses) > 0 {
		return &Classification{Statuses: statuses}, nil
	}

	classes, err := c.collectClasses(scope, store)
	if err != nil {
		return nil, err
	}

	return &Classification{
		Classes:                   classes,
		CanTouchColdStart:         c.cfg.CanTouchColdStartCls,
		CanTouchColdStartExtended: c.cfg.CanTouchColdStartExtendedCls,
	}, nil
}

// collectClasses resolves the explicit list when one is configured,
// otherwise falls back to scanning the store for flagged classes.
func (c *mixedModeClassifier) collectClasses(scope *m.Scope, store *m.DexStore) (map[*m.DexClass]struct{}, error) {
	if c.cfg.ScrollClassesFile != "" {
		return c.classesFromFile(scope, m.Path(c.cfg.ScrollClassesFile))
	}

	classes := make(map[*m.DexClass]struct{})

	for i := range store.Dexen {
		for _, cls := range store.Dexen[i].Classes {
			if cls.MixedMode {
				classes[cls] = struct{}{}
			}
		}
	}

	return classes, nil
}

func (c *mixedModeClassifier) classesFromFile(scope *m.Scope, path m.Path) (map[*m.DexClass]struct{}, error) {
	names, err := c.classList.Read(path)
	if err != nil {
		return nil, err
	}

	classes := make(map[*m.DexClass]struct{}, len(names))

	for _, name := range names {
		cls := scope.Find(name)
		if cls == nil {
			// Upstream stages may have removed the class; a stale list
			// entry is tolerated.
			fmt.Fprintf(c.diag, "mixed mode class not in scope, skipping: %s\n", name)
			continue
		}

		if _, dup := classes[cls]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClassEntry, name)
		}

		classes[cls] = struct{}{}
	}

	return classes, nil
}
