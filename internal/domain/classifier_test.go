package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/newobj/dexpack/internal/config"
	m "github.com/newobj/dexpack/internal/model"
)

// stubClassList serves a fixed name list, standing in for the file reader.
type stubClassList struct {
	names []string
	err   error
}

func (s *stubClassList) Read(path m.Path) ([]string, error) {
	return s.names, s.err
}

func validConfig(t *testing.T, cfg *config.Config) *config.Config {
	t.Helper()

	if cfg.LinearAllocLimit == 0 {
		cfg.LinearAllocLimit = config.DefaultLinearAllocLimit
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error = %v", err)
	}

	return cfg
}

func flaggedStore(classes ...*m.DexClass) *m.DexStore {
	return &m.DexStore{
		Name:  "dex",
		Root:  true,
		Dexen: []m.DexUnit{{Classes: classes}},
	}
}

func TestClassify_StatusSetTakesPriority(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t, &config.Config{
		MixedModeDexes:    []string{"scroll_dex"},
		ScrollClassesFile: "ignored.txt",
	})

	flagged := &m.DexClass{Name: "La/Flagged;", MixedMode: true}
	store := flaggedStore(flagged)
	scope := m.NewScope(store.Classes())

	// The file reader would fail if consulted; the status set wins.
	classifier := NewMixedModeClassifier(cfg, &stubClassList{err: errors.New("boom")}, nil)

	classification, err := classifier.Classify(scope, store)
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}

	if !classification.IsStatusBased() {
		t.Fatalf("expected status-based classification")
	}

	if !classification.Statuses.Has(m.ScrollDex) {
		t.Fatalf("status set missing scroll_dex")
	}

	if classification.Contains(flagged) {
		t.Fatalf("class set populated despite status set")
	}
}

func TestClassify_FromFile(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t, &config.Config{ScrollClassesFile: "mixed.txt"})

	listed := &m.DexClass{Name: "La/Listed;"}
	other := &m.DexClass{Name: "La/Other;", MixedMode: true}
	store := flaggedStore(listed, other)
	scope := m.NewScope(store.Classes())

	var diag bytes.Buffer

	classifier := NewMixedModeClassifier(cfg, &stubClassList{
		names: []string{"La/Listed;", "La/Gone;"},
	}, &diag)

	classification, err := classifier.Classify(scope, store)
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}

	if classification.IsStatusBased() {
		t.Fatalf("unexpected status-based classification")
	}

	if !classification.Contains(listed) {
		t.Fatalf("listed class missing from class set")
	}

	// The file is authoritative; the per-class flag is not consulted.
	if classification.Contains(other) {
		t.Fatalf("flagged class leaked into file-based class set")
	}

	if !strings.Contains(diag.String(), "La/Gone;") {
		t.Fatalf("unresolvable entry not reported, diag = %q", diag.String())
	}
}

func TestClassify_DuplicateFileEntryFails(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t, &config.Config{ScrollClassesFile: "mixed.txt"})

	listed := &m.DexClass{Name: "La/Listed;"}
	store := flaggedStore(listed)
	scope := m.NewScope(store.Classes())

	classifier := NewMixedModeClassifier(cfg, &stubClassList{
		names: []string{"La/Listed;", "La/Listed;"},
	}, nil)

	_, err := classifier.Classify(scope, store)
	if !errors.Is(err, ErrDuplicateClassEntry) {
		t.Fatalf("Classify error = %v, want ErrDuplicateClassEntry", err)
	}
}

func TestClassify_MissingFileMeansEmptySet(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t, &config.Config{ScrollClassesFile: "absent.txt"})

	flagged := &m.DexClass{Name: "La/Flagged;", MixedMode: true}
	store := flaggedStore(flagged)
	scope := m.NewScope(store.Classes())

	// Reader reports a missing file as an empty list. The flag scan must
	// not kick in as a fallback once a file is configured.
	classifier := NewMixedModeClassifier(cfg, &stubClassList{}, nil)

	classification, err := classifier.Classify(scope, store)
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}

	if classification.Contains(flagged) {
		t.Fatalf("flag scan ran despite configured class list file")
	}
}

func TestClassify_FlagScanFallback(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t, &config.Config{
		CanTouchColdStartCls:         true,
		CanTouchColdStartExtendedCls: true,
	})

	flagged := &m.DexClass{Name: "La/Flagged;", MixedMode: true}
	plain := &m.DexClass{Name: "La/Plain;"}
	store := flaggedStore(flagged, plain)
	scope := m.NewScope(store.Classes())

	classifier := NewMixedModeClassifier(cfg, &stubClassList{err: errors.New("not consulted")}, nil)

	classification, err := classifier.Classify(scope, store)
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}

	if !classification.Contains(flagged) || classification.Contains(plain) {
		t.Fatalf("flag scan picked the wrong classes")
	}

	if !classification.CanTouchColdStart || !classification.CanTouchColdStartExtended {
		t.Fatalf("touch permissions not carried into classification")
	}
}
