package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/newobj/dexpack/internal/model"
)

const (
	layoutFileName = "layout.yaml"
	layoutFileMode = 0o644
	layoutDirMode  = 0o755
)

// LayoutStore persists and retrieves layout reports produced by a pack run.
type LayoutStore interface {
	SaveLayout(dir m.Path, report *m.LayoutReport) error
	LoadLayout(dir m.Path) (*m.LayoutReport, error)
}

// LocalLayoutStore stores layout reports as YAML under a reports directory.
type LocalLayoutStore struct{}

// NewLocalLayoutStore constructs a LocalLayoutStore.
func NewLocalLayoutStore() *LocalLayoutStore {
	return &LocalLayoutStore{}
}

// SaveLayout writes the report to <dir>/layout.yaml, creating the
// directory when needed.
func (s *LocalLayoutStore) SaveLayout(dir m.Path, report *m.LayoutReport) error {
	if err := os.MkdirAll(string(dir), layoutDirMode); err != nil {
		return fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode layout report: %w", err)
	}

	path := filepath.Join(string(dir), layoutFileName)
	if err := os.WriteFile(path, data, layoutFileMode); err != nil {
		return fmt.Errorf("write layout report %s: %w", path, err)
	}

	return nil
}

// LoadLayout reads a previously saved layout report from dir.
func (s *LocalLayoutStore) LoadLayout(dir m.Path) (*m.LayoutReport, error) {
	path := filepath.Join(string(dir), layoutFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout report %s: %w", path, err)
	}

	var report m.LayoutReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode layout report %s: %w", path, err)
	}

	return &report, nil
}
