// Package adapter contains persistence and infrastructure adapters for the
// dexpack CLI.
package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	m "github.com/newobj/dexpack/internal/model"
)

const manifestFileMode = 0o644

// ManifestStore loads and saves store manifests. It intentionally hides
// direct `os` access so the workflow logic can be tested without touching
// the disk.
type ManifestStore interface {
	// Load reads a single manifest file.
	Load(path m.Path) (*m.Manifest, error)

	// LoadAll reads several manifest files concurrently. Results keep the
	// order of the input paths; the first failure aborts the whole load.
	LoadAll(paths []m.Path) ([]*m.Manifest, error)

	// Save writes a manifest back to disk.
	Save(path m.Path, manifest *m.Manifest) error
}

// LocalManifestStore is the filesystem-backed ManifestStore.
type LocalManifestStore struct{}

// NewLocalManifestStore constructs a LocalManifestStore ready to be wired
// into the workflow.
func NewLocalManifestStore() *LocalManifestStore {
	return &LocalManifestStore{}
}

// Load reads and decodes one manifest file.
func (s *LocalManifestStore) Load(path m.Path) (*m.Manifest, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var manifest m.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	return &manifest, nil
}

// LoadAll reads all given manifests concurrently, keeping input order.
func (s *LocalManifestStore) LoadAll(paths []m.Path) ([]*m.Manifest, error) {
	manifests := make([]*m.Manifest, len(paths))

	var g errgroup.Group

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			manifest, err := s.Load(path)
			if err != nil {
				return err
			}

			manifests[i] = manifest

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return manifests, nil
}

// Save encodes the manifest and writes it to path.
func (s *LocalManifestStore) Save(path m.Path, manifest *m.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(string(path), data, manifestFileMode); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}
