package adapter

import (
	"path/filepath"
	"testing"

	m "github.com/newobj/dexpack/internal/model"
)

func sampleManifest(storeName string) *m.Manifest {
	return &m.Manifest{
		ReachabilityAnalyzed: true,
		Stores: []m.DexStore{
			{
				Name: storeName,
				Root: true,
				Dexen: []m.DexUnit{
					{Classes: []*m.DexClass{
						{Name: "Lcom/app/Boot;", Weight: 10, Status: m.FirstColdStartDex},
						{Name: "Lcom/app/Util;", Weight: 4, MixedMode: true},
					}},
				},
			},
		},
	}
}

func TestLocalManifestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := m.Path(filepath.Join(dir, "manifest.json"))
	store := NewLocalManifestStore()

	if err := store.Save(path, sampleManifest("dex")); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if !loaded.ReachabilityAnalyzed {
		t.Fatalf("reachability flag lost in round trip")
	}

	if len(loaded.Stores) != 1 || loaded.Stores[0].Name != "dex" || !loaded.Stores[0].Root {
		t.Fatalf("store shape lost: %+v", loaded.Stores)
	}

	classes := loaded.Stores[0].Classes()
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}

	if classes[0].Status != m.FirstColdStartDex || !classes[1].MixedMode {
		t.Fatalf("class attributes lost: %+v %+v", classes[0], classes[1])
	}
}

func TestLocalManifestStore_LoadAll_KeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewLocalManifestStore()

	names := []string{"alpha", "beta", "gamma"}
	paths := make([]m.Path, 0, len(names))

	for _, name := range names {
		path := m.Path(filepath.Join(dir, name+".json"))
		if err := store.Save(path, sampleManifest(name)); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}

		paths = append(paths, path)
	}

	manifests, err := store.LoadAll(paths)
	if err != nil {
		t.Fatalf("LoadAll error = %v", err)
	}

	for i, name := range names {
		if manifests[i].Stores[0].Name != name {
			t.Fatalf("order broken at %d: got %s, want %s", i, manifests[i].Stores[0].Name, name)
		}
	}
}

func TestLocalManifestStore_LoadAll_FailsOnMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewLocalManifestStore()

	path := m.Path(filepath.Join(dir, "ok.json"))
	if err := store.Save(path, sampleManifest("ok")); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	_, err := store.LoadAll([]m.Path{path, m.Path(filepath.Join(dir, "missing.json"))})
	if err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
