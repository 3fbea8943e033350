package model

// DexUnit is one size-bounded packed output file. Classes keep their input
// order; units hold pointers into the owning scope, never copies.
type DexUnit struct {
	// Status tags the segment this unit serves.
	Status DexStatus `json:"status,omitempty"`
	// Classes is the ordered members, canary (if any) first.
	Classes []*DexClass `json:"classes"`
}

// Size returns the cumulative weight of the unit's members.
func (u *DexUnit) Size() int64 {
	var size int64
	for _, cls := range u.Classes {
		size += cls.Weight
	}

	return size
}

// DexStore is an ordered group of dex units. Only root stores are repacked;
// non-root stores pass through a run untouched.
type DexStore struct {
	Name  string    `json:"name"`
	Root  bool      `json:"root,omitempty"`
	Dexen []DexUnit `json:"dexen"`
}

// Classes returns the store's classes flattened in dex order.
func (s *DexStore) Classes() []*DexClass {
	var classes []*DexClass
	for i := range s.Dexen {
		classes = append(classes, s.Dexen[i].Classes...)
	}

	return classes
}

// Manifest describes the full input to one pass: the ordered stores plus
// the flag recording that the upstream whole-program reachability analysis
// ran. Without that analysis the pass is skipped entirely.
type Manifest struct {
	ReachabilityAnalyzed bool       `json:"reachability_analyzed"`
	Stores               []DexStore `json:"stores"`
}

// RootStore returns the first root store, or nil when the manifest has none.
func (m *Manifest) RootStore() *DexStore {
	for i := range m.Stores {
		if m.Stores[i].Root {
			return &m.Stores[i]
		}
	}

	return nil
}
