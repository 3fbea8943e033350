package model

import "fmt"

// Path represents a file system path.
type Path string

// DexClass is a single compiled class as seen by the packer. Identity is by
// Name; no two classes in one scope share a name. The packer only reads and
// regroups classes, it never rewrites their content.
type DexClass struct {
	// Name is the qualified class descriptor, e.g. "Lcom/foo/Bar;".
	Name string `json:"name"`
	// Weight is the class's linear-alloc cost counted against the unit ceiling.
	Weight int64 `json:"weight"`
	// MixedMode is the explicit mixed-mode flag settable by an earlier stage.
	MixedMode bool `json:"mixed_mode,omitempty"`
	// Status is the pre-existing segment tag carried over from upstream.
	Status DexStatus `json:"status,omitempty"`
	// Unreachable is the reachability oracle's verdict for static pruning.
	Unreachable bool `json:"unreachable,omitempty"`
	// Canary marks a synthesized unit-boundary marker class.
	Canary bool `json:"canary,omitempty"`
}

// canaryNameFormat mirrors the marker class naming the runtime probes for.
const canaryNameFormat = "Lsecondary/dex%02d/Canary;"

// NewCanaryClass synthesizes the marker class for the unit at the given
// position. Canaries carry no weight of their own.
func NewCanaryClass(unitIndex int) *DexClass {
	return &DexClass{
		Name:   fmt.Sprintf(canaryNameFormat, unitIndex),
		Canary: true,
	}
}
