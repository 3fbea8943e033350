// Package model defines the data structures for dex layout packing.
package model

import (
	"errors"
	"fmt"
)

// DexStatus identifies the priority segment a class or dex unit belongs to.
// Lower values are packed earlier and kept contiguous in the final layout.
type DexStatus int

// Available DexStatus values, in placement order.
const (
	DefaultDex DexStatus = iota
	FirstColdStartDex
	FirstExtendedDex
	ScrollDex
)

// ErrUnknownStatus reports a status name absent from the fixed name table.
var ErrUnknownStatus = errors.New("unknown dex status")

// statusNames is the fixed table mapping configuration names to statuses.
// It is populated once and never mutated after init.
var statusNames = map[string]DexStatus{
	"first_coldstart_dex": FirstColdStartDex,
	"first_extended_dex":  FirstExtendedDex,
	"scroll_dex":          ScrollDex,
}

// String returns the configuration name of the status, or "default" for
// the unnamed default segment.
func (s DexStatus) String() string {
	switch s {
	case FirstColdStartDex:
		return "first_coldstart_dex"
	case FirstExtendedDex:
		return "first_extended_dex"
	case ScrollDex:
		return "scroll_dex"
	case DefaultDex:
		return "default"
	}

	return fmt.Sprintf("DexStatus(%d)", int(s))
}

// StatusFromName resolves a configuration status name. There is no dynamic
// registration; a name outside the built-in table is a configuration error.
func StatusFromName(name string) (DexStatus, error) {
	status, ok := statusNames[name]
	if !ok {
		return DefaultDex, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}

	return status, nil
}

// StatusSet is a set of dex statuses the packer must honor as distinct,
// pre-allocated output groups.
type StatusSet map[DexStatus]struct{}

// Has reports whether the set contains the given status.
func (s StatusSet) Has(status DexStatus) bool {
	_, ok := s[status]
	return ok
}

// StatusesFromNames resolves an ordered sequence of status names into a set.
// It fails on the first unknown name and returns no partial result, so a
// typo in configuration can never silently shrink the segment set.
func StatusesFromNames(names []string) (StatusSet, error) {
	set := make(StatusSet, len(names))

	for _, name := range names {
		status, err := StatusFromName(name)
		if err != nil {
			return nil, err
		}

		set[status] = struct{}{}
	}

	return set, nil
}
