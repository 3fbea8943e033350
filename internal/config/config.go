// Package config loads and validates the layout pass configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	m "github.com/newobj/dexpack/internal/model"
)

// DefaultLinearAllocLimit is the per-unit weight ceiling used when the
// configuration does not override it. It tracks the runtime's linear-alloc
// buffer headroom.
const DefaultLinearAllocLimit = 11600 * 1024

// Configuration keys.
const (
	keyStaticPrune          = "static_prune"
	keyEmitCanaries         = "emit_canaries"
	keyNormalPrimaryDex     = "normal_primary_dex"
	keyLinearAllocLimit     = "linear_alloc_limit"
	keyScrollClassesFile    = "scroll_classes_file"
	keyCanTouchColdStart    = "can_touch_coldstart_cls"
	keyCanTouchColdStartExt = "can_touch_coldstart_extended_cls"
	keyMixedModeDexes       = "mixed_mode_dexes"
)

// Validation errors. These are configuration authoring mistakes and abort
// the run before any packing starts.
var (
	ErrTouchPermissions = errors.New(
		"can_touch_coldstart_extended_cls needs to be true when coldstart classes can be touched")
	ErrInvalidAllocLimit = errors.New("linear_alloc_limit must be positive")
)

// Config is the validated, immutable set of packing parameters.
type Config struct {
	StaticPrune                  bool
	EmitCanaries                 bool
	NormalPrimaryDex             bool
	LinearAllocLimit             int64
	ScrollClassesFile            string
	CanTouchColdStartCls         bool
	CanTouchColdStartExtendedCls bool
	MixedModeDexes               []string

	mixedModeStatuses m.StatusSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyStaticPrune, false)
	v.SetDefault(keyEmitCanaries, true)
	v.SetDefault(keyNormalPrimaryDex, false)
	v.SetDefault(keyLinearAllocLimit, DefaultLinearAllocLimit)
	v.SetDefault(keyScrollClassesFile, "")
	v.SetDefault(keyCanTouchColdStart, false)
	v.SetDefault(keyCanTouchColdStartExt, false)
	v.SetDefault(keyMixedModeDexes, []string{})
}

// Load reads the pass configuration from the given viper instance and
// validates it. A missing implicit config file falls back to defaults; a
// missing explicitly named file is an error surfaced by viper itself.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		StaticPrune:                  v.GetBool(keyStaticPrune),
		EmitCanaries:                 v.GetBool(keyEmitCanaries),
		NormalPrimaryDex:             v.GetBool(keyNormalPrimaryDex),
		LinearAllocLimit:             v.GetInt64(keyLinearAllocLimit),
		ScrollClassesFile:            v.GetString(keyScrollClassesFile),
		CanTouchColdStartCls:         v.GetBool(keyCanTouchColdStart),
		CanTouchColdStartExtendedCls: v.GetBool(keyCanTouchColdStartExt),
		MixedModeDexes:               v.GetStringSlice(keyMixedModeDexes),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the configuration invariants and resolves the
// mixed-mode status names against the fixed status table. Touching the
// coldstart segment is permitted only together with the looser extended
// permission.
func (c *Config) Validate() error {
	if c.LinearAllocLimit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAllocLimit, c.LinearAllocLimit)
	}

	if c.CanTouchColdStartCls && !c.CanTouchColdStartExtendedCls {
		return ErrTouchPermissions
	}

	statuses, err := m.StatusesFromNames(c.MixedModeDexes)
	if err != nil {
		return fmt.Errorf("mixed_mode_dexes: %w", err)
	}

	c.mixedModeStatuses = statuses

	return nil
}

// MixedModeStatuses returns the status set resolved during validation.
// It is empty until Validate has run.
func (c *Config) MixedModeStatuses() m.StatusSet {
	return c.mixedModeStatuses
}
