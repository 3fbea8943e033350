package domain

import (
	"fmt"

	"github.com/newobj/dexpack/internal/config"
	m "github.com/newobj/dexpack/internal/model"
)

// Plugin is an external class-set mutator bracketing a pack run. Configure
// runs once per plugin before classification, Cleanup once after packing,
// both in registration order. Plugins may mutate the scope during Configure
// and must not retain it past the hook. An error from either hook aborts
// the whole pass.
type Plugin interface {
	Name() string
	Configure(scope *m.Scope, cfg *config.Config) error
	Cleanup(scope *m.Scope) error
}

// PluginRegistry holds plugins in their configured invocation order.
type PluginRegistry struct {
	plugins []Plugin
}

// NewPluginRegistry constructs an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{}
}

// Register appends a plugin to the invocation order.
func (r *PluginRegistry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// Plugins returns the ordered plugin snapshot for one pass invocation.
func (r *PluginRegistry) Plugins() []Plugin {
	snapshot := make([]Plugin, len(r.plugins))
	copy(snapshot, r.plugins)

	return snapshot
}

// defaultRegistry is the process-wide registry external plugins register
// into, typically from their package init.
var defaultRegistry = NewPluginRegistry()

// Register adds a plugin to the process-wide registry.
func Register(plugin Plugin) {
	defaultRegistry.Register(plugin)
}

// RegisteredPlugins returns the process-wide plugin snapshot.
func RegisteredPlugins() []Plugin {
	return defaultRegistry.Plugins()
}

// configurePlugins runs every Configure hook in order, failing fast.
func configurePlugins(plugins []Plugin, scope *m.Scope, cfg *config.Config) error {
	for _, plugin := range plugins {
		if err := plugin.Configure(scope, cfg); err != nil {
			return fmt.Errorf("plugin %s configure: %w", plugin.Name(), err)
		}
	}

	return nil
}

// cleanupPlugins runs every Cleanup hook in order, failing fast.
func cleanupPlugins(plugins []Plugin, scope *m.Scope) error {
	for _, plugin := range plugins {
		if err := plugin.Cleanup(scope); err != nil {
			return fmt.Errorf("plugin %s cleanup: %w", plugin.Name(), err)
		}
	}

	return nil
}
