package bbobridge

import (
	"context"

	"github.com/bft-labs/bbobridge/internal/status"
	"github.com/bft-labs/bbobridge/pkg/log"
)

// PluginConfig is passed to every plugin on initialization.
type PluginConfig struct {
	// StateDir is the bridge's state directory.
	StateDir string

	// Registers exposes the bridge's runtime control registers. Plugins may
	// flip the enable register or swap the symbol filter at any time.
	Registers *status.Registers

	// Logger is the bridge's logger.
	Logger log.Logger
}

// Plugin extends a Bridge with optional behavior. Plugins are initialized in
// registration order when the bridge starts and shut down in reverse order
// when it stops.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize starts the plugin. The context is canceled when the bridge
	// stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}
