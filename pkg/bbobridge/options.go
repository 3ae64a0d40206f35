package bbobridge

import (
	"github.com/bft-labs/bbobridge/internal/ports"
	"github.com/bft-labs/bbobridge/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// RecordSource is the interface a custom record source must satisfy.
type RecordSource = ports.RecordSource

// FrameSink is the interface a custom frame sink must satisfy.
type FrameSink = ports.FrameSink

// Option configures optional behavior of a Bridge.
type Option func(*options)

// options holds the optional configuration for a Bridge instance.
type options struct {
	logger       Logger
	eventHandler EventHandler
	plugins      []Plugin
	source       RecordSource
	sink         FrameSink
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.Noop(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for bridge events.
// Events are called synchronously from bridge goroutines.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the bridge starts.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithRecordSource injects a custom record source, overriding Config.Source.
func WithRecordSource(source RecordSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithFrameSink injects a custom frame sink, overriding Config.SinkAddr and
// Config.OutPath.
func WithFrameSink(sink FrameSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}
