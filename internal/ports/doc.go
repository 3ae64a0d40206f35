// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// The application core (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations: websocket and replay feeds, byte-stream sinks, the status
// file, zerolog.
//
// # Port Interfaces
//
//   - [RecordSource]: supplies BBO records from an upstream feed
//   - [FrameSink]: consumes stream beats under backpressure
//   - [StatusRepository]: persists and loads bridge status
//   - [Logger]: structured logging abstraction
package ports
