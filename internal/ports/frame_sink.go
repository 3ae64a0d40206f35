package ports

import (
	"context"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// FrameSink is the downstream consumer of the framed stream. Write is the
// ready side of the ready/valid handshake: it blocks while the sink cannot
// accept the beat and returns nil once the beat has been accepted. A
// returned error means the beat was not accepted; the caller must present
// the same beat again or abandon the stream, never skip it.
type FrameSink interface {
	Write(ctx context.Context, f domain.Frame) error

	// Close flushes and releases the sink.
	Close() error
}
