package ports

import (
	"context"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// RecordSource supplies BBO records from an upstream feed. It is the
// external record-producer collaborator: the bridge honors the queue's
// accept/reject decision itself, so implementations only deliver records.
type RecordSource interface {
	// Next returns the next record. It blocks until a record is available,
	// the source is exhausted (io.EOF), or ctx is canceled.
	Next(ctx context.Context) (domain.Record, error)

	// Close releases the source's resources. Next must not be called after
	// Close.
	Close() error
}
